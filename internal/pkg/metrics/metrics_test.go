package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("cropsuit")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/crops/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/crops/7", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/crops/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestUpstreamAndMaintenanceCounters(t *testing.T) {
	m := New("cropsuit")
	m.UpstreamOK("openweather")
	m.UpstreamFallback("openweather")
	m.UpstreamFallback("openweather")
	m.MaintenanceRows("weather_purge", 3)
	m.MaintenanceRows("weather_purge", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamCalls.WithLabelValues("openweather", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamCalls.WithLabelValues("openweather", "fallback")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.maintenanceRows.WithLabelValues("weather_purge")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.UpstreamFallback("farmonaut") })
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("cropsuit")
	m.UpstreamOK("farmonaut")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cropsuit_upstream_calls_total{outcome="ok",provider="farmonaut"} 1`)
}
