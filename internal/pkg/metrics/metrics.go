package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors exported on the metrics endpoint
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	upstreamCalls   *prometheus.CounterVec
	maintenanceRows *prometheus.CounterVec
}

// New registers the cropsuit collectors on a fresh registry
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "Calls to third-party providers by provider and outcome (ok, fallback).",
		}, []string{"provider", "outcome"}),
		maintenanceRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_rows_total",
			Help:      "Rows touched by the maintenance job by task.",
		}, []string{"task"}),
	}

	registry.MustRegister(m.requests, m.duration, m.upstreamCalls, m.maintenanceRows)
	return m
}

// Middleware records one observation per request. Unmatched routes are
// grouped under "unmatched" to keep label cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// UpstreamOK counts a successful provider call
func (m *Metrics) UpstreamOK(provider string) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(provider, "ok").Inc()
}

// UpstreamFallback counts a call served from local fallback data
func (m *Metrics) UpstreamFallback(provider string) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(provider, "fallback").Inc()
}

// MaintenanceRows adds rows affected by a maintenance task
func (m *Metrics) MaintenanceRows(task string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.maintenanceRows.WithLabelValues(task).Add(float64(n))
}
