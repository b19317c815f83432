package openweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
)

const currentJSON = `{
  "name": "Pune", "coord": {"lat": 18.52, "lon": 73.85}, "sys": {"country": "IN"},
  "main": {"temp": 31.2, "feels_like": 33.0, "humidity": 48, "pressure": 1008},
  "wind": {"speed": 4.1, "deg": 270}, "clouds": {"all": 20}, "visibility": 9000,
  "rain": {"1h": 0.6}, "weather": [{"description": "light rain", "icon": "10d"}], "dt": 1718000000
}`

func TestCurrentFormatsObservation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "18.52", r.URL.Query().Get("lat"))
		w.Write([]byte(currentJSON))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/"})
	snap, err := c.Current(context.Background(), 18.52, 73.85)
	require.NoError(t, err)

	assert.Equal(t, "Pune", snap.Location.Name)
	assert.Equal(t, []float64{73.85, 18.52}, snap.Location.Coordinates)
	assert.Equal(t, 31.2, snap.Current.Temperature)
	assert.Equal(t, 20.0, snap.Current.Cloudiness)
	assert.Equal(t, 0.6, snap.Current.Rainfall)
	assert.Equal(t, "light rain", snap.Current.Description)
	assert.Equal(t, time.Unix(1718000000, 0).UTC(), snap.ObservedAt)
}

func TestCurrentByCityQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Nashik,IN", r.URL.Query().Get("q"))
		w.Write([]byte(currentJSON))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.CurrentByCity(context.Background(), "Nashik", "IN")
	require.NoError(t, err)
}

func TestUpstreamErrorsAreExternalServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "bad", BaseURL: srv.URL})
	_, err := c.Current(context.Background(), 1, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrExternalService))
	assert.Contains(t, err.Error(), "401")
}

func TestDisabledClientDoesNotCallOut(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	assert.False(t, c.Enabled())

	_, err := c.Forecast(context.Background(), 1, 2, 3)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestForecastCapsStepCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "128", r.URL.Query().Get("cnt"))
		w.Write([]byte(`{"city":{"name":"Pune"},"list":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Forecast(context.Background(), 18.5, 73.8, 10_000)
	require.NoError(t, err)
}

func TestForecastRequestsEightStepsPerDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "24", r.URL.Query().Get("cnt"))
		w.Write([]byte(`{"city":{"name":"Pune","country":"IN","coord":{"lat":18.5,"lon":73.8}},"list":[
		  {"dt":1718000000,"main":{"temp":25,"humidity":60},"wind":{"speed":2},"pop":0.1,"weather":[{"description":"clouds","icon":"03d"}]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	fc, err := c.Forecast(context.Background(), 18.5, 73.8, 3)
	require.NoError(t, err)

	assert.Equal(t, "Pune", fc.Location.Name)
	require.Len(t, fc.Daily, 1)
	require.Len(t, fc.Hourly, 1)
	assert.Equal(t, 10.0, fc.Daily[0].ChanceOfRain)
}

func TestAggregateForecast(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	step := func(ts time.Time, temp, hum, wind, rain, pop float64, desc string) ForecastItem {
		it := ForecastItem{
			Dt:      ts.Unix(),
			Main:    mainBlock{Temp: temp, Humidity: hum},
			Wind:    windBlock{Speed: wind},
			Pop:     pop,
			Weather: []condition{{Description: desc, Icon: desc[:2]}},
		}
		if rain > 0 {
			it.Rain = &precipitation{ThreeHour: rain}
		}
		return it
	}

	items := []ForecastItem{
		step(day1.Add(3*time.Hour), 22, 70, 2.0, 1.25, 0.2, "clear"),
		step(day1.Add(6*time.Hour), 30, 61, 3.0, 0, 0.65, "rain"),
		step(day1.Add(9*time.Hour), 27, 60, 3.5, 2.0, 0.3, "rain"),
		step(day2.Add(3*time.Hour), 18, 90, 1.0, 0, 0, "fog"),
	}

	daily := AggregateForecast(items)
	require.Len(t, daily, 2)

	first := daily[0]
	assert.Equal(t, day1, first.Date)
	assert.Equal(t, models.DailyTemperature{Min: 22, Max: 30}, first.Temperature)
	assert.Equal(t, 64.0, first.Humidity)
	assert.Equal(t, 2.8, first.WindSpeed)
	assert.Equal(t, 3.3, first.Rainfall)
	assert.Equal(t, 65.0, first.ChanceOfRain)
	assert.Equal(t, "clear", first.Description)

	second := daily[1]
	assert.Equal(t, models.DailyTemperature{Min: 18, Max: 18}, second.Temperature)
	assert.Equal(t, 0.0, second.Rainfall)
	assert.Equal(t, "fog", second.Description)

	assert.Empty(t, AggregateForecast(nil))
}
