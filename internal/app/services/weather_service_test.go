package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/agronomy"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/openweather"
)

func newTestWeatherService(p WeatherProvider, repo *fakeWeatherRepo) *weatherServiceImpl {
	svc := NewWeatherService(p, repo, nil, zerolog.Nop()).(*weatherServiceImpl)
	svc.clock = fixedClock
	return svc
}

func TestWeatherCurrentFromProvider(t *testing.T) {
	repo := &fakeWeatherRepo{}
	cur := models.CurrentWeather{Temperature: 36, Humidity: 50, Description: "clear sky"}
	svc := newTestWeatherService(&fakeWeatherProvider{
		enabled: true,
		snapshot: &openweather.Snapshot{
			Location: models.WeatherLocation{Type: "Point", Name: "Pune", Coordinates: []float64{73.85, 18.52}},
			Current:  cur,
		},
	}, repo)

	resp, err := svc.Current(context.Background(), 7, 18.52, 73.85)
	require.NoError(t, err)
	assert.Equal(t, models.WeatherSourceOpenWeather, resp.DataSource)
	assert.Equal(t, "Pune", resp.Location.Name)
	assert.Equal(t, agronomy.WeatherAdvice(cur), resp.AgriculturalAdvice)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, int64(7), *repo.saved[0].UserID)
	assert.Equal(t, fixedNow, repo.saved[0].LastUpdated)
}

func TestWeatherFallsBackWithoutKey(t *testing.T) {
	repo := &fakeWeatherRepo{}
	svc := newTestWeatherService(&fakeWeatherProvider{err: openweather.ErrNoAPIKey}, repo)

	resp, err := svc.Current(context.Background(), 1, 18.52, 73.85)
	require.NoError(t, err)
	assert.Equal(t, models.WeatherSourceFallback, resp.DataSource)
	assert.Equal(t, agronomy.FallbackCurrent(), resp.Current)
	assert.Equal(t, []float64{73.85, 18.52}, resp.Location.Coordinates)

	fc, err := svc.Forecast(context.Background(), 1, 18.52, 73.85, 3)
	require.NoError(t, err)
	assert.Equal(t, models.WeatherSourceFallback, fc.DataSource)
	assert.Len(t, fc.Daily, 3)
	assert.Equal(t, fixedNow.Day(), fc.Daily[0].Date.Day())

	city, err := svc.City(context.Background(), 1, "Nashik", "IN")
	require.NoError(t, err)
	assert.Equal(t, "Nashik", city.Location.Name)

	require.Len(t, repo.saved, 3)
	assert.Equal(t, agronomy.ForecastDailyAdvice(fc.Daily[0]), repo.saved[1].AgriculturalAdvice)
}

func TestWeatherPersistFailureStillServes(t *testing.T) {
	repo := &fakeWeatherRepo{err: errors.New("disk full")}
	svc := newTestWeatherService(&fakeWeatherProvider{err: openweather.ErrNoAPIKey}, repo)

	resp, err := svc.Current(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestWeatherCancelledContextIsNotMaskedByFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newTestWeatherService(&fakeWeatherProvider{enabled: true, err: context.Canceled}, &fakeWeatherRepo{})

	_, err := svc.Current(ctx, 1, 1, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWeatherForecastTrimsToRequestedDays(t *testing.T) {
	daily := agronomy.FallbackForecast(fixedNow, 7)
	svc := newTestWeatherService(&fakeWeatherProvider{
		enabled:  true,
		forecast: &openweather.Forecast{Daily: daily, Hourly: []models.HourlyForecast{}},
	}, &fakeWeatherRepo{})

	fc, err := svc.Forecast(context.Background(), 1, 1, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, models.WeatherSourceOpenWeather, fc.DataSource)
	assert.Len(t, fc.Daily, 5)
}

func TestWeatherForecastHorizonIsBounded(t *testing.T) {
	repo := &fakeWeatherRepo{}
	svc := newTestWeatherService(&fakeWeatherProvider{err: openweather.ErrNoAPIKey}, repo)

	fc, err := svc.Forecast(context.Background(), 1, 18.52, 73.85, 2_000_000)
	require.NoError(t, err)
	assert.Len(t, fc.Daily, agronomy.MaxForecastDays)

	agri, err := svc.Agricultural(context.Background(), 18.52, 73.85, 2_000_000)
	require.NoError(t, err)
	assert.Len(t, agri.Daily, agronomy.MaxForecastDays)
}

func TestWeatherAlertsAreEmpty(t *testing.T) {
	svc := newTestWeatherService(&fakeWeatherProvider{}, &fakeWeatherRepo{})
	alerts, err := svc.Alerts(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestWeatherAgriculturalMarksFallback(t *testing.T) {
	svc := newTestWeatherService(&fakeWeatherProvider{err: openweather.ErrNoAPIKey}, &fakeWeatherRepo{})

	resp, err := svc.Agricultural(context.Background(), 1, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, models.WeatherSourceFallback, resp.DataSource)
	assert.Len(t, resp.Daily, 7)
	assert.Equal(t, agronomy.AgriculturalMetrics(resp.Current, resp.Daily), resp.Agricultural)
}
