package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/agronomy"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/metrics"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/openweather"
)

const weatherProvider = "openweather"

// WeatherProvider is the upstream weather API
type WeatherProvider interface {
	Enabled() bool
	Current(ctx context.Context, lat, lon float64) (*openweather.Snapshot, error)
	CurrentByCity(ctx context.Context, city, country string) (*openweather.Snapshot, error)
	Forecast(ctx context.Context, lat, lon float64, days int) (*openweather.Forecast, error)
}

// WeatherService defines the interface for weather operations
type WeatherService interface {
	Current(ctx context.Context, userID int64, lat, lon float64) (*dto.WeatherResponse, error)
	Forecast(ctx context.Context, userID int64, lat, lon float64, days int) (*dto.ForecastResponse, error)
	City(ctx context.Context, userID int64, city, country string) (*dto.WeatherResponse, error)
	History(ctx context.Context, userID int64, page, limit int) ([]*models.WeatherData, int64, error)
	Alerts(ctx context.Context, lat, lon float64) ([]models.WeatherAlert, error)
	Agricultural(ctx context.Context, lat, lon float64, days int) (*dto.AgriculturalResponse, error)
}

// weatherServiceImpl implements the WeatherService interface
type weatherServiceImpl struct {
	provider    WeatherProvider
	weatherRepo repositories.IWeatherRepository
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	clock       Clock
}

// NewWeatherService creates a new WeatherService
func NewWeatherService(provider WeatherProvider, weatherRepo repositories.IWeatherRepository, m *metrics.Metrics, logger zerolog.Logger) WeatherService {
	return &weatherServiceImpl{
		provider:    provider,
		weatherRepo: weatherRepo,
		metrics:     m,
		logger:      logger,
	}
}

func point(lat, lon float64) models.WeatherLocation {
	return models.WeatherLocation{Type: "Point", Coordinates: []float64{lon, lat}}
}

// upstreamFailed records a provider miss; it returns ctx's error when the
// caller has gone away, in which case no fallback should be served.
func (s *weatherServiceImpl) upstreamFailed(ctx context.Context, err error, what string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.provider.Enabled() {
		s.logger.Warn().Err(err).Str("call", what).Msg("Weather provider failed, serving fallback data")
	}
	s.metrics.UpstreamFallback(weatherProvider)
	return nil
}

// current returns an observation from the provider or the local fallback
func (s *weatherServiceImpl) current(ctx context.Context, fetch func() (*openweather.Snapshot, error), fallback models.WeatherLocation) (*dto.WeatherResponse, error) {
	snap, err := fetch()
	if err != nil {
		if ctxErr := s.upstreamFailed(ctx, err, "current"); ctxErr != nil {
			return nil, ctxErr
		}
		cur := agronomy.FallbackCurrent()
		return &dto.WeatherResponse{
			Location:           fallback,
			Current:            cur,
			AgriculturalAdvice: agronomy.WeatherAdvice(cur),
			DataSource:         models.WeatherSourceFallback,
		}, nil
	}

	s.metrics.UpstreamOK(weatherProvider)
	return &dto.WeatherResponse{
		Location:           snap.Location,
		Current:            snap.Current,
		AgriculturalAdvice: agronomy.WeatherAdvice(snap.Current),
		DataSource:         models.WeatherSourceOpenWeather,
	}, nil
}

// persist stores a snapshot; a failed write is logged and the response is still served
func (s *weatherServiceImpl) persist(ctx context.Context, data *models.WeatherData) {
	data.LastUpdated = s.clock.now()
	if err := s.weatherRepo.Create(ctx, data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to store weather snapshot")
	}
}

// Current returns the observation at a coordinate and stores it
func (s *weatherServiceImpl) Current(ctx context.Context, userID int64, lat, lon float64) (*dto.WeatherResponse, error) {
	resp, err := s.current(ctx, func() (*openweather.Snapshot, error) {
		return s.provider.Current(ctx, lat, lon)
	}, point(lat, lon))
	if err != nil {
		return nil, err
	}

	cur := resp.Current
	s.persist(ctx, &models.WeatherData{
		UserID:             &userID,
		Location:           resp.Location,
		Current:            &cur,
		AgriculturalAdvice: resp.AgriculturalAdvice,
		DataSource:         resp.DataSource,
	})
	return resp, nil
}

// City returns the observation for a city name and stores it
func (s *weatherServiceImpl) City(ctx context.Context, userID int64, city, country string) (*dto.WeatherResponse, error) {
	fallback := models.WeatherLocation{Type: "Point", Coordinates: []float64{0, 0}, Name: city, Country: country}
	resp, err := s.current(ctx, func() (*openweather.Snapshot, error) {
		return s.provider.CurrentByCity(ctx, city, country)
	}, fallback)
	if err != nil {
		return nil, err
	}

	cur := resp.Current
	s.persist(ctx, &models.WeatherData{
		UserID:             &userID,
		Location:           resp.Location,
		Current:            &cur,
		AgriculturalAdvice: resp.AgriculturalAdvice,
		DataSource:         resp.DataSource,
	})
	return resp, nil
}

// forecast returns the daily forecast from the provider or the local fallback
func (s *weatherServiceImpl) forecast(ctx context.Context, lat, lon float64, days int) (*dto.ForecastResponse, error) {
	days = agronomy.ForecastDays(days)

	fc, err := s.provider.Forecast(ctx, lat, lon, days)
	if err != nil {
		if ctxErr := s.upstreamFailed(ctx, err, "forecast"); ctxErr != nil {
			return nil, ctxErr
		}
		return &dto.ForecastResponse{
			Location:   point(lat, lon),
			Daily:      agronomy.FallbackForecast(s.clock.now(), days),
			Hourly:     []models.HourlyForecast{},
			DataSource: models.WeatherSourceFallback,
		}, nil
	}

	s.metrics.UpstreamOK(weatherProvider)
	daily := fc.Daily
	if len(daily) > days {
		daily = daily[:days]
	}
	return &dto.ForecastResponse{
		Location:   fc.Location,
		Daily:      daily,
		Hourly:     fc.Hourly,
		DataSource: models.WeatherSourceOpenWeather,
	}, nil
}

// Forecast returns the daily forecast and stores it with the first day's advice
func (s *weatherServiceImpl) Forecast(ctx context.Context, userID int64, lat, lon float64, days int) (*dto.ForecastResponse, error) {
	resp, err := s.forecast(ctx, lat, lon, days)
	if err != nil {
		return nil, err
	}

	var advice models.AgriculturalAdvice
	if len(resp.Daily) > 0 {
		advice = agronomy.ForecastDailyAdvice(resp.Daily[0])
	}
	s.persist(ctx, &models.WeatherData{
		UserID:             &userID,
		Location:           resp.Location,
		Daily:              resp.Daily,
		Hourly:             resp.Hourly,
		AgriculturalAdvice: advice,
		DataSource:         resp.DataSource,
	})
	return resp, nil
}

func (s *weatherServiceImpl) History(ctx context.Context, userID int64, page, limit int) ([]*models.WeatherData, int64, error) {
	items, total, err := s.weatherRepo.History(ctx, repositories.ListParams{UserID: userID, Page: page, Limit: limit})
	if err != nil {
		return nil, 0, fmt.Errorf("error listing weather history: %w", err)
	}
	return items, total, nil
}

// Alerts returns active alerts; the provider tier in use publishes none
func (s *weatherServiceImpl) Alerts(ctx context.Context, lat, lon float64) ([]models.WeatherAlert, error) {
	return []models.WeatherAlert{}, nil
}

// Agricultural combines the current reading and the forecast into field metrics
func (s *weatherServiceImpl) Agricultural(ctx context.Context, lat, lon float64, days int) (*dto.AgriculturalResponse, error) {
	cur, err := s.current(ctx, func() (*openweather.Snapshot, error) {
		return s.provider.Current(ctx, lat, lon)
	}, point(lat, lon))
	if err != nil {
		return nil, err
	}

	fc, err := s.forecast(ctx, lat, lon, days)
	if err != nil {
		return nil, err
	}

	source := cur.DataSource
	if fc.DataSource == models.WeatherSourceFallback {
		source = models.WeatherSourceFallback
	}
	return &dto.AgriculturalResponse{
		Location:     cur.Location,
		Current:      cur.Current,
		Daily:        fc.Daily,
		Agricultural: agronomy.AgriculturalMetrics(cur.Current, fc.Daily),
		DataSource:   source,
	}, nil
}
