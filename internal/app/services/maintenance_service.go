package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/metrics"
)

// MaintenanceReport counts the rows touched by one maintenance pass
type MaintenanceReport struct {
	WeatherPurged          int64 `json:"weatherPurged" example:"42"`
	RecommendationsExpired int64 `json:"recommendationsExpired" example:"3"`
}

// MaintenanceService defines the interface for periodic housekeeping
type MaintenanceService interface {
	RunOnce(ctx context.Context) (*MaintenanceReport, error)
	Run(ctx context.Context, interval time.Duration)
}

// maintenanceServiceImpl implements the MaintenanceService interface
type maintenanceServiceImpl struct {
	weatherRepo repositories.IWeatherRepository
	cropRecRepo repositories.ICropRecommendationRepository
	weatherTTL  time.Duration
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	clock       Clock
}

// NewMaintenanceService creates a new MaintenanceService; weather rows older than weatherTTL are purged
func NewMaintenanceService(
	weatherRepo repositories.IWeatherRepository,
	cropRecRepo repositories.ICropRecommendationRepository,
	weatherTTL time.Duration,
	m *metrics.Metrics,
	logger zerolog.Logger,
) MaintenanceService {
	return &maintenanceServiceImpl{
		weatherRepo: weatherRepo,
		cropRecRepo: cropRecRepo,
		weatherTTL:  weatherTTL,
		metrics:     m,
		logger:      logger,
	}
}

// RunOnce purges stale weather rows and expires outdated crop recommendations
func (s *maintenanceServiceImpl) RunOnce(ctx context.Context) (*MaintenanceReport, error) {
	now := s.clock.now()
	report := &MaintenanceReport{}

	purged, err := s.weatherRepo.PurgeOlderThan(ctx, now.Add(-s.weatherTTL))
	if err != nil {
		return nil, fmt.Errorf("error purging weather data: %w", err)
	}
	report.WeatherPurged = purged
	s.metrics.MaintenanceRows("weather_purge", purged)

	expired, err := s.cropRecRepo.ExpireStale(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("error expiring crop recommendations: %w", err)
	}
	report.RecommendationsExpired = expired
	s.metrics.MaintenanceRows("recommendation_expiry", expired)

	s.logger.Info().
		Int64("weatherPurged", purged).
		Int64("recommendationsExpired", expired).
		Msg("Maintenance pass completed")
	return report, nil
}

// Run repeats RunOnce every interval until ctx is cancelled
func (s *maintenanceServiceImpl) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Maintenance loop stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error().Err(err).Msg("Maintenance pass failed")
			}
		}
	}
}
