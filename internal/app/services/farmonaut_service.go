package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/farmonaut"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/metrics"
)

const farmonautProvider = "farmonaut"

// FarmonautProvider is the RapidAPI Farmonaut API
type FarmonautProvider interface {
	Enabled() bool
	CropRecommendations(ctx context.Context, q farmonaut.CropQuery) (*farmonaut.CropRecommendations, error)
	Weather(ctx context.Context, loc farmonaut.Location) (*farmonaut.WeatherReport, error)
	FertilizerRecommendations(ctx context.Context, q farmonaut.FertilizerQuery) (*farmonaut.FertilizerReport, error)
	SatelliteData(ctx context.Context, q farmonaut.SatelliteQuery) (json.RawMessage, error)
}

// FarmonautService defines the interface for Farmonaut lookups. Upstream
// failures are answered with fallback data; only a cancelled context is an error.
type FarmonautService interface {
	CropRecommendations(ctx context.Context, q farmonaut.CropQuery) (*farmonaut.CropRecommendations, error)
	Weather(ctx context.Context, loc farmonaut.Location) (*farmonaut.WeatherReport, error)
	FertilizerRecommendations(ctx context.Context, q farmonaut.FertilizerQuery) (*farmonaut.FertilizerReport, error)
	SatelliteData(ctx context.Context, q farmonaut.SatelliteQuery) (json.RawMessage, error)
	Comprehensive(ctx context.Context, q dto.FarmonautQuery) (*dto.ComprehensiveData, error)
}

// farmonautServiceImpl implements the FarmonautService interface
type farmonautServiceImpl struct {
	provider FarmonautProvider
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	clock    Clock
}

// NewFarmonautService creates a new FarmonautService
func NewFarmonautService(provider FarmonautProvider, m *metrics.Metrics, logger zerolog.Logger) FarmonautService {
	return &farmonautServiceImpl{
		provider: provider,
		metrics:  m,
		logger:   logger,
	}
}

// miss decides between a fallback and a cancellation after a failed call
func (s *farmonautServiceImpl) miss(ctx context.Context, err error, call string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.provider.Enabled() {
		s.logger.Warn().Err(err).Str("call", call).Msg("Farmonaut API failed, serving fallback data")
	}
	s.metrics.UpstreamFallback(farmonautProvider)
	return nil
}

func (s *farmonautServiceImpl) CropRecommendations(ctx context.Context, q farmonaut.CropQuery) (*farmonaut.CropRecommendations, error) {
	res, err := s.provider.CropRecommendations(ctx, q)
	if err != nil {
		if ctxErr := s.miss(ctx, err, "crop-recommendations"); ctxErr != nil {
			return nil, ctxErr
		}
		return farmonaut.FallbackCropRecommendations(q, s.clock.now()), nil
	}
	s.metrics.UpstreamOK(farmonautProvider)
	return res, nil
}

func (s *farmonautServiceImpl) Weather(ctx context.Context, loc farmonaut.Location) (*farmonaut.WeatherReport, error) {
	res, err := s.provider.Weather(ctx, loc)
	if err != nil {
		if ctxErr := s.miss(ctx, err, "weather"); ctxErr != nil {
			return nil, ctxErr
		}
		return farmonaut.FallbackWeather(s.clock.now()), nil
	}
	s.metrics.UpstreamOK(farmonautProvider)
	return res, nil
}

func (s *farmonautServiceImpl) FertilizerRecommendations(ctx context.Context, q farmonaut.FertilizerQuery) (*farmonaut.FertilizerReport, error) {
	res, err := s.provider.FertilizerRecommendations(ctx, q)
	if err != nil {
		if ctxErr := s.miss(ctx, err, "fertilizer-recommendations"); ctxErr != nil {
			return nil, ctxErr
		}
		return farmonaut.FallbackFertilizer(q, s.clock.now()), nil
	}
	s.metrics.UpstreamOK(farmonautProvider)
	return res, nil
}

// SatelliteData has no local substitute; a failed call yields null data
func (s *farmonautServiceImpl) SatelliteData(ctx context.Context, q farmonaut.SatelliteQuery) (json.RawMessage, error) {
	res, err := s.provider.SatelliteData(ctx, q)
	if err != nil {
		if ctxErr := s.miss(ctx, err, "satellite-data"); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, nil
	}
	s.metrics.UpstreamOK(farmonautProvider)
	return res, nil
}

// Comprehensive fetches weather, crop and (with a crop type) fertilizer data
// concurrently. The first error cancels the remaining calls.
func (s *farmonautServiceImpl) Comprehensive(ctx context.Context, q dto.FarmonautQuery) (*dto.ComprehensiveData, error) {
	loc := q.Location()
	out := &dto.ComprehensiveData{Location: loc}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		w, err := s.Weather(gctx, loc)
		out.Weather = w
		return err
	})

	g.Go(func() error {
		recs, err := s.CropRecommendations(gctx, farmonaut.CropQuery{
			Location: loc,
			SoilType: q.SoilType,
			Season:   q.Season,
		})
		out.CropRecommendations = recs
		return err
	})

	if q.CropType != "" {
		g.Go(func() error {
			fert, err := s.FertilizerRecommendations(gctx, farmonaut.FertilizerQuery{
				CropType:   q.CropType,
				SoilType:   q.SoilType,
				Nitrogen:   q.Nitrogen,
				Phosphorus: q.Phosphorus,
				Potassium:  q.Potassium,
			})
			out.FertilizerRecommendations = fert
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
