package services

import (
	"context"
	"fmt"
	"time"

	appauth "github.com/Kaustubh-Sir/cropsuit/internal/app/auth"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/agronomy"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/validation"
)

// CropRecommendationService defines the interface for crop recommendation operations
type CropRecommendationService interface {
	List(ctx context.Context, userID int64, page, limit int, filter dto.CropRecommendationFilter) ([]*models.CropRecommendation, int64, error)
	Create(ctx context.Context, userID int64, rec *models.CropRecommendation) (*models.CropRecommendation, error)
	Get(ctx context.Context, userID, recID int64) (*models.CropRecommendation, error)
	Update(ctx context.Context, userID, recID int64, req *dto.UpdateCropRecommendationRequest) (*models.CropRecommendation, error)
	Delete(ctx context.Context, userID, recID int64) error
	Analyze(req *dto.AnalyzeCropsRequest) (*agronomy.AnalysisResult, error)
}

// cropRecommendationServiceImpl implements the CropRecommendationService interface
type cropRecommendationServiceImpl struct {
	recRepo repositories.ICropRecommendationRepository
	authz   *appauth.AuthorizationService
	clock   Clock
}

// NewCropRecommendationService creates a new CropRecommendationService
func NewCropRecommendationService(recRepo repositories.ICropRecommendationRepository, authz *appauth.AuthorizationService) CropRecommendationService {
	return &cropRecommendationServiceImpl{
		recRepo: recRepo,
		authz:   authz,
	}
}

func (s *cropRecommendationServiceImpl) List(ctx context.Context, userID int64, page, limit int, filter dto.CropRecommendationFilter) ([]*models.CropRecommendation, int64, error) {
	recs, total, err := s.recRepo.List(ctx, repositories.ListParams{UserID: userID, Page: page, Limit: limit}, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing crop recommendations: %w", err)
	}
	return recs, total, nil
}

// Create scores the season's crops for the field and stores the result
func (s *cropRecommendationServiceImpl) Create(ctx context.Context, userID int64, rec *models.CropRecommendation) (*models.CropRecommendation, error) {
	rec.ID = 0
	rec.UserID = userID
	rec.Status = ""
	if err := validation.Struct(rec); err != nil {
		return nil, err
	}

	rec.Recommendations = agronomy.SuggestCrops(agronomy.SuggestionInput{
		Season:              rec.Season,
		SoilType:            rec.SoilType,
		AvailableArea:       models.Value(rec.AvailableArea),
		IrrigationAvailable: rec.IrrigationAvailable,
	})
	rec.GeneratedBy = "ai"
	rec.ExpiresAt = time.Time{}
	rec.ApplyDefaults(s.clock.now())

	if err := s.recRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("error creating crop recommendation: %w", err)
	}
	return rec, nil
}

func (s *cropRecommendationServiceImpl) load(ctx context.Context, userID, recID int64, action appauth.Action) (*models.CropRecommendation, error) {
	if err := s.authz.ValidateCropRecommendationOwnership(ctx, recID, userID, action); err != nil {
		return nil, err
	}
	rec, err := s.recRepo.GetByID(ctx, recID)
	if err != nil {
		return nil, fmt.Errorf("error getting crop recommendation: %w", err)
	}
	return rec, nil
}

// Get returns the recommendation, reporting it expired once it outlives ExpiresAt
func (s *cropRecommendationServiceImpl) Get(ctx context.Context, userID, recID int64) (*models.CropRecommendation, error) {
	rec, err := s.load(ctx, userID, recID, appauth.ActionAccess)
	if err != nil {
		return nil, err
	}
	if rec.Expired(s.clock.now()) {
		rec.Status = models.CropRecommendationExpired
	}
	return rec, nil
}

// Update changes the status and/or the farmer's feedback
func (s *cropRecommendationServiceImpl) Update(ctx context.Context, userID, recID int64, req *dto.UpdateCropRecommendationRequest) (*models.CropRecommendation, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, userID, recID, appauth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		rec.Status = *req.Status
	}
	if req.UserFeedback != nil {
		rec.UserFeedback = *req.UserFeedback
	}

	if err := s.recRepo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("error updating crop recommendation: %w", err)
	}
	return rec, nil
}

func (s *cropRecommendationServiceImpl) Delete(ctx context.Context, userID, recID int64) error {
	if err := s.authz.ValidateCropRecommendationOwnership(ctx, recID, userID, appauth.ActionDelete); err != nil {
		return err
	}
	if err := s.recRepo.Delete(ctx, recID); err != nil {
		return fmt.Errorf("error deleting crop recommendation: %w", err)
	}
	return nil
}

// Analyze ranks the crop table for a soil, season and rainfall
func (s *cropRecommendationServiceImpl) Analyze(req *dto.AnalyzeCropsRequest) (*agronomy.AnalysisResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	result := agronomy.AnalyzeCrops(agronomy.AnalysisInput{
		SoilType: req.SoilType,
		Season:   req.Season,
		Rainfall: req.Rainfall,
	}, s.clock.now())
	return &result, nil
}
