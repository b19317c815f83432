package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appauth "github.com/Kaustubh-Sir/cropsuit/internal/app/auth"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/agronomy"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/validation"
)

// FertilizerService defines the interface for fertilizer recommendation operations
type FertilizerService interface {
	List(ctx context.Context, userID int64, page, limit int, filter dto.FertilizerFilter) ([]*models.FertilizerRecommendation, int64, error)
	Create(ctx context.Context, userID int64, rec *models.FertilizerRecommendation) (*models.FertilizerRecommendation, error)
	Get(ctx context.Context, userID, recID int64) (*models.FertilizerRecommendation, error)
	Update(ctx context.Context, userID, recID int64, patch json.RawMessage) (*models.FertilizerRecommendation, error)
	Delete(ctx context.Context, userID, recID int64) error
	MarkApplied(ctx context.Context, userID, recID int64) (*models.FertilizerRecommendation, error)
	Calculate(req *dto.CalculateFertilizerRequest) (*agronomy.DeficiencyPlan, error)
}

// fertilizerServiceImpl implements the FertilizerService interface
type fertilizerServiceImpl struct {
	recRepo repositories.IFertilizerRecommendationRepository
	authz   *appauth.AuthorizationService
	clock   Clock
}

// NewFertilizerService creates a new FertilizerService
func NewFertilizerService(recRepo repositories.IFertilizerRecommendationRepository, authz *appauth.AuthorizationService) FertilizerService {
	return &fertilizerServiceImpl{
		recRepo: recRepo,
		authz:   authz,
		clock:   time.Now,
	}
}

func (s *fertilizerServiceImpl) List(ctx context.Context, userID int64, page, limit int, filter dto.FertilizerFilter) ([]*models.FertilizerRecommendation, int64, error) {
	recs, total, err := s.recRepo.List(ctx, repositories.ListParams{UserID: userID, Page: page, Limit: limit}, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing fertilizer recommendations: %w", err)
	}
	return recs, total, nil
}

// Create generates the line items from the soil test and stores the recommendation
func (s *fertilizerServiceImpl) Create(ctx context.Context, userID int64, rec *models.FertilizerRecommendation) (*models.FertilizerRecommendation, error) {
	rec.ID = 0
	rec.UserID = userID
	if err := validation.Struct(rec); err != nil {
		return nil, err
	}

	if rec.CropID != nil {
		if err := s.authz.ValidateCropOwnership(ctx, *rec.CropID, userID, appauth.ActionAccess); err != nil {
			return nil, err
		}
	}

	rec.Recommendations = agronomy.FertilizerLines(rec.SoilNutrients)
	rec.GeneratedBy = "ai"

	if err := s.recRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("error creating fertilizer recommendation: %w", err)
	}
	return rec, nil
}

func (s *fertilizerServiceImpl) load(ctx context.Context, userID, recID int64, action appauth.Action) (*models.FertilizerRecommendation, error) {
	if err := s.authz.ValidateFertilizerOwnership(ctx, recID, userID, action); err != nil {
		return nil, err
	}
	rec, err := s.recRepo.GetByID(ctx, recID)
	if err != nil {
		return nil, fmt.Errorf("error getting fertilizer recommendation: %w", err)
	}
	return rec, nil
}

func (s *fertilizerServiceImpl) Get(ctx context.Context, userID, recID int64) (*models.FertilizerRecommendation, error) {
	return s.load(ctx, userID, recID, appauth.ActionAccess)
}

// Update overlays patch on the stored recommendation; the total is recomputed on save
func (s *fertilizerServiceImpl) Update(ctx context.Context, userID, recID int64, patch json.RawMessage) (*models.FertilizerRecommendation, error) {
	rec, err := s.load(ctx, userID, recID, appauth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	id, owner, created := rec.ID, rec.UserID, rec.CreatedAt
	if err := overlay(rec, patch); err != nil {
		return nil, err
	}
	rec.ID, rec.UserID, rec.CreatedAt = id, owner, created

	if rec.CropID != nil {
		if err := s.authz.ValidateCropOwnership(ctx, *rec.CropID, userID, appauth.ActionAccess); err != nil {
			return nil, err
		}
	}

	if err := s.recRepo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("error updating fertilizer recommendation: %w", err)
	}
	return rec, nil
}

// MarkApplied moves the recommendation to applied and stamps the application date
func (s *fertilizerServiceImpl) MarkApplied(ctx context.Context, userID, recID int64) (*models.FertilizerRecommendation, error) {
	rec, err := s.load(ctx, userID, recID, appauth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	applied := s.clock.now()
	rec.Status = "applied"
	rec.AppliedDate = &applied

	if err := s.recRepo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("error marking fertilizer recommendation applied: %w", err)
	}
	return rec, nil
}

func (s *fertilizerServiceImpl) Delete(ctx context.Context, userID, recID int64) error {
	if err := s.authz.ValidateFertilizerOwnership(ctx, recID, userID, appauth.ActionDelete); err != nil {
		return err
	}
	if err := s.recRepo.Delete(ctx, recID); err != nil {
		return fmt.Errorf("error deleting fertilizer recommendation: %w", err)
	}
	return nil
}

// Calculate runs the deficiency calculator without persisting anything
func (s *fertilizerServiceImpl) Calculate(req *dto.CalculateFertilizerRequest) (*agronomy.DeficiencyPlan, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	plan := agronomy.CalculateDeficiency(agronomy.DeficiencyInput{
		CropName:   req.CropName,
		Nitrogen:   *req.Nitrogen,
		Phosphorus: *req.Phosphorus,
		Potassium:  *req.Potassium,
		PH:         req.PH,
	})
	return &plan, nil
}
