package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/logger"
)

// Action is the verb used in ownership denial messages
type Action string

const (
	ActionAccess  Action = "access"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionAddNote Action = "add note to"
)

// OwnerLookup resolves the owning user of a record
type OwnerLookup interface {
	GetOwnerID(ctx context.Context, id int64) (int64, error)
}

// resource describes how one owned record type is checked and reported
type resource struct {
	noun            string
	notFound        error
	notFoundMessage string
}

var (
	cropResource           = resource{"crop", apperrors.ErrCropNotFound, "Crop not found"}
	fertilizerResource     = resource{"recommendation", apperrors.ErrFertilizerRecommendationNotFound, "Recommendation not found"}
	cropRecommendationRsrc = resource{"recommendation", apperrors.ErrCropRecommendationNotFound, "Recommendation not found"}
	planResource           = resource{"plan", apperrors.ErrSeasonalPlanNotFound, "Plan not found"}
)

// AuthorizationService handles ownership checks on user-owned records
type AuthorizationService struct {
	userRepo       repositories.IUserRepository
	cropRepo       OwnerLookup
	fertilizerRepo OwnerLookup
	cropRecRepo    OwnerLookup
	planRepo       OwnerLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(
	userRepo repositories.IUserRepository,
	cropRepo, fertilizerRepo, cropRecRepo, planRepo OwnerLookup,
) *AuthorizationService {
	return &AuthorizationService{
		userRepo:       userRepo,
		cropRepo:       cropRepo,
		fertilizerRepo: fertilizerRepo,
		cropRecRepo:    cropRecRepo,
		planRepo:       planRepo,
	}
}

// validateOwnership returns a 404-class error when the record is missing and
// a 403-class error when it belongs to someone else.
func (s *AuthorizationService) validateOwnership(ctx context.Context, lookup OwnerLookup, res resource, id, userID int64, action Action) error {
	ownerID, err := lookup.GetOwnerID(ctx, id)
	if err != nil {
		if errors.Is(err, res.notFound) {
			return apperrors.NewCustomError(res.notFound, res.notFoundMessage)
		}
		logger.Error().Err(err).Int64("id", id).Int64("userID", userID).Str("resource", res.noun).Msg("Error fetching owner ID")
		return fmt.Errorf("failed to check %s ownership: %w", res.noun, err)
	}

	if ownerID != userID {
		return apperrors.NewForbiddenError(fmt.Sprintf("Not authorized to %s this %s", action, res.noun))
	}
	return nil
}

// ValidateCropOwnership validates that the user owns the crop
func (s *AuthorizationService) ValidateCropOwnership(ctx context.Context, cropID, userID int64, action Action) error {
	return s.validateOwnership(ctx, s.cropRepo, cropResource, cropID, userID, action)
}

// ValidateFertilizerOwnership validates that the user owns the fertilizer recommendation
func (s *AuthorizationService) ValidateFertilizerOwnership(ctx context.Context, recID, userID int64, action Action) error {
	return s.validateOwnership(ctx, s.fertilizerRepo, fertilizerResource, recID, userID, action)
}

// ValidateCropRecommendationOwnership validates that the user owns the crop recommendation
func (s *AuthorizationService) ValidateCropRecommendationOwnership(ctx context.Context, recID, userID int64, action Action) error {
	return s.validateOwnership(ctx, s.cropRecRepo, cropRecommendationRsrc, recID, userID, action)
}

// ValidatePlanOwnership validates that the user owns the seasonal plan
func (s *AuthorizationService) ValidatePlanOwnership(ctx context.Context, planID, userID int64, action Action) error {
	return s.validateOwnership(ctx, s.planRepo, planResource, planID, userID, action)
}

// GetUserInfo returns the user behind an authenticated request
func (s *AuthorizationService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in GetUserInfo")
		return nil, fmt.Errorf("failed to get user information: %w", err)
	}
	return user, nil
}
