package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	appauth "github.com/Kaustubh-Sir/cropsuit/internal/app/auth"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/export"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/validation"
)

// SeasonalPlanService defines the interface for seasonal plan operations
type SeasonalPlanService interface {
	List(ctx context.Context, userID int64, page, limit int, filter dto.PlanFilter) ([]*models.SeasonalPlan, int64, error)
	Create(ctx context.Context, userID int64, plan *models.SeasonalPlan) (*models.SeasonalPlan, error)
	Get(ctx context.Context, userID, planID int64) (*models.SeasonalPlan, error)
	Update(ctx context.Context, userID, planID int64, patch json.RawMessage) (*models.SeasonalPlan, error)
	Delete(ctx context.Context, userID, planID int64) error
	Stats(ctx context.Context, userID int64) (*dto.PlanStats, error)
	AddMilestone(ctx context.Context, userID, planID int64, req *dto.MilestoneRequest) (*models.SeasonalPlan, error)
	UpdateMilestone(ctx context.Context, userID, planID int64, milestoneID string, req *dto.MilestoneUpdateRequest) (*models.SeasonalPlan, error)
	AddNote(ctx context.Context, userID, planID int64, req *dto.NoteRequest) (*models.SeasonalPlan, error)
	Export(ctx context.Context, userID, planID int64, out io.Writer) (string, error)
}

// seasonalPlanServiceImpl implements the SeasonalPlanService interface
type seasonalPlanServiceImpl struct {
	planRepo repositories.ISeasonalPlanRepository
	authz    *appauth.AuthorizationService
	clock    Clock
}

// NewSeasonalPlanService creates a new SeasonalPlanService
func NewSeasonalPlanService(planRepo repositories.ISeasonalPlanRepository, authz *appauth.AuthorizationService) SeasonalPlanService {
	return &seasonalPlanServiceImpl{
		planRepo: planRepo,
		authz:    authz,
	}
}

var errMilestoneNotFound = apperrors.NewCustomError(apperrors.ErrMilestoneNotFound, "Milestone not found")

func (s *seasonalPlanServiceImpl) List(ctx context.Context, userID int64, page, limit int, filter dto.PlanFilter) ([]*models.SeasonalPlan, int64, error) {
	plans, total, err := s.planRepo.List(ctx, repositories.ListParams{UserID: userID, Page: page, Limit: limit}, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing seasonal plans: %w", err)
	}
	return plans, total, nil
}

func (s *seasonalPlanServiceImpl) Create(ctx context.Context, userID int64, plan *models.SeasonalPlan) (*models.SeasonalPlan, error) {
	plan.ID = 0
	plan.UserID = userID
	if err := validation.Struct(plan); err != nil {
		return nil, err
	}
	if plan.EndDate.Before(plan.StartDate) {
		return nil, apperrors.NewBadRequestError("End date must be after start date")
	}
	for i := range plan.Milestones {
		s.stampCompletion(&plan.Milestones[i])
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("error creating seasonal plan: %w", err)
	}
	return plan, nil
}

func (s *seasonalPlanServiceImpl) load(ctx context.Context, userID, planID int64, action appauth.Action) (*models.SeasonalPlan, error) {
	if err := s.authz.ValidatePlanOwnership(ctx, planID, userID, action); err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("error getting seasonal plan: %w", err)
	}
	return plan, nil
}

func (s *seasonalPlanServiceImpl) Get(ctx context.Context, userID, planID int64) (*models.SeasonalPlan, error) {
	return s.load(ctx, userID, planID, appauth.ActionAccess)
}

// Update overlays patch on the stored plan; roll-ups and progress are recomputed on save
func (s *seasonalPlanServiceImpl) Update(ctx context.Context, userID, planID int64, patch json.RawMessage) (*models.SeasonalPlan, error) {
	plan, err := s.load(ctx, userID, planID, appauth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	id, owner, created := plan.ID, plan.UserID, plan.CreatedAt
	if err := overlay(plan, patch); err != nil {
		return nil, err
	}
	plan.ID, plan.UserID, plan.CreatedAt = id, owner, created
	plan.ApplyDefaults()

	if plan.EndDate.Before(plan.StartDate) {
		return nil, apperrors.NewBadRequestError("End date must be after start date")
	}
	for i := range plan.Milestones {
		s.stampCompletion(&plan.Milestones[i])
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("error updating seasonal plan: %w", err)
	}
	return plan, nil
}

func (s *seasonalPlanServiceImpl) Delete(ctx context.Context, userID, planID int64) error {
	if err := s.authz.ValidatePlanOwnership(ctx, planID, userID, appauth.ActionDelete); err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, planID); err != nil {
		return fmt.Errorf("error deleting seasonal plan: %w", err)
	}
	return nil
}

func (s *seasonalPlanServiceImpl) Stats(ctx context.Context, userID int64) (*dto.PlanStats, error) {
	stats, err := s.planRepo.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting seasonal plan stats: %w", err)
	}
	return stats, nil
}

// stampCompletion sets completedDate on a completed milestone that has none
func (s *seasonalPlanServiceImpl) stampCompletion(m *models.Milestone) {
	if m.Completed && m.CompletedDate == nil {
		now := s.clock.now()
		m.CompletedDate = &now
	}
}

func (s *seasonalPlanServiceImpl) AddMilestone(ctx context.Context, userID, planID int64, req *dto.MilestoneRequest) (*models.SeasonalPlan, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	plan, err := s.load(ctx, userID, planID, appauth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	m := models.Milestone{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
		Completed:   req.Completed,
	}
	s.stampCompletion(&m)
	plan.Milestones = append(plan.Milestones, m)

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("error adding milestone: %w", err)
	}
	return plan, nil
}

func (s *seasonalPlanServiceImpl) UpdateMilestone(ctx context.Context, userID, planID int64, milestoneID string, req *dto.MilestoneUpdateRequest) (*models.SeasonalPlan, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	plan, err := s.load(ctx, userID, planID, appauth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	m, ok := plan.Milestone(milestoneID)
	if !ok {
		return nil, errMilestoneNotFound
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.TargetDate != nil {
		m.TargetDate = req.TargetDate
	}
	if req.CompletedDate != nil {
		m.CompletedDate = req.CompletedDate
	}
	if req.Completed != nil {
		m.Completed = *req.Completed
	}
	s.stampCompletion(m)

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("error updating milestone: %w", err)
	}
	return plan, nil
}

// AddNote appends a note authored by the current user
func (s *seasonalPlanServiceImpl) AddNote(ctx context.Context, userID, planID int64, req *dto.NoteRequest) (*models.SeasonalPlan, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	plan, err := s.load(ctx, userID, planID, appauth.ActionAddNote)
	if err != nil {
		return nil, err
	}

	author := userID
	plan.Notes = append(plan.Notes, models.Note{Content: req.Content, Date: s.clock.now(), Author: &author})
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("error adding note: %w", err)
	}
	return plan, nil
}

// Export writes the plan workbook to out and returns its download name
func (s *seasonalPlanServiceImpl) Export(ctx context.Context, userID, planID int64, out io.Writer) (string, error) {
	plan, err := s.load(ctx, userID, planID, appauth.ActionAccess)
	if err != nil {
		return "", err
	}
	if err := export.WritePlan(out, plan); err != nil {
		return "", fmt.Errorf("error writing plan workbook: %w", err)
	}
	return export.Filename("plan", plan.Season, plan.Year, plan.ID), nil
}
