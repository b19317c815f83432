package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	appauth "github.com/Kaustubh-Sir/cropsuit/internal/app/auth"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/export"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/validation"
)

// CropService defines the interface for crop operations
type CropService interface {
	List(ctx context.Context, userID int64, page, limit int, filter dto.CropFilter) ([]*models.Crop, int64, error)
	Create(ctx context.Context, userID int64, crop *models.Crop) (*models.Crop, error)
	Get(ctx context.Context, userID, cropID int64) (*models.Crop, error)
	Update(ctx context.Context, userID, cropID int64, patch json.RawMessage) (*models.Crop, error)
	Delete(ctx context.Context, userID, cropID int64) error
	AddNote(ctx context.Context, userID, cropID int64, req *dto.NoteRequest) (*models.Crop, error)
	AddHealthIssue(ctx context.Context, userID, cropID int64, req *dto.HealthIssueRequest) (*models.Crop, error)
	Stats(ctx context.Context, userID int64) (*dto.CropStats, error)
	ExportRegister(ctx context.Context, userID int64, out io.Writer) error
}

// cropServiceImpl implements the CropService interface
type cropServiceImpl struct {
	cropRepo repositories.ICropRepository
	authz    *appauth.AuthorizationService
	clock    Clock
}

// NewCropService creates a new CropService
func NewCropService(cropRepo repositories.ICropRepository, authz *appauth.AuthorizationService) CropService {
	return &cropServiceImpl{
		cropRepo: cropRepo,
		authz:    authz,
	}
}

func (s *cropServiceImpl) List(ctx context.Context, userID int64, page, limit int, filter dto.CropFilter) ([]*models.Crop, int64, error) {
	crops, total, err := s.cropRepo.List(ctx, repositories.ListParams{UserID: userID, Page: page, Limit: limit}, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing crops: %w", err)
	}
	return crops, total, nil
}

func (s *cropServiceImpl) Create(ctx context.Context, userID int64, crop *models.Crop) (*models.Crop, error) {
	crop.ID = 0
	crop.UserID = userID
	if err := validation.Struct(crop); err != nil {
		return nil, err
	}
	if err := s.cropRepo.Create(ctx, crop); err != nil {
		return nil, fmt.Errorf("error creating crop: %w", err)
	}
	return crop, nil
}

// load fetches a crop after checking that userID owns it
func (s *cropServiceImpl) load(ctx context.Context, userID, cropID int64, action appauth.Action) (*models.Crop, error) {
	if err := s.authz.ValidateCropOwnership(ctx, cropID, userID, action); err != nil {
		return nil, err
	}
	crop, err := s.cropRepo.GetByID(ctx, cropID)
	if err != nil {
		return nil, fmt.Errorf("error getting crop: %w", err)
	}
	return crop, nil
}

func (s *cropServiceImpl) Get(ctx context.Context, userID, cropID int64) (*models.Crop, error) {
	return s.load(ctx, userID, cropID, appauth.ActionAccess)
}

// Update overlays patch on the stored crop; owner, id and creation time are kept
func (s *cropServiceImpl) Update(ctx context.Context, userID, cropID int64, patch json.RawMessage) (*models.Crop, error) {
	crop, err := s.load(ctx, userID, cropID, appauth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	id, owner, created := crop.ID, crop.UserID, crop.CreatedAt
	if err := overlay(crop, patch); err != nil {
		return nil, err
	}
	crop.ID, crop.UserID, crop.CreatedAt = id, owner, created

	if err := s.cropRepo.Update(ctx, crop); err != nil {
		return nil, fmt.Errorf("error updating crop: %w", err)
	}
	return crop, nil
}

func (s *cropServiceImpl) Delete(ctx context.Context, userID, cropID int64) error {
	if err := s.authz.ValidateCropOwnership(ctx, cropID, userID, appauth.ActionDelete); err != nil {
		return err
	}
	if err := s.cropRepo.Delete(ctx, cropID); err != nil {
		return fmt.Errorf("error deleting crop: %w", err)
	}
	return nil
}

func (s *cropServiceImpl) AddNote(ctx context.Context, userID, cropID int64, req *dto.NoteRequest) (*models.Crop, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	crop, err := s.load(ctx, userID, cropID, appauth.ActionAddNote)
	if err != nil {
		return nil, err
	}

	crop.Notes = append(crop.Notes, models.Note{Content: req.Content, Date: s.clock.now()})
	if err := s.cropRepo.Update(ctx, crop); err != nil {
		return nil, fmt.Errorf("error adding note: %w", err)
	}
	return crop, nil
}

func (s *cropServiceImpl) AddHealthIssue(ctx context.Context, userID, cropID int64, req *dto.HealthIssueRequest) (*models.Crop, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	crop, err := s.load(ctx, userID, cropID, appauth.ActionUpdate)
	if err != nil {
		return nil, err
	}

	crop.Health.Issues = append(crop.Health.Issues, req.ToModel(s.clock.now()))
	if err := s.cropRepo.Update(ctx, crop); err != nil {
		return nil, fmt.Errorf("error adding health issue: %w", err)
	}
	return crop, nil
}

func (s *cropServiceImpl) Stats(ctx context.Context, userID int64) (*dto.CropStats, error) {
	stats, err := s.cropRepo.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting crop stats: %w", err)
	}
	return stats, nil
}

// ExportRegister writes every crop of the user as an XLSX register
func (s *cropServiceImpl) ExportRegister(ctx context.Context, userID int64, out io.Writer) error {
	crops, err := s.cropRepo.ListAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("error listing crops for export: %w", err)
	}

	rows := make([]models.Crop, 0, len(crops))
	for _, c := range crops {
		rows = append(rows, *c)
	}
	if err := export.WriteCropRegister(out, rows); err != nil {
		return fmt.Errorf("error writing crop register: %w", err)
	}
	return nil
}
