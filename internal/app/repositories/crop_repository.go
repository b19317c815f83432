package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/dberrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/logger"
)

// ICropRepository defines the data operations on crops
type ICropRepository interface {
	Create(ctx context.Context, crop *models.Crop) error
	GetByID(ctx context.Context, id int64) (*models.Crop, error)
	GetOwnerID(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, params ListParams, filter dto.CropFilter) ([]*models.Crop, int64, error)
	ListAll(ctx context.Context, userID int64) ([]*models.Crop, error)
	Update(ctx context.Context, crop *models.Crop) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, userID int64) (*dto.CropStats, error)
}

var cropColumns = []string{
	"id", "user_id", "name", "variety", "category", "planting_date", "expected_harvest_date",
	"actual_harvest_date", "area", "location", "season", "soil_type", "irrigation_method",
	"status", "growth_stage", "health", "yield", "cost_tracking", "revenue", "notes",
	"created_at", "updated_at",
}

// CropRepository handles database operations for crops
type CropRepository struct {
	DB *pgxpool.Pool
}

// NewCropRepository creates a new CropRepository
func NewCropRepository(db *pgxpool.Pool) *CropRepository {
	return &CropRepository{DB: db}
}

func scanCrop(row pgx.Row) (*models.Crop, error) {
	var c models.Crop
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Variety, &c.Category, &c.PlantingDate, &c.ExpectedHarvestDate,
		&c.ActualHarvestDate, &c.Area, &c.Location, &c.Season, &c.SoilType, &c.IrrigationMethod,
		&c.Status, &c.GrowthStage, &c.Health, &c.Yield, &c.CostTracking, &c.Revenue, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCropNotFound
		}
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}

// Create inserts a crop after applying defaults and derived totals
func (r *CropRepository) Create(ctx context.Context, crop *models.Crop) error {
	crop.ApplyDefaults()
	crop.Recalculate()

	sql, args, err := psql.Insert("crops").
		Columns(cropColumns[1:20]...).
		Values(
			crop.UserID, crop.Name, crop.Variety, crop.Category, crop.PlantingDate, crop.ExpectedHarvestDate,
			crop.ActualHarvestDate, crop.Area, crop.Location, crop.Season, crop.SoilType, crop.IrrigationMethod,
			crop.Status, crop.GrowthStage, crop.Health, crop.Yield, crop.CostTracking, crop.Revenue, crop.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create crop SQL")
		return fmt.Errorf("failed to build create crop query: %w", err)
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&crop.ID, &crop.CreatedAt, &crop.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", crop.UserID).Msg("Error executing create crop query")
		return fmt.Errorf("error creating crop: %w", err)
	}
	return nil
}

// GetByID retrieves a crop by ID
func (r *CropRepository) GetByID(ctx context.Context, id int64) (*models.Crop, error) {
	sql, args, err := psql.Select(cropColumns...).From("crops").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get crop by ID SQL")
		return nil, err
	}

	crop, err := scanCrop(r.DB.QueryRow(ctx, sql, args...))
	if err != nil && err != apperrors.ErrCropNotFound {
		logger.Error().Err(err).Int64("cropID", id).Msg("Error executing get crop by ID query")
	}
	return crop, err
}

// GetOwnerID returns the user that owns the crop
func (r *CropRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	return ownerOf(ctx, r.DB, "crops", id, apperrors.ErrCropNotFound)
}

func cropFilter(b squirrel.SelectBuilder, userID int64, f dto.CropFilter) squirrel.SelectBuilder {
	b = b.Where(squirrel.Eq{"user_id": userID})
	if f.Status != "" {
		b = b.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Season != "" {
		b = b.Where(squirrel.Eq{"season": f.Season})
	}
	if f.Category != "" {
		b = b.Where(squirrel.Eq{"category": f.Category})
	}
	return b
}

// List returns one page of the user's crops, newest first, and the filtered total
func (r *CropRepository) List(ctx context.Context, params ListParams, filter dto.CropFilter) ([]*models.Crop, int64, error) {
	total, err := countRows(ctx, r.DB, cropFilter(psql.Select("count(*)").From("crops"), params.UserID, filter), "crops")
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.Crop{}, 0, nil
	}

	b := cropFilter(psql.Select(cropColumns...).From("crops"), params.UserID, filter).OrderBy("created_at DESC", "id DESC")
	crops, err := queryRows(ctx, r.DB, paginate(b, params), scanCrop, "crops")
	if err != nil {
		return nil, 0, err
	}
	return crops, total, nil
}

// ListAll returns every crop of the user ordered by planting date
func (r *CropRepository) ListAll(ctx context.Context, userID int64) ([]*models.Crop, error) {
	b := psql.Select(cropColumns...).From("crops").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("planting_date ASC", "id ASC")
	return queryRows(ctx, r.DB, b, scanCrop, "crops")
}

// Update saves every mutable column of the crop
func (r *CropRepository) Update(ctx context.Context, crop *models.Crop) error {
	crop.ApplyDefaults()
	crop.Recalculate()

	sql, args, err := psql.Update("crops").
		SetMap(map[string]interface{}{
			"name":                  crop.Name,
			"variety":               crop.Variety,
			"category":              crop.Category,
			"planting_date":         crop.PlantingDate,
			"expected_harvest_date": crop.ExpectedHarvestDate,
			"actual_harvest_date":   crop.ActualHarvestDate,
			"area":                  crop.Area,
			"location":              crop.Location,
			"season":                crop.Season,
			"soil_type":             crop.SoilType,
			"irrigation_method":     crop.IrrigationMethod,
			"status":                crop.Status,
			"growth_stage":          crop.GrowthStage,
			"health":                crop.Health,
			"yield":                 crop.Yield,
			"cost_tracking":         crop.CostTracking,
			"revenue":               crop.Revenue,
			"notes":                 crop.Notes,
			"updated_at":            squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": crop.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update crop SQL")
		return err
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&crop.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrCropNotFound
		}
		logger.Error().Err(err).Int64("cropID", crop.ID).Msg("Error executing update crop query")
		return fmt.Errorf("error updating crop: %w", err)
	}
	return nil
}

// Delete removes a crop
func (r *CropRepository) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.DB, "crops", id, apperrors.ErrCropNotFound)
}

// Stats groups the user's crops by status (with area) and by category
func (r *CropRepository) Stats(ctx context.Context, userID int64) (*dto.CropStats, error) {
	stats := &dto.CropStats{
		ByStatus:   []dto.CropStatusStat{},
		ByCategory: []dto.CropCategoryStat{},
	}

	byStatus := psql.Select("status", "count(*)", "COALESCE(SUM(area), 0)").
		From("crops").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("status").
		OrderBy("status")
	statuses, err := queryRows(ctx, r.DB, byStatus, func(row pgx.Row) (*dto.CropStatusStat, error) {
		var s dto.CropStatusStat
		return &s, row.Scan(&s.ID, &s.Count, &s.TotalArea)
	}, "crop status stats")
	if err != nil {
		return nil, err
	}
	for _, s := range statuses {
		stats.ByStatus = append(stats.ByStatus, *s)
	}

	byCategory := psql.Select("category", "count(*)").
		From("crops").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("category").
		OrderBy("category")
	categories, err := queryRows(ctx, r.DB, byCategory, func(row pgx.Row) (*dto.CropCategoryStat, error) {
		var s dto.CropCategoryStat
		return &s, row.Scan(&s.ID, &s.Count)
	}, "crop category stats")
	if err != nil {
		return nil, err
	}
	for _, s := range categories {
		stats.ByCategory = append(stats.ByCategory, *s)
	}

	return stats, nil
}
