package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/logger"
)

// ICropRecommendationRepository defines the data operations on crop recommendations
type ICropRecommendationRepository interface {
	Create(ctx context.Context, rec *models.CropRecommendation) error
	GetByID(ctx context.Context, id int64) (*models.CropRecommendation, error)
	GetOwnerID(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, params ListParams, filter dto.CropRecommendationFilter) ([]*models.CropRecommendation, int64, error)
	Update(ctx context.Context, rec *models.CropRecommendation) error
	Delete(ctx context.Context, id int64) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

var cropRecommendationColumns = []string{
	"id", "user_id", "season", "location", "soil_type", "soil_nutrients", "climate_data",
	"available_area", "irrigation_available", "budget", "recommendations", "preferences",
	"generated_by", "status", "user_feedback", "expires_at", "created_at", "updated_at",
}

// CropRecommendationRepository handles database operations for crop recommendations
type CropRecommendationRepository struct {
	DB *pgxpool.Pool
}

// NewCropRecommendationRepository creates a new CropRecommendationRepository
func NewCropRecommendationRepository(db *pgxpool.Pool) *CropRecommendationRepository {
	return &CropRecommendationRepository{DB: db}
}

func scanCropRecommendation(row pgx.Row) (*models.CropRecommendation, error) {
	var c models.CropRecommendation
	err := row.Scan(
		&c.ID, &c.UserID, &c.Season, &c.Location, &c.SoilType, &c.SoilNutrients, &c.ClimateData,
		&c.AvailableArea, &c.IrrigationAvailable, &c.Budget, &c.Recommendations, &c.Preferences,
		&c.GeneratedBy, &c.Status, &c.UserFeedback, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCropRecommendationNotFound
		}
		return nil, err
	}
	if c.Recommendations == nil {
		c.Recommendations = []models.CropSuggestion{}
	}
	return &c, nil
}

// Create inserts a recommendation with ExpiresAt anchored at the current time
func (r *CropRecommendationRepository) Create(ctx context.Context, rec *models.CropRecommendation) error {
	rec.ApplyDefaults(time.Now())
	rec.Recalculate()

	sql, args, err := psql.Insert("crop_recommendations").
		Columns(cropRecommendationColumns[1:16]...).
		Values(
			rec.UserID, rec.Season, rec.Location, rec.SoilType, rec.SoilNutrients, rec.ClimateData,
			rec.AvailableArea, rec.IrrigationAvailable, rec.Budget, rec.Recommendations, rec.Preferences,
			rec.GeneratedBy, rec.Status, rec.UserFeedback, rec.ExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create crop recommendation SQL")
		return fmt.Errorf("failed to build create crop recommendation query: %w", err)
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", rec.UserID).Msg("Error executing create crop recommendation query")
		return fmt.Errorf("error creating crop recommendation: %w", err)
	}
	return nil
}

// GetByID retrieves a recommendation by ID
func (r *CropRecommendationRepository) GetByID(ctx context.Context, id int64) (*models.CropRecommendation, error) {
	sql, args, err := psql.Select(cropRecommendationColumns...).From("crop_recommendations").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get crop recommendation SQL")
		return nil, err
	}

	rec, err := scanCropRecommendation(r.DB.QueryRow(ctx, sql, args...))
	if err != nil && err != apperrors.ErrCropRecommendationNotFound {
		logger.Error().Err(err).Int64("id", id).Msg("Error executing get crop recommendation query")
	}
	return rec, err
}

// GetOwnerID returns the user that owns the recommendation
func (r *CropRecommendationRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	return ownerOf(ctx, r.DB, "crop_recommendations", id, apperrors.ErrCropRecommendationNotFound)
}

func cropRecommendationFilter(b squirrel.SelectBuilder, userID int64, f dto.CropRecommendationFilter) squirrel.SelectBuilder {
	b = b.Where(squirrel.Eq{"user_id": userID})
	if f.Status != "" {
		b = b.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Season != "" {
		b = b.Where(squirrel.Eq{"season": f.Season})
	}
	return b
}

// List returns one page of the user's recommendations, newest first
func (r *CropRecommendationRepository) List(ctx context.Context, params ListParams, filter dto.CropRecommendationFilter) ([]*models.CropRecommendation, int64, error) {
	total, err := countRows(ctx, r.DB, cropRecommendationFilter(psql.Select("count(*)").From("crop_recommendations"), params.UserID, filter), "crop recommendations")
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.CropRecommendation{}, 0, nil
	}

	b := cropRecommendationFilter(psql.Select(cropRecommendationColumns...).From("crop_recommendations"), params.UserID, filter).
		OrderBy("created_at DESC", "id DESC")
	recs, err := queryRows(ctx, r.DB, paginate(b, params), scanCropRecommendation, "crop recommendations")
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// Update saves every mutable column
func (r *CropRecommendationRepository) Update(ctx context.Context, rec *models.CropRecommendation) error {
	rec.Recalculate()

	sql, args, err := psql.Update("crop_recommendations").
		SetMap(map[string]interface{}{
			"season":               rec.Season,
			"location":             rec.Location,
			"soil_type":            rec.SoilType,
			"soil_nutrients":       rec.SoilNutrients,
			"climate_data":         rec.ClimateData,
			"available_area":       rec.AvailableArea,
			"irrigation_available": rec.IrrigationAvailable,
			"budget":               rec.Budget,
			"recommendations":      rec.Recommendations,
			"preferences":          rec.Preferences,
			"generated_by":         rec.GeneratedBy,
			"status":               rec.Status,
			"user_feedback":        rec.UserFeedback,
			"expires_at":           rec.ExpiresAt,
			"updated_at":           squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": rec.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update crop recommendation SQL")
		return err
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&rec.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrCropRecommendationNotFound
		}
		logger.Error().Err(err).Int64("id", rec.ID).Msg("Error executing update crop recommendation query")
		return fmt.Errorf("error updating crop recommendation: %w", err)
	}
	return nil
}

// Delete removes a recommendation
func (r *CropRecommendationRepository) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.DB, "crop_recommendations", id, apperrors.ErrCropRecommendationNotFound)
}

// ExpireStale marks active recommendations past expires_at as expired
func (r *CropRecommendationRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := psql.Update("crop_recommendations").
		Set("status", models.CropRecommendationExpired).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": models.CropRecommendationActive}).
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building expire crop recommendations SQL")
		return 0, err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing expire crop recommendations query")
		return 0, fmt.Errorf("error expiring crop recommendations: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
