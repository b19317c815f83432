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

// IFertilizerRecommendationRepository defines the data operations on fertilizer recommendations
type IFertilizerRecommendationRepository interface {
	Create(ctx context.Context, rec *models.FertilizerRecommendation) error
	GetByID(ctx context.Context, id int64) (*models.FertilizerRecommendation, error)
	GetOwnerID(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, params ListParams, filter dto.FertilizerFilter) ([]*models.FertilizerRecommendation, int64, error)
	Update(ctx context.Context, rec *models.FertilizerRecommendation) error
	Delete(ctx context.Context, id int64) error
}

var fertilizerColumns = []string{
	"id", "user_id", "crop_id", "crop_name", "soil_type", "soil_nutrients", "recommendations",
	"season", "climate_conditions", "total_estimated_cost", "expected_yield_increase", "status",
	"applied_date", "results", "generated_by", "created_at", "updated_at",
}

// FertilizerRecommendationRepository handles database operations for fertilizer recommendations
type FertilizerRecommendationRepository struct {
	DB *pgxpool.Pool
}

// NewFertilizerRecommendationRepository creates a new FertilizerRecommendationRepository
func NewFertilizerRecommendationRepository(db *pgxpool.Pool) *FertilizerRecommendationRepository {
	return &FertilizerRecommendationRepository{DB: db}
}

func scanFertilizerRecommendation(row pgx.Row) (*models.FertilizerRecommendation, error) {
	var f models.FertilizerRecommendation
	err := row.Scan(
		&f.ID, &f.UserID, &f.CropID, &f.CropName, &f.SoilType, &f.SoilNutrients, &f.Recommendations,
		&f.Season, &f.ClimateConditions, &f.TotalEstimatedCost, &f.ExpectedYieldIncrease, &f.Status,
		&f.AppliedDate, &f.Results, &f.GeneratedBy, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrFertilizerRecommendationNotFound
		}
		return nil, err
	}
	f.ApplyDefaults()
	return &f, nil
}

// Create inserts a recommendation; the total is recomputed from the line items
func (r *FertilizerRecommendationRepository) Create(ctx context.Context, rec *models.FertilizerRecommendation) error {
	rec.ApplyDefaults()
	rec.Recalculate()

	sql, args, err := psql.Insert("fertilizer_recommendations").
		Columns(fertilizerColumns[1:15]...).
		Values(
			rec.UserID, rec.CropID, rec.CropName, rec.SoilType, rec.SoilNutrients, rec.Recommendations,
			rec.Season, rec.ClimateConditions, rec.TotalEstimatedCost, rec.ExpectedYieldIncrease, rec.Status,
			rec.AppliedDate, rec.Results, rec.GeneratedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create fertilizer recommendation SQL")
		return fmt.Errorf("failed to build create fertilizer recommendation query: %w", err)
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewBadRequestError("Referenced crop does not exist")
		}
		logger.Error().Err(err).Int64("userID", rec.UserID).Msg("Error executing create fertilizer recommendation query")
		return fmt.Errorf("error creating fertilizer recommendation: %w", err)
	}
	return nil
}

// GetByID retrieves a recommendation by ID
func (r *FertilizerRecommendationRepository) GetByID(ctx context.Context, id int64) (*models.FertilizerRecommendation, error) {
	sql, args, err := psql.Select(fertilizerColumns...).From("fertilizer_recommendations").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get fertilizer recommendation SQL")
		return nil, err
	}

	rec, err := scanFertilizerRecommendation(r.DB.QueryRow(ctx, sql, args...))
	if err != nil && err != apperrors.ErrFertilizerRecommendationNotFound {
		logger.Error().Err(err).Int64("id", id).Msg("Error executing get fertilizer recommendation query")
	}
	return rec, err
}

// GetOwnerID returns the user that owns the recommendation
func (r *FertilizerRecommendationRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	return ownerOf(ctx, r.DB, "fertilizer_recommendations", id, apperrors.ErrFertilizerRecommendationNotFound)
}

func fertilizerFilter(b squirrel.SelectBuilder, userID int64, f dto.FertilizerFilter) squirrel.SelectBuilder {
	b = b.Where(squirrel.Eq{"user_id": userID})
	if f.Status != "" {
		b = b.Where(squirrel.Eq{"status": f.Status})
	}
	return b
}

// List returns one page of the user's recommendations, newest first
func (r *FertilizerRecommendationRepository) List(ctx context.Context, params ListParams, filter dto.FertilizerFilter) ([]*models.FertilizerRecommendation, int64, error) {
	total, err := countRows(ctx, r.DB, fertilizerFilter(psql.Select("count(*)").From("fertilizer_recommendations"), params.UserID, filter), "fertilizer recommendations")
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.FertilizerRecommendation{}, 0, nil
	}

	b := fertilizerFilter(psql.Select(fertilizerColumns...).From("fertilizer_recommendations"), params.UserID, filter).
		OrderBy("created_at DESC", "id DESC")
	recs, err := queryRows(ctx, r.DB, paginate(b, params), scanFertilizerRecommendation, "fertilizer recommendations")
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// Update saves every mutable column, recomputing the total first
func (r *FertilizerRecommendationRepository) Update(ctx context.Context, rec *models.FertilizerRecommendation) error {
	rec.ApplyDefaults()
	rec.Recalculate()

	sql, args, err := psql.Update("fertilizer_recommendations").
		SetMap(map[string]interface{}{
			"crop_id":                 rec.CropID,
			"crop_name":               rec.CropName,
			"soil_type":               rec.SoilType,
			"soil_nutrients":          rec.SoilNutrients,
			"recommendations":         rec.Recommendations,
			"season":                  rec.Season,
			"climate_conditions":      rec.ClimateConditions,
			"total_estimated_cost":    rec.TotalEstimatedCost,
			"expected_yield_increase": rec.ExpectedYieldIncrease,
			"status":                  rec.Status,
			"applied_date":            rec.AppliedDate,
			"results":                 rec.Results,
			"generated_by":            rec.GeneratedBy,
			"updated_at":              squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": rec.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update fertilizer recommendation SQL")
		return err
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&rec.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrFertilizerRecommendationNotFound
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewBadRequestError("Referenced crop does not exist")
		}
		logger.Error().Err(err).Int64("id", rec.ID).Msg("Error executing update fertilizer recommendation query")
		return fmt.Errorf("error updating fertilizer recommendation: %w", err)
	}
	return nil
}

// Delete removes a recommendation
func (r *FertilizerRecommendationRepository) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.DB, "fertilizer_recommendations", id, apperrors.ErrFertilizerRecommendationNotFound)
}
