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
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/logger"
)

// ISeasonalPlanRepository defines the data operations on seasonal plans
type ISeasonalPlanRepository interface {
	Create(ctx context.Context, plan *models.SeasonalPlan) error
	GetByID(ctx context.Context, id int64) (*models.SeasonalPlan, error)
	GetOwnerID(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, params ListParams, filter dto.PlanFilter) ([]*models.SeasonalPlan, int64, error)
	Update(ctx context.Context, plan *models.SeasonalPlan) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, userID int64) (*dto.PlanStats, error)
}

var seasonalPlanColumns = []string{
	"id", "user_id", "year", "season", "plan_name", "description", "start_date", "end_date",
	"total_area", "crops", "rotation_strategy", "financials", "resources", "milestones", "risks",
	"weather_considerations", "status", "progress", "notes", "created_at", "updated_at",
}

// SeasonalPlanRepository handles database operations for seasonal plans
type SeasonalPlanRepository struct {
	DB *pgxpool.Pool
}

// NewSeasonalPlanRepository creates a new SeasonalPlanRepository
func NewSeasonalPlanRepository(db *pgxpool.Pool) *SeasonalPlanRepository {
	return &SeasonalPlanRepository{DB: db}
}

func scanSeasonalPlan(row pgx.Row) (*models.SeasonalPlan, error) {
	var p models.SeasonalPlan
	err := row.Scan(
		&p.ID, &p.UserID, &p.Year, &p.Season, &p.PlanName, &p.Description, &p.StartDate, &p.EndDate,
		&p.TotalArea, &p.Crops, &p.RotationStrategy, &p.Financials, &p.Resources, &p.Milestones, &p.Risks,
		&p.WeatherConsiderations, &p.Status, &p.Progress, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrSeasonalPlanNotFound
		}
		return nil, err
	}
	p.ApplyDefaults()
	return &p, nil
}

// Create inserts a plan after applying defaults and roll-ups
func (r *SeasonalPlanRepository) Create(ctx context.Context, plan *models.SeasonalPlan) error {
	plan.ApplyDefaults()
	plan.Recalculate()

	sql, args, err := psql.Insert("seasonal_plans").
		Columns(seasonalPlanColumns[1:19]...).
		Values(
			plan.UserID, plan.Year, plan.Season, plan.PlanName, plan.Description, plan.StartDate, plan.EndDate,
			plan.TotalArea, plan.Crops, plan.RotationStrategy, plan.Financials, plan.Resources, plan.Milestones, plan.Risks,
			plan.WeatherConsiderations, plan.Status, plan.Progress, plan.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create seasonal plan SQL")
		return fmt.Errorf("failed to build create seasonal plan query: %w", err)
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("userID", plan.UserID).Msg("Error executing create seasonal plan query")
		return fmt.Errorf("error creating seasonal plan: %w", err)
	}
	return nil
}

// GetByID retrieves a plan by ID
func (r *SeasonalPlanRepository) GetByID(ctx context.Context, id int64) (*models.SeasonalPlan, error) {
	sql, args, err := psql.Select(seasonalPlanColumns...).From("seasonal_plans").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get seasonal plan SQL")
		return nil, err
	}

	plan, err := scanSeasonalPlan(r.DB.QueryRow(ctx, sql, args...))
	if err != nil && err != apperrors.ErrSeasonalPlanNotFound {
		logger.Error().Err(err).Int64("id", id).Msg("Error executing get seasonal plan query")
	}
	return plan, err
}

// GetOwnerID returns the user that owns the plan
func (r *SeasonalPlanRepository) GetOwnerID(ctx context.Context, id int64) (int64, error) {
	return ownerOf(ctx, r.DB, "seasonal_plans", id, apperrors.ErrSeasonalPlanNotFound)
}

func seasonalPlanFilter(b squirrel.SelectBuilder, userID int64, f dto.PlanFilter) squirrel.SelectBuilder {
	b = b.Where(squirrel.Eq{"user_id": userID})
	if f.Status != "" {
		b = b.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Season != "" {
		b = b.Where(squirrel.Eq{"season": f.Season})
	}
	if f.Year != 0 {
		b = b.Where(squirrel.Eq{"year": f.Year})
	}
	return b
}

// List returns one page of the user's plans, latest year first
func (r *SeasonalPlanRepository) List(ctx context.Context, params ListParams, filter dto.PlanFilter) ([]*models.SeasonalPlan, int64, error) {
	total, err := countRows(ctx, r.DB, seasonalPlanFilter(psql.Select("count(*)").From("seasonal_plans"), params.UserID, filter), "seasonal plans")
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.SeasonalPlan{}, 0, nil
	}

	b := seasonalPlanFilter(psql.Select(seasonalPlanColumns...).From("seasonal_plans"), params.UserID, filter).
		OrderBy("year DESC", "created_at DESC", "id DESC")
	plans, err := queryRows(ctx, r.DB, paginate(b, params), scanSeasonalPlan, "seasonal plans")
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// Update saves every mutable column after recomputing the roll-ups
func (r *SeasonalPlanRepository) Update(ctx context.Context, plan *models.SeasonalPlan) error {
	plan.ApplyDefaults()
	plan.Recalculate()

	sql, args, err := psql.Update("seasonal_plans").
		SetMap(map[string]interface{}{
			"year":                   plan.Year,
			"season":                 plan.Season,
			"plan_name":              plan.PlanName,
			"description":            plan.Description,
			"start_date":             plan.StartDate,
			"end_date":               plan.EndDate,
			"total_area":             plan.TotalArea,
			"crops":                  plan.Crops,
			"rotation_strategy":      plan.RotationStrategy,
			"financials":             plan.Financials,
			"resources":              plan.Resources,
			"milestones":             plan.Milestones,
			"risks":                  plan.Risks,
			"weather_considerations": plan.WeatherConsiderations,
			"status":                 plan.Status,
			"progress":               plan.Progress,
			"notes":                  plan.Notes,
			"updated_at":             squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": plan.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update seasonal plan SQL")
		return err
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&plan.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrSeasonalPlanNotFound
		}
		logger.Error().Err(err).Int64("id", plan.ID).Msg("Error executing update seasonal plan query")
		return fmt.Errorf("error updating seasonal plan: %w", err)
	}
	return nil
}

// Delete removes a plan
func (r *SeasonalPlanRepository) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.DB, "seasonal_plans", id, apperrors.ErrSeasonalPlanNotFound)
}

// Stats groups the user's plans by status (with area and budget) and by season
func (r *SeasonalPlanRepository) Stats(ctx context.Context, userID int64) (*dto.PlanStats, error) {
	stats := &dto.PlanStats{
		ByStatus: []dto.PlanStatusStat{},
		BySeason: []dto.PlanSeasonStat{},
	}

	byStatus := psql.Select(
		"status",
		"count(*)",
		"COALESCE(SUM(total_area), 0)",
		"COALESCE(SUM((financials->>'totalBudget')::double precision), 0)",
	).
		From("seasonal_plans").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("status").
		OrderBy("status")
	statuses, err := queryRows(ctx, r.DB, byStatus, func(row pgx.Row) (*dto.PlanStatusStat, error) {
		var s dto.PlanStatusStat
		return &s, row.Scan(&s.ID, &s.Count, &s.TotalArea, &s.TotalBudget)
	}, "plan status stats")
	if err != nil {
		return nil, err
	}
	for _, s := range statuses {
		stats.ByStatus = append(stats.ByStatus, *s)
	}

	bySeason := psql.Select("season", "count(*)").
		From("seasonal_plans").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("season").
		OrderBy("season")
	seasons, err := queryRows(ctx, r.DB, bySeason, func(row pgx.Row) (*dto.PlanSeasonStat, error) {
		var s dto.PlanSeasonStat
		return &s, row.Scan(&s.ID, &s.Count)
	}, "plan season stats")
	if err != nil {
		return nil, err
	}
	for _, s := range seasons {
		stats.BySeason = append(stats.BySeason, *s)
	}

	return stats, nil
}
