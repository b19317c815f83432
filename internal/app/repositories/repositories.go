package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/helpers"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository                     *UserRepository
	CropRepository                     *CropRepository
	FertilizerRecommendationRepository *FertilizerRecommendationRepository
	CropRecommendationRepository       *CropRecommendationRepository
	SeasonalPlanRepository             *SeasonalPlanRepository
	WeatherRepository                  *WeatherRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:                     NewUserRepository(db),
		CropRepository:                     NewCropRepository(db),
		FertilizerRecommendationRepository: NewFertilizerRecommendationRepository(db),
		CropRecommendationRepository:       NewCropRecommendationRepository(db),
		SeasonalPlanRepository:             NewSeasonalPlanRepository(db),
		WeatherRepository:                  NewWeatherRepository(db),
	}
}

// ListParams scopes a list query to one owner and one page
type ListParams struct {
	UserID int64
	Page   int
	Limit  int
}

// psql is the statement builder shared by every repository
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// countRows runs a count(*) query
func countRows(ctx context.Context, db *pgxpool.Pool, b squirrel.SelectBuilder, what string) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Msgf("Error building count %s query", what)
		return 0, fmt.Errorf("failed to build count %s query: %w", what, err)
	}

	var total int64
	if err := db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msgf("Error executing count %s query", what)
		return 0, fmt.Errorf("error counting %s: %w", what, err)
	}
	return total, nil
}

// paginate applies the page's LIMIT and OFFSET
func paginate(b squirrel.SelectBuilder, p ListParams) squirrel.SelectBuilder {
	offset, limit := helpers.CalculateOffsetLimit(p.Page, p.Limit)
	return b.Limit(limit).Offset(offset)
}

// queryRows runs b and scans each row with scan
func queryRows[T any](ctx context.Context, db *pgxpool.Pool, b squirrel.SelectBuilder, scan func(pgx.Row) (*T, error), what string) ([]*T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Msgf("Error building list %s query", what)
		return nil, fmt.Errorf("failed to build list %s query: %w", what, err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msgf("Error executing list %s query", what)
		return nil, fmt.Errorf("error listing %s: %w", what, err)
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			logger.Error().Err(err).Msgf("Error scanning %s row", what)
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msgf("Error iterating %s rows", what)
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return items, nil
}

// ownerOf returns the user_id of a row, or notFound when the row is missing
func ownerOf(ctx context.Context, db *pgxpool.Pool, table string, id int64, notFound error) (int64, error) {
	sql, args, err := psql.Select("user_id").From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building owner query")
		return 0, err
	}

	var ownerID int64
	if err := db.QueryRow(ctx, sql, args...).Scan(&ownerID); err != nil {
		if err == pgx.ErrNoRows {
			return 0, notFound
		}
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error executing owner query")
		return 0, err
	}
	return ownerID, nil
}

// deleteRow deletes one row by id, reporting notFound when nothing was deleted
func deleteRow(ctx context.Context, db *pgxpool.Pool, table string, id int64, notFound error) error {
	sql, args, err := psql.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building delete SQL")
		return err
	}

	cmdTag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error executing delete query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
