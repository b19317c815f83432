package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/logger"
)

// IWeatherRepository defines the data operations on weather snapshots
type IWeatherRepository interface {
	Create(ctx context.Context, data *models.WeatherData) error
	History(ctx context.Context, params ListParams) ([]*models.WeatherData, int64, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

var weatherColumns = []string{
	"id", "user_id", "location", "current", "daily", "hourly", "alerts",
	"agricultural_advice", "data_source", "last_updated", "created_at", "updated_at",
}

// WeatherRepository handles database operations for weather snapshots
type WeatherRepository struct {
	DB *pgxpool.Pool
}

// NewWeatherRepository creates a new WeatherRepository
func NewWeatherRepository(db *pgxpool.Pool) *WeatherRepository {
	return &WeatherRepository{DB: db}
}

func scanWeatherData(row pgx.Row) (*models.WeatherData, error) {
	var w models.WeatherData
	err := row.Scan(
		&w.ID, &w.UserID, &w.Location, &w.Current, &w.Daily, &w.Hourly, &w.Alerts,
		&w.AgriculturalAdvice, &w.DataSource, &w.LastUpdated, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, err
	}
	return &w, nil
}

// nonNil keeps JSONB NOT NULL columns from receiving SQL NULL
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Create stores a snapshot
func (r *WeatherRepository) Create(ctx context.Context, data *models.WeatherData) error {
	if data.LastUpdated.IsZero() {
		data.LastUpdated = time.Now()
	}
	if data.DataSource == "" {
		data.DataSource = models.WeatherSourceOpenWeather
	}

	sql, args, err := psql.Insert("weather_data").
		Columns(weatherColumns[1:10]...).
		Values(
			data.UserID, data.Location, data.Current, nonNil(data.Daily), nonNil(data.Hourly), nonNil(data.Alerts),
			data.AgriculturalAdvice, data.DataSource, data.LastUpdated,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create weather data SQL")
		return fmt.Errorf("failed to build create weather data query: %w", err)
	}

	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&data.ID, &data.CreatedAt, &data.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create weather data query")
		return fmt.Errorf("error creating weather data: %w", err)
	}
	return nil
}

// History returns one page of the user's snapshots, newest first
func (r *WeatherRepository) History(ctx context.Context, params ListParams) ([]*models.WeatherData, int64, error) {
	where := squirrel.Eq{"user_id": params.UserID}

	total, err := countRows(ctx, r.DB, psql.Select("count(*)").From("weather_data").Where(where), "weather data")
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.WeatherData{}, 0, nil
	}

	b := psql.Select(weatherColumns...).From("weather_data").Where(where).OrderBy("created_at DESC", "id DESC")
	items, err := queryRows(ctx, r.DB, paginate(b, params), scanWeatherData, "weather data")
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// PurgeOlderThan deletes snapshots created before cutoff
func (r *WeatherRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	sql, args, err := psql.Delete("weather_data").Where(squirrel.Lt{"created_at": cutoff}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building purge weather data SQL")
		return 0, err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing purge weather data query")
		return 0, fmt.Errorf("error purging weather data: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
