//go:build integration

package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Kaustubh-Sir/cropsuit/internal/app/migrations"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	"github.com/Kaustubh-Sir/cropsuit/internal/db"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	sqlfiles "github.com/Kaustubh-Sir/cropsuit/migrations"
)

func setupRepositories(t *testing.T) *repositories.Repositories {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("cropsuit_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.Connect(ctx, connString, db.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool, zerolog.Nop()).MigrateFromFS(ctx, sqlfiles.Files))
	return repositories.NewRepositories(pool)
}

func createUser(t *testing.T, repos *repositories.Repositories, email string) *models.User {
	t.Helper()
	u := models.NewUser("Ravi Kumar", email, "hash")
	require.NoError(t, repos.UserRepository.Create(context.Background(), u))
	return u
}

func TestRepositories_Postgres(t *testing.T) {
	repos := setupRepositories(t)
	ctx := context.Background()

	t.Run("duplicate email", func(t *testing.T) {
		createUser(t, repos, "dup@example.com")
		err := repos.UserRepository.Create(ctx, models.NewUser("Other", "DUP@example.com", "hash"))
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("crop lifecycle", func(t *testing.T) {
		owner := createUser(t, repos, "crops@example.com")
		now := time.Now().UTC().Truncate(time.Second)
		crop := &models.Crop{
			UserID:              owner.ID,
			Name:                "Wheat",
			Category:            "cereals",
			PlantingDate:        now,
			ExpectedHarvestDate: now.AddDate(0, 4, 0),
			Area:                models.Float(2.5),
			Season:              models.SeasonRabi,
			CostTracking:        models.CropCosts{Seeds: 1000, Labor: 500},
		}
		require.NoError(t, repos.CropRepository.Create(ctx, crop))
		require.NotZero(t, crop.ID)

		got, err := repos.CropRepository.GetByID(ctx, crop.ID)
		require.NoError(t, err)
		assert.Equal(t, 1500.0, got.CostTracking.Total)
		assert.Equal(t, "planned", got.Status)
		assert.NotNil(t, got.Notes)

		ownerID, err := repos.CropRepository.GetOwnerID(ctx, crop.ID)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, ownerID)

		got.Status = "growing"
		require.NoError(t, repos.CropRepository.Update(ctx, got))

		items, total, err := repos.CropRepository.List(ctx,
			repositories.ListParams{UserID: owner.ID, Page: 1, Limit: 10},
			dto.CropFilter{Status: "growing"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, items, 1)

		stats, err := repos.CropRepository.Stats(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, stats.ByStatus, 1)
		assert.Equal(t, "growing", stats.ByStatus[0].ID)
		assert.Equal(t, 2.5, stats.ByStatus[0].TotalArea)

		require.NoError(t, repos.CropRepository.Delete(ctx, crop.ID))
		_, err = repos.CropRepository.GetByID(ctx, crop.ID)
		assert.ErrorIs(t, err, apperrors.ErrCropNotFound)
		assert.ErrorIs(t, repos.CropRepository.Delete(ctx, crop.ID), apperrors.ErrCropNotFound)
	})

	t.Run("expire stale recommendations", func(t *testing.T) {
		owner := createUser(t, repos, "recs@example.com")
		rec := &models.CropRecommendation{
			UserID:        owner.ID,
			Season:        models.SeasonKharif,
			SoilType:      "loamy",
			AvailableArea: models.Float(5),
		}
		require.NoError(t, repos.CropRecommendationRepository.Create(ctx, rec))

		n, err := repos.CropRecommendationRepository.ExpireStale(ctx, time.Now().Add(models.CropRecommendationTTL+time.Hour))
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		got, err := repos.CropRecommendationRepository.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CropRecommendationExpired, got.Status)
	})

	t.Run("plan stats", func(t *testing.T) {
		owner := createUser(t, repos, "plans@example.com")
		start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		plan := &models.SeasonalPlan{
			UserID:     owner.ID,
			Year:       2025,
			Season:     models.SeasonKharif,
			PlanName:   "Kharif 2025",
			StartDate:  start,
			EndDate:    start.AddDate(0, 5, 0),
			TotalArea:  models.Float(10),
			Financials: models.PlanFinancials{TotalBudget: models.Float(50000)},
			Milestones: []models.Milestone{{Title: "Sowing"}, {Title: "Harvest", Completed: true}},
		}
		require.NoError(t, repos.SeasonalPlanRepository.Create(ctx, plan))

		got, err := repos.SeasonalPlanRepository.GetByID(ctx, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, 50, got.Progress)
		require.Len(t, got.Milestones, 2)
		assert.NotEmpty(t, got.Milestones[0].ID)

		stats, err := repos.SeasonalPlanRepository.Stats(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, stats.ByStatus, 1)
		assert.Equal(t, 50000.0, stats.ByStatus[0].TotalBudget)
		require.Len(t, stats.BySeason, 1)
		assert.Equal(t, models.SeasonKharif, stats.BySeason[0].ID)
	})

	t.Run("weather history and purge", func(t *testing.T) {
		owner := createUser(t, repos, "weather@example.com")
		for i := 0; i < 2; i++ {
			require.NoError(t, repos.WeatherRepository.Create(ctx, &models.WeatherData{
				UserID:     &owner.ID,
				Location:   models.WeatherLocation{Type: "Point", Coordinates: []float64{77.2, 28.6}},
				DataSource: models.WeatherSourceFallback,
			}))
		}

		items, total, err := repos.WeatherRepository.History(ctx, repositories.ListParams{UserID: owner.ID, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, items, 2)

		n, err := repos.WeatherRepository.PurgeOlderThan(ctx, time.Now().Add(time.Minute))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(2))
	})
}
