// Package bootstrap loads configuration and assembles the application graph.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/Kaustubh-Sir/cropsuit/internal/app/auth"
	appControllers "github.com/Kaustubh-Sir/cropsuit/internal/app/controllers"
	appMigrations "github.com/Kaustubh-Sir/cropsuit/internal/app/migrations"
	appRepos "github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	appRoutes "github.com/Kaustubh-Sir/cropsuit/internal/app/routes"
	appServices "github.com/Kaustubh-Sir/cropsuit/internal/app/services"
	"github.com/Kaustubh-Sir/cropsuit/internal/config"
	"github.com/Kaustubh-Sir/cropsuit/internal/db"
	appMiddleware "github.com/Kaustubh-Sir/cropsuit/internal/middleware"
	pkgAuth "github.com/Kaustubh-Sir/cropsuit/internal/pkg/auth"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/farmonaut"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/helpers"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/logger"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/metrics"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/openweather"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/validation"
	"github.com/Kaustubh-Sir/cropsuit/migrations"
)

// DefaultConfigPath is read when no --config flag is given
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	Metrics        *metrics.Metrics
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger

	AuthService               appServices.AuthService
	CropService               appServices.CropService
	FertilizerService         appServices.FertilizerService
	CropRecommendationService appServices.CropRecommendationService
	WeatherService            appServices.WeatherService
	SeasonalPlanService       appServices.SeasonalPlanService
	FarmonautService          appServices.FarmonautService
	MaintenanceService        appServices.MaintenanceService

	Controllers appRoutes.Controllers
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  cfg.Logging.Format == "text",
		Service: "cropsuit",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the pool without touching the schema
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	pool, err := db.NewPool(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return pool, nil
}

// Migrate applies the embedded SQL migrations
func Migrate(ctx context.Context, pool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(pool, lgr).MigrateFromFS(ctx, migrations.Files); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	pool, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := Migrate(ctx, pool, lgr); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Metrics = metrics.New("cropsuit")

	deps.AuthzService = appAuth.NewAuthorizationService(
		deps.Repos.UserRepository,
		deps.Repos.CropRepository,
		deps.Repos.FertilizerRecommendationRepository,
		deps.Repos.CropRecommendationRepository,
		deps.Repos.SeasonalPlanRepository,
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.Expiration, 7*24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	weatherClient := openweather.NewClient(openweather.Config{
		APIKey:  cfg.Weather.APIKey,
		BaseURL: cfg.Weather.BaseURL,
		Timeout: helpers.ParseDuration(cfg.Weather.Timeout, 10*time.Second),
	})
	if !weatherClient.Enabled() {
		lgr.Warn().Msg("WEATHER_API_KEY is not set, weather endpoints will serve fallback data")
	}

	farmonautClient := farmonaut.NewClient(farmonaut.Config{
		APIKey:  cfg.Farmonaut.APIKey,
		BaseURL: cfg.Farmonaut.BaseURL,
		Host:    cfg.Farmonaut.Host,
		Timeout: helpers.ParseDuration(cfg.Farmonaut.Timeout, 10*time.Second),
	})
	if !farmonautClient.Enabled() {
		lgr.Warn().Msg("RAPIDAPI_KEY is not set, Farmonaut endpoints will serve fallback data")
	}

	// Initialize services
	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.CropService = appServices.NewCropService(deps.Repos.CropRepository, deps.AuthzService)
	deps.FertilizerService = appServices.NewFertilizerService(deps.Repos.FertilizerRecommendationRepository, deps.AuthzService)
	deps.CropRecommendationService = appServices.NewCropRecommendationService(deps.Repos.CropRecommendationRepository, deps.AuthzService)
	deps.WeatherService = appServices.NewWeatherService(weatherClient, deps.Repos.WeatherRepository, deps.Metrics, lgr)
	deps.SeasonalPlanService = appServices.NewSeasonalPlanService(deps.Repos.SeasonalPlanRepository, deps.AuthzService)
	deps.FarmonautService = appServices.NewFarmonautService(farmonautClient, deps.Metrics, lgr)
	deps.MaintenanceService = appServices.NewMaintenanceService(
		deps.Repos.WeatherRepository,
		deps.Repos.CropRecommendationRepository,
		helpers.ParseDuration(cfg.Weather.TTL, 7*24*time.Hour),
		deps.Metrics,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService, cfg.JWT.CookieName)

	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(deps.AuthService, appControllers.CookieConfig{
			Name:   cfg.JWT.CookieName,
			Secure: cfg.IsProduction(),
		}, lgr),
		Crop:               appControllers.NewCropController(deps.CropService),
		Fertilizer:         appControllers.NewFertilizerController(deps.FertilizerService),
		CropRecommendation: appControllers.NewCropRecommendationController(deps.CropRecommendationService),
		Weather:            appControllers.NewWeatherController(deps.WeatherService),
		SeasonalPlan:       appControllers.NewSeasonalPlanController(deps.SeasonalPlanService),
		Farmonaut:          appControllers.NewFarmonautController(deps.FarmonautService),
		Admin:              appControllers.NewAdminController(deps.MaintenanceService, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}
	validation.RegisterWithGin()

	router := gin.New()
	router.Use(
		appMiddleware.RequestLogger(),
		appMiddleware.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     []string{cfg.Server.FrontendURL},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", appMiddleware.RequestIDKey},
			ExposeHeaders:    []string{"Content-Disposition", appMiddleware.RequestIDKey},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	if cfg.Metrics.Enabled {
		router.Use(deps.Metrics.Middleware())
		router.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
