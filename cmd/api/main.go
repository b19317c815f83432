package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Kaustubh-Sir/cropsuit/internal/bootstrap"
	"github.com/Kaustubh-Sir/cropsuit/internal/config"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/logger"
	"github.com/Kaustubh-Sir/cropsuit/internal/seed"
	"github.com/Kaustubh-Sir/cropsuit/internal/server"
)

// @title Cropsuit API
// @version 1.0.0
// @description Farm management API: crops, fertilizer and crop recommendations, weather, seasonal plans and Farmonaut data

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	load := func() (*config.Config, zerolog.Logger, error) {
		return bootstrap.LoadConfigAndSetupLogger(configPath)
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Migrate, seed and run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := load()
			if err != nil {
				return err
			}
			srv, err := server.NewServer(cfg, lgr)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Run(ctx); err != nil {
				return err
			}
			lgr.Info().Msg("Application finished gracefully.")
			return nil
		},
	}

	root := &cobra.Command{
		Use:           "cropsuit",
		Short:         "Cropsuit farm management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.DefaultConfigPath, "path to the YAML config file")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := load()
			if err != nil {
				return err
			}
			pool, err := bootstrap.SetupDatabase(cfg, lgr)
			if err != nil {
				return err
			}
			pool.Close()
			return nil
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := load()
			if err != nil {
				return err
			}
			pool, err := bootstrap.SetupDatabase(cfg, lgr)
			if err != nil {
				return err
			}
			defer pool.Close()

			deps, err := bootstrap.BuildDependencies(cfg, pool, lgr)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			return seed.CreateDefaultData(ctx, deps.Repos.UserRepository, seed.AdminAccount{
				Email:    cfg.Seed.AdminEmail,
				Password: cfg.Seed.AdminPassword,
			}, lgr)
		},
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete expired weather rows and expire stale crop recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := load()
			if err != nil {
				return err
			}
			pool, err := bootstrap.ConnectDatabase(cfg, lgr)
			if err != nil {
				return err
			}
			defer pool.Close()

			deps, err := bootstrap.BuildDependencies(cfg, pool, lgr)
			if err != nil {
				return err
			}
			report, err := deps.MaintenanceService.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "weather purged: %d, recommendations expired: %d\n",
				report.WeatherPurged, report.RecommendationsExpired)
			return nil
		},
	}

	root.AddCommand(serve, migrate, seedCmd, purge)
	return root
}
