// Package server runs the HTTP API and its background maintenance loop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Kaustubh-Sir/cropsuit/internal/bootstrap"
	"github.com/Kaustubh-Sir/cropsuit/internal/config"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/helpers"
	"github.com/Kaustubh-Sir/cropsuit/internal/seed"
)

const (
	seedTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server owns the HTTP listener, the maintenance loop and the pool they share.
type Server struct {
	config *config.Config
	router *gin.Engine
	dbPool *pgxpool.Pool
	deps   *bootstrap.Dependencies
	logger zerolog.Logger
}

// NewServer migrates the database, wires dependencies and seeds the admin
// account. A seeding failure is logged and does not stop startup.
func NewServer(cfg *config.Config, lgr zerolog.Logger) (*Server, error) {
	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, pool, lgr)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()
	admin := seed.AdminAccount{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword}
	if err := seed.CreateDefaultData(ctx, deps.Repos.UserRepository, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed admin account, continuing")
	}

	return &Server{
		config: cfg,
		router: bootstrap.SetupRouter(cfg, deps, lgr),
		dbPool: pool,
		deps:   deps,
		logger: lgr,
	}, nil
}

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests, stops maintenance and closes the pool.
func (s *Server) Run(ctx context.Context) error {
	defer s.dbPool.Close()

	httpServer := &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	interval := helpers.ParseDuration(s.config.Maintenance.Interval, time.Hour)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", httpServer.Addr).Str("mode", s.config.Server.Mode).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.logger.Info().Dur("interval", interval).Msg("Maintenance loop started")
		s.deps.MaintenanceService.Run(gctx, interval)
		s.logger.Info().Msg("Maintenance loop stopped")
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.logger.Info().Msg("Server stopped")
	return err
}
