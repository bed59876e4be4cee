// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "github.com/tomtom215/moviemate/docs" // Import generated swagger docs
	"github.com/tomtom215/moviemate/internal/api"
	"github.com/tomtom215/moviemate/internal/auth"
	"github.com/tomtom215/moviemate/internal/catalog"
	"github.com/tomtom215/moviemate/internal/config"
	"github.com/tomtom215/moviemate/internal/database"
	"github.com/tomtom215/moviemate/internal/feedback"
	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/metrics"
	"github.com/tomtom215/moviemate/internal/recommend"
	"github.com/tomtom215/moviemate/internal/supervisor"
	"github.com/tomtom215/moviemate/internal/supervisor/services"
	ws "github.com/tomtom215/moviemate/internal/websocket"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingConfig())
	metrics.SetAppInfo(api.Version, runtime.Version())

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Bool("admin_enabled", cfg.Security.AdminEnabled()).
		Msg("Starting MovieMate")

	db, err := database.Open(cfg.Database())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open DuckDB")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	engine, err := initRecommend(cfg, db, logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	movies := catalog.NewHolder()
	if c, err := loadCatalog(ctx, cfg, db); err != nil {
		logging.Warn().Err(err).Msg("Movie catalog unavailable; catalog endpoints will return 404")
	} else {
		movies.Swap(c)
		logging.Info().Int("movies", c.Len()).Msg("Movie catalog loaded")
	}

	evts, err := initEvents(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		if err := evts.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	engine.OnTrained(func(res recommend.TrainResult) {
		if res.Err != nil {
			return
		}
		pubCtx, pubCancel := context.WithTimeout(ctx, 5*time.Second)
		defer pubCancel()
		if err := evts.Publisher.PublishModelTrained(pubCtx, res); err != nil {
			logging.Warn().Err(err).Int("version", res.Version).Msg("Failed to publish model_trained event")
		}
	})

	feedbackStore, err := feedback.Open(cfg.Feedback.BadgerPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open feedback store")
	}
	defer func() {
		if err := feedbackStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing feedback store")
		}
	}()

	var (
		authenticator *auth.Authenticator
		jwtManager    *auth.JWTManager
	)
	authenticator, err = auth.NewAuthenticator(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
	switch {
	case errors.Is(err, auth.ErrAuthDisabled):
		logging.Info().Msg("Admin login disabled (ADMIN_USERNAME not set); admin endpoints return 503")
	case err != nil:
		logging.Fatal().Err(err).Msg("Failed to initialize admin authentication")
	default:
		jwtManager, err = auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Str("username", logging.SanitizeUsername(cfg.Security.AdminUsername)).Msg("Admin login enabled")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*) while admin login is enabled; set explicit origins")
	}

	hub := ws.NewHub()

	handler := api.NewHandler(ctx, api.Dependencies{
		Models:         engine.Holder(),
		Catalog:        movies,
		Trainer:        engine,
		Feedback:       feedbackStore,
		Publisher:      evts.Publisher,
		Hub:            hub,
		Auth:           authenticator,
		JWT:            jwtManager,
		Retrain:        auth.NewRetrainLimiter(cfg.Security.RetrainMinInterval),
		ExplainLimit:   cfg.Model.ExplainLimit,
		TrainTimeout:   cfg.Training.Timeout,
		AllowedOrigins: cfg.Security.CORSOrigins,
		CacheSize:      cfg.Cache.Size,
		CacheTTL:       cfg.Cache.TTL,
	})

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled
	router := api.NewRouter(handler, api.NewChiMiddleware(mwCfg))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.Timeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewTrainingService(engine, services.TrainingServiceConfig{
		Interval: cfg.Training.Interval,
		Timeout:  cfg.Training.Timeout,
	}, logging.WithComponent("training")))

	tree.AddMessagingService(services.NewHubService(hub, logging.WithComponent("websocket")))
	evts.addToTree(tree, hub)

	tree.AddAPIService(services.NewAPIServerService(server, services.APIServerConfig{
		Addr:            server.Addr,
		ShutdownTimeout: cfg.Server.Timeout,
	}, logging.WithComponent("api")))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("MovieMate stopped")
}
