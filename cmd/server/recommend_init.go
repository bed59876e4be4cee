// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviemate/internal/catalog"
	"github.com/tomtom215/moviemate/internal/config"
	"github.com/tomtom215/moviemate/internal/database"
	"github.com/tomtom215/moviemate/internal/metrics"
	"github.com/tomtom215/moviemate/internal/recommend"
	"github.com/tomtom215/moviemate/internal/recommend/storage"
)

// initRecommend builds the engine over the ratings CSV and the on-disk
// model store. Training outcomes feed the Prometheus gauges.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, db *database.DB, logger zerolog.Logger) (*recommend.Engine, error) {
	store, err := storage.NewStore(cfg.Model.Dir)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}

	source := database.NewCSVSource(db, cfg.Data.RatingsPath)
	engine, err := recommend.NewEngine(cfg.Recommend(), source, store, recommend.NewHolder(), logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	engine.OnTrained(func(res recommend.TrainResult) {
		if res.Duration == 0 && res.Err == nil {
			// Restored from disk rather than trained.
			metrics.SetServingModel(res.Version, res.ExplainedVariance)
			return
		}
		metrics.RecordTraining(res.Duration, res.Version, res.ExplainedVariance, res.Err)
	})

	logger.Info().
		Str("model_dir", cfg.Model.Dir).
		Str("ratings", cfg.Data.RatingsPath).
		Int("components", cfg.Model.Components).
		Str("svd_method", cfg.Model.SVDMethod).
		Msg("recommendation engine initialized")
	return engine, nil
}

// loadCatalog reads the processed movies file written by cmd/train, or the
// raw movies file when that does not exist yet.
func loadCatalog(ctx context.Context, cfg *config.Config, db *database.DB) (*catalog.Catalog, error) {
	movies, err := db.LoadMovies(ctx, cfg.Data.ProcessedMoviesPath)
	if errors.Is(err, database.ErrFileNotFound) {
		movies, err = db.LoadMovies(ctx, cfg.Data.MoviesPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	return catalog.New(movies), nil
}
