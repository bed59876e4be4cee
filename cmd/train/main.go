// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

// Package main is the offline trainer. It summarizes the ratings file,
// trains and persists a model version, logs a sample for one user, and
// writes the processed movies file the API server reads.
//
// Usage:
//
//	train [-user 1] [-top 5] [-json]
//
// Paths and model settings come from the same configuration as the server
// (config.yaml and environment variables).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviemate/internal/catalog"
	"github.com/tomtom215/moviemate/internal/config"
	"github.com/tomtom215/moviemate/internal/database"
	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/recommend"
	"github.com/tomtom215/moviemate/internal/recommend/storage"
)

type options struct {
	userID  int64
	top     int
	jsonOut bool
}

func main() {
	var opts options
	flag.Int64Var(&opts.userID, "user", 1, "user for the sample recommendations")
	flag.IntVar(&opts.top, "top", 5, "number of sample recommendations")
	flag.BoolVar(&opts.jsonOut, "json", false, "print the dataset summary as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logCfg := cfg.LoggingConfig()
	logCfg.Service = "moviemate-train"
	logging.Init(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		logging.Error().Err(err).Msg("Training failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options) error {
	db, err := database.Open(cfg.Database())
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing database")
		}
	}()

	// [1] Dataset summary
	summary, err := db.Summarize(ctx, cfg.Data.RatingsPath, database.SummaryOptions{MoviesPath: cfg.Data.MoviesPath})
	if err != nil {
		return fmt.Errorf("summarize ratings: %w", err)
	}
	if err := printSummary(summary, opts.jsonOut); err != nil {
		return err
	}

	movies, err := db.LoadMovies(ctx, cfg.Data.MoviesPath)
	if err != nil {
		return fmt.Errorf("load movies: %w", err)
	}
	cat := catalog.New(movies)

	// [2] Train and persist
	store, err := storage.NewStore(cfg.Model.Dir)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}
	engine, err := recommend.NewEngine(cfg.Recommend(), database.NewCSVSource(db, cfg.Data.RatingsPath),
		store, recommend.NewHolder(), logging.WithComponent("recommend"))
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	res, err := engine.Train(ctx)
	if err != nil {
		return err
	}
	logging.Info().
		Int("version", res.Version).
		Str("dir", cfg.Model.Dir).
		Msg("Model saved")

	// [3] Sample output
	logSample(engine.Holder().Model(), cat, opts)

	// [4] Processed movies for the API server
	if err := catalog.WriteCSV(cfg.Data.ProcessedMoviesPath, cat.Movies()); err != nil {
		return fmt.Errorf("write processed movies: %w", err)
	}
	logging.Info().
		Str("path", cfg.Data.ProcessedMoviesPath).
		Int("movies", cat.Len()).
		Msg("Processed movies written")
	return nil
}

func printSummary(s *database.DatasetSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Printf("Ratings:  %d\n", s.Ratings)
	fmt.Printf("Users:    %d\n", s.Users)
	fmt.Printf("Movies:   %d rated, %d in catalog\n", s.Movies, s.Catalog)
	fmt.Printf("Rating:   %.1f to %.1f, mean %.2f\n", s.Min, s.Max, s.Mean)
	fmt.Printf("Sparsity: %.2f%%\n", s.Sparsity*100)
	fmt.Println("Distribution:")
	for _, b := range s.Distribution {
		fmt.Printf("  %.1f  %d\n", b.Rating, b.Count)
	}
	fmt.Printf("Ratings per user:  mean %.1f, min %d, max %d\n", s.UserActivity.Mean, s.UserActivity.Min, s.UserActivity.Max)
	fmt.Printf("Ratings per movie: mean %.1f, min %d, max %d\n", s.MoviePopularity.Mean, s.MoviePopularity.Min, s.MoviePopularity.Max)
	if len(s.TopMovies) > 0 {
		fmt.Println("Top rated movies:")
		for i, m := range s.TopMovies {
			fmt.Printf("  %2d. %s (%.2f, %d ratings)\n", i+1, m.Title, m.AvgRating, m.Count)
		}
	}
	return nil
}

func logSample(m *recommend.Model, cat *catalog.Catalog, opts options) {
	title := func(id int64) string {
		if movie, ok := cat.Get(id); ok {
			return movie.Title
		}
		return fmt.Sprintf("movie %d", id)
	}

	recs := m.Recommend(opts.userID, opts.top, true)
	if len(recs) == 0 {
		logging.Warn().Int64("user_id", opts.userID).Msg("No sample recommendations")
		return
	}
	for i, rec := range recs {
		logging.Info().
			Int("rank", i+1).
			Int64("movie_id", rec.ItemID).
			Str("title", title(rec.ItemID)).
			Float64("predicted_rating", rec.Score).
			Msg("Sample recommendation")
	}

	first := recs[0].ItemID
	logging.Info().
		Int64("user_id", opts.userID).
		Int64("movie_id", first).
		Float64("predicted_rating", m.Predict(opts.userID, first)).
		Msg("Sample prediction")

	for _, s := range m.SimilarItems(first, 3) {
		logging.Info().
			Int64("movie_id", s.ItemID).
			Str("title", title(s.ItemID)).
			Float64("similarity", s.Similarity).
			Str("similar_to", title(first)).
			Msg("Sample similar movie")
	}
}
