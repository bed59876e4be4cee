// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package database

import (
	"context"
	"time"

	"github.com/tomtom215/moviemate/internal/breaker"
	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/recommend"
)

// CSVSource feeds the training engine from a ratings file. Loads run through
// a circuit breaker so a missing or corrupt file fails fast on repeated
// retrains instead of rescanning.
type CSVSource struct {
	db      *DB
	path    string
	breaker *breaker.Breaker[[]recommend.Rating]
}

// NewCSVSource returns a recommend.DataProvider backed by path.
func NewCSVSource(db *DB, path string) *CSVSource {
	return NewCSVSourceWithBreaker(db, path, breaker.DefaultConfig("ratings-csv"))
}

// NewCSVSourceWithBreaker is NewCSVSource with custom breaker settings.
func NewCSVSourceWithBreaker(db *DB, path string, cfg breaker.Config) *CSVSource {
	return &CSVSource{
		db:      db,
		path:    path,
		breaker: breaker.New[[]recommend.Rating](cfg),
	}
}

// LoadRatings implements recommend.DataProvider. An open breaker yields
// breaker.ErrCircuitOpen.
func (s *CSVSource) LoadRatings(ctx context.Context) ([]recommend.Rating, error) {
	start := time.Now()
	ratings, err := s.breaker.Execute(func() ([]recommend.Rating, error) {
		return s.db.LoadRatings(ctx, s.path)
	})
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().
		Str("path", s.path).
		Int("ratings", len(ratings)).
		Dur("elapsed", time.Since(start)).
		Msg("Ratings loaded")
	return ratings, nil
}

// BreakerState reports the breaker state for health output.
func (s *CSVSource) BreakerState() string {
	return s.breaker.State()
}

var _ recommend.DataProvider = (*CSVSource)(nil)
