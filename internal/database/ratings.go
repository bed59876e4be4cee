// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/moviemate/internal/catalog"
	"github.com/tomtom215/moviemate/internal/recommend"
)

// LoadRatings reads userId, movieId and rating from a MovieLens ratings file.
// Rows come back in file order; validation is left to recommend.BuildMatrix.
func (db *DB) LoadRatings(ctx context.Context, path string) ([]recommend.Rating, error) {
	src, err := csvSource(path)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT CAST(userId AS BIGINT), CAST(movieId AS BIGINT), CAST(rating AS DOUBLE)
		FROM %s`, src)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer closeQuietly(rows)

	ratings := make([]recommend.Rating, 0, 1024)
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.ItemID, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ratings: %w", err)
	}
	return ratings, nil
}

// LoadMovies reads movieId, title and genres from a MovieLens movies file.
func (db *DB) LoadMovies(ctx context.Context, path string) ([]catalog.Movie, error) {
	src, err := csvSource(path)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT CAST(movieId AS BIGINT), CAST(title AS VARCHAR), COALESCE(CAST(genres AS VARCHAR), '')
		FROM %s`, src)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer closeQuietly(rows)

	movies := make([]catalog.Movie, 0, 1024)
	for rows.Next() {
		var m catalog.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genres); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movies: %w", err)
	}
	return movies, nil
}
