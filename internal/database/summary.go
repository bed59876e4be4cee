// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// DatasetSummary describes a ratings file, optionally joined with movies.
type DatasetSummary struct {
	Ratings int64   `json:"ratings"`
	Users   int64   `json:"users"`
	Movies  int64   `json:"movies"`
	Catalog int64   `json:"catalog_movies"`
	Min     float64 `json:"min_rating"`
	Max     float64 `json:"max_rating"`
	Mean    float64 `json:"mean_rating"`

	// Sparsity is the share of the user x movie grid with no rating, in [0, 1].
	Sparsity float64 `json:"sparsity"`

	Distribution []RatingBucket `json:"distribution"`

	UserActivity    ActivityStats `json:"user_activity"`
	MoviePopularity ActivityStats `json:"movie_popularity"`

	TopMovies []TopMovie `json:"top_movies"`
}

// RatingBucket counts ratings with one value.
type RatingBucket struct {
	Rating float64 `json:"rating"`
	Count  int64   `json:"count"`
}

// ActivityStats summarizes ratings per user or per movie.
type ActivityStats struct {
	Mean float64 `json:"mean"`
	Min  int64   `json:"min"`
	Max  int64   `json:"max"`
}

// TopMovie is a highly rated movie with enough ratings to count.
type TopMovie struct {
	MovieID   int64   `json:"movie_id"`
	Title     string  `json:"title"`
	Count     int64   `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}

// SummaryOptions controls the top movie list.
type SummaryOptions struct {
	// MoviesPath joins titles and counts the catalog. Optional.
	MoviesPath string

	// MinCount is the rating count a movie needs to be listed. Default 50.
	MinCount int

	// Top is the list length. Default 10.
	Top int
}

// Summarize computes the dataset exploration report for a ratings file.
func (db *DB) Summarize(ctx context.Context, ratingsPath string, opts SummaryOptions) (*DatasetSummary, error) {
	if opts.MinCount <= 0 {
		opts.MinCount = 50
	}
	if opts.Top <= 0 {
		opts.Top = 10
	}

	ratings, err := csvSource(ratingsPath)
	if err != nil {
		return nil, err
	}

	s := &DatasetSummary{}
	err = db.conn.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT COUNT(*), COUNT(DISTINCT userId), COUNT(DISTINCT movieId),
		       CAST(MIN(rating) AS DOUBLE), CAST(MAX(rating) AS DOUBLE), AVG(rating)
		FROM %s`, ratings)).
		Scan(&s.Ratings, &s.Users, &s.Movies, &s.Min, &s.Max, &s.Mean)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}
	if s.Users > 0 && s.Movies > 0 {
		s.Sparsity = 1 - float64(s.Ratings)/(float64(s.Users)*float64(s.Movies))
	}

	if s.Distribution, err = db.distribution(ctx, ratings); err != nil {
		return nil, err
	}
	if s.UserActivity, err = db.activity(ctx, ratings, "userId"); err != nil {
		return nil, err
	}
	if s.MoviePopularity, err = db.activity(ctx, ratings, "movieId"); err != nil {
		return nil, err
	}

	if opts.MoviesPath != "" {
		movies, err := csvSource(opts.MoviesPath)
		if err != nil {
			return nil, err
		}
		if err := db.conn.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, movies)).Scan(&s.Catalog); err != nil {
			return nil, fmt.Errorf("failed to count movies: %w", err)
		}
		if s.TopMovies, err = db.topMovies(ctx, ratings, movies, opts); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (db *DB) distribution(ctx context.Context, ratings string) ([]RatingBucket, error) {
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT CAST(rating AS DOUBLE) AS r, COUNT(*)
		FROM %s
		GROUP BY r
		ORDER BY r`, ratings))
	if err != nil {
		return nil, fmt.Errorf("failed to query rating distribution: %w", err)
	}
	defer closeQuietly(rows)

	var buckets []RatingBucket
	for rows.Next() {
		var b RatingBucket
		if err := rows.Scan(&b.Rating, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan rating bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// activity aggregates per-key rating counts. column is a fixed identifier.
func (db *DB) activity(ctx context.Context, ratings, column string) (ActivityStats, error) {
	var (
		stats ActivityStats
		mean  sql.NullFloat64
		lo    sql.NullInt64
		hi    sql.NullInt64
	)
	err := db.conn.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT AVG(n), MIN(n), MAX(n)
		FROM (SELECT %[1]s, COUNT(*) AS n FROM %[2]s GROUP BY %[1]s)`, column, ratings)).
		Scan(&mean, &lo, &hi)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate %s activity: %w", column, err)
	}
	stats.Mean, stats.Min, stats.Max = mean.Float64, lo.Int64, hi.Int64
	return stats, nil
}

func (db *DB) topMovies(ctx context.Context, ratings, movies string, opts SummaryOptions) ([]TopMovie, error) {
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT r.movieId, CAST(m.title AS VARCHAR), r.n, r.avg_rating
		FROM (
			SELECT CAST(movieId AS BIGINT) AS movieId, COUNT(*) AS n, AVG(rating) AS avg_rating
			FROM %s
			GROUP BY movieId
		) r
		JOIN %s m ON CAST(m.movieId AS BIGINT) = r.movieId
		WHERE r.n >= ?
		ORDER BY r.avg_rating DESC, r.movieId
		LIMIT ?`, ratings, movies), opts.MinCount, opts.Top)
	if err != nil {
		return nil, fmt.Errorf("failed to query top movies: %w", err)
	}
	defer closeQuietly(rows)

	top := []TopMovie{}
	for rows.Next() {
		var m TopMovie
		if err := rows.Scan(&m.MovieID, &m.Title, &m.Count, &m.AvgRating); err != nil {
			return nil, fmt.Errorf("failed to scan top movie: %w", err)
		}
		top = append(top, m)
	}
	return top, rows.Err()
}
