// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

// Package database reads the MovieLens CSV files through DuckDB.
//
// DuckDB's read_csv_auto does the parsing, type detection and aggregation, so
// ratings, movies and the dataset summary all come from SQL over the raw
// files. No tables are created; an in-memory database is enough unless a
// path is configured for spilling.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/moviemate/internal/logging"
)

// ErrFileNotFound is returned when a CSV path does not exist.
var ErrFileNotFound = errors.New("csv file not found")

// Config holds DuckDB settings.
type Config struct {
	// Path of the database file. Empty opens an in-memory database.
	Path string

	// Threads for query execution. Zero uses runtime.NumCPU().
	Threads int

	// MaxMemory caps DuckDB memory, e.g. "1GB". Empty leaves the default.
	MaxMemory string
}

// DB wraps a DuckDB connection pool.
type DB struct {
	conn *sql.DB
	cfg  Config
}

// Open connects to DuckDB and verifies the connection.
func Open(cfg Config) (*DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	if cfg.Path != "" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	dsn := fmt.Sprintf("%s?threads=%d", cfg.Path, threads)
	if cfg.MaxMemory != "" {
		dsn += "&max_memory=" + cfg.MaxMemory
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(threads)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Debug().Str("path", cfg.Path).Int("threads", threads).Msg("DuckDB opened")
	return &DB{conn: conn, cfg: cfg}, nil
}

// Close releases the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database answers.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// csvSource renders a read_csv_auto call for path. Table function arguments
// cannot be bound parameters, so the path is inlined as a quoted literal.
func csvSource(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return fmt.Sprintf("read_csv_auto(%s, header = true)", quoteLiteral(path)), nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
