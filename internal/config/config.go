// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/moviemate/internal/database"
	"github.com/tomtom215/moviemate/internal/events"
	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Data     DataConfig     `koanf:"data"`
	Model    ModelConfig    `koanf:"model"`
	Training TrainingConfig `koanf:"training"`
	Feedback FeedbackConfig `koanf:"feedback"`
	Events   EventsConfig   `koanf:"events"`
	Security SecurityConfig `koanf:"security"`
	Cache    CacheConfig    `koanf:"cache"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

// DataConfig locates the input CSV files and the DuckDB database used to
// read them.
type DataConfig struct {
	RatingsPath         string `koanf:"ratings_path"`
	MoviesPath          string `koanf:"movies_path"`
	ProcessedMoviesPath string `koanf:"processed_movies_path"`

	// DuckDBPath is the database file. Empty opens an in-memory database.
	DuckDBPath      string `koanf:"duckdb_path"`
	DuckDBThreads   int    `koanf:"duckdb_threads"`
	DuckDBMaxMemory string `koanf:"duckdb_max_memory"`
}

// ModelConfig holds factorization, inference and persistence settings.
type ModelConfig struct {
	Dir             string  `koanf:"dir"`
	Name            string  `koanf:"name"`
	Components      int     `koanf:"components"`
	MinRating       float64 `koanf:"min_rating"`
	MaxRating       float64 `koanf:"max_rating"`
	MinPopularCount int     `koanf:"min_popular_count"`
	ExplainLimit    int     `koanf:"explain_limit"`
	SVDMethod       string  `koanf:"svd_method"` // randomized or exact
	Seed            uint64  `koanf:"seed"`
	Oversamples     int     `koanf:"oversamples"`
	PowerIterations int     `koanf:"power_iterations"`
	RetainVersions  int     `koanf:"retain_versions"`
}

// TrainingConfig holds the training schedule.
type TrainingConfig struct {
	OnStartup bool          `koanf:"on_startup"`
	Interval  time.Duration `koanf:"interval"` // 0 disables scheduled retraining
	Timeout   time.Duration `koanf:"timeout"`
}

// FeedbackConfig holds the A/B feedback store location.
type FeedbackConfig struct {
	// BadgerPath is the badger directory. Empty keeps feedback in memory.
	BadgerPath string `koanf:"badger_path"`
}

// EventsConfig holds event bus configuration.
type EventsConfig struct {
	// NATSURL selects the NATS transport. Empty uses the in-process bus.
	NATSURL       string        `koanf:"nats_url"`
	EmbeddedNATS  bool          `koanf:"embedded_nats"`
	NATSHost      string        `koanf:"nats_host"`
	NATSPort      int           `koanf:"nats_port"`
	StoreDir      string        `koanf:"store_dir"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// SecurityConfig holds admin authentication and HTTP protection settings.
type SecurityConfig struct {
	AdminUsername      string        `koanf:"admin_username"`
	AdminPassword      string        `koanf:"admin_password"` // plain text or a bcrypt hash
	JWTSecret          string        `koanf:"jwt_secret"`
	SessionTimeout     time.Duration `koanf:"session_timeout"`
	RetrainMinInterval time.Duration `koanf:"retrain_min_interval"`
	RateLimitReqs      int           `koanf:"rate_limit_reqs"`
	RateLimitWindow    time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled  bool          `koanf:"rate_limit_disabled"`
	CORSOrigins        []string      `koanf:"cors_origins"`
}

// CacheConfig sizes the recommendation response cache.
type CacheConfig struct {
	// Size is the maximum number of cached recommendation lists. 0 disables caching.
	Size int           `koanf:"size"`
	TTL  time.Duration `koanf:"ttl"`
}

// AdminEnabled reports whether admin credentials are configured.
func (s SecurityConfig) AdminEnabled() bool {
	return s.AdminUsername != "" && s.AdminPassword != ""
}

// Load loads configuration using Koanf with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Recommend converts the model and training sections into engine
// configuration.
func (c *Config) Recommend() *recommend.Config {
	return &recommend.Config{
		Model: recommend.ModelConfig{
			Name:            c.Model.Name,
			Components:      c.Model.Components,
			MinRating:       c.Model.MinRating,
			MaxRating:       c.Model.MaxRating,
			MinPopularCount: c.Model.MinPopularCount,
			ExplainLimit:    c.Model.ExplainLimit,
		},
		SVD: recommend.SVDConfig{
			Method:          recommend.SVDMethod(c.Model.SVDMethod),
			Seed:            c.Model.Seed,
			Oversamples:     c.Model.Oversamples,
			PowerIterations: c.Model.PowerIterations,
		},
		Training: recommend.TrainingConfig{
			Interval:       c.Training.Interval,
			Timeout:        c.Training.Timeout,
			OnStartup:      c.Training.OnStartup,
			RetainVersions: c.Model.RetainVersions,
		},
	}
}

// Database returns the DuckDB connection settings.
func (c *Config) Database() database.Config {
	return database.Config{
		Path:      c.Data.DuckDBPath,
		Threads:   c.Data.DuckDBThreads,
		MaxMemory: c.Data.DuckDBMaxMemory,
	}
}

// LoggingConfig converts the logging section for logging.Init.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}

// PubSub returns the event transport settings. When the embedded server is
// enabled, natsURL is the URL it listens on and overrides Events.NATSURL.
func (c *Config) PubSub(natsURL string) events.Config {
	cfg := events.DefaultConfig()
	cfg.NATSURL = c.Events.NATSURL
	if natsURL != "" {
		cfg.NATSURL = natsURL
	}
	if c.Events.MaxReconnects != 0 {
		cfg.MaxReconnects = c.Events.MaxReconnects
	}
	if c.Events.ReconnectWait > 0 {
		cfg.ReconnectWait = c.Events.ReconnectWait
	}
	return cfg
}

// EmbeddedServer returns the embedded NATS server settings.
func (c *Config) EmbeddedServer() events.ServerConfig {
	return events.ServerConfig{
		Host:     c.Events.NATSHost,
		Port:     c.Events.NATSPort,
		StoreDir: c.Events.StoreDir,
	}
}
