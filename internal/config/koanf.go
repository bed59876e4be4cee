// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moviemate/config.yaml",
	"/etc/moviemate/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Data: DataConfig{
			RatingsPath:         "data/raw/ml-latest-small/ratings.csv",
			MoviesPath:          "data/raw/ml-latest-small/movies.csv",
			ProcessedMoviesPath: "data/processed/movies.csv",
			DuckDBPath:          "", // in-memory
			DuckDBThreads:       0,  // 0 = use runtime.NumCPU()
			DuckDBMaxMemory:     "",
		},
		Model: ModelConfig{
			Dir:             "data/models",
			Name:            "cf_model",
			Components:      50,
			MinRating:       1,
			MaxRating:       5,
			MinPopularCount: 10,
			ExplainLimit:    3,
			SVDMethod:       "randomized",
			Seed:            42,
			Oversamples:     10,
			PowerIterations: 5,
			RetainVersions:  5,
		},
		Training: TrainingConfig{
			OnStartup: true,
			Interval:  0,
			Timeout:   30 * time.Minute,
		},
		Feedback: FeedbackConfig{
			BadgerPath: "data/feedback",
		},
		Events: EventsConfig{
			NATSURL:       "",
			EmbeddedNATS:  false,
			NATSHost:      "127.0.0.1",
			NATSPort:      4222,
			StoreDir:      "",
			MaxReconnects: -1, // reconnect forever
			ReconnectWait: 2 * time.Second,
		},
		Security: SecurityConfig{
			AdminUsername:      "",
			AdminPassword:      "",
			JWTSecret:          "",
			SessionTimeout:     24 * time.Hour,
			RetrainMinInterval: time.Minute,
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			RateLimitDisabled:  false,
			CORSOrigins:        []string{"*"},
		},
		Cache: CacheConfig{
			Size: 10000,
			TTL:  10 * time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port, MODEL_COMPONENTS -> model.components
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are koanf paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML lists are already slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Data
	"ratings_path":          "data.ratings_path",
	"movies_path":           "data.movies_path",
	"processed_movies_path": "data.processed_movies_path",
	"duckdb_path":           "data.duckdb_path",
	"duckdb_threads":        "data.duckdb_threads",
	"duckdb_max_memory":     "data.duckdb_max_memory",

	// Model
	"model_dir":               "model.dir",
	"model_name":              "model.name",
	"model_components":        "model.components",
	"model_min_rating":        "model.min_rating",
	"model_max_rating":        "model.max_rating",
	"model_min_popular_count": "model.min_popular_count",
	"model_explain_limit":     "model.explain_limit",
	"svd_method":              "model.svd_method",
	"svd_seed":                "model.seed",
	"svd_oversamples":         "model.oversamples",
	"svd_power_iterations":    "model.power_iterations",
	"model_retain_versions":   "model.retain_versions",

	// Training
	"train_on_startup": "training.on_startup",
	"train_interval":   "training.interval",
	"train_timeout":    "training.timeout",

	// Feedback
	"feedback_badger_path": "feedback.badger_path",

	// Events
	"nats_url":            "events.nats_url",
	"nats_embedded":       "events.embedded_nats",
	"nats_host":           "events.nats_host",
	"nats_port":           "events.nats_port",
	"nats_store_dir":      "events.store_dir",
	"nats_max_reconnects": "events.max_reconnects",
	"nats_reconnect_wait": "events.reconnect_wait",

	// Security
	"admin_username":       "security.admin_username",
	"admin_password":       "security.admin_password",
	"jwt_secret":           "security.jwt_secret",
	"session_timeout":      "security.session_timeout",
	"retrain_min_interval": "security.retrain_min_interval",
	"rate_limit_requests":  "security.rate_limit_reqs",
	"rate_limit_window":    "security.rate_limit_window",
	"disable_rate_limit":   "security.rate_limit_disabled",
	"cors_origins":         "security.cors_origins",

	// Cache
	"cache_size": "cache.size",
	"cache_ttl":  "cache.ttl",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - MODEL_COMPONENTS -> model.components
//   - NATS_URL -> events.nats_url
//   - JWT_SECRET -> security.jwt_secret
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables
	// cannot pollute the config.
	return ""
}
