// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Data.RatingsPath != "data/raw/ml-latest-small/ratings.csv" {
		t.Errorf("Data.RatingsPath = %q", cfg.Data.RatingsPath)
	}
	if cfg.Data.DuckDBPath != "" {
		t.Errorf("Data.DuckDBPath = %q, want in-memory", cfg.Data.DuckDBPath)
	}
	if cfg.Model.Components != 50 {
		t.Errorf("Model.Components = %d, want 50", cfg.Model.Components)
	}
	if cfg.Model.MinRating != 1 || cfg.Model.MaxRating != 5 {
		t.Errorf("rating bounds = [%v,%v], want [1,5]", cfg.Model.MinRating, cfg.Model.MaxRating)
	}
	if cfg.Model.SVDMethod != "randomized" || cfg.Model.Seed != 42 {
		t.Errorf("SVD = %q seed %d", cfg.Model.SVDMethod, cfg.Model.Seed)
	}
	if !cfg.Training.OnStartup || cfg.Training.Interval != 0 {
		t.Errorf("Training = %+v", cfg.Training)
	}
	if cfg.Events.NATSURL != "" || cfg.Events.EmbeddedNATS {
		t.Errorf("Events should default to the in-process bus, got %+v", cfg.Events)
	}
	if cfg.Security.RateLimitReqs != 100 || cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d per %v", cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"ENVIRONMENT", "server.environment"},
		{"LOG_LEVEL", "logging.level"},
		{"RATINGS_PATH", "data.ratings_path"},
		{"DUCKDB_PATH", "data.duckdb_path"},
		{"MODEL_COMPONENTS", "model.components"},
		{"SVD_SEED", "model.seed"},
		{"TRAIN_INTERVAL", "training.interval"},
		{"FEEDBACK_BADGER_PATH", "feedback.badger_path"},
		{"NATS_URL", "events.nats_url"},
		{"NATS_EMBEDDED", "events.embedded_nats"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"CACHE_TTL", "cache.ttl"},

		// Unknown variables are skipped
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// chdirTemp runs the test from an empty directory so no config.yaml is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Security.AdminEnabled() {
		t.Error("admin should be disabled without credentials")
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MODEL_COMPONENTS", "20")
	t.Setenv("SVD_METHOD", "exact")
	t.Setenv("TRAIN_INTERVAL", "6h")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Model.Components != 20 || cfg.Model.SVDMethod != "exact" {
		t.Errorf("Model = %+v", cfg.Model)
	}
	if cfg.Training.Interval != 6*time.Hour {
		t.Errorf("Training.Interval = %v, want 6h", cfg.Training.Interval)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if strings.Join(cfg.Security.CORSOrigins, "|") != strings.Join(want, "|") {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	yamlContent := `
server:
  port: 7000
  environment: staging
model:
  components: 12
  dir: /var/lib/moviemate/models
security:
  cors_origins:
    - https://movies.example.com
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("MODEL_COMPONENTS", "30")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7000 || cfg.Server.Environment != "staging" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Model.Components != 30 {
		t.Errorf("env should win over file: Components = %d, want 30", cfg.Model.Components)
	}
	if cfg.Model.Dir != "/var/lib/moviemate/models" {
		t.Errorf("Model.Dir = %q", cfg.Model.Dir)
	}
	if cfg.Model.Name != "cf_model" {
		t.Errorf("unset keys keep defaults: Model.Name = %q", cfg.Model.Name)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://movies.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanf_InvalidConfig(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "correct horse battery")
	t.Setenv("JWT_SECRET", "short")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for short JWT secret")
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want none", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 8001\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("missing CONFIG_PATH should fall back, got %q", got)
	}
}
