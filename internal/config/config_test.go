// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/moviemate/internal/recommend"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
		{
			name:    "missing ratings path",
			mutate:  func(c *Config) { c.Data.RatingsPath = "" },
			wantErr: "RATINGS_PATH",
		},
		{
			name:    "zero components",
			mutate:  func(c *Config) { c.Model.Components = 0 },
			wantErr: "components",
		},
		{
			name:    "inverted rating bounds",
			mutate:  func(c *Config) { c.Model.MinRating, c.Model.MaxRating = 5, 1 },
			wantErr: "min_rating",
		},
		{
			name:    "unknown svd method",
			mutate:  func(c *Config) { c.Model.SVDMethod = "lanczos" },
			wantErr: "svd.method",
		},
		{
			name:    "retrain interval too short",
			mutate:  func(c *Config) { c.Training.Interval = 10 * time.Second },
			wantErr: "TRAIN_INTERVAL",
		},
		{
			name: "embedded nats with url",
			mutate: func(c *Config) {
				c.Events.EmbeddedNATS = true
				c.Events.NATSURL = "nats://elsewhere:4222"
			},
			wantErr: "mutually exclusive",
		},
		{
			name:    "negative cache size",
			mutate:  func(c *Config) { c.Cache.Size = -1 },
			wantErr: "CACHE_SIZE",
		},
		{
			name:    "cache without ttl",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: "CACHE_TTL",
		},
		{
			name:    "username without password",
			mutate:  func(c *Config) { c.Security.AdminUsername = "admin" },
			wantErr: "set together",
		},
		{
			name: "admin with weak secret",
			mutate: func(c *Config) {
				c.Security.AdminUsername = "admin"
				c.Security.AdminPassword = "password123"
				c.Security.JWTSecret = "too-short"
			},
			wantErr: "JWT_SECRET",
		},
		{
			name: "admin with strong secret",
			mutate: func(c *Config) {
				c.Security.AdminUsername = "admin"
				c.Security.AdminPassword = "password123"
				c.Security.JWTSecret = testSecret
			},
		},
		{
			name: "wildcard cors in production with admin",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.AdminUsername = "admin"
				c.Security.AdminPassword = "password123"
				c.Security.JWTSecret = testSecret
			},
			wantErr: "CORS_ORIGINS",
		},
		{
			name:    "rate limit window too long",
			mutate:  func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour },
			wantErr: "RATE_LIMIT_WINDOW",
		},
		{
			name: "rate limit disabled skips bounds",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRecommendConversion(t *testing.T) {
	cfg := defaultConfig()
	cfg.Model.Components = 8
	cfg.Model.SVDMethod = "exact"
	cfg.Model.RetainVersions = 2
	cfg.Training.Interval = time.Hour

	rc := cfg.Recommend()
	if rc.Model.Components != 8 || rc.Model.Name != "cf_model" {
		t.Errorf("Model = %+v", rc.Model)
	}
	if rc.SVD.Method != recommend.SVDExact || rc.SVD.Seed != 42 {
		t.Errorf("SVD = %+v", rc.SVD)
	}
	if rc.Training.RetainVersions != 2 || rc.Training.Interval != time.Hour || !rc.Training.OnStartup {
		t.Errorf("Training = %+v", rc.Training)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("converted config should validate: %v", err)
	}
}

func TestPubSubConfig(t *testing.T) {
	cfg := defaultConfig()
	if got := cfg.PubSub("").NATSURL; got != "" {
		t.Errorf("NATSURL = %q, want empty", got)
	}

	cfg.Events.NATSURL = "nats://broker:4222"
	if got := cfg.PubSub("").NATSURL; got != "nats://broker:4222" {
		t.Errorf("NATSURL = %q", got)
	}
	if got := cfg.PubSub("nats://127.0.0.1:4333").NATSURL; got != "nats://127.0.0.1:4333" {
		t.Errorf("embedded URL should win, got %q", got)
	}
}

func TestEnvironmentChecks(t *testing.T) {
	tests := []struct {
		env        string
		production bool
		dev        bool
	}{
		{"", false, true},
		{"development", false, true},
		{"dev", false, true},
		{"staging", false, false},
		{"production", true, false},
		{"PROD", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{Environment: tt.env}}
			if got := cfg.IsProduction(); got != tt.production {
				t.Errorf("IsProduction() = %v, want %v", got, tt.production)
			}
			if got := cfg.IsDevelopment(); got != tt.dev {
				t.Errorf("IsDevelopment() = %v, want %v", got, tt.dev)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	cfg := defaultConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("no warning expected without admin login")
	}
	cfg.Security.AdminUsername = "admin"
	cfg.Security.AdminPassword = "password123"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS with admin login should warn")
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8000}
	if got := s.Addr(); got != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q", got)
	}
}
