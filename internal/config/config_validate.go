// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/moviemate/internal/auth"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateData,
		c.validateModel,
		c.validateTraining,
		c.validateEvents,
		c.validateSecurity,
		c.validateCache,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

func (c *Config) validateData() error {
	if c.Data.RatingsPath == "" {
		return fmt.Errorf("RATINGS_PATH is required")
	}
	if c.Data.MoviesPath == "" {
		return fmt.Errorf("MOVIES_PATH is required")
	}
	if c.Data.DuckDBThreads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

// validateModel checks the model section against the engine's own rules so
// a bad value fails at startup rather than at the first training run.
func (c *Config) validateModel() error {
	if c.Model.Dir == "" {
		return fmt.Errorf("MODEL_DIR is required")
	}
	if err := c.Recommend().Validate(); err != nil {
		return fmt.Errorf("invalid model configuration: %w", err)
	}
	return nil
}

func (c *Config) validateTraining() error {
	if c.Training.Interval > 0 && c.Training.Interval < time.Minute {
		return fmt.Errorf("TRAIN_INTERVAL must be 0 (disabled) or at least 1m")
	}
	return nil
}

// validateEvents validates the event bus configuration
func (c *Config) validateEvents() error {
	if !c.Events.EmbeddedNATS {
		return nil
	}
	if c.Events.NATSURL != "" {
		return fmt.Errorf("NATS_URL and NATS_EMBEDDED are mutually exclusive")
	}
	if c.Events.NATSPort < 1 || c.Events.NATSPort > 65535 {
		return fmt.Errorf("NATS_PORT must be between 1 and 65535")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateAdmin(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	if c.Security.RetrainMinInterval < 0 {
		return fmt.Errorf("RETRAIN_MIN_INTERVAL must be non-negative")
	}
	return nil
}

// validateAdmin requires a strong JWT secret whenever admin login is enabled.
// Username and password must be set together.
func (c *Config) validateAdmin() error {
	s := c.Security
	if (s.AdminUsername == "") != (s.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if !s.AdminEnabled() {
		return nil
	}
	if len(s.JWTSecret) < auth.MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters when admin login is enabled", auth.MinSecretLength)
	}
	if s.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return nil
}

// validateCORS rejects wildcard origins in production when admin login is
// enabled.
func (c *Config) validateCORS() error {
	if c.Security.AdminEnabled() && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with admin login enabled. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com " +
			"or use ENVIRONMENT=development for testing purposes")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AdminEnabled() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

func (c *Config) validateCache() error {
	if c.Cache.Size < 0 {
		return fmt.Errorf("CACHE_SIZE must be non-negative")
	}
	if c.Cache.Size > 0 && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when caching is enabled")
	}
	return nil
}
