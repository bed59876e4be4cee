// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Model contains the factorization and inference parameters.
	Model ModelConfig `json:"model"`

	// SVD selects and tunes the decomposition routine.
	SVD SVDConfig `json:"svd"`

	// Training contains training schedule parameters.
	Training TrainingConfig `json:"training"`
}

// ModelConfig contains parameters baked into a trained model.
type ModelConfig struct {
	// Name is the storage key for persisted model versions.
	// Default: "cf_model".
	Name string `json:"name"`

	// Components is the latent dimension k.
	// Default: 50.
	Components int `json:"components"`

	// MinRating and MaxRating bound every predicted rating.
	// Default: 1 and 5.
	MinRating float64 `json:"min_rating"`
	MaxRating float64 `json:"max_rating"`

	// MinPopularCount is the minimum number of ratings an item needs to be
	// eligible for popularity recommendations.
	// Default: 10.
	MinPopularCount int `json:"min_popular_count"`

	// ExplainLimit is the number of supporting items an explanation lists.
	// Default: 3.
	ExplainLimit int `json:"explain_limit"`
}

// SVDConfig tunes TruncatedSVD.
type SVDConfig struct {
	// Method is "randomized" or "exact".
	// Default: "randomized".
	Method SVDMethod `json:"method"`

	// Seed drives the randomized range finder.
	// Default: 42.
	Seed uint64 `json:"seed"`

	// Oversamples is the number of extra random projections.
	// Default: 10.
	Oversamples int `json:"oversamples"`

	// PowerIterations sharpens the randomized range estimate.
	// Default: 5.
	PowerIterations int `json:"power_iterations"`
}

// TrainingConfig contains training schedule parameters.
type TrainingConfig struct {
	// Interval between scheduled retrains. Zero disables scheduling.
	// Default: 0.
	Interval time.Duration `json:"interval"`

	// Timeout bounds a single training run.
	// Default: 30m.
	Timeout time.Duration `json:"timeout"`

	// OnStartup trains when no persisted model can be restored.
	// Default: true.
	OnStartup bool `json:"on_startup"`

	// RetainVersions is how many persisted model versions to keep.
	// Default: 5.
	RetainVersions int `json:"retain_versions"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	svd := DefaultSVDOptions()
	return &Config{
		Model: ModelConfig{
			Name:            "cf_model",
			Components:      50,
			MinRating:       1,
			MaxRating:       5,
			MinPopularCount: 10,
			ExplainLimit:    3,
		},
		SVD: SVDConfig{
			Method:          svd.Method,
			Seed:            svd.Seed,
			Oversamples:     svd.Oversamples,
			PowerIterations: svd.PowerIterations,
		},
		Training: TrainingConfig{
			Interval:       0,
			Timeout:        30 * time.Minute,
			OnStartup:      true,
			RetainVersions: 5,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return fmt.Errorf("model.name must not be empty")
	}
	if c.Model.Components < 1 {
		return fmt.Errorf("model.components must be positive, got %d", c.Model.Components)
	}
	if c.Model.MinRating >= c.Model.MaxRating {
		return fmt.Errorf("model.min_rating must be below model.max_rating, got %v >= %v",
			c.Model.MinRating, c.Model.MaxRating)
	}
	if c.Model.MinPopularCount < 0 {
		return fmt.Errorf("model.min_popular_count must be non-negative, got %d", c.Model.MinPopularCount)
	}
	if c.Model.ExplainLimit < 1 {
		return fmt.Errorf("model.explain_limit must be positive, got %d", c.Model.ExplainLimit)
	}

	switch c.SVD.Method {
	case SVDExact, SVDRandomized:
	default:
		return fmt.Errorf("svd.method must be %q or %q, got %q", SVDExact, SVDRandomized, c.SVD.Method)
	}
	if c.SVD.Oversamples < 0 {
		return fmt.Errorf("svd.oversamples must be non-negative, got %d", c.SVD.Oversamples)
	}
	if c.SVD.PowerIterations < 0 {
		return fmt.Errorf("svd.power_iterations must be non-negative, got %d", c.SVD.PowerIterations)
	}

	if c.Training.Interval < 0 {
		return fmt.Errorf("training.interval must be non-negative, got %v", c.Training.Interval)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.RetainVersions < 1 {
		return fmt.Errorf("training.retain_versions must be positive, got %d", c.Training.RetainVersions)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Options converts the configuration into training options.
func (c *Config) Options() []Option {
	return []Option{
		WithRatingBounds(c.Model.MinRating, c.Model.MaxRating),
		WithMinPopularCount(c.Model.MinPopularCount),
		WithSVD(SVDOptions{
			Method:          c.SVD.Method,
			Seed:            c.SVD.Seed,
			Oversamples:     c.SVD.Oversamples,
			PowerIterations: c.SVD.PowerIterations,
		}),
	}
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type training struct {
		Interval       string `json:"interval"`
		Timeout        string `json:"timeout"`
		OnStartup      bool   `json:"on_startup"`
		RetainVersions int    `json:"retain_versions"`
	}
	return json.Marshal(&struct {
		Model    ModelConfig `json:"model"`
		SVD      SVDConfig   `json:"svd"`
		Training training    `json:"training"`
	}{
		Model: c.Model,
		SVD:   c.SVD,
		Training: training{
			Interval:       c.Training.Interval.String(),
			Timeout:        c.Training.Timeout.String(),
			OnStartup:      c.Training.OnStartup,
			RetainVersions: c.Training.RetainVersions,
		},
	})
}

// Options holds the parameters Train bakes into a model.
type Options struct {
	MinRating       float64
	MaxRating       float64
	MinPopularCount int
	SVD             SVDOptions
}

// Option customizes Train.
type Option func(*Options)

// WithRatingBounds sets the clip range for predictions.
func WithRatingBounds(lo, hi float64) Option {
	return func(o *Options) {
		o.MinRating = lo
		o.MaxRating = hi
	}
}

// WithMinPopularCount sets the popularity eligibility threshold.
func WithMinPopularCount(n int) Option {
	return func(o *Options) { o.MinPopularCount = n }
}

// WithSVD sets the decomposition options.
func WithSVD(svd SVDOptions) Option {
	return func(o *Options) { o.SVD = svd }
}

func defaultOptions() Options {
	return Options{
		MinRating:       1,
		MaxRating:       5,
		MinPopularCount: 10,
		SVD:             DefaultSVDOptions(),
	}
}
