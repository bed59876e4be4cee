// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviemate/internal/recommend"
)

// ModelTrainer is the subset of *recommend.Engine the scheduler drives.
type ModelTrainer interface {
	EnsureModel(ctx context.Context) error
	Train(ctx context.Context) (*recommend.TrainResult, error)
}

// TrainingServiceConfig controls startup and periodic training.
type TrainingServiceConfig struct {
	// Interval between scheduled retrains. Zero disables the schedule.
	Interval time.Duration

	// Timeout bounds a single scheduled run and the startup bootstrap.
	Timeout time.Duration
}

// TrainingService restores or trains the first model, then retrains on a
// fixed interval.
//
// The bootstrap runs once per process; a supervisor restart of the service
// only resumes the schedule.
type TrainingService struct {
	trainer      ModelTrainer
	config       TrainingServiceConfig
	logger       zerolog.Logger
	bootstrapped atomic.Bool
	name         string
}

// NewTrainingService creates the scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(trainer ModelTrainer, cfg TrainingServiceConfig, logger zerolog.Logger) *TrainingService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &TrainingService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", "training").Logger(),
		name:    "training-scheduler",
	}
}

// Serve implements suture.Service.
func (s *TrainingService) Serve(ctx context.Context) error {
	if s.bootstrapped.CompareAndSwap(false, true) {
		if err := s.bootstrap(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// The API keeps answering 503 until an admin retrain or the
			// next scheduled run installs a model.
			s.logger.Warn().Err(err).Msg("no model available after startup")
		}
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.config.Interval).Msg("retrain schedule active")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.retrain(ctx)
		}
	}
}

func (s *TrainingService) bootstrap(ctx context.Context) error {
	bootCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if err := s.trainer.EnsureModel(bootCtx); err != nil {
		return fmt.Errorf("ensure model: %w", err)
	}
	return nil
}

func (s *TrainingService) retrain(ctx context.Context) {
	trainCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	res, err := s.trainer.Train(trainCtx)
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Debug().Msg("scheduled retrain skipped: training in progress")
	case err != nil:
		s.logger.Warn().Err(err).Msg("scheduled retrain failed")
	default:
		s.logger.Info().
			Int("version", res.Version).
			Dur("duration", time.Since(start)).
			Msg("scheduled retrain complete")
	}
}

func (s *TrainingService) String() string {
	return s.name
}
