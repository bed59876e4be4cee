// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviemate/internal/recommend/storage"
)

// Note: the engine only depends on its own storage subpackage. Data loading
// and event fan-out are injected through DataProvider and OnTrained hooks.

// DataProvider supplies training observations.
type DataProvider interface {
	// LoadRatings returns every rating observation to train on.
	LoadRatings(ctx context.Context) ([]Rating, error)
}

// ModelStore persists trained model versions.
type ModelStore interface {
	Save(ctx context.Context, name string, version int, data interface{}, meta storage.ModelMetadata) error
	Load(ctx context.Context, name string, version int, target interface{}) (*storage.ModelMetadata, error)
	GetLatestVersion(name string) (int, bool)
	ListModels(ctx context.Context) ([]storage.ModelMetadata, error)
	Prune(ctx context.Context, name string, keepVersions int) error
}

// TrainingStatus reports the state of the most recent training run.
type TrainingStatus struct {
	IsTraining             bool      `json:"is_training"`
	ModelVersion           int       `json:"model_version"`
	LastTrainedAt          time.Time `json:"last_trained_at"`
	LastTrainingDurationMS int64     `json:"last_training_duration_ms"`
	LastError              string    `json:"last_error,omitempty"`
	InteractionCount       int       `json:"interaction_count"`
	UserCount              int       `json:"user_count"`
	ItemCount              int       `json:"item_count"`
	TotalRuns              int64     `json:"total_runs"`
	FailedRuns             int64     `json:"failed_runs"`
}

// TrainResult describes a finished training run. Err is set on failure.
type TrainResult struct {
	Version           int
	Users             int
	Items             int
	Observations      int
	Rank              int
	ExplainedVariance float64
	Duration          time.Duration
	Err               error
}

// Engine trains models from a DataProvider, persists them and publishes the
// result through a Holder. It is safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	provider DataProvider
	store    ModelStore
	holder   *Holder

	trainMu  sync.Mutex
	statusMu sync.RWMutex
	status   TrainingStatus

	hooksMu sync.RWMutex
	hooks   []func(TrainResult)

	totalRuns  atomic.Int64
	failedRuns atomic.Int64
}

// NewEngine creates a training engine. store may be nil, in which case
// models live only in memory.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, provider DataProvider, store ModelStore, holder *Holder, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("data provider is required")
	}
	if holder == nil {
		holder = NewHolder()
	}

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		provider: provider,
		store:    store,
		holder:   holder,
	}, nil
}

// Holder returns the model cell the engine publishes into.
func (e *Engine) Holder() *Holder { return e.holder }

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config { return e.config.Clone() }

// OnTrained registers fn to run after every training attempt.
func (e *Engine) OnTrained(fn func(TrainResult)) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.hooks = append(e.hooks, fn)
}

// Train loads ratings, trains a new model, persists it and swaps it in.
// It fails fast with ErrTrainingInProgress if another run holds the lock.
func (e *Engine) Train(ctx context.Context) (*TrainResult, error) {
	if !e.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()
	return e.runLocked(ctx)
}

// TrainAsync takes the training lock without blocking and runs the training
// on a new goroutine. It returns ErrTrainingInProgress at once if another
// run holds the lock. done, when non-nil, receives the outcome after the
// lock is released.
func (e *Engine) TrainAsync(ctx context.Context, done func(*TrainResult, error)) error {
	if !e.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	go func() {
		res, err := e.runLocked(ctx)
		e.trainMu.Unlock()
		if done != nil {
			done(res, err)
		}
	}()
	return nil
}

// runLocked trains, persists and swaps in a model. trainMu must be held.
func (e *Engine) runLocked(ctx context.Context) (*TrainResult, error) {
	start := time.Now()
	e.setTraining(true)
	e.logger.Info().Msg("starting model training")

	trainCtx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	result, err := e.train(trainCtx)
	result.Duration = time.Since(start)
	result.Err = err

	e.totalRuns.Add(1)
	if err != nil {
		e.failedRuns.Add(1)
		e.logger.Error().Err(err).Int64("duration_ms", result.Duration.Milliseconds()).Msg("model training failed")
	} else {
		e.logger.Info().
			Int("version", result.Version).
			Int("users", result.Users).
			Int("items", result.Items).
			Int("rank", result.Rank).
			Float64("explained_variance", result.ExplainedVariance).
			Int64("duration_ms", result.Duration.Milliseconds()).
			Msg("model training complete")
	}
	e.finishStatus(result)
	e.notify(result)

	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (e *Engine) train(ctx context.Context) (TrainResult, error) {
	ratings, err := e.provider.LoadRatings(ctx)
	if err != nil {
		return TrainResult{}, fmt.Errorf("load ratings: %w", err)
	}
	e.logger.Info().Int("observations", len(ratings)).Msg("loaded training data")
	if err := ctx.Err(); err != nil {
		return TrainResult{}, err
	}

	trainStart := time.Now()
	model, err := Train(ratings, e.config.Model.Components, e.config.Options()...)
	if err != nil {
		return TrainResult{}, fmt.Errorf("train model: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return TrainResult{}, fmt.Errorf("training abandoned: %w", err)
	}

	stats := model.Stats()
	result := TrainResult{
		Users:             stats.Users,
		Items:             stats.Items,
		Observations:      stats.Observations,
		Rank:              stats.Rank,
		ExplainedVariance: stats.ExplainedVariance,
	}

	result.Version = e.nextVersion()
	if e.store != nil {
		meta := storage.ModelMetadata{
			TrainedAt:          model.TrainedAt(),
			InteractionCount:   stats.Observations,
			ItemCount:          stats.Items,
			UserCount:          stats.Users,
			Rank:               stats.Rank,
			TrainingDurationMS: time.Since(trainStart).Milliseconds(),
		}
		if err := e.store.Save(ctx, e.config.Model.Name, result.Version, model, meta); err != nil {
			return TrainResult{}, fmt.Errorf("persist model: %w", err)
		}
		if err := e.store.Prune(ctx, e.config.Model.Name, e.config.Training.RetainVersions); err != nil {
			e.logger.Warn().Err(err).Msg("failed to prune old model versions")
		}
	}

	e.holder.Swap(model, result.Version)
	return result, nil
}

func (e *Engine) nextVersion() int {
	if e.store != nil {
		if v, ok := e.store.GetLatestVersion(e.config.Model.Name); ok {
			return v + 1
		}
		return 1
	}
	return e.holder.Version() + 1
}

// LoadLatest restores the newest persisted model into the holder. It reports
// false without error when nothing has been persisted yet.
func (e *Engine) LoadLatest(ctx context.Context) (bool, error) {
	if e.store == nil {
		return false, nil
	}
	if _, ok := e.store.GetLatestVersion(e.config.Model.Name); !ok {
		return false, nil
	}

	model := new(Model)
	meta, err := e.store.Load(ctx, e.config.Model.Name, 0, model)
	if err != nil {
		return false, fmt.Errorf("load model: %w", err)
	}

	e.holder.Swap(model, meta.Version)

	e.statusMu.Lock()
	e.status.ModelVersion = meta.Version
	e.status.LastTrainedAt = meta.TrainedAt
	e.status.LastTrainingDurationMS = meta.TrainingDurationMS
	e.status.InteractionCount = meta.InteractionCount
	e.status.UserCount = meta.UserCount
	e.status.ItemCount = meta.ItemCount
	e.statusMu.Unlock()

	e.logger.Info().
		Int("version", meta.Version).
		Int("users", meta.UserCount).
		Int("items", meta.ItemCount).
		Msg("restored persisted model")
	e.notify(TrainResult{
		Version:           meta.Version,
		Users:             meta.UserCount,
		Items:             meta.ItemCount,
		Observations:      meta.InteractionCount,
		Rank:              model.Rank(),
		ExplainedVariance: model.Stats().ExplainedVariance,
	})
	return true, nil
}

// EnsureModel restores the latest model, or trains one when none is
// persisted and training on startup is enabled.
func (e *Engine) EnsureModel(ctx context.Context) error {
	loaded, err := e.LoadLatest(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("could not restore persisted model")
	}
	if loaded {
		return nil
	}
	if !e.config.Training.OnStartup {
		return ErrNoModel
	}
	if _, err := e.Train(ctx); err != nil && !errors.Is(err, ErrTrainingInProgress) {
		return err
	}
	return nil
}

// Models lists persisted model versions.
func (e *Engine) Models(ctx context.Context) ([]storage.ModelMetadata, error) {
	if e.store == nil {
		return []storage.ModelMetadata{}, nil
	}
	return e.store.ListModels(ctx)
}

// Status returns the current training status.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()

	s := e.status
	s.TotalRuns = e.totalRuns.Load()
	s.FailedRuns = e.failedRuns.Load()
	return s
}

func (e *Engine) setTraining(on bool) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.IsTraining = on
	if on {
		e.status.LastError = ""
	}
}

func (e *Engine) finishStatus(r TrainResult) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.status.IsTraining = false
	e.status.LastTrainingDurationMS = r.Duration.Milliseconds()
	if r.Err != nil {
		e.status.LastError = r.Err.Error()
		return
	}
	e.status.ModelVersion = r.Version
	e.status.LastTrainedAt = time.Now().UTC()
	e.status.InteractionCount = r.Observations
	e.status.UserCount = r.Users
	e.status.ItemCount = r.Items
}

func (e *Engine) notify(r TrainResult) {
	e.hooksMu.RLock()
	hooks := append([]func(TrainResult){}, e.hooks...)
	e.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(r)
	}
}
