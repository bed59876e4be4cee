// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviemate/internal/recommend/storage"
)

type staticProvider struct {
	ratings []Rating
	err     error
	calls   int
	mu      sync.Mutex
}

func (p *staticProvider) LoadRatings(ctx context.Context) ([]Rating, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.ratings, p.err
}

// blockingProvider signals when it is entered and waits for release.
type blockingProvider struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingProvider) LoadRatings(ctx context.Context) ([]Rating, error) {
	close(p.entered)
	<-p.release
	return scenarioRatings(), nil
}

func testEngineConfig(k int) *Config {
	cfg := DefaultConfig()
	cfg.Model.Components = k
	cfg.Training.Timeout = time.Minute
	cfg.Training.RetainVersions = 2
	return cfg
}

func newTestEngine(t *testing.T, cfg *Config, provider DataProvider, withStore bool) *Engine {
	t.Helper()
	var store ModelStore
	if withStore {
		s, err := storage.NewStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewStore() error = %v", err)
		}
		store = s
	}
	e, err := NewEngine(cfg, provider, store, NewHolder(), zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		provider DataProvider
		wantErr  bool
	}{
		{name: "nil config uses defaults", provider: &staticProvider{}},
		{name: "missing provider", cfg: DefaultConfig(), wantErr: true},
		{
			name: "invalid config",
			cfg: func() *Config {
				c := DefaultConfig()
				c.Model.Components = 0
				return c
			}(),
			provider: &staticProvider{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(tt.cfg, tt.provider, nil, nil, zerolog.New(io.Discard))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && e.Holder() == nil {
				t.Error("NewEngine() should create a holder when none is given")
			}
		})
	}
}

func TestEngine_TrainPublishesAndPersists(t *testing.T) {
	provider := &staticProvider{ratings: scenarioRatings()}
	e := newTestEngine(t, testEngineConfig(2), provider, true)

	var (
		mu      sync.Mutex
		results []TrainResult
	)
	e.OnTrained(func(r TrainResult) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	})

	for want := 1; want <= 3; want++ {
		res, err := e.Train(context.Background())
		if err != nil {
			t.Fatalf("Train() error = %v", err)
		}
		if res.Version != want {
			t.Errorf("Version = %d, want %d", res.Version, want)
		}
	}

	if got := e.Holder().Version(); got != 3 {
		t.Errorf("Holder().Version() = %d, want 3", got)
	}
	if got := e.Holder().Model().Predict(4, 10); got != 3.6 {
		t.Errorf("Predict(4, 10) = %v, want 3.6", got)
	}

	status := e.Status()
	if status.IsTraining || status.ModelVersion != 3 || status.UserCount != 3 || status.ItemCount != 2 {
		t.Errorf("Status() = %+v, want idle at version 3 with 3 users and 2 items", status)
	}
	if status.TotalRuns != 3 || status.FailedRuns != 0 {
		t.Errorf("runs = %d/%d failed, want 3/0", status.TotalRuns, status.FailedRuns)
	}

	models, err := e.Models(context.Background())
	if err != nil {
		t.Fatalf("Models() error = %v", err)
	}
	if len(models) != 2 {
		t.Errorf("len(Models()) = %d, want 2 retained versions", len(models))
	}

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 3 || results[2].Rank != 2 || results[2].Err != nil {
		t.Errorf("hook results = %+v, want three successful rank-2 runs", results)
	}
}

func TestEngine_TrainFailureKeepsCurrentModel(t *testing.T) {
	provider := &staticProvider{ratings: scenarioRatings()}
	e := newTestEngine(t, testEngineConfig(2), provider, false)

	if _, err := e.Train(context.Background()); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	before := e.Holder().Model()

	var hookErr error
	e.OnTrained(func(r TrainResult) { hookErr = r.Err })

	provider.ratings = nil
	_, err := e.Train(context.Background())
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Train() error = %v, want ErrEmptyInput", err)
	}
	if e.Holder().Model() != before {
		t.Error("failed training replaced the current model")
	}
	if !errors.Is(hookErr, ErrEmptyInput) {
		t.Errorf("hook error = %v, want ErrEmptyInput", hookErr)
	}

	status := e.Status()
	if status.LastError == "" || status.FailedRuns != 1 {
		t.Errorf("Status() = %+v, want recorded failure", status)
	}
}

func TestEngine_TrainRejectsConcurrentRun(t *testing.T) {
	provider := &blockingProvider{entered: make(chan struct{}), release: make(chan struct{})}
	e := newTestEngine(t, testEngineConfig(2), provider, false)

	done := make(chan error, 1)
	go func() {
		_, err := e.Train(context.Background())
		done <- err
	}()

	<-provider.entered
	if !e.Status().IsTraining {
		t.Error("Status().IsTraining = false during training")
	}
	if _, err := e.Train(context.Background()); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("concurrent Train() error = %v, want ErrTrainingInProgress", err)
	}

	close(provider.release)
	if err := <-done; err != nil {
		t.Fatalf("first Train() error = %v", err)
	}
}

func TestEngine_TrainAsync(t *testing.T) {
	provider := &blockingProvider{entered: make(chan struct{}), release: make(chan struct{})}
	e := newTestEngine(t, testEngineConfig(2), provider, false)

	type outcome struct {
		res *TrainResult
		err error
	}
	done := make(chan outcome, 1)
	if err := e.TrainAsync(context.Background(), func(res *TrainResult, err error) {
		done <- outcome{res, err}
	}); err != nil {
		t.Fatalf("TrainAsync() error = %v", err)
	}

	// The lock is held as soon as TrainAsync returns, before the run reaches
	// the provider.
	if err := e.TrainAsync(context.Background(), nil); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("second TrainAsync() error = %v, want ErrTrainingInProgress", err)
	}
	if _, err := e.Train(context.Background()); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("Train() during TrainAsync error = %v, want ErrTrainingInProgress", err)
	}

	<-provider.entered
	close(provider.release)

	select {
	case got := <-done:
		if got.err != nil {
			t.Fatalf("TrainAsync outcome error = %v", got.err)
		}
		if got.res.Version != 1 || e.Holder().Version() != 1 {
			t.Errorf("version = %d, holder = %d, want 1", got.res.Version, e.Holder().Version())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("TrainAsync did not report an outcome")
	}
	if e.Status().IsTraining {
		t.Error("Status().IsTraining = true after the run finished")
	}
}

func TestEngine_LoadLatest(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	cfg := testEngineConfig(2)
	provider := &staticProvider{ratings: scenarioRatings()}

	trainer, err := NewEngine(cfg, provider, store, NewHolder(), zerolog.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := trainer.Train(context.Background()); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	reopened, err := storage.NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	server, err := NewEngine(cfg, provider, reopened, NewHolder(), zerolog.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := server.LoadLatest(context.Background())
	if err != nil || !loaded {
		t.Fatalf("LoadLatest() = %v, %v, want true, nil", loaded, err)
	}
	if server.Holder().Version() != 1 {
		t.Errorf("Holder().Version() = %d, want 1", server.Holder().Version())
	}

	want := trainer.Holder().Model()
	got := server.Holder().Model()
	for _, u := range want.UserIDs() {
		for _, i := range want.ItemIDs() {
			if want.Predict(u, i) != got.Predict(u, i) {
				t.Errorf("Predict(%d, %d) differs after LoadLatest", u, i)
			}
		}
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1 (restore must not retrain)", provider.calls)
	}
}

func TestEngine_EnsureModel(t *testing.T) {
	tests := []struct {
		name      string
		onStartup bool
		wantErr   error
		wantModel bool
	}{
		{name: "trains when nothing persisted", onStartup: true, wantModel: true},
		{name: "refuses without startup training", onStartup: false, wantErr: ErrNoModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testEngineConfig(2)
			cfg.Training.OnStartup = tt.onStartup
			e := newTestEngine(t, cfg, &staticProvider{ratings: scenarioRatings()}, true)

			err := e.EnsureModel(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("EnsureModel() error = %v, want %v", err, tt.wantErr)
			}
			if got := e.Holder().Model() != nil; got != tt.wantModel {
				t.Errorf("model loaded = %v, want %v", got, tt.wantModel)
			}
		})
	}
}
