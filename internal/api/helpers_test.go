// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviemate/internal/catalog"
	"github.com/tomtom215/moviemate/internal/feedback"
	"github.com/tomtom215/moviemate/internal/models"
	"github.com/tomtom215/moviemate/internal/recommend"
	"github.com/tomtom215/moviemate/internal/recommend/storage"
)

// testRatings is a small dataset where user 1 has not rated movie 30.
func testRatings() []recommend.Rating {
	return []recommend.Rating{
		{UserID: 1, ItemID: 10, Value: 5},
		{UserID: 1, ItemID: 20, Value: 4},
		{UserID: 2, ItemID: 10, Value: 4},
		{UserID: 2, ItemID: 20, Value: 5},
		{UserID: 2, ItemID: 30, Value: 2},
		{UserID: 3, ItemID: 10, Value: 1},
		{UserID: 3, ItemID: 30, Value: 5},
		{UserID: 4, ItemID: 20, Value: 3},
		{UserID: 4, ItemID: 30, Value: 4},
	}
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Movie{
		{ID: 10, Title: "Heat (1995)", Genres: "Action|Crime|Thriller"},
		{ID: 20, Title: "Toy Story (1995)", Genres: "Adventure|Animation|Children"},
		{ID: 30, Title: "Jumanji (1995)", Genres: "Adventure|Fantasy"},
	})
}

func trainTestModel(t *testing.T) *recommend.Model {
	t.Helper()
	m, err := recommend.Train(testRatings(), 2,
		recommend.WithMinPopularCount(1),
		recommend.WithSVD(recommend.SVDOptions{Method: recommend.SVDExact}),
	)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return m
}

type fakeTrainer struct {
	mu       sync.Mutex
	training bool
	calls    int
	trained  chan struct{}
}

func newFakeTrainer() *fakeTrainer {
	return &fakeTrainer{trained: make(chan struct{}, 1)}
}

func (f *fakeTrainer) TrainAsync(ctx context.Context, done func(*recommend.TrainResult, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.training {
		return recommend.ErrTrainingInProgress
	}
	f.calls++
	go func() {
		if done != nil {
			done(&recommend.TrainResult{Version: 2}, nil)
		}
		f.trained <- struct{}{}
	}()
	return nil
}

func (f *fakeTrainer) Models(ctx context.Context) ([]storage.ModelMetadata, error) {
	return []storage.ModelMetadata{{Name: "cf_model", Version: 1}}, nil
}

func (f *fakeTrainer) Status() recommend.TrainingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return recommend.TrainingStatus{IsTraining: f.training, ModelVersion: 1}
}

func (f *fakeTrainer) setTraining(on bool) {
	f.mu.Lock()
	f.training = on
	f.mu.Unlock()
}

// testServer holds a router over in-memory dependencies.
type testServer struct {
	handler http.Handler
	models  *recommend.Holder
	trainer *fakeTrainer
	store   *feedback.Store
}

type serverOption func(*Dependencies, *ChiMiddlewareConfig)

func withoutModel() serverOption {
	return func(d *Dependencies, _ *ChiMiddlewareConfig) { d.Models = recommend.NewHolder() }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	store, err := feedback.Open("")
	if err != nil {
		t.Fatalf("feedback.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	holder := recommend.NewHolder()
	holder.Swap(trainTestModel(t), 1)
	movies := catalog.NewHolder()
	movies.Swap(testCatalog())

	ts := &testServer{models: holder, trainer: newFakeTrainer(), store: store}
	deps := Dependencies{
		Models:         holder,
		Catalog:        movies,
		Trainer:        ts.trainer,
		Feedback:       store,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true

	for _, opt := range opts {
		opt(&deps, mwCfg)
	}
	ts.models = deps.Models

	h := NewHandler(context.Background(), deps)
	ts.handler = NewRouter(h, NewChiMiddleware(mwCfg)).SetupChi()
	return ts
}

func (ts *testServer) do(t *testing.T, method, target string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors models.APIResponse with raw data for typed decoding.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %q: %v", env.Data, err)
		}
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec, nil)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}
