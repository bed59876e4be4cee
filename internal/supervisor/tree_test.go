// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

// countingService runs until canceled, or fails its first fails runs.
type countingService struct {
	name  string
	fails int32
	runs  atomic.Int32
}

func (s *countingService) Serve(ctx context.Context) error {
	if n := s.runs.Add(1); n <= s.fails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return s.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tests := []struct {
		name string
		in   TreeConfig
		want TreeConfig
	}{
		{name: "zero config", in: TreeConfig{}, want: DefaultTreeConfig()},
		{
			name: "explicit values kept",
			in:   TreeConfig{FailureThreshold: 2, FailureDecay: 1, FailureBackoff: time.Second, ShutdownTimeout: time.Second},
			want: TreeConfig{FailureThreshold: 2, FailureDecay: 1, FailureBackoff: time.Second, ShutdownTimeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := NewSupervisorTree(testLogger(), tt.in)
			if err != nil {
				t.Fatalf("NewSupervisorTree() error = %v", err)
			}
			if tree.config != tt.want {
				t.Errorf("config = %+v, want %+v", tree.config, tt.want)
			}
			if tree.Root() == nil {
				t.Error("Root() = nil")
			}
		})
	}
}

func TestSupervisorTree_ServesEveryLayer(t *testing.T) {
	tree, err := NewSupervisorTree(testLogger(), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}

	data := &countingService{name: "data"}
	messaging := &countingService{name: "messaging"}
	api := &countingService{name: "api"}
	tree.AddDataService(data)
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	errCh := tree.ServeBackground(ctx)
	select {
	case <-errCh:
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}

	for _, svc := range []*countingService{data, messaging, api} {
		if svc.runs.Load() != 1 {
			t.Errorf("%s runs = %d, want 1", svc.name, svc.runs.Load())
		}
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() error = %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

func TestSupervisorTree_RestartsFailedService(t *testing.T) {
	tree, err := NewSupervisorTree(testLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}

	flaky := &countingService{name: "flaky", fails: 2}
	steady := &countingService{name: "steady"}
	tree.AddMessagingService(flaky)
	tree.AddAPIService(steady)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = tree.Serve(ctx)

	if got := flaky.runs.Load(); got < 3 {
		t.Errorf("flaky runs = %d, want at least 3", got)
	}
	if got := steady.runs.Load(); got != 1 {
		t.Errorf("steady runs = %d, want 1 (failure isolated)", got)
	}
}
