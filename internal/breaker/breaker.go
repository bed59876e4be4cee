// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

// Package breaker builds sony/gobreaker circuit breakers that report their
// state to Prometheus and the log. Ratings ingestion and event publishing
// both run behind one.
package breaker

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/metrics"
)

// ErrCircuitOpen is returned when the breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker open")

// Config tunes a breaker.
type Config struct {
	Name string

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32

	// Interval resets the closed-state counts. Zero never resets.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold is the consecutive failure count that trips the breaker.
	FailureThreshold uint32
}

// DefaultConfig returns settings suited to local I/O: three consecutive
// failures open the breaker for thirty seconds.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
	}
}

// Breaker wraps a gobreaker.CircuitBreaker.
type Breaker[T any] struct {
	cb   *gobreaker.CircuitBreaker[T]
	name string
}

// New creates a breaker. State transitions are logged and exported.
func New[T any](cfg Config) *Breaker[T] {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	logger := logging.WithComponent("breaker").With().Str("breaker", cfg.Name).Logger()
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state change")
			metrics.RecordBreakerTransition(name, from.String(), to.String(), stateValue(to))
		},
	})
	return &Breaker[T]{cb: cb, name: cfg.Name}
}

// Execute runs fn through the breaker. Rejections are reported as
// ErrCircuitOpen wrapping the gobreaker error.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.RecordBreakerRequest(b.name, "success")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordBreakerRequest(b.name, "rejected")
		return result, errors.Join(ErrCircuitOpen, err)
	default:
		metrics.RecordBreakerRequest(b.name, "failure")
	}
	return result, err
}

// State returns closed, half-open or open.
func (b *Breaker[T]) State() string {
	return b.cb.State().String()
}

// Name returns the breaker name.
func (b *Breaker[T]) Name() string {
	return b.name
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
