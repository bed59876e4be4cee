// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RetrainLimiter allows one admin retrain per interval.
type RetrainLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter // nil when unlimited
}

// NewRetrainLimiter returns a limiter with a burst of one. A zero interval
// disables throttling.
func NewRetrainLimiter(interval time.Duration) *RetrainLimiter {
	if interval <= 0 {
		return &RetrainLimiter{}
	}
	return &RetrainLimiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Admit calls start if a retrain is allowed now. The token is spent only
// when start returns nil, so a run that never starts does not count against
// the interval. A throttled call returns ErrRetrainThrottled and the wait
// until the next retrain is allowed.
func (l *RetrainLimiter) Admit(start func() error) (time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limiter == nil {
		return 0, start()
	}

	now := time.Now()
	if tokens := l.limiter.TokensAt(now); tokens < 1 {
		wait := time.Duration((1 - tokens) / float64(l.limiter.Limit()) * float64(time.Second))
		return wait, ErrRetrainThrottled
	}
	if err := start(); err != nil {
		return 0, err
	}
	l.limiter.AllowN(now, 1)
	return 0, nil
}
