// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// APIServerConfig controls the API server service.
type APIServerConfig struct {
	// Addr is only reported in logs; the server owns its listener.
	Addr string

	// ShutdownTimeout bounds connection draining. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// APIServerService runs the MovieMate REST API under suture. ListenAndServe
// runs in its own goroutine; cancellation drains in-flight requests before
// Serve returns.
type APIServerService struct {
	server HTTPServer
	config APIServerConfig
	logger zerolog.Logger
}

// NewAPIServerService wraps server.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAPIServerService(server HTTPServer, cfg APIServerConfig, logger zerolog.Logger) *APIServerService {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &APIServerService{
		server: server,
		config: cfg,
		logger: logger.With().Str("service", "api").Logger(),
	}
}

// Serve implements suture.Service. http.ErrServerClosed is not an error.
func (s *APIServerService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenErr <- err
	}()
	s.logger.Info().Str("addr", s.config.Addr).Msg("API server listening")

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
	}

	// ctx is already canceled, so draining gets its own deadline.
	drainCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := s.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("api server shutdown failed: %w", err)
	}
	<-listenErr
	s.logger.Info().Dur("drain", time.Since(start)).Msg("API server stopped")
	return ctx.Err()
}

func (s *APIServerService) String() string {
	return "api-server"
}
