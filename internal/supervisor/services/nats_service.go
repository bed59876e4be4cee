// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"
)

// NATSServer is satisfied by *events.EmbeddedServer.
type NATSServer interface {
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

// NATSServerService owns the embedded NATS server once it has been started.
//
// The server is started before the tree so the event bus can connect to it.
// This service watches it and shuts it down with the tree. A server that
// dies cannot be revived in place, so the service then asks suture not to
// restart it.
type NATSServerService struct {
	server          NATSServer
	checkInterval   time.Duration
	shutdownTimeout time.Duration
	name            string
}

// NewNATSServerService wraps a running server.
func NewNATSServerService(server NATSServer, shutdownTimeout time.Duration) *NATSServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSServerService{
		server:          server,
		checkInterval:   5 * time.Second,
		shutdownTimeout: shutdownTimeout,
		name:            "nats-server",
	}
}

// Serve implements suture.Service.
func (s *NATSServerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(ctx.Err())

		case <-ticker.C:
			if !s.server.IsRunning() {
				return fmt.Errorf("embedded nats server stopped: %w", suture.ErrDoNotRestart)
			}
		}
	}
}

func (s *NATSServerService) shutdown(cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("nats server shutdown failed: %w", err)
	}
	return cause
}

func (s *NATSServerService) String() string {
	return s.name
}
