// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package services

import (
	"context"
	"errors"
	"fmt"
)

// EventRouter is satisfied by *events.Router.
type EventRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// EventRouterFactory builds a fresh router. A watermill router cannot be
// run twice, so every restart needs a new one.
type EventRouterFactory func() (EventRouter, error)

// EventRouterService runs the watermill router that consumes model and
// feedback events.
type EventRouterService struct {
	newRouter EventRouterFactory
	name      string
}

// NewEventRouterService creates the service.
func NewEventRouterService(factory EventRouterFactory) *EventRouterService {
	return &EventRouterService{newRouter: factory, name: "event-router"}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.newRouter()
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}

	runErr := router.Run(ctx)
	closeErr := router.Close()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if runErr == nil {
		runErr = errors.New("event router stopped unexpectedly")
	}
	return errors.Join(runErr, closeErr)
}

func (s *EventRouterService) String() string {
	return s.name
}
