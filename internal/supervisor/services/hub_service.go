// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package services

import (
	"context"

	"github.com/rs/zerolog"
)

// Hub is satisfied by *websocket.Hub.
type Hub interface {
	RunWithContext(ctx context.Context) error
	ClientCount() int
}

// HubService runs the websocket hub that pushes model and feedback events
// to browsers. The hub closes its clients when ctx is canceled.
type HubService struct {
	hub    Hub
	logger zerolog.Logger
}

// NewHubService wraps hub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHubService(hub Hub, logger zerolog.Logger) *HubService {
	return &HubService{hub: hub, logger: logger.With().Str("service", "websocket").Logger()}
}

// Serve implements suture.Service.
func (h *HubService) Serve(ctx context.Context) error {
	err := h.hub.RunWithContext(ctx)
	h.logger.Debug().
		Int("clients", h.hub.ClientCount()).
		AnErr("reason", err).
		Msg("Websocket hub stopped")
	return err
}

func (h *HubService) String() string {
	return "websocket-hub"
}
