// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"net/http"

	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/models"
	ws "github.com/tomtom215/moviemate/internal/websocket"
)

// WebSocket upgrades the connection and registers it with the hub. Clients
// receive model_trained and feedback_recorded messages.
//
// @Summary Realtime event stream
// @Tags Core
// @Success 101 "Switching protocols"
// @Failure 503 {object} models.APIResponse "WebSocket hub unavailable"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.deps.Hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.deps.Hub, conn)
	select {
	case h.deps.Hub.Register <- client:
		client.Start()
	case <-r.Context().Done():
		_ = conn.Close()
	}
}
