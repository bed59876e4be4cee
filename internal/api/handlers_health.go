// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/moviemate/internal/models"
)

// Health handles health check requests
//
// @Summary Get service health
// @Description Reports whether a model and the movie catalog are loaded
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthResponse} "Health status"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c := h.deps.Catalog.Catalog()

	respondSuccess(w, http.StatusOK, models.HealthResponse{
		Status:       "healthy",
		ModelLoaded:  h.deps.Models.Model() != nil,
		MoviesLoaded: c != nil && c.Len() > 0,
		ModelVersion: h.deps.Models.Version(),
	}, start)
}

// ServiceInfo handles the API banner
//
// @Summary Service banner
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ServiceInfo}
// @Router /api [get]
func (h *Handler) ServiceInfo(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, models.ServiceInfo{
		Message: "Welcome to the MovieMate API",
		Docs:    "/swagger/index.html",
		Version: Version,
	}, time.Now())
}
