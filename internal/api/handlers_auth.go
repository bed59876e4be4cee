// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/moviemate/internal/auth"
	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/models"
)

// Login handles admin authentication requests
//
// @Summary Admin login
// @Description Exchanges the admin credentials for a JWT used by the admin endpoints
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse} "Authentication successful"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 503 {object} models.APIResponse "Admin login disabled"
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.deps.Auth == nil || h.deps.JWT == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Admin login is disabled", nil)
		return
	}

	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.deps.Auth.Authenticate(req.Username, req.Password); err != nil {
		logging.Ctx(r.Context()).Warn().
			Str("username", logging.SanitizeUsername(req.Username)).
			Msg("Failed admin login")
		respondError(w, r, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Invalid username or password", nil)
		return
	}

	token, expires, err := h.deps.JWT.GenerateToken(req.Username, auth.RoleAdmin)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to issue token", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("username", logging.SanitizeUsername(req.Username)).
		Msg("Admin logged in")
	respondSuccess(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
	}, start)
}
