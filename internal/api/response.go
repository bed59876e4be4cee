// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/models"
	"github.com/tomtom215/moviemate/internal/validation"
)

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in the success envelope. start is when the
// handler began work and feeds query_time_ms.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	resp := models.NewSuccess(data, start)
	respondJSON(w, status, &resp)
}

// respondError sends an error response. err is logged, never sent to the
// client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logger := logging.Ctx(r.Context())
		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Err(err).
			Str("code", code).
			Str("path", logging.SanitizeValue("path", r.URL.Path)).
			Msg("API error")
	}

	resp := models.NewError(code, message, nil)
	respondJSON(w, status, &resp)
}

// respondValidation sends the 400 produced by a failed validation.
func respondValidation(w http.ResponseWriter, verr *validation.RequestValidationError) {
	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    verr.ToAPIError(),
	}
	respondJSON(w, http.StatusBadRequest, &resp)
}

// respondModelNotLoaded is the 503 every inference endpoint returns before
// the first model is available.
func respondModelNotLoaded(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeModelNotLoaded, "Model not loaded", nil)
}
