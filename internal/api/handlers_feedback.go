// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviemate/internal/feedback"
	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/models"
	"github.com/tomtom215/moviemate/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// decodeBody reads a JSON body into v and validates it. It writes the 400
// and returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeInvalidParameter, "Invalid JSON body", err)
		return false
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		respondValidation(w, verr)
		return false
	}
	return true
}

// SubmitFeedback handles POST /api/v1/feedback
//
// @Summary Record A/B feedback
// @Description Stores whether a user liked a movie recommended by a strategy
// @Tags A/B Testing
// @Accept json
// @Produce json
// @Param feedback body models.FeedbackRequest true "Feedback"
// @Success 201 {object} models.APIResponse{data=feedback.Feedback}
// @Failure 400 {object} models.APIResponse "Validation error"
// @Failure 503 {object} models.APIResponse "Feedback store unavailable"
// @Router /api/v1/feedback [post]
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.deps.Feedback == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Feedback store unavailable", nil)
		return
	}

	var req models.FeedbackRequest
	if !decodeBody(w, r, &req) {
		return
	}

	stored, err := h.deps.Feedback.Record(r.Context(), feedback.Feedback{
		UserID:   req.UserID,
		MovieID:  req.MovieID,
		Liked:    *req.Liked,
		Strategy: feedback.Strategy(req.Strategy),
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to record feedback", err)
		return
	}

	if h.deps.Publisher != nil {
		if err := h.deps.Publisher.PublishFeedbackRecorded(r.Context(), stored); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("feedback_id", stored.ID).Msg("Failed to publish feedback event")
		}
	}

	respondSuccess(w, http.StatusCreated, stored, start)
}

// ABTestResults handles GET /api/v1/ab-test/results
//
// @Summary A/B test results
// @Description Feedback totals and like rate per strategy. Empty when no feedback exists.
// @Tags A/B Testing
// @Produce json
// @Success 200 {object} models.APIResponse{data=map[string]feedback.StrategyResult}
// @Failure 503 {object} models.APIResponse "Feedback store unavailable"
// @Router /api/v1/ab-test/results [get]
func (h *Handler) ABTestResults(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.deps.Feedback == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Feedback store unavailable", nil)
		return
	}

	results, err := h.deps.Feedback.Results(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to aggregate feedback", err)
		return
	}
	respondSuccess(w, http.StatusOK, results, start)
}
