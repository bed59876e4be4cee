// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/moviemate/internal/auth"
	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/models"
	"github.com/tomtom215/moviemate/internal/recommend"
)

// Retrain handles POST /api/v1/admin/retrain
//
// The training lock is taken before responding, so a run already in
// progress yields 409 and does not use up the retrain interval. Training
// then continues in the background on the server context.
//
// @Summary Retrain the model
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 202 {object} models.APIResponse{data=models.RetrainAccepted}
// @Failure 401 {object} models.APIResponse "Missing or invalid token"
// @Failure 409 {object} models.APIResponse "Training already in progress"
// @Failure 429 {object} models.APIResponse "Retrain requested too soon"
// @Router /api/v1/admin/retrain [post]
func (h *Handler) Retrain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.deps.Trainer == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Training is unavailable", nil)
		return
	}

	requestID := logging.RequestIDFromContext(r.Context())
	wait, err := h.deps.Retrain.Admit(func() error {
		return h.startRetrain(requestID)
	})
	switch {
	case errors.Is(err, auth.ErrRetrainThrottled):
		seconds := int(math.Ceil(wait.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		respondError(w, r, http.StatusTooManyRequests, models.ErrCodeRateLimited,
			fmt.Sprintf("Retrain allowed again in %ds", seconds), nil)
		return
	case errors.Is(err, recommend.ErrTrainingInProgress):
		respondError(w, r, http.StatusConflict, models.ErrCodeConflict, err.Error(), nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to start retraining", err)
		return
	}

	respondSuccess(w, http.StatusAccepted, models.RetrainAccepted{Message: "Retraining started"}, start)
}

// startRetrain claims the training lock before returning; the run itself
// continues on the server context.
func (h *Handler) startRetrain(requestID string) error {
	ctx, cancel := context.WithTimeout(h.baseCtx, h.deps.TrainTimeout)
	ctx = logging.ContextWithRequestID(ctx, requestID)

	err := h.deps.Trainer.TrainAsync(ctx, func(res *recommend.TrainResult, err error) {
		defer cancel()
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Admin retrain failed")
			return
		}
		logging.Ctx(ctx).Info().
			Int("version", res.Version).
			Dur("duration", res.Duration).
			Msg("Admin retrain completed")
	})
	if err != nil {
		cancel()
	}
	return err
}

// ListModels handles GET /api/v1/admin/models
//
// @Summary Persisted model versions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]storage.ModelMetadata}
// @Failure 401 {object} models.APIResponse "Missing or invalid token"
// @Router /api/v1/admin/models [get]
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.deps.Trainer == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Model store is unavailable", nil)
		return
	}

	list, err := h.deps.Trainer.Models(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to list models", err)
		return
	}
	respondSuccess(w, http.StatusOK, list, start)
}

// TrainingStatus handles GET /api/v1/admin/training
//
// @Summary Training status
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=recommend.TrainingStatus}
// @Router /api/v1/admin/training [get]
func (h *Handler) TrainingStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.deps.Trainer == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Training is unavailable", nil)
		return
	}
	respondSuccess(w, http.StatusOK, h.deps.Trainer.Status(), start)
}
