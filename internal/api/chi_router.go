// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/moviemate/internal/auth"
	"github.com/tomtom215/moviemate/internal/middleware"
	"github.com/tomtom215/moviemate/internal/models"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. mw may be nil for defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, models.ErrCodeNotFound, "Not found", nil)
	})

	// ========================
	// Core
	// ========================
	r.Get("/health", h.Health)
	r.Get("/api", h.ServiceInfo)
	r.Get("/ws", h.WebSocket)

	// ========================
	// API v1
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/recommend/ab-test/{userID}", h.ABTest)
			r.Get("/recommend/{userID}", h.Recommend)
			r.Get("/recommend/{userID}/explain", h.Explain)
			r.Get("/predict", h.Predict)
			r.Get("/similar/{movieID}", h.Similar)
			r.Get("/movies/search/{query}", h.SearchMovies)
			r.Get("/movies/{movieID}", h.GetMovie)
			r.Get("/stats", h.Stats)

			r.Post("/feedback", h.SubmitFeedback)
			r.Get("/ab-test/results", h.ABTestResults)
		})

		r.With(router.chiMiddleware.RateLimitLogin()).Post("/auth/login", h.Login)

		r.Route("/admin", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.requireAdmin)

			r.Post("/retrain", h.Retrain)
			r.Get("/models", h.ListModels)
			r.Get("/training", h.TrainingStatus)
		})
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}

// requireAdmin applies JWT validation, or answers 503 when admin login is
// not configured.
func (router *Router) requireAdmin(next http.Handler) http.Handler {
	jwt := router.handler.deps.JWT
	if jwt == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Admin login is disabled", nil)
		})
	}
	return auth.RequireJWT(jwt)(next)
}
