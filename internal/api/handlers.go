// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package api

import (
	"context"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/moviemate/internal/auth"
	"github.com/tomtom215/moviemate/internal/cache"
	"github.com/tomtom215/moviemate/internal/catalog"
	"github.com/tomtom215/moviemate/internal/feedback"
	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/metrics"
	"github.com/tomtom215/moviemate/internal/recommend"
	"github.com/tomtom215/moviemate/internal/recommend/storage"
	ws "github.com/tomtom215/moviemate/internal/websocket"
)

// Version is reported by the service banner.
const Version = "1.0.0"

// Trainer is the subset of recommend.Engine the admin endpoints use.
type Trainer interface {
	TrainAsync(ctx context.Context, done func(*recommend.TrainResult, error)) error
	Models(ctx context.Context) ([]storage.ModelMetadata, error)
	Status() recommend.TrainingStatus
}

// FeedbackStore persists A/B feedback.
type FeedbackStore interface {
	Record(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error)
	Results(ctx context.Context) (map[feedback.Strategy]feedback.StrategyResult, error)
}

// EventPublisher announces stored feedback on the event bus.
type EventPublisher interface {
	PublishFeedbackRecorded(ctx context.Context, fb feedback.Feedback) error
}

// Dependencies are the collaborators of Handler. Only Models and Catalog
// are required; a nil Trainer, Feedback or Auth disables the matching
// endpoints with 503.
type Dependencies struct {
	Models    *recommend.Holder
	Catalog   *catalog.Holder
	Trainer   Trainer
	Feedback  FeedbackStore
	Publisher EventPublisher
	Hub       *ws.Hub

	// Auth and JWT are both nil when admin login is disabled.
	Auth    *auth.Authenticator
	JWT     *auth.JWTManager
	Retrain *auth.RetrainLimiter

	// ExplainLimit caps the based_on list of an explanation.
	ExplainLimit int

	// TrainTimeout bounds an admin-triggered retrain.
	TrainTimeout time.Duration

	// AllowedOrigins gates websocket upgrades. "*" allows any origin.
	AllowedOrigins []string

	// Rand drives the random A/B strategy. Nil uses the shared generator.
	Rand *rand.Rand

	// CacheSize bounds the recommendation cache. 0 disables it.
	CacheSize int
	CacheTTL  time.Duration
}

// recommendKey identifies a cached recommendation list. The model version
// keeps lists from a replaced model from being served.
type recommendKey struct {
	version      int
	userID       int64
	topK         int
	excludeRated bool
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health and service banner
//   - handlers_recommend.go: inference endpoints
//   - handlers_movies.go: catalog lookups
//   - handlers_feedback.go: A/B feedback and results
//   - handlers_auth.go: admin login
//   - handlers_admin.go: retrain and model listing
//   - handlers_ws.go: websocket upgrade
type Handler struct {
	deps    Dependencies
	baseCtx context.Context

	// rngMu guards deps.Rand, which is not safe for concurrent use.
	rngMu sync.Mutex

	// recCache is nil when caching is disabled.
	recCache *cache.LRU[recommendKey, []recommend.Recommendation]
}

// NewHandler creates a handler. ctx is the server lifetime; admin retrains
// run detached from the request on it.
func NewHandler(ctx context.Context, deps Dependencies) *Handler {
	if deps.Models == nil {
		deps.Models = recommend.NewHolder()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.NewHolder()
	}
	if deps.ExplainLimit <= 0 {
		deps.ExplainLimit = 3
	}
	if deps.TrainTimeout <= 0 {
		deps.TrainTimeout = 30 * time.Minute
	}
	if deps.Retrain == nil {
		deps.Retrain = auth.NewRetrainLimiter(0)
	}
	h := &Handler{deps: deps, baseCtx: ctx}
	if deps.CacheSize > 0 {
		h.recCache = cache.NewLRU[recommendKey, []recommend.Recommendation](deps.CacheSize, deps.CacheTTL)
	}
	return h
}

// recommendations returns the ranked list for userID, consulting the cache
// first when enabled.
func (h *Handler) recommendations(l *recommend.Loaded, userID int64, topK int, excludeRated bool) []recommend.Recommendation {
	m := l.Model
	if h.recCache == nil {
		return m.Recommend(userID, topK, excludeRated)
	}

	key := recommendKey{
		version:      l.Version,
		userID:       userID,
		topK:         topK,
		excludeRated: excludeRated,
	}
	if recs, ok := h.recCache.Get(key); ok {
		metrics.RecordCacheLookup("recommend", true)
		return recs
	}
	metrics.RecordCacheLookup("recommend", false)

	recs := m.Recommend(userID, topK, excludeRated)
	h.recCache.Add(key, recs)
	return recs
}

// model returns the serving model or writes the 503 and returns nil.
func (h *Handler) model(w http.ResponseWriter, r *http.Request) *recommend.Model {
	m := h.deps.Models.Model()
	if m == nil {
		respondModelNotLoaded(w, r)
	}
	return m
}

// movies returns the loaded catalog, empty before the first load.
func (h *Handler) movies() *catalog.Catalog {
	if c := h.deps.Catalog.Catalog(); c != nil {
		return c
	}
	return catalog.New(nil)
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on websocket handshakes.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	for _, allowed := range h.deps.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", logging.SanitizeValue("origin", origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
