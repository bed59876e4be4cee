// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/metrics"
)

// WebSocket message types for the two events.
const (
	MessageTypeModelTrained     = "model_trained"
	MessageTypeFeedbackRecorded = "feedback_recorded"
)

// Broadcaster pushes a typed message to connected clients.
type Broadcaster interface {
	BroadcastJSON(messageType string, data interface{})
}

// RouterConfig tunes handler retries.
type RouterConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultRouterConfig returns production retry settings.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// Router consumes domain events and fans them out to metrics and websocket
// clients.
type Router struct {
	router      *message.Router
	broadcaster Broadcaster
}

// NewRouter creates the router and registers the model and feedback
// handlers on sub. broadcaster may be nil.
func NewRouter(cfg RouterConfig, sub message.Subscriber, broadcaster Broadcaster, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	wmRouter.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      cfg.RetryMultiplier,
			Logger:          logger,
		}.Middleware,
	)

	r := &Router{router: wmRouter, broadcaster: broadcaster}
	wmRouter.AddConsumerHandler("model-trained", TopicModelTrained, sub, r.handleModelTrained)
	wmRouter.AddConsumerHandler("feedback-recorded", TopicFeedbackRecorded, sub, r.handleFeedbackRecorded)
	return r, nil
}

// Run blocks until ctx is canceled or the router is closed.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once all handlers are subscribed.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the handlers.
func (r *Router) Close() error {
	return r.router.Close()
}

func (r *Router) handleModelTrained(msg *message.Message) error {
	var event ModelTrained
	if err := decode(msg, &event); err != nil {
		// Malformed payloads are acked, not retried.
		metrics.RecordEventProcessed(TopicModelTrained, err)
		logging.Warn().Err(err).Str("topic", TopicModelTrained).Msg("Dropping malformed event")
		return nil
	}

	r.broadcast(MessageTypeModelTrained, event)
	metrics.RecordEventProcessed(TopicModelTrained, nil)
	logging.Debug().Int("version", event.Version).Msg("Model trained event handled")
	return nil
}

func (r *Router) handleFeedbackRecorded(msg *message.Message) error {
	var event FeedbackRecorded
	if err := decode(msg, &event); err != nil {
		metrics.RecordEventProcessed(TopicFeedbackRecorded, err)
		logging.Warn().Err(err).Str("topic", TopicFeedbackRecorded).Msg("Dropping malformed event")
		return nil
	}

	metrics.RecordFeedback(event.Strategy, event.Liked)
	r.broadcast(MessageTypeFeedbackRecorded, event)
	metrics.RecordEventProcessed(TopicFeedbackRecorded, nil)
	return nil
}

func (r *Router) broadcast(messageType string, data interface{}) {
	if r.broadcaster != nil {
		r.broadcaster.BroadcastJSON(messageType, data)
	}
}
