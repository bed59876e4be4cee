// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package events

import (
	"context"
	"errors"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/moviemate/internal/breaker"
	"github.com/tomtom215/moviemate/internal/feedback"
	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/metrics"
	"github.com/tomtom215/moviemate/internal/recommend"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// Publisher sends domain events through a circuit breaker.
type Publisher struct {
	publisher message.Publisher
	breaker   *breaker.Breaker[struct{}]

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps pub with the "event-publisher" breaker.
func NewPublisher(pub message.Publisher) *Publisher {
	return NewPublisherWithBreaker(pub, breaker.New[struct{}](breaker.DefaultConfig("event-publisher")))
}

// NewPublisherWithBreaker wraps pub with a caller-supplied breaker.
func NewPublisherWithBreaker(pub message.Publisher, cb *breaker.Breaker[struct{}]) *Publisher {
	return &Publisher{publisher: pub, breaker: cb}
}

// Publish sends msg on topic.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg.SetContext(ctx)
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		msg.Metadata.Set("request_id", requestID)
	}

	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.publisher.Publish(topic, msg)
	})
	if err != nil {
		return err
	}
	metrics.RecordEventPublished(topic)
	return nil
}

// PublishModelTrained announces a finished training run.
func (p *Publisher) PublishModelTrained(ctx context.Context, res recommend.TrainResult) error {
	event := NewModelTrained(res)
	msg, err := newMessage(event.EventID, "model_trained", event)
	if err != nil {
		return err
	}
	return p.Publish(ctx, TopicModelTrained, msg)
}

// PublishFeedbackRecorded announces a stored feedback record.
func (p *Publisher) PublishFeedbackRecorded(ctx context.Context, fb feedback.Feedback) error {
	event := NewFeedbackRecorded(fb)
	msg, err := newMessage(event.EventID, "feedback_recorded", event)
	if err != nil {
		return err
	}
	return p.Publish(ctx, TopicFeedbackRecorded, msg)
}

// BreakerState reports the publish breaker state.
func (p *Publisher) BreakerState() string {
	return p.breaker.State()
}

// Close marks the publisher closed. The underlying transport is owned by
// the PubSub and closed there.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
