// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/moviemate/internal/feedback"
	"github.com/tomtom215/moviemate/internal/recommend"
)

// Topics carried on the bus. With NATS these are also the subjects.
const (
	TopicModelTrained     = "moviemate.model.trained"
	TopicFeedbackRecorded = "moviemate.feedback.recorded"
)

// metadataEventType names the payload type in message metadata.
const metadataEventType = "event_type"

// ModelTrained is published after a training run succeeds.
type ModelTrained struct {
	EventID           string    `json:"event_id"`
	Version           int       `json:"version"`
	Users             int       `json:"users"`
	Items             int       `json:"items"`
	Observations      int       `json:"observations"`
	Rank              int       `json:"rank"`
	ExplainedVariance float64   `json:"explained_variance"`
	DurationMS        int64     `json:"duration_ms"`
	Timestamp         time.Time `json:"timestamp"`
}

// NewModelTrained builds the event for a finished training run.
func NewModelTrained(res recommend.TrainResult) *ModelTrained {
	return &ModelTrained{
		EventID:           uuid.NewString(),
		Version:           res.Version,
		Users:             res.Users,
		Items:             res.Items,
		Observations:      res.Observations,
		Rank:              res.Rank,
		ExplainedVariance: res.ExplainedVariance,
		DurationMS:        res.Duration.Milliseconds(),
		Timestamp:         time.Now().UTC(),
	}
}

// FeedbackRecorded is published after feedback is stored.
type FeedbackRecorded struct {
	EventID    string    `json:"event_id"`
	FeedbackID string    `json:"feedback_id"`
	UserID     int64     `json:"user_id"`
	MovieID    int64     `json:"movie_id"`
	Liked      bool      `json:"liked"`
	Strategy   string    `json:"strategy"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewFeedbackRecorded builds the event for a stored feedback record.
func NewFeedbackRecorded(fb feedback.Feedback) *FeedbackRecorded {
	return &FeedbackRecorded{
		EventID:    uuid.NewString(),
		FeedbackID: fb.ID,
		UserID:     fb.UserID,
		MovieID:    fb.MovieID,
		Liked:      fb.Liked,
		Strategy:   string(fb.Strategy),
		Timestamp:  fb.Timestamp.UTC(),
	}
}

// newMessage serializes an event into a watermill message keyed by its id.
func newMessage(eventID, eventType string, event interface{}) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	msg := message.NewMessage(eventID, payload)
	msg.Metadata.Set(metadataEventType, eventType)
	return msg, nil
}

// decode unmarshals a message payload into target.
func decode(msg *message.Message, target interface{}) error {
	if err := json.Unmarshal(msg.Payload, target); err != nil {
		return fmt.Errorf("decode message %s: %w", msg.UUID, err)
	}
	return nil
}
