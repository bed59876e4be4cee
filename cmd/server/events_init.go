// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/moviemate/internal/config"
	"github.com/tomtom215/moviemate/internal/events"
	"github.com/tomtom215/moviemate/internal/logging"
	"github.com/tomtom215/moviemate/internal/supervisor"
	"github.com/tomtom215/moviemate/internal/supervisor/services"
	ws "github.com/tomtom215/moviemate/internal/websocket"
)

// EventComponents holds the event bus and the optional embedded broker.
type EventComponents struct {
	Server    *events.EmbeddedServer
	PubSub    *events.PubSub
	Publisher *events.Publisher
}

// initEvents starts the embedded NATS server when configured and connects
// the publisher and subscriber to the selected transport.
func initEvents(cfg *config.Config) (*EventComponents, error) {
	c := &EventComponents{}
	natsURL := ""

	if cfg.Events.EmbeddedNATS {
		srv, err := events.NewEmbeddedServer(cfg.EmbeddedServer())
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		c.Server = srv
		natsURL = srv.ClientURL()
		logging.Info().Str("url", natsURL).Msg("Embedded NATS server started")
	}

	logger := events.NewLoggerAdapter(logging.WithComponent("events"))
	ps, err := events.NewPubSub(cfg.PubSub(natsURL), logger)
	if err != nil {
		c.shutdownServer()
		return nil, err
	}
	c.PubSub = ps
	c.Publisher = events.NewPublisher(ps.Publisher)

	logging.Info().Str("transport", ps.Transport).Msg("Event bus connected")
	return c, nil
}

// addToTree registers the router, and the embedded server when present,
// with the messaging layer.
func (c *EventComponents) addToTree(tree *supervisor.SupervisorTree, hub *ws.Hub) {
	if c.Server != nil {
		tree.AddMessagingService(services.NewNATSServerService(c.Server, 10*time.Second))
	}

	logger := events.NewLoggerAdapter(logging.WithComponent("event-router"))
	tree.AddMessagingService(services.NewEventRouterService(func() (services.EventRouter, error) {
		return events.NewRouter(events.DefaultRouterConfig(), c.PubSub.Subscriber, hub, logger)
	}))
}

// Close releases the publisher and subscriber. The embedded server is shut
// down by its service.
func (c *EventComponents) Close() error {
	if c.Publisher == nil {
		return nil
	}
	return errors.Join(c.Publisher.Close(), c.PubSub.Close())
}

func (c *EventComponents) shutdownServer() {
	if c.Server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.Server.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("Embedded NATS shutdown failed")
	}
}
