// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
)

// Config selects and tunes the message transport.
type Config struct {
	// NATSURL selects NATS. Empty uses the in-process gochannel bus.
	NATSURL string

	MaxReconnects int
	ReconnectWait time.Duration

	// SubscribersCount is the number of goroutines per NATS subscription.
	SubscribersCount int
	CloseTimeout     time.Duration

	// BufferSize is the gochannel output buffer per subscriber.
	BufferSize int64
}

// DefaultConfig returns settings for the in-process bus.
func DefaultConfig() Config {
	return Config{
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		SubscribersCount: 1,
		CloseTimeout:     30 * time.Second,
		BufferSize:       256,
	}
}

// PubSub pairs a publisher and subscriber on the same transport.
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Transport  string
}

// Close closes the publisher and the subscriber.
func (p *PubSub) Close() error {
	pubErr := p.Publisher.Close()
	if p.Subscriber == nil || any(p.Subscriber) == any(p.Publisher) {
		return pubErr
	}
	return errors.Join(pubErr, p.Subscriber.Close())
}

// NewPubSub returns a gochannel bus when cfg.NATSURL is empty, else a
// watermill-nats publisher and subscriber on core NATS.
func NewPubSub(cfg Config, logger watermill.LoggerAdapter) (*PubSub, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	if cfg.NATSURL == "" {
		buf := cfg.BufferSize
		if buf <= 0 {
			buf = 256
		}
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: buf}, logger)
		return &PubSub{Publisher: ch, Subscriber: ch, Transport: "gochannel"}, nil
	}

	natsOpts := natsOptions(cfg, logger)

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	count := cfg.SubscribersCount
	if count <= 0 {
		count = 1
	}
	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.NATSURL,
		SubscribersCount: count,
		CloseTimeout:     cfg.CloseTimeout,
		AckWaitTimeout:   30 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	return &PubSub{Publisher: pub, Subscriber: sub, Transport: "nats"}, nil
}

func natsOptions(cfg Config, logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name("moviemate"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}
