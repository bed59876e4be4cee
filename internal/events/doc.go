// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

/*
Package events carries MovieMate domain events over Watermill.

Two events exist: ModelTrained after a successful training run and
FeedbackRecorded after a feedback record is stored. Both are JSON payloads
with a uuid event id and a UTC timestamp.

# Transport

NewPubSub picks the transport from Config.NATSURL:

  - empty: the Watermill gochannel bus, in-process only
  - set: watermill-nats on core NATS with reconnect handling

EmbeddedServer can supply the NATS URL for single-node deployments.

# Flow

	Engine.OnTrained / feedback handler
	        |
	   Publisher (circuit breaker, metrics)
	        |
	     transport
	        |
	   Router (Recoverer, Retry)
	        |-- metrics.RecordFeedback
	        `-- websocket hub BroadcastJSON
*/
package events
