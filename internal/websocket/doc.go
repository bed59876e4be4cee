// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

/*
Package websocket pushes model and feedback events to browser clients.

A Hub owns the client set and a buffered broadcast channel. Each Client runs
a read pump, which answers pings and subscriptions, and a write pump, which
forwards hub messages and sends protocol pings.

Message types:

  - model_trained: a new model version is serving
  - feedback_recorded: a user rated a recommendation
  - ping / pong: client keepalive
  - subscribe / subscribed: restrict delivery to some event types

Every message is a JSON object:

	{"type": "model_trained", "data": {...}}

A client that only wants feedback events sends

	{"type": "subscribe", "data": {"types": ["feedback_recorded"]}}

and an empty list restores every event.

The hub runs under the supervisor through RunWithContext. The events router
calls BroadcastJSON; the HTTP layer upgrades /ws requests and registers
clients with NewClient and Register.
*/
package websocket
