// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package websocket

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviemate/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Clients only send pings and subscriptions.
	maxMessageSize = 4 * 1024

	sendBuffer = 256
)

// subscribable lists the event types a client may filter on.
var subscribable = map[string]bool{
	MessageTypeModelTrained:     true,
	MessageTypeFeedbackRecorded: true,
}

// clientRequest is a message sent by the browser.
type clientRequest struct {
	Type string `json:"type"`
	Data struct {
		Types []string `json:"types"`
	} `json:"data"`
}

// SubscriptionData is the payload of a subscribed reply.
type SubscriptionData struct {
	Types []string `json:"types"`
}

var clientIDCounter atomic.Uint64

// Client relays hub messages to one websocket connection.
type Client struct {
	id     uint64
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	logger zerolog.Logger

	// topics is nil until the client subscribes; nil receives every event.
	topics atomic.Pointer[map[string]bool]
}

// NewClient creates a client with the next id. Clients are broadcast to in
// id order.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	id := clientIDCounter.Add(1)
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
		logger: logging.WithComponent("websocket").With().Uint64("client_id", id).Logger(),
	}
}

// ID returns the client's id.
func (c *Client) ID() uint64 {
	return c.id
}

// Wants reports whether the client receives events of messageType.
func (c *Client) Wants(messageType string) bool {
	topics := c.topics.Load()
	return topics == nil || (*topics)[messageType]
}

// subscribe replaces the client's filter and returns the accepted types.
// Unknown types are ignored. An empty list restores every event.
func (c *Client) subscribe(types []string) []string {
	accepted := make([]string, 0, len(types))
	set := make(map[string]bool, len(types))
	for _, t := range types {
		if subscribable[t] && !set[t] {
			set[t] = true
			accepted = append(accepted, t)
		}
	}
	if len(accepted) == 0 {
		c.topics.Store(nil)
		for t := range subscribable {
			accepted = append(accepted, t)
		}
	} else {
		c.topics.Store(&set)
	}
	sort.Strings(accepted)
	return accepted
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("unexpected websocket close")
			}
			return
		}

		var req clientRequest
		if err := json.Unmarshal(data, &req); err != nil {
			c.logger.Debug().Err(err).Msg("ignoring malformed client message")
			continue
		}

		switch req.Type {
		case MessageTypePing:
			c.reply(Message{Type: MessageTypePong})
		case MessageTypeSubscribe:
			types := c.subscribe(req.Data.Types)
			c.reply(Message{Type: MessageTypeSubscribed, Data: SubscriptionData{Types: types}})
		}
	}
}

// reply queues a message for this client only and never blocks the reader.
func (c *Client) reply(msg Message) {
	defer func() {
		// send may already be closed by the hub.
		_ = recover()
	}()
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Hub dropped us or is shutting down.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := MarshalMessage(message)
			if err != nil {
				c.logger.Error().Err(err).Str("message_type", message.Type).Msg("failed to encode message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug().Err(err).Msg("write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start runs the read and write pumps. The client must already be
// registered with the hub.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
