// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package websocket

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/moviemate/internal/metrics"
)

// startHub runs a hub until the test ends.
func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// newTestClient returns a client without a connection.
func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := startHub(t)
	a := newTestClient(hub, 4)
	b := newTestClient(hub, 4)

	hub.Register <- a
	hub.Register <- b
	waitFor(t, func() bool { return hub.ClientCount() == 2 })
	if got := testutil.ToFloat64(metrics.WSConnections); got != 2 {
		t.Errorf("websocket_clients = %v, want 2", got)
	}

	hub.Unregister <- a
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	if _, ok := <-a.send; ok {
		t.Error("unregistered client's send channel should be closed")
	}

	// Unregistering twice is a no-op.
	hub.Unregister <- a
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
}

func TestHub_BroadcastJSON(t *testing.T) {
	tests := []struct {
		name        string
		messageType string
		data        interface{}
	}{
		{name: "model trained", messageType: MessageTypeModelTrained, data: map[string]int{"version": 3}},
		{name: "feedback recorded", messageType: MessageTypeFeedbackRecorded, data: map[string]bool{"liked": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := startHub(t)
			clients := []*Client{newTestClient(hub, 4), newTestClient(hub, 4)}
			for _, c := range clients {
				hub.Register <- c
			}
			waitFor(t, func() bool { return hub.ClientCount() == len(clients) })

			hub.BroadcastJSON(tt.messageType, tt.data)

			for _, c := range clients {
				msg := receive(t, c)
				if msg.Type != tt.messageType {
					t.Errorf("client %d: type = %q, want %q", c.id, msg.Type, tt.messageType)
				}
			}
		})
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := newTestClient(hub, 1)
	fast := newTestClient(hub, 8)
	hub.Register <- slow
	hub.Register <- fast
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	hub.BroadcastJSON(MessageTypeModelTrained, 1)
	hub.BroadcastJSON(MessageTypeModelTrained, 2)

	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	if got := len(fast.send); got != 2 {
		t.Errorf("fast client buffered %d messages, want 2", got)
	}
}

func TestHub_RunWithContext_ClosesClients(t *testing.T) {
	tests := []struct {
		name       string
		ctx        func() (context.Context, context.CancelFunc)
		wantErr    error
		wantReason ShutdownReason
	}{
		{
			name:       "canceled",
			ctx:        func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) },
			wantErr:    context.Canceled,
			wantReason: ShutdownReasonContextCanceled,
		},
		{
			name: "deadline",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 300*time.Millisecond)
			},
			wantErr:    context.DeadlineExceeded,
			wantReason: ShutdownReasonContextDeadline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub()
			ctx, cancel := tt.ctx()
			defer cancel()

			errCh := make(chan error, 1)
			go func() { errCh <- hub.RunWithContext(ctx) }()

			client := newTestClient(hub, 1)
			hub.Register <- client
			waitFor(t, func() bool { return hub.ClientCount() == 1 })

			if tt.wantErr == context.Canceled {
				cancel()
			}

			select {
			case err := <-errCh:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("RunWithContext() = %v, want %v", err, tt.wantErr)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("hub did not stop")
			}

			if hub.ClientCount() != 0 {
				t.Error("clients should be closed on shutdown")
			}
			if _, ok := <-client.send; ok {
				t.Error("client send channel should be closed")
			}
			if got := getShutdownReason(ctx); got != tt.wantReason {
				t.Errorf("reason = %q, want %q", got, tt.wantReason)
			}
		})
	}
}

func TestHub_BroadcastBufferFull(t *testing.T) {
	hub := NewHub() // not running, so nothing drains the buffer
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.BroadcastJSON(MessageTypeModelTrained, i)
	}
	if got := len(hub.broadcast); got != cap(hub.broadcast) {
		t.Errorf("broadcast buffer = %d, want %d", got, cap(hub.broadcast))
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: MessageTypePong})
	if err != nil {
		t.Fatalf("MarshalMessage() error = %v", err)
	}
	if got := string(data); !strings.Contains(got, `"type":"pong"`) || !strings.Contains(got, `"data":null`) {
		t.Errorf("MarshalMessage() = %s", got)
	}
}
