// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// serveHub upgrades every request and registers the connection with hub.
func serveHub(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		client := NewClient(hub, conn)
		hub.Register <- client
		client.Start()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func TestClient_PingPong(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, serveHub(t, hub))

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != MessageTypePong {
		t.Errorf("type = %q, want pong", msg.Type)
	}
}

func TestClient_ReceivesBroadcast(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, serveHub(t, hub))
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.BroadcastJSON(MessageTypeModelTrained, map[string]int{"version": 9})

	msg := readMessage(t, conn)
	if msg.Type != MessageTypeModelTrained {
		t.Fatalf("type = %q, want %q", msg.Type, MessageTypeModelTrained)
	}
	data, ok := msg.Data.(map[string]interface{})
	if !ok || data["version"] != float64(9) {
		t.Errorf("data = %#v", msg.Data)
	}
}

func TestClient_Subscribe(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, serveHub(t, hub))
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	req := map[string]interface{}{
		"type": MessageTypeSubscribe,
		"data": map[string]interface{}{"types": []string{MessageTypeFeedbackRecorded, "unknown"}},
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	msg := readMessage(t, conn)
	if msg.Type != MessageTypeSubscribed {
		t.Fatalf("type = %q, want %q", msg.Type, MessageTypeSubscribed)
	}
	data, _ := msg.Data.(map[string]interface{})
	types, _ := data["types"].([]interface{})
	if len(types) != 1 || types[0] != MessageTypeFeedbackRecorded {
		t.Fatalf("subscribed types = %#v", msg.Data)
	}

	// The model event is filtered out, so the next frame is the feedback one.
	hub.BroadcastJSON(MessageTypeModelTrained, map[string]int{"version": 2})
	hub.BroadcastJSON(MessageTypeFeedbackRecorded, map[string]int{"movie_id": 10})
	if msg := readMessage(t, conn); msg.Type != MessageTypeFeedbackRecorded {
		t.Errorf("type = %q, want %q", msg.Type, MessageTypeFeedbackRecorded)
	}
}

func TestClient_SubscribeFilter(t *testing.T) {
	tests := []struct {
		name      string
		types     []string
		wantTypes []string
		wantModel bool
	}{
		{
			name:      "single type",
			types:     []string{MessageTypeModelTrained},
			wantTypes: []string{MessageTypeModelTrained},
			wantModel: true,
		},
		{
			name:      "duplicates collapse",
			types:     []string{MessageTypeFeedbackRecorded, MessageTypeFeedbackRecorded},
			wantTypes: []string{MessageTypeFeedbackRecorded},
		},
		{
			name:      "empty restores all",
			wantTypes: []string{MessageTypeFeedbackRecorded, MessageTypeModelTrained},
			wantModel: true,
		},
		{
			name:      "only unknown restores all",
			types:     []string{"ping"},
			wantTypes: []string{MessageTypeFeedbackRecorded, MessageTypeModelTrained},
			wantModel: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(nil, nil)
			got := c.subscribe(tt.types)
			if strings.Join(got, ",") != strings.Join(tt.wantTypes, ",") {
				t.Errorf("subscribe() = %v, want %v", got, tt.wantTypes)
			}
			if c.Wants(MessageTypeModelTrained) != tt.wantModel {
				t.Errorf("Wants(model_trained) = %v, want %v", !tt.wantModel, tt.wantModel)
			}
		})
	}
}

func TestClient_DisconnectUnregisters(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, serveHub(t, hub))
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestClient_IDsIncrease(t *testing.T) {
	a := NewClient(nil, nil)
	b := NewClient(nil, nil)
	if b.ID() <= a.ID() {
		t.Errorf("ids not increasing: %d then %d", a.ID(), b.ID())
	}
}
