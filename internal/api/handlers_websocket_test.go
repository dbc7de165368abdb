// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/byootify/byootify/internal/auth"
	"github.com/byootify/byootify/internal/database"
	"github.com/byootify/byootify/internal/models"
	"github.com/byootify/byootify/internal/notify"
)

// newWebSocketEnv builds the router with a running notification hub and
// serves it over a real listener, since upgrades need a hijackable
// connection.
func newWebSocketEnv(t *testing.T) (*testEnv, *notify.Hub, *httptest.Server) {
	t.Helper()

	cfg := testConfig()
	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	hub := notify.NewHub(db)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("failed to create JWT manager: %v", err)
	}
	authMw := auth.NewMiddleware(jwtManager, "none", cfg.Security.LoginRateLimit, cfg.Security.LoginRateWindow)

	handler := NewHandler(db, cfg, jwtManager, hub, nil)
	env := &testEnv{
		db:     db,
		cfg:    cfg,
		router: NewRouter(handler, authMw, cfg).Setup(),
	}

	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	return env, hub, srv
}

func dialWebSocket(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"X-User-ID": []string{userID}})
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *notify.Hub, want int) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for hub.ClientCount() != want {
		select {
		case <-deadline:
			t.Fatalf("hub client count never reached %d", want)
		case <-time.After(time.Millisecond):
		}
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("failed to set read deadline: %v", err)
	}

	var frame struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	return frame.Type, frame.Data
}

func TestWebSocketDeliversPublishedEvent(t *testing.T) {
	env, hub, srv := newWebSocketEnv(t)
	user := seedUser(t, env.db, "ws@example.com", "Wren")

	conn := dialWebSocket(t, srv, user.ID)
	waitForClients(t, hub, 1)

	hub.Publish(notify.Event{
		Type:   notify.EventMessageNew,
		UserID: user.ID,
		Data:   map[string]string{"content": "hello"},
	})

	eventType, data := readEvent(t, conn)
	if eventType != notify.EventMessageNew {
		t.Errorf("event type = %q, want %q", eventType, notify.EventMessageNew)
	}
	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload["content"] != "hello" {
		t.Errorf("payload content = %q, want %q", payload["content"], "hello")
	}
}

func TestWebSocketRespectsDisabledPreferences(t *testing.T) {
	env, hub, srv := newWebSocketEnv(t)
	user := seedUser(t, env.db, "muted@example.com", "Mo")

	prefs := &models.NotificationPreferences{
		UserID:     user.ID,
		MessagesOn: false,
		CallsOn:    true,
		BookingsOn: true,
	}
	if err := env.db.SaveNotificationPreferences(context.Background(), prefs); err != nil {
		t.Fatalf("failed to save preferences: %v", err)
	}

	conn := dialWebSocket(t, srv, user.ID)
	waitForClients(t, hub, 1)

	// The message event is filtered; only the booking update arrives.
	hub.Publish(notify.Event{Type: notify.EventMessageNew, UserID: user.ID, Data: "blocked"})
	hub.Publish(notify.Event{Type: notify.EventBookingUpdate, UserID: user.ID, Data: "delivered"})

	eventType, _ := readEvent(t, conn)
	if eventType != notify.EventBookingUpdate {
		t.Errorf("event type = %q, want %q", eventType, notify.EventBookingUpdate)
	}
}
