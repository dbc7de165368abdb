// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

// Package notify delivers real-time events (new messages, call lifecycle,
// booking updates) to connected WebSocket clients, filtered through each
// recipient's notification preferences.
package notify

import (
	"context"
	"sort"
	"sync"

	"github.com/byootify/byootify/internal/logging"
	"github.com/byootify/byootify/internal/metrics"
)

// Event types pushed to clients.
const (
	EventMessageNew    = "message.new"
	EventCallInitiated = "call.initiated"
	EventCallEnded     = "call.ended"
	EventBookingUpdate = "booking.update"
	EventPing          = "ping"
	EventPong          = "pong"
)

// Event is a single notification addressed to one user. A user may have
// several connected clients; all of them receive the event.
type Event struct {
	Type   string      `json:"type"`
	UserID string      `json:"-"`
	Data   interface{} `json:"data"`
}

// PreferenceChecker reports whether a user has the channel for an event
// type enabled. The storage layer implements this; the hub never blocks
// delivery on a failed lookup and defaults to delivering.
type PreferenceChecker interface {
	NotificationAllowed(ctx context.Context, userID, eventType string) bool
}

// Hub maintains the set of active clients and routes events to the
// clients belonging to each event's target user.
type Hub struct {
	clients    map[*Client]bool
	events     chan Event
	Register   chan *Client
	Unregister chan *Client
	prefs      PreferenceChecker
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

// NewHub creates a hub. prefs may be nil, in which case every event is
// delivered.
func NewHub(prefs PreferenceChecker) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		events:     make(chan Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		prefs:      prefs,
		done:       make(chan struct{}),
	}
}

// Publish queues an event for delivery. Non-blocking: if the hub's queue
// is full the event is dropped and counted, never stalling the request
// path that produced it.
func (h *Hub) Publish(event Event) {
	select {
	case h.events <- event:
	default:
		metrics.HubEventsDropped.WithLabelValues("queue_full").Inc()
		logging.Warn().Str("event_type", event.Type).Msg("notification queue full, event dropped")
	}
}

// RunWithContext runs the hub under supervision until the context is
// canceled. Lifecycle events take priority over deliveries so client
// state is consistent before an event fans out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case event := <-h.events:
			h.deliver(ctx, event)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.HubConnectedClients.Set(float64(total))
	logging.Info().Str("user_id", client.userID).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.HubConnectedClients.Set(float64(total))
	logging.Info().Str("user_id", client.userID).Int("total_clients", total).Msg("websocket client disconnected")
}

// deliver sends an event to every client of the target user, in client ID
// order for deterministic behavior. Slow clients are disconnected rather
// than allowed to block the hub.
func (h *Hub) deliver(ctx context.Context, event Event) {
	if h.prefs != nil && !h.prefs.NotificationAllowed(ctx, event.UserID, event.Type) {
		metrics.HubEventsDropped.WithLabelValues("preference_disabled").Inc()
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	targets := make([]*Client, 0, 2)
	for client := range h.clients {
		if client.userID == event.UserID {
			targets = append(targets, client)
		}
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].id < targets[j].id
	})

	var toRemove []*Client
	for _, client := range targets {
		select {
		case client.send <- event:
			metrics.HubEventsDelivered.WithLabelValues(event.Type).Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.HubEventsDropped.WithLabelValues("slow_client").Inc()
	}
}

// Done is closed once the hub has stopped. Client teardown selects on it
// so unregistering never blocks after shutdown.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// shutdown closes all connected clients.
func (h *Hub) shutdown(ctx context.Context) {
	h.stopOnce.Do(func() { close(h.done) })
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.HubConnectedClients.Set(0)
	logging.Info().
		Str("component", "notify-hub").
		Int("clients_closed", len(clients)).
		Msg("notification hub stopped")
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
