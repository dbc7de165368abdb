// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package notify

import (
	"context"
	"testing"
	"time"
)

// allowAll permits every delivery.
type allowAll struct{}

func (allowAll) NotificationAllowed(context.Context, string, string) bool { return true }

// denyCalls blocks call events only.
type denyCalls struct{}

func (denyCalls) NotificationAllowed(_ context.Context, _ string, eventType string) bool {
	return eventType != EventCallInitiated
}

// startHub runs the hub until the test ends.
func startHub(t *testing.T, h *Hub) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

// register adds a client and waits for the hub to process it.
func register(t *testing.T, h *Hub, userID string) *Client {
	t.Helper()

	c := NewClient(h, nil, userID)
	h.Register <- c

	deadline := time.After(time.Second)
	for h.ClientCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("hub did not register client")
		case <-time.After(time.Millisecond):
		}
	}
	return c
}

func waitForEvent(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case event := <-c.send:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHubDeliversToTargetUserOnly(t *testing.T) {
	h := NewHub(allowAll{})
	startHub(t, h)

	recipient := register(t, h, "u2")
	bystander := NewClient(h, nil, "u3")
	h.Register <- bystander

	h.Publish(Event{Type: EventMessageNew, UserID: "u2", Data: "hello"})

	event := waitForEvent(t, recipient)
	if event.Type != EventMessageNew {
		t.Errorf("event type = %q, want %q", event.Type, EventMessageNew)
	}

	select {
	case event := <-bystander.send:
		t.Errorf("bystander received event %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDeliversToAllClientsOfUser(t *testing.T) {
	h := NewHub(nil)
	startHub(t, h)

	first := register(t, h, "u2")
	second := NewClient(h, nil, "u2")
	h.Register <- second

	// Wait until both clients are registered.
	deadline := time.After(time.Second)
	for h.ClientCount() != 2 {
		select {
		case <-deadline:
			t.Fatal("hub did not register both clients")
		case <-time.After(time.Millisecond):
		}
	}

	h.Publish(Event{Type: EventCallInitiated, UserID: "u2"})

	waitForEvent(t, first)
	waitForEvent(t, second)
}

func TestHubRespectsPreferences(t *testing.T) {
	h := NewHub(denyCalls{})
	startHub(t, h)

	c := register(t, h, "u2")

	h.Publish(Event{Type: EventCallInitiated, UserID: "u2"})
	h.Publish(Event{Type: EventMessageNew, UserID: "u2", Data: "still delivered"})

	// Only the message event arrives; the call event was filtered.
	event := waitForEvent(t, c)
	if event.Type != EventMessageNew {
		t.Errorf("event type = %q, want %q", event.Type, EventMessageNew)
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	h := NewHub(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.RunWithContext(ctx)
		close(done)
	}()

	c := register(t, h, "u1")

	cancel()
	<-done

	if _, ok := <-c.send; ok {
		t.Error("expected client channel closed on shutdown")
	}
	if h.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", h.ClientCount())
	}
}

func TestUnregisterAfterShutdownDoesNotBlock(t *testing.T) {
	h := NewHub(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.RunWithContext(ctx)
		close(done)
	}()

	c := register(t, h, "u1")

	cancel()
	<-done

	// The connection teardown path runs after the hub is gone; it must
	// return instead of waiting on the Unregister channel forever.
	returned := make(chan struct{})
	go func() {
		c.unregister()
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after hub shutdown")
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	h := NewHub(nil) // not running: queue fills, then drops

	for i := 0; i < 300; i++ {
		h.Publish(Event{Type: EventMessageNew, UserID: "u1"})
	}
}
