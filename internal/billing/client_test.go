// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/byootify/byootify/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewHTTPClient(&config.BillingConfig{
		Enabled: true,
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	})
}

func TestAuthorizeSuccess(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/charges" {
			t.Errorf("path = %q, want /v1/charges", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["booking_id"] != "b1" {
			t.Errorf("booking_id = %v, want b1", body["booking_id"])
		}

		_ = json.NewEncoder(w).Encode(Charge{
			ID:        "ch_1",
			BookingID: "b1",
			AmountUSD: 45,
			Status:    "authorized",
		})
	})

	charge, err := client.Authorize(context.Background(), "b1", 45)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if charge.ID != "ch_1" || charge.Status != "authorized" {
		t.Errorf("charge = %+v", charge)
	}
}

func TestCaptureErrorStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := client.Capture(context.Background(), "ch_1"); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int64
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		if _, err := client.Refund(ctx, "ch_1"); err == nil {
			t.Fatalf("call %d should have failed", i)
		}
	}
	before := calls.Load()

	// Breaker is open now: requests fail fast without reaching the server.
	if _, err := client.Refund(ctx, "ch_1"); err == nil {
		t.Fatal("expected breaker to reject request")
	}
	if calls.Load() != before {
		t.Errorf("expected no additional upstream calls, got %d", calls.Load()-before)
	}
}
