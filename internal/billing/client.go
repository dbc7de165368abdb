// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

// Package billing is the client for the external payment provider.
// Payment processing is fully delegated; this package only authorizes,
// captures, and refunds charges over the provider's REST API, behind a
// circuit breaker so a provider outage cannot pile up blocked requests.
package billing

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/byootify/byootify/internal/config"
	"github.com/byootify/byootify/internal/logging"
	"github.com/byootify/byootify/internal/metrics"
)

// Charge is the provider's view of a payment.
type Charge struct {
	ID          string  `json:"id"`
	BookingID   string  `json:"booking_id"`
	AmountUSD   float64 `json:"amount_usd"`
	Status      string  `json:"status"`
	ProviderRef string  `json:"provider_ref,omitempty"`
}

// Provider authorizes, captures, and refunds charges. HTTPClient is the
// production implementation; tests substitute their own.
type Provider interface {
	Authorize(ctx context.Context, bookingID string, amountUSD float64) (*Charge, error)
	Capture(ctx context.Context, chargeID string) (*Charge, error)
	Refund(ctx context.Context, chargeID string) (*Charge, error)
}

// HTTPClient talks to the payment provider's REST API through a circuit
// breaker.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*Charge]
}

// NewHTTPClient creates the provider client. The breaker opens after six
// consecutive failures and probes again after thirty seconds.
func NewHTTPClient(cfg *config.BillingConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "billing",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			open := 0.0
			if to == gobreaker.StateOpen {
				open = 1.0
			}
			metrics.BillingBreakerState.Set(open)
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("billing circuit breaker state change")
		},
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*Charge](settings),
	}
}

// Authorize places a hold for the booking amount.
func (c *HTTPClient) Authorize(ctx context.Context, bookingID string, amountUSD float64) (*Charge, error) {
	body := map[string]interface{}{
		"booking_id": bookingID,
		"amount_usd": amountUSD,
	}
	return c.do(ctx, "authorize", http.MethodPost, "/v1/charges", body)
}

// Capture settles a previously authorized charge.
func (c *HTTPClient) Capture(ctx context.Context, chargeID string) (*Charge, error) {
	return c.do(ctx, "capture", http.MethodPost, "/v1/charges/"+chargeID+"/capture", nil)
}

// Refund reverses a captured charge.
func (c *HTTPClient) Refund(ctx context.Context, chargeID string) (*Charge, error) {
	return c.do(ctx, "refund", http.MethodPost, "/v1/charges/"+chargeID+"/refund", nil)
}

func (c *HTTPClient) do(ctx context.Context, operation, method, path string, body interface{}) (*Charge, error) {
	charge, err := c.breaker.Execute(func() (*Charge, error) {
		return c.send(ctx, method, path, body)
	})
	if err != nil {
		metrics.BillingRequests.WithLabelValues(operation, "error").Inc()
		return nil, fmt.Errorf("billing %s: %w", operation, err)
	}

	metrics.BillingRequests.WithLabelValues(operation, "success").Inc()
	return charge, nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body interface{}) (*Charge, error) {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var charge Charge
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &charge, nil
}
