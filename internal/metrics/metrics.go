// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

// Package metrics exposes Prometheus instrumentation for the API layer,
// the storage layer, the notification hub, and the billing client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	// Messaging metrics
	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Total number of messages persisted",
		},
	)

	ConversationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_created_total",
			Help: "Total number of conversations created",
		},
	)

	VideoCallsInitiated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_calls_initiated_total",
			Help: "Total number of video calls initiated",
		},
	)

	// Notification hub metrics
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_hub_connected_clients",
			Help: "Current number of connected WebSocket clients",
		},
	)

	HubEventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_hub_events_delivered_total",
			Help: "Total number of events delivered to WebSocket clients",
		},
		[]string{"event_type"},
	)

	HubEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_hub_events_dropped_total",
			Help: "Total number of events dropped due to slow or absent clients",
		},
		[]string{"reason"},
	)

	// Billing metrics
	BillingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_requests_total",
			Help: "Total number of billing provider requests",
		},
		[]string{"operation", "outcome"},
	)

	BillingBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "billing_breaker_open",
			Help: "Whether the billing circuit breaker is open (1) or closed (0)",
		},
	)
)

// RecordDBQuery records a storage operation's duration and error outcome.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, endpoint, statusCode).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
