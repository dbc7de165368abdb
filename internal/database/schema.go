// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

/*
schema.go - Database Schema Management

Tables:
  - users: platform accounts (clients, providers, admins)
  - providers: public service profiles, one per provider user
  - bookings: appointments with a pending/confirmed/completed/cancelled lifecycle
  - conversations: two-party message threads; pair_key enforces uniqueness
    of the unordered participant pair so concurrent first-contact requests
    cannot create duplicate threads
  - messages: the per-conversation message ledger
  - video_calls: call session lifecycle plus post-call metrics
  - reviews: provider ratings, optionally tied to a booking
  - review_helpful: per-voter helpfulness signal, unique per (review, voter)
  - review_reports: append-only moderation reports
  - notification_preferences: per-user real-time delivery switches

All columns are defined in the initial CREATE TABLE statements; there are
no migrations yet.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'client',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS providers (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE,
			business_name TEXT NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			specialties TEXT NOT NULL DEFAULT '[]',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			base_price_usd DOUBLE NOT NULL DEFAULT 0,
			home_visits BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			client_id UUID NOT NULL,
			provider_id UUID NOT NULL,
			service_name TEXT NOT NULL,
			starts_at TIMESTAMP NOT NULL,
			duration_min INTEGER NOT NULL,
			price_usd DOUBLE NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// pair_key is the canonical "min:max" of the two participant IDs.
		// The UNIQUE constraint makes conversation creation race-safe.
		`CREATE TABLE IF NOT EXISTS conversations (
			id UUID PRIMARY KEY,
			participant_one UUID NOT NULL,
			participant_two UUID NOT NULL,
			pair_key TEXT NOT NULL UNIQUE,
			last_message_id UUID,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			conversation_id UUID NOT NULL,
			sender_id UUID NOT NULL,
			content TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT 'text',
			read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS video_calls (
			id UUID PRIMARY KEY,
			initiator_id UUID NOT NULL,
			recipient_id UUID NOT NULL,
			status TEXT NOT NULL DEFAULT 'initiated',
			duration_sec INTEGER,
			quality INTEGER,
			started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ended_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY,
			provider_id UUID NOT NULL,
			author_id UUID NOT NULL,
			booking_id UUID,
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS review_helpful (
			id UUID PRIMARY KEY,
			review_id UUID NOT NULL,
			voter_id UUID NOT NULL,
			is_helpful BOOLEAN NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (review_id, voter_id)
		)`,

		`CREATE TABLE IF NOT EXISTS review_reports (
			id UUID PRIMARY KEY,
			review_id UUID NOT NULL,
			reporter_id UUID NOT NULL,
			reason TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS notification_preferences (
			user_id UUID PRIMARY KEY,
			messages_on BOOLEAN NOT NULL DEFAULT true,
			calls_on BOOLEAN NOT NULL DEFAULT true,
			bookings_on BOOLEAN NOT NULL DEFAULT true,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
}

// createIndexes creates indexes for common query patterns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_providers_user ON providers(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_client ON bookings(client_id, starts_at)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_provider ON bookings(provider_id, starts_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_p1 ON conversations(participant_one, updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_p2 ON conversations(participant_two, updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_video_calls_initiator ON video_calls(initiator_id)`,
		`CREATE INDEX IF NOT EXISTS idx_video_calls_recipient ON video_calls(recipient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_provider ON reviews(provider_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_review_helpful_review ON review_helpful(review_id)`,
		`CREATE INDEX IF NOT EXISTS idx_review_reports_review ON review_reports(review_id)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}
