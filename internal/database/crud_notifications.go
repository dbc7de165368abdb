// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/byootify/byootify/internal/models"
)

// GetNotificationPreferences returns the user's preferences, or the
// all-enabled defaults if the user has never saved any. No row is created
// on read.
func (db *DB) GetNotificationPreferences(ctx context.Context, userID string) (*models.NotificationPreferences, error) {
	query := `SELECT user_id::TEXT, messages_on, calls_on, bookings_on, updated_at
		FROM notification_preferences WHERE user_id = CAST(? AS UUID)`

	var p models.NotificationPreferences
	err := db.conn.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.MessagesOn, &p.CallsOn, &p.BookingsOn, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultNotificationPreferences(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan notification preferences: %w", err)
	}

	return &p, nil
}

// NotificationAllowed reports whether the user has the channel for the
// given event type enabled. Event types are namespaced "message.*",
// "call.*", "booking.*"; unknown namespaces and lookup failures default
// to delivering.
func (db *DB) NotificationAllowed(ctx context.Context, userID, eventType string) bool {
	prefs, err := db.GetNotificationPreferences(ctx, userID)
	if err != nil {
		return true
	}

	switch {
	case strings.HasPrefix(eventType, "message."):
		return prefs.MessagesOn
	case strings.HasPrefix(eventType, "call."):
		return prefs.CallsOn
	case strings.HasPrefix(eventType, "booking."):
		return prefs.BookingsOn
	default:
		return true
	}
}

// SaveNotificationPreferences replaces the user's preferences, creating
// the row on first save.
func (db *DB) SaveNotificationPreferences(ctx context.Context, p *models.NotificationPreferences) error {
	p.UpdatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE notification_preferences SET messages_on = ?, calls_on = ?, bookings_on = ?, updated_at = ?
		WHERE user_id = CAST(? AS UUID)`,
		p.MessagesOn, p.CallsOn, p.BookingsOn, p.UpdatedAt, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification preferences: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO notification_preferences (user_id, messages_on, calls_on, bookings_on, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.UserID, p.MessagesOn, p.CallsOn, p.BookingsOn, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			_, err = db.conn.ExecContext(ctx,
				`UPDATE notification_preferences SET messages_on = ?, calls_on = ?, bookings_on = ?, updated_at = ?
				WHERE user_id = CAST(? AS UUID)`,
				p.MessagesOn, p.CallsOn, p.BookingsOn, p.UpdatedAt, p.UserID,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to insert notification preferences: %w", err)
		}
	}

	return nil
}
