// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package models

import "time"

// NotificationPreferences controls which real-time events are delivered to
// a user over the WebSocket hub. Rows are created lazily with all channels
// enabled on first read.
type NotificationPreferences struct {
	UserID     string    `json:"user_id"`
	MessagesOn bool      `json:"messages_on"`
	CallsOn    bool      `json:"calls_on"`
	BookingsOn bool      `json:"bookings_on"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultNotificationPreferences returns the all-enabled defaults used
// when a user has never saved preferences.
func DefaultNotificationPreferences(userID string) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:     userID,
		MessagesOn: true,
		CallsOn:    true,
		BookingsOn: true,
	}
}

// UpdateNotificationPreferencesRequest replaces the caller's preferences.
type UpdateNotificationPreferencesRequest struct {
	MessagesOn bool `json:"messages_on"`
	CallsOn    bool `json:"calls_on"`
	BookingsOn bool `json:"bookings_on"`
}
