// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package database

import (
	"context"
	"testing"
	"time"

	"github.com/byootify/byootify/internal/config"
	"github.com/byootify/byootify/internal/models"
)

// setupTestDB creates a new in-memory test database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

// seedUser inserts a user with a deterministic name derived from the email.
func seedUser(t *testing.T, db *DB, email, firstName string) *models.User {
	t.Helper()

	u := &models.User{
		Email:        email,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
		FirstName:    firstName,
		Role:         models.RoleClient,
	}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u
}

// seedProvider inserts a user plus a provider profile.
func seedProvider(t *testing.T, db *DB, email, businessName string) *models.Provider {
	t.Helper()

	u := seedUser(t, db, email, businessName)
	p := &models.Provider{
		UserID:       u.ID,
		BusinessName: businessName,
		City:         "Austin",
		BasePriceUSD: 50,
	}
	if err := db.CreateProvider(context.Background(), p); err != nil {
		t.Fatalf("failed to seed provider %s: %v", businessName, err)
	}
	return p
}

func TestNewInitializesSchema(t *testing.T) {
	db := setupTestDB(t)

	ctx := context.Background()
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	// Every table should be queryable after New.
	tables := []string{
		"users", "providers", "bookings", "conversations", "messages",
		"video_calls", "reviews", "review_helpful", "review_reports",
		"notification_preferences",
	}
	for _, table := range tables {
		var count int
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "maya@example.com", "Maya")

	err := db.CreateUser(ctx, &models.User{
		Email:        "maya@example.com",
		PasswordHash: "x",
		FirstName:    "Other",
	})
	if err == nil {
		t.Fatal("expected duplicate email to fail")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seeded := seedUser(t, db, "maya@example.com", "Maya")

	u, err := db.GetUserByEmail(ctx, "maya@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if u.ID != seeded.ID {
		t.Errorf("expected user %s, got %s", seeded.ID, u.ID)
	}

	if _, err := db.GetUserByEmail(ctx, "nobody@example.com"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNotificationPreferencesDefaults(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u := seedUser(t, db, "maya@example.com", "Maya")

	prefs, err := db.GetNotificationPreferences(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetNotificationPreferences failed: %v", err)
	}
	if !prefs.MessagesOn || !prefs.CallsOn || !prefs.BookingsOn {
		t.Error("expected all channels enabled by default")
	}

	prefs.CallsOn = false
	if err := db.SaveNotificationPreferences(ctx, prefs); err != nil {
		t.Fatalf("SaveNotificationPreferences failed: %v", err)
	}

	saved, err := db.GetNotificationPreferences(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetNotificationPreferences after save failed: %v", err)
	}
	if saved.CallsOn {
		t.Error("expected calls channel disabled after save")
	}
	if !saved.MessagesOn {
		t.Error("expected messages channel still enabled")
	}
	if saved.UpdatedAt.IsZero() || time.Since(saved.UpdatedAt) > time.Minute {
		t.Error("expected a fresh updated_at timestamp")
	}
}

func TestNotificationAllowed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u := seedUser(t, db, "pref@example.com", "Pia")

	// Without a saved row every channel delivers.
	if !db.NotificationAllowed(ctx, u.ID, "call.initiated") {
		t.Error("expected calls allowed by default")
	}

	prefs, err := db.GetNotificationPreferences(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetNotificationPreferences failed: %v", err)
	}
	prefs.CallsOn = false
	if err := db.SaveNotificationPreferences(ctx, prefs); err != nil {
		t.Fatalf("SaveNotificationPreferences failed: %v", err)
	}

	if db.NotificationAllowed(ctx, u.ID, "call.initiated") {
		t.Error("expected calls blocked after disabling the channel")
	}
	if !db.NotificationAllowed(ctx, u.ID, "message.new") {
		t.Error("expected messages still allowed")
	}
	if !db.NotificationAllowed(ctx, u.ID, "system.announcement") {
		t.Error("expected unknown namespaces to deliver")
	}
}
