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
	"time"

	"github.com/google/uuid"

	"github.com/byootify/byootify/internal/models"
)

// bookingTransitions defines the allowed status moves. Cancellation is
// allowed from any non-terminal state.
var bookingTransitions = map[string][]string{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range bookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CreateBooking inserts a new booking in the pending state.
func (db *DB) CreateBooking(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = b.CreatedAt
	b.Status = models.BookingPending

	query := `INSERT INTO bookings (id, client_id, provider_id, service_name, starts_at, duration_min, price_usd, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.conn.ExecContext(ctx, query,
		b.ID, b.ClientID, b.ProviderID, b.ServiceName, b.StartsAt,
		b.DurationMin, b.PriceUSD, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetBooking retrieves a booking visible to callerID, who must be the
// client or the provider's owning user.
func (db *DB) GetBooking(ctx context.Context, id, callerID string) (*models.Booking, error) {
	b, err := db.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := db.isBookingParty(ctx, b, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (db *DB) getBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT id::TEXT, client_id::TEXT, provider_id::TEXT, service_name, starts_at, duration_min, price_usd, status, created_at, updated_at
		FROM bookings WHERE id = CAST(? AS UUID)`

	var b models.Booking
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.ClientID, &b.ProviderID, &b.ServiceName, &b.StartsAt,
		&b.DurationMin, &b.PriceUSD, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return &b, nil
}

// isBookingParty reports whether callerID is the booking's client or the
// user behind its provider profile.
func (db *DB) isBookingParty(ctx context.Context, b *models.Booking, callerID string) (bool, error) {
	if callerID == b.ClientID {
		return true, nil
	}
	var ownerID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id::TEXT FROM providers WHERE id = CAST(? AS UUID)`, b.ProviderID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to resolve provider owner: %w", err)
	}
	return callerID == ownerID, nil
}

// ListBookings returns all bookings where callerID is the client or the
// provider's owning user, most recent start first.
func (db *DB) ListBookings(ctx context.Context, callerID string) ([]*models.Booking, error) {
	query := `SELECT b.id::TEXT, b.client_id::TEXT, b.provider_id::TEXT, b.service_name, b.starts_at, b.duration_min, b.price_usd, b.status, b.created_at, b.updated_at
		FROM bookings b
		LEFT JOIN providers p ON p.id = b.provider_id
		WHERE b.client_id = CAST(? AS UUID) OR p.user_id = CAST(? AS UUID)
		ORDER BY b.starts_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, callerID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer closeQuietly(rows)

	var bookings []*models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.ClientID, &b.ProviderID, &b.ServiceName, &b.StartsAt,
			&b.DurationMin, &b.PriceUSD, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return bookings, nil
}

// UpdateBookingStatus moves a booking to a new status, enforcing the
// lifecycle and that callerID is a party to the booking.
func (db *DB) UpdateBookingStatus(ctx context.Context, id, callerID, status string) (_ *models.Booking, err error) {
	start := time.Now()
	defer func() { track("update_booking_status", start, err) }()

	b, err := db.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := db.isBookingParty(ctx, b, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccessDenied
	}

	if !transitionAllowed(b.Status, status) {
		return nil, fmt.Errorf("%s -> %s: %w", b.Status, status, ErrInvalidTransition)
	}

	now := time.Now().UTC()
	_, err = db.conn.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = CAST(? AS UUID)`,
		status, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	b.Status = status
	b.UpdatedAt = now
	return b, nil
}
