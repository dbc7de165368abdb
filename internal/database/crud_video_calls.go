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

// InitiateCall creates a call row in the initiated state. Media
// negotiation happens elsewhere; this only tracks the session.
func (db *DB) InitiateCall(ctx context.Context, initiatorID, recipientID string) (*models.VideoCall, error) {
	call := &models.VideoCall{
		ID:          uuid.New().String(),
		InitiatorID: initiatorID,
		RecipientID: recipientID,
		Status:      models.CallInitiated,
		StartedAt:   time.Now().UTC(),
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO video_calls (id, initiator_id, recipient_id, status, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		call.ID, call.InitiatorID, call.RecipientID, call.Status, call.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create video call: %w", err)
	}

	return call, nil
}

// GetCall retrieves a call. Non-participants get ErrNotFound rather than
// ErrAccessDenied so the row's existence is not revealed.
func (db *DB) GetCall(ctx context.Context, callID, callerID string) (*models.VideoCall, error) {
	query := `SELECT id::TEXT, initiator_id::TEXT, recipient_id::TEXT, status, duration_sec, quality, started_at, ended_at
		FROM video_calls WHERE id = CAST(? AS UUID)`

	var call models.VideoCall
	var duration, quality sql.NullInt64
	var endedAt sql.NullTime

	err := db.conn.QueryRowContext(ctx, query, callID).Scan(
		&call.ID, &call.InitiatorID, &call.RecipientID, &call.Status,
		&duration, &quality, &call.StartedAt, &endedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video call: %w", err)
	}

	if !call.IsParticipant(callerID) {
		return nil, ErrNotFound
	}

	if duration.Valid {
		d := int(duration.Int64)
		call.DurationSec = &d
	}
	if quality.Valid {
		q := int(quality.Int64)
		call.Quality = &q
	}
	if endedAt.Valid {
		t := endedAt.Time
		call.EndedAt = &t
	}

	return &call, nil
}

// EndCall marks a call ended and stamps the end time. Ending an already
// ended call succeeds and re-stamps the end time.
func (db *DB) EndCall(ctx context.Context, callID, callerID string) (*models.VideoCall, error) {
	call, err := db.GetCall(ctx, callID, callerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = db.conn.ExecContext(ctx,
		`UPDATE video_calls SET status = ?, ended_at = ? WHERE id = CAST(? AS UUID)`,
		models.CallEnded, now, callID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to end video call: %w", err)
	}

	call.Status = models.CallEnded
	call.EndedAt = &now
	return call, nil
}

// RecordCallMetrics attaches duration and quality to a call. Independent
// of the ended transition: metrics may arrive before or after EndCall.
func (db *DB) RecordCallMetrics(ctx context.Context, callID, callerID string, durationSec, quality int) (*models.VideoCall, error) {
	call, err := db.GetCall(ctx, callID, callerID)
	if err != nil {
		return nil, err
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE video_calls SET duration_sec = ?, quality = ? WHERE id = CAST(? AS UUID)`,
		durationSec, quality, callID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record call metrics: %w", err)
	}

	call.DurationSec = &durationSec
	call.Quality = &quality
	return call, nil
}
