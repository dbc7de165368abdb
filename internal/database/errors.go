// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package database

import (
	"database/sql"
	"errors"
	"io"
	"strings"

	"github.com/byootify/byootify/internal/logging"
)

// Sentinel errors returned by the storage layer. Handlers map these to
// HTTP status codes; everything else is a 500.
var (
	// ErrNotFound is returned when the requested row does not exist, or
	// when the caller is not entitled to see it (video calls deliberately
	// hide rows from non-participants rather than admitting they exist).
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied is returned when the caller is not a participant of
	// the conversation or resource they are operating on.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition is returned for booking status changes that do
	// not follow pending -> confirmed -> completed (cancel allowed from
	// pending or confirmed).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint, such as a second review for the same booking.
	ErrDuplicate = errors.New("already exists")
)

// isUniqueConstraintError reports whether err is a DuckDB unique or
// primary key constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "PRIMARY KEY or UNIQUE constraint violated")
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// rollbackQuietly rolls back a transaction. ErrTxDone after a successful
// commit is expected and ignored.
func rollbackQuietly(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Debug().Err(err).Msg("Transaction rollback failed")
	}
}
