// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package api

import (
	"net/http"
	"time"

	"github.com/byootify/byootify/internal/models"
)

// GetNotificationPreferences returns the caller's notification toggles.
// Users without a saved row get the defaults.
func (h *Handler) GetNotificationPreferences(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	start := time.Now()
	prefs, err := h.db.GetNotificationPreferences(r.Context(), caller)
	if err != nil {
		respondStorageError(w, err, "fetch notification preferences")
		return
	}

	respondSuccess(w, http.StatusOK, prefs, time.Since(start))
}

// UpdateNotificationPreferences replaces the caller's toggles.
func (h *Handler) UpdateNotificationPreferences(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	var req models.UpdateNotificationPreferencesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	prefs := &models.NotificationPreferences{
		UserID:     caller,
		MessagesOn: req.MessagesOn,
		CallsOn:    req.CallsOn,
		BookingsOn: req.BookingsOn,
	}

	start := time.Now()
	if err := h.db.SaveNotificationPreferences(r.Context(), prefs); err != nil {
		respondStorageError(w, err, "save notification preferences")
		return
	}

	respondSuccess(w, http.StatusOK, prefs, time.Since(start))
}
