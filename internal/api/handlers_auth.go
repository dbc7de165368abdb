// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package api

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/byootify/byootify/internal/database"
	"github.com/byootify/byootify/internal/logging"
	"github.com/byootify/byootify/internal/models"
)

// Login authenticates a user by email and password and returns a signed
// JWT, also set as an HTTP-only cookie. Unknown email and wrong password
// produce the same response so accounts cannot be enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Burn a hash comparison anyway to keep timing consistent.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZv1lO0EJhdYmVRW1wGJvKXYnRC0V."), []byte(req.Password))
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
			return
		}
		respondStorageError(w, err, "authenticate")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logging.Warn().Str("email", sanitizeLogValue(req.Email)).Msg("Failed login attempt")
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
		return
	}

	token, expiresAt, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
		SameSite: http.SameSiteStrictMode,
	})

	respondSuccess(w, http.StatusOK, &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		Role:      user.Role,
	}, 0)
}

// Health reports service liveness and database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK

	if err := h.db.Ping(r.Context()); err != nil {
		logging.Error().Err(err).Msg("Health check database ping failed")
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	respondSuccess(w, httpStatus, map[string]interface{}{
		"status":         status,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	}, 0)
}

// HealthLive reports process liveness only, for orchestrator probes.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"}, 0)
}

// HealthReady reports readiness to serve traffic, gated on the database.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		logging.Error().Err(err).Msg("Readiness check database ping failed")
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Database is not reachable", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"}, 0)
}
