// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

// Package api implements the HTTP surface: authentication, providers,
// bookings, the messaging subsystem (conversations, messages, video
// calls), review signals, notification preferences, and the WebSocket
// endpoint for real-time delivery.
package api

import (
	"time"

	"github.com/byootify/byootify/internal/auth"
	"github.com/byootify/byootify/internal/billing"
	"github.com/byootify/byootify/internal/config"
	"github.com/byootify/byootify/internal/database"
	"github.com/byootify/byootify/internal/notify"
)

// Handler processes HTTP requests. All handlers resolve the caller
// identity from the JWT claims the auth middleware places in context.
type Handler struct {
	db         *database.DB
	cfg        *config.Config
	jwtManager *auth.JWTManager
	hub        *notify.Hub
	billing    billing.Provider
	startTime  time.Time
}

// NewHandler creates the API handler. hub and billingProvider may be nil:
// without a hub no real-time events are pushed, and without billing the
// booking flow skips payment authorization.
func NewHandler(db *database.DB, cfg *config.Config, jwtManager *auth.JWTManager, hub *notify.Hub, billingProvider billing.Provider) *Handler {
	return &Handler{
		db:         db,
		cfg:        cfg,
		jwtManager: jwtManager,
		hub:        hub,
		billing:    billingProvider,
		startTime:  time.Now(),
	}
}
