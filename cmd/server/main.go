// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

// Package main is the entry point for the Byootify server.
//
// Byootify is a beauty-services marketplace backend: clients find
// providers, book appointments, message them in two-party threads, hold
// video calls, and leave reviews. The server initializes components in
// order:
//
//  1. Configuration: Koanf v2 layered defaults, YAML file, environment
//  2. Database: DuckDB storage for users, bookings, messaging, reviews
//  3. Notification hub: per-user WebSocket event delivery
//  4. Authentication: JWT (default) or none for local development
//  5. Billing client: circuit-broken payment provider client (optional)
//  6. HTTP server: REST API plus /metrics and the WebSocket endpoint
//
// The notification hub and HTTP server run under a suture supervision
// tree; SIGINT and SIGTERM trigger a bounded graceful shutdown.
//
// Example local run:
//
//	export AUTH_MODE=none
//	export DATABASE_PATH=:memory:
//	./byootify-server
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/byootify/byootify/internal/api"
	"github.com/byootify/byootify/internal/auth"
	"github.com/byootify/byootify/internal/billing"
	"github.com/byootify/byootify/internal/config"
	"github.com/byootify/byootify/internal/database"
	"github.com/byootify/byootify/internal/logging"
	"github.com/byootify/byootify/internal/notify"
	"github.com/byootify/byootify/internal/supervisor"
	"github.com/byootify/byootify/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("billing_enabled", cfg.Billing.Enabled).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The database gates hub deliveries through each user's saved
	// notification preferences.
	hub := notify.NewHub(db)

	var jwtManager *auth.JWTManager
	switch cfg.Security.AuthMode {
	case "jwt":
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	case "none":
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  All endpoints are publicly accessible without authentication!")
		logging.Warn().Msg("  NEVER use AUTH_MODE=none in production or on public networks!")
		logging.Warn().Msg("============================================================")
	}

	authMw := auth.NewMiddleware(
		jwtManager,
		cfg.Security.AuthMode,
		cfg.Security.LoginRateLimit,
		cfg.Security.LoginRateWindow,
	)

	var billingProvider billing.Provider
	if cfg.Billing.Enabled {
		billingProvider = billing.NewHTTPClient(&cfg.Billing)
		logging.Info().Str("base_url", cfg.Billing.BaseURL).Msg("Billing client enabled")
	} else {
		logging.Info().Msg("Billing disabled - bookings confirm without payment authorization")
	}

	handler := api.NewHandler(db, cfg, jwtManager, hub, billingProvider)
	router := api.NewRouter(handler, authMw, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddMessagingService(services.NewNotificationHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, treeCfg.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting server")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
