// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/byootify/byootify/internal/auth"
	"github.com/byootify/byootify/internal/config"
	"github.com/byootify/byootify/internal/middleware"
)

// Router wires handlers and middleware into an http.Handler.
type Router struct {
	handler *Handler
	authMw  *auth.Middleware
	cfg     *config.Config
}

// NewRouter creates a router around the given handler and auth middleware.
func NewRouter(handler *Handler, authMw *auth.Middleware, cfg *config.Config) *Router {
	return &Router{
		handler: handler,
		authMw:  authMw,
		cfg:     cfg,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order to all routes.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Unauthenticated endpoints. The provider directory and review stats
	// are public so prospective clients can browse before signing up.
	r.Get("/api/health", router.handler.Health)
	r.Get("/api/health/live", router.handler.HealthLive)
	r.Get("/api/health/ready", router.handler.HealthReady)
	r.Handle("/metrics", promhttp.Handler())
	r.With(router.authMw.LoginRateLimit).Post("/api/auth/login", router.handler.Login)
	r.Get("/api/providers", router.handler.ListProviders)
	r.Get("/api/providers/{id}", router.handler.GetProvider)
	r.Get("/api/providers/{id}/reviews", router.handler.ListProviderReviews)
	r.Get("/api/providers/{id}/review-stats", router.handler.ProviderReviewStats)

	// Everything else requires authentication.
	r.Route("/api", func(r chi.Router) {
		if !router.cfg.Security.RateLimitDisabled {
			r.Use(httprate.LimitByIP(
				router.cfg.Security.RateLimitReqs,
				router.cfg.Security.RateLimitWindow,
			))
		}
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.authMw.Authenticate)

		// Messaging
		r.Get("/conversations", router.handler.ListConversations)
		r.Get("/conversations/{id}/messages", router.handler.ListMessages)
		r.Post("/messages", router.handler.SendMessage)
		r.Put("/messages/{id}/read", router.handler.MarkMessageRead)

		// Video calls
		r.Post("/video-calls/initiate", router.handler.InitiateCall)
		r.Get("/video-calls/{id}", router.handler.GetCall)
		r.Post("/video-calls/{id}/end", router.handler.EndCall)
		r.Post("/video-calls/{id}/record", router.handler.RecordCallMetrics)

		// Providers and reviews
		r.Post("/providers", router.handler.CreateProvider)
		r.Post("/reviews", router.handler.CreateReview)
		r.Post("/reviews/{id}/helpful", router.handler.VoteReviewHelpful)
		r.Post("/reviews/{id}/report", router.handler.ReportReview)

		// Bookings
		r.Post("/bookings", router.handler.CreateBooking)
		r.Get("/bookings", router.handler.ListBookings)
		r.Get("/bookings/{id}", router.handler.GetBooking)
		r.Put("/bookings/{id}/status", router.handler.UpdateBookingStatus)

		// Notification preferences
		r.Get("/notification-preferences", router.handler.GetNotificationPreferences)
		r.Put("/notification-preferences", router.handler.UpdateNotificationPreferences)

		// Real-time delivery
		r.Get("/ws", router.handler.WebSocket)
	})

	return r
}
