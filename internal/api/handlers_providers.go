// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/byootify/byootify/internal/database"
	"github.com/byootify/byootify/internal/models"
)

// CreateProvider registers a provider profile for the caller.
func (h *Handler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	var req models.CreateProviderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	provider := &models.Provider{
		UserID:       caller,
		BusinessName: req.BusinessName,
		Bio:          req.Bio,
		Specialties:  req.Specialties,
		City:         req.City,
		State:        req.State,
		BasePriceUSD: req.BasePriceUSD,
		HomeVisits:   req.HomeVisits,
	}

	start := time.Now()
	if err := h.db.CreateProvider(r.Context(), provider); err != nil {
		respondStorageError(w, err, "create provider")
		return
	}

	respondSuccess(w, http.StatusCreated, provider, time.Since(start))
}

// GetProvider returns a provider profile with review aggregates.
func (h *Handler) GetProvider(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	provider, err := h.db.GetProvider(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStorageError(w, err, "fetch provider")
		return
	}

	respondSuccess(w, http.StatusOK, provider, time.Since(start))
}

// ListProviders returns providers ranked by rating, narrowed by the
// optional city, max_price, min_rating, and home_visits query parameters.
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", h.cfg.API.DefaultPageSize)
	if limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.MaxPageSize
	}

	query := r.URL.Query()
	filter := database.ProviderFilter{
		City:        query.Get("city"),
		MaxPriceUSD: getFloatParam(r, "max_price"),
		MinRating:   getFloatParam(r, "min_rating"),
		HomeVisits:  query.Get("home_visits") == "true",
		Limit:       limit,
	}

	start := time.Now()
	providers, err := h.db.ListProviders(r.Context(), filter)
	if err != nil {
		respondStorageError(w, err, "list providers")
		return
	}

	if providers == nil {
		providers = []*models.Provider{}
	}
	respondSuccess(w, http.StatusOK, providers, time.Since(start))
}
