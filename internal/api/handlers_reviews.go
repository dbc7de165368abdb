// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/byootify/byootify/internal/models"
)

// CreateReview submits a review for a provider.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	var req models.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	review := &models.Review{
		ProviderID: req.ProviderID,
		AuthorID:   caller,
		BookingID:  req.BookingID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	start := time.Now()
	if err := h.db.CreateReview(r.Context(), review); err != nil {
		respondStorageError(w, err, "create review")
		return
	}

	respondSuccess(w, http.StatusCreated, review, time.Since(start))
}

// ListProviderReviews returns a provider's reviews, newest first.
func (h *Handler) ListProviderReviews(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reviews, err := h.db.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStorageError(w, err, "list reviews")
		return
	}

	if reviews == nil {
		reviews = []*models.Review{}
	}
	respondSuccess(w, http.StatusOK, reviews, time.Since(start))
}

// VoteReviewHelpful records an upserted helpfulness vote on a review.
func (h *Handler) VoteReviewHelpful(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	var req models.VoteHelpfulRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reviewID := chi.URLParam(r, "id")

	start := time.Now()
	if err := h.db.VoteReviewHelpful(r.Context(), reviewID, caller, req.IsHelpful); err != nil {
		respondStorageError(w, err, "vote on review")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"review_id":  reviewID,
		"is_helpful": req.IsHelpful,
	}, time.Since(start))
}

// ReportReview files a moderation report against a review.
func (h *Handler) ReportReview(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	var req models.ReportReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	report := &models.ReviewReport{
		ReviewID:    chi.URLParam(r, "id"),
		ReporterID:  caller,
		Reason:      req.Reason,
		Description: req.Description,
	}

	start := time.Now()
	if err := h.db.ReportReview(r.Context(), report); err != nil {
		respondStorageError(w, err, "report review")
		return
	}

	respondSuccess(w, http.StatusCreated, report, time.Since(start))
}

// ProviderReviewStats aggregates review statistics for a provider.
func (h *Handler) ProviderReviewStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats, err := h.db.GetProviderReviewStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStorageError(w, err, "compute review stats")
		return
	}

	respondSuccess(w, http.StatusOK, stats, time.Since(start))
}
