// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/byootify/byootify/internal/metrics"
	"github.com/byootify/byootify/internal/models"
	"github.com/byootify/byootify/internal/notify"
)

// InitiateCall creates a call session and notifies the recipient. Media
// negotiation happens out of band.
func (h *Handler) InitiateCall(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	var req models.InitiateCallRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	call, err := h.db.InitiateCall(r.Context(), caller, req.RecipientID)
	if err != nil {
		respondStorageError(w, err, "initiate call")
		return
	}
	metrics.VideoCallsInitiated.Inc()

	if h.hub != nil {
		h.hub.Publish(notify.Event{
			Type:   notify.EventCallInitiated,
			UserID: call.RecipientID,
			Data:   call,
		})
	}

	respondSuccess(w, http.StatusCreated, call, time.Since(start))
}

// GetCall fetches a call. Non-participants receive a 404.
func (h *Handler) GetCall(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	start := time.Now()
	call, err := h.db.GetCall(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		respondStorageError(w, err, "fetch call")
		return
	}

	respondSuccess(w, http.StatusOK, call, time.Since(start))
}

// EndCall marks a call ended and notifies the other participant. Ending
// twice succeeds and restamps the end time.
func (h *Handler) EndCall(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	start := time.Now()
	call, err := h.db.EndCall(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		respondStorageError(w, err, "end call")
		return
	}

	if h.hub != nil {
		other := call.RecipientID
		if caller == call.RecipientID {
			other = call.InitiatorID
		}
		h.hub.Publish(notify.Event{
			Type:   notify.EventCallEnded,
			UserID: other,
			Data:   call,
		})
	}

	respondSuccess(w, http.StatusOK, call, time.Since(start))
}

// RecordCallMetrics attaches post-call duration and quality, before or
// after the call ends.
func (h *Handler) RecordCallMetrics(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	var req models.RecordCallMetricsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	call, err := h.db.RecordCallMetrics(r.Context(), chi.URLParam(r, "id"), caller, req.DurationSec, req.Quality)
	if err != nil {
		respondStorageError(w, err, "record call metrics")
		return
	}

	respondSuccess(w, http.StatusOK, call, time.Since(start))
}
