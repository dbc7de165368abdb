// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/byootify/byootify/internal/logging"
	"github.com/byootify/byootify/internal/models"
	"github.com/byootify/byootify/internal/notify"
)

// CreateBooking schedules an appointment. The caller becomes the
// client; the booking starts in pending.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	var req models.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	if _, err := h.db.GetProvider(r.Context(), req.ProviderID); err != nil {
		respondStorageError(w, err, "fetch provider")
		return
	}

	booking := &models.Booking{
		ClientID:    caller,
		ProviderID:  req.ProviderID,
		ServiceName: req.ServiceName,
		StartsAt:    req.StartsAt,
		DurationMin: req.DurationMin,
		PriceUSD:    req.PriceUSD,
	}
	if err := h.db.CreateBooking(r.Context(), booking); err != nil {
		respondStorageError(w, err, "create booking")
		return
	}

	h.notifyBookingParty(r, booking, caller)
	respondSuccess(w, http.StatusCreated, booking, time.Since(start))
}

// GetBooking returns a booking visible only to its client and provider.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	start := time.Now()
	booking, err := h.db.GetBooking(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		respondStorageError(w, err, "fetch booking")
		return
	}

	respondSuccess(w, http.StatusOK, booking, time.Since(start))
}

// ListBookings returns the caller's bookings on either side of the
// marketplace, newest appointment first.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	start := time.Now()
	bookings, err := h.db.ListBookings(r.Context(), caller)
	if err != nil {
		respondStorageError(w, err, "list bookings")
		return
	}

	if bookings == nil {
		bookings = []*models.Booking{}
	}
	respondSuccess(w, http.StatusOK, bookings, time.Since(start))
}

// UpdateBookingStatus moves a booking through its lifecycle. Confirming
// a booking authorizes a charge when billing is configured; failure to
// authorize blocks the confirmation.
func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	var req models.UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	bookingID := chi.URLParam(r, "id")

	if req.Status == models.BookingConfirmed && h.billing != nil {
		current, err := h.db.GetBooking(r.Context(), bookingID, caller)
		if err != nil {
			respondStorageError(w, err, "fetch booking")
			return
		}
		charge, err := h.billing.Authorize(r.Context(), current.ID, current.PriceUSD)
		if err != nil {
			respondError(w, http.StatusBadGateway, "BILLING_UNAVAILABLE", "Payment authorization failed", err)
			return
		}
		logging.Info().
			Str("booking_id", current.ID).
			Str("charge_id", charge.ID).
			Msg("Payment authorized for booking")
	}

	booking, err := h.db.UpdateBookingStatus(r.Context(), bookingID, caller, req.Status)
	if err != nil {
		respondStorageError(w, err, "update booking status")
		return
	}

	h.notifyBookingParty(r, booking, caller)
	respondSuccess(w, http.StatusOK, booking, time.Since(start))
}

// notifyBookingParty pushes a booking update to whichever party did not
// perform the action.
func (h *Handler) notifyBookingParty(r *http.Request, booking *models.Booking, caller string) {
	if h.hub == nil {
		return
	}

	provider, err := h.db.GetProvider(r.Context(), booking.ProviderID)
	if err != nil {
		logging.Warn().Err(err).Str("booking_id", booking.ID).Msg("Failed to resolve booking provider for notification")
		return
	}

	target := booking.ClientID
	if caller == booking.ClientID {
		target = provider.UserID
	}

	h.hub.Publish(notify.Event{
		Type:   notify.EventBookingUpdate,
		UserID: target,
		Data:   booking,
	})
}
