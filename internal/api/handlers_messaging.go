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

// ListConversations returns the caller's conversations, most recently
// updated first, annotated with the other participant, last message
// preview, and unread count.
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	start := time.Now()
	summaries, err := h.db.ListConversations(r.Context(), caller)
	if err != nil {
		respondStorageError(w, err, "list conversations")
		return
	}

	if summaries == nil {
		summaries = []*models.ConversationSummary{}
	}
	respondSuccess(w, http.StatusOK, summaries, time.Since(start))
}

// ListMessages returns a conversation's full history, oldest first. Only
// participants may read it.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	conversationID := chi.URLParam(r, "id")

	start := time.Now()
	messages, err := h.db.ListMessages(r.Context(), conversationID, caller)
	if err != nil {
		respondStorageError(w, err, "list messages")
		return
	}

	if messages == nil {
		messages = []*models.Message{}
	}
	respondSuccess(w, http.StatusOK, messages, time.Since(start))
}

// SendMessage appends a message, resolving or creating the conversation
// when only a recipient is given, and notifies the other participant.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	var req models.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if req.ConversationID == "" && req.RecipientID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Either conversationId or recipientId is required", nil)
		return
	}

	start := time.Now()
	msg, err := h.db.SendMessage(r.Context(), req.ConversationID, caller, req.RecipientID, req.Content)
	if err != nil {
		respondStorageError(w, err, "send message")
		return
	}
	metrics.MessagesSent.Inc()

	h.notifyOtherParticipant(r, msg, caller)

	respondSuccess(w, http.StatusCreated, msg, time.Since(start))
}

// notifyOtherParticipant pushes a message.new event to the recipient.
func (h *Handler) notifyOtherParticipant(r *http.Request, msg *models.Message, caller string) {
	if h.hub == nil {
		return
	}

	conv, err := h.db.GetConversation(r.Context(), msg.ConversationID)
	if err != nil {
		return
	}
	recipient := conv.OtherParticipant(caller)
	if recipient == "" {
		return
	}

	h.hub.Publish(notify.Event{
		Type:   notify.EventMessageNew,
		UserID: recipient,
		Data:   msg,
	})
}

// MarkMessageRead flags a message as read on behalf of the caller.
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	caller := callerID(w, r)
	if caller == "" {
		return
	}

	messageID := chi.URLParam(r, "id")

	start := time.Now()
	if err := h.db.MarkMessageRead(r.Context(), messageID, caller); err != nil {
		respondStorageError(w, err, "mark message read")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"id": messageID, "status": "read"}, time.Since(start))
}
