// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package models

import "time"

// Conversation is a two-party message thread. The unordered participant
// pair is unique: the storage layer enforces a canonical pair key so that
// concurrent first-contact requests cannot create duplicate threads.
type Conversation struct {
	ID             string    `json:"id"`
	ParticipantOne string    `json:"participant_one"`
	ParticipantTwo string    `json:"participant_two"`
	LastMessageID  string    `json:"last_message_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OtherParticipant returns the participant that is not callerID, or the
// empty string if callerID is not a participant at all.
func (c *Conversation) OtherParticipant(callerID string) string {
	switch callerID {
	case c.ParticipantOne:
		return c.ParticipantTwo
	case c.ParticipantTwo:
		return c.ParticipantOne
	default:
		return ""
	}
}

// IsParticipant reports whether userID is one of the two parties.
func (c *Conversation) IsParticipant(userID string) bool {
	return userID == c.ParticipantOne || userID == c.ParticipantTwo
}

// Message kinds.
const (
	MessageKindText = "text"
)

// Message is a single entry in a conversation's ledger.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	Kind           string    `json:"kind"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessagePreview is the last-message annotation on a conversation summary.
type MessagePreview struct {
	Content   string    `json:"content"`
	SenderID  string    `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationSummary is a conversation annotated for the caller: the other
// participant's display details, the last message preview, and the count of
// messages not sent by the caller and not yet marked read.
type ConversationSummary struct {
	ID                     string          `json:"id"`
	OtherParticipantID     string          `json:"other_participant_id"`
	OtherParticipantName   string          `json:"other_participant_name"`
	OtherParticipantAvatar string          `json:"other_participant_avatar,omitempty"`
	LastMessage            *MessagePreview `json:"last_message,omitempty"`
	UnreadCount            int             `json:"unread_count"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// SendMessageRequest creates a message. Exactly one of ConversationID or
// RecipientID must be set: with only a recipient, the thread is resolved
// or created first.
type SendMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"omitempty,uuid4"`
	RecipientID    string `json:"recipientId" validate:"omitempty,uuid4"`
	Content        string `json:"content" validate:"required,min=1,max=5000"`
}

// Video call statuses.
const (
	CallInitiated = "initiated"
	CallEnded     = "ended"
)

// VideoCall tracks a call session's lifecycle and post-call metrics.
// Duration and Quality are attached independently of the ended transition.
type VideoCall struct {
	ID          string     `json:"id"`
	InitiatorID string     `json:"initiator_id"`
	RecipientID string     `json:"recipient_id"`
	Status      string     `json:"status"`
	DurationSec *int       `json:"duration_sec,omitempty"`
	Quality     *int       `json:"quality,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// IsParticipant reports whether userID initiated or received the call.
func (v *VideoCall) IsParticipant(userID string) bool {
	return userID == v.InitiatorID || userID == v.RecipientID
}

// InitiateCallRequest starts a call with another user.
type InitiateCallRequest struct {
	RecipientID string `json:"recipientId" validate:"required,uuid4"`
}

// RecordCallMetricsRequest attaches post-call metrics to a call.
type RecordCallMetricsRequest struct {
	DurationSec int `json:"duration" validate:"gte=0,lte=86400"`
	Quality     int `json:"quality" validate:"gte=1,lte=5"`
}
