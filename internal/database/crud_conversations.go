// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/byootify/byootify/internal/metrics"
	"github.com/byootify/byootify/internal/models"
)

// pairKey returns the canonical key for an unordered participant pair.
// Both orderings of the same two IDs produce the same key, which the
// conversations.pair_key UNIQUE constraint uses to prevent duplicate
// threads under concurrent first contact.
func pairKey(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}

// ResolveConversation returns the conversation between the two users,
// creating it if none exists. Idempotent: at most one conversation ever
// exists per unordered pair. When two first-contact requests race, the
// loser of the insert re-reads the winner's row.
func (db *DB) ResolveConversation(ctx context.Context, callerID, recipientID string) (_ *models.Conversation, err error) {
	start := time.Now()
	defer func() { track("resolve_conversation", start, err) }()

	if callerID == recipientID {
		return nil, fmt.Errorf("cannot start a conversation with yourself: %w", ErrAccessDenied)
	}

	key := pairKey(callerID, recipientID)

	if c, err := db.getConversationByPairKey(ctx, key); err == nil {
		return c, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	c := &models.Conversation{
		ID:             uuid.New().String(),
		ParticipantOne: callerID,
		ParticipantTwo: recipientID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO conversations (id, participant_one, participant_two, pair_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.ParticipantOne, c.ParticipantTwo, key, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			// Lost the race; the other side's insert won.
			return db.getConversationByPairKey(ctx, key)
		}
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	metrics.ConversationsCreated.Inc()
	return c, nil
}

// GetConversation retrieves a conversation by ID.
//
// The DuckDB driver binds parameters as VARCHAR and returns UUID columns
// as raw bytes, so throughout this package selects cast UUID columns to
// TEXT and comparisons cast the parameter to UUID.
func (db *DB) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	query := `SELECT id::TEXT, participant_one::TEXT, participant_two::TEXT,
			COALESCE(last_message_id::TEXT, ''), created_at, updated_at
		FROM conversations WHERE id = CAST(? AS UUID)`
	return scanConversation(db.conn.QueryRowContext(ctx, query, id))
}

func (db *DB) getConversationByPairKey(ctx context.Context, key string) (*models.Conversation, error) {
	query := `SELECT id::TEXT, participant_one::TEXT, participant_two::TEXT,
			COALESCE(last_message_id::TEXT, ''), created_at, updated_at
		FROM conversations WHERE pair_key = ?`
	return scanConversation(db.conn.QueryRowContext(ctx, query, key))
}

func scanConversation(row *sql.Row) (*models.Conversation, error) {
	var c models.Conversation
	err := row.Scan(&c.ID, &c.ParticipantOne, &c.ParticipantTwo, &c.LastMessageID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}
	return &c, nil
}

// ListConversations returns all conversations where callerID is a
// participant, most recently updated first. Each summary carries the other
// participant's display details, the last message preview, and the count
// of messages not sent by the caller and not yet marked read.
func (db *DB) ListConversations(ctx context.Context, callerID string) (_ []*models.ConversationSummary, err error) {
	start := time.Now()
	defer func() { track("list_conversations", start, err) }()

	query := `SELECT
		c.id::TEXT,
		(CASE WHEN c.participant_one = CAST(? AS UUID) THEN c.participant_two ELSE c.participant_one END)::TEXT AS other_id,
		COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.avatar_url, ''),
		m.content, m.sender_id::TEXT, m.created_at,
		(SELECT COUNT(*) FROM messages um
			WHERE um.conversation_id = c.id AND um.sender_id != CAST(? AS UUID) AND NOT um.read) AS unread_count,
		c.updated_at
	FROM conversations c
	LEFT JOIN users u ON u.id = CASE WHEN c.participant_one = CAST(? AS UUID) THEN c.participant_two ELSE c.participant_one END
	LEFT JOIN messages m ON m.id = c.last_message_id
	WHERE c.participant_one = CAST(? AS UUID) OR c.participant_two = CAST(? AS UUID)
	ORDER BY c.updated_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, callerID, callerID, callerID, callerID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer closeQuietly(rows)

	var summaries []*models.ConversationSummary
	for rows.Next() {
		var s models.ConversationSummary
		var firstName, lastName string
		var lastContent, lastSender sql.NullString
		var lastAt sql.NullTime

		err := rows.Scan(&s.ID, &s.OtherParticipantID, &firstName, &lastName, &s.OtherParticipantAvatar,
			&lastContent, &lastSender, &lastAt, &s.UnreadCount, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation summary: %w", err)
		}

		s.OtherParticipantName = firstName
		if lastName != "" {
			s.OtherParticipantName = firstName + " " + lastName
		}
		if lastContent.Valid {
			s.LastMessage = &models.MessagePreview{
				Content:   lastContent.String,
				SenderID:  lastSender.String,
				CreatedAt: lastAt.Time,
			}
		}

		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}

	return summaries, nil
}
