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

	"github.com/byootify/byootify/internal/models"
)

// SendMessage appends a message to a conversation. Exactly one of
// conversationID or recipientID must be non-empty: given only a recipient,
// the conversation is resolved or created first. The message insert and
// the conversation's last-message pointer update commit in a single
// transaction, so a thread can never point at a message that was not
// persisted.
func (db *DB) SendMessage(ctx context.Context, conversationID, senderID, recipientID, content string) (_ *models.Message, err error) {
	start := time.Now()
	defer func() { track("send_message", start, err) }()

	var conv *models.Conversation

	switch {
	case conversationID != "":
		conv, err = db.GetConversation(ctx, conversationID)
	case recipientID != "":
		conv, err = db.ResolveConversation(ctx, senderID, recipientID)
	default:
		return nil, fmt.Errorf("either conversationID or recipientID is required: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !conv.IsParticipant(senderID) {
		return nil, ErrAccessDenied
	}

	msg := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		Kind:           models.MessageKindText,
		CreatedAt:      time.Now().UTC(),
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, content, kind, read, created_at)
		VALUES (?, ?, ?, ?, ?, false, ?)`,
		msg.ID, msg.ConversationID, msg.SenderID, msg.Content, msg.Kind, msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE conversations SET last_message_id = CAST(? AS UUID), updated_at = ? WHERE id = CAST(? AS UUID)`,
		msg.ID, msg.CreatedAt, msg.ConversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update conversation pointer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}

	return msg, nil
}

// MarkMessageRead sets the read flag on a message. The caller must be a
// participant of the owning conversation and not the message's sender;
// marking your own message read is a silent no-op.
func (db *DB) MarkMessageRead(ctx context.Context, messageID, callerID string) error {
	var senderID, conversationID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT sender_id::TEXT, conversation_id::TEXT FROM messages WHERE id = CAST(? AS UUID)`, messageID,
	).Scan(&senderID, &conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up message: %w", err)
	}

	conv, err := db.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.IsParticipant(callerID) {
		return ErrAccessDenied
	}

	if senderID == callerID {
		return nil
	}

	_, err = db.conn.ExecContext(ctx, `UPDATE messages SET read = true WHERE id = CAST(? AS UUID)`, messageID)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}

	return nil
}

// ListMessages returns the full message history of a conversation, oldest
// first. The caller must be a participant.
func (db *DB) ListMessages(ctx context.Context, conversationID, callerID string) ([]*models.Message, error) {
	conv, err := db.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.IsParticipant(callerID) {
		return nil, ErrAccessDenied
	}

	query := `SELECT id::TEXT, conversation_id::TEXT, sender_id::TEXT, content, kind, read, created_at
		FROM messages WHERE conversation_id = CAST(? AS UUID) ORDER BY created_at ASC`

	rows, err := db.conn.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer closeQuietly(rows)

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Kind, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}
