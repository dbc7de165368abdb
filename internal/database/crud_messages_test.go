// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package database

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSendMessageResolvesConversation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com", "One")
	u2 := seedUser(t, db, "u2@example.com", "Two")

	msg, err := db.SendMessage(ctx, "", u1.ID, u2.ID, "Hi")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.ConversationID == "" {
		t.Fatal("expected a resolved conversation ID")
	}
	if msg.Kind != "text" {
		t.Errorf("kind = %q, want %q", msg.Kind, "text")
	}
	if msg.Read {
		t.Error("new message must start unread")
	}

	// Follow-up by conversation ID lands in the same thread.
	reply, err := db.SendMessage(ctx, msg.ConversationID, u2.ID, "", "Hello back")
	if err != nil {
		t.Fatalf("reply failed: %v", err)
	}
	if reply.ConversationID != msg.ConversationID {
		t.Errorf("reply conversation = %s, want %s", reply.ConversationID, msg.ConversationID)
	}

	conv, err := db.GetConversation(ctx, msg.ConversationID)
	if err != nil {
		t.Fatalf("get conversation failed: %v", err)
	}
	if conv.LastMessageID != reply.ID {
		t.Errorf("last message pointer = %s, want %s", conv.LastMessageID, reply.ID)
	}
}

func TestSendMessageRequiresTarget(t *testing.T) {
	db := setupTestDB(t)

	u := seedUser(t, db, "u1@example.com", "One")

	if _, err := db.SendMessage(context.Background(), "", u.ID, "", "void"); err == nil {
		t.Fatal("expected send with no conversation or recipient to fail")
	}
}

func TestSendMessageNonParticipant(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com", "One")
	u2 := seedUser(t, db, "u2@example.com", "Two")
	outsider := seedUser(t, db, "u3@example.com", "Three")

	msg, err := db.SendMessage(ctx, "", u1.ID, u2.ID, "private")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if _, err := db.SendMessage(ctx, msg.ConversationID, outsider.ID, "", "intrusion"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied for outsider send, got %v", err)
	}
}

func TestMarkMessageRead(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com", "One")
	u2 := seedUser(t, db, "u2@example.com", "Two")
	outsider := seedUser(t, db, "u3@example.com", "Three")

	msg, err := db.SendMessage(ctx, "", u1.ID, u2.ID, "Hi")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// An outsider cannot mark messages in a thread they are not part of.
	if err := db.MarkMessageRead(ctx, msg.ID, outsider.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied for outsider, got %v", err)
	}

	// The sender marking their own message is a no-op.
	if err := db.MarkMessageRead(ctx, msg.ID, u1.ID); err != nil {
		t.Fatalf("sender mark read failed: %v", err)
	}
	msgs, err := db.ListMessages(ctx, msg.ConversationID, u1.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if msgs[0].Read {
		t.Error("sender mark read must not set the flag")
	}

	// The recipient can.
	if err := db.MarkMessageRead(ctx, msg.ID, u2.ID); err != nil {
		t.Fatalf("recipient mark read failed: %v", err)
	}
	msgs, err = db.ListMessages(ctx, msg.ConversationID, u2.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !msgs[0].Read {
		t.Error("expected message marked read")
	}

	if err := db.MarkMessageRead(ctx, "00000000-0000-4000-8000-000000000000", u2.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing message, got %v", err)
	}
}

func TestListMessagesOrderingAndAccess(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com", "One")
	u2 := seedUser(t, db, "u2@example.com", "Two")
	outsider := seedUser(t, db, "u3@example.com", "Three")

	first, err := db.SendMessage(ctx, "", u1.ID, u2.ID, "first")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := db.SendMessage(ctx, first.ConversationID, u2.ID, "", "second"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	msgs, err := db.ListMessages(ctx, first.ConversationID, u1.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Errorf("expected ascending order, got %q then %q", msgs[0].Content, msgs[1].Content)
	}

	if _, err := db.ListMessages(ctx, first.ConversationID, outsider.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied for outsider list, got %v", err)
	}
}

// Full first-contact flow: send, list with unread, mark read, list again.
func TestMessagingEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u1 := seedUser(t, db, "u1@example.com", "One")
	u2 := seedUser(t, db, "u2@example.com", "Two")

	msg, err := db.SendMessage(ctx, "", u1.ID, u2.ID, "Hi")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	summaries, err := db.ListConversations(ctx, u2.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].UnreadCount != 1 {
		t.Fatalf("expected one conversation with unread=1, got %+v", summaries)
	}
	if summaries[0].LastMessage == nil || summaries[0].LastMessage.Content != "Hi" {
		t.Fatalf("expected last message preview %q", "Hi")
	}

	if err := db.MarkMessageRead(ctx, msg.ID, u2.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	summaries, err = db.ListConversations(ctx, u2.ID)
	if err != nil {
		t.Fatalf("list after read failed: %v", err)
	}
	if summaries[0].UnreadCount != 0 {
		t.Errorf("unread after read = %d, want 0", summaries[0].UnreadCount)
	}
}
