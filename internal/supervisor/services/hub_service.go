// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package services

import (
	"context"
)

// ContextHub matches the notification hub's RunWithContext method
// without importing the notify package.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// NotificationHubService wraps the hub as a supervised service. The hub
// already implements the suture.Service pattern; this wrapper only adds
// a name for logging.
type NotificationHubService struct {
	hub  ContextHub
	name string
}

// NewNotificationHubService creates the hub service wrapper.
func NewNotificationHubService(hub ContextHub) *NotificationHubService {
	return &NotificationHubService{
		hub:  hub,
		name: "notification-hub",
	}
}

// Serve implements suture.Service.
func (s *NotificationHubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String identifies the service in supervisor logs.
func (s *NotificationHubService) String() string {
	return s.name
}
