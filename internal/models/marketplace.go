// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package models

import "time"

// User roles.
const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User is an account on the platform. Providers additionally have a
// Provider profile keyed by the same ID.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName returns the name shown in conversation lists and reviews.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Provider is the public service profile for a user with the provider role.
type Provider struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	BusinessName string    `json:"business_name"`
	Bio          string    `json:"bio,omitempty"`
	Specialties  []string  `json:"specialties,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	BasePriceUSD float64   `json:"base_price_usd"`
	HomeVisits   bool      `json:"home_visits"`
	CreatedAt    time.Time `json:"created_at"`

	// Aggregates computed from reviews, not stored on the row.
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// CreateProviderRequest registers a provider profile for the caller.
type CreateProviderRequest struct {
	BusinessName string   `json:"business_name" validate:"required,min=2,max=120"`
	Bio          string   `json:"bio" validate:"max=2000"`
	Specialties  []string `json:"specialties" validate:"max=10,dive,min=2,max=60"`
	City         string   `json:"city" validate:"max=80"`
	State        string   `json:"state" validate:"max=40"`
	BasePriceUSD float64  `json:"base_price_usd" validate:"gte=0,lte=10000"`
	HomeVisits   bool     `json:"home_visits"`
}

// Booking statuses. Transitions: pending -> confirmed -> completed,
// with cancelled reachable from pending or confirmed.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Booking is a scheduled appointment between a client and a provider.
type Booking struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	ProviderID  string    `json:"provider_id"`
	ServiceName string    `json:"service_name"`
	StartsAt    time.Time `json:"starts_at"`
	DurationMin int       `json:"duration_min"`
	PriceUSD    float64   `json:"price_usd"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateBookingRequest schedules an appointment with a provider.
type CreateBookingRequest struct {
	ProviderID  string    `json:"provider_id" validate:"required,uuid4"`
	ServiceName string    `json:"service_name" validate:"required,min=2,max=120"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	DurationMin int       `json:"duration_min" validate:"gte=15,lte=480"`
	PriceUSD    float64   `json:"price_usd" validate:"gte=0,lte=10000"`
}

// UpdateBookingStatusRequest moves a booking through its lifecycle.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}
