// Byootify - Beauty Services Marketplace Platform
// Copyright 2026 Byootify Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/byootify/byootify

package models

import "time"

// Review is a client's rating of a provider. BookingID, when present,
// marks the review as verified (tied to a completed appointment).
type Review struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	AuthorID   string    `json:"author_id"`
	BookingID  string    `json:"booking_id,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateReviewRequest submits a review for a provider.
type CreateReviewRequest struct {
	ProviderID string `json:"providerId" validate:"required,uuid4"`
	BookingID  string `json:"bookingId" validate:"omitempty,uuid4"`
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string `json:"comment" validate:"max=5000"`
}

// ReviewHelpfulVote is a per-voter boolean signal on a review. At most one
// vote exists per (review, voter) pair; a repeat vote overwrites.
type ReviewHelpfulVote struct {
	ID        string    `json:"id"`
	ReviewID  string    `json:"review_id"`
	VoterID   string    `json:"voter_id"`
	IsHelpful bool      `json:"is_helpful"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteHelpfulRequest records or overwrites a helpfulness vote.
type VoteHelpfulRequest struct {
	IsHelpful bool `json:"isHelpful"`
}

// ReviewReport flags a review for moderation. Reports are append-only:
// the same reporter may file multiple reports against one review.
type ReviewReport struct {
	ID          string    `json:"id"`
	ReviewID    string    `json:"review_id"`
	ReporterID  string    `json:"reporter_id"`
	Reason      string    `json:"reason"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportReviewRequest files a moderation report against a review.
type ReportReviewRequest struct {
	Reason      string `json:"reason" validate:"required,oneof=spam inappropriate fake harassment other"`
	Description string `json:"description" validate:"max=2000"`
}

// ReviewStats summarizes all reviews for a provider. With no reviews the
// result is zero-valued, never an error.
//
// RecentTrend is the provider's average rating over the trailing 90 days
// minus the all-time average (positive means improving). Percentile is the
// provider's percentile rank by average rating among providers with at
// least one review. Both are computed from stored reviews.
type ReviewStats struct {
	ProviderID         string      `json:"provider_id"`
	TotalReviews       int         `json:"total_reviews"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
	VerifiedReviews    int         `json:"verified_reviews"`
	RecentTrend        float64     `json:"recent_trend"`
	Percentile         float64     `json:"percentile"`
}

// NewReviewStats returns the canonical zero-valued stats for a provider,
// with the distribution zero-filled for all five star values.
func NewReviewStats(providerID string) *ReviewStats {
	return &ReviewStats{
		ProviderID:         providerID,
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
}
