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

// CreateReview inserts a review for a provider.
func (db *DB) CreateReview(ctx context.Context, r *models.Review) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	var bookingID interface{}
	if r.BookingID != "" {
		bookingID = r.BookingID
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO reviews (id, provider_id, author_id, booking_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ProviderID, r.AuthorID, bookingID, r.Rating, r.Comment, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// ListReviews returns a provider's reviews, newest first.
func (db *DB) ListReviews(ctx context.Context, providerID string) ([]*models.Review, error) {
	query := `SELECT id::TEXT, provider_id::TEXT, author_id::TEXT, COALESCE(booking_id::TEXT, ''), rating, comment, created_at
		FROM reviews WHERE provider_id = CAST(? AS UUID) ORDER BY created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer closeQuietly(rows)

	var reviews []*models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ProviderID, &r.AuthorID, &r.BookingID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	return reviews, nil
}

// VoteReviewHelpful records a helpfulness vote with upsert semantics: a
// repeat vote by the same voter overwrites the previous flag rather than
// accumulating. Counts are always computed live, never denormalized.
func (db *DB) VoteReviewHelpful(ctx context.Context, reviewID, voterID string, isHelpful bool) error {
	if err := db.reviewExists(ctx, reviewID); err != nil {
		return err
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE review_helpful SET is_helpful = ? WHERE review_id = CAST(? AS UUID) AND voter_id = CAST(? AS UUID)`,
		isHelpful, reviewID, voterID,
	)
	if err != nil {
		return fmt.Errorf("failed to update helpful vote: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO review_helpful (id, review_id, voter_id, is_helpful, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), reviewID, voterID, isHelpful, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			// Concurrent vote landed first; overwrite it.
			_, err = db.conn.ExecContext(ctx,
				`UPDATE review_helpful SET is_helpful = ? WHERE review_id = CAST(? AS UUID) AND voter_id = CAST(? AS UUID)`,
				isHelpful, reviewID, voterID,
			)
		}
		if err != nil {
			return fmt.Errorf("failed to insert helpful vote: %w", err)
		}
	}

	return nil
}

// ReportReview files a moderation report. Append-only: the same reporter
// may report the same review repeatedly.
func (db *DB) ReportReview(ctx context.Context, report *models.ReviewReport) error {
	if err := db.reviewExists(ctx, report.ReviewID); err != nil {
		return err
	}

	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO review_reports (id, review_id, reporter_id, reason, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.ID, report.ReviewID, report.ReporterID, report.Reason, report.Description, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review report: %w", err)
	}

	return nil
}

func (db *DB) reviewExists(ctx context.Context, reviewID string) error {
	var one int
	err := db.conn.QueryRowContext(ctx, `SELECT 1 FROM reviews WHERE id = CAST(? AS UUID)`, reviewID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up review: %w", err)
	}
	return nil
}

// GetProviderReviewStats aggregates all reviews for a provider. With no
// reviews the result is zero-valued with a zero-filled distribution.
//
// RecentTrend is the trailing-90-day average rating minus the all-time
// average. Percentile is the provider's percentile rank by average rating
// among all providers that have at least one review.
func (db *DB) GetProviderReviewStats(ctx context.Context, providerID string) (_ *models.ReviewStats, err error) {
	start := time.Now()
	defer func() { track("review_stats", start, err) }()

	stats := models.NewReviewStats(providerID)

	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0), COUNT(booking_id)
		FROM reviews WHERE provider_id = CAST(? AS UUID)`, providerID,
	).Scan(&stats.TotalReviews, &stats.AverageRating, &stats.VerifiedReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	if stats.TotalReviews == 0 {
		return stats, nil
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE provider_id = CAST(? AS UUID) GROUP BY rating`, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rating distribution: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution bucket: %w", err)
		}
		stats.RatingDistribution[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate distribution: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -90)
	var recentAvg sql.NullFloat64
	err = db.conn.QueryRowContext(ctx,
		`SELECT AVG(rating) FROM reviews WHERE provider_id = CAST(? AS UUID) AND created_at >= ?`,
		providerID, cutoff,
	).Scan(&recentAvg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute recent trend: %w", err)
	}
	if recentAvg.Valid {
		stats.RecentTrend = recentAvg.Float64 - stats.AverageRating
	}

	// Percentile rank: share of reviewed providers with a strictly lower
	// average rating than this one.
	err = db.conn.QueryRowContext(ctx,
		`WITH provider_avgs AS (
			SELECT provider_id, AVG(rating) AS avg_rating
			FROM reviews GROUP BY provider_id
		)
		SELECT 100.0 * COUNT(*) FILTER (WHERE avg_rating < (SELECT avg_rating FROM provider_avgs WHERE provider_id = CAST(? AS UUID)))
			/ COUNT(*)
		FROM provider_avgs`, providerID,
	).Scan(&stats.Percentile)
	if err != nil {
		return nil, fmt.Errorf("failed to compute percentile: %w", err)
	}

	return stats, nil
}
