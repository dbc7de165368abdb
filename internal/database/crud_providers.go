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
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/byootify/byootify/internal/models"
)

// CreateProvider inserts a provider profile. Each user may have at most
// one profile.
func (db *DB) CreateProvider(ctx context.Context, p *models.Provider) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	specialties, err := json.Marshal(p.Specialties)
	if err != nil {
		return fmt.Errorf("failed to encode specialties: %w", err)
	}

	query := `INSERT INTO providers (id, user_id, business_name, bio, specialties, city, state, base_price_usd, home_visits, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = db.conn.ExecContext(ctx, query,
		p.ID, p.UserID, p.BusinessName, p.Bio, string(specialties),
		p.City, p.State, p.BasePriceUSD, p.HomeVisits, p.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("provider profile for user %s: %w", p.UserID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create provider: %w", err)
	}

	return nil
}

const providerSelect = `SELECT
	p.id::TEXT, p.user_id::TEXT, p.business_name, p.bio, p.specialties, p.city, p.state, p.base_price_usd, p.home_visits, p.created_at,
	COALESCE(r.avg_rating, 0) AS avg_rating,
	COALESCE(r.review_count, 0) AS review_count
FROM providers p
LEFT JOIN (
	SELECT provider_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count
	FROM reviews GROUP BY provider_id
) r ON r.provider_id = p.id`

// ProviderFilter narrows the provider directory. Zero values leave the
// corresponding dimension unfiltered.
type ProviderFilter struct {
	City        string
	MaxPriceUSD float64
	MinRating   float64
	HomeVisits  bool
	Limit       int
}

// GetProvider retrieves a provider profile with its review aggregates.
func (db *DB) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	row := db.conn.QueryRowContext(ctx, providerSelect+` WHERE p.id = CAST(? AS UUID)`, id)
	return scanProvider(row)
}

// ListProviders returns provider profiles ordered by average rating, best
// first, narrowed by the given filter.
func (db *DB) ListProviders(ctx context.Context, filter ProviderFilter) ([]*models.Provider, error) {
	query := providerSelect
	var clauses []string
	var args []interface{}
	if filter.City != "" {
		clauses = append(clauses, `p.city = ?`)
		args = append(args, filter.City)
	}
	if filter.MaxPriceUSD > 0 {
		clauses = append(clauses, `p.base_price_usd <= ?`)
		args = append(args, filter.MaxPriceUSD)
	}
	if filter.MinRating > 0 {
		clauses = append(clauses, `COALESCE(r.avg_rating, 0) >= ?`)
		args = append(args, filter.MinRating)
	}
	if filter.HomeVisits {
		clauses = append(clauses, `p.home_visits = true`)
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY avg_rating DESC, review_count DESC LIMIT ?`
	args = append(args, filter.Limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer closeQuietly(rows)

	var providers []*models.Provider
	for rows.Next() {
		p, err := scanProviderRows(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate providers: %w", err)
	}

	return providers, nil
}

func scanProvider(row *sql.Row) (*models.Provider, error) {
	var p models.Provider
	var specialties string
	err := row.Scan(&p.ID, &p.UserID, &p.BusinessName, &p.Bio, &specialties,
		&p.City, &p.State, &p.BasePriceUSD, &p.HomeVisits, &p.CreatedAt, &p.AverageRating, &p.ReviewCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan provider: %w", err)
	}
	if err := json.Unmarshal([]byte(specialties), &p.Specialties); err != nil {
		return nil, fmt.Errorf("failed to decode specialties: %w", err)
	}
	return &p, nil
}

func scanProviderRows(rows *sql.Rows) (*models.Provider, error) {
	var p models.Provider
	var specialties string
	err := rows.Scan(&p.ID, &p.UserID, &p.BusinessName, &p.Bio, &specialties,
		&p.City, &p.State, &p.BasePriceUSD, &p.HomeVisits, &p.CreatedAt, &p.AverageRating, &p.ReviewCount)
	if err != nil {
		return nil, fmt.Errorf("failed to scan provider: %w", err)
	}
	if err := json.Unmarshal([]byte(specialties), &p.Specialties); err != nil {
		return nil, fmt.Errorf("failed to decode specialties: %w", err)
	}
	return &p, nil
}
