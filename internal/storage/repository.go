// Package storage contains all database access for destination records.
// Every query is scoped by the owning user's id; no business logic lives here.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderlist/api/internal/destination"
)

// destinationColumns is the column list shared by every SELECT in this file.
const destinationColumns = "id, user_id, name, country, notes, visited, category, region, image_urls, created_at, updated_at"

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides database access for destination records.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// ListByUser returns all destinations owned by userID, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]destination.Destination, error) {
	q := `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("querying destinations for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectDestinations(rows)
}

// GetByID returns one destination by id, scoped to its owner.
// A missing record and a record owned by someone else both return
// destination.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, userID string, id uuid.UUID) (destination.Destination, error) {
	q := `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE id = $1 AND user_id = $2`

	d, err := scanDestination(r.q.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return destination.Destination{}, destination.ErrNotFound
		}
		return destination.Destination{}, fmt.Errorf("querying destination %s: %w", id, err)
	}
	return d, nil
}

// Create inserts a new destination and returns the persisted record with its
// database-generated id and timestamps.
func (r *Repository) Create(ctx context.Context, d destination.Destination) (destination.Destination, error) {
	q := `
		INSERT INTO destinations (user_id, name, country, notes, visited, category, region, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + destinationColumns

	created, err := scanDestination(r.q.QueryRow(ctx, q,
		d.UserID, d.Name, d.Country, d.Notes, d.Visited, d.Category, d.Region, d.ImageURLs))
	if err != nil {
		return destination.Destination{}, fmt.Errorf("inserting destination for user %s: %w", d.UserID, err)
	}
	return created, nil
}

// Update overwrites the mutable fields of a destination, scoped to its owner,
// and returns the updated record. Returns destination.ErrNotFound when no row
// matches the (id, user_id) pair.
func (r *Repository) Update(ctx context.Context, d destination.Destination) (destination.Destination, error) {
	q := `
		UPDATE destinations
		SET name       = $3,
		    country    = $4,
		    notes      = $5,
		    visited    = $6,
		    category   = $7,
		    region     = $8,
		    image_urls = $9,
		    updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + destinationColumns

	updated, err := scanDestination(r.q.QueryRow(ctx, q,
		d.ID, d.UserID, d.Name, d.Country, d.Notes, d.Visited, d.Category, d.Region, d.ImageURLs))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return destination.Destination{}, destination.ErrNotFound
		}
		return destination.Destination{}, fmt.Errorf("updating destination %s: %w", d.ID, err)
	}
	return updated, nil
}

// Delete removes a destination by id, scoped to its owner.
// Returns destination.ErrNotFound when no row matches.
func (r *Repository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	const q = `DELETE FROM destinations WHERE id = $1 AND user_id = $2`

	tag, err := r.q.Exec(ctx, q, id, userID)
	if err != nil {
		return fmt.Errorf("deleting destination %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return destination.ErrNotFound
	}
	return nil
}

// Search returns the destinations owned by userID matching the filter,
// newest first. The text query matches name, country, and notes with ILIKE
// (case-insensitive substring, collation per the database); the remaining
// filters are exact matches. All provided filters are AND'd together.
func (r *Repository) Search(ctx context.Context, userID string, f destination.SearchFilter) ([]destination.Destination, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR country ILIKE $%d OR notes ILIKE $%d)", n, n, n))
	}
	if f.Region != "" {
		args = append(args, f.Region)
		conds = append(conds, fmt.Sprintf("region = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Visited != nil {
		args = append(args, *f.Visited)
		conds = append(conds, fmt.Sprintf("visited = $%d", len(args)))
	}

	q := `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching destinations for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectDestinations(rows)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanDestination
// to be reused for QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanDestination maps a single database row into a destination.Destination.
func scanDestination(s scanner) (destination.Destination, error) {
	var d destination.Destination
	err := s.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Country,
		&d.Notes,
		&d.Visited,
		&d.Category,
		&d.Region,
		&d.ImageURLs,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return destination.Destination{}, err
	}
	if d.ImageURLs == nil {
		d.ImageURLs = []string{}
	}
	return d, nil
}

// collectDestinations drains rows into a slice, returning an empty (non-nil)
// slice for zero rows so list responses serialize as [] rather than null.
func collectDestinations(rows pgx.Rows) ([]destination.Destination, error) {
	dests := []destination.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning destination row: %w", err)
		}
		dests = append(dests, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating destination rows: %w", err)
	}
	return dests, nil
}
