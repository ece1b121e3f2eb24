// Package destination contains the core types and validation rules for
// user-owned travel bucket-list entries.
package destination

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a destination does not exist or is owned by a
// different user. The two cases are deliberately indistinguishable so that
// record existence never leaks across accounts.
var ErrNotFound = errors.New("destination not found")

// Destination is a single travel bucket-list entry owned by exactly one user.
type Destination struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Notes     string    `json:"notes"`
	Visited   bool      `json:"visited"`
	Category  string    `json:"category"`
	Region    string    `json:"region"`
	ImageURLs []string  `json:"image_urls"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SearchFilter holds the optional filters for a destination search.
// Zero values mean "not filtered". All provided filters are AND'd together.
type SearchFilter struct {
	// Query is matched case-insensitively as a substring against name,
	// country, and notes (OR'd across the three fields).
	Query string

	// Region and Category are exact-match filters.
	Region   string
	Category string

	// Visited filters on visit status when non-nil.
	Visited *bool
}
