// Package cache provides a Redis-backed cache for the country catalog.
// The external clients themselves stay stateless; only the fully normalized
// country list is cached, since the upstream data changes on a geological
// timescale compared to the TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wanderlist/api/internal/external"
)

const (
	defaultTTL   = time.Hour
	countriesKey = "countries:all"
)

// CountryCache wraps a Redis client with typed get/set for the country list.
type CountryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCountryCache constructs a CountryCache with a 1-hour TTL.
func NewCountryCache(client *redis.Client) *CountryCache {
	return &CountryCache{client: client, ttl: defaultTTL}
}

// Get retrieves the cached country list.
// Returns nil, nil on a cache miss (not an error).
func (c *CountryCache) Get(ctx context.Context) ([]external.Country, error) {
	val, err := c.client.Get(ctx, countriesKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for countries: %w", err)
	}

	var countries []external.Country
	if err := json.Unmarshal([]byte(val), &countries); err != nil {
		return nil, fmt.Errorf("unmarshaling cached countries: %w", err)
	}
	return countries, nil
}

// Set stores the country list with the configured TTL.
func (c *CountryCache) Set(ctx context.Context, countries []external.Country) error {
	if len(countries) == 0 {
		return nil
	}

	b, err := json.Marshal(countries)
	if err != nil {
		return fmt.Errorf("marshaling countries: %w", err)
	}

	if err := c.client.Set(ctx, countriesKey, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for countries: %w", err)
	}
	return nil
}
