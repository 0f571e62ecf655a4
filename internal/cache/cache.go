// Package cache defines the key-value cache contract consumed by the
// execution pipeline and provides an in-memory TTL implementation.
package cache

import (
	"context"
	"time"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// Stats summarizes cache activity.
type Stats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// Cache is the uniform cache contract. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the value for key, or false if absent or expired.
	Get(ctx context.Context, key string) (any, bool)

	// Set stores value under key for ttl. A non-positive ttl stores
	// the value without expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// HealthCheck reports the cache's availability.
	HealthCheck(ctx context.Context) types.HealthStatus

	// GetStats returns a snapshot of cache activity counters.
	GetStats() Stats
}
