// Package storage defines the uniform key-value and query backend
// contract consumed by builtin tools, with a SQLite implementation.
package storage

import (
	"context"
	"time"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// Record is one stored key-value entry.
type Record struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Type      string    `json:"type"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats summarizes backend activity and size.
type Stats struct {
	Keys    int    `json:"keys"`
	Reads   int64  `json:"reads"`
	Writes  int64  `json:"writes"`
	Queries int64  `json:"queries"`
	Backend string `json:"backend"`
}

// Store is the uniform storage contract. Implementations must be safe
// for concurrent use.
type Store interface {
	// Get returns the record for key, or STORAGE_KEY_MISSING.
	Get(ctx context.Context, key string) (Record, error)

	// Set stores value under key with a caller-supplied type tag.
	Set(ctx context.Context, key, value, valueType string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns records whose keys match pattern (SQL LIKE syntax;
	// empty matches all), paginated by limit and offset.
	List(ctx context.Context, pattern string, limit, offset int) ([]Record, error)

	// Query runs a read-only SQL statement with positional params.
	Query(ctx context.Context, query string, params []any) ([]map[string]any, error)

	// HealthCheck reports backend availability.
	HealthCheck(ctx context.Context) types.HealthStatus

	// GetStats returns a snapshot of activity counters.
	GetStats() Stats

	// Close releases the backend connection.
	Close() error
}
