// Package tool provides the tool abstraction for the relay engine.
//
// A tool is a named, schema-described operation registered with the
// engine. The registry holds definitions keyed by name; registration is
// idempotent-overwrite, so the last writer wins and a warning is logged
// when an existing name is replaced.
package tool

import (
	"context"
	"time"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/schema"
)

// Options carries caller-supplied, tool-opaque invocation options.
type Options map[string]any

// HandlerFunc is the executable body of a tool. The context carries the
// per-call deadline; handlers that ignore it keep running after the
// coordinator stops awaiting them.
type HandlerFunc func(ctx context.Context, params map[string]any, opts Options) (map[string]any, error)

// CachePolicy controls result caching for a tool.
type CachePolicy struct {
	Enabled bool          `json:"enabled"`
	TTL     time.Duration `json:"ttl,omitempty"`
}

// RateLimitPolicy is a fixed-window request budget for a tool. Requests
// is the number of calls allowed within each Window; the counter resets
// at window end.
type RateLimitPolicy struct {
	Requests int           `json:"requests"`
	Window   time.Duration `json:"window"`
}

// Stage names a builtin pipeline stage that a tool may opt out of.
type Stage string

const (
	StageCache     Stage = "cache"
	StageValidate  Stage = "validate"
	StageRateLimit Stage = "ratelimit"
	StageLogging   Stage = "logging"
)

// Definition describes a registered tool. Definitions are treated as
// immutable once registered; re-registering the same name replaces the
// whole definition.
type Definition struct {
	Name        string
	Description string
	Parameters  schema.Schema
	Handler     HandlerFunc

	Cache     CachePolicy
	RateLimit *RateLimitPolicy

	// SkipStages lists builtin pipeline stages disabled for this tool.
	SkipStages []Stage
}

// Skips reports whether the definition opts out of the given stage.
func (d *Definition) Skips(stage Stage) bool {
	for _, s := range d.SkipStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Descriptor is the introspection view of a tool, exposed through the
// capabilities response.
type Descriptor struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Parameters  schema.Schema `json:"parameters"`
}

// Describe builds the introspection view of the definition.
func (d *Definition) Describe() Descriptor {
	return Descriptor{
		Name:        d.Name,
		Description: d.Description,
		Parameters:  d.Parameters,
	}
}
