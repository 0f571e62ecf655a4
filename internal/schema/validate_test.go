package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchSchema() Schema {
	return Object(map[string]Field{
		"query":   String("Search query."),
		"limit":   Integer("Result limit.").WithDefault(float64(10)).WithMin(1).WithMax(100),
		"score":   Number("Minimum score.").WithMin(0).WithMax(1),
		"mode":    String("Search mode.").WithEnum("fast", "deep"),
		"webhook": String("Callback URL.").WithFormat("uri"),
		"tags":    Array("Tag filters.", String("One tag.")),
		"id":      String("Lookup id.").WithPattern(`^[a-z0-9-]+$`),
	}, "query")
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name       string
		params     map[string]any
		wantErrors int
		wantField  string
	}{
		{
			name:       "valid minimal",
			params:     map[string]any{"query": "hello"},
			wantErrors: 0,
		},
		{
			name:       "missing required",
			params:     map[string]any{"limit": float64(5)},
			wantErrors: 1,
			wantField:  "query",
		},
		{
			name:       "type mismatch",
			params:     map[string]any{"query": 42},
			wantErrors: 1,
			wantField:  "query",
		},
		{
			name:       "whole float satisfies integer",
			params:     map[string]any{"query": "q", "limit": float64(3)},
			wantErrors: 0,
		},
		{
			name:       "fractional float rejected for integer",
			params:     map[string]any{"query": "q", "limit": 3.5},
			wantErrors: 1,
			wantField:  "limit",
		},
		{
			name:       "below minimum",
			params:     map[string]any{"query": "q", "limit": float64(0)},
			wantErrors: 1,
			wantField:  "limit",
		},
		{
			name:       "above maximum",
			params:     map[string]any{"query": "q", "limit": float64(500)},
			wantErrors: 1,
			wantField:  "limit",
		},
		{
			name:       "enum violation",
			params:     map[string]any{"query": "q", "mode": "slow"},
			wantErrors: 1,
			wantField:  "mode",
		},
		{
			name:       "enum accepted",
			params:     map[string]any{"query": "q", "mode": "deep"},
			wantErrors: 0,
		},
		{
			name:       "pattern violation",
			params:     map[string]any{"query": "q", "id": "Not Valid!"},
			wantErrors: 1,
			wantField:  "id",
		},
		{
			name:       "uri format violation",
			params:     map[string]any{"query": "q", "webhook": "not a url"},
			wantErrors: 1,
			wantField:  "webhook",
		},
		{
			name:       "array item type mismatch",
			params:     map[string]any{"query": "q", "tags": []any{"ok", 7}},
			wantErrors: 1,
			wantField:  "tags[1]",
		},
		{
			name:       "undeclared parameter passes through",
			params:     map[string]any{"query": "q", "extra": "anything"},
			wantErrors: 0,
		},
		{
			name:       "multiple violations all reported",
			params:     map[string]any{"limit": 3.5, "mode": "slow"},
			wantErrors: 3,
		},
	}

	s := searchSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := s.Validate(tt.params)
			require.Len(t, errs, tt.wantErrors)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, errs[0].Field)
			}
		})
	}
}

func TestSchemaValidateFormats(t *testing.T) {
	tests := []struct {
		format string
		value  string
		valid  bool
	}{
		{"uri", "https://example.com/path", true},
		{"uri", "not a uri", false},
		{"email", "dev@example.com", true},
		{"email", "dev@@", false},
		{"date-time", "2026-08-26T10:00:00Z", true},
		{"date-time", "yesterday", false},
		{"uuid", "9b2d61a0-58a3-4c8e-9a2e-df31c0a3a111", true},
		{"uuid", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.format+"/"+tt.value, func(t *testing.T) {
			s := Object(map[string]Field{
				"v": String("value").WithFormat(tt.format),
			})
			errs := s.Validate(map[string]any{"v": tt.value})
			if tt.valid {
				assert.Empty(t, errs)
			} else {
				assert.NotEmpty(t, errs)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	s := searchSchema()

	in := map[string]any{"query": "q"}
	out := s.ApplyDefaults(in)

	assert.Equal(t, float64(10), out["limit"])
	assert.Equal(t, "q", out["query"])

	// Input map is never mutated.
	_, present := in["limit"]
	assert.False(t, present)

	// Explicit values win over defaults.
	out = s.ApplyDefaults(map[string]any{"query": "q", "limit": float64(25)})
	assert.Equal(t, float64(25), out["limit"])
}
