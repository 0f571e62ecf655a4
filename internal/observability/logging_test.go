package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key       string
		sensitive bool
	}{
		{"password", true},
		{"Password", true},
		{"user_password", true},
		{"api_key", true},
		{"apiKey", true},
		{"access_token", true},
		{"client_secret", true},
		{"authorization", true},
		{"query", false},
		{"limit", false},
		{"message", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.sensitive, IsSensitiveKey(tt.key))
		})
	}
}

func TestRedactParams(t *testing.T) {
	in := map[string]any{
		"query":   "find things",
		"api_key": "hunter2",
		"nested": map[string]any{
			"token": "abc",
			"page":  2,
		},
	}

	out := RedactParams(in)

	assert.Equal(t, "find things", out["query"])
	assert.Equal(t, RedactionMarker, out["api_key"])

	nested := out["nested"].(map[string]any)
	assert.Equal(t, RedactionMarker, nested["token"])
	assert.Equal(t, 2, nested["page"])

	// The input map is untouched.
	assert.Equal(t, "hunter2", in["api_key"])
	assert.Equal(t, "abc", in["nested"].(map[string]any)["token"])
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, "info", "json")
	logger.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger = NewLogger(&buf, "info", "text")
	logger.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "json")

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}
