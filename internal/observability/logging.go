// Package observability wires structured logging, metric export, and
// tracing for the relay engine.
package observability

import (
	"io"
	"log/slog"
	"strings"
)

// RedactionMarker replaces sensitive parameter values in log output.
const RedactionMarker = "[REDACTED]"

// sensitiveKeywords are matched as case-insensitive substrings of
// parameter names. A key like "apiKey" or "auth_token" is redacted.
var sensitiveKeywords = []string{"password", "token", "secret", "key", "auth"}

// NewLogger builds a slog.Logger writing to w. Format is "json" or
// "text"; level is one of debug, info, warn, error (defaulting to info).
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsSensitiveKey reports whether a parameter name should be redacted.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RedactParams returns a copy of params with sensitive values replaced
// by the redaction marker. The input map is not mutated.
func RedactParams(params map[string]any) map[string]any {
	redacted := make(map[string]any, len(params))
	for k, v := range params {
		if IsSensitiveKey(k) {
			redacted[k] = RedactionMarker
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			redacted[k] = RedactParams(nested)
			continue
		}
		redacted[k] = v
	}
	return redacted
}
