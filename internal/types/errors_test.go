package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelayErrorFormatting(t *testing.T) {
	err := NewError(TOOL_NOT_FOUND, "tool \"x\" not found")
	assert.Equal(t, `[TOOL_NOT_FOUND] tool "x" not found`, err.Error())

	wrapped := WrapError(STORAGE_QUERY_FAILED, "get failed", errors.New("disk full"))
	assert.Equal(t, "[STORAGE_QUERY_FAILED] get failed: disk full", wrapped.Error())
}

func TestRelayErrorMatchingByCode(t *testing.T) {
	err := NewRetryableError(RATE_LIMIT_EXCEEDED, "slow down")

	assert.True(t, errors.Is(err, NewError(RATE_LIMIT_EXCEEDED, "other message")))
	assert.False(t, errors.Is(err, NewError(EXECUTION_TIMEOUT, "")))
}

func TestRelayErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(STORAGE_OPEN_FAILED, "open failed", cause)

	assert.ErrorIs(t, err, cause)

	// Wrapping through fmt keeps the code reachable.
	outer := fmt.Errorf("startup: %w", err)
	assert.Equal(t, STORAGE_OPEN_FAILED, CodeOf(outer))
}

func TestCodeOfFallback(t *testing.T) {
	assert.Equal(t, HANDLER_ERROR, CodeOf(errors.New("plain")))
	assert.Equal(t, VALIDATION_FAILED, CodeOf(NewError(VALIDATION_FAILED, "bad")))
}

func TestRetryableFlag(t *testing.T) {
	var relayErr *RelayError

	assert.True(t, errors.As(NewRetryableError(RATE_LIMIT_EXCEEDED, "x"), &relayErr))
	assert.True(t, relayErr.Retryable)

	assert.True(t, errors.As(NewError(VALIDATION_FAILED, "x"), &relayErr))
	assert.False(t, relayErr.Retryable)
}
