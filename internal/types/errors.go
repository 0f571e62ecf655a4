package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a namespaced, stable identifier for relay errors.
// Codes are matched by errors.Is so callers can branch on the class
// of failure without string comparison.
type ErrorCode string

// Execution error codes
const (
	TOOL_NOT_FOUND      ErrorCode = "TOOL_NOT_FOUND"
	VALIDATION_FAILED   ErrorCode = "VALIDATION_FAILED"
	RATE_LIMIT_EXCEEDED ErrorCode = "RATE_LIMIT_EXCEEDED"
	EXECUTION_TIMEOUT   ErrorCode = "EXECUTION_TIMEOUT"
	HANDLER_ERROR       ErrorCode = "HANDLER_ERROR"
)

// Batch error codes
const (
	BATCH_SIZE_EXCEEDED ErrorCode = "BATCH_SIZE_EXCEEDED"
	BATCHING_DISABLED   ErrorCode = "BATCHING_DISABLED"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Storage error codes
const (
	STORAGE_OPEN_FAILED  ErrorCode = "STORAGE_OPEN_FAILED"
	STORAGE_QUERY_FAILED ErrorCode = "STORAGE_QUERY_FAILED"
	STORAGE_KEY_MISSING  ErrorCode = "STORAGE_KEY_MISSING"
)

// RelayError is a structured error carrying a stable code, a message,
// an optional cause, and a retryability hint for callers that implement
// retry policies.
type RelayError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error formats the error as "[CODE] message" or "[CODE] message: cause".
func (e *RelayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is/errors.As chains.
func (e *RelayError) Unwrap() error {
	return e.Cause
}

// Is matches RelayErrors by code.
func (e *RelayError) Is(target error) bool {
	var relayErr *RelayError
	if errors.As(target, &relayErr) {
		return e.Code == relayErr.Code
	}
	return false
}

// NewError creates a non-retryable RelayError.
func NewError(code ErrorCode, message string) *RelayError {
	return &RelayError{Code: code, Message: message}
}

// NewRetryableError creates a RelayError marked retryable, for
// transient failures such as a rate limit that clears at window end.
func NewRetryableError(code ErrorCode, message string) *RelayError {
	return &RelayError{Code: code, Message: message, Retryable: true}
}

// WrapError creates a RelayError wrapping an underlying cause.
func WrapError(code ErrorCode, message string, cause error) *RelayError {
	return &RelayError{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the ErrorCode from err, or HANDLER_ERROR when err is
// not a RelayError. Handler failures surface to callers under the
// HANDLER_ERROR class.
func CodeOf(err error) ErrorCode {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Code
	}
	return HANDLER_ERROR
}
