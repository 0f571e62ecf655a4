package tool

import "github.com/jgtolentino/pulser-mcp-sub000/internal/types"

// Tool error codes
const (
	ErrToolNotFound     = types.TOOL_NOT_FOUND
	ErrToolInvalidInput types.ErrorCode = "TOOL_INVALID_INPUT"
)
