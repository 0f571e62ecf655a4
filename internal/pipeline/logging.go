package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/observability"
)

// LoggingMiddleware records the start and finish of every execution
// that reaches it, with elapsed time and outcome. Parameter values
// whose keys look sensitive are replaced by a redaction marker before
// emission.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*Result, error) {
			logger.Info("tool execution started",
				"tool", call.Tool.Name,
				"params", observability.RedactParams(call.Params))

			start := time.Now()
			result, err := next(ctx, call)
			elapsed := time.Since(start)

			if err != nil {
				logger.Error("tool execution failed",
					"tool", call.Tool.Name,
					"duration_ms", elapsed.Milliseconds(),
					"error", err.Error())
				return nil, err
			}

			logger.Info("tool execution completed",
				"tool", call.Tool.Name,
				"duration_ms", elapsed.Milliseconds(),
				"cached", result.Cached)
			return result, nil
		}
	}
}
