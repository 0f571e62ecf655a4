package pipeline

import (
	"context"
	"strings"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// ValidationMiddleware checks every declared parameter against the
// tool's schema before any further stage or the handler runs. Declared
// defaults are filled in for absent optional parameters so the handler
// observes a complete parameter set.
func ValidationMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*Result, error) {
			params := call.Tool.Parameters.ApplyDefaults(call.Params)

			if errs := call.Tool.Parameters.Validate(params); len(errs) > 0 {
				messages := make([]string, len(errs))
				for i, e := range errs {
					messages[i] = e.Error()
				}
				return nil, types.NewError(types.VALIDATION_FAILED,
					"parameter validation failed: "+strings.Join(messages, "; "))
			}

			call.Params = params
			return next(ctx, call)
		}
	}
}
