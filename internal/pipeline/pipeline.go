// Package pipeline composes cross-cutting behaviors around tool
// execution. Stages wrap a Handler and either short-circuit (returning
// a result without calling the next stage) or delegate inward; the
// innermost handler invokes the tool itself.
package pipeline

import (
	"context"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
)

// Call is one tool invocation travelling through the pipeline. It
// exists only for the duration of the invocation.
type Call struct {
	Tool    *tool.Definition
	Params  map[string]any
	Options tool.Options
}

// Result is the successful outcome of a call. Cached marks results
// served from the cache stage without reaching the handler.
type Result struct {
	Output map[string]any `json:"result"`
	Cached bool           `json:"cached,omitempty"`
}

// Handler executes a call, either a pipeline stage's view of "the rest
// of the chain" or the terminal tool handler.
type Handler func(ctx context.Context, call *Call) (*Result, error)

// Middleware wraps a Handler with one cross-cutting concern.
type Middleware func(next Handler) Handler

// Chain composes middlewares into one. The first middleware is the
// outermost wrapper: it runs first on the way in and last on the way
// out.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Terminal returns the innermost handler, which invokes the tool's own
// handler and wraps its output.
func Terminal() Handler {
	return func(ctx context.Context, call *Call) (*Result, error) {
		output, err := call.Tool.Handler(ctx, call.Params, call.Options)
		if err != nil {
			return nil, err
		}
		return &Result{Output: output}, nil
	}
}
