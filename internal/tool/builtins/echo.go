package builtins

import (
	"context"
	"strings"
	"time"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/schema"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
)

// EchoTool returns a tool that reflects its input back to the caller.
// Useful for smoke tests and for exercising the pipeline end to end;
// results are cached briefly so repeated identical calls hit the cache.
func EchoTool() *tool.Definition {
	return &tool.Definition{
		Name:        "echo",
		Description: "Echo the message back, optionally uppercased and repeated.",
		Parameters: schema.Object(map[string]schema.Field{
			"message":   schema.String("Text to echo back."),
			"uppercase": schema.Boolean("Uppercase the message.").WithDefault(false),
			"repeat":    schema.Integer("Number of repetitions.").WithDefault(float64(1)).WithMin(1).WithMax(10),
		}, "message"),
		Cache: tool.CachePolicy{Enabled: true, TTL: 30 * time.Second},
		Handler: func(ctx context.Context, params map[string]any, opts tool.Options) (map[string]any, error) {
			message, _ := params["message"].(string)
			if upper, _ := params["uppercase"].(bool); upper {
				message = strings.ToUpper(message)
			}
			repeat := intParam(params, "repeat", 1)
			out := make([]string, repeat)
			for i := range out {
				out[i] = message
			}
			return map[string]any{
				"message": strings.Join(out, " "),
				"length":  len(message),
			}, nil
		},
	}
}

// intParam reads an integer parameter that may arrive as a float64 after
// JSON decoding.
func intParam(params map[string]any, name string, fallback int) int {
	switch v := params[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
