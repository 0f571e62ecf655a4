package pipeline

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/cache"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
)

// Deps holds the collaborators the builtin stages need.
type Deps struct {
	Cache   cache.Cache
	Limiter *FixedWindowLimiter
	Logger  *slog.Logger
	Tracer  trace.Tracer // nil disables the tracing stage
}

// Build assembles the middleware chain for one tool in canonical order:
// Cache outermost, then Validation, Rate Limiting, Logging, and finally
// the handler. Because Cache is outermost, a cache hit bypasses every
// later stage for that call. Stages a tool opts out of (or whose policy
// is absent) are left out of its chain.
func Build(def *tool.Definition, deps Deps) Handler {
	var stages []Middleware

	if def.Cache.Enabled && !def.Skips(tool.StageCache) && deps.Cache != nil {
		stages = append(stages, CacheMiddleware(deps.Cache))
	}
	if !def.Skips(tool.StageValidate) {
		stages = append(stages, ValidationMiddleware())
	}
	if def.RateLimit != nil && !def.Skips(tool.StageRateLimit) && deps.Limiter != nil {
		stages = append(stages, RateLimitMiddleware(deps.Limiter))
	}
	if !def.Skips(tool.StageLogging) && deps.Logger != nil {
		stages = append(stages, LoggingMiddleware(deps.Logger))
	}
	if deps.Tracer != nil {
		stages = append(stages, TracingMiddleware(deps.Tracer))
	}

	return Chain(stages...)(Terminal())
}
