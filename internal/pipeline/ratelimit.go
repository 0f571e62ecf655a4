package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// fixedWindow tracks one tool's request count within the current
// window. The counter resets when the window ends.
type fixedWindow struct {
	count   int
	resetAt time.Time
}

// FixedWindowLimiter enforces per-tool fixed-window request budgets.
// Each attempt increments the window counter before the budget check,
// so rejected calls still consume an attempt within the window.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
	now     func() time.Time
}

// NewFixedWindowLimiter creates an empty limiter.
func NewFixedWindowLimiter() *FixedWindowLimiter {
	return &FixedWindowLimiter{
		windows: make(map[string]*fixedWindow),
		now:     time.Now,
	}
}

// Allow records an attempt for key and reports whether it fits within
// limit requests per window. When rejected, retryAfter is the time
// remaining until the window resets.
func (l *FixedWindowLimiter) Allow(key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || now.After(w.resetAt) {
		w = &fixedWindow{resetAt: now.Add(window)}
		l.windows[key] = w
	}

	w.count++
	if w.count > limit {
		return false, w.resetAt.Sub(now)
	}
	return true, 0
}

// RateLimitMiddleware rejects calls once a tool's fixed-window budget
// is exhausted. Tools without a rate limit policy are not wrapped by
// the builder, so this stage always has a policy to enforce.
func RateLimitMiddleware(limiter *FixedWindowLimiter) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*Result, error) {
			policy := call.Tool.RateLimit

			allowed, retryAfter := limiter.Allow(call.Tool.Name, policy.Requests, policy.Window)
			if !allowed {
				return nil, types.NewRetryableError(types.RATE_LIMIT_EXCEEDED,
					fmt.Sprintf("rate limit exceeded for tool %q: max %d requests per %s, retry in %s",
						call.Tool.Name, policy.Requests, policy.Window, retryAfter.Round(time.Millisecond)))
			}
			return next(ctx, call)
		}
	}
}
