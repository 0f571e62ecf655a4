package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/cache"
)

// CacheMiddleware serves repeated calls from the cache. It is the
// outermost stage: a hit returns immediately, tagged cached, without
// invoking validation, rate limiting, or logging for that call. A miss
// proceeds inward and stores a successful result with the tool's TTL.
func CacheMiddleware(store cache.Cache) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*Result, error) {
			key := cacheKey(call.Tool.Name, call.Params)

			if cached, ok := store.Get(ctx, key); ok {
				if output, ok := cached.(map[string]any); ok {
					return &Result{Output: output, Cached: true}, nil
				}
			}

			result, err := next(ctx, call)
			if err != nil {
				return nil, err
			}

			// Only successful results are cached; errors always
			// re-execute.
			_ = store.Set(ctx, key, result.Output, call.Tool.Cache.TTL)
			return result, nil
		}
	}
}

// cacheKey derives a stable key from the tool name and parameters.
// encoding/json sorts map keys, so identical parameter sets hash
// identically regardless of insertion order.
func cacheKey(toolName string, params map[string]any) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", params))
	}
	sum := sha256.Sum256(append([]byte(toolName+":"), encoded...))
	return "toolcache:" + toolName + ":" + hex.EncodeToString(sum[:16])
}
