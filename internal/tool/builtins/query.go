package builtins

import (
	"context"
	"strings"
	"time"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/schema"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/storage"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// SQLQueryTool returns a tool that runs read-only SQL against the store.
// Only SELECT statements are accepted; anything else is rejected before
// reaching the backend. Queries are rate limited and never cached.
func SQLQueryTool(store storage.Store) *tool.Definition {
	return &tool.Definition{
		Name:        "sql_query",
		Description: "Run a read-only SQL SELECT against the relay store.",
		Parameters: schema.Object(map[string]schema.Field{
			"query":  schema.String("SELECT statement with ? placeholders."),
			"params": schema.Array("Positional query parameters.", schema.String("Parameter value.")),
			"limit":  schema.Integer("Maximum rows to return.").WithDefault(float64(100)).WithMin(1).WithMax(1000),
		}, "query"),
		RateLimit: &tool.RateLimitPolicy{Requests: 30, Window: time.Minute},
		Handler: func(ctx context.Context, params map[string]any, opts tool.Options) (map[string]any, error) {
			query, _ := params["query"].(string)
			if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") {
				return nil, types.NewError(types.STORAGE_QUERY_FAILED, "only SELECT statements are allowed")
			}

			var args []any
			if raw, ok := params["params"].([]any); ok {
				args = raw
			}

			rows, err := store.Query(ctx, query, args)
			if err != nil {
				return nil, err
			}
			limit := intParam(params, "limit", 100)
			if len(rows) > limit {
				rows = rows[:limit]
			}
			return map[string]any{"rows": rows, "count": len(rows)}, nil
		},
	}
}
