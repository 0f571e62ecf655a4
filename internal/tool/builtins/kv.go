package builtins

import (
	"context"
	"time"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/schema"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/storage"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// KVGetTool returns a tool that reads a key from the store. Reads are
// cached briefly; a write to the same key through kv_set is visible
// once the cache entry expires.
func KVGetTool(store storage.Store) *tool.Definition {
	return &tool.Definition{
		Name:        "kv_get",
		Description: "Read a value from the key-value store.",
		Parameters: schema.Object(map[string]schema.Field{
			"key": schema.String("Key to read.").WithPattern(`^[A-Za-z0-9._:-]+$`),
		}, "key"),
		Cache: tool.CachePolicy{Enabled: true, TTL: 10 * time.Second},
		Handler: func(ctx context.Context, params map[string]any, opts tool.Options) (map[string]any, error) {
			key, _ := params["key"].(string)
			rec, err := store.Get(ctx, key)
			if err != nil {
				if types.CodeOf(err) == types.STORAGE_KEY_MISSING {
					return map[string]any{"key": key, "found": false}, nil
				}
				return nil, err
			}
			return map[string]any{
				"key":        rec.Key,
				"value":      rec.Value,
				"type":       rec.Type,
				"updated_at": rec.UpdatedAt.UTC().Format(time.RFC3339),
				"found":      true,
			}, nil
		},
	}
}

// KVSetTool returns a tool that writes a key to the store. Writes are
// never cached and are rate limited to protect the backend.
func KVSetTool(store storage.Store) *tool.Definition {
	return &tool.Definition{
		Name:        "kv_set",
		Description: "Write a value to the key-value store.",
		Parameters: schema.Object(map[string]schema.Field{
			"key":   schema.String("Key to write.").WithPattern(`^[A-Za-z0-9._:-]+$`),
			"value": schema.String("Value to store."),
			"type":  schema.String("Value type tag.").WithDefault("string").WithEnum("string", "json", "number"),
		}, "key", "value"),
		RateLimit: &tool.RateLimitPolicy{Requests: 100, Window: time.Minute},
		Handler: func(ctx context.Context, params map[string]any, opts tool.Options) (map[string]any, error) {
			key, _ := params["key"].(string)
			value, _ := params["value"].(string)
			valueType, _ := params["type"].(string)
			if err := store.Set(ctx, key, value, valueType); err != nil {
				return nil, err
			}
			return map[string]any{"key": key, "stored": true}, nil
		},
	}
}

// KVDeleteTool returns a tool that removes a key from the store.
func KVDeleteTool(store storage.Store) *tool.Definition {
	return &tool.Definition{
		Name:        "kv_delete",
		Description: "Delete a key from the key-value store.",
		Parameters: schema.Object(map[string]schema.Field{
			"key": schema.String("Key to delete.").WithPattern(`^[A-Za-z0-9._:-]+$`),
		}, "key"),
		Handler: func(ctx context.Context, params map[string]any, opts tool.Options) (map[string]any, error) {
			key, _ := params["key"].(string)
			if err := store.Delete(ctx, key); err != nil {
				return nil, err
			}
			return map[string]any{"key": key, "deleted": true}, nil
		},
	}
}

// KVListTool returns a tool that lists keys matching a pattern.
func KVListTool(store storage.Store) *tool.Definition {
	return &tool.Definition{
		Name:        "kv_list",
		Description: "List keys in the key-value store matching a SQL LIKE pattern.",
		Parameters: schema.Object(map[string]schema.Field{
			"pattern": schema.String("SQL LIKE pattern; empty matches all.").WithDefault(""),
			"limit":   schema.Integer("Maximum records to return.").WithDefault(float64(50)).WithMin(1).WithMax(500),
			"offset":  schema.Integer("Records to skip.").WithDefault(float64(0)).WithMin(0),
		}),
		Handler: func(ctx context.Context, params map[string]any, opts tool.Options) (map[string]any, error) {
			pattern, _ := params["pattern"].(string)
			limit := intParam(params, "limit", 50)
			offset := intParam(params, "offset", 0)

			records, err := store.List(ctx, pattern, limit, offset)
			if err != nil {
				return nil, err
			}
			items := make([]map[string]any, 0, len(records))
			for _, rec := range records {
				items = append(items, map[string]any{
					"key":        rec.Key,
					"value":      rec.Value,
					"type":       rec.Type,
					"updated_at": rec.UpdatedAt.UTC().Format(time.RFC3339),
				})
			}
			return map[string]any{"items": items, "count": len(items)}, nil
		},
	}
}
