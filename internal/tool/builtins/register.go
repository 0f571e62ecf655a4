// Package builtins provides the built-in tools shipped with the relay.
// These tools are registered during engine initialization.
package builtins

import (
	"github.com/jgtolentino/pulser-mcp-sub000/internal/storage"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
)

// Config holds dependencies for creating builtin tools.
type Config struct {
	// Store backs the kv_* and sql_query tools. When nil those tools
	// are skipped.
	Store storage.Store
}

// Register registers all builtin tools with the provided registry.
// Tools whose dependencies are missing are skipped. Returns the first
// registration error encountered.
func Register(registry *tool.Registry, cfg Config) error {
	defs := []*tool.Definition{EchoTool()}

	if cfg.Store != nil {
		defs = append(defs,
			KVGetTool(cfg.Store),
			KVSetTool(cfg.Store),
			KVDeleteTool(cfg.Store),
			KVListTool(cfg.Store),
			SQLQueryTool(cfg.Store),
		)
	}

	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the names of all builtin tools, for documentation and
// validation purposes.
func Names() []string {
	return []string{
		"echo",
		"kv_get",
		"kv_set",
		"kv_delete",
		"kv_list",
		"sql_query",
	}
}
