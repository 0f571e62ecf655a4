package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/observability"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/storage"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool/builtins"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the builtin tools and their parameter schemas",
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	// Listing needs no real storage backend; an in-memory database is
	// enough to register the storage-backed tools.
	store, err := storage.Open(storage.DefaultConfig(":memory:"))
	if err != nil {
		return err
	}
	defer store.Close()

	logger := observability.NewLogger(io.Discard, "error", "text")
	registry := tool.NewRegistry(logger)
	if err := builtins.Register(registry, builtins.Config{Store: store}); err != nil {
		return err
	}

	type toolListing struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Parameters  any    `yaml:"parameters"`
	}

	descriptors := registry.ListCapabilities()
	listings := make([]toolListing, 0, len(descriptors))
	for _, d := range descriptors {
		listings = append(listings, toolListing{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}

	out, err := yaml.Marshal(listings)
	if err != nil {
		return fmt.Errorf("failed to render tool listing: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
