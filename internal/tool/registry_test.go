package tool

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/schema"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

func testDefinition(name string) *Definition {
	return &Definition{
		Name:        name,
		Description: "test tool " + name,
		Parameters:  schema.Object(nil),
		Handler: func(ctx context.Context, params map[string]any, opts Options) (map[string]any, error) {
			return map[string]any{"tool": name}, nil
		},
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry(nil)

	require.NoError(t, r.Register(testDefinition("alpha")))
	require.Equal(t, 1, r.Len())

	def, err := r.Lookup("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", def.Name)
}

func TestRegistryRegisterValidation(t *testing.T) {
	r := NewRegistry(nil)

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&Definition{Name: ""}))
	assert.Error(t, r.Register(&Definition{Name: "no-handler"}))
	assert.Equal(t, 0, r.Len())
}

func TestRegistryOverwriteReplacesAndWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewRegistry(logger)

	first := testDefinition("dup")
	first.Description = "first"
	second := testDefinition("dup")
	second.Description = "second"

	require.NoError(t, r.Register(first))
	require.NoError(t, r.Register(second))

	// Last writer wins and the registry holds a single entry.
	assert.Equal(t, 1, r.Len())
	def, err := r.Lookup("dup")
	require.NoError(t, err)
	assert.Equal(t, "second", def.Description)

	assert.Contains(t, buf.String(), "previous definition replaced")
}

func TestRegistryLookupUnknown(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Lookup("ghost")
	require.Error(t, err)
	assert.Equal(t, types.TOOL_NOT_FOUND, types.CodeOf(err))
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(testDefinition("gone")))

	require.NoError(t, r.Unregister("gone"))
	assert.Equal(t, 0, r.Len())

	err := r.Unregister("gone")
	assert.Equal(t, types.TOOL_NOT_FOUND, types.CodeOf(err))
}

func TestRegistryListCapabilitiesSorted(t *testing.T) {
	r := NewRegistry(nil)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(testDefinition(name)))
	}

	descriptors := r.ListCapabilities()
	require.Len(t, descriptors, 3)
	assert.Equal(t, "alpha", descriptors[0].Name)
	assert.Equal(t, "mid", descriptors[1].Name)
	assert.Equal(t, "zeta", descriptors[2].Name)
}

func TestDefinitionSkips(t *testing.T) {
	def := testDefinition("skippy")
	def.SkipStages = []Stage{StageCache, StageLogging}

	assert.True(t, def.Skips(StageCache))
	assert.True(t, def.Skips(StageLogging))
	assert.False(t, def.Skips(StageValidate))
	assert.False(t, def.Skips(StageRateLimit))
}
