package tool

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// Registry manages tool registration and discovery. All operations are
// safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]*Definition
	logger *slog.Logger
}

// NewRegistry creates an empty Registry. A nil logger falls back to
// slog.Default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]*Definition),
		logger: logger,
	}
}

// Register stores the definition under its name. Registering a name
// that already exists logs a warning and replaces the previous
// definition; the last writer wins and no error is returned for the
// overwrite.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return types.NewError(ErrToolInvalidInput, "definition cannot be nil")
	}
	if def.Name == "" {
		return types.NewError(ErrToolInvalidInput, "tool name cannot be empty")
	}
	if def.Handler == nil {
		return types.NewError(ErrToolInvalidInput, fmt.Sprintf("tool %q has no handler", def.Name))
	}

	r.mu.Lock()
	_, exists := r.tools[def.Name]
	r.tools[def.Name] = def
	r.mu.Unlock()

	if exists {
		r.logger.Warn("tool re-registered, previous definition replaced",
			"tool", def.Name)
	}
	return nil
}

// Unregister removes a tool by name. Returns TOOL_NOT_FOUND if the name
// is not registered.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return types.NewError(ErrToolNotFound, fmt.Sprintf("tool %q not found", name))
	}
	delete(r.tools, name)
	return nil
}

// Lookup returns the definition for name, or TOOL_NOT_FOUND.
func (r *Registry) Lookup(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.tools[name]
	if !exists {
		return nil, types.NewError(ErrToolNotFound, fmt.Sprintf("tool %q not found", name))
	}
	return def, nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// ListCapabilities returns descriptors for every registered tool,
// sorted by name for stable introspection output.
func (r *Registry) ListCapabilities() []Descriptor {
	r.mu.RLock()
	descriptors := make([]Descriptor, 0, len(r.tools))
	for _, def := range r.tools {
		descriptors = append(descriptors, def.Describe())
	}
	r.mu.RUnlock()

	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Name < descriptors[j].Name
	})
	return descriptors
}
