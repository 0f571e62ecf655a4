package executor

import "github.com/jgtolentino/pulser-mcp-sub000/internal/tool"

// Features flags the engine capabilities enabled by configuration.
type Features struct {
	BatchExecution bool `json:"batchExecution"`
	Caching        bool `json:"caching"`
	RateLimit      bool `json:"rateLimit"`
	Validation     bool `json:"validation"`
}

// Capabilities is the machine-readable introspection response listing
// every registered tool and its parameter schema.
type Capabilities struct {
	Capabilities []string          `json:"capabilities"`
	Tools        []tool.Descriptor `json:"tools"`
	Version      string            `json:"version"`
	Features     Features          `json:"features"`
}

// Capabilities builds the introspection response. It stays available
// even when individual tools are failing.
func (e *Executor) Capabilities() Capabilities {
	descriptors := e.registry.ListCapabilities()

	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}

	return Capabilities{
		Capabilities: names,
		Tools:        descriptors,
		Version:      e.cfg.Version,
		Features: Features{
			BatchExecution: e.cfg.BatchEnabled,
			Caching:        e.deps.Cache != nil,
			RateLimit:      e.deps.Limiter != nil,
			Validation:     true,
		},
	}
}
