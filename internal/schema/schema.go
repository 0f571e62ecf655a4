// Package schema models tool parameter schemas and validates call
// parameters against them before a handler ever runs.
package schema

// Schema describes the parameters a tool accepts. Parameters maps
// parameter name to its field definition; Required lists the parameter
// names that must be present on every call.
type Schema struct {
	Type       string           `json:"type"`
	Parameters map[string]Field `json:"properties,omitempty"`
	Required   []string         `json:"required,omitempty"`
}

// Field constrains a single parameter value.
type Field struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
	Format      string   `json:"format,omitempty"`
	Items       *Field   `json:"items,omitempty"`
}

// Object creates a parameter schema from fields and required names.
func Object(parameters map[string]Field, required ...string) Schema {
	return Schema{
		Type:       "object",
		Parameters: parameters,
		Required:   required,
	}
}

// String creates a string field.
func String(description string) Field {
	return Field{Type: "string", Description: description}
}

// Integer creates an integer field.
func Integer(description string) Field {
	return Field{Type: "integer", Description: description}
}

// Number creates a floating point field.
func Number(description string) Field {
	return Field{Type: "number", Description: description}
}

// Boolean creates a boolean field.
func Boolean(description string) Field {
	return Field{Type: "boolean", Description: description}
}

// Array creates an array field with the given item schema.
func Array(description string, items Field) Field {
	return Field{Type: "array", Description: description, Items: &items}
}

// WithDefault sets the value applied when the parameter is absent.
func (f Field) WithDefault(value any) Field {
	f.Default = value
	return f
}

// WithEnum restricts the field to the given values.
func (f Field) WithEnum(values ...string) Field {
	f.Enum = values
	return f
}

// WithMin sets the inclusive lower bound for numeric fields.
func (f Field) WithMin(min float64) Field {
	f.Minimum = &min
	return f
}

// WithMax sets the inclusive upper bound for numeric fields.
func (f Field) WithMax(max float64) Field {
	f.Maximum = &max
	return f
}

// WithPattern sets a regular expression constraint for string fields.
func (f Field) WithPattern(pattern string) Field {
	f.Pattern = pattern
	return f
}

// WithFormat sets a named format constraint (uri, email, date-time, uuid).
func (f Field) WithFormat(format string) Field {
	f.Format = format
	return f
}

// IsRequired reports whether name appears in the schema's required list.
func (s Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// ApplyDefaults returns params with declared defaults filled in for
// absent optional parameters. The input map is not mutated.
func (s Schema) ApplyDefaults(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	for name, field := range s.Parameters {
		if field.Default == nil {
			continue
		}
		if _, present := out[name]; !present {
			out[name] = field.Default
		}
	}
	return out
}
