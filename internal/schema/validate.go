package schema

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidationError describes one failed constraint on one parameter.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (value: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks params against the schema and returns every
// violation found: missing required parameters, type mismatches,
// numeric bounds, string patterns, enums, and formats. A nil or empty
// result means the parameters are valid.
func (s Schema) Validate(params map[string]any) []ValidationError {
	var errs []ValidationError

	for _, name := range s.Required {
		if _, present := params[name]; !present {
			errs = append(errs, ValidationError{
				Field:   name,
				Message: "required parameter is missing",
			})
		}
	}

	for name, value := range params {
		field, declared := s.Parameters[name]
		if !declared {
			// Undeclared parameters pass through untouched; the
			// handler decides whether to use them.
			continue
		}
		errs = append(errs, validateField(name, field, value)...)
	}

	return errs
}

func validateField(path string, field Field, value any) []ValidationError {
	actual := jsonTypeOf(value)
	if !typeMatches(field.Type, actual, value) {
		return []ValidationError{{
			Field:   path,
			Message: fmt.Sprintf("expected type %s, got %s", field.Type, actual),
			Value:   value,
		}}
	}

	var errs []ValidationError
	switch field.Type {
	case "string":
		errs = append(errs, validateString(path, field, value.(string))...)
	case "number", "integer":
		errs = append(errs, validateNumber(path, field, value)...)
	case "array":
		errs = append(errs, validateArray(path, field, value)...)
	}

	if len(field.Enum) > 0 {
		errs = append(errs, validateEnum(path, field, value)...)
	}
	return errs
}

func validateString(path string, field Field, str string) []ValidationError {
	var errs []ValidationError

	if field.Pattern != "" {
		matched, err := regexp.MatchString(field.Pattern, str)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("invalid pattern %q: %v", field.Pattern, err),
			})
		} else if !matched {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("value does not match pattern %s", field.Pattern),
				Value:   str,
			})
		}
	}

	if field.Format != "" {
		if msg := checkFormat(field.Format, str); msg != "" {
			errs = append(errs, ValidationError{Field: path, Message: msg, Value: str})
		}
	}
	return errs
}

func validateNumber(path string, field Field, value any) []ValidationError {
	num, ok := asFloat(value)
	if !ok {
		return nil
	}

	var errs []ValidationError
	if field.Type == "integer" && num != float64(int64(num)) {
		errs = append(errs, ValidationError{
			Field:   path,
			Message: "expected integer, got decimal number",
			Value:   value,
		})
	}
	if field.Minimum != nil && num < *field.Minimum {
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("value must be at least %v", *field.Minimum),
			Value:   value,
		})
	}
	if field.Maximum != nil && num > *field.Maximum {
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("value must be at most %v", *field.Maximum),
			Value:   value,
		})
	}
	return errs
}

func validateArray(path string, field Field, value any) []ValidationError {
	arr, ok := value.([]any)
	if !ok || field.Items == nil {
		return nil
	}
	var errs []ValidationError
	for i, item := range arr {
		errs = append(errs, validateField(fmt.Sprintf("%s[%d]", path, i), *field.Items, item)...)
	}
	return errs
}

func validateEnum(path string, field Field, value any) []ValidationError {
	str := fmt.Sprintf("%v", value)
	for _, allowed := range field.Enum {
		if str == allowed {
			return nil
		}
	}
	return []ValidationError{{
		Field:   path,
		Message: fmt.Sprintf("value must be one of: %s", strings.Join(field.Enum, ", ")),
		Value:   value,
	}}
}

func checkFormat(format, value string) string {
	switch format {
	case "uri", "url":
		if _, err := url.ParseRequestURI(value); err != nil {
			return "invalid URI format"
		}
	case "email":
		if _, err := mail.ParseAddress(value); err != nil {
			return "invalid email format"
		}
	case "date-time":
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return "invalid date-time format (expected RFC3339)"
		}
	case "uuid":
		if _, err := uuid.Parse(value); err != nil {
			return "invalid UUID format"
		}
	}
	return ""
}

// typeMatches allows whole-valued numbers to satisfy integer fields,
// mirroring JSON where all numbers arrive as float64.
func typeMatches(expected, actual string, value any) bool {
	if expected == actual {
		return true
	}
	if expected == "integer" && actual == "number" {
		if f, ok := asFloat(value); ok {
			return f == float64(int64(f))
		}
	}
	return false
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func jsonTypeOf(value any) string {
	if value == nil {
		return "null"
	}
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
