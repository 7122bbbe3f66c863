package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/zero-day-ai/metaprop/codec"
	"github.com/zero-day-ai/metaprop/property"
)

// Draft is the $schema URI of exported root schemas.
const Draft = "http://json-schema.org/draft-07/schema#"

// JSON represents a JSON Schema definition.
type JSON struct {
	Schema               string          `json:"$schema,omitempty"`
	Title                string          `json:"title,omitempty"`
	Type                 string          `json:"type,omitempty"`
	Format               string          `json:"format,omitempty"`
	Properties           map[string]JSON `json:"properties,omitempty"`
	AdditionalProperties *JSON           `json:"additionalProperties,omitempty"`
	Required             []string        `json:"required,omitempty"`
	Items                *JSON           `json:"items,omitempty"`
	Enum                 []any           `json:"enum,omitempty"`
	Not                  *JSON           `json:"not,omitempty"`
	Minimum              *float64        `json:"minimum,omitempty"`
	Maximum              *float64        `json:"maximum,omitempty"`
	ExclusiveMinimum     *float64        `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum     *float64        `json:"exclusiveMaximum,omitempty"`
	MinLength            *int            `json:"minLength,omitempty"`
	MaxLength            *int            `json:"maxLength,omitempty"`
	MinItems             *int            `json:"minItems,omitempty"`
	MaxItems             *int            `json:"maxItems,omitempty"`
	MinProperties        *int            `json:"minProperties,omitempty"`
	MaxProperties        *int            `json:"maxProperties,omitempty"`
	Pattern              string          `json:"pattern,omitempty"`

	IntegerDigits  *int `json:"x-integerDigits,omitempty"`
	FractionDigits *int `json:"x-fractionDigits,omitempty"`
	Past           bool `json:"x-past,omitempty"`
	Future         bool `json:"x-future,omitempty"`
}

// String creates a JSON schema for a string type.
func String() JSON {
	return JSON{Type: "string"}
}

// Int creates a JSON schema for an integer type.
func Int() JSON {
	return JSON{Type: "integer"}
}

// Number creates a JSON schema for a number type.
func Number() JSON {
	return JSON{Type: "number"}
}

// Bool creates a JSON schema for a boolean type.
func Bool() JSON {
	return JSON{Type: "boolean"}
}

// Array creates a JSON schema for an array type with the specified item schema.
func Array(items JSON) JSON {
	return JSON{Type: "array", Items: &items}
}

// Object creates a JSON schema for an object type with the specified properties and required fields.
func Object(properties map[string]JSON, required ...string) JSON {
	return JSON{Type: "object", Properties: properties, Required: required}
}

// Validate validates the given value against this JSON schema. Document values from
// package codec are accepted as they are.
func (s JSON) Validate(value any) error {
	return s.validate(codec.Plain(value))
}

func (s JSON) validate(value any) error {
	if value == nil {
		if s.Type != "" {
			return fmt.Errorf("expected type %s, got nil", s.Type)
		}
		return nil
	}

	if len(s.Enum) > 0 && !contains(s.Enum, value) {
		return fmt.Errorf("value %v is not one of the allowed values: %v", value, s.Enum)
	}
	if s.Not != nil && len(s.Not.Enum) > 0 && contains(s.Not.Enum, value) {
		return fmt.Errorf("value %v is not allowed", value)
	}

	switch s.Type {
	case "string":
		return s.validateString(value)
	case "integer":
		return s.validateNumber(value, true)
	case "number":
		return s.validateNumber(value, false)
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case "array":
		return s.validateArray(value)
	case "object":
		return s.validateObject(value)
	}
	return nil
}

func (s JSON) validateString(value any) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}

	n := utf8.RuneCountInString(str)
	if s.MinLength != nil && n < *s.MinLength {
		return fmt.Errorf("string length %d is less than minimum %d", n, *s.MinLength)
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		return fmt.Errorf("string length %d is greater than maximum %d", n, *s.MaxLength)
	}

	if s.Pattern != "" {
		matched, err := regexp.MatchString(s.Pattern, str)
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("string does not match pattern %s", s.Pattern)
		}
	}
	return checkFormat(s.Format, str)
}

var emailFormat = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func checkFormat(format, str string) error {
	var err error
	switch format {
	case "email":
		if !emailFormat.MatchString(str) {
			return fmt.Errorf("string %q is not an email address", str)
		}
	case "date":
		_, err = time.Parse(property.LayoutDate, str)
	case "time":
		_, err = time.Parse(property.LayoutTime, str)
	case "date-time":
		if _, err = time.Parse(time.RFC3339Nano, str); err != nil {
			_, err = time.Parse(property.LayoutDateTime, str)
		}
	}
	if err != nil {
		return fmt.Errorf("string %q is not a valid %s: %w", str, format, err)
	}
	return nil
}

func (s JSON) validateNumber(value any, integral bool) error {
	var num float64
	switch v := value.(type) {
	case int64:
		num = float64(v)
	case float64:
		if integral && v != float64(int64(v)) {
			return fmt.Errorf("expected integer, got float with decimal: %v", value)
		}
		num = v
	default:
		return fmt.Errorf("expected number, got %T", value)
	}

	if s.Minimum != nil && num < *s.Minimum {
		return fmt.Errorf("value %v is less than minimum %v", num, *s.Minimum)
	}
	if s.Maximum != nil && num > *s.Maximum {
		return fmt.Errorf("value %v is greater than maximum %v", num, *s.Maximum)
	}
	if s.ExclusiveMinimum != nil && num <= *s.ExclusiveMinimum {
		return fmt.Errorf("value %v must be greater than %v", num, *s.ExclusiveMinimum)
	}
	if s.ExclusiveMaximum != nil && num >= *s.ExclusiveMaximum {
		return fmt.Errorf("value %v must be less than %v", num, *s.ExclusiveMaximum)
	}
	return nil
}

func (s JSON) validateArray(value any) error {
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("expected array, got %T", value)
	}
	if s.MinItems != nil && len(items) < *s.MinItems {
		return fmt.Errorf("array has %d items, minimum is %d", len(items), *s.MinItems)
	}
	if s.MaxItems != nil && len(items) > *s.MaxItems {
		return fmt.Errorf("array has %d items, maximum is %d", len(items), *s.MaxItems)
	}
	if s.Items != nil {
		for i, item := range items {
			if err := s.Items.validate(item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

func (s JSON) validateObject(value any) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", value)
	}
	if s.MinProperties != nil && len(obj) < *s.MinProperties {
		return fmt.Errorf("object has %d properties, minimum is %d", len(obj), *s.MinProperties)
	}
	if s.MaxProperties != nil && len(obj) > *s.MaxProperties {
		return fmt.Errorf("object has %d properties, maximum is %d", len(obj), *s.MaxProperties)
	}

	for _, req := range s.Required {
		if _, exists := obj[req]; !exists {
			return fmt.Errorf("required field %s is missing", req)
		}
	}

	for key, val := range obj {
		if val == nil {
			if slices.Contains(s.Required, key) {
				return fmt.Errorf("required field %s is null", key)
			}
			continue
		}
		if propSchema, exists := s.Properties[key]; exists {
			if err := propSchema.validate(val); err != nil {
				return fmt.Errorf("property %s: %w", key, err)
			}
			continue
		}
		if s.AdditionalProperties != nil {
			if err := s.AdditionalProperties.validate(val); err != nil {
				return fmt.Errorf("property %s: %w", key, err)
			}
		}
	}
	return nil
}

// contains compares candidates with plain document values, so integer candidates match
// int64 values regardless of their Go type.
func contains(candidates []any, value any) bool {
	for _, c := range candidates {
		if reflect.DeepEqual(codec.Plain(normalize(c)), value) {
			return true
		}
	}
	return false
}

func normalize(v any) any {
	n, err := codec.Normalize(v)
	if err != nil {
		return v
	}
	return n
}
