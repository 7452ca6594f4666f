// Package validation implements the declarative requirement validator shared
// by every deliverable computer. Schemas are flat lists of field specs; the
// validator reports every violation with a dotted, index-qualified path and
// never stops at the first failure.
package validation

import (
	"fmt"
	"math"
)

// FieldType enumerates the scalar and composite types a field spec can require.
type FieldType string

const (
	TypeString      FieldType = "string"
	TypeNumber      FieldType = "number"
	TypeBool        FieldType = "boolean"
	TypeArray       FieldType = "array"
	TypeStringArray FieldType = "string_array"
	TypeObjectArray FieldType = "object_array"
	TypeObject      FieldType = "object"
)

// FieldSpec describes one requirement field. Optional fields are only
// type-checked when present; absence is not an error. Elem carries the
// sub-schema for object arrays and nested objects.
type FieldSpec struct {
	Name     string
	Type     FieldType
	Optional bool
	Elem     Schema
}

// Schema is the ordered field-spec list for one job kind.
type Schema []FieldSpec

// Error is a single field-level validation failure.
type Error struct {
	Message string `json:"message"`
	Field   string `json:"field"`
}

// Validate checks input against schema and returns the complete ordered error
// sequence. A nil input map is treated as empty, so every required field is
// reported missing.
func Validate(input map[string]interface{}, schema Schema) []Error {
	var errs []Error
	for _, spec := range schema {
		errs = append(errs, validateField(input, spec.Name, spec)...)
	}
	return errs
}

func validateField(input map[string]interface{}, path string, spec FieldSpec) []Error {
	value, present := input[spec.Name]
	if !present || value == nil {
		if spec.Optional {
			return nil
		}
		return []Error{{
			Message: fmt.Sprintf("missing required field of type %s", spec.Type),
			Field:   path,
		}}
	}
	return checkType(value, path, spec)
}

func checkType(value interface{}, path string, spec FieldSpec) []Error {
	switch spec.Type {
	case TypeString:
		if _, ok := value.(string); !ok {
			return typeError(path, "string", value)
		}

	case TypeNumber:
		n, ok := asNumber(value)
		if !ok {
			return typeError(path, "number", value)
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return []Error{{Message: "must be a finite number", Field: path}}
		}

	case TypeBool:
		if _, ok := value.(bool); !ok {
			return typeError(path, "boolean", value)
		}

	case TypeArray:
		if _, ok := value.([]interface{}); !ok {
			return typeError(path, "array", value)
		}

	case TypeStringArray:
		arr, ok := value.([]interface{})
		if !ok {
			return typeError(path, "array", value)
		}
		var errs []Error
		for i, item := range arr {
			if _, ok := item.(string); !ok {
				errs = append(errs, Error{
					Message: fmt.Sprintf("expected string, got %T", item),
					Field:   fmt.Sprintf("%s[%d]", path, i),
				})
			}
		}
		return errs

	case TypeObjectArray:
		arr, ok := value.([]interface{})
		if !ok {
			return typeError(path, "array", value)
		}
		var errs []Error
		for i, item := range arr {
			obj, ok := item.(map[string]interface{})
			if !ok {
				errs = append(errs, Error{
					Message: fmt.Sprintf("expected object, got %T", item),
					Field:   fmt.Sprintf("%s[%d]", path, i),
				})
				continue
			}
			for _, sub := range spec.Elem {
				errs = append(errs, validateField(obj, fmt.Sprintf("%s[%d].%s", path, i, sub.Name), sub)...)
			}
		}
		return errs

	case TypeObject:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return typeError(path, "object", value)
		}
		var errs []Error
		for _, sub := range spec.Elem {
			errs = append(errs, validateField(obj, path+"."+sub.Name, sub)...)
		}
		return errs
	}
	return nil
}

func typeError(path, want string, got interface{}) []Error {
	return []Error{{
		Message: fmt.Sprintf("expected %s, got %T", want, got),
		Field:   path,
	}}
}

func asNumber(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}
