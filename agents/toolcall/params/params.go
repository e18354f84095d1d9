/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package params

import (
	"fmt"
	"math"
)

// Extract extracts a required parameter from args with type safety.
// Returns an error if the parameter is missing, null, or cannot be converted to T.
func Extract[T string | int | int64 | float64 | bool](args Args, name string) (T, error) {
	var zero T

	value, exists := args[name]
	if !exists || value.IsNull() {
		return zero, fmt.Errorf("%s parameter is required", name)
	}

	if v, ok := convert[T](value); ok {
		return v, nil
	}

	return zero, fmt.Errorf("%s parameter must be of type %T, got %s", name, zero, value.Kind())
}

// ExtractOptional extracts an optional parameter with a default value.
// Missing and null parameters both yield the default; a value of the wrong
// kind is an error.
func ExtractOptional[T string | int | int64 | float64 | bool](args Args, name string, defaultValue T) (T, error) {
	value, exists := args[name]
	if !exists || value.IsNull() {
		return defaultValue, nil
	}

	if v, ok := convert[T](value); ok {
		return v, nil
	}

	var zero T
	return zero, fmt.Errorf("%s parameter must be of type %T, got %s", name, zero, value.Kind())
}

// convert handles the variant-to-Go conversions handlers need (int -> float widening,
// int64 -> int narrowing when it fits).
func convert[T string | int | int64 | float64 | bool](value Value) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		if s, ok := value.Str(); ok {
			return any(s).(T), true
		}
	case int:
		if i, ok := value.Int64(); ok && i >= math.MinInt && i <= math.MaxInt {
			return any(int(i)).(T), true
		}
	case int64:
		if i, ok := value.Int64(); ok {
			return any(i).(T), true
		}
	case float64:
		if f, ok := value.Float64(); ok {
			return any(f).(T), true
		}
	case bool:
		if b, ok := value.Boolean(); ok {
			return any(b).(T), true
		}
	}
	return zero, false
}

// Accepts reports whether a value of this kind satisfies a declared parameter
// type. An empty declared type accepts anything, null satisfies every type, and
// ints widen to float.
func Accepts(declared string, v Value) bool {
	if declared == "" || v.IsNull() {
		return true
	}
	switch declared {
	case "str":
		return v.Kind() == KindString
	case "int":
		return v.Kind() == KindInt
	case "float":
		return v.Kind() == KindFloat || v.Kind() == KindInt
	case "bool":
		return v.Kind() == KindBool
	default:
		return false
	}
}

// ValidType reports whether declared is a parameter type manifests may use.
func ValidType(declared string) bool {
	switch declared {
	case "", "str", "int", "float", "bool":
		return true
	default:
		return false
	}
}
