package common

import (
	"fmt"
	"math"
)

// StringArg extracts a required string argument from tool arguments.
func StringArg(args map[string]interface{}, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Errorf("%s is required", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return s, nil
}

// OptionalStringArg extracts an optional string argument, returning the
// default when absent.
func OptionalStringArg(args map[string]interface{}, name, defaultValue string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return defaultValue, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return s, nil
}

// OptionalBoolArg extracts an optional boolean argument, returning the
// default when absent.
func OptionalBoolArg(args map[string]interface{}, name string, defaultValue bool) (bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return defaultValue, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean", name)
	}
	return b, nil
}

// OptionalIntArg extracts an optional integer argument, returning the
// default when absent. JSON numbers arrive as float64, so whole floats
// are accepted.
func OptionalIntArg(args map[string]interface{}, name string, defaultValue int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return defaultValue, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", name)
	}
}

// OptionalFloatArg extracts an optional float argument, returning the
// default when absent.
func OptionalFloatArg(args map[string]interface{}, name string, defaultValue float64) (float64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return defaultValue, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}

// StringSliceArg extracts a required argument that may be a single string
// or an array of strings.
func StringSliceArg(args map[string]interface{}, name string) ([]string, error) {
	raw, ok := args[name]
	if !ok {
		return nil, fmt.Errorf("%s is required", name)
	}
	return ParseStringOrArray(raw, name)
}

// ParseStringOrArray parses a parameter that can be either a single string
// or an array of strings.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	var result []string

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		result = []string{v}
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}

	return result, nil
}
