package common

import (
	"fmt"
	"math"
	"time"
)

// ParseStringOrArray parses a parameter that can be either a single string or an array of strings
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

// ParseIntOrArray parses a parameter that can be a single number or an array
// of numbers. JSON numbers arrive as float64 and must be whole.
func ParseIntOrArray(param interface{}, paramName string) ([]int, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	toInt := func(v interface{}, label string) (int, error) {
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return 0, fmt.Errorf("%s must be a whole number", label)
		}
		return int(f), nil
	}

	switch v := param.(type) {
	case float64:
		n, err := toInt(v, paramName)
		if err != nil {
			return nil, err
		}
		return []int{n}, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		result := make([]int, 0, len(v))
		for i, item := range v {
			n, err := toInt(item, fmt.Sprintf("%s[%d]", paramName, i))
			if err != nil {
				return nil, err
			}
			result = append(result, n)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%s must be a number or array of numbers", paramName)
	}
}

// IntArg returns a whole-number argument, or def when it is absent.
func IntArg(args map[string]interface{}, name string, def int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	f, ok := raw.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	return int(f), nil
}

// BoolArg returns a boolean argument, or def when it is absent.
func BoolArg(args map[string]interface{}, name string, def bool) (bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean", name)
	}
	return b, nil
}

// TimeArg parses a required RFC3339 argument.
func TimeArg(args map[string]interface{}, name string) (time.Time, error) {
	s, ok := args[name].(string)
	if !ok || s == "" {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("Invalid %s format: %v", name, err)
	}
	return t, nil
}
