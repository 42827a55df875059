package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// lookup reads key and converts it with conv; unset keys yield the zero T.
func lookup[T any](c *Config, key string, conv func(any) T) T {
	v, ok := c.Get(key)
	if !ok {
		var zero T
		return zero
	}
	return conv(v)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func toInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case uint64:
		return int(val)
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(val))
		return i
	}
	return 0
}

func toBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(val)
		return b || (err != nil && strings.EqualFold(val, "yes"))
	}
	return false
}

func toDuration(v any) time.Duration {
	switch val := v.(type) {
	case time.Duration:
		return val
	case int:
		return time.Duration(val) * time.Second
	case float64:
		return time.Duration(val * float64(time.Second))
	case string:
		d, _ := time.ParseDuration(val)
		return d
	}
	return 0
}

func toStringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			out[i] = toString(item)
		}
		return out
	case string:
		return strings.Split(val, ",")
	}
	return nil
}

// cloneDocument deep-copies the maps and slices of a document so callers
// cannot reach the store's own values. Anything but a mapping yields an
// empty map.
func cloneDocument(v any) map[string]any {
	m, ok := cloneValue(v).(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
