package config

import (
	"errors"
	"strings"
)

// ErrNotMapping is returned when a loaded document is not a mapping.
var ErrNotMapping = errors.New("config: document root is not a mapping")

// ValidationError lists required keys that have no value or default.
type ValidationError struct {
	MissingKeys []string
}

func (e *ValidationError) Error() string {
	return "config: missing required keys: " + strings.Join(e.MissingKeys, ", ")
}
