// Package config provides layered configuration built on lenses.
//
// Values live in a nested document of map[string]any. Keys are path
// expressions understood by lens.ParsePath ("server.tls.cert",
// "listeners[0].port"); writes go through lens.Set, so every write yields
// a new document that shares untouched branches with the previous one and
// earlier snapshots never change.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/authcorp/optics/codec"
	"github.com/authcorp/optics/lens"
)

// Config holds configuration values.
type Config struct {
	mu       sync.RWMutex
	values   any
	defaults any
	logger   *slog.Logger
}

// New creates a new empty Config.
func New() *Config {
	return &Config{logger: slog.New(slog.DiscardHandler)}
}

// WithLogger sets the logger used for load events.
func (c *Config) WithLogger(logger *slog.Logger) *Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
	return c
}

// WithDefaults sets default values. Keys may be paths.
func (c *Config) WithDefaults(defaults map[string]any) *Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range defaults {
		c.defaults = lens.Set(keyLens(k), v, c.defaults)
	}
	return c
}

// LoadFile loads configuration from a JSON or YAML file and merges it
// over the current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := c.LoadBytes(data, codec.FormatFromPath(path)); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadBytes decodes a document and merges it over the current values.
// The document root must be a mapping.
func (c *Config) LoadBytes(data []byte, format codec.Format) error {
	doc, err := codec.DecodeDocument(data, format)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: got %T", ErrNotMapping, doc)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	c.values = merge(c.values, root, nil, &n)
	c.logger.Info("config loaded", "format", string(format), "keys", n)
	return nil
}

// LoadEnv loads configuration from environment variables with prefix.
// APP_SERVER_PORT with prefix APP becomes server.port.
func (c *Config) LoadEnv(prefix string) *Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if prefix != "" && !strings.HasPrefix(key, prefix+"_") {
			continue
		}
		configKey := strings.ToLower(strings.ReplaceAll(
			strings.TrimPrefix(key, prefix+"_"), "_", "."))
		c.values = lens.Set(keyLens(configKey), any(value), c.values)
		n++
	}
	c.logger.Debug("config env applied", "prefix", prefix, "keys", n)
	return c
}

// Set sets a configuration value.
func (c *Config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = lens.Set(keyLens(key), value, c.values)
}

// Update replaces the value at key with fn applied to the current value,
// falling back to the default when the key is unset.
func (c *Config) Update(key string, fn func(any) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l := keyLens(key)
	current := lens.View(l, c.values)
	if current == nil {
		current = lens.View(l, c.defaults)
	}
	c.values = lens.Set(l, fn(current), c.values)
}

// Get returns a configuration value.
func (c *Config) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l := keyLens(key)
	if v := lens.View(l, c.values); v != nil {
		return v, true
	}
	if v := lens.View(l, c.defaults); v != nil {
		return v, true
	}
	return nil, false
}

// GetString returns a string configuration value.
func (c *Config) GetString(key string) string {
	return lookup(c, key, toString)
}

// GetInt returns an int configuration value.
func (c *Config) GetInt(key string) int {
	return lookup(c, key, toInt)
}

// GetBool returns a bool configuration value.
func (c *Config) GetBool(key string) bool {
	return lookup(c, key, toBool)
}

// GetDuration returns a duration configuration value. Integers are
// seconds; strings use time.ParseDuration.
func (c *Config) GetDuration(key string) time.Duration {
	return lookup(c, key, toDuration)
}

// GetStringSlice returns a string slice configuration value.
func (c *Config) GetStringSlice(key string) []string {
	return lookup(c, key, toStringSlice)
}

// Validate checks that required keys are present.
func (c *Config) Validate(required ...string) error {
	missing := slices.DeleteFunc(slices.Clone(required), func(key string) bool {
		_, ok := c.Get(key)
		return ok
	})
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{MissingKeys: missing}
}

// Snapshot returns a copy of the current values document without
// defaults.
func (c *Config) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneDocument(c.values)
}

// All returns a copy of the defaults overlaid with values.
func (c *Config) All() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var result any
	if d, ok := c.defaults.(map[string]any); ok {
		result = d
	}
	if v, ok := c.values.(map[string]any); ok {
		result = merge(result, v, nil, new(int))
	}
	return cloneDocument(result)
}

// Unmarshal decodes the subtree at key, with defaults applied, into out.
// An empty key decodes the whole document.
func (c *Config) Unmarshal(key string, out any) error {
	var sub any = c.All()
	if key != "" {
		sub = lens.View(keyLens(key), sub)
	}
	yc := codec.NewYAMLCodec()
	data, err := yc.Encode(sub)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := yc.Decode(data, out); err != nil {
		return fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return nil
}

// keyLens resolves a key to a lens. A key that is not a valid path
// expression addresses a single top-level member verbatim.
func keyLens(key string) lens.Lens[any, any] {
	keys, err := lens.ParsePath(key)
	if err != nil {
		return lens.Key(key)
	}
	return lens.Path(keys...)
}

// merge writes every leaf of src into dst under prefix.
func merge(dst any, src map[string]any, prefix []string, n *int) any {
	for k, v := range src {
		path := append(prefix[:len(prefix):len(prefix)], k)
		if m, ok := v.(map[string]any); ok && len(m) > 0 {
			dst = merge(dst, m, path, n)
			continue
		}
		dst = lens.Set(lens.Path(path...), v, dst)
		*n++
	}
	return dst
}
