package configx

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config represents the main configuration interface
type Config interface {
	// Get retrieves a configuration value by dotted key
	Get(key string) Value

	// Set sets a configuration value
	Set(key string, val any)

	// Has checks if a configuration key exists
	Has(key string) bool

	// AllSettings returns a copy of all settings
	AllSettings() map[string]any

	// AddSource adds a configuration source and merges it immediately
	AddSource(source Source) Config
}

// Source represents a configuration source
type Source interface {
	// Load loads configuration values from the source
	Load() (map[string]any, error)

	// Name returns the name of the source
	Name() string

	// Priority returns the priority of the source (higher values override lower)
	Priority() int
}

// Value wraps a configuration value and provides type conversion methods
type Value interface {
	IsSet() bool
	AsString() string
	AsStringDefault(def string) string
	AsInt() int
	AsIntDefault(def int) int
	AsBool() bool
	AsBoolDefault(def bool) bool
	AsDuration() time.Duration
	AsDurationDefault(def time.Duration) time.Duration
	AsStruct(target any) error
}

// Option is a function that configures a configuration
type Option func(*configuration)

const (
	PriorityDefault = 10
	PriorityEnv     = 20
	PriorityDotEnv  = 25
	PriorityMap     = 40
)

type configuration struct {
	sync.RWMutex
	values    map[string]any
	overrides map[string]any
	sources   []Source
}

// New creates a new Config instance
func New(opts ...Option) Config {
	cfg := &configuration{
		values:    make(map[string]any),
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithSource adds a configuration source
func WithSource(source Source) Option {
	return func(c *configuration) {
		c.AddSource(source)
	}
}

func (c *configuration) Get(key string) Value {
	c.RLock()
	defer c.RUnlock()
	return newValue(key, c.findValue(key))
}

func (c *configuration) findValue(key string) any {
	current := c.values
	parts := strings.Split(key, ".")
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil
		}
		if i == len(parts)-1 {
			return v
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		current = m
	}
	return nil
}

func (c *configuration) Set(key string, val any) {
	c.Lock()
	defer c.Unlock()
	path := strings.Split(key, ".")
	setNested(c.values, path, val)
	setNested(c.overrides, path, val)
}

func (c *configuration) Has(key string) bool {
	c.RLock()
	defer c.RUnlock()
	return c.findValue(key) != nil
}

func (c *configuration) AllSettings() map[string]any {
	c.RLock()
	defer c.RUnlock()
	return deepCopyMap(c.values)
}

// AddSource registers a source and rebuilds the merged view in priority order.
// Sources that fail to load are skipped, so optional files may be missing.
// Values written with Set always win.
func (c *configuration) AddSource(source Source) Config {
	c.Lock()
	defer c.Unlock()

	c.sources = append(c.sources, source)
	sort.SliceStable(c.sources, func(i, j int) bool {
		return c.sources[i].Priority() < c.sources[j].Priority()
	})

	merged := make(map[string]any)
	for _, s := range c.sources {
		data, err := s.Load()
		if err != nil {
			continue
		}
		mergeMapRecursive(merged, data)
	}
	mergeMapRecursive(merged, c.overrides)
	c.values = merged
	return c
}

// setNested sets val at the path, creating intermediate maps as needed
func setNested(dst map[string]any, path []string, val any) {
	current := dst
	for i, part := range path {
		if i == len(path)-1 {
			current[part] = val
			return
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
}

func mergeMapRecursive(dst, src map[string]any) {
	for k, v := range src {
		srcMap, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		if dstMap, ok := dst[k].(map[string]any); ok {
			mergeMapRecursive(dstMap, srcMap)
			continue
		}
		dst[k] = deepCopyMap(srcMap)
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			result[k] = deepCopyMap(nested)
			continue
		}
		result[k] = v
	}
	return result
}

//-----------------------------------------------------------------------------
// Value implementation
//-----------------------------------------------------------------------------

type value struct {
	key string
	val any
}

func newValue(key string, val any) Value {
	return &value{key: key, val: val}
}

func (v *value) IsSet() bool {
	return v.val != nil
}

func (v *value) AsString() string {
	return v.AsStringDefault("")
}

func (v *value) AsStringDefault(def string) string {
	switch val := v.val.(type) {
	case nil:
		return def
	case string:
		return val
	case int, int64, float64, bool:
		return fmt.Sprintf("%v", val)
	default:
		return def
	}
}

func (v *value) AsInt() int {
	return v.AsIntDefault(0)
}

func (v *value) AsIntDefault(def int) int {
	switch val := v.val.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return i
		}
	}
	return def
}

func (v *value) AsBool() bool {
	return v.AsBoolDefault(false)
}

func (v *value) AsBoolDefault(def bool) bool {
	switch val := v.val.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "yes", "y":
			return true
		case "no", "n":
			return false
		}
	}
	return def
}

func (v *value) AsDuration() time.Duration {
	return v.AsDurationDefault(0)
}

// AsDurationDefault parses Go duration strings; bare numbers are milliseconds
func (v *value) AsDurationDefault(def time.Duration) time.Duration {
	switch val := v.val.(type) {
	case time.Duration:
		return val
	case int, int64, float64:
		return time.Duration(v.AsInt()) * time.Millisecond
	case string:
		if d, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return d
		}
		if ms, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func (v *value) AsStruct(target any) error {
	if !v.IsSet() {
		return fmt.Errorf("value %q not set", v.key)
	}
	data, err := json.Marshal(v.val)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to JSON: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal configuration to struct: %w", err)
	}
	return nil
}

//-----------------------------------------------------------------------------
// Builder
//-----------------------------------------------------------------------------

// Builder provides a fluent API for building configuration
type Builder interface {
	FromEnv(prefix string) Builder
	FromDotEnv(path, prefix string) Builder
	FromMap(values map[string]any, name string) Builder
	WithDefaults(defaults map[string]any) Builder
	RequireEnv(envVars ...string) Builder
	Build() (Config, error)
}

type builder struct {
	sources     []Source
	requiredEnv []string
}

// NewBuilder creates a new configuration builder
func NewBuilder() Builder {
	return &builder{}
}

func (b *builder) FromEnv(prefix string) Builder {
	b.sources = append(b.sources, NewEnvSource(prefix, PriorityEnv))
	return b
}

func (b *builder) FromDotEnv(path, prefix string) Builder {
	b.sources = append(b.sources, NewDotEnvSource(path, prefix, PriorityDotEnv))
	return b
}

func (b *builder) FromMap(values map[string]any, name string) Builder {
	b.sources = append(b.sources, NewMapSource(values, name, PriorityMap))
	return b
}

func (b *builder) WithDefaults(defaults map[string]any) Builder {
	b.sources = append(b.sources, NewMapSource(defaults, "defaults", PriorityDefault))
	return b
}

func (b *builder) RequireEnv(envVars ...string) Builder {
	b.requiredEnv = append(b.requiredEnv, envVars...)
	return b
}

func (b *builder) Build() (Config, error) {
	var missing []string
	for _, env := range b.requiredEnv {
		if os.Getenv(env) == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	opts := make([]Option, 0, len(b.sources))
	for _, s := range b.sources {
		opts = append(opts, WithSource(s))
	}
	return New(opts...), nil
}
