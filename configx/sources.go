package configx

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Environment variables source
// ===========================

// EnvSource loads configuration from environment variables. With prefix "OCRSPACE_",
// OCRSPACE_IMAGE_FORMAT becomes the key "image.format". Values stay strings; Value does
// the conversion on read.
type EnvSource struct {
	prefix   string
	priority int
}

// NewEnvSource creates a new environment variable source
func NewEnvSource(prefix string, priority int) Source {
	return &EnvSource{prefix: prefix, priority: priority}
}

func (s *EnvSource) Load() (map[string]any, error) {
	result := make(map[string]any)
	for _, env := range os.Environ() {
		key, val, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if path, ok := keyPath(key, s.prefix); ok {
			setNested(result, path, val)
		}
	}
	return result, nil
}

func (s *EnvSource) Name() string {
	return fmt.Sprintf("env(%s)", s.prefix)
}

func (s *EnvSource) Priority() int {
	return s.priority
}

// DotEnv file source
// ===========================

// DotEnvSource loads configuration from a .env file using the same key mapping as EnvSource
type DotEnvSource struct {
	path     string
	prefix   string
	priority int
}

// NewDotEnvSource creates a new .env file source
func NewDotEnvSource(path, prefix string, priority int) Source {
	return &DotEnvSource{path: path, prefix: prefix, priority: priority}
}

func (s *DotEnvSource) Load() (map[string]any, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open .env file: %w", err)
	}
	defer file.Close()

	result := make(map[string]any)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		val = unquote(strings.TrimSpace(val))

		if path, ok := keyPath(key, s.prefix); ok {
			setNested(result, path, val)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}
	return result, nil
}

func (s *DotEnvSource) Name() string {
	return fmt.Sprintf("dotenv(%s)", s.path)
}

func (s *DotEnvSource) Priority() int {
	return s.priority
}

// Map Source implementation
// ===========================

// MapSource loads configuration from a map
type MapSource struct {
	values   map[string]any
	name     string
	priority int
}

// NewMapSource creates a new map source holding a copy of values
func NewMapSource(values map[string]any, name string, priority int) Source {
	return &MapSource{
		values:   deepCopyMap(values),
		name:     name,
		priority: priority,
	}
}

func (s *MapSource) Load() (map[string]any, error) {
	return deepCopyMap(s.values), nil
}

func (s *MapSource) Name() string {
	return s.name
}

func (s *MapSource) Priority() int {
	return s.priority
}

// keyPath maps SOME_ENV_KEY to [some env key] after stripping prefix
func keyPath(key, prefix string) ([]string, bool) {
	if prefix != "" {
		if !strings.HasPrefix(key, prefix) {
			return nil, false
		}
		key = strings.TrimPrefix(key, prefix)
	}
	key = strings.Trim(strings.ToLower(key), "_")
	if key == "" {
		return nil, false
	}
	return strings.Split(key, "_"), true
}

func unquote(v string) string {
	if len(v) > 1 && (v[0] == '"' && v[len(v)-1] == '"' || v[0] == '\'' && v[len(v)-1] == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}
