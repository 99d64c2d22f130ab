// internal/params/params.go
package params

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrType reports a stored value whose type does not match the default.
var ErrType = errors.New("params: wrong type")

// Store is a flat key/value store of behaviour tuning parameters.
//
// Typed getters insert the default on first use so that a saved file lists
// every parameter a behaviour consults. A stored value of the wrong type
// leaves the default in effect and is reported by Err.
type Store struct {
	path    string
	values  map[string]any
	changed bool
	err     error
}

// New returns an empty in-memory store. Save is a no-op.
func New() *Store {
	return &Store{values: make(map[string]any)}
}

// Load reads path. A missing file yields an empty store that will be
// written on Save. Files may be YAML or JSON.
func Load(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]any)}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.changed = true
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("params: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &s.values); err != nil {
		return nil, fmt.Errorf("params: parse %s: %w", path, err)
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

// Err returns the first type mismatch seen by a getter.
func (s *Store) Err() error { return s.err }

// Changed reports unsaved modifications.
func (s *Store) Changed() bool { return s.changed }

// Keys returns the stored keys in order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set stores v under key.
func (s *Store) Set(key string, v any) {
	s.values[key] = v
	s.changed = true
}

// Get returns the raw value, inserting def if absent.
func (s *Store) Get(key string, def any) any {
	if v, ok := s.values[key]; ok {
		return v
	}
	s.Set(key, def)
	return def
}

func (s *Store) mismatch(key string, v any, want string) {
	if s.err == nil {
		s.err = fmt.Errorf("%w: %s is %T, want %s", ErrType, key, v, want)
	}
}

func (s *Store) Float(key string, def float64) float64 {
	v := s.Get(key, def)
	f, ok := toFloat(v)
	if !ok {
		s.mismatch(key, v, "number")
		return def
	}
	return f
}

func (s *Store) Int(key string, def int) int {
	v := s.Get(key, def)
	f, ok := toFloat(v)
	if !ok || f != float64(int(f)) {
		s.mismatch(key, v, "integer")
		return def
	}
	return int(f)
}

func (s *Store) Bool(key string, def bool) bool {
	v := s.Get(key, def)
	b, ok := v.(bool)
	if !ok {
		s.mismatch(key, v, "bool")
		return def
	}
	return b
}

func (s *Store) String(key string, def string) string {
	v := s.Get(key, def)
	str, ok := v.(string)
	if !ok {
		s.mismatch(key, v, "string")
		return def
	}
	return str
}

// Floats reads a numeric list. The stored list must have len(def) entries.
func (s *Store) Floats(key string, def []float64) []float64 {
	v := s.Get(key, def)
	switch list := v.(type) {
	case []float64:
		if len(list) == len(def) {
			return append([]float64(nil), list...)
		}
	case []any:
		if len(list) == len(def) {
			out := make([]float64, len(list))
			for i, e := range list {
				f, ok := toFloat(e)
				if !ok {
					s.mismatch(key, v, "number list")
					return def
				}
				out[i] = f
			}
			return out
		}
	}
	s.mismatch(key, v, fmt.Sprintf("list of %d numbers", len(def)))
	return def
}

// Save writes the store if it changed since the last load or save.
func (s *Store) Save() error {
	if !s.changed || s.path == "" {
		return nil
	}
	b, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("params: encode: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("params: write %s: %w", s.path, err)
	}
	s.changed = false
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
