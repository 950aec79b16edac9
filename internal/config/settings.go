package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/bugtrack/b/internal/storage"
)

// Settings is the content of one settings file. Dotted keys such as
// "list.sort" are stored as TOML tables.
type Settings map[string]interface{}

// LoadSettings reads the settings file at path. A missing file yields an
// empty Settings.
func LoadSettings(path string) (Settings, error) {
	s := Settings{}
	data, err := os.ReadFile(path) // #nosec G304 - user settings file
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path.
func (s Settings) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]interface{}(s)); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return storage.WriteFile(path, buf.Bytes())
}

// Get returns the value of a dotted key.
func (s Settings) Get(key string) (interface{}, bool) {
	parts := strings.Split(key, ".")
	var cur interface{} = map[string]interface{}(s)
	for _, p := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = m[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores value under a dotted key, creating tables as needed.
func (s Settings) Set(key string, value interface{}) {
	parts := strings.Split(key, ".")
	m := map[string]interface{}(s)
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// Unset removes a dotted key, dropping tables left empty. It reports
// whether the key was present.
func (s Settings) Unset(key string) bool {
	return unset(map[string]interface{}(s), strings.Split(key, "."))
}

func unset(m map[string]interface{}, parts []string) bool {
	if len(parts) == 1 {
		_, ok := m[parts[0]]
		delete(m, parts[0])
		return ok
	}
	child, ok := m[parts[0]].(map[string]interface{})
	if !ok {
		return false
	}
	removed := unset(child, parts[1:])
	if len(child) == 0 {
		delete(m, parts[0])
	}
	return removed
}

// Flatten returns every setting as dotted key to value, sorted by key.
func (s Settings) Flatten() []KeyValue {
	var out []KeyValue
	var walk func(prefix string, m map[string]interface{})
	walk = func(prefix string, m map[string]interface{}) {
		for k, val := range m {
			name := k
			if prefix != "" {
				name = prefix + "." + k
			}
			if child, ok := val.(map[string]interface{}); ok {
				walk(name, child)
				continue
			}
			out = append(out, KeyValue{Key: name, Value: val})
		}
	}
	walk("", s)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// KeyValue is one flattened setting.
type KeyValue struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}
