// Package storage provides shared types for record storage.
//
// The concrete on-disk formats live in the flatfile and recordfile
// sub-packages. This package holds the Format interface, the error
// taxonomy, and the helpers used to detect which format a store uses.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/bugtrack/b/internal/types"
)

// Store layout names, relative to the store directory.
const (
	IndexFile    = "bugs"
	DetailsDir   = "details"
	TemplatesDir = "templates"
	SettingsFile = "settings.toml"

	ExtText       = ".txt"
	ExtMarkdown   = ".md"
	ExtStructured = ".yaml"
)

// Version identifies one historical on-disk layout of a store.
type Version int

const (
	// FormatText: flat index plus details/<id>.txt with [section] headers.
	FormatText Version = iota + 1
	// FormatMarkdown: flat index plus details/<id>.md with "## Section" headers.
	FormatMarkdown
	// FormatStructured: flat index plus details/<id>.yaml.
	FormatStructured
	// FormatRootStructured: flat index plus <id>.yaml in the store root.
	FormatRootStructured
	// FormatRecords: one self-contained <id>.yaml per record, no index.
	FormatRecords
)

// Latest is the layout used for newly created stores.
const Latest = FormatRecords

func (v Version) String() string {
	switch v {
	case FormatText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	case FormatStructured:
		return "structured"
	case FormatRootStructured:
		return "root-structured"
	case FormatRecords:
		return "records"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// Format is one on-disk representation of a store.
// Implementations must round-trip every field of types.Record that their
// layout can hold.
type Format interface {
	Version() Version

	// Load reads every record in the store. A missing directory yields no
	// records and no error.
	Load(ctx context.Context, dir string) ([]*types.Record, error)

	// Save persists the store after a mutation. touched is the record that
	// changed, or nil when every record must be written.
	Save(ctx context.Context, dir string, all []*types.Record, touched *types.Record) error

	// DetailsPath is the file holding the details of the record.
	DetailsPath(dir, id string) string
}

// Detect reports the layout of the store in dir from the artifacts present.
// An absent or empty store reports Latest.
func Detect(dir string) (Version, error) {
	if _, err := os.Stat(filepath.Join(dir, IndexFile)); err != nil {
		if os.IsNotExist(err) {
			return Latest, nil
		}
		return 0, fmt.Errorf("failed to stat index: %w", err)
	}

	if has(dir, "*"+ExtStructured) {
		return FormatRootStructured, nil
	}
	details := filepath.Join(dir, DetailsDir)
	switch {
	case has(details, "*"+ExtStructured):
		return FormatStructured, nil
	case has(details, "*"+ExtMarkdown):
		return FormatMarkdown, nil
	case has(details, "*"+ExtText):
		return FormatText, nil
	}
	// Index without any details: the newest flat layout.
	return FormatRootStructured, nil
}

func has(dir, pattern string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	return err == nil && len(matches) > 0
}

// Exists reports whether the store directory exists.
func Exists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// WriteFile atomically replaces path with data, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// IDFromPath returns the record ID encoded in a details or record file name.
func IDFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// RecordFiles lists the per-record YAML files directly inside dir, sorted
// by name.
func RecordFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+ExtStructured))
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return matches, nil
}
