// Package recordfile implements the current store layout: one
// self-contained YAML document per record, named <id>.yaml, in the store
// root. It also provides the YAML codec shared with the structured
// details files of older layouts.
package recordfile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/types"
)

// DetailsDoc is the body of a structured details file: everything about a
// record that the flat index does not hold.
type DetailsDoc struct {
	Type     string          `yaml:"type,omitempty"`
	Details  types.Details   `yaml:"details,omitempty"`
	Comments []types.Comment `yaml:"comments,omitempty"`
}

// Encode renders a full record document.
func Encode(r *types.Record) ([]byte, error) {
	c := r.Clone()
	c.Entered = normalizeTime(c.Entered)
	for i := range c.Comments {
		c.Comments[i].Date = normalizeTime(c.Comments[i].Date)
	}
	return marshal(c)
}

// Decode parses a full record document.
func Decode(data []byte) (*types.Record, error) {
	var r types.Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	r.Entered = normalizeTime(r.Entered)
	for i := range r.Comments {
		r.Comments[i].Date = normalizeTime(r.Comments[i].Date)
	}
	return &r, nil
}

// EncodeDetails renders the details-only document for r.
func EncodeDetails(r *types.Record) ([]byte, error) {
	doc := DetailsDoc{Type: r.Type, Details: r.Details, Comments: make([]types.Comment, len(r.Comments))}
	for i, c := range r.Comments {
		c.Date = normalizeTime(c.Date)
		doc.Comments[i] = c
	}
	return marshal(doc)
}

// DecodeDetails parses a details-only document.
func DecodeDetails(data []byte) (*DetailsDoc, error) {
	var doc DetailsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for i := range doc.Comments {
		doc.Comments[i].Date = normalizeTime(doc.Comments[i].Date)
	}
	return &doc, nil
}

// ReadFile decodes the record stored at path. A record without an id takes
// the id from the file name.
func ReadFile(path string) (*types.Record, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path inside the store
	if err != nil {
		return nil, err
	}
	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if r.ID == "" {
		r.ID = storage.IDFromPath(path)
	}
	return r, nil
}

// WriteFile atomically writes r to path.
func WriteFile(path string, r *types.Record) error {
	data, err := Encode(r)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", r.ID, err)
	}
	return storage.WriteFile(path, data)
}

func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Round(0)
}

// Format is the per-record storage layout.
type Format struct{}

// New returns the per-record format.
func New() *Format {
	return &Format{}
}

func (f *Format) Version() storage.Version {
	return storage.FormatRecords
}

func (f *Format) DetailsPath(dir, id string) string {
	return filepath.Join(dir, id+storage.ExtStructured)
}

func (f *Format) Load(ctx context.Context, dir string) ([]*types.Record, error) {
	paths, err := storage.RecordFiles(dir)
	if err != nil {
		return nil, err
	}
	records := make([]*types.Record, 0, len(paths))
	for _, path := range paths {
		r, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (f *Format) Save(ctx context.Context, dir string, all []*types.Record, touched *types.Record) error {
	if touched != nil {
		return WriteFile(f.DetailsPath(dir, touched.ID), touched)
	}
	for _, r := range all {
		if err := WriteFile(f.DetailsPath(dir, r.ID), r); err != nil {
			return err
		}
	}
	return nil
}
