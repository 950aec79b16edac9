// Package flatfile implements the older store layouts built around a flat
// "bugs" index file with one summary line per record, plus one details
// file per record.
package flatfile

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bugtrack/b/internal/idgen"
	"github.com/bugtrack/b/internal/markup"
	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/storage/recordfile"
	"github.com/bugtrack/b/internal/types"
)

// Format is a flat-index layout. Its version decides where and how
// details are written; any details file of an older flat layout is still
// read.
type Format struct {
	version storage.Version
	ids     idgen.Generator
	now     func() time.Time
}

// New returns the flat layout for version, which must be one of FormatText,
// FormatMarkdown, FormatStructured or FormatRootStructured. ids completes
// index lines that were typed by hand without metadata.
func New(version storage.Version, ids idgen.Generator) (*Format, error) {
	switch version {
	case storage.FormatText, storage.FormatMarkdown, storage.FormatStructured, storage.FormatRootStructured:
	default:
		return nil, fmt.Errorf("flatfile: unsupported layout %s", version)
	}
	if ids == nil {
		ids = idgen.NewHashGenerator()
	}
	return &Format{version: version, ids: ids, now: time.Now}, nil
}

func (f *Format) Version() storage.Version {
	return f.version
}

// DetailsPath returns where this layout writes the details of id.
func (f *Format) DetailsPath(dir, id string) string {
	return detailsPath(dir, id, f.version)
}

func detailsPath(dir, id string, v storage.Version) string {
	switch v {
	case storage.FormatText:
		return filepath.Join(dir, storage.DetailsDir, id+storage.ExtText)
	case storage.FormatMarkdown:
		return filepath.Join(dir, storage.DetailsDir, id+storage.ExtMarkdown)
	case storage.FormatStructured:
		return filepath.Join(dir, storage.DetailsDir, id+storage.ExtStructured)
	default:
		return filepath.Join(dir, id+storage.ExtStructured)
	}
}

// readOrder lists the details files tried on load, newest layout first.
var readOrder = []storage.Version{
	storage.FormatRootStructured,
	storage.FormatStructured,
	storage.FormatMarkdown,
	storage.FormatText,
}

// ReadIndex parses the index file of the store in dir. A missing index
// yields no records.
func (f *Format) ReadIndex(dir string) ([]*types.Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, storage.IndexFile)) // #nosec G304 - path inside the store
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var records []*types.Record
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r, complete, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", storage.IndexFile, n, err)
		}
		if !complete {
			r.Entered = f.now().UTC().Round(0)
			r.ID = f.ids.Generate(r.Title, "", func(id string) bool { return seen[id] })
		}
		seen[r.ID] = true
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	return records, nil
}

// WriteIndex rewrites the index file, sorted by ID. The file is left
// untouched when any record fails CheckLine.
func WriteIndex(dir string, records []*types.Record) error {
	for _, r := range records {
		if err := CheckLine(r); err != nil {
			return err
		}
	}
	sorted := append([]*types.Record(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var buf bytes.Buffer
	for _, r := range sorted {
		buf.WriteString(FormatLine(r))
		buf.WriteString("\n")
	}
	return storage.WriteFile(filepath.Join(dir, storage.IndexFile), buf.Bytes())
}

func (f *Format) Load(ctx context.Context, dir string) ([]*types.Record, error) {
	records, err := f.ReadIndex(dir)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := ReadDetails(dir, r); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ReadDetails fills the details and comments of r from the newest details
// file present for it. Records without any details file are left alone.
func ReadDetails(dir string, r *types.Record) error {
	for _, v := range readOrder {
		path := detailsPath(dir, r.ID, v)
		data, err := os.ReadFile(path) // #nosec G304 - path inside the store
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read details of %s: %w", r.ID, err)
		}
		return applyDetails(r, data, v, path)
	}
	return nil
}

func applyDetails(r *types.Record, data []byte, v storage.Version, path string) error {
	var d types.Details
	switch v {
	case storage.FormatText:
		d = markup.ParseText(string(data))
	case storage.FormatMarkdown:
		d = markup.ParseMarkdown(string(data))
	default:
		doc, err := recordfile.DecodeDetails(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if doc.Type != "" {
			r.Type = doc.Type
		}
		r.Details = doc.Details
		if r.Details == nil {
			r.Details = types.Details{}
		}
		r.Comments = doc.Comments
		return nil
	}
	d, comments := markup.SplitComments(d)
	if d == nil {
		d = types.Details{}
	}
	r.Details = d
	r.Comments = comments
	return nil
}

// EncodeDetails renders the details file of r for layout v.
func EncodeDetails(r *types.Record, v storage.Version) ([]byte, error) {
	switch v {
	case storage.FormatText:
		return []byte(markup.RenderText(markup.JoinComments(r.Details, r.Comments, markup.CommentsSection))), nil
	case storage.FormatMarkdown:
		return []byte(markup.RenderMarkdown(markup.JoinComments(r.Details, r.Comments, markup.TitleCase(markup.CommentsSection)))), nil
	default:
		return recordfile.EncodeDetails(r)
	}
}

// hasDetails reports whether r carries anything that belongs in a details file.
func hasDetails(r *types.Record) bool {
	return r.Details != nil || len(r.Comments) > 0
}

func (f *Format) Save(ctx context.Context, dir string, all []*types.Record, touched *types.Record) error {
	if err := WriteIndex(dir, all); err != nil {
		return err
	}
	targets := all
	if touched != nil {
		targets = []*types.Record{touched}
	}
	for _, r := range targets {
		if !hasDetails(r) {
			continue
		}
		data, err := EncodeDetails(r, f.version)
		if err != nil {
			return fmt.Errorf("failed to encode details of %s: %w", r.ID, err)
		}
		if err := storage.WriteFile(f.DetailsPath(dir, r.ID), data); err != nil {
			return err
		}
	}
	return nil
}
