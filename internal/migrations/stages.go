package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bugtrack/b/internal/markup"
	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/storage/flatfile"
	"github.com/bugtrack/b/internal/storage/recordfile"
	"github.com/bugtrack/b/internal/types"
)

// reproduceSection marks a details file as describing a bug rather than a
// task.
const reproduceSection = "reproduce"

func detailsToMarkdown(_ context.Context, m *Migrator, res *Result) error {
	sources, err := glob(filepath.Join(m.Dir, storage.DetailsDir), "*"+storage.ExtText)
	if err != nil {
		return err
	}
	for _, src := range sources {
		data, err := os.ReadFile(src) // #nosec G304 - path inside the store
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", src, err)
		}
		dest := strings.TrimSuffix(src, storage.ExtText) + storage.ExtMarkdown
		if err := m.replace(res, src, dest, []byte(markup.TextToMarkdown(string(data)))); err != nil {
			return err
		}
	}
	return nil
}

// Structure converts a markdown details body into structured details.
// Section names become slug keys, the comments section becomes typed
// comments, and the type is inferred from the sections present.
func Structure(content string) *types.Record {
	var details types.Details
	for _, s := range markup.ParseMarkdown(content) {
		details = append(details, types.Section{Name: markup.SectionKey(s.Name), Body: s.Body})
	}
	details, comments := markup.SplitComments(details)
	if details == nil {
		details = types.Details{}
	}
	r := &types.Record{Type: "task", Details: details, Comments: comments}
	if _, ok := details.Get(reproduceSection); ok {
		r.Type = "bug"
	}
	return r
}

func detailsToStructured(_ context.Context, m *Migrator, res *Result) error {
	sources, err := glob(filepath.Join(m.Dir, storage.DetailsDir), "*"+storage.ExtMarkdown)
	if err != nil {
		return err
	}
	for _, src := range sources {
		data, err := os.ReadFile(src) // #nosec G304 - path inside the store
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", src, err)
		}
		out, err := recordfile.EncodeDetails(Structure(string(data)))
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", src, err)
		}
		dest := strings.TrimSuffix(src, storage.ExtMarkdown) + storage.ExtStructured
		if err := m.replace(res, src, dest, out); err != nil {
			return err
		}
	}
	return nil
}

func relocateDetails(_ context.Context, m *Migrator, res *Result) error {
	detailsDir := filepath.Join(m.Dir, storage.DetailsDir)
	sources, err := glob(detailsDir, "*"+storage.ExtStructured)
	if err != nil {
		return err
	}
	for _, src := range sources {
		data, err := os.ReadFile(src) // #nosec G304 - path inside the store
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", src, err)
		}
		dest := filepath.Join(m.Dir, filepath.Base(src))
		if err := m.replace(res, src, dest, data); err != nil {
			return err
		}
	}
	// Only succeeds once nothing is left behind.
	if entries, err := os.ReadDir(detailsDir); err == nil && len(entries) == 0 {
		if err := os.Remove(detailsDir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", detailsDir, err)
		}
		m.Logger.Debug("Removed empty details directory", "dir", detailsDir)
	}
	return nil
}

func mergeIndex(ctx context.Context, m *Migrator, res *Result) error {
	index := filepath.Join(m.Dir, storage.IndexFile)
	if !exists(index) {
		return nil
	}
	format, err := flatfile.New(storage.FormatRootStructured, m.IDs)
	if err != nil {
		return err
	}
	records, err := format.ReadIndex(m.Dir)
	if err != nil {
		return err
	}

	for _, r := range records {
		path := filepath.Join(m.Dir, r.ID+storage.ExtStructured)
		if data, err := os.ReadFile(path); err == nil { // #nosec G304 - path inside the store
			doc, err := recordfile.DecodeDetails(data)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			if doc.Type != "" {
				r.Type = doc.Type
			}
			r.Details = doc.Details
			r.Comments = doc.Comments
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := recordfile.WriteFile(path, r); err != nil {
			return err
		}
		m.Logger.Debug("Merged index entry", "id", r.ID)
		res.Migrated = append(res.Migrated, r.ID)
	}

	if err := os.Remove(index); err != nil {
		return fmt.Errorf("failed to remove %s: %w", index, err)
	}
	return nil
}
