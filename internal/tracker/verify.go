package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/storage/flatfile"
	"github.com/bugtrack/b/internal/storage/recordfile"
)

// Problem is one inconsistency found by Verify.
type Problem struct {
	Path    string `json:"path"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	if p.ID != "" {
		return fmt.Sprintf("%s (%s): %s", p.Path, p.ID, p.Message)
	}
	return fmt.Sprintf("%s: %s", p.Path, p.Message)
}

// Verify reads every file of the store again and reports the ones that do
// not parse, records filed under the wrong name, duplicate IDs and details
// files that belong to no record. It does not modify the store.
func (t *Tracker) Verify(ctx context.Context) ([]Problem, error) {
	if err := t.requireStore(); err != nil {
		return nil, err
	}
	version, err := storage.Detect(t.dir)
	if err != nil {
		return nil, err
	}
	if version == storage.FormatRecords {
		return t.verifyRecords()
	}
	return t.verifyIndex(version)
}

func (t *Tracker) verifyRecords() ([]Problem, error) {
	files, err := storage.RecordFiles(t.dir)
	if err != nil {
		return nil, err
	}
	var problems []Problem
	seen := make(map[string]string)
	for _, path := range files {
		r, err := recordfile.ReadFile(path)
		if err != nil {
			problems = append(problems, Problem{Path: path, Message: err.Error()})
			continue
		}
		if name := storage.IDFromPath(path); r.ID != name {
			problems = append(problems, Problem{Path: path, ID: r.ID, Message: "id does not match file name " + name})
		}
		if first, dup := seen[r.ID]; dup {
			problems = append(problems, Problem{Path: path, ID: r.ID, Message: "duplicate id, also in " + first})
			continue
		}
		seen[r.ID] = path
		if r.Title == "" {
			problems = append(problems, Problem{Path: path, ID: r.ID, Message: "record has no title"})
		}
	}
	return problems, nil
}

func (t *Tracker) verifyIndex(version storage.Version) ([]Problem, error) {
	index := filepath.Join(t.dir, storage.IndexFile)
	data, err := os.ReadFile(index) // #nosec G304 - path inside the store
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var problems []Problem
	ids := make(map[string]bool)
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r, complete, err := flatfile.ParseLine(line)
		where := fmt.Sprintf("%s:%d", index, n+1)
		switch {
		case err != nil:
			problems = append(problems, Problem{Path: where, Message: err.Error()})
		case !complete:
			problems = append(problems, Problem{Path: where, Message: "line has no metadata; it will get a new id on the next write"})
		case ids[r.ID]:
			problems = append(problems, Problem{Path: where, ID: r.ID, Message: "duplicate id"})
		default:
			ids[r.ID] = true
		}
	}

	var orphans []string
	for _, pattern := range []string{
		filepath.Join(t.dir, storage.DetailsDir, "*"),
		filepath.Join(t.dir, "*"+storage.ExtStructured),
	} {
		matches, _ := filepath.Glob(pattern)
		for _, path := range matches {
			if info, err := os.Stat(path); err != nil || info.IsDir() {
				continue
			}
			if !ids[storage.IDFromPath(path)] {
				orphans = append(orphans, path)
			}
		}
	}
	sort.Strings(orphans)
	for _, path := range orphans {
		problems = append(problems, Problem{Path: path, ID: storage.IDFromPath(path), Message: "details file has no record in the index"})
	}

	t.logger.Debug("verified index", "format", version, "records", len(ids), "problems", len(problems))
	return problems, nil
}
