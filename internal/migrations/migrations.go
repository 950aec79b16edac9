// Package migrations upgrades a store from older on-disk layouts to the
// current one.
//
// Migrations run in order and each one is safe to re-run: records that are
// already migrated are skipped, and an existing target file is never
// overwritten. A record's old file is removed only after its successor has
// been written.
package migrations

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/bugtrack/b/internal/idgen"
	"github.com/bugtrack/b/internal/storage"
)

// Migration is one layout upgrade.
type Migration struct {
	Name        string
	Description string
	// Pending lists the artifacts the migration would convert.
	Pending func(dir string) ([]string, error)
	// Apply converts every pending artifact.
	Apply func(ctx context.Context, m *Migrator, res *Result) error
}

// Migrations is the ordered list of layout upgrades.
var Migrations = []Migration{
	{
		Name:        "details_markdown",
		Description: "Convert [section] text details to markdown",
		Pending:     globPending(storage.DetailsDir, "*"+storage.ExtText),
		Apply:       detailsToMarkdown,
	},
	{
		Name:        "details_structured",
		Description: "Convert markdown details to structured YAML with typed comments",
		Pending:     globPending(storage.DetailsDir, "*"+storage.ExtMarkdown),
		Apply:       detailsToStructured,
	},
	{
		Name:        "relocate_details",
		Description: "Move structured details from details/ into the store root",
		Pending:     globPending(storage.DetailsDir, "*"+storage.ExtStructured),
		Apply:       relocateDetails,
	},
	{
		Name:        "merge_index",
		Description: "Merge the bugs index into self-contained record files",
		Pending:     indexPending,
		Apply:       mergeIndex,
	},
}

// Result reports what one migration did.
type Result struct {
	Name      string   `json:"name"`
	Migrated  []string `json:"migrated,omitempty"`
	Skipped   []string `json:"skipped,omitempty"`
	Conflicts []string `json:"conflicts,omitempty"`
}

// Changed reports whether the migration touched the store.
func (r *Result) Changed() bool {
	return len(r.Migrated) > 0
}

// Report is the outcome of Run.
type Report struct {
	Results []*Result `json:"results"`
}

// Migrated counts the records converted by every migration.
func (r *Report) Migrated() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Migrated)
	}
	return n
}

// Conflicts lists every conflict reported by every migration.
func (r *Report) Conflicts() []string {
	var out []string
	for _, res := range r.Results {
		out = append(out, res.Conflicts...)
	}
	return out
}

// Migrator runs migrations over one store directory.
type Migrator struct {
	Dir    string
	Logger *log.Logger
	// IDs completes index lines typed by hand without an id.
	IDs idgen.Generator
}

// New returns a migrator for the store in dir.
func New(dir string, logger *log.Logger) *Migrator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Migrator{Dir: dir, Logger: logger, IDs: idgen.NewHashGenerator()}
}

// Pending returns, per migration name, the artifacts still to convert.
// Migrations with nothing to do are left out.
func (m *Migrator) Pending() (map[string][]string, error) {
	out := make(map[string][]string)
	for _, mig := range Migrations {
		items, err := mig.Pending(m.Dir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mig.Name, err)
		}
		if len(items) > 0 {
			out[mig.Name] = items
		}
	}
	return out, nil
}

// Run applies every migration in order.
func (m *Migrator) Run(ctx context.Context) (*Report, error) {
	if !storage.Exists(m.Dir) {
		return nil, storage.ErrNotInitialized
	}
	report := &Report{}
	for _, mig := range Migrations {
		res := &Result{Name: mig.Name}
		m.Logger.Info("Running migration", "name", mig.Name)
		if err := mig.Apply(ctx, m, res); err != nil {
			return report, fmt.Errorf("migration %s failed: %w", mig.Name, err)
		}
		m.Logger.Debug("Migration complete", "name", mig.Name,
			"migrated", len(res.Migrated), "skipped", len(res.Skipped), "conflicts", len(res.Conflicts))
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func globPending(sub, pattern string) func(dir string) ([]string, error) {
	return func(dir string) ([]string, error) {
		return glob(filepath.Join(dir, sub), pattern)
	}
}

func glob(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func indexPending(dir string) ([]string, error) {
	path := filepath.Join(dir, storage.IndexFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return []string{path}, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// replace writes data to dest and then removes src. dest must not exist.
func (m *Migrator) replace(res *Result, src, dest string, data []byte) error {
	if exists(dest) {
		m.Logger.Warn("Target already exists, keeping source", "source", src, "target", dest)
		res.Conflicts = append(res.Conflicts, fmt.Sprintf("%s: %s already exists", src, dest))
		return nil
	}
	if err := storage.WriteFile(dest, data); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove %s: %w", src, err)
	}
	m.Logger.Debug("Migrated", "source", src, "target", dest)
	res.Migrated = append(res.Migrated, storage.IDFromPath(src))
	return nil
}
