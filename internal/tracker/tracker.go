// Package tracker is the record store of b: it loads every record of a
// store into memory, resolves typed ID prefixes against them, applies one
// mutation per call and writes the result back before returning.
package tracker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bugtrack/b/internal/idgen"
	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/storage/flatfile"
	"github.com/bugtrack/b/internal/storage/recordfile"
	"github.com/bugtrack/b/internal/templates"
	"github.com/bugtrack/b/internal/types"
	"github.com/bugtrack/b/internal/users"
	"github.com/bugtrack/b/internal/utils"
)

// Options configures a Tracker.
type Options struct {
	// Dir is the store directory.
	Dir string
	// User is the invoking user; it becomes the author of new records and
	// comments and is what "me" resolves to.
	User string
	// Template is the template used when none is named. Defaults to
	// templates.Default.
	Template string

	IDs       idgen.Generator
	Templates *templates.Provider
	Now       func() time.Time
	Logger    *log.Logger

	// Wrap, if set, decorates the storage format chosen for the store.
	Wrap func(storage.Format) storage.Format
}

// Tracker holds every record of one store.
type Tracker struct {
	dir       string
	user      string
	template  string
	ids       idgen.Generator
	templates *templates.Provider
	now       func() time.Time
	logger    *log.Logger
	wrap      func(storage.Format) storage.Format

	format    storage.Format
	records   []*types.Record
	byID      map[string]*types.Record
	lastAdded *types.Record
}

// New returns a tracker for opts without reading the store.
func New(opts Options) *Tracker {
	t := &Tracker{
		dir:       opts.Dir,
		user:      opts.User,
		template:  opts.Template,
		ids:       opts.IDs,
		templates: opts.Templates,
		now:       opts.Now,
		logger:    opts.Logger,
		wrap:      opts.Wrap,
		byID:      make(map[string]*types.Record),
	}
	if t.template == "" {
		t.template = templates.Default
	}
	if t.ids == nil {
		t.ids = idgen.NewHashGenerator()
	}
	if t.templates == nil {
		t.templates = templates.NewProvider(t.dir)
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	return t
}

// Open returns a tracker with every record of the store in opts.Dir loaded.
// A missing store is not an error: the tracker is empty, and mutating
// operations fail with storage.ErrNotInitialized.
func Open(ctx context.Context, opts Options) (*Tracker, error) {
	t := New(opts)
	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload discards the in-memory state and reads the store again.
func (t *Tracker) Reload(ctx context.Context) error {
	version := storage.Latest
	if storage.Exists(t.dir) {
		v, err := storage.Detect(t.dir)
		if err != nil {
			return err
		}
		version = v
	}
	format, err := t.formatFor(version)
	if err != nil {
		return err
	}
	t.format = format

	records, err := format.Load(ctx, t.dir)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", t.dir, err)
	}
	t.records = records[:0:0]
	t.byID = make(map[string]*types.Record, len(records))
	for _, r := range records {
		if _, dup := t.byID[r.ID]; dup {
			t.logger.Warn("duplicate record id, keeping the first", "id", r.ID)
			continue
		}
		t.byID[r.ID] = r
		t.records = append(t.records, r)
	}
	t.logger.Debug("loaded store", "dir", t.dir, "format", version, "records", len(t.records))
	return nil
}

func (t *Tracker) formatFor(v storage.Version) (storage.Format, error) {
	var f storage.Format
	if v == storage.FormatRecords {
		f = recordfile.New()
	} else {
		ff, err := flatfile.New(v, t.ids)
		if err != nil {
			return nil, err
		}
		f = ff
	}
	if t.wrap != nil {
		f = t.wrap(f)
	}
	return f, nil
}

// Dir returns the store directory.
func (t *Tracker) Dir() string {
	return t.dir
}

// User returns the invoking user.
func (t *Tracker) User() string {
	return t.user
}

// Version returns the on-disk layout of the store.
func (t *Tracker) Version() storage.Version {
	return t.format.Version()
}

// Records returns every record in store order. The slice must not be
// modified.
func (t *Tracker) Records() []*types.Record {
	return t.records
}

// LastAdded returns the record created by the most recent Add, or nil.
func (t *Tracker) LastAdded() *types.Record {
	return t.lastAdded
}

// Initialize creates the store directory in the latest layout.
//
// A store found in an ancestor directory blocks creation unless force is
// set. A directory at exactly this path always does.
func (t *Tracker) Initialize(force bool) error {
	if storage.Exists(t.dir) {
		return fmt.Errorf("%w at %s", storage.ErrAlreadyInitialized, t.dir)
	}
	if !force {
		parent := filepath.Dir(filepath.Dir(utils.CanonicalizePath(t.dir)))
		if found := utils.FindUp(parent, filepath.Base(t.dir)); found != "" {
			return fmt.Errorf("%w in a parent directory at %s; use -f to create one here anyway",
				storage.ErrAlreadyInitialized, found)
		}
	}
	if err := os.MkdirAll(t.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", t.dir, err)
	}
	format, err := t.formatFor(storage.Latest)
	if err != nil {
		return err
	}
	t.format = format
	t.logger.Info("initialized store", "dir", t.dir)
	return nil
}

func (t *Tracker) requireStore() error {
	if !storage.Exists(t.dir) {
		return storage.ErrNotInitialized
	}
	return nil
}

func (t *Tracker) save(ctx context.Context, touched *types.Record) error {
	if err := t.format.Save(ctx, t.dir, t.records, touched); err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

// IDs returns every record ID in store order.
func (t *Tracker) IDs() []string {
	ids := make([]string, len(t.records))
	for i, r := range t.records {
		ids[i] = r.ID
	}
	return ids
}

// Prefixes returns the shortest unique prefix of every record ID.
func (t *Tracker) Prefixes() map[string]string {
	return utils.ShortestPrefixes(t.IDs())
}

// Prefix returns the shortest unique prefix of id among the stored IDs.
func (t *Tracker) Prefix(id string) string {
	return t.Prefixes()[id]
}

// Resolve returns the record whose ID starts with prefix. A prefix equal
// to a full ID always resolves to that record.
func (t *Tracker) Resolve(prefix string) (*types.Record, error) {
	if prefix == "" {
		return nil, storage.InputError("an ID prefix is required")
	}
	id, err := utils.ResolvePrefix(prefix, t.IDs())
	if err != nil {
		return nil, err
	}
	return t.byID[id], nil
}

// ID returns the full identifier for prefix.
func (t *Tracker) ID(prefix string) (string, error) {
	r, err := t.Resolve(prefix)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func (t *Tracker) stamp() time.Time {
	return t.now().UTC().Round(0)
}

func (t *Tracker) resolver() *users.Resolver {
	return &users.Resolver{Me: t.user, Records: t.records}
}

// ResolveUser maps a typed user name to a canonical owner.
func (t *Tracker) ResolveUser(token string, force bool) (string, error) {
	return t.resolver().Resolve(token, force)
}

func checkTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", storage.InputError("title cannot be empty")
	}
	if strings.ContainsAny(title, "\r\n") {
		return "", storage.InputError("title must be a single line")
	}
	return title, nil
}

// AddOptions configures Add.
type AddOptions struct {
	// Template names the details template; "" uses the default.
	Template string
	// Self makes the invoking user the owner.
	Self bool
}

// Add files a new open record and makes it the LastAdded record.
func (t *Tracker) Add(ctx context.Context, title string, opts AddOptions) (*types.Record, error) {
	if err := t.requireStore(); err != nil {
		return nil, err
	}
	title, err := checkTitle(title)
	if err != nil {
		return nil, err
	}
	if err := users.ValidateName(t.user); err != nil {
		return nil, err
	}
	name := opts.Template
	if name == "" {
		name = t.template
	}
	tmpl, err := t.templates.Load(name)
	if err != nil {
		return nil, err
	}

	r := &types.Record{
		ID:      t.ids.Generate(title, t.user, t.exists),
		Title:   title,
		Open:    true,
		Author:  t.user,
		Entered: t.stamp(),
	}
	if opts.Self {
		r.Owner = t.user
	}
	tmpl.Apply(r)

	t.records = append(t.records, r)
	t.byID[r.ID] = r
	if err := t.save(ctx, r); err != nil {
		t.records = t.records[:len(t.records)-1]
		delete(t.byID, r.ID)
		return nil, err
	}
	t.lastAdded = r
	t.logger.Debug("added record", "id", r.ID, "template", name)
	return r, nil
}

func (t *Tracker) exists(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// mutate resolves prefix, applies fn and saves the record.
func (t *Tracker) mutate(ctx context.Context, prefix string, fn func(r *types.Record) error) (*types.Record, error) {
	if err := t.requireStore(); err != nil {
		return nil, err
	}
	r, err := t.Resolve(prefix)
	if err != nil {
		return nil, err
	}
	before := r.Clone()
	if err := fn(r); err != nil {
		return nil, err
	}
	if err := t.save(ctx, r); err != nil {
		*r = *before
		return nil, err
	}
	return r, nil
}

// Rename replaces the title of a record. A title of the form
// s/find/replace/ (or /find/replace/) substitutes the first match of the
// regular expression find in the current title instead.
func (t *Tracker) Rename(ctx context.Context, prefix, title string) (*types.Record, error) {
	return t.mutate(ctx, prefix, func(r *types.Record) error {
		next := title
		if IsSubstitution(title) {
			var err error
			if next, err = Substitute(r.Title, title); err != nil {
				return err
			}
		}
		next, err := checkTitle(next)
		if err != nil {
			return err
		}
		r.Title = next
		return nil
	})
}

// Assign sets the owner of a record. user is resolved against the known
// owners unless force is set; "Nobody" clears the owner.
func (t *Tracker) Assign(ctx context.Context, prefix, user string, force bool) (*types.Record, error) {
	owner, err := t.ResolveUser(user, force)
	if err != nil {
		return nil, err
	}
	return t.mutate(ctx, prefix, func(r *types.Record) error {
		r.Owner = owner
		return nil
	})
}

// Close marks a record resolved.
func (t *Tracker) Close(ctx context.Context, prefix string) (*types.Record, error) {
	return t.mutate(ctx, prefix, func(r *types.Record) error {
		r.Open = false
		return nil
	})
}

// Reopen marks a record open again.
func (t *Tracker) Reopen(ctx context.Context, prefix string) (*types.Record, error) {
	return t.mutate(ctx, prefix, func(r *types.Record) error {
		r.Open = true
		return nil
	})
}

// Comment appends a comment by the invoking user. A record without
// details is seeded from the default template first.
func (t *Tracker) Comment(ctx context.Context, prefix, text string) (*types.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, storage.InputError("comment cannot be empty")
	}
	if err := users.ValidateName(t.user); err != nil {
		return nil, err
	}
	return t.mutate(ctx, prefix, func(r *types.Record) error {
		if r.Details == nil {
			if err := t.seed(r, ""); err != nil {
				return err
			}
		}
		r.Comments = append(r.Comments, types.Comment{
			Author: t.user,
			Date:   t.stamp(),
			Text:   text,
		})
		return nil
	})
}

func (t *Tracker) seed(r *types.Record, name string) error {
	if name == "" {
		name = t.template
	}
	tmpl, err := t.templates.Load(name)
	if err != nil {
		return err
	}
	tmpl.Apply(r)
	return nil
}

// Details returns the record for prefix, details included.
func (t *Tracker) Details(prefix string) (*types.Record, error) {
	return t.Resolve(prefix)
}

// DetailsPath returns the file holding the details of the record, for
// editing. When the file does not exist yet it is created from template,
// or from the default template when template is "".
func (t *Tracker) DetailsPath(ctx context.Context, prefix, template string) (string, error) {
	if err := t.requireStore(); err != nil {
		return "", err
	}
	r, err := t.Resolve(prefix)
	if err != nil {
		return "", err
	}
	path := t.format.DetailsPath(t.dir, r.ID)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if _, err := t.mutate(ctx, r.ID, func(r *types.Record) error {
		if r.Details == nil {
			return t.seed(r, template)
		}
		return nil
	}); err != nil {
		return "", err
	}
	return path, nil
}

// Users returns the owner statistics for records in scope.
func (t *Tracker) Users(scope types.Scope) []users.Stat {
	return users.Stats(t.records, scope)
}
