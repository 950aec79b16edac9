package tracker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bugtrack/b/internal/types"
	"github.com/bugtrack/b/internal/users"
)

// Row is one listed record and its shortest unique prefix.
type Row struct {
	Record *types.Record `json:"record"`
	Prefix string        `json:"prefix"`
}

// ListResult is the outcome of List.
type ListResult struct {
	Rows   []Row            `json:"rows"`
	Scope  types.Scope      `json:"-"`
	Owner  string           `json:"owner,omitempty"` // canonical owner filter, AllOwners when unfiltered
	Grep   string           `json:"grep,omitempty"`
	Filter types.ListFilter `json:"-"`
}

// List returns the records matching filter. Records keep store order
// unless filter asks for a sort. A missing store lists nothing.
func (t *Tracker) List(ctx context.Context, filter types.ListFilter) (*ListResult, error) {
	owner := types.AllOwners
	if filter.Owner != "" && filter.Owner != types.AllOwners {
		o, err := t.ResolveUser(filter.Owner, false)
		if err != nil {
			return nil, err
		}
		owner = o
	}

	prefixes := t.Prefixes()
	grep := strings.ToLower(filter.Grep)
	res := &ListResult{Scope: filter.Scope, Owner: owner, Grep: filter.Grep, Filter: filter}
	for _, r := range t.records {
		if !filter.Scope.Matches(r.Open) {
			continue
		}
		if owner != types.AllOwners && r.Owner != owner {
			continue
		}
		if grep != "" && !strings.Contains(strings.ToLower(r.Title), grep) {
			continue
		}
		if filter.Since != nil && r.Entered.Before(*filter.Since) {
			continue
		}
		res.Rows = append(res.Rows, Row{Record: r, Prefix: prefixes[r.ID]})
	}

	rows := res.Rows
	switch filter.Sort {
	case types.SortTitle:
		sort.SliceStable(rows, func(i, j int) bool {
			return strings.ToLower(rows[i].Record.Title) < strings.ToLower(rows[j].Record.Title)
		})
	case types.SortEntered:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Record.Entered.Before(rows[j].Record.Entered)
		})
	case types.SortID:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Record.ID < rows[j].Record.ID })
	}
	if filter.Descending {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return res, nil
}

// Count returns the number of listed records.
func (l *ListResult) Count() int {
	return len(l.Rows)
}

// PrefixWidth is the length of the longest listed prefix.
func (l *ListResult) PrefixWidth() int {
	w := 0
	for _, row := range l.Rows {
		if len(row.Prefix) > w {
			w = len(row.Prefix)
		}
	}
	return w
}

// Line renders row as "<prefix> - <title>" with the prefix right-aligned
// to the widest prefix, cut to the filter's truncate width.
func (l *ListResult) Line(row Row) string {
	return Truncate(fmt.Sprintf("%*s - %s", l.PrefixWidth(), row.Prefix, row.Record.Title), l.Filter.Truncate)
}

// Lines renders every row with Line.
func (l *ListResult) Lines() []string {
	out := make([]string, len(l.Rows))
	for i, row := range l.Rows {
		out[i] = l.Line(row)
	}
	return out
}

// Truncate cuts line to width runes, ending it with "...". A width of
// zero or less leaves line alone.
func Truncate(line string, width int) string {
	runes := []rune(line)
	if width <= 0 || len(runes) <= width {
		return line
	}
	keep := width - 4
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + "..."
}

// Summary describes the listing, for example
// "Found 2 open bugs owned by alice whose title contains crash".
func (l *ListResult) Summary() string {
	n := len(l.Rows)
	plural := "s"
	if n == 1 {
		plural = ""
	}
	var b strings.Builder
	switch l.Scope {
	case types.ScopeOpen:
		fmt.Fprintf(&b, "Found %d open bug%s", n, plural)
	case types.ScopeResolved:
		fmt.Fprintf(&b, "Found %d resolved bug%s", n, plural)
	default:
		fmt.Fprintf(&b, "Found %d bug%s", n, plural)
	}
	if l.Owner != types.AllOwners {
		fmt.Fprintf(&b, " owned by %s", users.Label(l.Owner))
	}
	if l.Grep != "" {
		fmt.Fprintf(&b, " whose title contains %s", l.Grep)
	}
	return b.String()
}
