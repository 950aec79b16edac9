package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bugtrack/b/internal/markup"
	"github.com/bugtrack/b/internal/tracker"
	"github.com/bugtrack/b/internal/types"
	"github.com/bugtrack/b/internal/ui"
	"github.com/bugtrack/b/internal/users"
)

// styledLine colours the prefix column of a rendered list line.
func styledLine(res *tracker.ListResult, row tracker.Row) string {
	line := res.Line(row)
	w := res.PrefixWidth()
	if len(line) < w+3 || !strings.HasPrefix(line[w:], " - ") {
		return line
	}
	return ui.RenderID(line[:w]) + line[w:]
}

// writeList prints one line per row followed by the summary.
func writeList(w io.Writer, res *tracker.ListResult) {
	for _, row := range res.Rows {
		fmt.Fprintln(w, styledLine(res, row))
	}
	fmt.Fprintln(w, res.Summary())
}

// scopeHeading names the counted records of a users table.
func scopeHeading(scope types.Scope) string {
	switch scope {
	case types.ScopeResolved:
		return "Resolved Bugs"
	case types.ScopeAll:
		return "Bugs"
	default:
		return "Open Bugs"
	}
}

// writeUsers prints the owner table. With rows, the records of every owner
// are listed under it.
func writeUsers(w io.Writer, stats []users.Stat, scope types.Scope, rows *tracker.ListResult) {
	width := 0
	for _, s := range stats {
		if n := len(s.Label()); n > width {
			width = n
		}
	}
	fmt.Fprintf(w, "Username: %s\n", scopeHeading(scope))
	for _, s := range stats {
		fmt.Fprintf(w, "%s: %*d\n", s.Label(), width+1-len(s.Label()), s.Open)
		if rows == nil {
			continue
		}
		for _, row := range rows.Rows {
			if row.Record.Owner == s.Owner {
				fmt.Fprintf(w, "    %s\n", styledLine(rows, row))
			}
		}
	}
}

// shortID renders an ID as "<prefix>:<next characters>" up to ten
// characters in all.
func shortID(prefix, id string) string {
	end := 10
	if end > len(id) {
		end = len(id)
	}
	if len(prefix) > end {
		end = len(prefix)
	}
	return ui.RenderID(prefix) + ":" + ui.RenderMuted(id[len(prefix):end])
}

func statusText(open bool) string {
	if open {
		return ui.RenderFail("Open")
	}
	return ui.RenderPass("Resolved")
}

// writeDetails prints the metadata of r followed by its details, rendered
// as markdown.
func writeDetails(w io.Writer, r *types.Record, prefix string, render func(string) string, loc *time.Location) {
	fmt.Fprintf(w, "Title: %s\n", ui.RenderHeader(r.Title))
	fmt.Fprintf(w, "ID: %s:%s\n", ui.RenderID(prefix), r.ID[len(prefix):])
	fmt.Fprintf(w, "Status: %s\n", statusText(r.Open))
	if r.Type != "" {
		fmt.Fprintf(w, "Type: %s\n", r.Type)
	}
	if r.Owner != "" {
		fmt.Fprintf(w, "Owned by: %s\n", r.Owner)
	}
	if r.Author != "" {
		fmt.Fprintf(w, "Filed by: %s\n", r.Author)
	}
	fmt.Fprintf(w, "Filed on: %s\n", markup.FormatDate(r.Entered.In(loc)))

	body := markup.Display(localComments(r, loc))
	if body == "" {
		fmt.Fprintln(w, "\nNo additional details found.")
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.TrimRight(render(body), "\n"))
}

func localComments(r *types.Record, loc *time.Location) (types.Details, []types.Comment) {
	comments := make([]types.Comment, len(r.Comments))
	for i, c := range r.Comments {
		c.Date = c.Date.In(loc)
		comments[i] = c
	}
	return r.Details, comments
}
