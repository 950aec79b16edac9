// Package types defines core data structures for the b bug tracker.
package types

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Record represents one tracked bug, issue or task.
type Record struct {
	ID       string            `json:"id" yaml:"id"`
	Title    string            `json:"title" yaml:"title"`
	Type     string            `json:"type,omitempty" yaml:"type,omitempty"`
	Open     bool              `json:"open" yaml:"open"`
	Owner    string            `json:"owner" yaml:"owner"` // "" means unassigned
	Author   string            `json:"author,omitempty" yaml:"author,omitempty"`
	Entered  time.Time         `json:"entered" yaml:"entered"`
	Details  Details           `json:"details,omitempty" yaml:"details,omitempty"`
	Comments []Comment         `json:"comments,omitempty" yaml:"comments,omitempty"`
	Extra    map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"` // Unknown index metadata, kept verbatim
}

// Comment is a single dated remark on a record.
type Comment struct {
	Author string    `json:"author,omitempty" yaml:"author,omitempty"`
	Date   time.Time `json:"date" yaml:"date"`
	Text   string    `json:"text" yaml:"text"`
}

// Status returns the human label for the open flag.
func (r *Record) Status() string {
	if r.Open {
		return "Open"
	}
	return "Resolved"
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.Details = r.Details.Clone()
	if r.Comments != nil {
		c.Comments = append([]Comment(nil), r.Comments...)
	}
	if r.Extra != nil {
		c.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// Section is one named block of free-form detail text.
type Section struct {
	Name string
	Body string
}

// Details is the ordered list of detail sections of a record.
// A nil Details means the record has no details at all.
type Details []Section

// Get returns the body of the named section (case-insensitive).
func (d Details) Get(name string) (string, bool) {
	for _, s := range d {
		if strings.EqualFold(s.Name, name) {
			return s.Body, true
		}
	}
	return "", false
}

// Set replaces the body of the named section, appending it if missing.
func (d Details) Set(name, body string) Details {
	for i := range d {
		if strings.EqualFold(d[i].Name, name) {
			d[i].Body = body
			return d
		}
	}
	return append(d, Section{Name: name, Body: body})
}

// Clone returns a copy that does not share its backing array. Empty and
// nil details stay distinct.
func (d Details) Clone() Details {
	if d == nil {
		return nil
	}
	out := make(Details, len(d))
	copy(out, d)
	return out
}

// IsZero reports whether the record has no details at all. Encoders that
// honour omitempty through IsZero keep empty, non-nil details.
func (d Details) IsZero() bool {
	return d == nil
}

// MarshalYAML writes details as an ordered mapping of section name to body.
func (d Details) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range d {
		val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Body}
		if strings.Contains(s.Body, "\n") {
			val.Style = yaml.LiteralStyle
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Name},
			val,
		)
	}
	return node, nil
}

// UnmarshalYAML reads an ordered mapping, keeping document order.
func (d *Details) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("details: expected mapping, got %v at line %d", node.Tag, node.Line)
	}
	out := make(Details, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("details: section %q must be text (line %d)", k.Value, v.Line)
		}
		out = append(out, Section{Name: k.Value, Body: v.Value})
	}
	*d = out
	return nil
}

// Scope selects records by their open flag.
type Scope int

const (
	ScopeOpen Scope = iota
	ScopeResolved
	ScopeAll
)

// Matches reports whether a record with the given open flag is in scope.
func (s Scope) Matches(open bool) bool {
	switch s {
	case ScopeOpen:
		return open
	case ScopeResolved:
		return !open
	default:
		return true
	}
}

// SortOrder controls the ordering of list output.
type SortOrder string

const (
	SortNone    SortOrder = ""
	SortTitle   SortOrder = "title"
	SortEntered SortOrder = "entered"
	SortID      SortOrder = "id"
)

// AllOwners is the owner filter wildcard.
const AllOwners = "*"

// ListFilter is used to filter and order list queries.
type ListFilter struct {
	Scope      Scope
	Owner      string // user token; "" and AllOwners match every owner
	Grep       string // case-insensitive title substring
	Since      *time.Time
	Sort       SortOrder
	Descending bool
	Truncate   int // max line width for rendered rows, 0 = unlimited
}
