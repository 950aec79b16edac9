package types

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDetailsKeepsSectionOrder(t *testing.T) {
	in := Details{
		{Name: "summary", Body: "one line"},
		{Name: "reproduce", Body: "1. run it\n2. watch it fail\n"},
		{Name: "expected", Body: ""},
	}

	data, err := yaml.Marshal(struct {
		Details Details `yaml:"details"`
	}{in})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out struct {
		Details Details `yaml:"details"`
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, data)
	}

	if len(out.Details) != len(in) {
		t.Fatalf("got %d sections, want %d", len(out.Details), len(in))
	}
	for i := range in {
		if out.Details[i] != in[i] {
			t.Errorf("section %d = %+v, want %+v", i, out.Details[i], in[i])
		}
	}
}

func TestDetailsRejectsNestedSections(t *testing.T) {
	var out struct {
		Details Details `yaml:"details"`
	}
	err := yaml.Unmarshal([]byte("details:\n  summary:\n    nested: true\n"), &out)
	if err == nil {
		t.Fatal("expected error for nested section")
	}
}

func TestDetailsCloneKeepsEmptyApartFromNil(t *testing.T) {
	if c := Details(nil).Clone(); c != nil {
		t.Errorf("Clone(nil) = %#v, want nil", c)
	}
	c := Details{}.Clone()
	if c == nil || len(c) != 0 {
		t.Errorf("Clone(empty) = %#v, want empty non-nil", c)
	}
	if !Details(nil).IsZero() || (Details{}).IsZero() {
		t.Error("only nil details are zero")
	}
}

func TestDetailsGetSet(t *testing.T) {
	var d Details
	d = d.Set("Summary", "first")
	d = d.Set("summary", "second")
	if len(d) != 1 {
		t.Fatalf("Set appended a duplicate section: %+v", d)
	}
	if body, ok := d.Get("SUMMARY"); !ok || body != "second" {
		t.Errorf("Get = %q, %v", body, ok)
	}
	if _, ok := d.Get("missing"); ok {
		t.Error("Get found a missing section")
	}
}

func TestRecordClone(t *testing.T) {
	r := &Record{
		ID:       "abc",
		Title:    "Original",
		Open:     true,
		Entered:  time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC),
		Details:  Details{{Name: "summary", Body: "x"}},
		Comments: []Comment{{Author: "ann", Text: "hi"}},
		Extra:    map[string]string{"k": "v"},
	}
	c := r.Clone()
	c.Details[0].Body = "changed"
	c.Comments[0].Text = "changed"
	c.Extra["k"] = "changed"

	if r.Details[0].Body != "x" || r.Comments[0].Text != "hi" || r.Extra["k"] != "v" {
		t.Errorf("clone shares state with original: %+v", r)
	}
}

func TestScopeMatches(t *testing.T) {
	tests := []struct {
		scope Scope
		open  bool
		want  bool
	}{
		{ScopeOpen, true, true},
		{ScopeOpen, false, false},
		{ScopeResolved, true, false},
		{ScopeResolved, false, true},
		{ScopeAll, true, true},
		{ScopeAll, false, true},
	}
	for _, tt := range tests {
		if got := tt.scope.Matches(tt.open); got != tt.want {
			t.Errorf("Scope(%d).Matches(%v) = %v, want %v", tt.scope, tt.open, got, tt.want)
		}
	}
}
