package markup

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrack/b/internal/types"
)

func TestParseText(t *testing.T) {
	content := "# guidance for the reporter\n\n[summary]\nIt crashes.\n\n[reproduce]\n\n[expected]\nNo crash\nat all\n"

	got := ParseText(content)
	want := types.Details{
		{Name: "", Body: "# guidance for the reporter"},
		{Name: "summary", Body: "It crashes."},
		{Name: "reproduce", Body: ""},
		{Name: "expected", Body: "No crash\nat all"},
	}
	assert.Equal(t, want, got)
}

func TestTextRoundTrip(t *testing.T) {
	d := types.Details{
		{Name: "summary", Body: "line one\nline two"},
		{Name: "empty", Body: ""},
		{Name: "notes", Body: "- a\n- b"},
	}
	assert.Equal(t, d, ParseText(RenderText(d)))
}

func TestMarkdownRoundTrip(t *testing.T) {
	d := types.Details{
		{Name: "Summary", Body: "line one\n\nline two"},
		{Name: "Empty", Body: ""},
		{Name: "Notes", Body: "```\n## not a section\n```"},
	}
	assert.Equal(t, d, ParseMarkdown(RenderMarkdown(d)))
}

func TestParseMarkdownIgnoresOtherHeadings(t *testing.T) {
	content := strings.Join([]string{
		"Preamble",
		"",
		"## Summary",
		"Setext title",
		"------------",
		"# Level one",
		"### Level three",
		"",
		"## Reproduce",
		"1. run",
	}, "\n")

	got := ParseMarkdown(content)
	require.Len(t, got, 3)
	assert.Equal(t, "", got[0].Name)
	assert.Equal(t, "Preamble", got[0].Body)
	assert.Equal(t, "Summary", got[1].Name)
	assert.Equal(t, "Setext title\n------------\n# Level one\n### Level three", got[1].Body)
	assert.Equal(t, "Reproduce", got[2].Name)
	assert.Equal(t, "1. run", got[2].Body)
}

func TestParseMarkdownWithoutHeadings(t *testing.T) {
	assert.Nil(t, ParseMarkdown("\n\n"))
	assert.Equal(t, types.Details{{Body: "just text"}}, ParseMarkdown("just text\n"))
}

func TestTextToMarkdown(t *testing.T) {
	in := "[steps to reproduce]\nclick [here]\n [indented]\n[comments]\n"
	want := "## Steps To Reproduce\nclick [here]\n [indented]\n## Comments\n"
	assert.Equal(t, want, TextToMarkdown(in))
}

func TestSectionKey(t *testing.T) {
	tests := map[string]string{
		"Summary":            "summary",
		"Steps To Reproduce": "steps-to-reproduce",
		"  Expected Result ": "expected-result",
	}
	for in, want := range tests {
		assert.Equal(t, want, SectionKey(in), in)
	}
}

func TestCommentsRoundTrip(t *testing.T) {
	comments := []types.Comment{
		{Author: "alice", Date: time.Date(2023, 3, 14, 15, 9, 0, 0, time.UTC), Text: "First.\nTwo lines."},
		{Author: "", Date: time.Date(2023, 3, 15, 8, 0, 0, 0, time.UTC), Text: "Anonymous"},
		{Author: "bob on call", Date: time.Date(2024, 12, 1, 0, 30, 0, 0, time.UTC), Text: "author with ' on '"},
	}

	formatted := FormatComments(comments)
	assert.Contains(t, formatted, "-----[ alice on Tuesday, March 14, 2023 at 03:09 PM ]-----\nFirst.\nTwo lines.\n")
	assert.Equal(t, comments, ParseComments(formatted))
}

func TestParseCommentsOddInput(t *testing.T) {
	body := "stray note\n\n-----[ carol on not a date ]-----\nhello\n"
	got := ParseComments(body)
	require.Len(t, got, 2)
	assert.Equal(t, types.Comment{Text: "stray note"}, got[0])
	assert.Equal(t, "carol on not a date", got[1].Author)
	assert.True(t, got[1].Date.IsZero())
	assert.Equal(t, "hello", got[1].Text)

	assert.Nil(t, ParseComments(""))
}

func TestSplitAndJoinComments(t *testing.T) {
	c := types.Comment{Author: "dan", Date: time.Date(2022, 1, 2, 3, 4, 0, 0, time.UTC), Text: "noted"}
	d := types.Details{{Name: "summary", Body: "s"}}

	joined := JoinComments(d, []types.Comment{c}, CommentsSection)
	require.Len(t, joined, 2)
	assert.Len(t, d, 1, "JoinComments must not modify its input")

	rest, comments := SplitComments(ParseText(RenderText(joined)))
	assert.Equal(t, d, rest)
	assert.Equal(t, []types.Comment{c}, comments)
}

func TestDisplay(t *testing.T) {
	d := types.Details{
		{Name: "summary", Body: "# describe the bug here\nIt broke."},
		{Name: "expected", Body: "# what should happen"},
	}
	c := []types.Comment{{Author: "eve", Date: time.Date(2021, 6, 7, 9, 0, 0, 0, time.UTC), Text: "seen it"}}

	got := Display(d, c)
	assert.Equal(t, "## Summary\n\nIt broke.\n\n## Comments\n\n**eve** on Monday, June 07, 2021 at 09:00 AM\n\nseen it", got)
}
