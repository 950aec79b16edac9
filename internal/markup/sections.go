// Package markup converts record details between their historical text
// layouts ("[section]" headers and "## Section" markdown) and the
// structured types.Details form.
package markup

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bugtrack/b/internal/types"
)

// CommentsSection is the name of the section holding delimited comments.
const CommentsSection = "comments"

var bracketHeader = regexp.MustCompile(`^\[(.+)\]$`)

// ParseText splits "[section]" formatted text into sections. Text before the
// first header becomes an unnamed section when it is not blank.
func ParseText(content string) types.Details {
	var (
		out  types.Details
		name string
		body []string
		open bool
	)
	flush := func() {
		b := trimBlankLines(strings.Join(body, "\n"))
		if open || b != "" {
			out = append(out, types.Section{Name: name, Body: b})
		}
	}
	for _, line := range strings.Split(normalize(content), "\n") {
		if m := bracketHeader.FindStringSubmatch(line); m != nil {
			flush()
			name, body, open = m[1], nil, true
			continue
		}
		body = append(body, line)
	}
	flush()
	return out
}

// RenderText writes sections with "[section]" headers.
func RenderText(d types.Details) string {
	return render(d, func(name string) string { return "[" + name + "]" })
}

// ParseMarkdown splits markdown into sections at level-two ATX headings.
// Headings inside code blocks are not section breaks.
func ParseMarkdown(content string) types.Details {
	src := normalize(content)
	lines := strings.Split(src, "\n")
	starts := lineStarts(src)

	type heading struct {
		line int
		name string
	}
	var headings []heading

	doc := goldmark.New().Parser().Parse(text.NewReader([]byte(src)))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 2 || h.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		seg := h.Lines().At(0)
		line := offsetToLine(starts, seg.Start)
		if !strings.HasPrefix(strings.TrimLeft(lines[line], " "), "##") {
			// Setext heading; not a section break.
			return ast.WalkContinue, nil
		}
		name := strings.TrimSpace(string(seg.Value([]byte(src))))
		headings = append(headings, heading{line: line, name: name})
		return ast.WalkSkipChildren, nil
	})

	var out types.Details
	if len(headings) == 0 {
		if b := trimBlankLines(src); b != "" {
			out = append(out, types.Section{Body: b})
		}
		return out
	}
	if b := trimBlankLines(strings.Join(lines[:headings[0].line], "\n")); b != "" {
		out = append(out, types.Section{Body: b})
	}
	for i, h := range headings {
		end := len(lines)
		if i+1 < len(headings) {
			end = headings[i+1].line
		}
		out = append(out, types.Section{
			Name: h.name,
			Body: trimBlankLines(strings.Join(lines[h.line+1:end], "\n")),
		})
	}
	return out
}

// RenderMarkdown writes sections with "## Section" headers.
func RenderMarkdown(d types.Details) string {
	return render(d, func(name string) string { return "## " + name })
}

func render(d types.Details, header func(string) string) string {
	var sb strings.Builder
	for _, s := range d {
		if s.Name != "" {
			sb.WriteString(header(s.Name))
			sb.WriteString("\n")
		}
		if s.Body != "" {
			sb.WriteString(s.Body)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// TextToMarkdown rewrites every "[section]" header line as a title-cased
// "## Section" header and leaves all other text untouched.
func TextToMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if m := bracketHeader.FindStringSubmatch(strings.TrimSuffix(line, "\r")); m != nil {
			lines[i] = "## " + TitleCase(m[1])
		}
	}
	return strings.Join(lines, "\n")
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// SectionKey turns a section heading into a stable mapping key,
// e.g. "Steps to Reproduce" becomes "steps-to-reproduce".
func SectionKey(name string) string {
	if k := slug.Make(name); k != "" {
		return k
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// SplitComments removes the comments section from d and parses it.
func SplitComments(d types.Details) (types.Details, []types.Comment) {
	var (
		rest     types.Details
		comments []types.Comment
	)
	for _, s := range d {
		if strings.EqualFold(s.Name, CommentsSection) {
			comments = append(comments, ParseComments(s.Body)...)
			continue
		}
		rest = append(rest, s)
	}
	return rest, comments
}

// JoinComments appends comments to d as a formatted comments section.
func JoinComments(d types.Details, comments []types.Comment, name string) types.Details {
	out := d.Clone()
	if len(comments) == 0 {
		return out
	}
	return append(out, types.Section{Name: name, Body: FormatComments(comments)})
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func lineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func offsetToLine(starts []int, offset int) int {
	for i := len(starts) - 1; i >= 0; i-- {
		if starts[i] <= offset {
			return i
		}
	}
	return 0
}
