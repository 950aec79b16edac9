package markup

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bugtrack/b/internal/types"
)

// DateLayout is the human date format used in comment delimiters,
// e.g. "Monday, January 02, 2006 at 03:04 PM".
const DateLayout = "Monday, January 02, 2006 at 03:04 PM"

var delimiter = regexp.MustCompile(`(?m)^-----\[ (.*?) \]-----[ \t]*$`)

// FormatDate renders t with DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatComment renders one comment with its delimiter line:
//
//	-----[ alice on Monday, January 02, 2006 at 03:04 PM ]-----
//	text
func FormatComment(c types.Comment) string {
	title := FormatDate(c.Date)
	if c.Author != "" {
		title = c.Author + " on " + title
	}
	return fmt.Sprintf("-----[ %s ]-----\n%s\n", title, strings.TrimRight(c.Text, "\n"))
}

// FormatComments renders comments separated by blank lines.
func FormatComments(comments []types.Comment) string {
	parts := make([]string, len(comments))
	for i, c := range comments {
		parts[i] = FormatComment(c)
	}
	return strings.TrimRight(strings.Join(parts, "\n"), "\n")
}

// ParseComments splits a comments section on its delimiter lines. Dates
// that do not parse are left zero and the whole header becomes the author.
// Text before the first delimiter is kept as an anonymous comment.
func ParseComments(body string) []types.Comment {
	body = normalize(body)
	locs := delimiter.FindAllStringSubmatchIndex(body, -1)

	var out []types.Comment
	lead := 0
	if len(locs) > 0 {
		lead = locs[0][0]
	} else {
		lead = len(body)
	}
	if t := trimBlankLines(body[:lead]); t != "" {
		out = append(out, types.Comment{Text: t})
	}

	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		c := parseHeader(body[loc[2]:loc[3]])
		c.Text = trimBlankLines(body[loc[1]:end])
		out = append(out, c)
	}
	return out
}

func parseHeader(header string) types.Comment {
	author, date := "", header
	if i := strings.LastIndex(header, " on "); i >= 0 {
		author, date = header[:i], header[i+len(" on "):]
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), time.UTC)
	if err != nil {
		return types.Comment{Author: header}
	}
	return types.Comment{Author: author, Date: t}
}
