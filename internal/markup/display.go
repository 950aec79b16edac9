package markup

import (
	"strings"

	"github.com/bugtrack/b/internal/types"
)

// Display renders details and comments as markdown for the terminal.
// Template guidance lines starting with "#" and empty sections are dropped.
func Display(d types.Details, comments []types.Comment) string {
	var sb strings.Builder
	for _, s := range d {
		body := stripGuidance(s.Body)
		if body == "" {
			continue
		}
		if s.Name != "" {
			sb.WriteString("## " + TitleCase(s.Name) + "\n\n")
		}
		sb.WriteString(body + "\n\n")
	}
	if len(comments) > 0 {
		sb.WriteString("## Comments\n\n")
		for _, c := range comments {
			who := c.Author
			if who == "" {
				who = "Anonymous"
			}
			sb.WriteString("**" + who + "**")
			if !c.Date.IsZero() {
				sb.WriteString(" on " + FormatDate(c.Date))
			}
			sb.WriteString("\n\n" + c.Text + "\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func stripGuidance(body string) string {
	var kept []string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return trimBlankLines(strings.Join(kept, "\n"))
}
