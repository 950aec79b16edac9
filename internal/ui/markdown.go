package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Wrap columns for the details view.
const (
	minDetailsWidth     = 40
	maxDetailsWidth     = 100
	defaultDetailsWidth = 80
)

// DetailsWidth returns the column details are wrapped at for a terminal of
// the given width (0 when unknown).
func DetailsWidth(term int) int {
	switch {
	case term <= 0:
		return defaultDetailsWidth
	case term < minDetailsWidth:
		return minDetailsWidth
	case term > maxDetailsWidth:
		return maxDetailsWidth
	}
	return term
}

// detailsStyle picks the glamour style matching the terminal background.
func detailsStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// RenderMarkdown renders the markdown of a details view with glamour.
// Without colour, or when rendering fails, the text is returned as is.
// Line breaks inside sections and comments are kept, and the blank
// margin glamour adds around the document is trimmed.
func RenderMarkdown(markdown string) string {
	if !ShouldUseColor() {
		return markdown
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(detailsStyle()),
		glamour.WithWordWrap(DetailsWidth(Width())),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(rendered, "\n") + "\n"
}
