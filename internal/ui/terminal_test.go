package ui

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestShouldUseColor(t *testing.T) {
	tests := []struct {
		name          string
		noColor       string
		cliColor      string
		cliColorForce string
		wantColor     bool
	}{
		{name: "NO_COLOR disables color", noColor: "1", wantColor: false},
		{name: "CLICOLOR=0 disables color", cliColor: "0", wantColor: false},
		{name: "CLICOLOR_FORCE enables color even in non-TTY", cliColorForce: "1", wantColor: true},
		{name: "NO_COLOR takes precedence over CLICOLOR_FORCE", noColor: "1", cliColorForce: "1", wantColor: false},
		{name: "no variables and no TTY", wantColor: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("CLICOLOR", tt.cliColor)
			t.Setenv("CLICOLOR_FORCE", tt.cliColorForce)

			if got := ShouldUseColor(); got != tt.wantColor {
				t.Errorf("ShouldUseColor() = %v, want %v", got, tt.wantColor)
			}
		})
	}
}

func TestWidthWithoutTerminal(t *testing.T) {
	// go test does not run with a terminal on stdout
	if IsTerminal() {
		t.Skip("stdout is a terminal")
	}
	if w := Width(); w != 0 {
		t.Errorf("Width() = %d, want 0", w)
	}
}

func TestPlainProfileRendersWithoutEscapes(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	old := lipgloss.ColorProfile()
	defer lipgloss.SetColorProfile(old)

	ApplyColorProfile()
	if got := RenderID("a1"); got != "a1" {
		t.Errorf("RenderID() = %q, want plain text", got)
	}
	if lipgloss.ColorProfile() != termenv.Ascii {
		t.Errorf("profile = %v, want Ascii", lipgloss.ColorProfile())
	}
}

func TestRenderMarkdownPlain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	md := "## Expected\n\nIt works."
	if got := RenderMarkdown(md); got != md {
		t.Errorf("RenderMarkdown() = %q, want input unchanged", got)
	}
}

func TestRenderMarkdownStyled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	got := RenderMarkdown("## Expected\n\nIt works.")
	plain := ansiEscape.ReplaceAllString(got, "")
	if !strings.Contains(plain, "works.") {
		t.Errorf("RenderMarkdown() lost the body: %q", got)
	}
	if strings.HasPrefix(got, "\n") || !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Errorf("RenderMarkdown() margins not trimmed: %q", got)
	}
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func TestDetailsWidth(t *testing.T) {
	tests := []struct{ term, want int }{
		{0, 80},
		{-1, 80},
		{20, 40},
		{72, 72},
		{100, 100},
		{240, 100},
	}
	for _, tt := range tests {
		if got := DetailsWidth(tt.term); got != tt.want {
			t.Errorf("DetailsWidth(%d) = %d, want %d", tt.term, got, tt.want)
		}
	}
}

func TestToPagerWritesDirectly(t *testing.T) {
	var buf bytes.Buffer
	if err := ToPager("line one\nline two\n", PagerOptions{Out: &buf}); err != nil {
		t.Fatalf("ToPager() error = %v", err)
	}
	if buf.String() != "line one\nline two\n" {
		t.Errorf("ToPager() wrote %q", buf.String())
	}
}

func TestPagerCommand(t *testing.T) {
	t.Setenv("B_PAGER", "")
	t.Setenv("PAGER", "")
	if got := pagerCommand(); got != "less" {
		t.Errorf("pagerCommand() = %q, want less", got)
	}
	t.Setenv("PAGER", "more")
	if got := pagerCommand(); got != "more" {
		t.Errorf("pagerCommand() = %q, want more", got)
	}
	t.Setenv("B_PAGER", "most")
	if got := pagerCommand(); got != "most" {
		t.Errorf("pagerCommand() = %q, want most", got)
	}
}

func TestContentHeight(t *testing.T) {
	if contentHeight("") != 0 || contentHeight("a") != 1 || contentHeight("a\nb") != 2 {
		t.Error("contentHeight() miscounted")
	}
}
