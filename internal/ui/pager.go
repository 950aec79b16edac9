package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// PagerOptions controls pager behavior
type PagerOptions struct {
	// NoPager disables pager for this command (--no-pager flag)
	NoPager bool
	// Out receives the content when no pager is used. Defaults to stdout.
	Out io.Writer
}

// shouldUsePager returns false if NoPager is set, B_NO_PAGER is set, or
// stdout is not a TTY.
func shouldUsePager(opts PagerOptions) bool {
	if opts.NoPager || opts.Out != nil {
		return false
	}
	if os.Getenv("B_NO_PAGER") != "" {
		return false
	}
	return IsTerminal()
}

// pagerCommand checks B_PAGER, then PAGER, and defaults to "less".
func pagerCommand() string {
	if pager := os.Getenv("B_PAGER"); pager != "" {
		return pager
	}
	if pager := os.Getenv("PAGER"); pager != "" {
		return pager
	}
	return "less"
}

func terminalHeight() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	_, height, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return height
}

func contentHeight(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// ToPager pipes content to a pager if appropriate, and prints it directly
// when it fits on the screen or stdout is not a terminal.
func ToPager(content string, opts PagerOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if !shouldUsePager(opts) {
		_, err := fmt.Fprint(out, content)
		return err
	}

	if h := terminalHeight(); h > 0 && contentHeight(content) <= h-1 {
		_, err := fmt.Fprint(out, content)
		return err
	}

	parts := strings.Fields(pagerCommand())
	if len(parts) == 0 {
		_, err := fmt.Fprint(out, content)
		return err
	}

	cmd := exec.Command(parts[0], parts[1:]...) // #nosec G204 - pager command is user-configurable
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// -R: ANSI colours, -F: quit if one screen, -X: don't clear on exit
	if os.Getenv("LESS") == "" {
		cmd.Env = append(os.Environ(), "LESS=-RFX")
	} else {
		cmd.Env = os.Environ()
	}
	return cmd.Run()
}
