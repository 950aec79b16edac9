// Package editor launches the user's editor on a file.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher runs Command on a file and waits for it to exit.
type Launcher struct {
	// Command may carry arguments ("code -w"); it is run through the shell.
	Command string

	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// New returns a Launcher attached to the process's terminal.
func New(command string) *Launcher {
	return &Launcher{Command: command, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Launch opens path in the editor and blocks until it exits. The editor's
// exit status is ignored; an error is returned only when it cannot be started.
func (l *Launcher) Launch(ctx context.Context, path string) error {
	if strings.TrimSpace(l.Command) == "" {
		return fmt.Errorf("no editor configured; set 'editor' or $EDITOR")
	}

	cmd := l.command(ctx, path)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err == nil || errors.As(err, &exitErr) {
		return nil
	}
	return fmt.Errorf("failed to run editor %q: %w", l.Command, err)
}

func (l *Launcher) command(ctx context.Context, path string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", l.Command+" "+quote(path)) // #nosec G204 - editor is user-configured
	}
	return exec.CommandContext(ctx, "sh", "-c", l.Command+" "+quote(path)) // #nosec G204 - editor is user-configured
}

// quote quotes a path for the shell.
func quote(s string) string {
	if runtime.GOOS == "windows" {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
