package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bugtrack/b/internal/storage"
)

// FatalError writes an error message to stderr and exits with code 1.
// Use this for fatal errors that prevent the command from completing.
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// FatalErrorWithHint writes an error message with a hint to stderr and exits.
// Use this when you can provide an actionable suggestion to fix the error.
func FatalErrorWithHint(message, hint string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	os.Exit(1)
}

// WarnError writes a warning message to stderr and returns.
// Use this for optional operations that enhance functionality but aren't required.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// errorCode names the error kinds reported in JSON mode.
func errorCode(err error) string {
	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, storage.ErrAlreadyInitialized):
		return "already_initialized"
	case errors.Is(err, storage.ErrUnknownPrefix):
		return "unknown_prefix"
	case errors.Is(err, storage.ErrAmbiguousPrefix):
		return "ambiguous_prefix"
	case errors.Is(err, storage.ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, storage.ErrAmbiguousUser):
		return "ambiguous_user"
	case errors.Is(err, storage.ErrTemplate):
		return "template"
	case errors.Is(err, storage.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, storage.ErrInvalidCommand):
		return "invalid_command"
	default:
		return ""
	}
}

// errorHint returns an actionable suggestion for err, or "".
func errorHint(err error) string {
	var pe *storage.PrefixError
	var ue *storage.UserError
	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		return "run 'b init' to create a store here"
	case errors.As(err, &pe) && len(pe.Matches) > 1:
		return "type more of the ID to pick one of: " + strings.Join(pe.Matches, ", ")
	case errors.Is(err, storage.ErrUnknownPrefix):
		return "run 'b list -a' to see every bug and its prefix"
	case errors.As(err, &ue) && len(ue.Matches) > 1:
		return "type more of the name to pick one of: " + strings.Join(ue.Matches, ", ")
	case errors.Is(err, storage.ErrTemplate):
		return "run 'b templates' to see the available templates"
	default:
		return ""
	}
}

// handleError reports err in the output mode of the command and exits.
func handleError(err error) {
	if jsonOutput {
		outputJSONError(err)
		return
	}
	if hint := errorHint(err); hint != "" {
		FatalErrorWithHint(err.Error(), hint)
		return
	}
	FatalError("%v", err)
}
