package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bugtrack/b/internal/storage"
)

// writeJSON writes v as indented JSON. Titles and comments are written
// verbatim, so "<" and "&" are not escaped.
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// outputJSON outputs data as pretty-printed JSON to stdout.
func outputJSON(v interface{}) {
	if err := writeJSON(os.Stdout, v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// jsonError is the JSON form of a failed command. Matches lists the
// candidates of an ambiguous prefix or user.
type jsonError struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Hint    string   `json:"hint,omitempty"`
	Matches []string `json:"matches,omitempty"`
}

func newJSONError(err error) jsonError {
	out := jsonError{Error: err.Error(), Code: errorCode(err), Hint: errorHint(err)}
	var pe *storage.PrefixError
	var ue *storage.UserError
	switch {
	case errors.As(err, &pe) && len(pe.Matches) > 1:
		out.Matches = pe.Matches
	case errors.As(err, &ue) && len(ue.Matches) > 1:
		out.Matches = ue.Matches
	}
	return out
}

// outputJSONError outputs an error as JSON to stderr and exits with code 1.
func outputJSONError(err error) {
	_ = writeJSON(os.Stderr, newJSONError(err))
	os.Exit(1)
}
