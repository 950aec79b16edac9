package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotInitialized is returned when a mutating operation runs against a
// store directory that does not exist.
var ErrNotInitialized = errors.New("no bugs directory found - use 'b init' to create one")

// ErrAlreadyInitialized is returned by init when a store already exists
// here or in a parent directory.
var ErrAlreadyInitialized = errors.New("bugs directory already exists")

// ErrUnknownPrefix is returned when no record ID starts with the prefix.
var ErrUnknownPrefix = errors.New("unknown prefix")

// ErrAmbiguousPrefix is returned when several record IDs start with the prefix.
var ErrAmbiguousPrefix = errors.New("ambiguous prefix")

// ErrUnknownUser is returned when a user token matches no known owner.
var ErrUnknownUser = errors.New("unknown user")

// ErrAmbiguousUser is returned when a user token matches several owners.
var ErrAmbiguousUser = errors.New("ambiguous user")

// ErrTemplate is returned when a detail template cannot be found or loaded.
var ErrTemplate = errors.New("template error")

// ErrInvalidInput is returned for malformed user input.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidCommand is returned for caller-level misuse of a command.
var ErrInvalidCommand = errors.New("invalid command")

// PrefixError carries the prefix that failed to resolve and, when ambiguous,
// every candidate ID. It matches ErrUnknownPrefix or ErrAmbiguousPrefix
// with errors.Is.
type PrefixError struct {
	Prefix  string
	Matches []string
}

func (e *PrefixError) Error() string {
	if len(e.Matches) > 1 {
		return fmt.Sprintf("prefix %q is ambiguous: matches %s", e.Prefix, strings.Join(e.Matches, ", "))
	}
	return fmt.Sprintf("unknown prefix %q", e.Prefix)
}

func (e *PrefixError) Unwrap() error {
	if len(e.Matches) > 1 {
		return ErrAmbiguousPrefix
	}
	return ErrUnknownPrefix
}

// UserError carries the user token that failed to resolve and, when
// ambiguous, every candidate owner.
type UserError struct {
	User    string
	Matches []string
}

func (e *UserError) Error() string {
	if len(e.Matches) > 1 {
		return fmt.Sprintf("user %q is ambiguous: matches %s", e.User, strings.Join(e.Matches, ", "))
	}
	return fmt.Sprintf("the provided user %q did not match any known user; use -f to force the creation of a new user", e.User)
}

func (e *UserError) Unwrap() error {
	if len(e.Matches) > 1 {
		return ErrAmbiguousUser
	}
	return ErrUnknownUser
}

// InputError wraps ErrInvalidInput with a message.
func InputError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// TemplateError wraps ErrTemplate with a message.
func TemplateError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTemplate, fmt.Sprintf(format, args...))
}

// CommandError wraps ErrInvalidCommand with a message.
func CommandError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
}
