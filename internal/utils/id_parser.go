package utils

import (
	"sort"
	"strings"

	"github.com/bugtrack/b/internal/storage"
)

// ResolvePrefix resolves a possibly partial record ID to a full ID.
// Supports:
// - Full IDs: always resolve to themselves, even when another ID
//   starts with the same characters
// - Partial IDs: "a3f8" resolves when exactly one ID starts with it
//
// Returns a *storage.PrefixError if no ID starts with prefix, or if several
// do and prefix is not itself one of them.
func ResolvePrefix(prefix string, ids []string) (string, error) {
	var matches []string
	exact := false
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		matches = append(matches, id)
		if id == prefix {
			exact = true
		}
	}

	switch {
	case len(matches) == 1:
		return matches[0], nil
	case len(matches) == 0:
		return "", &storage.PrefixError{Prefix: prefix}
	case exact:
		return prefix, nil
	}

	sort.Strings(matches)
	return "", &storage.PrefixError{Prefix: prefix, Matches: matches}
}
