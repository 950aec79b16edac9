// Package users resolves typed user names against the owners of a store.
package users

import (
	"sort"
	"strings"

	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/types"
)

// Reserved user tokens.
const (
	// Me stands for the invoking user.
	Me = "me"
	// Nobody stands for the unassigned owner. It is matched
	// case-insensitively and always exactly.
	Nobody = "Nobody"
)

// reservedChars may not appear in a user name: they separate fields in the
// flat index format.
const reservedChars = "|,"

// ValidateName reports whether name can be stored as an owner or author.
// The empty name is the unassigned owner and is valid.
func ValidateName(name string) error {
	if strings.ContainsAny(name, reservedChars) {
		return storage.InputError("user name %q cannot contain %q", name, reservedChars)
	}
	return nil
}

// Resolver matches user tokens against the owners of Records.
type Resolver struct {
	Me      string
	Records []*types.Record
}

// Owners returns the distinct non-empty owners in record order.
func Owners(records []*types.Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if r.Owner == "" || seen[r.Owner] {
			continue
		}
		seen[r.Owner] = true
		out = append(out, r.Owner)
	}
	return out
}

// Resolve maps token to a canonical owner. The empty string is the
// unassigned owner. With force the token is taken verbatim.
func (r *Resolver) Resolve(token string, force bool) (string, error) {
	switch {
	case token == Me:
		if err := ValidateName(r.Me); err != nil {
			return "", err
		}
		return r.Me, nil
	case strings.EqualFold(token, Nobody):
		return "", nil
	case token == "":
		return "", storage.InputError("user name cannot be empty")
	}

	if force {
		if err := ValidateName(token); err != nil {
			return "", err
		}
		return token, nil
	}

	owners := Owners(r.Records)
	for _, o := range owners {
		if o == token {
			return o, nil
		}
	}

	lower := strings.ToLower(token)
	var matched []string
	for _, o := range owners {
		if strings.HasPrefix(strings.ToLower(o), lower) {
			matched = append(matched, o)
		}
	}
	if len(matched) == 1 {
		return matched[0], nil
	}
	sort.Strings(matched)
	return "", &storage.UserError{User: token, Matches: matched}
}

// Label returns the display name of an owner.
func Label(owner string) string {
	if owner == "" {
		return Nobody
	}
	return owner
}

// Stat is one row of the owner statistics.
type Stat struct {
	Owner string `json:"owner"` // "" for unassigned
	Open  int    `json:"open"`
}

// Label is the display name of the row's owner.
func (s Stat) Label() string {
	return Label(s.Owner)
}

// Stats counts the open records of every owner. Owners whose records are
// all resolved are listed after the others with a count of zero.
// When scope is ScopeResolved the counts are of resolved records instead,
// and ScopeAll counts every record.
func Stats(records []*types.Record, scope types.Scope) []Stat {
	index := make(map[string]int)
	var out []Stat
	add := func(owner string, n int) {
		if i, ok := index[owner]; ok {
			out[i].Open += n
			return
		}
		index[owner] = len(out)
		out = append(out, Stat{Owner: owner, Open: n})
	}
	for _, r := range records {
		if scope.Matches(r.Open) {
			add(r.Owner, 1)
		}
	}
	for _, r := range records {
		if !scope.Matches(r.Open) {
			add(r.Owner, 0)
		}
	}
	return out
}
