package utils

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrack/b/internal/storage"
)

func TestShortestPrefixes(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want map[string]string
	}{
		{
			name: "empty",
			ids:  nil,
			want: map[string]string{},
		},
		{
			name: "singleton",
			ids:  []string{"deadbeef"},
			want: map[string]string{"deadbeef": "d"},
		},
		{
			name: "two hashes",
			ids: []string{
				"a94a8fe5ccb19ba61c4c0873d391e987982fbbd3",
				"afc8edc74ae9e7b8d290f945a6d613f1d264a2b2",
			},
			want: map[string]string{
				"a94a8fe5ccb19ba61c4c0873d391e987982fbbd3": "a9",
				"afc8edc74ae9e7b8d290f945a6d613f1d264a2b2": "af",
			},
		},
		{
			name: "diverge at last char",
			ids:  []string{"abc", "abd", "xyz"},
			want: map[string]string{"abc": "abc", "abd": "abd", "xyz": "x"},
		},
		{
			name: "shared prefix among three",
			ids:  []string{"abc1", "abc2", "abc3"},
			want: map[string]string{"abc1": "abc1", "abc2": "abc2", "abc3": "abc3"},
		},
		{
			name: "later id diverges earlier",
			ids:  []string{"1234", "1235", "1334"},
			want: map[string]string{"1234": "1234", "1235": "1235", "1334": "13"},
		},
		{
			name: "mixed depths",
			ids:  []string{"aaaa", "aaab", "aaba", "b"},
			want: map[string]string{"aaaa": "aaaa", "aaab": "aaab", "aaba": "aab", "b": "b"},
		},
		{
			name: "contained id first",
			ids:  []string{"abc", "abcdef"},
			want: map[string]string{"abc": "abc", "abcdef": "abcd"},
		},
		{
			name: "contained id second",
			ids:  []string{"abcdef", "abc"},
			want: map[string]string{"abc": "abc", "abcdef": "abcd"},
		},
		{
			name: "chain of containment",
			ids:  []string{"ab", "abc", "abcd"},
			want: map[string]string{"ab": "ab", "abc": "abc", "abcd": "abcd"},
		},
		{
			name: "empty id maps to itself",
			ids:  []string{"", "abc"},
			want: map[string]string{"": "", "abc": "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortestPrefixes(tt.ids))
		})
	}
}

// TestShortestPrefixesProperties checks the table over a set of realistic
// 40-character IDs with many shared leading characters.
func TestShortestPrefixesProperties(t *testing.T) {
	var ids []string
	for i := 0; i < 300; i++ {
		// Every ID shares its first few characters with several others.
		ids = append(ids, fmt.Sprintf("%03x%037x", i%17, i*7919))
	}

	got := ShortestPrefixes(ids)
	require.Len(t, got, len(ids))

	seen := make(map[string]string)
	for _, id := range ids {
		p, ok := got[id]
		require.True(t, ok, "missing prefix for %s", id)
		require.NotEmpty(t, p)
		require.True(t, strings.HasPrefix(id, p), "%q is not a prefix of %q", p, id)

		if prev, dup := seen[p]; dup {
			t.Fatalf("prefix %q shared by %s and %s", p, prev, id)
		}
		seen[p] = id

		resolved, err := ResolvePrefix(p, ids)
		require.NoError(t, err)
		require.Equal(t, id, resolved)
	}
}

func TestResolvePrefix(t *testing.T) {
	ids := []string{"abc123", "abc456", "def789", "abc"}

	tests := []struct {
		name    string
		prefix  string
		want    string
		wantErr error
		matches []string
	}{
		{name: "unique partial", prefix: "d", want: "def789"},
		{name: "full id", prefix: "abc456", want: "abc456"},
		{name: "exact id shared with others", prefix: "abc", want: "abc"},
		{name: "unknown", prefix: "zzz", wantErr: storage.ErrUnknownPrefix},
		{
			name:    "ambiguous",
			prefix:  "ab",
			wantErr: storage.ErrAmbiguousPrefix,
			matches: []string{"abc", "abc123", "abc456"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePrefix(tt.prefix, ids)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			var perr *storage.PrefixError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.prefix, perr.Prefix)
			assert.Equal(t, tt.matches, perr.Matches)
		})
	}
}
