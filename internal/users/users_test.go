package users

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugtrack/b/internal/storage"
	"github.com/bugtrack/b/internal/types"
)

func owned(open bool, owners ...string) []*types.Record {
	var out []*types.Record
	for _, o := range owners {
		out = append(out, &types.Record{Owner: o, Open: open})
	}
	return out
}

func TestResolveReservedTokens(t *testing.T) {
	r := &Resolver{Me: "alice", Records: owned(true, "Norma", "bob")}

	got, err := r.Resolve("me", false)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	for _, token := range []string{"Nobody", "nobody", "NOBODY"} {
		got, err = r.Resolve(token, false)
		require.NoError(t, err, token)
		assert.Equal(t, "", got, token)
	}

	// Nobody is never fuzzy matched.
	got, err = r.Resolve("no", false)
	require.NoError(t, err)
	assert.Equal(t, "Norma", got)
}

func TestResolveMatching(t *testing.T) {
	r := &Resolver{Records: append(owned(true, "Alice", "Alan", "", "bob"), owned(false, "carol")...)}

	tests := []struct {
		token string
		want  string
		err   error
	}{
		{"Alice", "Alice", nil},
		{"ali", "Alice", nil},
		{"ALA", "Alan", nil},
		{"B", "bob", nil},
		{"car", "carol", nil},
		{"Al", "", storage.ErrAmbiguousUser},
		{"zed", "", storage.ErrUnknownUser},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := r.Resolve(tt.token, false)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmbiguousUserNamesCandidates(t *testing.T) {
	r := &Resolver{Records: owned(true, "Alice", "Alan")}
	_, err := r.Resolve("Al", false)

	var ue *storage.UserError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, []string{"Alan", "Alice"}, ue.Matches)
	assert.Contains(t, err.Error(), "Alan")
	assert.Contains(t, err.Error(), "Alice")
}

func TestResolveExactBeatsPrefix(t *testing.T) {
	r := &Resolver{Records: owned(true, "Al", "Alice")}
	got, err := r.Resolve("Al", false)
	require.NoError(t, err)
	assert.Equal(t, "Al", got)
}

func TestResolveForce(t *testing.T) {
	r := &Resolver{Records: owned(true, "Alice", "Alan")}

	got, err := r.Resolve("Al", true)
	require.NoError(t, err)
	assert.Equal(t, "Al", got)

	for _, bad := range []string{"a|b", "a,b", ""} {
		_, err = r.Resolve(bad, true)
		assert.ErrorIs(t, err, storage.ErrInvalidInput, bad)
	}
}

func TestResolveRejectsEmptyToken(t *testing.T) {
	r := &Resolver{Records: owned(true, "Alice")}
	_, err := r.Resolve("", false)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestResolveMeChecksInvokingUser(t *testing.T) {
	for _, name := range []string{"Doe, Jane", "a|b"} {
		r := &Resolver{Me: name}
		_, err := r.Resolve("me", false)
		assert.ErrorIs(t, err, storage.ErrInvalidInput, name)
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName(""))
	assert.NoError(t, ValidateName("Jane Doe"))
	assert.ErrorIs(t, ValidateName("Doe, Jane"), storage.ErrInvalidInput)
	assert.ErrorIs(t, ValidateName("x|y"), storage.ErrInvalidInput)
}

func TestStats(t *testing.T) {
	records := []*types.Record{
		{Owner: "bob", Open: true},
		{Owner: "", Open: true},
		{Owner: "carol", Open: false},
		{Owner: "bob", Open: true},
		{Owner: "alice", Open: false},
		{Owner: "", Open: false},
	}

	assert.Equal(t, []Stat{
		{Owner: "bob", Open: 2},
		{Owner: "", Open: 1},
		{Owner: "carol", Open: 0},
		{Owner: "alice", Open: 0},
	}, Stats(records, types.ScopeOpen))

	assert.Equal(t, []Stat{
		{Owner: "carol", Open: 1},
		{Owner: "alice", Open: 1},
		{Owner: "", Open: 1},
		{Owner: "bob", Open: 0},
	}, Stats(records, types.ScopeResolved))

	assert.Equal(t, "Nobody", Stat{}.Label())
	assert.Empty(t, Stats(nil, types.ScopeOpen))
}

func TestOwners(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, Owners(owned(true, "b", "", "a", "b")))
}
