// Package storetest checks implementations of history.Store and
// accounts.Repository against the behavior the calculator expects.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc/internal/accounts"
	"github.com/zephyrtronium/calc/internal/history"
)

// Store is storage for both history and users.
type Store interface {
	history.Store
	accounts.Repository
}

// Run runs the suite. open must return a new, empty store for each call.
func Run(t *testing.T, open func(t *testing.T) Store) {
	t.Run("HistoryOrder", func(t *testing.T) { historyOrder(t, open(t)) })
	t.Run("HistoryLimit", func(t *testing.T) { historyLimit(t, open(t)) })
	t.Run("HistoryPerUser", func(t *testing.T) { historyPerUser(t, open(t)) })
	t.Run("HistoryMissingID", func(t *testing.T) { historyMissingID(t, open(t)) })
	t.Run("Users", func(t *testing.T) { users(t, open(t)) })
	t.Run("UsersMissing", func(t *testing.T) { usersMissing(t, open(t)) })
}

func appendN(t *testing.T, s Store, user string, n int) {
	t.Helper()
	base := time.Date(2024, time.March, 4, 15, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		e := history.New(user, fmt.Sprintf("%d + 0 = %d", i, i), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.Append(context.Background(), e))
	}
}

func texts(l []history.Entry) []string {
	r := make([]string, len(l))
	for i, e := range l {
		r[i] = e.Text
	}
	return r
}

func historyOrder(t *testing.T, s Store) {
	ctx := context.Background()
	appendN(t, s, "ada", 3)
	l, err := s.List(ctx, "ada", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"0 + 0 = 0", "1 + 0 = 1", "2 + 0 = 2"}, texts(l))
	for _, e := range l {
		assert.Equal(t, "ada", e.User)
		assert.NotEmpty(t, e.ID)
	}
	assert.Equal(t, 15, l[0].CreatedAt.UTC().Hour())
	assert.Equal(t, 2, l[2].CreatedAt.UTC().Minute())
}

func historyLimit(t *testing.T, s Store) {
	ctx := context.Background()
	appendN(t, s, "ada", 5)
	l, err := s.List(ctx, "ada", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"3 + 0 = 3", "4 + 0 = 4"}, texts(l))

	l, err = s.List(ctx, "ada", 10)
	require.NoError(t, err)
	assert.Len(t, l, 5)
}

func historyPerUser(t *testing.T, s Store) {
	ctx := context.Background()
	appendN(t, s, "ada", 2)
	appendN(t, s, "", 1)

	l, err := s.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, l, 1)

	require.NoError(t, s.Clear(ctx, "ada"))
	l, err = s.List(ctx, "ada", 0)
	require.NoError(t, err)
	assert.Empty(t, l)

	l, err = s.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, l, 1, "clearing one user leaves the others")
	assert.False(t, s.Now().IsZero())
}

func historyMissingID(t *testing.T, s Store) {
	err := s.Append(context.Background(), history.Entry{User: "ada", Text: "x"})
	assert.Error(t, err)
}

func users(t *testing.T, s Store) {
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)
	bob := accounts.User{Name: "bob", Salt: []byte("salt"), Hash: []byte("hash"), CreatedAt: now}
	require.NoError(t, s.CreateUser(ctx, bob))
	require.NoError(t, s.CreateUser(ctx, accounts.User{Name: "ada", Salt: []byte("s"), Hash: []byte("h"), CreatedAt: now}))
	assert.ErrorIs(t, s.CreateUser(ctx, bob), accounts.ErrUserExists)

	u, err := s.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.Salt, u.Salt)
	assert.Equal(t, bob.Hash, u.Hash)
	assert.True(t, now.Equal(u.CreatedAt))

	all, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ada", all[0].Name)
	assert.Equal(t, "bob", all[1].Name)

	require.NoError(t, s.UpdatePassword(ctx, "bob", []byte("salt2"), []byte("hash2")))
	u, err = s.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []byte("salt2"), u.Salt)
	assert.Equal(t, []byte("hash2"), u.Hash)

	require.NoError(t, s.DeleteUser(ctx, "bob"))
	_, err = s.GetUser(ctx, "bob")
	assert.ErrorIs(t, err, accounts.ErrNotFound)
}

func usersMissing(t *testing.T, s Store) {
	ctx := context.Background()
	_, err := s.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, accounts.ErrNotFound)
	assert.ErrorIs(t, s.UpdatePassword(ctx, "nobody", nil, nil), accounts.ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, "nobody"), accounts.ErrNotFound)
	all, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
