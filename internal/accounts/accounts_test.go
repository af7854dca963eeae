package accounts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc/internal/accounts"
	"github.com/zephyrtronium/calc/internal/storage/memory"
)

const testCost = 1 << 10

func newService(t *testing.T) (*accounts.Service, *memory.Store) {
	t.Helper()
	repo := memory.New()
	return accounts.New(repo, testCost), repo
}

func TestRegisterLogin(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	require.NoError(t, svc.Register(ctx, "ada", "hunter2"))

	u, err := svc.Login(ctx, "ada", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Name)

	stored, err := repo.GetUser(ctx, "ada")
	require.NoError(t, err)
	assert.Len(t, stored.Salt, 16)
	assert.Len(t, stored.Hash, 32)
	assert.NotContains(t, string(stored.Hash), "hunter2")
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	require.NoError(t, svc.Register(ctx, "ada", "pw"))

	cases := []struct {
		name string
		user string
		pw   string
		err  error
	}{
		{"reserved", accounts.Admin, "pw", accounts.ErrReservedName},
		{"exists", "ada", "other", accounts.ErrUserExists},
		{"empty name", "  ", "pw", accounts.ErrEmptyCredentials},
		{"empty password", "bob", "", accounts.ErrEmptyCredentials},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := svc.Register(ctx, c.user, c.pw)
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	require.NoError(t, svc.Register(ctx, "ada", "pw"))

	_, err := svc.Login(ctx, "ada", "wrong")
	assert.ErrorIs(t, err, accounts.ErrBadCredentials)
	_, err = svc.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, accounts.ErrBadCredentials)
}

func TestSaltsDiffer(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)
	require.NoError(t, svc.Register(ctx, "a", "same"))
	require.NoError(t, svc.Register(ctx, "b", "same"))

	a, err := repo.GetUser(ctx, "a")
	require.NoError(t, err)
	b, err := repo.GetUser(ctx, "b")
	require.NoError(t, err)
	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	require.NoError(t, svc.Register(ctx, "ada", "old"))

	assert.ErrorIs(t, svc.ChangePassword(ctx, "ada", "wrong", "new"), accounts.ErrBadCredentials)
	assert.ErrorIs(t, svc.ChangePassword(ctx, "ada", "old", ""), accounts.ErrEmptyCredentials)
	require.NoError(t, svc.ChangePassword(ctx, "ada", "old", "new"))

	_, err := svc.Login(ctx, "ada", "old")
	assert.ErrorIs(t, err, accounts.ErrBadCredentials)
	_, err = svc.Login(ctx, "ada", "new")
	assert.NoError(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	assert.ErrorIs(t, svc.EnsureAdmin(ctx, ""), accounts.ErrEmptyCredentials)
	require.NoError(t, svc.EnsureAdmin(ctx, "first"))
	require.NoError(t, svc.EnsureAdmin(ctx, "second"))

	_, err := svc.Login(ctx, accounts.Admin, "first")
	assert.NoError(t, err, "existing admin keeps its password")
	assert.True(t, accounts.IsAdmin(accounts.Admin))
	assert.False(t, accounts.IsAdmin("ada"))
}

func TestDeleteList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	require.NoError(t, svc.Register(ctx, "bob", "pw"))
	require.NoError(t, svc.Register(ctx, "ada", "pw"))

	names, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada", "bob"}, names)

	require.NoError(t, svc.Delete(ctx, "bob"))
	assert.ErrorIs(t, svc.Delete(ctx, "bob"), accounts.ErrNotFound)
	names, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada"}, names)
}
