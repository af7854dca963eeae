// Package memory stores calculator history and accounts in memory.
package memory

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/zephyrtronium/calc/internal/accounts"
	"github.com/zephyrtronium/calc/internal/history"
)

// Store implements history.Store and accounts.Repository. It is safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	entries map[string][]history.Entry // by user, oldest first
	users   map[string]accounts.User
}

var (
	_ history.Store       = (*Store)(nil)
	_ accounts.Repository = (*Store)(nil)
)

func New() *Store {
	return &Store{
		now:     time.Now,
		entries: make(map[string][]history.Entry),
		users:   make(map[string]accounts.User),
	}
}

func (s *Store) Now() time.Time { return s.now() }

func (s *Store) Append(ctx context.Context, e history.Entry) error {
	_ = ctx
	if e.ID == "" {
		return errors.New("entry ID required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.User] = append(s.entries[e.User], e)
	return nil
}

func (s *Store) List(ctx context.Context, user string, limit int) ([]history.Entry, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	l := s.entries[user]
	if limit > 0 && limit < len(l) {
		l = l[len(l)-limit:]
	}
	if len(l) == 0 {
		return nil, nil
	}
	return append([]history.Entry(nil), l...), nil
}

func (s *Store) Clear(ctx context.Context, user string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, user)
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u accounts.User) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Name]; ok {
		return accounts.ErrUserExists
	}
	s.users[u.Name] = clone(u)
	return nil
}

func (s *Store) GetUser(ctx context.Context, name string) (accounts.User, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[name]
	if !ok {
		return accounts.User{}, accounts.ErrNotFound
	}
	return clone(u), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]accounts.User, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]accounts.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdatePassword(ctx context.Context, name string, salt, hash []byte) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[name]
	if !ok {
		return accounts.ErrNotFound
	}
	u.Salt = bytes.Clone(salt)
	u.Hash = bytes.Clone(hash)
	s.users[name] = u
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, name string) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[name]; !ok {
		return accounts.ErrNotFound
	}
	delete(s.users, name)
	return nil
}

func clone(u accounts.User) accounts.User {
	u.Salt = bytes.Clone(u.Salt)
	u.Hash = bytes.Clone(u.Hash)
	return u
}
