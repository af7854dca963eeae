// Package accounts manages calculator users and their passwords.
package accounts

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/scrypt"
)

// Admin is the name of the administrator account. Nobody can register it;
// it is created with EnsureAdmin.
const Admin = "root"

var (
	// ErrReservedName is returned when registering the admin name.
	ErrReservedName = errors.New("user name is reserved")
	// ErrUserExists is returned when registering a name that is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrEmptyCredentials is returned when a name or password is empty.
	ErrEmptyCredentials = errors.New("user name and password must not be empty")
	// ErrBadCredentials is returned when a name and password don't match.
	ErrBadCredentials = errors.New("wrong user name or password")
	// ErrNotFound is returned by repositories for unknown users.
	ErrNotFound = errors.New("user not found")
)

// User is a stored account. The password is kept only as a salted scrypt
// hash.
type User struct {
	Name      string
	Salt      []byte
	Hash      []byte
	CreatedAt time.Time
}

// Repository persists users.
type Repository interface {
	// CreateUser stores a new user. It returns ErrUserExists if the name is
	// taken.
	CreateUser(ctx context.Context, u User) error
	// GetUser returns ErrNotFound for unknown names.
	GetUser(ctx context.Context, name string) (User, error)
	// ListUsers returns all users ordered by name.
	ListUsers(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, name string, salt, hash []byte) error
	DeleteUser(ctx context.Context, name string) error
}

// DefaultCost is the scrypt CPU/memory cost parameter N used when New is
// given zero.
const DefaultCost = 1 << 15

// Service implements registration and login on top of a Repository.
type Service struct {
	repo Repository
	cost int
	now  func() time.Time
	rand io.Reader
}

// New creates a service backed by repo. cost is the scrypt cost parameter, a
// power of two; zero selects DefaultCost. Every service using the same
// repository must use the same cost.
func New(repo Repository, cost int) *Service {
	if cost <= 0 {
		cost = DefaultCost
	}
	return &Service{repo: repo, cost: cost, now: time.Now, rand: rand.Reader}
}

// IsAdmin reports whether name is the administrator.
func IsAdmin(name string) bool {
	return name == Admin
}

// Register creates a new user.
func (s *Service) Register(ctx context.Context, name, password string) error {
	switch {
	case IsAdmin(name):
		return ErrReservedName
	case strings.TrimSpace(name) == "", password == "":
		return ErrEmptyCredentials
	}
	return s.create(ctx, name, password)
}

// EnsureAdmin creates the administrator account with the given password if it
// doesn't exist yet. An existing admin keeps its password.
func (s *Service) EnsureAdmin(ctx context.Context, password string) error {
	if password == "" {
		return ErrEmptyCredentials
	}
	_, err := s.repo.GetUser(ctx, Admin)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, ErrNotFound):
		return err
	}
	return s.create(ctx, Admin, password)
}

func (s *Service) create(ctx context.Context, name, password string) error {
	salt, hash, err := s.hash(password)
	if err != nil {
		return err
	}
	u := User{Name: name, Salt: salt, Hash: hash, CreatedAt: s.now()}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("create user %q: %w", name, err)
	}
	return nil
}

// Login checks a user's password and returns the user.
func (s *Service) Login(ctx context.Context, name, password string) (*User, error) {
	u, err := s.repo.GetUser(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	ok, err := verify(password, u.Salt, u.Hash, s.cost)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBadCredentials
	}
	return &u, nil
}

// ChangePassword replaces a user's password with pw if old is correct.
func (s *Service) ChangePassword(ctx context.Context, name, old, pw string) error {
	if pw == "" {
		return ErrEmptyCredentials
	}
	if _, err := s.Login(ctx, name, old); err != nil {
		return err
	}
	salt, hash, err := s.hash(pw)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, name, salt, hash)
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, name string) error {
	return s.repo.DeleteUser(ctx, name)
}

// List returns all user names.
func (s *Service) List(ctx context.Context) ([]string, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	return names, nil
}

func (s *Service) hash(password string) (salt, hash []byte, err error) {
	salt = make([]byte, 16)
	if _, err := io.ReadFull(s.rand, salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err = deriveKey(password, salt, s.cost)
	if err != nil {
		return nil, nil, err
	}
	return salt, hash, nil
}

func verify(password string, salt, hash []byte, cost int) (bool, error) {
	got, err := deriveKey(password, salt, cost)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, hash) == 1, nil
}

func deriveKey(password string, salt []byte, cost int) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, cost, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}
