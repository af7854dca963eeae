// Package sqlite stores calculator history and accounts in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/zephyrtronium/calc/internal/accounts"
	"github.com/zephyrtronium/calc/internal/history"
)

// Store is a SQLite database holding both history and users. It implements
// history.Store and accounts.Repository.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ history.Store       = (*Store)(nil)
	_ accounts.Repository = (*Store)(nil)
)

// Open opens or creates the database at path, creating its directory if
// needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps WAL pragmas and transactions on the same handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error   { return s.db.Close() }
func (s *Store) Now() time.Time { return s.now() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS history (
  seq        INTEGER PRIMARY KEY AUTOINCREMENT,
  id         TEXT NOT NULL UNIQUE,
  user       TEXT NOT NULL,
  text       TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_user ON history(user, seq);

CREATE TABLE IF NOT EXISTS users (
  name       TEXT PRIMARY KEY,
  salt       BLOB NOT NULL,
  hash       BLOB NOT NULL,
  created_at INTEGER NOT NULL
);
`)
	return err
}

func (s *Store) Append(ctx context.Context, e history.Entry) error {
	if e.ID == "" {
		return errors.New("entry ID required")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO history(id, user, text, created_at)
VALUES(?, ?, ?, ?)
`, e.ID, e.User, e.Text, e.CreatedAt.UnixMilli())
	return err
}

func (s *Store) List(ctx context.Context, user string, limit int) ([]history.Entry, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user, text, created_at FROM (
  SELECT seq, id, user, text, created_at
  FROM history
  WHERE user = ?
  ORDER BY seq DESC
  LIMIT ?
) ORDER BY seq ASC
`, user, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []history.Entry
	for rows.Next() {
		var e history.Entry
		var cAt int64
		if err := rows.Scan(&e.ID, &e.User, &e.Text, &cAt); err != nil {
			return nil, err
		}
		e.CreatedAt = time.UnixMilli(cAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Clear(ctx context.Context, user string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE user=?`, user)
	return err
}

func (s *Store) CreateUser(ctx context.Context, u accounts.User) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO users(name, salt, hash, created_at)
VALUES(?, ?, ?, ?)
`, u.Name, u.Salt, u.Hash, u.CreatedAt.UnixMilli())
	var serr sqlite3.Error
	if errors.As(err, &serr) && (serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || serr.ExtendedCode == sqlite3.ErrConstraintUnique) {
		return accounts.ErrUserExists
	}
	return err
}

func (s *Store) GetUser(ctx context.Context, name string) (accounts.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT name, salt, hash, created_at FROM users WHERE name=?`, name)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return accounts.User{}, accounts.ErrNotFound
	}
	return u, err
}

func (s *Store) ListUsers(ctx context.Context) ([]accounts.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, salt, hash, created_at FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []accounts.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePassword(ctx context.Context, name string, salt, hash []byte) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET salt=?, hash=? WHERE name=?`, salt, hash, name)
	return affected(res, err)
}

func (s *Store) DeleteUser(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE name=?`, name)
	return affected(res, err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (accounts.User, error) {
	var u accounts.User
	var cAt int64
	if err := row.Scan(&u.Name, &u.Salt, &u.Hash, &cAt); err != nil {
		return accounts.User{}, err
	}
	u.CreatedAt = time.UnixMilli(cAt)
	return u, nil
}

// affected turns an update of zero rows into ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return accounts.ErrNotFound
	}
	return nil
}
