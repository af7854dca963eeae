// Package session ties the calculator to users and their history.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/accounts"
	"github.com/zephyrtronium/calc/internal/baseconv"
	"github.com/zephyrtronium/calc/internal/history"
)

var (
	// ErrNotLoggedIn is returned by operations that need a user.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrNotAdmin is returned by operations reserved to the administrator.
	ErrNotAdmin = errors.New("administrator only")
)

// Session is one user's view of the calculator. The zero user is anonymous;
// anonymous calculations are recorded under the empty name. A Session is
// safe for concurrent use.
type Session struct {
	accts   *accounts.Service
	hist    history.Store
	log     *slog.Logger
	lenient bool

	mu   sync.Mutex
	user string
}

// Config configures a Session.
type Config struct {
	Accounts *accounts.Service
	History  history.Store
	// Log receives warnings about failed history writes. Nil discards them.
	Log *slog.Logger
	// Lenient selects forgiving evaluation of malformed expressions.
	Lenient bool
}

func New(cfg Config) *Session {
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		accts:   cfg.Accounts,
		hist:    cfg.History,
		log:     log,
		lenient: cfg.Lenient,
	}
}

// CurrentUser returns the logged in user's name, or the empty string.
func (s *Session) CurrentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAdmin reports whether the administrator is logged in.
func (s *Session) IsAdmin() bool {
	return accounts.IsAdmin(s.CurrentUser())
}

// Calculate evaluates input and returns the display text of its result.
// Successful calculations are appended to the current user's history.
func (s *Session) Calculate(ctx context.Context, input string) string {
	if strings.TrimSpace(input) == "" {
		return "empty input"
	}
	opts := []calc.Option{calc.Record(history.Recorder(ctx, s.hist, s.CurrentUser(), s.log))}
	if s.lenient {
		opts = append(opts, calc.Lenient())
	}
	return calc.Calculate(input, opts...)
}

// Factorial computes the factorial of an integer given as text and records
// it.
func (s *Session) Factorial(ctx context.Context, input string) (int64, error) {
	n, err := calc.ParseFactorial(input)
	if err != nil {
		return 0, err
	}
	s.record(ctx, history.Calculation(strings.TrimSpace(input)+"!", calc.FormatResult(float64(n))))
	return n, nil
}

// ToBinary converts a decimal integer to binary and records the conversion.
func (s *Session) ToBinary(ctx context.Context, input string) (string, error) {
	in := strings.TrimSpace(input)
	out, err := baseconv.ToBinary(in)
	if err != nil {
		return "", err
	}
	s.record(ctx, baseconv.BinaryLine(in, out))
	return out, nil
}

// ToDecimal converts a binary integer to decimal and records the conversion.
func (s *Session) ToDecimal(ctx context.Context, input string) (string, error) {
	in := strings.TrimSpace(input)
	out, err := baseconv.FromBinary(in)
	if err != nil {
		return "", err
	}
	s.record(ctx, baseconv.DecimalLine(in, out))
	return out, nil
}

func (s *Session) record(ctx context.Context, text string) {
	user := s.CurrentUser()
	if err := s.hist.Append(ctx, history.New(user, text, s.hist.Now())); err != nil {
		s.log.WarnContext(ctx, "recording history", slog.String("user", user), slog.Any("err", err))
	}
}

// History returns up to limit of the current user's most recent history
// lines, oldest first. A limit of zero or less returns everything.
func (s *Session) History(ctx context.Context, limit int) ([]string, error) {
	entries, err := s.hist.List(ctx, s.CurrentUser(), limit)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = history.Line(e)
	}
	return lines, nil
}

// ClearHistory removes the current user's history.
func (s *Session) ClearHistory(ctx context.Context) error {
	return s.hist.Clear(ctx, s.CurrentUser())
}

// Register creates an account. It does not log in.
func (s *Session) Register(ctx context.Context, name, password string) error {
	return s.accts.Register(ctx, name, password)
}

// Login switches the session to the named user if the password matches.
// On failure the session keeps its current user.
func (s *Session) Login(ctx context.Context, name, password string) error {
	u, err := s.accts.Login(ctx, name, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = u.Name
	s.mu.Unlock()
	s.log.InfoContext(ctx, "logged in", slog.String("user", u.Name))
	return nil
}

// Logout returns the session to anonymous use.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = ""
	s.mu.Unlock()
}

// ChangePassword changes the current user's password.
func (s *Session) ChangePassword(ctx context.Context, old, pw string) error {
	user := s.CurrentUser()
	if user == "" {
		return ErrNotLoggedIn
	}
	return s.accts.ChangePassword(ctx, user, old, pw)
}

// Delete removes the current user's account along with their history and
// logs out. The administrator can delete any other user by name with
// DeleteUser.
func (s *Session) Delete(ctx context.Context, password string) error {
	user := s.CurrentUser()
	if user == "" {
		return ErrNotLoggedIn
	}
	if accounts.IsAdmin(user) {
		return accounts.ErrReservedName
	}
	if _, err := s.accts.Login(ctx, user, password); err != nil {
		return err
	}
	if err := s.remove(ctx, user); err != nil {
		return err
	}
	s.Logout()
	return nil
}

// DeleteUser removes another user's account and history. Only the
// administrator may do this.
func (s *Session) DeleteUser(ctx context.Context, name string) error {
	if !s.IsAdmin() {
		return ErrNotAdmin
	}
	if accounts.IsAdmin(name) {
		return accounts.ErrReservedName
	}
	return s.remove(ctx, name)
}

func (s *Session) remove(ctx context.Context, name string) error {
	if err := s.accts.Delete(ctx, name); err != nil {
		return err
	}
	if err := s.hist.Clear(ctx, name); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "deleted user", slog.String("user", name))
	return nil
}

// Users lists every account. Only the administrator may do this.
func (s *Session) Users(ctx context.Context) ([]string, error) {
	if !s.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return s.accts.List(ctx)
}
