// Package history keeps each user's record of past calculations.
package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zephyrtronium/calc"
)

// Entry is one line of history.
type Entry struct {
	ID string
	// User is the name of the user who made the entry. Anonymous use is the
	// empty name.
	User string
	// Text is "<expression> = <result>" for calculations, or a description of
	// a base conversion.
	Text      string
	CreatedAt time.Time
}

// Store persists history entries.
type Store interface {
	Append(ctx context.Context, e Entry) error
	// List returns up to limit of the user's most recent entries, oldest
	// first. A limit of zero or less means all entries.
	List(ctx context.Context, user string, limit int) ([]Entry, error)
	// Clear removes all of the user's entries.
	Clear(ctx context.Context, user string) error
	Now() time.Time
}

// New creates an entry with a fresh ID.
func New(user, text string, now time.Time) Entry {
	return Entry{
		ID:        uuid.NewString(),
		User:      user,
		Text:      text,
		CreatedAt: now,
	}
}

// Line formats an entry for display with a month, day, and hour prefix, e.g.
// "Mar 14 15h  2 + 2 = 4".
func Line(e Entry) string {
	return e.CreatedAt.Format("Jan 2 15h") + "  " + e.Text
}

// Calculation formats the text of a calculation entry.
func Calculation(expr, result string) string {
	return expr + " = " + result
}

// Recorder returns a calc.Recorder that appends calculations to s under user.
// Recording never fails the calculation; errors are logged to log.
func Recorder(ctx context.Context, s Store, user string, log *slog.Logger) calc.Recorder {
	return calc.RecorderFunc(func(expr, result string) {
		e := New(user, Calculation(expr, result), s.Now())
		if err := s.Append(ctx, e); err != nil {
			log.WarnContext(ctx, "recording calculation", slog.String("user", user), slog.Any("err", err))
		}
	})
}
