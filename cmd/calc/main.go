package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc/internal/accounts"
	"github.com/zephyrtronium/calc/internal/history"
	"github.com/zephyrtronium/calc/internal/session"
	"github.com/zephyrtronium/calc/internal/storage/memory"
	"github.com/zephyrtronium/calc/internal/storage/sqlite"
)

var (
	dbPath    string
	logLevel  string
	lenient   bool
	userName  string
	password  string
	adminPass string
)

var rootCmd = &cobra.Command{
	Use:   "calc",
	Short: "Keypad-style arithmetic calculator",
	Long: `Calc evaluates arithmetic expressions with + - * / ^, prefix √, postfix !,
and parentheses. Results are remembered per user.

Use 'calc help <command>' for more information on a specific command.

If no subcommand is given, the arguments are evaluated as with 'calc eval'.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEval(cmd, args)
	},
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(color.RedString("Error: %s", errorText(err)))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("CALC_DB", defaultDB()), `history and account database, or "mem" for no persistence`)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("CALC_LOG_LEVEL", "warn"), "log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().BoolVar(&lenient, "lenient", false, "tolerate stray symbols and unbalanced brackets")
	rootCmd.PersistentFlags().StringVarP(&userName, "user", "u", "", "log in as this user")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", os.Getenv("CALC_PASSWORD"), "password for --user")
	rootCmd.PersistentFlags().StringVar(&adminPass, "admin-password", os.Getenv("CALC_ADMIN_PASSWORD"), "create the root account with this password if it doesn't exist")

	rootCmd.AddCommand(evalCmd, factCmd, binCmd, decCmd, historyCmd, userCmd, replCmd)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mem"
	}
	return filepath.Join(home, ".calc", "calc.db")
}

func newLogger() (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("bad log level %q", logLevel)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// stores opens the history and account storage selected by --db. The
// returned function releases it.
func stores() (history.Store, accounts.Repository, func(), error) {
	if strings.EqualFold(dbPath, "mem") {
		s := memory.New()
		return s, s, func() {}, nil
	}
	s, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, s, func() { _ = s.Close() }, nil
}

// openSession creates a session from the global flags, logging in if --user
// is set.
func openSession(ctx context.Context) (*session.Session, func(), error) {
	lg, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	hist, repo, done, err := stores()
	if err != nil {
		return nil, nil, err
	}
	accts := accounts.New(repo, 0)
	if adminPass != "" {
		if err := accts.EnsureAdmin(ctx, adminPass); err != nil {
			done()
			return nil, nil, fmt.Errorf("creating admin: %w", err)
		}
	}
	s := session.New(session.Config{
		Accounts: accts,
		History:  hist,
		Log:      lg,
		Lenient:  lenient,
	})
	if userName != "" {
		if err := s.Login(ctx, userName, password); err != nil {
			done()
			return nil, nil, err
		}
	}
	lg.DebugContext(ctx, "session open", slog.String("db", dbPath), slog.String("user", s.CurrentUser()))
	return s, done, nil
}

// errorText describes errors for the terminal, spelling out the ones a user
// can fix.
func errorText(err error) string {
	switch {
	case errors.Is(err, accounts.ErrBadCredentials):
		return "wrong user name or password; check --user and --password"
	case errors.Is(err, session.ErrNotLoggedIn):
		return "this command needs --user and --password"
	}
	return err.Error()
}
