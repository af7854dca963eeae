package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc/internal/session"
)

const replHelp = `Type an expression to evaluate it, or a command:
  :bin N            decimal to binary
  :dec BITS         binary to decimal
  :fact N           factorial
  :history [N]      show the last N calculations (all if N is omitted)
  :clear            delete your history
  :login NAME       log in; the password is prompted
  :logout           continue anonymously
  :register NAME    create an account; the password is prompted
  :passwd           change your password
  :delete           delete your account and history; the password is prompted
  :users            list users (root only)
  :help             show this message
  :quit             exit`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate expressions interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer done()
		return repl(cmd.Context(), s)
	},
}

func repl(ctx context.Context, s *session.Session) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, ".calc", "repl_history")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Println(color.CyanString("calc"), "- :help for commands")
	for {
		line, err := ln.Prompt(prompt(s))
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if exit := replCommand(ctx, s, ln, os.Stdout, line); exit {
				return nil
			}
			continue
		}
		r := s.Calculate(ctx, line)
		if strings.HasPrefix(r, "Error: ") {
			fmt.Println(color.RedString("%s", r))
			continue
		}
		fmt.Println(r)
	}
}

func prompt(s *session.Session) string {
	if u := s.CurrentUser(); u != "" {
		return u + "> "
	}
	return "> "
}

// passwordPrompter reads a password without echoing it.
type passwordPrompter interface {
	PasswordPrompt(prompt string) (string, error)
}

// replCommand runs one colon command and reports whether the loop should end.
func replCommand(ctx context.Context, s *session.Session, ln passwordPrompter, out io.Writer, line string) (exit bool) {
	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	fail := func(err error) {
		fmt.Fprintln(out, color.RedString("Error: %v", err))
	}

	switch strings.ToLower(fields[0]) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(out, replHelp)
	case ":bin":
		r, err := s.ToBinary(ctx, arg)
		if err != nil {
			fail(err)
			break
		}
		fmt.Fprintln(out, r)
	case ":dec":
		r, err := s.ToDecimal(ctx, arg)
		if err != nil {
			fail(err)
			break
		}
		fmt.Fprintln(out, r)
	case ":fact":
		n, err := s.Factorial(ctx, arg)
		if err != nil {
			fail(err)
			break
		}
		fmt.Fprintln(out, n)
	case ":history":
		n := 0
		if arg != "" {
			var err error
			if n, err = strconv.Atoi(arg); err != nil {
				fail(fmt.Errorf("bad count %q", arg))
				break
			}
		}
		lines, err := s.History(ctx, n)
		if err != nil {
			fail(err)
			break
		}
		for _, l := range lines {
			fmt.Fprintln(out, l)
		}
	case ":clear":
		if err := s.ClearHistory(ctx); err != nil {
			fail(err)
		}
	case ":login":
		pw, err := ln.PasswordPrompt("password: ")
		if err != nil {
			break
		}
		if err := s.Login(ctx, arg, pw); err != nil {
			fail(err)
		}
	case ":logout":
		s.Logout()
	case ":register":
		pw, err := ln.PasswordPrompt("password: ")
		if err != nil {
			break
		}
		if err := s.Register(ctx, arg, pw); err != nil {
			fail(err)
			break
		}
		fmt.Fprintln(out, color.GreenString("registered %s", arg))
	case ":passwd":
		old, err := ln.PasswordPrompt("old password: ")
		if err != nil {
			break
		}
		pw, err := ln.PasswordPrompt("new password: ")
		if err != nil {
			break
		}
		if err := s.ChangePassword(ctx, old, pw); err != nil {
			fail(err)
		}
	case ":delete":
		pw, err := ln.PasswordPrompt("password: ")
		if err != nil {
			break
		}
		user := s.CurrentUser()
		if err := s.Delete(ctx, pw); err != nil {
			fail(err)
			break
		}
		fmt.Fprintln(out, color.GreenString("deleted %s", user))
	case ":users":
		names, err := s.Users(ctx)
		if err != nil {
			fail(err)
			break
		}
		fmt.Fprintln(out, strings.Join(names, "\n"))
	default:
		fmt.Fprintln(out, "unknown command. Type :help for a list.")
	}
	return false
}
