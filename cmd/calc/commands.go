package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc/internal/session"
)

var (
	inname    string
	limit     int
	clearHist bool
	newPass   string
)

var evalCmd = &cobra.Command{
	Use:   "eval [EXPR...]",
	Short: "Evaluate expressions",
	Long: `Eval evaluates each argument as an expression and prints the results.
With no arguments, it evaluates each line of --in, or of standard input.`,
	RunE: runEval,
}

var factCmd = &cobra.Command{
	Use:   "fact N",
	Short: "Compute the factorial of an integer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer done()
		n, err := s.Factorial(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

var binCmd = &cobra.Command{
	Use:   "bin N",
	Short: "Convert a decimal integer to binary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer done()
		r, err := s.ToBinary(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%q: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), r)
		return nil
	},
}

var decCmd = &cobra.Command{
	Use:   "dec BITS",
	Short: "Convert a binary integer to decimal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer done()
		r, err := s.ToDecimal(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%q: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), r)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear past calculations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer done()
		if clearHist {
			return s.ClearHistory(cmd.Context())
		}
		lines, err := s.History(cmd.Context(), limit)
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var registerCmd = &cobra.Command{
	Use:   "register NAME",
	Short: "Create an account with --password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer done()
		if err := s.Register(cmd.Context(), args[0], password); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("registered %s", args[0]))
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check --user and --password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer done()
		if s.CurrentUser() == "" {
			return session.ErrNotLoggedIn
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("logged in as %s", s.CurrentUser()))
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the password of --user to --new",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer done()
		return s.ChangePassword(cmd.Context(), password, newPass)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [NAME]",
	Short: "Delete --user, or NAME as root, along with their history",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer done()
		if len(args) == 1 {
			return s.DeleteUser(cmd.Context(), args[0])
		}
		return s.Delete(cmd.Context(), password)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users (root only)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, done, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer done()
		names, err := s.Users(cmd.Context())
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&inname, "in", "", `input file, one expression per line ("-" for stdin)`)
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the most recent entries")
	historyCmd.Flags().BoolVar(&clearHist, "clear", false, "delete history instead of showing it")
	passwdCmd.Flags().StringVar(&newPass, "new", "", "new password")
	userCmd.AddCommand(registerCmd, loginCmd, passwdCmd, deleteCmd, listCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	s, done, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	exprs := args
	in, err := infile(inname, len(args) == 0)
	if err != nil {
		return err
	}
	if in != nil {
		lines, err := readLines(in)
		if err != nil {
			return err
		}
		exprs = append(lines, exprs...)
	}

	out := cmd.OutOrStdout()
	for _, e := range exprs {
		if strings.TrimSpace(e) == "" {
			continue
		}
		r := s.Calculate(cmd.Context(), e)
		if strings.HasPrefix(r, "Error: ") {
			r = color.RedString("%s", r)
		}
		fmt.Fprintln(out, r)
	}
	return nil
}

func infile(inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		return f, nil
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}

func readLines(r io.Reader) ([]string, error) {
	if c, ok := r.(io.Closer); ok && r != os.Stdin {
		defer c.Close()
	}
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
