// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MKhiriev/cropguard/models"
)

var errPasswordRequired = errors.New("password is required")

// readTerminalPassword reads a password without echo.
var readTerminalPassword = term.ReadPassword

// readPassword returns flagValue, reads without echo when stdin is a
// terminal, or falls back to one line from the command input.
func readPassword(cmd *cobra.Command, flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := readTerminalPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		if len(pw) == 0 {
			return "", errPasswordRequired
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line = strings.TrimRight(line, "\r\n"); line == "" {
		return "", errPasswordRequired
	}
	return line, nil
}

func newRegisterCmd(c *cli) *cobra.Command {
	var req models.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if req.Password, err = readPassword(cmd, req.Password, "Password: "); err != nil {
				return err
			}
			if req.Password2 == "" {
				req.Password2 = req.Password
			}

			if _, err = c.app.Session.Register(cmd.Context(), req); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintf(c.out, "Account %s created, you can now log in\n", req.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "user name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (prompted when empty)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLoginCmd(c *cli) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readPassword(cmd, password, "Password: ")
			if err != nil {
				return err
			}

			s, err := c.app.Session.Login(cmd.Context(), email, pw)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			c.log.Info().Str("user_id", s.UserID).Msg("logged in")
			return c.printSession(s)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.app.Session.Logout(cmd.Context())
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return c.printSession(c.app.Session.Session())
		},
	}
}

func (c *cli) printSession(s models.Session) error {
	view := map[string]any{
		"authenticated": s.Authenticated(),
		"user_id":       s.UserID,
		"expires_at":    s.ExpiresAt,
	}
	return c.print(view, func(w io.Writer) error {
		if !s.Authenticated() {
			_, err := fmt.Fprintln(w, "Not logged in")
			return err
		}
		_, err := fmt.Fprintf(w, "User %s, access token expires %s\n", valueOr(s.UserID, "?"), s.ExpiresAt.Local().Format(time.DateTime))
		return err
	})
}
