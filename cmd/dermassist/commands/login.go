// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dermassist/dermassist/cmd/dermassist/cli"
	"github.com/dermassist/dermassist/lib/authflow"
)

func loginCommand() *cli.Command {
	var options commonOptions
	var email string

	return &cli.Command{
		Name:    "login",
		Summary: "authenticate and store a session",
		Description: "Log in to the portal. The session (identity and bearer token) is\n" +
			"encrypted and stored on disk, and is used by every other command\n" +
			"until you log out.",
		Usage: "dermassist login [--email <address>]",
		Examples: []cli.Example{
			{Description: "log in interactively", Command: "dermassist login"},
			{Description: "log in with the email pre-filled", Command: "dermassist login --email doctor@clinic.example"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("login", pflag.ContinueOnError)
			options.register(flags)
			flags.StringVar(&email, "email", "", "account email (prompted when omitted)")
			return flags
		},
		Run: func(args []string) error {
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}

			if email == "" {
				email, err = cli.PromptLine("Email: ")
				if err != nil {
					return cli.Internal("%v", err)
				}
			}
			password, err := cli.PromptPassword("Password: ")
			if err != nil {
				return cli.Internal("%v", err)
			}

			flow := authflow.New(env.client, env.store, env.logger)
			identity, err := flow.Login(context.Background(), email, password)
			if err != nil {
				var validationErr *authflow.ValidationError
				if errors.As(err, &validationErr) {
					return cli.Validation("%s", validationErr.Message)
				}
				if errors.Is(err, authflow.ErrInvalidCredentials) {
					return cli.Auth("%s", authflow.LoginFailureMessage(err))
				}
				return categorize(err)
			}

			if options.jsonOutput {
				return cli.PrintJSON(identity)
			}
			fmt.Fprintf(os.Stdout, "Logged in as %s <%s> (%s)\n", identity.Name, identity.Email, identity.Role)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	var options commonOptions

	return &cli.Command{
		Name:    "logout",
		Summary: "clear the stored session",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("logout", pflag.ContinueOnError)
			options.register(flags)
			return flags
		},
		Run: func(args []string) error {
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}
			// Clearing an absent session succeeds: logout is
			// idempotent.
			if err := env.store.Clear(); err != nil {
				return cli.Internal("%v", err)
			}
			fmt.Fprintln(os.Stdout, "Logged out")
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	var options commonOptions

	return &cli.Command{
		Name:    "whoami",
		Summary: "show the current session",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			options.register(flags)
			return flags
		},
		Run: func(args []string) error {
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}
			record, err := env.store.Load()
			if err != nil {
				return cli.Internal("%v", err)
			}
			if record == nil {
				if options.jsonOutput {
					return cli.PrintJSON(map[string]any{"logged_in": false})
				}
				fmt.Fprintln(os.Stdout, "Not logged in")
				return nil
			}

			if options.jsonOutput {
				return cli.PrintJSON(map[string]any{
					"logged_in": true,
					"user":      record.Identity,
					"session":   env.store.Path(),
				})
			}
			identity := record.Identity
			fmt.Fprintf(os.Stdout, "%s <%s> (%s)\n", identity.Name, identity.Email, identity.Role)
			if identity.ApprovalStatus != "" {
				fmt.Fprintf(os.Stdout, "Approval status: %s\n", identity.ApprovalStatus)
			}
			fmt.Fprintf(os.Stdout, "Session file: %s\n", env.store.Path())
			return nil
		},
	}
}
