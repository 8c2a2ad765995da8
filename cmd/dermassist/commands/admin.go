// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/dermassist/dermassist/cmd/dermassist/cli"
	"github.com/dermassist/dermassist/lib/access"
	"github.com/dermassist/dermassist/lib/roster"
	"github.com/dermassist/dermassist/lib/session"
	"github.com/dermassist/dermassist/portal"
)

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:    "admin",
		Summary: "manage users and doctor approvals",
		Description: "Administrator operations: list the user roster, review doctors\n" +
			"pending approval, and approve or reject them. All subcommands\n" +
			"require an admin session.",
		Subcommands: []*cli.Command{
			adminUsersCommand(),
			adminPendingCommand(),
			adminDecideCommand("approve", portal.ApprovalApproved),
			adminDecideCommand("reject", portal.ApprovalRejected),
		},
	}
}

// adminSession checks the admin capability locally before opening a
// portal session. The server still enforces the role; this only gives
// a better error than a 403 round trip.
func adminSession(env *environment) (*portal.Session, *session.Record, error) {
	record, err := env.requireSession()
	if err != nil {
		return nil, nil, err
	}
	if decision := access.Check(record, access.ActOnPendingDoctor); !decision.Allowed {
		return nil, nil, cli.Forbidden("admin privileges required")
	}
	apiSession, err := env.client.SessionFromToken(record.Token)
	if err != nil {
		return nil, nil, cli.Internal("%v", err)
	}
	return apiSession, record, nil
}

func adminUsersCommand() *cli.Command {
	var options commonOptions

	return &cli.Command{
		Name:    "users",
		Summary: "list all registered users",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("users", pflag.ContinueOnError)
			options.register(flags)
			return flags
		},
		Run: func(args []string) error {
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}
			apiSession, _, err := adminSession(env)
			if err != nil {
				return err
			}
			defer apiSession.Close()

			snapshot, err := roster.NewController(apiSession, env.logger).Load(context.Background())
			if err != nil {
				return categorize(err)
			}
			if options.jsonOutput {
				return cli.PrintJSON(snapshot.Users)
			}
			for _, user := range snapshot.Users {
				status := ""
				if user.ApprovalStatus != "" {
					status = string(user.ApprovalStatus)
				}
				fmt.Fprintf(os.Stdout, "%-6d %-24s %-32s %-8s %s\n",
					user.ID, user.Name, user.Email, user.Role, status)
			}
			return nil
		},
	}
}

func adminPendingCommand() *cli.Command {
	var options commonOptions

	return &cli.Command{
		Name:    "pending",
		Summary: "list doctors awaiting approval",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("pending", pflag.ContinueOnError)
			options.register(flags)
			return flags
		},
		Run: func(args []string) error {
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}
			apiSession, _, err := adminSession(env)
			if err != nil {
				return err
			}
			defer apiSession.Close()

			snapshot, err := roster.NewController(apiSession, env.logger).Load(context.Background())
			if err != nil {
				return categorize(err)
			}
			if options.jsonOutput {
				return cli.PrintJSON(snapshot.PendingDoctors)
			}
			if len(snapshot.PendingDoctors) == 0 {
				fmt.Fprintln(os.Stdout, "No doctors pending approval")
				return nil
			}
			for _, doctor := range snapshot.PendingDoctors {
				degree := doctor.DegreePath
				if degree == "" {
					degree = "(no degree uploaded)"
				}
				fmt.Fprintf(os.Stdout, "%-6d %-24s %-32s %s\n",
					doctor.ID, doctor.Name, doctor.Email, degree)
			}
			return nil
		},
	}
}

func adminDecideCommand(name string, status portal.ApprovalStatus) *cli.Command {
	var options commonOptions

	return &cli.Command{
		Name:    name,
		Summary: name + " a pending doctor account",
		Usage:   "dermassist admin " + name + " <doctor-id>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
			options.register(flags)
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one doctor ID")
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return cli.Validation("invalid doctor ID %q", args[0])
			}
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}
			apiSession, _, err := adminSession(env)
			if err != nil {
				return err
			}
			defer apiSession.Close()

			controller := roster.NewController(apiSession, env.logger)
			snapshot, err := controller.SetDoctorStatus(context.Background(), portal.UserID(id), status)
			if err != nil {
				return categorize(err)
			}
			if options.jsonOutput {
				return cli.PrintJSON(snapshot)
			}
			fmt.Fprintln(os.Stdout, roster.SuccessMessage(status))
			fmt.Fprintf(os.Stdout, "%d doctors still pending\n", len(snapshot.PendingDoctors))
			return nil
		},
	}
}
