// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/dermassist/dermassist/cmd/dermassist/cli"
	"github.com/dermassist/dermassist/lib/version"
)

// Root builds the dermassist command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "dermassist",
		Summary: "terminal client for the dermatology-assistance portal",
		Description: "dermassist is a terminal client for the dermatology-assistance portal:\n" +
			"log in, submit skin images for AI-assisted analysis, review your upload\n" +
			"history, and (for administrators) approve pending doctor accounts.",
		Subcommands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			registerCommand(),
			uploadCommand(),
			historyCommand(),
			adminCommand(),
			uiCommand(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "print the client version",
		Run: func(args []string) error {
			fmt.Fprintln(os.Stdout, version.String())
			return nil
		},
	}
}
