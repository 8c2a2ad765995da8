// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Command dermassist is the terminal client for the
// dermatology-assistance portal.
package main

import (
	"fmt"
	"os"

	"github.com/dermassist/dermassist/cmd/dermassist/commands"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		// Categorized failures carry an exit code so scripts can
		// distinguish auth problems from transient ones.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
