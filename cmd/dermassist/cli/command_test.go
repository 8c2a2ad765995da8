// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "dermassist",
		Subcommands: []*Command{
			{
				Name: "login",
				Run: func(args []string) error {
					called = "login"
					return nil
				},
			},
			{
				Name: "history",
				Run: func(args []string) error {
					called = "history"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"history"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "history" {
		t.Errorf("dispatched to %q, want %q", called, "history")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "dermassist",
		Subcommands: []*Command{
			{
				Name: "admin",
				Subcommands: []*Command{
					{
						Name: "approve",
						Run: func(args []string) error {
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"admin", "approve", "42"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "42" {
		t.Errorf("args = %v, want [42]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var email string
	var positional []string

	command := &Command{
		Name: "login",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flagSet.StringVar(&email, "email", "", "account email")
			return flagSet
		},
		Run: func(args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute([]string{"--email", "pat@example.com", "extra"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if email != "pat@example.com" {
		t.Errorf("email = %q", email)
	}
	if len(positional) != 1 || positional[0] != "extra" {
		t.Errorf("positional args = %v", positional)
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "dermassist",
		Subcommands: []*Command{
			{Name: "history", Run: func(args []string) error { return nil }},
			{Name: "login", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute([]string{"histroy"})
	if err == nil {
		t.Fatal("Execute() accepted an unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "history"`) {
		t.Errorf("error = %q, want a history suggestion", err.Error())
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "upload",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("upload", pflag.ContinueOnError)
			flagSet.Bool("no-cache", false, "skip cache")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--no-cach", "lesion.jpg"})
	if err == nil {
		t.Fatal("Execute() accepted an unknown flag")
	}
	if !strings.Contains(err.Error(), "--no-cache") {
		t.Errorf("error = %q, want a --no-cache suggestion", err.Error())
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "admin",
		Subcommands: []*Command{
			{Name: "pending", Run: func(args []string) error { return nil }},
		},
	}
	if err := root.Execute(nil); err == nil {
		t.Fatal("Execute() with no subcommand succeeded")
	}
}

func TestCommand_PrintHelp_ListsSubcommandsAndExamples(t *testing.T) {
	root := &Command{
		Name:    "dermassist",
		Summary: "terminal client",
		Subcommands: []*Command{
			{Name: "upload", Summary: "submit a skin image"},
		},
		Examples: []Example{
			{Description: "analyze an image", Command: "dermassist upload lesion.jpg"},
		},
	}

	var output bytes.Buffer
	root.PrintHelp(&output)
	help := output.String()
	for _, want := range []string{"upload", "submit a skin image", "dermassist upload lesion.jpg"} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}
