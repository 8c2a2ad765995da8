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

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:    "register",
		Summary: "create a portal account",
		Description: "Create a patient or doctor account. Registration never logs you\n" +
			"in: run 'dermassist login' afterwards. Doctor accounts additionally\n" +
			"require a degree certificate and remain locked until an\n" +
			"administrator approves them.",
		Subcommands: []*cli.Command{
			registerPatientCommand(),
			registerDoctorCommand(),
		},
	}
}

// registrationInput collects the fields shared by both account kinds,
// prompting for anything not supplied by flags.
type registrationInput struct {
	name     string
	email    string
	password string
}

func (input *registrationInput) registerFlags(flags *pflag.FlagSet) {
	flags.StringVar(&input.name, "name", "", "full name (prompted when omitted)")
	flags.StringVar(&input.email, "email", "", "account email (prompted when omitted)")
}

func (input *registrationInput) collect() error {
	var err error
	if input.name == "" {
		input.name, err = cli.PromptLine("Name: ")
		if err != nil {
			return cli.Internal("%v", err)
		}
	}
	if input.email == "" {
		input.email, err = cli.PromptLine("Email: ")
		if err != nil {
			return cli.Internal("%v", err)
		}
	}
	input.password, err = cli.PromptPassword("Password: ")
	if err != nil {
		return cli.Internal("%v", err)
	}
	return nil
}

// registrationError maps a flow error to a ToolError, keeping the
// validation wording the forms show.
func registrationError(err error) error {
	var validationErr *authflow.ValidationError
	if errors.As(err, &validationErr) {
		return cli.Validation("%s", validationErr.Message)
	}
	return categorize(err)
}

func registerPatientCommand() *cli.Command {
	var options commonOptions
	var input registrationInput

	return &cli.Command{
		Name:    "patient",
		Summary: "create a patient account",
		Usage:   "dermassist register patient [--name <name>] [--email <address>]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("patient", pflag.ContinueOnError)
			options.register(flags)
			input.registerFlags(flags)
			return flags
		},
		Run: func(args []string) error {
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}
			if err := input.collect(); err != nil {
				return err
			}

			flow := authflow.New(env.client, env.store, env.logger)
			if err := flow.RegisterPatient(context.Background(), input.name, input.email, input.password); err != nil {
				return registrationError(err)
			}
			fmt.Fprintln(os.Stdout, "Account created. Run 'dermassist login' to sign in.")
			return nil
		},
	}
}

func registerDoctorCommand() *cli.Command {
	var options commonOptions
	var input registrationInput
	var degreePath string

	return &cli.Command{
		Name:    "doctor",
		Summary: "create a doctor account pending admin approval",
		Usage:   "dermassist register doctor --degree <certificate> [--name <name>] [--email <address>]",
		Examples: []cli.Example{
			{
				Description: "register with a PDF degree certificate",
				Command:     "dermassist register doctor --degree ~/degree.pdf",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("doctor", pflag.ContinueOnError)
			options.register(flags)
			input.registerFlags(flags)
			flags.StringVar(&degreePath, "degree", "", "path to the degree certificate (PDF, JPG, JPEG, or PNG)")
			return flags
		},
		Run: func(args []string) error {
			if degreePath == "" {
				return cli.Validation("--degree is required for doctor registration")
			}
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}
			if err := input.collect(); err != nil {
				return err
			}

			flow := authflow.New(env.client, env.store, env.logger)
			message, err := flow.RegisterDoctor(context.Background(), input.name, input.email, input.password, degreePath)
			if err != nil {
				return registrationError(err)
			}
			fmt.Fprintln(os.Stdout, message)
			return nil
		},
	}
}
