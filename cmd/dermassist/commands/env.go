// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the dermassist command tree.
package commands

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/dermassist/dermassist/cmd/dermassist/cli"
	"github.com/dermassist/dermassist/lib/config"
	"github.com/dermassist/dermassist/lib/roster"
	"github.com/dermassist/dermassist/lib/session"
	"github.com/dermassist/dermassist/portal"
)

// commonOptions are the flags shared by every leaf command.
type commonOptions struct {
	configPath string
	verbose    bool
	jsonOutput bool
}

// register adds the shared flags to a command's flag set.
func (options *commonOptions) register(flags *pflag.FlagSet) {
	flags.StringVar(&options.configPath, "config", "", "path to config file (default: $DERMASSIST_CONFIG)")
	flags.BoolVar(&options.verbose, "verbose", false, "enable debug logging")
	flags.BoolVar(&options.jsonOutput, "json", false, "print machine-readable JSON output")
}

// environment is the assembled client state a command runs against.
type environment struct {
	config *config.Config
	client *portal.Client
	store  *session.Store
	logger *slog.Logger
}

// newEnvironment loads configuration and builds the portal client and
// session store.
func newEnvironment(options *commonOptions) (*environment, error) {
	var cfg *config.Config
	var err error
	if options.configPath != "" {
		cfg, err = config.LoadFile(options.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("%v", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, cli.Internal("%v", err)
	}

	level := slog.LevelWarn
	if options.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client, err := portal.NewClient(portal.ClientConfig{
		BaseURL:    cfg.Portal.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.Portal.Timeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, cli.Validation("%v", err)
	}

	return &environment{
		config: cfg,
		client: client,
		store:  session.Open(cfg.Paths.State),
		logger: logger,
	}, nil
}

// requireSession loads the persisted session and fails with an auth
// error when none exists.
func (env *environment) requireSession() (*session.Record, error) {
	record, err := env.store.Load()
	if err != nil {
		return nil, cli.Internal("reading session: %v", err)
	}
	if record == nil {
		return nil, cli.Auth("not logged in; run 'dermassist login'")
	}
	return record, nil
}

// categorize maps a portal or roster error to a ToolError so the exit
// code reflects the failure class. The server's own message is
// preserved where it exists.
func categorize(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case roster.IsSessionExpired(err) || portal.IsAuthRequired(err):
		return cli.Auth("session expired or invalid; run 'dermassist login' (%v)", err)
	case roster.IsInsufficientPrivilege(err) || portal.IsForbidden(err):
		return cli.Forbidden("%v", err)
	case portal.IsStatus(err, 404):
		return cli.NotFound("%v", err)
	}
	if portal.ServerMessage(err) != "" {
		// The server produced a structured rejection: bad input or
		// business rule, not a transport failure.
		return cli.Validation("%v", err)
	}
	return cli.Transient("%v", err)
}
