// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/dermassist/dermassist/cmd/dermassist/cli"
	"github.com/dermassist/dermassist/lib/portalui"
	"github.com/dermassist/dermassist/lib/resultcache"
)

func uiCommand() *cli.Command {
	var options commonOptions

	return &cli.Command{
		Name:    "ui",
		Summary: "open the interactive terminal interface",
		Description: "Launch the full-screen terminal interface: login, signup, image\n" +
			"analysis, upload history, and the admin console in one place.\n" +
			"Theme and key bindings follow the config file.",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("ui", pflag.ContinueOnError)
			options.register(flags)
			return flags
		},
		Run: func(args []string) error {
			env, err := newEnvironment(&options)
			if err != nil {
				return err
			}

			theme, err := portalui.ThemeByName(env.config.UI.Theme)
			if err != nil {
				return cli.Validation("%v", err)
			}
			if env.config.UI.ThemeOverrides != "" {
				theme, err = portalui.ApplyThemeOverrides(theme, env.config.UI.ThemeOverrides)
				if err != nil {
					return cli.Validation("%v", err)
				}
			}
			keys := portalui.DefaultKeyMap
			if env.config.UI.KeymapOverrides != "" {
				keys, err = portalui.ApplyKeymapOverrides(keys, env.config.UI.KeymapOverrides)
				if err != nil {
					return cli.Validation("%v", err)
				}
			}

			// A broken cache only loses replay, not the UI.
			cache, err := resultcache.Open(env.config.Paths.ResultCache)
			if err != nil {
				env.logger.Warn("result cache unavailable", "error", err)
				cache = nil
			}

			model, err := portalui.NewModel(portalui.Config{
				Client: env.client,
				Store:  env.store,
				Cache:  cache,
				Theme:  theme,
				Keys:   keys,
				Logger: env.logger,
			})
			if err != nil {
				return cli.Internal("%v", err)
			}

			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			if _, err := program.Run(); err != nil {
				return cli.Internal("running interface: %v", err)
			}
			return nil
		},
	}
}
