// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the dermassist
// client.
//
// Configuration is loaded from a single YAML file specified by:
//   - DERMASSIST_CONFIG environment variable, or
//   - --config flag passed to the command
//
// Every field has a working default, so the client runs with no config
// file at all; the file exists for pointing at a different portal
// deployment and for terminal theme overrides. Environment variables do
// not override individual config values — the only expansion performed
// is ${VAR} and ${VAR:-default} in paths.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the portal API endpoint used when no config file
// sets one.
const DefaultBaseURL = "http://localhost:5000/api"

// Config is the client configuration.
type Config struct {
	// Portal configures the API connection.
	Portal PortalConfig `yaml:"portal"`

	// Paths configures where client state lives on disk.
	Paths PathsConfig `yaml:"paths"`

	// UI configures the terminal interface.
	UI UIConfig `yaml:"ui"`
}

// PortalConfig configures the API connection.
type PortalConfig struct {
	// BaseURL is the portal API root, e.g. "https://portal.example.com/api".
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-request HTTP timeout.
	// Default: 60s (classification of a high-resolution image can
	// take tens of seconds).
	Timeout time.Duration `yaml:"timeout"`
}

// PathsConfig configures where client state lives on disk.
type PathsConfig struct {
	// State is the directory holding the session file and machine
	// key.
	// Default: ${XDG_CONFIG_HOME:-~/.config}/dermassist
	State string `yaml:"state"`

	// ResultCache is the directory holding cached analysis results.
	// Default: <state>/resultcache
	ResultCache string `yaml:"result_cache"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	// Theme selects a built-in color theme ("dark" or "light").
	Theme string `yaml:"theme"`

	// ThemeOverrides is a path to a JSONC file overriding individual
	// theme colors.
	ThemeOverrides string `yaml:"theme_overrides"`

	// KeymapOverrides is a path to a JSONC file overriding key
	// bindings.
	KeymapOverrides string `yaml:"keymap_overrides"`
}

// Default returns the default configuration. Unlike the server side of
// the portal, the client is expected to work out of the box, so these
// defaults are complete.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	stateDir := filepath.Join(homeDir, ".config", "dermassist")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		stateDir = filepath.Join(xdg, "dermassist")
	}

	return &Config{
		Portal: PortalConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 60 * time.Second,
		},
		Paths: PathsConfig{
			State:       stateDir,
			ResultCache: filepath.Join(stateDir, "resultcache"),
		},
		UI: UIConfig{
			Theme: "dark",
		},
	}
}

// Load loads configuration from the DERMASSIST_CONFIG environment
// variable, falling back to defaults when it is unset.
func Load() (*Config, error) {
	configPath := os.Getenv("DERMASSIST_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.State = expandVars(c.Paths.State, vars)
	c.Paths.ResultCache = expandVars(c.Paths.ResultCache, vars)
	c.UI.ThemeOverrides = expandVars(c.UI.ThemeOverrides, vars)
	c.UI.KeymapOverrides = expandVars(c.UI.KeymapOverrides, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	parsed, err := url.Parse(c.Portal.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("portal.base_url must be an http or https URL, got %q", c.Portal.BaseURL))
	}

	if c.Portal.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("portal.timeout must be positive, got %s", c.Portal.Timeout))
	}

	if c.Paths.State == "" {
		errs = append(errs, fmt.Errorf("paths.state is required"))
	}

	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		errs = append(errs, fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the state and cache directories if they don't
// exist. The state directory is 0700: it holds the session token.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.State, c.Paths.ResultCache} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0700); err != nil {
			return fmt.Errorf("config: creating %s: %w", path, err)
		}
	}
	return nil
}
