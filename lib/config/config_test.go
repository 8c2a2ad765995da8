// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Portal.BaseURL != DefaultBaseURL {
		t.Errorf("base URL = %q", cfg.Portal.BaseURL)
	}
	if cfg.Portal.Timeout != 60*time.Second {
		t.Errorf("timeout = %s", cfg.Portal.Timeout)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
}

func TestLoadFile_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
portal:
  base_url: https://portal.example.com/api
ui:
  theme: light
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Portal.BaseURL != "https://portal.example.com/api" {
		t.Errorf("base URL = %q", cfg.Portal.BaseURL)
	}
	// Unset fields keep their defaults.
	if cfg.Portal.Timeout != 60*time.Second {
		t.Errorf("timeout = %s, want default", cfg.Portal.Timeout)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
}

func TestLoadFile_ExpandsVariables(t *testing.T) {
	t.Setenv("DERMASSIST_TEST_DIR", "/tmp/derma-state")
	path := writeConfig(t, `
paths:
  state: ${DERMASSIST_TEST_DIR}/state
  result_cache: ${DERMASSIST_UNSET_VAR:-/tmp/fallback}/cache
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Paths.State != "/tmp/derma-state/state" {
		t.Errorf("state = %q", cfg.Paths.State)
	}
	if cfg.Paths.ResultCache != "/tmp/fallback/cache" {
		t.Errorf("result cache = %q", cfg.Paths.ResultCache)
	}
}

func TestLoadFile_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad scheme", "portal:\n  base_url: ftp://example.com\n"},
		{"negative timeout", "portal:\n  timeout: -5s\n"},
		{"unknown theme", "ui:\n  theme: solarized\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, test.content)); err == nil {
				t.Error("LoadFile accepted invalid config")
			}
		})
	}
}

func TestLoad_EnvironmentSelectsFile(t *testing.T) {
	path := writeConfig(t, "ui:\n  theme: light\n")
	t.Setenv("DERMASSIST_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q, want light", cfg.UI.Theme)
	}
}

func TestLoad_NoEnvironmentUsesDefaults(t *testing.T) {
	t.Setenv("DERMASSIST_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Portal.BaseURL != DefaultBaseURL {
		t.Errorf("base URL = %q, want default", cfg.Portal.BaseURL)
	}
}

func TestEnsurePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.State = filepath.Join(base, "state")
	cfg.Paths.ResultCache = filepath.Join(base, "state", "resultcache")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths: %v", err)
	}
	info, err := os.Stat(cfg.Paths.State)
	if err != nil {
		t.Fatalf("state dir: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0700 {
		t.Errorf("state dir mode = %o, want 0700", mode)
	}
}
