// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"os"
	"path/filepath"
	"testing"
)

func writeKeymap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.jsonc")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing keymap: %v", err)
	}
	return path
}

func TestApplyKeymapOverrides(t *testing.T) {
	path := writeKeymap(t, `{
	// Emacs-ish movement.
	"up": ["ctrl+p", "up"],
	"down": ["ctrl+n", "down"],
}`)

	keys, err := ApplyKeymapOverrides(DefaultKeyMap, path)
	if err != nil {
		t.Fatalf("ApplyKeymapOverrides: %v", err)
	}

	gotUp := keys.Up.Keys()
	if len(gotUp) != 2 || gotUp[0] != "ctrl+p" {
		t.Errorf("Up keys = %v", gotUp)
	}
	// Untouched bindings keep the defaults.
	gotQuit := keys.Quit.Keys()
	if len(gotQuit) != 2 || gotQuit[0] != "q" {
		t.Errorf("Quit keys = %v", gotQuit)
	}
}

func TestApplyKeymapOverrides_UnknownActionIsError(t *testing.T) {
	path := writeKeymap(t, `{"aprove": ["a"]}`)
	if _, err := ApplyKeymapOverrides(DefaultKeyMap, path); err == nil {
		t.Error("typoed action name accepted, want error")
	}
}

func TestApplyKeymapOverrides_EmptyKeyListIsError(t *testing.T) {
	path := writeKeymap(t, `{"approve": []}`)
	if _, err := ApplyKeymapOverrides(DefaultKeyMap, path); err == nil {
		t.Error("empty key list accepted, want error")
	}
}
