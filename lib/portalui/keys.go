// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/tidwall/jsonc"
)

// KeyMap defines all key bindings for the portal TUI.
type KeyMap struct {
	// Navigation within lists.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Form field movement.
	NextField key.Binding
	PrevField key.Binding

	// View switching.
	GoLogin   key.Binding
	GoSignup  key.Binding
	GoUpload  key.Binding
	GoHistory key.Binding
	GoAdmin   key.Binding

	// Actions.
	Submit  key.Binding
	Back    key.Binding
	Approve key.Binding // Admin: approve the selected pending doctor.
	Reject  key.Binding // Admin: reject the selected pending doctor.
	Refresh key.Binding
	Logout  key.Binding

	// Filter.
	FilterActivate key.Binding
	FilterClear    key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("Tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-Tab", "previous field"),
	),
	GoLogin: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "login"),
	),
	GoSignup: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "sign up"),
	),
	GoUpload: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "analyze"),
	),
	GoHistory: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "history"),
	),
	GoAdmin: key.NewBinding(
		key.WithKeys("5"),
		key.WithHelp("5", "admin"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "submit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Approve: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve"),
	),
	Reject: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reject"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Logout: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "logout"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ApplyKeymapOverrides reads a JSONC file mapping action names to key
// lists and applies them over the base map. Unknown action names are
// an error so typos don't silently leave a stale binding.
func ApplyKeymapOverrides(base KeyMap, path string) (KeyMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeyMap{}, fmt.Errorf("portalui: reading keymap overrides: %w", err)
	}

	var overrides map[string][]string
	if err := json.Unmarshal(jsonc.ToJSON(data), &overrides); err != nil {
		return KeyMap{}, fmt.Errorf("portalui: parsing keymap overrides %s: %w", path, err)
	}

	bindings := map[string]*key.Binding{
		"up":              &base.Up,
		"down":            &base.Down,
		"page_up":         &base.PageUp,
		"page_down":       &base.PageDown,
		"home":            &base.Home,
		"end":             &base.End,
		"next_field":      &base.NextField,
		"prev_field":      &base.PrevField,
		"go_login":        &base.GoLogin,
		"go_signup":       &base.GoSignup,
		"go_upload":       &base.GoUpload,
		"go_history":      &base.GoHistory,
		"go_admin":        &base.GoAdmin,
		"submit":          &base.Submit,
		"back":            &base.Back,
		"approve":         &base.Approve,
		"reject":          &base.Reject,
		"refresh":         &base.Refresh,
		"logout":          &base.Logout,
		"filter_activate": &base.FilterActivate,
		"filter_clear":    &base.FilterClear,
		"quit":            &base.Quit,
	}

	for action, keys := range overrides {
		binding, known := bindings[action]
		if !known {
			return KeyMap{}, fmt.Errorf("portalui: keymap overrides %s: unknown action %q", path, action)
		}
		if len(keys) == 0 {
			return KeyMap{}, fmt.Errorf("portalui: keymap overrides %s: action %q has no keys", path, action)
		}
		help := binding.Help()
		*binding = key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], help.Desc),
		)
	}
	return base, nil
}
