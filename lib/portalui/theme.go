// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/tidwall/jsonc"

	"github.com/dermassist/dermassist/portal"
)

// Theme defines the color palette for the terminal UI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
//
// The fields cover both universal chrome (text, selection, borders)
// and the semantic categories of this domain: confidence levels on a
// classification, approval statuses on a doctor account, and roles on
// a roster row.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Outcome colors for notices and form errors.
	ErrorText   lipgloss.Color
	SuccessText lipgloss.Color
	WarningText lipgloss.Color

	// Classification confidence banner.
	ConfidenceHigh   lipgloss.Color
	ConfidenceMedium lipgloss.Color
	ConfidenceLow    lipgloss.Color

	// Doctor approval status.
	StatusPending  lipgloss.Color
	StatusApproved lipgloss.Color
	StatusRejected lipgloss.Color

	// Account roles in the roster.
	RolePatient lipgloss.Color
	RoleDoctor  lipgloss.Color
	RoleAdmin   lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Filter match highlighting.
	FilterHighlightBackground lipgloss.Color
}

// ConfidenceColor returns the color for a classification confidence
// level. Unknown values return NormalText.
func (theme Theme) ConfidenceColor(level portal.ConfidenceLevel) lipgloss.Color {
	switch level {
	case portal.ConfidenceHigh:
		return theme.ConfidenceHigh
	case portal.ConfidenceMedium:
		return theme.ConfidenceMedium
	case portal.ConfidenceLow:
		return theme.ConfidenceLow
	default:
		return theme.NormalText
	}
}

// ApprovalColor returns the color for a doctor approval status.
// Unknown values return FaintText.
func (theme Theme) ApprovalColor(status portal.ApprovalStatus) lipgloss.Color {
	switch status {
	case portal.ApprovalPending:
		return theme.StatusPending
	case portal.ApprovalApproved:
		return theme.StatusApproved
	case portal.ApprovalRejected:
		return theme.StatusRejected
	default:
		return theme.FaintText
	}
}

// RoleColor returns the color for an account role. Unknown values
// return FaintText.
func (theme Theme) RoleColor(role portal.Role) lipgloss.Color {
	switch role {
	case portal.RolePatient:
		return theme.RolePatient
	case portal.RoleDoctor:
		return theme.RoleDoctor
	case portal.RoleAdmin:
		return theme.RoleAdmin
	default:
		return theme.FaintText
	}
}

// DarkTheme is the built-in scheme for dark-background terminals (the
// default).
var DarkTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	ErrorText:   lipgloss.Color("196"),
	SuccessText: lipgloss.Color("114"),
	WarningText: lipgloss.Color("220"),

	ConfidenceHigh:   lipgloss.Color("114"), // green
	ConfidenceMedium: lipgloss.Color("220"), // amber
	ConfidenceLow:    lipgloss.Color("196"), // red

	StatusPending:  lipgloss.Color("220"),
	StatusApproved: lipgloss.Color("114"),
	StatusRejected: lipgloss.Color("196"),

	RolePatient: lipgloss.Color("75"),  // blue
	RoleDoctor:  lipgloss.Color("141"), // light purple
	RoleAdmin:   lipgloss.Color("208"), // orange

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	FilterHighlightBackground: lipgloss.Color("58"),
}

// LightTheme adjusts the palette for light-background terminals.
var LightTheme = Theme{
	NormalText: lipgloss.Color("235"),
	FaintText:  lipgloss.Color("243"),

	SelectedBackground: lipgloss.Color("253"),
	SelectedForeground: lipgloss.Color("232"),

	ErrorText:   lipgloss.Color("124"),
	SuccessText: lipgloss.Color("28"),
	WarningText: lipgloss.Color("130"),

	ConfidenceHigh:   lipgloss.Color("28"),
	ConfidenceMedium: lipgloss.Color("130"),
	ConfidenceLow:    lipgloss.Color("124"),

	StatusPending:  lipgloss.Color("130"),
	StatusApproved: lipgloss.Color("28"),
	StatusRejected: lipgloss.Color("124"),

	RolePatient: lipgloss.Color("26"),
	RoleDoctor:  lipgloss.Color("91"),
	RoleAdmin:   lipgloss.Color("166"),

	HeaderForeground: lipgloss.Color("232"),
	BorderColor:      lipgloss.Color("248"),
	HelpText:         lipgloss.Color("245"),

	FilterHighlightBackground: lipgloss.Color("228"),
}

// ThemeByName returns the built-in theme for a config name.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "", "dark":
		return DarkTheme, nil
	case "light":
		return LightTheme, nil
	default:
		return Theme{}, fmt.Errorf("portalui: unknown theme %q", name)
	}
}

// themeOverrides mirrors Theme with optional string fields so an
// override file only needs to name the colors it changes.
type themeOverrides struct {
	NormalText                *string `json:"normal_text"`
	FaintText                 *string `json:"faint_text"`
	SelectedBackground        *string `json:"selected_background"`
	SelectedForeground        *string `json:"selected_foreground"`
	ErrorText                 *string `json:"error_text"`
	SuccessText               *string `json:"success_text"`
	WarningText               *string `json:"warning_text"`
	ConfidenceHigh            *string `json:"confidence_high"`
	ConfidenceMedium          *string `json:"confidence_medium"`
	ConfidenceLow             *string `json:"confidence_low"`
	StatusPending             *string `json:"status_pending"`
	StatusApproved            *string `json:"status_approved"`
	StatusRejected            *string `json:"status_rejected"`
	RolePatient               *string `json:"role_patient"`
	RoleDoctor                *string `json:"role_doctor"`
	RoleAdmin                 *string `json:"role_admin"`
	HeaderForeground          *string `json:"header_foreground"`
	BorderColor               *string `json:"border_color"`
	HelpText                  *string `json:"help_text"`
	FilterHighlightBackground *string `json:"filter_highlight_background"`
}

// ApplyThemeOverrides reads a JSONC override file and applies its
// colors over the base theme. Comments and trailing commas are allowed
// in the file.
func ApplyThemeOverrides(base Theme, path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("portalui: reading theme overrides: %w", err)
	}

	var overrides themeOverrides
	if err := json.Unmarshal(jsonc.ToJSON(data), &overrides); err != nil {
		return Theme{}, fmt.Errorf("portalui: parsing theme overrides %s: %w", path, err)
	}

	apply := func(target *lipgloss.Color, value *string) {
		if value != nil {
			*target = lipgloss.Color(*value)
		}
	}
	apply(&base.NormalText, overrides.NormalText)
	apply(&base.FaintText, overrides.FaintText)
	apply(&base.SelectedBackground, overrides.SelectedBackground)
	apply(&base.SelectedForeground, overrides.SelectedForeground)
	apply(&base.ErrorText, overrides.ErrorText)
	apply(&base.SuccessText, overrides.SuccessText)
	apply(&base.WarningText, overrides.WarningText)
	apply(&base.ConfidenceHigh, overrides.ConfidenceHigh)
	apply(&base.ConfidenceMedium, overrides.ConfidenceMedium)
	apply(&base.ConfidenceLow, overrides.ConfidenceLow)
	apply(&base.StatusPending, overrides.StatusPending)
	apply(&base.StatusApproved, overrides.StatusApproved)
	apply(&base.StatusRejected, overrides.StatusRejected)
	apply(&base.RolePatient, overrides.RolePatient)
	apply(&base.RoleDoctor, overrides.RoleDoctor)
	apply(&base.RoleAdmin, overrides.RoleAdmin)
	apply(&base.HeaderForeground, overrides.HeaderForeground)
	apply(&base.BorderColor, overrides.BorderColor)
	apply(&base.HelpText, overrides.HelpText)
	apply(&base.FilterHighlightBackground, overrides.FilterHighlightBackground)
	return base, nil
}
