// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/dermassist/dermassist/lib/access"
	"github.com/dermassist/dermassist/lib/roster"
	"github.com/dermassist/dermassist/portal"
)

// adminState is the roster console: pending doctors on top (the
// actionable list, where the cursor lives), the full account roster
// below.
type adminState struct {
	loading  bool
	mutating bool
	snapshot *roster.Snapshot

	// cursor indexes into the filtered pending list.
	cursor int

	filterInput  string
	filterActive bool
	slab         *util.Slab
}

func newAdminState() adminState {
	return adminState{slab: newFuzzySlab()}
}

// filteredPending narrows the pending list by fuzzy-matching the
// filter text against each doctor's name and email.
func (state *adminState) filteredPending() []portal.PendingDoctor {
	if state.snapshot == nil {
		return nil
	}
	pending := state.snapshot.PendingDoctors
	if state.filterInput == "" {
		return pending
	}

	pattern := filterPattern(state.filterInput)
	var matched []portal.PendingDoctor
	for _, doctor := range pending {
		if fuzzyMatch(doctor.Name, pattern, state.slab).Matched ||
			fuzzyMatch(doctor.Email, pattern, state.slab).Matched {
			matched = append(matched, doctor)
		}
	}
	return matched
}

func (state *adminState) clampCursor() {
	visible := len(state.filteredPending())
	if state.cursor >= visible {
		state.cursor = visible - 1
	}
	if state.cursor < 0 {
		state.cursor = 0
	}
}

func (model Model) updateAdmin(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := &model.admin

	if state.filterActive {
		switch {
		case key.Matches(message, model.keys.FilterClear):
			state.filterInput = ""
			state.filterActive = false
			state.clampCursor()
			return model, nil
		case key.Matches(message, model.keys.Submit):
			state.filterActive = false
			return model, nil
		}
		switch message.Type {
		case tea.KeyBackspace:
			if len(state.filterInput) > 0 {
				runes := []rune(state.filterInput)
				state.filterInput = string(runes[:len(runes)-1])
				state.clampCursor()
			}
			return model, nil
		case tea.KeyRunes, tea.KeySpace:
			state.filterInput += string(message.Runes)
			state.clampCursor()
			return model, nil
		}
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Back):
		model.view = ViewHome
		return model, nil

	case key.Matches(message, model.keys.FilterActivate):
		state.filterActive = true
		return model, nil

	case key.Matches(message, model.keys.Refresh):
		state.loading = true
		return model, model.loadRosterCmd()

	case key.Matches(message, model.keys.Up):
		if state.cursor > 0 {
			state.cursor--
		}
		return model, nil

	case key.Matches(message, model.keys.Down):
		if state.cursor < len(state.filteredPending())-1 {
			state.cursor++
		}
		return model, nil

	case key.Matches(message, model.keys.Home):
		state.cursor = 0
		return model, nil

	case key.Matches(message, model.keys.End):
		state.cursor = len(state.filteredPending()) - 1
		state.clampCursor()
		return model, nil

	case key.Matches(message, model.keys.Approve):
		return model.actOnSelectedDoctor(portal.ApprovalApproved)

	case key.Matches(message, model.keys.Reject):
		return model.actOnSelectedDoctor(portal.ApprovalRejected)
	}
	return model, nil
}

// actOnSelectedDoctor re-checks the admin capability at the mutation
// entry point before invoking the controller, then launches the
// mutate-and-refetch command.
func (model Model) actOnSelectedDoctor(status portal.ApprovalStatus) (tea.Model, tea.Cmd) {
	state := &model.admin
	if state.mutating {
		return model, nil
	}
	if !access.Allowed(model.record, access.ActOnPendingDoctor) {
		return model.showError("Admin privileges required")
	}

	pending := state.filteredPending()
	if state.cursor >= len(pending) {
		return model, nil
	}
	doctor := pending[state.cursor]

	state.mutating = true
	return model, model.setDoctorStatusCmd(doctor.ID, status)
}

func (model Model) viewAdmin() string {
	state := model.admin
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	b.WriteString(header.Render("Admin console") + "\n\n")

	if state.loading {
		b.WriteString("  " + faint.Render("Loading rosters...") + "\n")
		return b.String()
	}
	if state.snapshot == nil {
		b.WriteString("  " + faint.Render("No roster loaded. Press r to refresh.") + "\n")
		return b.String()
	}

	// Filter bar.
	if state.filterActive {
		cursor := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).Render("▎")
		b.WriteString("  / " + state.filterInput + cursor + "\n\n")
	} else if state.filterInput != "" {
		b.WriteString("  " + faint.Render("filter: "+state.filterInput) + "\n\n")
	}

	// Pending doctors: the actionable list.
	pending := state.filteredPending()
	b.WriteString(header.Render(fmt.Sprintf("  Pending doctors (%d)", len(pending))) + "\n")
	if len(pending) == 0 {
		b.WriteString("    " + faint.Render("No doctors awaiting review.") + "\n")
	}
	for index, doctor := range pending {
		degree := doctor.DegreePath
		if degree == "" {
			degree = "no degree uploaded"
		}
		line := fmt.Sprintf("    %-24s %-30s %s", doctor.Name, doctor.Email, degree)
		if index == state.cursor {
			selected := lipgloss.NewStyle().
				Background(model.theme.SelectedBackground).
				Foreground(model.theme.SelectedForeground)
			line = selected.Render("  ▸" + line[3:])
		}
		b.WriteString(line + "\n")
	}

	if state.mutating {
		b.WriteString("\n  " + faint.Render("Applying...") + "\n")
	}

	// Full account roster, server order.
	users := state.snapshot.Users
	b.WriteString("\n" + header.Render(fmt.Sprintf("  All users (%d)", len(users))) + "\n")
	for _, user := range users {
		roleStyle := lipgloss.NewStyle().Foreground(model.theme.RoleColor(user.Role))
		line := fmt.Sprintf("    %-24s %-30s %s", user.Name, user.Email, roleStyle.Render(string(user.Role)))
		if user.Role == portal.RoleDoctor && user.ApprovalStatus != "" {
			statusStyle := lipgloss.NewStyle().Foreground(model.theme.ApprovalColor(user.ApprovalStatus))
			line += " " + statusStyle.Render(string(user.ApprovalStatus))
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + help.Render("  a approve · x reject · / filter · r refresh · Esc back"))
	return b.String()
}
