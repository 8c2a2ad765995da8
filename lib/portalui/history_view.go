// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dermassist/dermassist/portal"
)

// historyState lists the caller's prior uploads, newest first as the
// server returns them.
type historyState struct {
	loading bool
	records []portal.ImageRecord
	cursor  int
}

func (state *historyState) clampCursor() {
	if state.cursor >= len(state.records) {
		state.cursor = len(state.records) - 1
	}
	if state.cursor < 0 {
		state.cursor = 0
	}
}

func (model Model) updateHistory(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := &model.history

	switch {
	case key.Matches(message, model.keys.Back):
		model.view = ViewHome
		return model, nil

	case key.Matches(message, model.keys.Refresh):
		state.loading = true
		return model, model.loadHistoryCmd()

	case key.Matches(message, model.keys.Up):
		if state.cursor > 0 {
			state.cursor--
		}
		return model, nil

	case key.Matches(message, model.keys.Down):
		if state.cursor < len(state.records)-1 {
			state.cursor++
		}
		return model, nil

	case key.Matches(message, model.keys.Home):
		state.cursor = 0
		return model, nil

	case key.Matches(message, model.keys.End):
		state.cursor = len(state.records) - 1
		state.clampCursor()
		return model, nil
	}
	return model, nil
}

func (model Model) viewHistory() string {
	state := model.history
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	b.WriteString(header.Render("Upload history") + "\n\n")

	if state.loading {
		b.WriteString("  " + faint.Render("Loading...") + "\n")
		return b.String()
	}
	if len(state.records) == 0 {
		b.WriteString("  " + faint.Render("No uploads yet.") + "\n")
		b.WriteString("\n" + help.Render("  r refresh · Esc back"))
		return b.String()
	}

	for index, record := range state.records {
		summary := "no classification"
		if record.Result != nil && record.Result.Success && len(record.Result.Entries) > 0 {
			top := record.Result.Entries[0]
			summary = fmt.Sprintf("%s (%.1f%%)", top.ClassName, top.ConfidencePercent)
		}
		line := fmt.Sprintf("  %-28s %-20s %s", record.FileName, record.UploadedAt, summary)
		if index == state.cursor {
			selected := lipgloss.NewStyle().
				Background(model.theme.SelectedBackground).
				Foreground(model.theme.SelectedForeground)
			line = selected.Render("▸" + line[1:])
		}
		b.WriteString(line + "\n")
	}

	// Detail for the selected record.
	if state.cursor < len(state.records) {
		record := state.records[state.cursor]
		detail := model.renderAnalysisRecord(record)
		if detail != "" {
			b.WriteString("\n" + detail)
		}
	}

	b.WriteString("\n" + help.Render("  j/k move · r refresh · Esc back"))
	return b.String()
}

// renderAnalysisRecord reuses the upload view's result rendering for a
// history entry.
func (model Model) renderAnalysisRecord(record portal.ImageRecord) string {
	if record.Features == nil && record.Result == nil {
		return ""
	}
	var sections []string
	if record.Features != nil {
		sections = append(sections, model.renderFeatures(record.Features))
	}
	if record.Result != nil {
		sections = append(sections, model.renderClassification(record.Result))
	}
	return strings.Join(sections, "\n")
}
