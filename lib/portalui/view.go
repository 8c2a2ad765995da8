// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dermassist/dermassist/lib/access"
	"github.com/dermassist/dermassist/portal"
)

func (model Model) View() string {
	if !model.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(model.viewHeader() + "\n\n")

	switch model.view {
	case ViewLogin:
		b.WriteString(model.viewLogin())
	case ViewSignup:
		b.WriteString(model.viewSignup())
	case ViewUpload:
		b.WriteString(model.viewUpload())
	case ViewHistory:
		b.WriteString(model.viewHistory())
	case ViewAdmin:
		b.WriteString(model.viewAdmin())
	default:
		b.WriteString(model.viewHome())
	}

	if model.notice.text != "" {
		b.WriteString("\n\n" + model.viewNotice())
	}
	return b.String()
}

func (model Model) viewHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	left := title.Render("dermassist")
	if model.record == nil {
		return left + "  " + faint.Render("not logged in")
	}

	identity := model.record.Identity
	roleStyle := lipgloss.NewStyle().Foreground(model.theme.RoleColor(identity.Role))
	right := identity.Name + " " + roleStyle.Render("("+string(identity.Role)+")")
	if identity.Role == portal.RoleDoctor && identity.ApprovalStatus != "" {
		statusStyle := lipgloss.NewStyle().Foreground(model.theme.ApprovalColor(identity.ApprovalStatus))
		right += " " + statusStyle.Render(string(identity.ApprovalStatus))
	}
	return left + "  " + right
}

func (model Model) viewNotice() string {
	style := lipgloss.NewStyle().Foreground(model.theme.SuccessText)
	if model.notice.isError {
		style = lipgloss.NewStyle().Foreground(model.theme.ErrorText)
	}
	return "  " + style.Render(model.notice.text)
}

// viewHome renders the landing menu. Entries are gated by capability:
// the admin console appears only for admin sessions, and
// session-requiring entries show their requirement instead of hiding.
func (model Model) viewHome() string {
	normal := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	var b strings.Builder
	b.WriteString(normal.Render("  Early detection of skin cancer, assisted by dermatoscopic image analysis.") + "\n\n")

	if model.record == nil {
		b.WriteString("  1  Log in\n")
		b.WriteString("  2  Create an account\n")
		b.WriteString("  3  Analyze an image  " + faint.Render("(login required)") + "\n")
	} else {
		b.WriteString("  3  Analyze an image\n")
		b.WriteString("  4  Upload history\n")
		if access.Allowed(model.record, access.ViewAdminConsole) {
			b.WriteString("  5  Admin console\n")
		}
	}

	b.WriteString("\n" + help.Render("  q quit · C-l logout"))
	return b.String()
}
