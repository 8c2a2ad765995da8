// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dermassist/dermassist/lib/authflow"
)

// loginForm is the email/password screen.
type loginForm struct {
	inputs       [2]textinput.Model // email, password
	focus        int
	errorMessage string
	submitting   bool
}

const (
	loginFieldEmail = iota
	loginFieldPassword
)

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "  Email    "
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "  Password "
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	form := loginForm{}
	form.inputs[loginFieldEmail] = email
	form.inputs[loginFieldPassword] = password
	return form
}

func (form *loginForm) setFocus(index int) tea.Cmd {
	form.focus = index
	var command tea.Cmd
	for inputIndex := range form.inputs {
		if inputIndex == index {
			command = form.inputs[inputIndex].Focus()
		} else {
			form.inputs[inputIndex].Blur()
		}
	}
	return command
}

func (model Model) updateLogin(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := &model.login

	switch {
	case key.Matches(message, model.keys.Back):
		model.view = ViewHome
		return model, nil

	case key.Matches(message, model.keys.NextField):
		return model, form.setFocus((form.focus + 1) % len(form.inputs))

	case key.Matches(message, model.keys.PrevField):
		return model, form.setFocus((form.focus + len(form.inputs) - 1) % len(form.inputs))

	case key.Matches(message, model.keys.Submit):
		if form.focus < len(form.inputs)-1 {
			return model, form.setFocus(form.focus + 1)
		}
		if form.submitting {
			return model, nil
		}
		email := strings.TrimSpace(form.inputs[loginFieldEmail].Value())
		password := form.inputs[loginFieldPassword].Value()
		if validationErr := authflow.ValidateLogin(email, password); validationErr != nil {
			form.errorMessage = validationErr.Message
			return model, nil
		}
		form.errorMessage = ""
		form.submitting = true
		return model, model.loginCmd(email, password)
	}

	// Any edit re-validates: the stale submit error clears as soon as
	// the user types.
	form.errorMessage = ""
	var command tea.Cmd
	form.inputs[form.focus], command = form.inputs[form.focus].Update(message)
	return model, command
}

func (model Model) viewLogin() string {
	form := model.login
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	b.WriteString(header.Render("Log in") + "\n\n")

	b.WriteString(form.inputs[loginFieldEmail].View() + "\n")
	if message := liveFieldError(authflow.EmailError, form.inputs[loginFieldEmail]); message != "" {
		b.WriteString(fieldErrorLine(model.theme, message))
	}
	b.WriteString(form.inputs[loginFieldPassword].View() + "\n")

	if form.errorMessage != "" {
		errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText)
		b.WriteString("\n  " + errorStyle.Render(form.errorMessage) + "\n")
	}
	if form.submitting {
		faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
		b.WriteString("\n  " + faint.Render("Signing in...") + "\n")
	}

	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	b.WriteString("\n" + help.Render("  Enter submit · Tab next field · Esc back"))
	return b.String()
}

// signupForm is the registration screen for patients and doctors.
type signupForm struct {
	inputs [4]textinput.Model // name, email, password, degree path
	doctor bool
	// focus 0-2 are inputs, 3 is the role toggle, 4 is the degree
	// path input (reachable only when doctor).
	focus        int
	errorMessage string
	submitting   bool
}

const (
	signupFieldName = iota
	signupFieldEmail
	signupFieldPassword
	signupFieldRole
	signupFieldDegree
)

func newSignupForm() signupForm {
	name := textinput.New()
	name.Placeholder = "full name"
	name.Prompt = "  Name     "
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "  Email    "
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "at least 6 characters"
	password.Prompt = "  Password "
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128

	degree := textinput.New()
	degree.Placeholder = "path to degree certificate (pdf/jpg/jpeg/png, max 5MB)"
	degree.Prompt = "  Degree   "

	form := signupForm{}
	form.inputs[signupFieldName] = name
	form.inputs[signupFieldEmail] = email
	form.inputs[signupFieldPassword] = password
	form.inputs[3] = degree
	return form
}

// fieldCount returns how many focusable fields the form has in its
// current role mode.
func (form *signupForm) fieldCount() int {
	if form.doctor {
		return 5
	}
	return 4
}

// inputIndex maps a focus position to its slot in inputs, or -1 for
// the role toggle.
func (form *signupForm) inputIndex(focus int) int {
	switch focus {
	case signupFieldName, signupFieldEmail, signupFieldPassword:
		return focus
	case signupFieldDegree:
		return 3
	}
	return -1
}

func (form *signupForm) setFocus(focus int) tea.Cmd {
	form.focus = focus
	target := form.inputIndex(focus)
	var command tea.Cmd
	for index := range form.inputs {
		if index == target {
			command = form.inputs[index].Focus()
		} else {
			form.inputs[index].Blur()
		}
	}
	return command
}

func (model Model) updateSignup(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	form := &model.signup

	switch {
	case key.Matches(message, model.keys.Back):
		model.view = ViewHome
		return model, nil

	case key.Matches(message, model.keys.NextField):
		return model, form.setFocus((form.focus + 1) % form.fieldCount())

	case key.Matches(message, model.keys.PrevField):
		return model, form.setFocus((form.focus + form.fieldCount() - 1) % form.fieldCount())

	case key.Matches(message, model.keys.Submit):
		if form.focus == signupFieldRole {
			form.doctor = !form.doctor
			return model, nil
		}
		if form.focus < form.fieldCount()-1 {
			return model, form.setFocus(form.focus + 1)
		}
		return model.submitSignup()
	}

	if form.focus == signupFieldRole {
		if message.String() == " " {
			form.doctor = !form.doctor
		}
		return model, nil
	}

	form.errorMessage = ""
	target := form.inputIndex(form.focus)
	var command tea.Cmd
	form.inputs[target], command = form.inputs[target].Update(message)
	return model, command
}

func (model Model) submitSignup() (tea.Model, tea.Cmd) {
	form := &model.signup
	if form.submitting {
		return model, nil
	}

	name := strings.TrimSpace(form.inputs[signupFieldName].Value())
	email := strings.TrimSpace(form.inputs[signupFieldEmail].Value())
	password := form.inputs[signupFieldPassword].Value()

	if form.doctor {
		degreePath := strings.TrimSpace(form.inputs[3].Value())
		// Stat and full validation happen in the flow; catch the
		// obviously empty path here for an immediate message.
		if degreePath == "" {
			form.errorMessage = "Please upload your degree certificate"
			return model, nil
		}
		if validationErr := authflow.ValidateRegistration(name, email, password, false, "", 0); validationErr != nil {
			form.errorMessage = validationErr.Message
			return model, nil
		}
		form.errorMessage = ""
		form.submitting = true
		return model, model.registerDoctorCmd(name, email, password, degreePath)
	}

	if validationErr := authflow.ValidateRegistration(name, email, password, false, "", 0); validationErr != nil {
		form.errorMessage = validationErr.Message
		return model, nil
	}
	form.errorMessage = ""
	form.submitting = true
	return model, model.registerPatientCmd(name, email, password)
}

func (model Model) viewSignup() string {
	form := model.signup
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	b.WriteString(header.Render("Create an account") + "\n\n")

	b.WriteString(form.inputs[signupFieldName].View() + "\n")
	if message := liveFieldError(authflow.NameError, form.inputs[signupFieldName]); message != "" {
		b.WriteString(fieldErrorLine(model.theme, message))
	}
	b.WriteString(form.inputs[signupFieldEmail].View() + "\n")
	if message := liveFieldError(authflow.EmailError, form.inputs[signupFieldEmail]); message != "" {
		b.WriteString(fieldErrorLine(model.theme, message))
	}
	b.WriteString(form.inputs[signupFieldPassword].View() + "\n")
	if message := liveFieldError(authflow.PasswordError, form.inputs[signupFieldPassword]); message != "" {
		b.WriteString(fieldErrorLine(model.theme, message))
	}

	roleMark := "[ ]"
	if form.doctor {
		roleMark = "[x]"
	}
	roleLine := "  " + roleMark + " Register as doctor (requires admin approval)"
	if form.focus == signupFieldRole {
		selected := lipgloss.NewStyle().
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground)
		roleLine = selected.Render(roleLine)
	}
	b.WriteString(roleLine + "\n")

	if form.doctor {
		b.WriteString(form.inputs[3].View() + "\n")
	}

	if form.errorMessage != "" {
		errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText)
		b.WriteString("\n  " + errorStyle.Render(form.errorMessage) + "\n")
	}
	if form.submitting {
		b.WriteString("\n  " + faint.Render("Submitting...") + "\n")
	}

	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	b.WriteString("\n" + help.Render("  Enter submit · Tab next field · Space toggle role · Esc back"))
	return b.String()
}

// liveFieldError re-validates a field on every render so feedback is
// immediate. Untouched fields stay quiet.
func liveFieldError(validate func(string) string, input textinput.Model) string {
	value := strings.TrimSpace(input.Value())
	if value == "" {
		return ""
	}
	return validate(value)
}

func fieldErrorLine(theme Theme, message string) string {
	style := lipgloss.NewStyle().Foreground(theme.ErrorText)
	return "  " + style.Render("↳ "+message) + "\n"
}
