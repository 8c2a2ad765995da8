// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dermassist/dermassist/lib/upload"
	"github.com/dermassist/dermassist/portal"
)

// uploadViewState holds the analyze screen's UI state. The workflow
// state itself (phase, attempt identity, result) lives in the upload
// controller.
type uploadViewState struct {
	pathInput textinput.Model

	// selectError shows file-selection problems (unreadable path,
	// unsupported extension) inline under the input.
	selectError string

	// cached is a replayed prior analysis of the currently selected
	// image, shown until the user explicitly re-submits.
	cached *portal.AnalysisResult
}

func newUploadViewState() uploadViewState {
	pathInput := textinput.New()
	pathInput.Placeholder = "path to a .jpg, .jpeg, or .png image"
	pathInput.Prompt = "  Image "
	return uploadViewState{pathInput: pathInput}
}

func (model Model) updateUpload(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := &model.upview

	if view.pathInput.Focused() {
		switch {
		case key.Matches(message, model.keys.Back):
			view.pathInput.Blur()
			if model.uploads.Current().Phase == upload.PhaseIdle {
				model.view = ViewHome
			}
			return model, nil

		case key.Matches(message, model.keys.Submit):
			return model.selectUploadFile()
		}

		view.selectError = ""
		var command tea.Cmd
		view.pathInput, command = view.pathInput.Update(message)
		return model, command
	}

	switch {
	case key.Matches(message, model.keys.Back):
		// Discard the attempt and pick a new file.
		model.uploads.Reset()
		view.cached = nil
		view.selectError = ""
		view.pathInput.SetValue("")
		return model, view.pathInput.Focus()

	case key.Matches(message, model.keys.FilterActivate):
		// Re-edit the path without losing the current attempt.
		return model, view.pathInput.Focus()

	case key.Matches(message, model.keys.Submit):
		return model.beginUpload()
	}
	return model, nil
}

// selectUploadFile reads the typed path and starts a fresh attempt.
// Validation failures never reach the network: an unsupported
// extension reports its specific message and returns the slot to idle.
func (model Model) selectUploadFile() (tea.Model, tea.Cmd) {
	view := &model.upview
	path := strings.TrimSpace(view.pathInput.Value())
	if path == "" {
		view.selectError = "Please choose an image file"
		return model, nil
	}

	image, err := os.ReadFile(path)
	if err != nil {
		view.selectError = "Cannot read " + path
		return model, nil
	}

	if err := model.uploads.Select(filepath.Base(path), image); err != nil {
		view.cached = nil
		view.selectError = selectFailureMessage(err)
		return model, nil
	}

	view.selectError = ""
	view.cached = nil
	if model.cache != nil {
		if cachedResult, hit := model.cache.Get(image); hit {
			view.cached = cachedResult
		}
	}
	view.pathInput.Blur()
	return model, nil
}

// beginUpload runs the capability gate and launches the network call.
// A denied gate is a normal outcome: the user is routed to login, not
// shown an error screen.
func (model Model) beginUpload() (tea.Model, tea.Cmd) {
	attemptID, err := model.uploads.Begin(model.record)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrLoginRequired):
			model.view = ViewLogin
			model.login = newLoginForm()
			focusCommand := model.login.inputs[0].Focus()
			noticeCommand := model.setNotice("Please login to upload images", true)
			return model, tea.Batch(focusCommand, noticeCommand)
		case errors.Is(err, upload.ErrNoSelection):
			return model, model.upview.pathInput.Focus()
		case errors.Is(err, upload.ErrUploadInFlight):
			command := model.setNotice("An upload is already in progress", true)
			return model, command
		}
		command := model.setNotice(err.Error(), true)
		return model, command
	}

	attempt := model.uploads.Current()
	model.upview.cached = nil
	return model, model.uploadCmd(attemptID, attempt.FileName, attempt.Image)
}

func selectFailureMessage(err error) string {
	if errors.Is(err, upload.ErrUnsupportedFormat) {
		return "Unsupported format: please upload an image with .jpg, .jpeg, or .png extension"
	}
	return err.Error()
}

func (model Model) viewUpload() string {
	view := model.upview
	attempt := model.uploads.Current()
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText)
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	b.WriteString(header.Render("Analyze a skin image") + "\n\n")
	b.WriteString(view.pathInput.View() + "\n")
	if view.selectError != "" {
		b.WriteString("  " + errorStyle.Render(view.selectError) + "\n")
	}

	switch attempt.Phase {
	case upload.PhaseSelected:
		b.WriteString("\n  " + fmt.Sprintf("Selected %s (%d KB)", attempt.FileName, len(attempt.Image)/1024) + "\n")
		if view.cached != nil {
			b.WriteString("  " + faint.Render("This image was analyzed before; previous result shown below. Enter re-analyzes.") + "\n")
			b.WriteString("\n" + model.renderAnalysis(view.cached))
		}
		b.WriteString("\n" + help.Render("  Enter analyze · / change path · Esc discard"))

	case upload.PhaseUploading:
		b.WriteString("\n  " + faint.Render("Analyzing "+attempt.FileName+"...") + "\n")

	case upload.PhaseFailed:
		b.WriteString("\n  " + errorStyle.Render(attempt.ErrorMessage) + "\n")
		// The selection survives failure: retry is one keypress.
		b.WriteString("\n" + help.Render("  Enter retry · Esc discard"))

	case upload.PhaseSucceeded:
		b.WriteString("\n" + model.renderAnalysis(attempt.Result))
		b.WriteString("\n" + help.Render("  Esc new image"))

	default:
		b.WriteString("\n" + help.Render("  Enter select file · Esc back"))
	}

	return b.String()
}

// renderAnalysis renders a structured result. Features and
// classification are independently optional: each section appears only
// when present, and the absence of one never suppresses the other.
func (model Model) renderAnalysis(result *portal.AnalysisResult) string {
	if result == nil {
		return ""
	}
	var sections []string
	if result.Features != nil {
		sections = append(sections, model.renderFeatures(result.Features))
	}
	if result.Classification != nil {
		sections = append(sections, model.renderClassification(result.Classification))
	}
	if len(sections) == 0 && result.Message != "" {
		faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
		sections = append(sections, "  "+faint.Render(result.Message))
	}
	return strings.Join(sections, "\n")
}

// featureLabel maps the model's wire codes to display words.
func featureLabel(code string) string {
	switch code {
	case portal.FeatureTypical:
		return "typical"
	case portal.FeatureAtypical:
		return "atypical"
	case portal.FeaturePresent:
		return "present"
	case portal.FeatureAbsent:
		return "absent"
	}
	return code
}

func (model Model) renderFeatures(features *portal.FeatureSet) string {
	bold := lipgloss.NewStyle().Bold(true).Foreground(model.theme.NormalText)
	var b strings.Builder
	b.WriteString("  " + bold.Render("Dermatoscopic features") + "\n")
	fmt.Fprintf(&b, "    Asymmetry          %d of 2 axes\n", features.Asymmetry)
	fmt.Fprintf(&b, "    Pigment network    %s\n", featureLabel(features.PigmentNetwork))
	fmt.Fprintf(&b, "    Dots and globules  %s\n", featureLabel(features.DotsGlobules))
	fmt.Fprintf(&b, "    Streaks            %s\n", featureLabel(features.Streaks))
	fmt.Fprintf(&b, "    Regression areas   %s\n", featureLabel(features.RegressionAreas))
	fmt.Fprintf(&b, "    Blue-whitish veil  %s\n", featureLabel(features.BlueWhitishVeil))

	var colors []string
	for _, color := range []struct {
		name    string
		present bool
	}{
		{"white", features.White},
		{"red", features.Red},
		{"light brown", features.LightBrown},
		{"dark brown", features.DarkBrown},
		{"blue-gray", features.BlueGray},
		{"black", features.Black},
	} {
		if color.present {
			colors = append(colors, color.name)
		}
	}
	if len(colors) > 0 {
		fmt.Fprintf(&b, "    Colors             %s\n", strings.Join(colors, ", "))
	} else {
		b.WriteString("    Colors             none detected\n")
	}
	return b.String()
}

func (model Model) renderClassification(classification *portal.Classification) string {
	bold := lipgloss.NewStyle().Bold(true).Foreground(model.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	var b strings.Builder

	b.WriteString("  " + bold.Render("Classification") + "\n")
	if !classification.Success {
		b.WriteString("    " + faint.Render("Classification unavailable for this image.") + "\n")
		return b.String()
	}

	confidenceStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.ConfidenceColor(classification.ConfidenceLevel))
	b.WriteString("    Confidence: " + confidenceStyle.Render(strings.ToUpper(string(classification.ConfidenceLevel))) + "\n\n")

	// Entries render in the order received: the server sends them by
	// ascending rank and the client does not re-sort.
	for _, entry := range classification.Entries {
		fmt.Fprintf(&b, "    %d. %-30s %-6s %5.1f%%\n",
			entry.Rank, entry.ClassName, entry.ClassCode, entry.ConfidencePercent)
	}

	if classification.GradCAM != nil && classification.GradCAM.Success {
		b.WriteString("\n    " + faint.Render("Grad-CAM explanation available (original + heatmap overlay). Save via: dermassist history") + "\n")
	}

	contentWidth := model.width - 8
	if contentWidth < 40 {
		contentWidth = 40
	}
	if classification.Recommendation != "" {
		b.WriteString("\n  " + bold.Render("Recommendation") + "\n")
		b.WriteString(indentLines(renderMarkdown(classification.Recommendation, model.theme, contentWidth), "    ") + "\n")
	}
	if classification.Disclaimer != "" {
		b.WriteString("\n" + indentLines(renderMarkdown(classification.Disclaimer, model.theme, contentWidth), "    ") + "\n")
	}
	return b.String()
}

func indentLines(text, prefix string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for index, line := range lines {
		if line != "" {
			lines[index] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
