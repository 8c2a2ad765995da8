// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dermassist/dermassist/lib/access"
	"github.com/dermassist/dermassist/lib/authflow"
	"github.com/dermassist/dermassist/lib/resultcache"
	"github.com/dermassist/dermassist/lib/roster"
	"github.com/dermassist/dermassist/lib/session"
	"github.com/dermassist/dermassist/lib/upload"
	"github.com/dermassist/dermassist/portal"
)

// View identifies which screen is active.
type View int

const (
	// ViewHome is the landing menu.
	ViewHome View = iota
	// ViewLogin is the email/password form.
	ViewLogin
	// ViewSignup is the registration form (patient or doctor).
	ViewSignup
	// ViewUpload is the image-analysis workflow.
	ViewUpload
	// ViewHistory lists the caller's prior uploads.
	ViewHistory
	// ViewAdmin is the roster console for reviewing doctors.
	ViewAdmin
)

// notice is the transient status banner. generation increments with
// every notice so a stale fade timer cannot clear a newer message.
type notice struct {
	text       string
	isError    bool
	generation int
}

// Config assembles a Model's collaborators.
type Config struct {
	// Client is the portal API client.
	Client *portal.Client
	// Store is the session store; the model subscribes to its
	// changes.
	Store *session.Store
	// Cache replays prior analysis results for identical images. May
	// be nil to disable caching.
	Cache *resultcache.Cache
	// Theme and Keys default to DarkTheme and DefaultKeyMap when
	// zero.
	Theme Theme
	Keys  KeyMap
	// Logger may be nil.
	Logger *slog.Logger
}

// Model is the top-level bubbletea model for the portal TUI.
type Model struct {
	client *portal.Client
	store  *session.Store
	flow   *authflow.Flow
	cache  *resultcache.Cache
	logger *slog.Logger

	theme Theme
	keys  KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	view View

	// record is the in-memory copy of the persisted session. Updated
	// only through sessionChangedMsg so the rendered identity and the
	// durable record stay in step.
	record         *session.Record
	sessionChanges <-chan struct{}

	notice notice

	login   loginForm
	signup  signupForm
	uploads *upload.Controller
	upview  uploadViewState
	admin   adminState
	history historyState
}

// NewModel builds the TUI model. The session store is read once here;
// afterwards the model tracks it through change notifications.
func NewModel(config Config) (Model, error) {
	theme := config.Theme
	if theme == (Theme{}) {
		theme = DarkTheme
	}
	keys := config.Keys
	if !keys.Quit.Enabled() {
		keys = DefaultKeyMap
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}

	record, err := config.Store.Load()
	if err != nil {
		return Model{}, err
	}

	model := Model{
		client:         config.Client,
		store:          config.Store,
		flow:           authflow.New(config.Client, config.Store, logger),
		cache:          config.Cache,
		logger:         logger,
		theme:          theme,
		keys:           keys,
		record:         record,
		sessionChanges: config.Store.Changes(),
		uploads:        upload.NewController(),
		login:          newLoginForm(),
		signup:         newSignupForm(),
		upview:         newUploadViewState(),
		admin:          newAdminState(),
	}
	return model, nil
}

// Init subscribes to session changes and starts the cursor blink.
func (model Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, watchSession(model.sessionChanges))
}

// watchSession blocks on the store's change channel and converts each
// signal into a message. Re-issued after every delivery.
func watchSession(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return sessionChangedMsg{}
	}
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		return model, nil

	case sessionChangedMsg:
		record, err := model.store.Load()
		if err == nil {
			model.record = record
		}
		if record == nil {
			// Logged out: drop views that need a session.
			if model.view == ViewAdmin || model.view == ViewHistory {
				model.view = ViewHome
			}
			model.admin = newAdminState()
			model.history = historyState{}
		}
		return model, watchSession(model.sessionChanges)

	case loginResultMsg:
		return model.handleLoginResult(message)

	case registerResultMsg:
		return model.handleRegisterResult(message)

	case uploadResultMsg:
		return model.handleUploadResult(message)

	case rosterLoadedMsg:
		return model.handleRosterLoaded(message)

	case mutationDoneMsg:
		return model.handleMutationDone(message)

	case historyLoadedMsg:
		model.history.loading = false
		if message.err != nil {
			return model.showError(historyFailureMessage(message.err))
		}
		model.history.records = message.records
		model.history.clampCursor()
		return model, nil

	case noticeFadeMsg:
		if message.generation == model.notice.generation {
			model.notice.text = ""
		}
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)
	}

	return model.updateFocusedInput(message)
}

// handleKey routes a keypress: quit and logout are global, navigation
// keys apply when no text input is capturing keystrokes, and the rest
// goes to the active view.
func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.Quit) && !model.typing() {
		return model, tea.Quit
	}
	if message.Type == tea.KeyCtrlC {
		return model, tea.Quit
	}
	if key.Matches(message, model.keys.Logout) && model.record != nil {
		if err := model.flow.Logout(); err != nil {
			return model.showError("Logout failed: " + err.Error())
		}
		return model.showSuccess("Logged out")
	}

	if !model.typing() {
		switch {
		case key.Matches(message, model.keys.GoLogin):
			return model.switchView(ViewLogin)
		case key.Matches(message, model.keys.GoSignup):
			return model.switchView(ViewSignup)
		case key.Matches(message, model.keys.GoUpload):
			return model.switchView(ViewUpload)
		case key.Matches(message, model.keys.GoHistory):
			return model.switchView(ViewHistory)
		case key.Matches(message, model.keys.GoAdmin):
			return model.switchView(ViewAdmin)
		}
	}

	switch model.view {
	case ViewLogin:
		return model.updateLogin(message)
	case ViewSignup:
		return model.updateSignup(message)
	case ViewUpload:
		return model.updateUpload(message)
	case ViewHistory:
		return model.updateHistory(message)
	case ViewAdmin:
		return model.updateAdmin(message)
	}

	if key.Matches(message, model.keys.Back) {
		return model.switchView(ViewHome)
	}
	return model, nil
}

// typing reports whether a text input currently owns keystrokes, which
// suppresses single-letter navigation shortcuts.
func (model Model) typing() bool {
	switch model.view {
	case ViewLogin, ViewSignup:
		return true
	case ViewUpload:
		return model.upview.pathInput.Focused()
	case ViewAdmin:
		return model.admin.filterActive
	}
	return false
}

// switchView enters a view, running its capability gate and initial
// load. Denied capability routes to login (no session) or shows a
// privilege notice (wrong role) — denial is a normal outcome, not an
// error.
func (model Model) switchView(view View) (tea.Model, tea.Cmd) {
	switch view {
	case ViewAdmin:
		decision := access.Check(model.record, access.ViewAdminConsole)
		switch decision.Reason {
		case access.ReasonLoginRequired:
			model.view = ViewLogin
			return model.showError("Please log in to access the admin console")
		case access.ReasonRoleDenied:
			return model.showError("Admin privileges required")
		}
		model.view = ViewAdmin
		model.admin.loading = true
		return model, model.loadRosterCmd()

	case ViewHistory:
		if model.record == nil {
			model.view = ViewLogin
			return model.showError("Please log in to view your uploads")
		}
		model.view = ViewHistory
		model.history.loading = true
		return model, model.loadHistoryCmd()

	case ViewUpload:
		// The gate is checked again on submit; entering the view is
		// allowed so the user sees the login-required message in
		// context.
		model.view = ViewUpload
		return model, model.upview.pathInput.Focus()

	case ViewLogin:
		model.view = ViewLogin
		model.login = newLoginForm()
		return model, model.login.inputs[0].Focus()

	case ViewSignup:
		model.view = ViewSignup
		model.signup = newSignupForm()
		return model, model.signup.inputs[0].Focus()
	}

	model.view = view
	return model, nil
}

// updateFocusedInput forwards non-key messages (cursor blink ticks) to
// whichever text inputs are visible.
func (model Model) updateFocusedInput(message tea.Msg) (tea.Model, tea.Cmd) {
	var commands []tea.Cmd
	switch model.view {
	case ViewLogin:
		for index := range model.login.inputs {
			var command tea.Cmd
			model.login.inputs[index], command = model.login.inputs[index].Update(message)
			commands = append(commands, command)
		}
	case ViewSignup:
		for index := range model.signup.inputs {
			var command tea.Cmd
			model.signup.inputs[index], command = model.signup.inputs[index].Update(message)
			commands = append(commands, command)
		}
	case ViewUpload:
		var command tea.Cmd
		model.upview.pathInput, command = model.upview.pathInput.Update(message)
		commands = append(commands, command)
	}
	return model, tea.Batch(commands...)
}

// --- Notices ---

// setNotice replaces the banner and schedules its fade.
func (model *Model) setNotice(text string, isError bool) tea.Cmd {
	model.notice.generation++
	model.notice.text = text
	model.notice.isError = isError
	generation := model.notice.generation
	return tea.Tick(roster.NoticeDuration, func(time.Time) tea.Msg {
		return noticeFadeMsg{generation: generation}
	})
}

func (model Model) showError(text string) (tea.Model, tea.Cmd) {
	command := model.setNotice(text, true)
	return model, command
}

func (model Model) showSuccess(text string) (tea.Model, tea.Cmd) {
	command := model.setNotice(text, false)
	return model, command
}

// --- Commands ---

// loginCmd runs the auth workflow off the update loop.
func (model Model) loginCmd(email, password string) tea.Cmd {
	flow := model.flow
	return func() tea.Msg {
		identity, err := flow.Login(context.Background(), email, password)
		return loginResultMsg{identity: identity, err: err}
	}
}

func (model Model) registerPatientCmd(name, email, password string) tea.Cmd {
	flow := model.flow
	return func() tea.Msg {
		err := flow.RegisterPatient(context.Background(), name, email, password)
		return registerResultMsg{doctor: false, err: err}
	}
}

func (model Model) registerDoctorCmd(name, email, password, degreePath string) tea.Cmd {
	flow := model.flow
	return func() tea.Msg {
		message, err := flow.RegisterDoctor(context.Background(), name, email, password, degreePath)
		return registerResultMsg{doctor: true, message: message, err: err}
	}
}

// uploadCmd submits the attempt's image. The attempt ID travels with
// the result so a superseded attempt's late response is discarded by
// the controller, never rendered.
func (model Model) uploadCmd(attemptID int64, filename string, image []byte) tea.Cmd {
	client := model.client
	token := ""
	if model.record != nil {
		token = model.record.Token
	}
	return func() tea.Msg {
		apiSession, err := client.SessionFromToken(token)
		if err != nil {
			return uploadResultMsg{attemptID: attemptID, err: err}
		}
		defer apiSession.Close()

		result, err := apiSession.UploadImage(context.Background(), filename, image)
		return uploadResultMsg{attemptID: attemptID, result: result, err: err}
	}
}

func (model Model) loadRosterCmd() tea.Cmd {
	client := model.client
	logger := model.logger
	token := ""
	if model.record != nil {
		token = model.record.Token
	}
	return func() tea.Msg {
		apiSession, err := client.SessionFromToken(token)
		if err != nil {
			return rosterLoadedMsg{err: err}
		}
		defer apiSession.Close()

		controller := roster.NewController(apiSession, logger)
		snapshot, err := controller.Load(context.Background())
		return rosterLoadedMsg{snapshot: snapshot, err: err}
	}
}

func (model Model) setDoctorStatusCmd(doctorID portal.UserID, status portal.ApprovalStatus) tea.Cmd {
	client := model.client
	logger := model.logger
	token := ""
	if model.record != nil {
		token = model.record.Token
	}
	return func() tea.Msg {
		apiSession, err := client.SessionFromToken(token)
		if err != nil {
			return mutationDoneMsg{status: status, err: err}
		}
		defer apiSession.Close()

		controller := roster.NewController(apiSession, logger)
		snapshot, err := controller.SetDoctorStatus(context.Background(), doctorID, status)
		return mutationDoneMsg{status: status, snapshot: snapshot, err: err}
	}
}

func (model Model) loadHistoryCmd() tea.Cmd {
	client := model.client
	token := ""
	if model.record != nil {
		token = model.record.Token
	}
	return func() tea.Msg {
		apiSession, err := client.SessionFromToken(token)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		defer apiSession.Close()

		records, err := apiSession.UserImages(context.Background())
		return historyLoadedMsg{records: records, err: err}
	}
}

// --- Result handlers ---

func (model Model) handleLoginResult(message loginResultMsg) (tea.Model, tea.Cmd) {
	model.login.submitting = false
	if message.err != nil {
		model.login.errorMessage = authflow.LoginFailureMessage(message.err)
		return model, nil
	}
	// The store notification updates model.record; switch views now so
	// the user doesn't watch the form linger.
	model.view = ViewHome
	return model.showSuccess("Logged in as " + message.identity.Name)
}

func (model Model) handleRegisterResult(message registerResultMsg) (tea.Model, tea.Cmd) {
	model.signup.submitting = false
	if message.err != nil {
		model.signup.errorMessage = authflow.RegisterFailureMessage(message.err)
		return model, nil
	}

	// Registration never logs the user in: route to the login view.
	// Doctor accounts additionally start pending, which the server's
	// message explains — that text must reach the user.
	model.view = ViewLogin
	model.login = newLoginForm()
	focusCommand := model.login.inputs[0].Focus()
	if message.doctor {
		noticeCommand := model.setNotice(message.message, false)
		return model, tea.Batch(focusCommand, noticeCommand)
	}
	noticeCommand := model.setNotice("Account created. Please log in.", false)
	return model, tea.Batch(focusCommand, noticeCommand)
}

func (model Model) handleUploadResult(message uploadResultMsg) (tea.Model, tea.Cmd) {
	delivered := model.uploads.Complete(message.attemptID, message.result, message.err)
	if !delivered {
		// Superseded attempt: nothing changes.
		return model, nil
	}
	if message.err == nil && model.cache != nil {
		attempt := model.uploads.Current()
		if attempt.Phase == upload.PhaseSucceeded {
			if err := model.cache.Put(attempt.Image, message.result); err != nil {
				model.logger.Warn("result cache write failed", "error", err)
			}
		}
	}
	return model, nil
}

func (model Model) handleRosterLoaded(message rosterLoadedMsg) (tea.Model, tea.Cmd) {
	model.admin.loading = false
	if message.err != nil {
		return model.rosterFailure(message.err)
	}
	model.admin.snapshot = message.snapshot
	model.admin.clampCursor()
	return model, nil
}

func (model Model) handleMutationDone(message mutationDoneMsg) (tea.Model, tea.Cmd) {
	model.admin.mutating = false
	if message.err != nil {
		return model.rosterMutationFailure(message.status, message.err)
	}
	model.admin.snapshot = message.snapshot
	model.admin.clampCursor()
	return model.showSuccess(roster.SuccessMessage(message.status))
}

// rosterFailure maps a roster load error to navigation: 401 clears
// back to login, 403 bounces to home with a privilege message, other
// failures stay on the view for a retry.
func (model Model) rosterFailure(err error) (tea.Model, tea.Cmd) {
	message := roster.FailureMessage("", err)
	if roster.IsSessionExpired(err) {
		model.view = ViewLogin
	} else if roster.IsInsufficientPrivilege(err) {
		// The session stays intact: the account simply isn't an
		// admin.
		model.view = ViewHome
	}
	command := model.setNotice(message, true)
	return model, command
}

func (model Model) rosterMutationFailure(status portal.ApprovalStatus, err error) (tea.Model, tea.Cmd) {
	message := roster.FailureMessage(status, err)
	if roster.IsSessionExpired(err) {
		model.view = ViewLogin
	}
	command := model.setNotice(message, true)
	return model, command
}

func historyFailureMessage(err error) string {
	if serverMessage := portal.ServerMessage(err); serverMessage != "" {
		return serverMessage
	}
	return "Could not load upload history. Please try again."
}
