// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dermassist/dermassist/lib/roster"
	"github.com/dermassist/dermassist/lib/session"
	"github.com/dermassist/dermassist/portal"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := portal.NewClient(portal.ClientConfig{
		BaseURL: "http://localhost:1/api",
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	store := session.Open(t.TempDir())

	model, err := NewModel(Config{Client: client, Store: store, Logger: logger})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return model
}

func loggedInModel(t *testing.T, role portal.Role) Model {
	t.Helper()
	model := newTestModel(t)
	if err := model.store.Save(portal.Identity{ID: 1, Name: "Tester", Role: role}, "tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	record, err := model.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	model.record = record
	return model
}

func asModel(t *testing.T, updated tea.Model) Model {
	t.Helper()
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model
}

func TestNewModel_Defaults(t *testing.T) {
	model := newTestModel(t)
	if model.theme != DarkTheme {
		t.Error("zero theme should default to DarkTheme")
	}
	if len(model.keys.Quit.Keys()) == 0 {
		t.Error("zero keymap should default to DefaultKeyMap")
	}
	if model.view != ViewHome {
		t.Errorf("initial view = %v, want home", model.view)
	}
	if model.record != nil {
		t.Errorf("record = %+v with empty store, want nil", model.record)
	}
}

func TestSwitchView_AdminRequiresLogin(t *testing.T) {
	model := newTestModel(t)

	updated, _ := model.switchView(ViewAdmin)
	got := asModel(t, updated)
	if got.view != ViewLogin {
		t.Errorf("view = %v, want login", got.view)
	}
	if got.notice.text == "" || !got.notice.isError {
		t.Errorf("notice = %+v, want login-required error", got.notice)
	}
}

func TestSwitchView_AdminRequiresAdminRole(t *testing.T) {
	model := loggedInModel(t, portal.RolePatient)
	model.view = ViewHome

	updated, _ := model.switchView(ViewAdmin)
	got := asModel(t, updated)
	// Denied by role: stay put, show the privilege notice, keep the
	// session.
	if got.view != ViewHome {
		t.Errorf("view = %v, want home", got.view)
	}
	if got.notice.text != "Admin privileges required" {
		t.Errorf("notice = %q", got.notice.text)
	}
	if got.record == nil {
		t.Error("session cleared on a role denial")
	}
}

func TestSwitchView_AdminAllowedStartsLoad(t *testing.T) {
	model := loggedInModel(t, portal.RoleAdmin)

	updated, command := model.switchView(ViewAdmin)
	got := asModel(t, updated)
	if got.view != ViewAdmin {
		t.Errorf("view = %v, want admin", got.view)
	}
	if !got.admin.loading {
		t.Error("admin view entered without starting a load")
	}
	if command == nil {
		t.Error("no load command issued")
	}
}

func TestSwitchView_HistoryRequiresLogin(t *testing.T) {
	model := newTestModel(t)
	updated, _ := model.switchView(ViewHistory)
	if got := asModel(t, updated); got.view != ViewLogin {
		t.Errorf("view = %v, want login", got.view)
	}
}

func TestNoticeFade_StaleGenerationIgnored(t *testing.T) {
	model := newTestModel(t)

	model.setNotice("first", false)
	staleGeneration := model.notice.generation
	model.setNotice("second", false)

	// The first notice's fade tick arrives after the second notice is
	// up; it must not clear it.
	updated, _ := model.Update(noticeFadeMsg{generation: staleGeneration})
	got := asModel(t, updated)
	if got.notice.text != "second" {
		t.Errorf("notice = %q after stale fade, want %q", got.notice.text, "second")
	}

	updated, _ = got.Update(noticeFadeMsg{generation: got.notice.generation})
	if final := asModel(t, updated); final.notice.text != "" {
		t.Errorf("notice = %q after current fade, want cleared", final.notice.text)
	}
}

func TestSessionChanged_LogoutDropsPrivilegedViews(t *testing.T) {
	model := loggedInModel(t, portal.RoleAdmin)
	model.view = ViewAdmin
	model.admin.snapshot = &roster.Snapshot{}

	if err := model.store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	updated, _ := model.Update(sessionChangedMsg{})
	got := asModel(t, updated)
	if got.record != nil {
		t.Error("record survives logout")
	}
	if got.view != ViewHome {
		t.Errorf("view = %v after logout, want home", got.view)
	}
	if got.admin.snapshot != nil {
		t.Error("admin snapshot retained after logout")
	}
}

func TestRosterFailure_Routing(t *testing.T) {
	expired := &portal.Error{StatusCode: http.StatusUnauthorized}
	forbidden := &portal.Error{StatusCode: http.StatusForbidden, Message: "admins only"}

	t.Run("session expired routes to login", func(t *testing.T) {
		model := loggedInModel(t, portal.RoleAdmin)
		model.view = ViewAdmin
		updated, _ := model.Update(rosterLoadedMsg{err: wrapRosterError(expired)})
		got := asModel(t, updated)
		if got.view != ViewLogin {
			t.Errorf("view = %v, want login", got.view)
		}
	})

	t.Run("forbidden keeps session and goes home", func(t *testing.T) {
		model := loggedInModel(t, portal.RoleDoctor)
		model.view = ViewAdmin
		updated, _ := model.Update(rosterLoadedMsg{err: wrapRosterError(forbidden)})
		got := asModel(t, updated)
		if got.view != ViewHome {
			t.Errorf("view = %v, want home", got.view)
		}
		if got.record == nil {
			t.Error("session cleared on 403")
		}
		record, err := got.store.Load()
		if err != nil || record == nil {
			t.Errorf("persisted session gone after 403: record=%v err=%v", record, err)
		}
	})

	t.Run("other failures stay on the view", func(t *testing.T) {
		model := loggedInModel(t, portal.RoleAdmin)
		model.view = ViewAdmin
		updated, _ := model.Update(rosterLoadedMsg{err: &portal.Error{StatusCode: 500}})
		got := asModel(t, updated)
		if got.view != ViewAdmin {
			t.Errorf("view = %v, want admin (retryable)", got.view)
		}
	})
}

// wrapRosterError applies the same sentinel mapping the roster
// controller performs on its errors.
func wrapRosterError(portalErr *portal.Error) error {
	if portalErr.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", roster.ErrSessionExpired, portalErr)
	}
	if portalErr.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %w", roster.ErrInsufficientPrivilege, portalErr)
	}
	return portalErr
}

func TestUploadResult_StaleCompletionNotRendered(t *testing.T) {
	model := loggedInModel(t, portal.RolePatient)
	model.view = ViewUpload

	if err := model.uploads.Select("first.jpg", []byte("first")); err != nil {
		t.Fatalf("Select: %v", err)
	}
	firstID, err := model.uploads.Begin(model.record)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := model.uploads.Select("second.jpg", []byte("second")); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if _, err := model.uploads.Begin(model.record); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	stale := &portal.AnalysisResult{Message: "stale"}
	updated, _ := model.Update(uploadResultMsg{attemptID: firstID, result: stale})
	got := asModel(t, updated)
	attempt := got.uploads.Current()
	if attempt.Result == stale {
		t.Error("stale result attached to the current attempt")
	}
	if attempt.FileName != "second.jpg" {
		t.Errorf("current attempt = %q, want second.jpg", attempt.FileName)
	}
}

func TestHandleRegisterResult_RoutesToLogin(t *testing.T) {
	t.Run("patient", func(t *testing.T) {
		model := newTestModel(t)
		model.view = ViewSignup
		updated, _ := model.Update(registerResultMsg{doctor: false})
		got := asModel(t, updated)
		if got.view != ViewLogin {
			t.Errorf("view = %v, want login", got.view)
		}
		if got.notice.text != "Account created. Please log in." {
			t.Errorf("notice = %q", got.notice.text)
		}
		if got.record != nil {
			t.Error("registration logged the user in")
		}
	})

	t.Run("doctor shows server message", func(t *testing.T) {
		model := newTestModel(t)
		model.view = ViewSignup
		updated, _ := model.Update(registerResultMsg{doctor: true, message: "Pending admin approval"})
		got := asModel(t, updated)
		if got.view != ViewLogin {
			t.Errorf("view = %v, want login", got.view)
		}
		if got.notice.text != "Pending admin approval" {
			t.Errorf("notice = %q", got.notice.text)
		}
	})
}
