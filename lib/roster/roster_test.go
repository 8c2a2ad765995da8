// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dermassist/dermassist/portal"
)

// fakePortal is an in-memory backend serving the roster endpoints.
type fakePortal struct {
	mu      sync.Mutex
	users   []portal.Identity
	pending []portal.PendingDoctor

	// status forces every response to this code when non-zero.
	status int
}

func (f *fakePortal) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.status != 0 {
			w.WriteHeader(f.status)
			json.NewEncoder(w).Encode(map[string]string{"message": "denied"})
			return
		}

		switch r.URL.Path {
		case "/api/users/all":
			json.NewEncoder(w).Encode(f.users)
		case "/api/users/doctors/pending":
			json.NewEncoder(w).Encode(f.pending)
		case "/api/users/doctor/approve":
			var body struct {
				DoctorID portal.UserID         `json:"doctorId"`
				Status   portal.ApprovalStatus `json:"status"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			kept := f.pending[:0]
			for _, doctor := range f.pending {
				if doctor.ID == body.DoctorID {
					for i := range f.users {
						if f.users[i].ID == body.DoctorID {
							f.users[i].ApprovalStatus = body.Status
						}
					}
					continue
				}
				kept = append(kept, doctor)
			}
			f.pending = kept
			json.NewEncoder(w).Encode(map[string]string{"message": "updated"})
		default:
			http.NotFound(w, r)
		}
	})
}

func newTestController(t *testing.T, backend *fakePortal) *Controller {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := portal.NewClient(portal.ClientConfig{BaseURL: server.URL + "/api", Logger: logger})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	apiSession, err := client.SessionFromToken("tok-admin")
	if err != nil {
		t.Fatalf("SessionFromToken: %v", err)
	}
	t.Cleanup(func() { apiSession.Close() })
	return NewController(apiSession, logger)
}

func seededBackend() *fakePortal {
	return &fakePortal{
		users: []portal.Identity{
			{ID: 1, Name: "Root", Role: portal.RoleAdmin},
			{ID: 42, Name: "Dr. Who", Role: portal.RoleDoctor, ApprovalStatus: portal.ApprovalPending},
			{ID: 43, Name: "Dr. Strange", Role: portal.RoleDoctor, ApprovalStatus: portal.ApprovalPending},
		},
		pending: []portal.PendingDoctor{
			{ID: 42, Name: "Dr. Who", Email: "who@clinic.example", ApprovalStatus: portal.ApprovalPending},
			{ID: 43, Name: "Dr. Strange", Email: "strange@clinic.example", ApprovalStatus: portal.ApprovalPending},
		},
	}
}

func TestLoad_FetchesBothCollections(t *testing.T) {
	controller := newTestController(t, seededBackend())

	snapshot, err := controller.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snapshot.Users) != 3 {
		t.Errorf("users = %d, want 3", len(snapshot.Users))
	}
	if len(snapshot.PendingDoctors) != 2 {
		t.Errorf("pending = %d, want 2", len(snapshot.PendingDoctors))
	}
}

func TestSetDoctorStatus_ApproveRefetchesServerTruth(t *testing.T) {
	controller := newTestController(t, seededBackend())

	snapshot, err := controller.SetDoctorStatus(context.Background(), 42, portal.ApprovalApproved)
	if err != nil {
		t.Fatalf("SetDoctorStatus: %v", err)
	}

	for _, doctor := range snapshot.PendingDoctors {
		if doctor.ID == 42 {
			t.Error("approved doctor still in pending list")
		}
	}
	if len(snapshot.PendingDoctors) != 1 {
		t.Errorf("pending = %d, want 1", len(snapshot.PendingDoctors))
	}

	var found bool
	for _, user := range snapshot.Users {
		if user.ID == 42 {
			found = true
			if user.ApprovalStatus != portal.ApprovalApproved {
				t.Errorf("approval status = %q, want approved", user.ApprovalStatus)
			}
		}
	}
	if !found {
		t.Error("approved doctor missing from full roster")
	}
}

func TestSetDoctorStatus_Reject(t *testing.T) {
	controller := newTestController(t, seededBackend())

	snapshot, err := controller.SetDoctorStatus(context.Background(), 43, portal.ApprovalRejected)
	if err != nil {
		t.Fatalf("SetDoctorStatus: %v", err)
	}
	for _, doctor := range snapshot.PendingDoctors {
		if doctor.ID == 43 {
			t.Error("rejected doctor still in pending list")
		}
	}
}

func TestLoad_SessionExpired(t *testing.T) {
	controller := newTestController(t, &fakePortal{status: http.StatusUnauthorized})

	_, err := controller.Load(context.Background())
	if !IsSessionExpired(err) {
		t.Errorf("IsSessionExpired(%v) = false, want true", err)
	}
	if IsInsufficientPrivilege(err) {
		t.Error("401 misclassified as insufficient privilege")
	}
}

func TestLoad_InsufficientPrivilege(t *testing.T) {
	controller := newTestController(t, &fakePortal{status: http.StatusForbidden})

	_, err := controller.Load(context.Background())
	if !IsInsufficientPrivilege(err) {
		t.Errorf("IsInsufficientPrivilege(%v) = false, want true", err)
	}
	if IsSessionExpired(err) {
		t.Error("403 misclassified as session expired")
	}
}

func TestMessages(t *testing.T) {
	if got := SuccessMessage(portal.ApprovalApproved); got != "Doctor approved successfully" {
		t.Errorf("approve success = %q", got)
	}
	if got := SuccessMessage(portal.ApprovalRejected); got != "Doctor rejected successfully" {
		t.Errorf("reject success = %q", got)
	}

	expired := mapAuthError(&portal.Error{StatusCode: http.StatusUnauthorized})
	if got := FailureMessage(portal.ApprovalApproved, expired); got != "Session expired. Please log in again." {
		t.Errorf("expired failure = %q", got)
	}

	forbidden := mapAuthError(&portal.Error{StatusCode: http.StatusForbidden})
	if got := FailureMessage(portal.ApprovalApproved, forbidden); got != "Admin privileges required." {
		t.Errorf("forbidden failure = %q", got)
	}

	withMessage := &portal.Error{StatusCode: 409, Message: "Doctor already reviewed"}
	if got := FailureMessage(portal.ApprovalRejected, withMessage); got != "Failed to reject doctor: Doctor already reviewed" {
		t.Errorf("server-message failure = %q", got)
	}
}
