// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package roster keeps the admin's two server-backed collections — the
// full user list and the pending-doctor list — consistent under
// approve/reject mutations.
//
// The consistency policy is refetch-after-write: a successful mutation
// refetches both collections instead of patching them locally. That
// costs one extra round trip per admin action and eliminates every
// local/server divergence bug, including concurrent admins racing on
// the same doctor — whoever lands first wins server-side, and the
// refetch converges this view to the final state regardless of
// ordering.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dermassist/dermassist/portal"
)

// NoticeDuration is how long transient success/error banners stay
// visible before the UI clears them.
const NoticeDuration = 3 * time.Second

// Authorization failures on roster endpoints. The two cases route the
// user differently: an expired session goes back to login, an
// insufficient role gets denied and redirected.
var (
	// ErrSessionExpired maps a 401: the session is no longer valid.
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrInsufficientPrivilege maps a 403: the session is valid but
	// the account is not an admin.
	ErrInsufficientPrivilege = errors.New("admin privileges required")
)

// Snapshot is one consistent read of both collections.
type Snapshot struct {
	// Users is the full account roster, in server order.
	Users []portal.Identity
	// PendingDoctors are the doctors awaiting review, in server
	// order.
	PendingDoctors []portal.PendingDoctor
}

// Controller performs roster reads and doctor-status mutations over an
// admin session. The caller gates construction on the admin
// capability; the server enforces it regardless.
type Controller struct {
	session *portal.Session
	logger  *slog.Logger
}

// NewController creates a Controller over an authenticated session.
// logger may be nil.
func NewController(apiSession *portal.Session, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{session: apiSession, logger: logger}
}

// Load fetches both collections. 401 and 403 are translated to
// ErrSessionExpired and ErrInsufficientPrivilege so callers can route
// the user without inspecting status codes.
func (c *Controller) Load(ctx context.Context) (*Snapshot, error) {
	users, err := c.session.ListUsers(ctx)
	if err != nil {
		return nil, mapAuthError(err)
	}
	pending, err := c.session.PendingDoctors(ctx)
	if err != nil {
		return nil, mapAuthError(err)
	}
	return &Snapshot{Users: users, PendingDoctors: pending}, nil
}

// SetDoctorStatus approves or rejects a doctor, then refetches both
// collections. The returned snapshot is server truth after the
// mutation: the doctor is gone from the pending list and appears in
// the full roster with the terminal status.
func (c *Controller) SetDoctorStatus(ctx context.Context, doctorID portal.UserID, status portal.ApprovalStatus) (*Snapshot, error) {
	if err := c.session.SetDoctorStatus(ctx, doctorID, status); err != nil {
		return nil, mapAuthError(err)
	}

	snapshot, err := c.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("roster: refetch after doctor %d update: %w", doctorID, err)
	}
	c.logger.Info("doctor status updated", "doctor_id", doctorID, "status", status)
	return snapshot, nil
}

// SuccessMessage is the transient banner text for a completed
// mutation.
func SuccessMessage(status portal.ApprovalStatus) string {
	if status == portal.ApprovalRejected {
		return "Doctor rejected successfully"
	}
	return "Doctor approved successfully"
}

// FailureMessage is the transient banner text for a failed mutation.
func FailureMessage(status portal.ApprovalStatus, err error) string {
	if errors.Is(err, ErrSessionExpired) {
		return "Session expired. Please log in again."
	}
	if errors.Is(err, ErrInsufficientPrivilege) {
		return "Admin privileges required."
	}
	verb := "approve"
	if status == portal.ApprovalRejected {
		verb = "reject"
	}
	if serverMessage := portal.ServerMessage(err); serverMessage != "" {
		return fmt.Sprintf("Failed to %s doctor: %s", verb, serverMessage)
	}
	return fmt.Sprintf("Failed to %s doctor. Please try again.", verb)
}

// IsSessionExpired reports whether err stems from a 401 on a roster
// endpoint.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// IsInsufficientPrivilege reports whether err stems from a 403 on a
// roster endpoint. Unlike a 401 this does not invalidate the session.
func IsInsufficientPrivilege(err error) bool {
	return errors.Is(err, ErrInsufficientPrivilege)
}

// mapAuthError wraps 401/403 with the routing sentinels while keeping
// the original error (and its status code) in the chain.
func mapAuthError(err error) error {
	if portal.IsAuthRequired(err) {
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	if portal.IsForbidden(err) {
		return fmt.Errorf("%w: %w", ErrInsufficientPrivilege, err)
	}
	return err
}
