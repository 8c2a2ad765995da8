// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package access

import (
	"testing"

	"github.com/dermassist/dermassist/lib/session"
	"github.com/dermassist/dermassist/portal"
)

func recordWithRole(role portal.Role) *session.Record {
	return &session.Record{
		Identity: portal.Identity{ID: 1, Role: role},
		Token:    "tok",
	}
}

func TestCheck_Matrix(t *testing.T) {
	tests := []struct {
		name       string
		record     *session.Record
		capability Capability
		allowed    bool
		reason     Reason
	}{
		{"logged out upload", nil, UploadImage, false, ReasonLoginRequired},
		{"logged out admin view", nil, ViewAdminConsole, false, ReasonLoginRequired},
		{"logged out mutation", nil, ActOnPendingDoctor, false, ReasonLoginRequired},

		{"patient upload", recordWithRole(portal.RolePatient), UploadImage, true, ReasonAllowed},
		{"doctor upload", recordWithRole(portal.RoleDoctor), UploadImage, true, ReasonAllowed},
		{"admin upload", recordWithRole(portal.RoleAdmin), UploadImage, true, ReasonAllowed},

		{"patient admin view", recordWithRole(portal.RolePatient), ViewAdminConsole, false, ReasonRoleDenied},
		{"doctor admin view", recordWithRole(portal.RoleDoctor), ViewAdminConsole, false, ReasonRoleDenied},
		{"admin admin view", recordWithRole(portal.RoleAdmin), ViewAdminConsole, true, ReasonAllowed},

		{"patient mutation", recordWithRole(portal.RolePatient), ActOnPendingDoctor, false, ReasonRoleDenied},
		{"doctor mutation", recordWithRole(portal.RoleDoctor), ActOnPendingDoctor, false, ReasonRoleDenied},
		{"admin mutation", recordWithRole(portal.RoleAdmin), ActOnPendingDoctor, true, ReasonAllowed},

		// A role this client doesn't know gets nothing beyond what any
		// session gets.
		{"unknown role upload", recordWithRole("superuser"), UploadImage, true, ReasonAllowed},
		{"unknown role admin view", recordWithRole("superuser"), ViewAdminConsole, false, ReasonRoleDenied},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			decision := Check(test.record, test.capability)
			if decision.Allowed != test.allowed {
				t.Errorf("Allowed = %v, want %v", decision.Allowed, test.allowed)
			}
			if decision.Reason != test.reason {
				t.Errorf("Reason = %v, want %v", decision.Reason, test.reason)
			}
			if got := Allowed(test.record, test.capability); got != test.allowed {
				t.Errorf("Allowed() = %v, want %v", got, test.allowed)
			}
		})
	}
}
