// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package access maps the current session to UI capabilities. Every
// check is a pure, synchronous function of the session record — no
// network, no mutation. Denial is a normal outcome, not an error: the
// caller uses the reason to decide between prompting for login and
// hiding the affordance.
package access

import (
	"github.com/dermassist/dermassist/lib/session"
	"github.com/dermassist/dermassist/portal"
)

// Capability is a UI action gated by the session's role.
type Capability int

const (
	// ViewAdminConsole gates the admin roster view.
	ViewAdminConsole Capability = iota
	// UploadImage gates image analysis. Any authenticated role may
	// upload.
	UploadImage
	// ActOnPendingDoctor gates approve/reject mutations. Checked
	// again at every mutation entry point, not just when the view
	// opens.
	ActOnPendingDoctor
)

// Reason explains a denial.
type Reason int

const (
	// ReasonAllowed means the capability is granted.
	ReasonAllowed Reason = iota
	// ReasonLoginRequired means no session exists; prompt for
	// authentication rather than attempting the action.
	ReasonLoginRequired
	// ReasonRoleDenied means the session is valid but the role does
	// not carry the capability.
	ReasonRoleDenied
)

// Decision is the outcome of a capability check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var (
	allowed       = Decision{Allowed: true, Reason: ReasonAllowed}
	loginRequired = Decision{Reason: ReasonLoginRequired}
	roleDenied    = Decision{Reason: ReasonRoleDenied}
)

// Check evaluates one capability against the session record (nil means
// logged out). Role matching is exhaustive: an unknown role from a
// newer server grants nothing beyond what any authenticated session
// gets.
func Check(record *session.Record, capability Capability) Decision {
	if record == nil {
		return loginRequired
	}

	switch capability {
	case UploadImage:
		// Session present is sufficient, regardless of role.
		return allowed

	case ViewAdminConsole, ActOnPendingDoctor:
		switch record.Identity.Role {
		case portal.RoleAdmin:
			return allowed
		case portal.RolePatient, portal.RoleDoctor:
			return roleDenied
		default:
			return roleDenied
		}

	default:
		return roleDenied
	}
}

// Allowed is shorthand for Check(record, capability).Allowed.
func Allowed(record *session.Record, capability Capability) bool {
	return Check(record, capability).Allowed
}
