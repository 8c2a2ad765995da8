// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"github.com/dermassist/dermassist/lib/roster"
	"github.com/dermassist/dermassist/portal"
)

// sessionChangedMsg signals that the session store was written or
// cleared. The model re-reads the store; there is no payload to diff.
type sessionChangedMsg struct{}

// loginResultMsg delivers the outcome of an asynchronous login.
type loginResultMsg struct {
	identity *portal.Identity
	err      error
}

// registerResultMsg delivers the outcome of a registration. message is
// the server's confirmation text for doctor signups (pending approval).
type registerResultMsg struct {
	doctor  bool
	message string
	err     error
}

// uploadResultMsg delivers the outcome of an image upload. attemptID
// identifies which attempt the network call belonged to; the upload
// controller discards it when the attempt was superseded.
type uploadResultMsg struct {
	attemptID int64
	result    *portal.AnalysisResult
	err       error
}

// rosterLoadedMsg delivers the admin roster snapshot.
type rosterLoadedMsg struct {
	snapshot *roster.Snapshot
	err      error
}

// mutationDoneMsg delivers the outcome of an approve/reject action,
// including the post-mutation refetch of both collections.
type mutationDoneMsg struct {
	status   portal.ApprovalStatus
	snapshot *roster.Snapshot
	err      error
}

// historyLoadedMsg delivers the caller's upload history.
type historyLoadedMsg struct {
	records []portal.ImageRecord
	err     error
}

// noticeFadeMsg clears the transient notice banner. generation guards
// against a stale fade clearing a newer notice.
type noticeFadeMsg struct {
	generation int
}
