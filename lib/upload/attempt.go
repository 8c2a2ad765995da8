// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package upload models one image-analysis attempt as an explicit
// state machine: idle → selected → uploading → succeeded/failed.
//
// The Controller owns a single upload slot. Choosing a new file
// supersedes whatever attempt was in flight; the superseded network
// call is not cancelled, but its completion carries the old attempt ID
// and Complete discards it. Completions are matched by attempt
// identity, never by arrival order.
//
// The Controller is not safe for concurrent use: all transitions run
// on the UI's single update loop, with only the network call itself
// running elsewhere.
package upload

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/dermassist/dermassist/lib/access"
	"github.com/dermassist/dermassist/lib/session"
	"github.com/dermassist/dermassist/portal"
)

// Phase is the state of the current attempt.
type Phase int

const (
	// PhaseIdle means no file is selected.
	PhaseIdle Phase = iota
	// PhaseSelected means a file passed extension validation and
	// awaits an explicit submit.
	PhaseSelected
	// PhaseUploading means the network call is in flight.
	PhaseUploading
	// PhaseSucceeded means the analysis result arrived.
	PhaseSucceeded
	// PhaseFailed means the upload or analysis failed. The file
	// selection is retained so retry is one submit away.
	PhaseFailed
)

// String returns the phase name for logs and status lines.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelected:
		return "selected"
	case PhaseUploading:
		return "uploading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Sentinel errors returned by Select and Begin.
var (
	// ErrUnsupportedFormat rejects extensions outside jpg/jpeg/png.
	// The attempt never reaches the network.
	ErrUnsupportedFormat = errors.New("please upload an image with .jpg, .jpeg, or .png extension")
	// ErrLoginRequired means the upload capability is denied because
	// no session exists.
	ErrLoginRequired = errors.New("please login to upload images")
	// ErrNoSelection means Begin was called with no file selected.
	ErrNoSelection = errors.New("no image selected")
	// ErrUploadInFlight means Begin was called while an upload is
	// already running; choose a new file to supersede it instead.
	ErrUploadInFlight = errors.New("an upload is already in progress")
)

// imageExtensions are the formats the analysis model accepts.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// GenericFailureMessage is shown when the server provided no message.
const GenericFailureMessage = "Upload failed. Please try again."

// Attempt is a snapshot of the upload slot.
type Attempt struct {
	// ID increases monotonically with each selection. Completions
	// whose ID does not match the current attempt are stale and
	// ignored.
	ID int64

	FileName string
	Image    []byte
	Phase    Phase

	// Result holds the structured analysis on PhaseSucceeded. Its
	// Features and Classification are independently optional.
	Result *portal.AnalysisResult
	// ErrorMessage is the user-facing failure text on PhaseFailed.
	ErrorMessage string
}

// Controller owns the upload slot.
type Controller struct {
	current Attempt
	lastID  int64
}

// NewController returns a Controller in PhaseIdle.
func NewController() *Controller {
	return &Controller{}
}

// Current returns the attempt snapshot. The Image slice is shared, not
// copied; callers must not mutate it.
func (c *Controller) Current() Attempt {
	return c.current
}

// Select validates the file's extension and starts a fresh attempt,
// superseding any prior one (including one still uploading — its late
// completion will no longer match the current ID). An unsupported
// extension resets the slot to idle and returns ErrUnsupportedFormat.
func (c *Controller) Select(filename string, image []byte) error {
	extension := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[extension] {
		c.current = Attempt{}
		return ErrUnsupportedFormat
	}

	c.lastID++
	c.current = Attempt{
		ID:       c.lastID,
		FileName: filename,
		Image:    image,
		Phase:    PhaseSelected,
	}
	return nil
}

// Begin checks the upload capability and moves the attempt into
// PhaseUploading. The caller then runs the network call off the UI
// loop and reports back through Complete with the returned ID.
//
// A denied gate resets the slot to idle and returns ErrLoginRequired.
// Begin is valid from PhaseSelected and PhaseFailed (retry) — and from
// PhaseSucceeded, which re-submits the same file.
func (c *Controller) Begin(record *session.Record) (int64, error) {
	switch c.current.Phase {
	case PhaseIdle:
		return 0, ErrNoSelection
	case PhaseUploading:
		return 0, ErrUploadInFlight
	case PhaseSelected, PhaseFailed, PhaseSucceeded:
	}

	if decision := access.Check(record, access.UploadImage); !decision.Allowed {
		c.current = Attempt{}
		return 0, ErrLoginRequired
	}

	c.current.Phase = PhaseUploading
	c.current.Result = nil
	c.current.ErrorMessage = ""
	return c.current.ID, nil
}

// Complete delivers a network outcome for the given attempt. Returns
// false when the completion is stale — the attempt was superseded —
// in which case the slot is untouched.
//
// On failure the user-facing message prefers the server's message
// field and falls back to GenericFailureMessage; the file selection is
// retained so the user can retry without re-picking the file.
func (c *Controller) Complete(attemptID int64, result *portal.AnalysisResult, err error) bool {
	if attemptID != c.current.ID || c.current.Phase != PhaseUploading {
		return false
	}

	if err != nil {
		c.current.Phase = PhaseFailed
		if serverMessage := portal.ServerMessage(err); serverMessage != "" {
			c.current.ErrorMessage = serverMessage
		} else {
			c.current.ErrorMessage = GenericFailureMessage
		}
		return true
	}

	c.current.Phase = PhaseSucceeded
	c.current.Result = result
	return true
}

// Reset discards the current attempt and returns the slot to idle.
// Used when the view unmounts.
func (c *Controller) Reset() {
	c.current = Attempt{}
}
