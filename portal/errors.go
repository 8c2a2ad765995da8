// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured error response from the portal backend.
// Callers use errors.As to extract it:
//
//	var portalErr *portal.Error
//	if errors.As(err, &portalErr) && portalErr.StatusCode == http.StatusUnauthorized { ... }
type Error struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
	// Message is the server's human-readable message field. Empty
	// when the server returned a non-JSON body.
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portal: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("portal: %s (%d)", e.Message, e.StatusCode)
}

// IsStatus reports whether err is a *Error with the given HTTP status.
func IsStatus(err error, statusCode int) bool {
	var portalErr *Error
	return errors.As(err, &portalErr) && portalErr.StatusCode == statusCode
}

// IsAuthRequired reports whether err is a 401: the session is invalid
// or expired and the user must re-authenticate.
func IsAuthRequired(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is a 403: the session is valid but
// the account lacks the required role.
func IsForbidden(err error) bool {
	return IsStatus(err, http.StatusForbidden)
}

// ServerMessage returns the server-provided message from err, or the
// empty string when err carries none (transport failures, non-JSON
// bodies). Callers fall back to their own generic wording.
func ServerMessage(err error) string {
	var portalErr *Error
	if errors.As(err, &portalErr) {
		return portalErr.Message
	}
	return ""
}
