// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so scripts driving the CLI
// can make programmatic decisions (retry, fix input, re-authenticate)
// without parsing error message text. The category selects the exit
// code.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing required arguments, bad field values, an unsupported
	// file format. The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryAuth indicates no valid session: not logged in, or the
	// stored token was rejected with 401. The caller should run
	// `dermassist login`.
	CategoryAuth ErrorCategory = "auth"

	// CategoryForbidden indicates the session is valid but the
	// account's role lacks permission (403). Retrying will not help.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryNotFound indicates a referenced resource does not
	// exist: unknown image ID, unknown doctor ID.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryTransient indicates a temporary failure: network error,
	// timeout, server overload. The caller should back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures, malformed data the system produced.
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps categories to process exit codes. 1 is reserved for
// uncategorized errors.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryAuth:       3,
	CategoryForbidden:  4,
	CategoryNotFound:   5,
	CategoryTransient:  6,
	CategoryInternal:   7,
}

// ToolError is a categorized error returned by CLI commands. It wraps
// an inner error, preserving the full chain for errors.Is/As while
// adding the category for exit-code selection.
//
// Use the category-specific constructors (Validation, Auth, etc.)
// rather than constructing ToolError directly.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category is not
// included in the string; it surfaces through the exit code.
func (e *ToolError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the ToolError wrapper.
func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for this error's category.
func (e *ToolError) ExitCode() int {
	if code, ok := exitCodes[e.Category]; ok {
		return code
	}
	return 1
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Auth creates an authentication error: no valid session.
func Auth(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryAuth, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the account's role lacks permission.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
