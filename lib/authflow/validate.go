// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package authflow

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxDegreeSize caps the degree certificate upload at 5 MB, matching
// the server's limit so oversized files fail before the network.
const MaxDegreeSize = 5 << 20

// degreeExtensions are the accepted certificate formats.
var degreeExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidationError reports the first failing field of a form. It is
// resolved locally — validation failures never reach the network.
type ValidationError struct {
	// Field is the form field that failed ("name", "email",
	// "password", "degree").
	Field string
	// Message is the user-facing explanation shown inline.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("authflow: %s: %s", e.Field, e.Message)
}

// EmailError validates email shape: a local part, an @, and a domain
// containing a dot, with no whitespace. Returns the inline message, or
// "" when valid. This is advisory — the server remains authoritative.
func EmailError(email string) string {
	if email == "" {
		return "Email is required"
	}
	if strings.ContainsAny(email, " \t\n") {
		return "Please enter a valid email address"
	}
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || domain == "" {
		return "Please enter a valid email address"
	}
	if strings.Contains(domain, "@") {
		return "Please enter a valid email address"
	}
	// The domain needs a dot with content on both sides: "a@b" is
	// rejected, "a@b.co" accepted.
	host, tld, found := strings.Cut(domain, ".")
	if !found || host == "" || tld == "" {
		return "Please enter a valid email address"
	}
	return ""
}

// PasswordError validates password length (≥6). Returns the inline
// message, or "" when valid.
func PasswordError(password string) string {
	if password == "" {
		return "Password is required"
	}
	if len(password) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

// NameError validates the account name (trimmed length ≥2). Returns
// the inline message, or "" when valid.
func NameError(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required"
	}
	if len(strings.TrimSpace(name)) < 2 {
		return "Name must be at least 2 characters"
	}
	return ""
}

// DegreeFileError validates the certificate file name and size.
// Returns the inline message, or "" when valid.
func DegreeFileError(filename string, size int64) string {
	if filename == "" {
		return "Please upload your degree certificate"
	}
	extension := strings.ToLower(filepath.Ext(filename))
	if !degreeExtensions[extension] {
		return "Accepted formats: PDF, JPG, JPEG, PNG"
	}
	if size > MaxDegreeSize {
		return "Degree certificate must be 5MB or smaller"
	}
	return ""
}

// ValidateLogin checks the login form, returning the first failing
// field or nil.
func ValidateLogin(email, password string) *ValidationError {
	if message := EmailError(email); message != "" {
		return &ValidationError{Field: "email", Message: message}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	return nil
}

// ValidateRegistration checks the signup form for the given role.
// degreeFilename and degreeSize are ignored for non-doctor roles: a
// patient form with a stray degree attachment is still valid, and the
// attachment is not submitted.
func ValidateRegistration(name, email, password string, doctor bool, degreeFilename string, degreeSize int64) *ValidationError {
	if message := NameError(name); message != "" {
		return &ValidationError{Field: "name", Message: message}
	}
	if message := EmailError(email); message != "" {
		return &ValidationError{Field: "email", Message: message}
	}
	if message := PasswordError(password); message != "" {
		return &ValidationError{Field: "password", Message: message}
	}
	if doctor {
		if message := DegreeFileError(degreeFilename, degreeSize); message != "" {
			return &ValidationError{Field: "degree", Message: message}
		}
	}
	return nil
}
