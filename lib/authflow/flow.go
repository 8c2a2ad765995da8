// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package authflow drives credential collection through to a persisted
// session or a reported failure. Every operation validates its fields
// client-side before touching the network; server rejections are
// surfaced with the server's own message where one exists.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dermassist/dermassist/lib/secret"
	"github.com/dermassist/dermassist/lib/session"
	"github.com/dermassist/dermassist/portal"
)

// ErrInvalidCredentials marks a login rejected by the server for bad
// email/password, as opposed to a transport or server failure. Check
// with errors.Is.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Flow orchestrates login and registration against the portal, writing
// the resulting session through the Store. One Flow serves the whole
// process; its operations are retry-safe and leave no partial state on
// failure.
type Flow struct {
	client *portal.Client
	store  *session.Store
	logger *slog.Logger
}

// New creates a Flow. logger may be nil, in which case slog.Default()
// is used.
func New(client *portal.Client, store *session.Store, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{client: client, store: store, logger: logger}
}

// Login validates the credentials, authenticates, and persists the
// session. On a server rejection the returned error wraps
// ErrInvalidCredentials; transport failures pass through unwrapped so
// the caller can offer a retry instead of a password prompt.
func (f *Flow) Login(ctx context.Context, email, password string) (*portal.Identity, error) {
	if validationErr := ValidateLogin(email, password); validationErr != nil {
		return nil, validationErr
	}

	passwordBuffer, err := secret.NewFromString(password)
	if err != nil {
		return nil, fmt.Errorf("authflow: protecting password: %w", err)
	}
	defer passwordBuffer.Close()

	response, err := f.client.Login(ctx, email, passwordBuffer)
	if err != nil {
		// 400/401 from the login endpoint means the credentials were
		// rejected; anything else is the server or network failing.
		if portal.IsAuthRequired(err) || portal.IsStatus(err, 400) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, err
	}

	if err := f.store.Save(response.User, response.Token); err != nil {
		return nil, fmt.Errorf("authflow: persisting session: %w", err)
	}

	f.logger.Info("session established", "user_id", response.User.ID, "role", response.User.Role)
	return &response.User, nil
}

// Logout clears the persisted session. Idempotent.
func (f *Flow) Logout() error {
	return f.store.Clear()
}

// RegisterPatient validates and submits a patient registration. On
// success the caller routes to the login view — registration does not
// log the user in, and the token in the server's response is
// discarded.
func (f *Flow) RegisterPatient(ctx context.Context, name, email, password string) error {
	if validationErr := ValidateRegistration(name, email, password, false, "", 0); validationErr != nil {
		return validationErr
	}

	passwordBuffer, err := secret.NewFromString(password)
	if err != nil {
		return fmt.Errorf("authflow: protecting password: %w", err)
	}
	defer passwordBuffer.Close()

	if _, err := f.client.RegisterPatient(ctx, name, email, passwordBuffer); err != nil {
		return err
	}
	return nil
}

// RegisterDoctor validates and submits a doctor registration with the
// degree certificate at degreePath. The created account is pending
// admin approval and cannot authenticate yet; the returned message is
// the confirmation to show the user — it must not be presented as a
// plain success.
func (f *Flow) RegisterDoctor(ctx context.Context, name, email, password, degreePath string) (string, error) {
	info, err := os.Stat(degreePath)
	var degreeSize int64
	degreeName := filepath.Base(degreePath)
	if err == nil {
		degreeSize = info.Size()
	} else {
		degreeName = ""
	}
	if validationErr := ValidateRegistration(name, email, password, true, degreeName, degreeSize); validationErr != nil {
		return "", validationErr
	}

	degree, err := os.ReadFile(degreePath)
	if err != nil {
		return "", fmt.Errorf("authflow: reading degree certificate: %w", err)
	}

	passwordBuffer, err := secret.NewFromString(password)
	if err != nil {
		return "", fmt.Errorf("authflow: protecting password: %w", err)
	}
	defer passwordBuffer.Close()

	message, err := f.client.RegisterDoctor(ctx, portal.DoctorRegistration{
		Name:           name,
		Email:          email,
		Password:       passwordBuffer,
		DegreeFilename: degreeName,
		Degree:         degree,
	})
	if err != nil {
		return "", err
	}
	if message == "" {
		message = "Doctor registration submitted. Your account is pending approval by an administrator."
	}
	return message, nil
}

// LoginFailureMessage maps a Login error to the message shown to the
// user, preferring the server's wording for credential rejections.
func LoginFailureMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	if errors.Is(err, ErrInvalidCredentials) {
		if serverMessage := portal.ServerMessage(err); serverMessage != "" {
			return serverMessage
		}
		return "Invalid email or password"
	}
	if serverMessage := portal.ServerMessage(err); serverMessage != "" {
		return serverMessage
	}
	return "Login failed. Please check your connection and try again."
}

// RegisterFailureMessage maps a registration error to the message
// shown to the user.
func RegisterFailureMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	if serverMessage := portal.ServerMessage(err); serverMessage != "" {
		return serverMessage
	}
	return "Registration failed. Please try again."
}
