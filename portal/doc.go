// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package portal is the HTTP client for the dermatology-assistance
// portal backend. It covers the full API surface the terminal client
// consumes: account registration (patient and doctor), login, the
// admin roster endpoints, and image upload with structured analysis
// results.
//
// Client is the unauthenticated entry point (register, login). Session
// wraps a bearer token for the authenticated endpoints; the token is
// held in a secret.Buffer (locked memory, zeroed on close). Server
// errors are returned as *Error carrying the HTTP status code and the
// server's message field, so callers can distinguish expired sessions
// (401) from insufficient privilege (403) with errors.As.
package portal
