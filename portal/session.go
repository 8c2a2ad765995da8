// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/dermassist/dermassist/lib/secret"
)

// Session is an authenticated portal client. Every call attaches the
// bearer token; a nil token (AnonymousSession) sends the request
// unauthenticated and lets the server reject it with 401.
type Session struct {
	client *Client
	token  *secret.Buffer
}

// Close releases the token's locked memory. Idempotent; safe on
// anonymous sessions.
func (s *Session) Close() error {
	if s.token != nil {
		return s.token.Close()
	}
	return nil
}

// Authenticated reports whether the session carries a token.
func (s *Session) Authenticated() bool {
	return s.token != nil
}

// ListUsers fetches the full account roster. Admin only: 403 for any
// other role.
func (s *Session) ListUsers(ctx context.Context) ([]Identity, error) {
	body, err := s.client.doJSON(ctx, http.MethodGet, "/users/all", s.token, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: listing users: %w", err)
	}

	var users []Identity
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("portal: parsing user list: %w", err)
	}
	return users, nil
}

// PendingDoctors fetches the doctors awaiting approval. Admin only.
func (s *Session) PendingDoctors(ctx context.Context) ([]PendingDoctor, error) {
	body, err := s.client.doJSON(ctx, http.MethodGet, "/users/doctors/pending", s.token, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: listing pending doctors: %w", err)
	}

	var doctors []PendingDoctor
	if err := json.Unmarshal(body, &doctors); err != nil {
		return nil, fmt.Errorf("portal: parsing pending doctor list: %w", err)
	}
	return doctors, nil
}

// SetDoctorStatus approves or rejects a pending doctor. status must be
// a terminal ApprovalStatus. The server removes the doctor from the
// pending roster; the caller refetches both rosters rather than
// patching local state.
func (s *Session) SetDoctorStatus(ctx context.Context, doctorID UserID, status ApprovalStatus) error {
	if !status.Terminal() {
		return fmt.Errorf("portal: doctor status must be %q or %q, got %q",
			ApprovalApproved, ApprovalRejected, status)
	}

	_, err := s.client.doJSON(ctx, http.MethodPost, "/users/doctor/approve", s.token, map[string]any{
		"doctorId": doctorID,
		"status":   string(status),
	})
	if err != nil {
		return fmt.Errorf("portal: updating doctor %d to %s: %w", doctorID, status, err)
	}

	s.client.logger.Info("updated doctor status", "doctor_id", doctorID, "status", status)
	return nil
}

// UploadImage submits an image for analysis and returns the structured
// result. Features and Classification in the result are independently
// optional. The call blocks through model inference on the server; run
// it off the UI loop and bound it with the context.
func (s *Session) UploadImage(ctx context.Context, filename string, image []byte) (*AnalysisResult, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("portal: image content is empty")
	}

	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("portal: encoding image: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("portal: encoding image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("portal: finalizing multipart payload: %w", err)
	}

	body, err := s.client.doRaw(ctx, http.MethodPost, "/images/upload", s.token, writer.FormDataContentType(), &payload)
	if err != nil {
		return nil, fmt.Errorf("portal: upload failed: %w", err)
	}

	var result AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("portal: parsing analysis result: %w", err)
	}
	return &result, nil
}

// UserImages fetches the caller's upload history, newest first.
func (s *Session) UserImages(ctx context.Context) ([]ImageRecord, error) {
	body, err := s.client.doJSON(ctx, http.MethodGet, "/images/user/me", s.token, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: listing uploads: %w", err)
	}

	var records []ImageRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("portal: parsing upload history: %w", err)
	}
	return records, nil
}

// ImageByID fetches one upload record.
func (s *Session) ImageByID(ctx context.Context, id string) (*ImageRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("portal: image id is required")
	}
	body, err := s.client.doJSON(ctx, http.MethodGet, "/images/"+id, s.token, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: fetching image %s: %w", id, err)
	}

	var record ImageRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("portal: parsing image record: %w", err)
	}
	return &record, nil
}
