// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dermassist/dermassist/lib/netutil"
	"github.com/dermassist/dermassist/lib/secret"
)

// DefaultTimeout bounds every portal request. The upload endpoint runs
// model inference before responding, so the bound is generous; it
// exists so a dead backend cannot leave the client waiting forever.
const DefaultTimeout = 60 * time.Second

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the portal API root (e.g. "http://localhost:5001/api").
	BaseURL string
	// HTTPClient is used for all requests. If nil, a client with
	// DefaultTimeout is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is an unauthenticated portal client. It serves the endpoints
// that establish a session (login, registration); everything else goes
// through a Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a portal client for the given API root.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("portal: BaseURL is required")
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("portal: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("portal: BaseURL %q must be http or https", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Login authenticates with email and password. The password Buffer is
// read but not closed — the caller retains ownership. On success the
// server returns the identity and a bearer token; the caller decides
// whether to persist them.
func (c *Client) Login(ctx context.Context, email string, password *secret.Buffer) (*AuthResponse, error) {
	if email == "" {
		return nil, fmt.Errorf("portal: email is required for login")
	}
	if password == nil {
		return nil, fmt.Errorf("portal: password is required for login")
	}

	// The password becomes a heap string at the JSON boundary; the
	// copy lives only for the duration of the request.
	body, err := c.doJSON(ctx, http.MethodPost, "/users/login", nil, map[string]any{
		"email":    email,
		"password": password.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("portal: login failed: %w", err)
	}

	var response AuthResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("portal: parsing login response: %w", err)
	}
	if response.Token == "" {
		return nil, fmt.Errorf("portal: login response carried no token")
	}

	c.logger.Info("logged in to portal",
		"user_id", response.User.ID,
		"role", response.User.Role,
	)
	return &response, nil
}

// RegisterPatient creates a patient account. The server responds with
// a token, but registration does not log the user in — the caller
// routes to login and the token is discarded.
func (c *Client) RegisterPatient(ctx context.Context, name, email string, password *secret.Buffer) (*Identity, error) {
	if password == nil {
		return nil, fmt.Errorf("portal: password is required for registration")
	}

	body, err := c.doJSON(ctx, http.MethodPost, "/users/register", nil, map[string]any{
		"name":     name,
		"email":    email,
		"password": password.String(),
		"role":     string(RolePatient),
	})
	if err != nil {
		return nil, fmt.Errorf("portal: registration failed: %w", err)
	}

	var response AuthResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("portal: parsing register response: %w", err)
	}

	c.logger.Info("registered patient account", "user_id", response.User.ID)
	return &response.User, nil
}

// DoctorRegistration is the multipart payload for doctor signup. The
// degree certificate travels as binary content alongside the account
// fields.
type DoctorRegistration struct {
	Name     string
	Email    string
	Password *secret.Buffer
	// DegreeFilename is the certificate's original file name; its
	// extension has already passed client-side validation.
	DegreeFilename string
	// Degree is the certificate content.
	Degree []byte
}

// RegisterDoctor submits a doctor account for admin review. The
// created account is pending and cannot authenticate until approved;
// the returned message is the server's confirmation of that state.
func (c *Client) RegisterDoctor(ctx context.Context, registration DoctorRegistration) (string, error) {
	if registration.Password == nil {
		return "", fmt.Errorf("portal: password is required for registration")
	}
	if len(registration.Degree) == 0 {
		return "", fmt.Errorf("portal: degree certificate is required for doctor registration")
	}

	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	fields := map[string]string{
		"name":     registration.Name,
		"email":    registration.Email,
		"password": registration.Password.String(),
	}
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return "", fmt.Errorf("portal: encoding %s field: %w", field, err)
		}
	}
	part, err := writer.CreateFormFile("degree", registration.DegreeFilename)
	if err != nil {
		return "", fmt.Errorf("portal: encoding degree file: %w", err)
	}
	if _, err := part.Write(registration.Degree); err != nil {
		return "", fmt.Errorf("portal: encoding degree file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("portal: finalizing multipart payload: %w", err)
	}

	body, err := c.doRaw(ctx, http.MethodPost, "/users/doctor/register", nil, writer.FormDataContentType(), &payload)
	if err != nil {
		return "", fmt.Errorf("portal: doctor registration failed: %w", err)
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("portal: parsing doctor register response: %w", err)
	}

	c.logger.Info("submitted doctor registration", "email", registration.Email)
	return response.Message, nil
}

// SessionFromToken creates a Session from a stored bearer token. The
// token is moved into locked memory; this does not validate it — the
// first authenticated call fails if it is stale.
//
// The caller must call Close on the returned Session when done.
func (c *Client) SessionFromToken(token string) (*Session, error) {
	buffer, err := secret.NewFromString(token)
	if err != nil {
		return nil, fmt.Errorf("portal: protecting bearer token: %w", err)
	}
	return &Session{client: c, token: buffer}, nil
}

// AnonymousSession creates a Session that sends no Authorization
// header. Authenticated endpoints reject its calls with 401, which the
// caller maps to "authentication required".
func (c *Client) AnonymousSession() *Session {
	return &Session{client: c}
}

// doJSON performs a JSON request and returns the response body. On
// 2xx, returns the body. On any other status, returns a *Error built
// from the response's message field.
func (c *Client) doJSON(ctx context.Context, method, path string, token *secret.Buffer, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}
	contentType := ""
	if requestBody != nil {
		contentType = "application/json"
	}
	return c.doRaw(ctx, method, path, token, contentType, bodyReader)
}

// doRaw performs an HTTP request with an arbitrary body (multipart
// uploads use this directly).
func (c *Client) doRaw(ctx context.Context, method, path string, token *secret.Buffer, contentType string, body io.Reader) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if token != nil {
		request.Header.Set("Authorization", "Bearer "+token.String())
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// Error bodies carry a message field when the backend produced
	// them; proxies and crashes produce non-JSON bodies, which still
	// map to a *Error so the status code survives.
	portalErr := &Error{StatusCode: response.StatusCode}
	_ = json.Unmarshal(responseBody, portalErr)
	return responseBody, portalErr
}
