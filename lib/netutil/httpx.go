// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP response readers shared by the
// portal client. All JSON API reads are capped at MaxResponseSize so a
// misbehaving server cannot exhaust memory; analysis responses carrying
// base64 Grad-CAM rasters stay well under the cap.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
)

// MaxResponseSize caps API response body reads at 64 MB. Analysis
// responses with two base64-encoded explanation images are the largest
// payloads the portal returns, at a few megabytes each.
const MaxResponseSize int64 = 64 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads a bounded response body and JSON-decodes it
// into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}
