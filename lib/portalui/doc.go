// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package portalui is the full-screen terminal interface for the
// dermatology portal: login and signup forms, the image-analysis
// workflow with structured result rendering, upload history, and the
// admin console for reviewing pending doctor accounts.
//
// The interface is a bubbletea program. All state transitions run on
// the single update loop; network calls run as commands and deliver
// their outcome back as messages, so a superseded operation can be
// recognized and discarded when its message arrives.
package portalui
