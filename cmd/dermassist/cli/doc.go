// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command tree, flag handling, and error
// categorization for the dermassist command line.
package cli
