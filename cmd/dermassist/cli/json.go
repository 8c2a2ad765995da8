// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// PrintJSON writes value to stdout as indented JSON, for commands run
// with --json.
func PrintJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return Internal("encoding JSON output: %v", err)
	}
	fmt.Fprintln(os.Stdout, string(encoded))
	return nil
}
