// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptLine prints a prompt and reads one line from stdin.
func PromptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("cli: reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// PromptPassword reads a password without echoing when stdin is a
// terminal, and falls back to a plain line read when it is not (piped
// input, CI).
func PromptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return PromptLine(prompt)
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("cli: reading password: %w", err)
	}
	return string(password), nil
}
