// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNewFromBytes_ZerosSource(t *testing.T) {
	source := []byte("hunter2-hunter2")
	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	if string(buffer.Bytes()) != "hunter2-hunter2" {
		t.Errorf("Bytes() = %q", buffer.Bytes())
	}
	if !bytes.Equal(source, make([]byte, len(source))) {
		t.Error("source slice still holds the secret")
	}
	if buffer.Len() != 15 {
		t.Errorf("Len() = %d, want 15", buffer.Len())
	}
}

func TestNewFromBytes_RejectsEmpty(t *testing.T) {
	if _, err := NewFromBytes(nil); err == nil {
		t.Error("empty source accepted")
	}
}

func TestNewFromString(t *testing.T) {
	buffer, err := NewFromString("tok-123")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	defer buffer.Close()
	if buffer.String() != "tok-123" {
		t.Errorf("String() = %q", buffer.String())
	}
}

func TestClose_IdempotentAndReadPanics(t *testing.T) {
	buffer, err := NewFromString("secret")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Bytes after Close did not panic")
		}
	}()
	buffer.Bytes()
}

func TestZero(t *testing.T) {
	data := []byte{1, 2, 3}
	Zero(data)
	if !bytes.Equal(data, []byte{0, 0, 0}) {
		t.Errorf("Zero left %v", data)
	}
}

func TestReadFromPath(t *testing.T) {
	directory := t.TempDir()

	t.Run("trims trailing newline", func(t *testing.T) {
		path := filepath.Join(directory, "token")
		if err := os.WriteFile(path, []byte("tok-abc\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		buffer, err := ReadFromPath(path)
		if err != nil {
			t.Fatalf("ReadFromPath: %v", err)
		}
		defer buffer.Close()
		if buffer.String() != "tok-abc" {
			t.Errorf("String() = %q, want tok-abc", buffer.String())
		}
	})

	t.Run("whitespace-only file is an error", func(t *testing.T) {
		path := filepath.Join(directory, "blank")
		if err := os.WriteFile(path, []byte("\n\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadFromPath(path); err == nil {
			t.Error("blank file accepted")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ReadFromPath(filepath.Join(directory, "absent")); err == nil {
			t.Error("missing file accepted")
		}
	})
}
