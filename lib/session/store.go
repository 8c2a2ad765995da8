// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package session persists the authenticated identity and its bearer
// token across runs of the client.
//
// The two fields are one record: they are written together, cleared
// together, and can never diverge on disk. The record is CBOR-encoded
// and age-encrypted to a per-machine X25519 identity generated on
// first save, so the bearer token never rests on disk in plaintext.
// A missing, truncated, or undecryptable session file degrades to "no
// session" rather than an error — the user simply logs in again.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"
	"github.com/fxamacker/cbor/v2"

	"github.com/dermassist/dermassist/portal"
)

const (
	sessionFileName = "session.age"
	keyFileName     = "machine-key"
)

// Record is the persisted session: who is logged in and the bearer
// credential proving it. The token has no client-side expiry; it is
// valid until the server invalidates it.
type Record struct {
	Identity portal.Identity `cbor:"identity"`
	Token    string          `cbor:"token"`
}

// Store owns the session file. All mutations go through Save and
// Clear, which serialize under a mutex — the last completed write is
// what Load returns, with no torn state between the two fields.
type Store struct {
	mu  sync.Mutex
	dir string

	subscribers []chan struct{}
}

// DefaultDir returns the session directory: $DERMASSIST_STATE_DIR if
// set, else ~/.config/dermassist.
func DefaultDir() string {
	if envDir := os.Getenv("DERMASSIST_STATE_DIR"); envDir != "" {
		return envDir
	}
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "dermassist")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "dermassist")
}

// Open creates a Store rooted at dir. The directory is created lazily
// on first save.
func Open(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the session file location, for user-facing messages.
func (s *Store) Path() string {
	return filepath.Join(s.dir, sessionFileName)
}

// Save persists identity and token as one atomic record, replacing any
// prior session, and notifies subscribers.
func (s *Store) Save(identity portal.Identity, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return fmt.Errorf("session: refusing to save a session without a token")
	}

	machineKey, err := s.loadOrCreateKey()
	if err != nil {
		return err
	}

	plaintext, err := cbor.Marshal(Record{Identity: identity, Token: token})
	if err != nil {
		return fmt.Errorf("session: encoding record: %w", err)
	}

	var sealed strings.Builder
	encryptWriter, err := age.Encrypt(&sealed, machineKey.Recipient())
	if err != nil {
		return fmt.Errorf("session: sealing record: %w", err)
	}
	if _, err := encryptWriter.Write(plaintext); err != nil {
		return fmt.Errorf("session: sealing record: %w", err)
	}
	if err := encryptWriter.Close(); err != nil {
		return fmt.Errorf("session: sealing record: %w", err)
	}

	// Write-then-rename so a crash mid-write leaves either the old
	// session or the new one, never a truncated file.
	path := s.Path()
	temp, err := os.CreateTemp(s.dir, sessionFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("session: creating temp file: %w", err)
	}
	tempPath := temp.Name()
	if err := temp.Chmod(0600); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("session: restricting temp file mode: %w", err)
	}
	if _, err := temp.WriteString(sealed.String()); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("session: writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("session: closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("session: replacing session file: %w", err)
	}

	s.notifyLocked()
	return nil
}

// Load reads the persisted session. Returns (nil, nil) when no session
// exists or the stored data is malformed — a corrupt session file is
// treated as logged out, never surfaced as an error.
func (s *Store) Load() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: reading session file: %w", err)
	}

	machineKey, err := s.loadKey()
	if err != nil || machineKey == nil {
		// A session file without its key is undecryptable garbage.
		return nil, nil
	}

	decryptReader, err := age.Decrypt(strings.NewReader(string(sealed)), machineKey)
	if err != nil {
		return nil, nil
	}
	plaintext, err := io.ReadAll(decryptReader)
	if err != nil {
		return nil, nil
	}

	var record Record
	if err := cbor.Unmarshal(plaintext, &record); err != nil {
		return nil, nil
	}
	if record.Token == "" {
		return nil, nil
	}
	return &record, nil
}

// Clear removes the persisted session and notifies subscribers.
// Idempotent: clearing an absent session succeeds. The machine key is
// kept so a later login reuses it.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: removing session file: %w", err)
	}
	s.notifyLocked()
	return nil
}

// Changes returns a channel that receives a signal after every Save or
// Clear. The channel has a buffer of one; coalesced notifications are
// fine because subscribers re-read the store rather than diffing
// events. Used by the UI to re-render instead of reloading wholesale.
func (s *Store) Changes() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel := make(chan struct{}, 1)
	s.subscribers = append(s.subscribers, channel)
	return channel
}

func (s *Store) notifyLocked() {
	for _, subscriber := range s.subscribers {
		select {
		case subscriber <- struct{}{}:
		default:
		}
	}
}

// loadKey reads the machine identity, or returns (nil, nil) when none
// exists yet.
func (s *Store) loadKey() (*age.X25519Identity, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, keyFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("session: reading machine key: %w", err)
	}
	identity, err := age.ParseX25519Identity(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("session: parsing machine key: %w", err)
	}
	return identity, nil
}

// loadOrCreateKey returns the machine identity, generating and
// persisting one (mode 0600) on first use.
func (s *Store) loadOrCreateKey() (*age.X25519Identity, error) {
	identity, err := s.loadKey()
	if err != nil {
		return nil, err
	}
	if identity != nil {
		return identity, nil
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return nil, fmt.Errorf("session: creating state directory: %w", err)
	}
	identity, err = age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("session: generating machine key: %w", err)
	}
	keyPath := filepath.Join(s.dir, keyFileName)
	if err := os.WriteFile(keyPath, []byte(identity.String()+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("session: writing machine key: %w", err)
	}
	return identity, nil
}
