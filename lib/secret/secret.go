// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds sensitive byte strings — passwords, bearer
// tokens — in memory that the Go runtime cannot move or copy.
//
// A Buffer is backed by an anonymous mmap region outside the Go heap.
// The region is mlock'd so it never reaches swap, and it is zeroed
// before being unmapped on Close. The garbage collector never sees the
// region, so no stale copies of the secret survive in freed heap
// memory.
package secret

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer is a fixed-size region of locked, off-heap memory holding one
// secret. Not safe to copy. Close releases the memory; reads after
// Close panic.
type Buffer struct {
	mu     sync.Mutex
	region []byte
	closed bool
}

// NewFromBytes copies source into a locked off-heap buffer and zeros
// source in place, so the caller's slice no longer holds the secret.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: empty source")
	}

	region, err := unix.Mmap(-1, 0, len(source),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap: %w", err)
	}
	if err := unix.Mlock(region); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: mlock: %w", err)
	}
	// Keep the secret out of core dumps. Best effort: older kernels
	// lack MADV_DONTDUMP, and the mlock above already covers swap.
	_ = unix.Madvise(region, unix.MADV_DONTDUMP)

	copy(region, source)
	Zero(source)

	return &Buffer{region: region}, nil
}

// NewFromString copies value into a locked buffer. The original string
// remains on the heap until collected; use this only when the secret
// already arrived as a string (flag values, JSON fields).
func NewFromString(value string) (*Buffer, error) {
	return NewFromBytes([]byte(value))
}

// Bytes returns the secret. The slice aliases the locked region — do
// not retain it past the Buffer's lifetime.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return b.region
}

// String returns a heap copy of the secret for API boundaries that
// demand a string. Prefer Bytes.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return string(b.region)
}

// Len returns the secret's length in bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.region)
}

// Close zeros, unlocks, and unmaps the region. Idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	Zero(b.region)
	var firstError error
	if err := unix.Munlock(b.region); err != nil {
		firstError = fmt.Errorf("secret: munlock: %w", err)
	}
	if err := unix.Munmap(b.region); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap: %w", err)
	}
	b.region = nil
	return firstError
}

// Zero overwrites data with zero bytes.
func Zero(data []byte) {
	for index := range data {
		data[index] = 0
	}
}

// ReadFromPath reads a secret from a file, trimming surrounding
// whitespace (files written by echo end with a newline). The plaintext
// read from disk is zeroed before returning.
func ReadFromPath(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret: %s is empty", path)
	}
	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	return buffer, err
}
