// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

// Package resultcache is a content-addressed cache of analysis
// results. Entries are keyed by the BLAKE3 hash of the image bytes, so
// re-selecting a previously analyzed image can replay its result
// without a round trip to the model.
//
// Entries are CBOR-encoded and zstd-compressed — Grad-CAM results
// carry two base64 PNG rasters, and the base64 text compresses well.
// Any unreadable entry is a miss, never an error: the cache is an
// optimization, and the authoritative result always comes from the
// server.
package resultcache

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/dermassist/dermassist/portal"
)

// hashDomain keys the BLAKE3 hash so cache keys cannot collide with
// plain BLAKE3 digests of the same images computed elsewhere. The
// value is the ASCII domain name zero-padded to the 32-byte key size.
var hashDomain = [32]byte{
	'd', 'e', 'r', 'm', 'a', 's', 's', 'i', 's', 't', '.',
	'r', 'e', 's', 'u', 'l', 't', 'c', 'a', 'c', 'h', 'e',
}

// Cache stores one file per analyzed image under its hex key.
type Cache struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open creates the cache directory if needed and prepares the
// compressor.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("resultcache: creating cache directory: %w", err)
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("resultcache: initializing compressor: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("resultcache: initializing decompressor: %w", err)
	}
	return &Cache{dir: dir, encoder: encoder, decoder: decoder}, nil
}

// Key returns the hex cache key for an image.
func Key(image []byte) string {
	// NewKeyed fails only on a wrong key length, which the fixed-size
	// domain rules out.
	hasher, err := blake3.NewKeyed(hashDomain[:])
	if err != nil {
		panic("resultcache: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(image)
	digest := hasher.Sum(nil)
	return hex.EncodeToString(digest)
}

// Get returns the cached result for an image, or (nil, false) on any
// miss — including entries that fail to decompress or decode.
func (c *Cache) Get(image []byte) (*portal.AnalysisResult, bool) {
	compressed, err := os.ReadFile(filepath.Join(c.dir, Key(image)))
	if err != nil {
		return nil, false
	}
	plaintext, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false
	}
	var result portal.AnalysisResult
	if err := cbor.Unmarshal(plaintext, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Put stores an analysis result under the image's key, replacing any
// prior entry.
func (c *Cache) Put(image []byte, result *portal.AnalysisResult) error {
	plaintext, err := cbor.Marshal(result)
	if err != nil {
		return fmt.Errorf("resultcache: encoding result: %w", err)
	}
	compressed := c.encoder.EncodeAll(plaintext, nil)
	path := filepath.Join(c.dir, Key(image))
	if err := os.WriteFile(path, compressed, 0600); err != nil {
		return fmt.Errorf("resultcache: writing entry: %w", err)
	}
	return nil
}
