// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching a filter pattern against one
// candidate string.
type FuzzyResult struct {
	// Matched is true when every pattern rune was found in order.
	Matched bool
	// Score ranks matches: higher is better. Only meaningful when
	// Matched.
	Score int
	// Positions are the rune indexes of the matched characters, for
	// highlighting. May be nil when position tracking was skipped.
	Positions []int
}

var fuzzyInitOnce sync.Once

// fuzzyMatch runs fzf's V2 matcher case-insensitively against a single
// candidate. The slab is scratch memory reused across calls; pass the
// same slab for a whole filter pass.
func fuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	fuzzyInitOnce.Do(func() {
		algo.Init("default")
	})

	if len(pattern) == 0 {
		return FuzzyResult{Matched: true}
	}

	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, pattern, true, slab)
	if result.Start < 0 {
		return FuzzyResult{}
	}
	out := FuzzyResult{Matched: true, Score: result.Score}
	if positions != nil {
		out.Positions = *positions
	}
	return out
}

// newFuzzySlab allocates the scratch memory fzf's matcher uses. Sized
// for roster-scale candidate strings.
func newFuzzySlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// filterPattern converts filter input to the rune pattern fzf expects:
// lowercased for case-insensitive matching.
func filterPattern(input string) []rune {
	return []rune(strings.ToLower(input))
}
