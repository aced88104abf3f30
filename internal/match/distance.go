// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match implements the translation memory lookup engine: edit
// distance, similarity scoring, ranking of a candidate corpus against a
// query, exact-match lookup, and the highlight/context helpers used to
// explain a match.
//
// All functions are pure. They read their inputs, allocate only local
// memory, and are safe to call from any number of goroutines.
package match

import (
	"github.com/hbollon/go-edlib"
)

// Distance returns the Levenshtein edit distance between a and b:
// insertions, deletions, and substitutions each cost 1. Comparison is
// case-sensitive and works on Unicode code points, not bytes.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	return edlib.LevenshteinDistance(a, b)
}
