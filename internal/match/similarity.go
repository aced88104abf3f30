// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// weightTolerance bounds the rounding error accepted when checking that
// blend weights sum to one.
const weightTolerance = 1e-9

// Weights blends edit similarity with token-set similarity.
type Weights struct {
	// Edit weighs character-level similarity (small localization edits).
	Edit float64 `json:"edit" yaml:"edit"`

	// Token weighs word-set similarity (reordered multi-word phrases).
	Token float64 `json:"token" yaml:"token"`
}

// DefaultWeights is the blend used by EnhancedSimilarity.
var DefaultWeights = Weights{Edit: 0.6, Token: 0.4}

// IsZero reports whether no weight is set.
func (w Weights) IsZero() bool {
	return w.Edit == 0 && w.Token == 0
}

// Validate checks that both weights lie in [0,1] and sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Edit, w.Token} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: weight %v outside [0,1]", ErrInvalidConfiguration, v)
		}
	}
	if math.Abs(w.Edit+w.Token-1) > weightTolerance {
		return fmt.Errorf("%w: weights %v + %v do not sum to 1", ErrInvalidConfiguration, w.Edit, w.Token)
	}
	return nil
}

// Similarity returns the weighted blend of EditSimilarity and
// JaccardSimilarity for a and b, in [0,1]. Identical strings score
// exactly 1.
func (w Weights) Similarity(a, b string) float64 {
	edit := EditSimilarity(a, b)
	token := JaccardSimilarity(a, b)
	if edit == 1 && token == 1 {
		return 1
	}
	return clamp01(w.Edit*edit + w.Token*token)
}

// EnhancedSimilarity blends edit and token-set similarity with DefaultWeights.
func EnhancedSimilarity(a, b string) float64 {
	return DefaultWeights.Similarity(a, b)
}

// EditSimilarity normalizes the edit distance of the lower-cased inputs
// into [0,1]: 1 - distance/max(len(a), len(b)), lengths counted in code
// points. Two empty strings are identical (1); one empty string against a
// non-empty one shares nothing (0).
//
// Case is ignored on purpose: localized strings often differ only by
// capitalization.
func EditSimilarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	switch {
	case la == 0 && lb == 0:
		return 1
	case la == 0 || lb == 0:
		return 0
	}
	longest := max(la, lb)
	return clamp01(1 - float64(Distance(a, b))/float64(longest))
}

// JaccardSimilarity compares the lower-cased whitespace token sets of a
// and b: |A ∩ B| / |A ∪ B|. Duplicate tokens collapse and order is
// ignored. Two token-free inputs are identical (1).
func JaccardSimilarity(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}

	shared := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
