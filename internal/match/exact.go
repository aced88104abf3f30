// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"sort"
	"strings"

	"github.com/pdiddy/transmem/pkg/types"
)

// ExactMatches returns every entry whose source text equals query,
// ignoring case. Each result has similarity 1 and match type exact.
// The most reused translations come first, ties ordered by ID.
func ExactMatches(query string, corpus []types.TranslationEntry) []types.ScoredEntry {
	lowerQuery := strings.ToLower(query)

	matches := []types.ScoredEntry{}
	for _, e := range corpus {
		if strings.ToLower(e.SourceText) != lowerQuery {
			continue
		}
		matches = append(matches, types.ScoredEntry{
			TranslationEntry: e,
			Similarity:       1,
			MatchType:        types.MatchExact,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].UsageCount != matches[j].UsageCount {
			return matches[i].UsageCount > matches[j].UsageCount
		}
		return matches[i].ID < matches[j].ID
	})
	return matches
}
