// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"sort"
	"strings"

	"github.com/pdiddy/transmem/pkg/types"
)

// Search ranks corpus against query and returns at most opts.MaxResults
// entries, most similar first. Options are validated before any scoring;
// an empty corpus or no entry above the threshold yields an empty slice.
//
// Ties in similarity go to the most recently updated entry when
// opts.PreferRecent is set, otherwise to the most used entry; the entry
// ID settles anything left.
func Search(query string, corpus []types.TranslationEntry, opts Options) ([]types.ScoredEntry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	scored := score(query, corpus, opts)
	return finish(query, scored, opts), nil
}

// score filters corpus by project and threshold and computes similarity.
// It copies each kept entry, so callers' entries are never touched.
func score(query string, corpus []types.TranslationEntry, opts Options) []types.ScoredEntry {
	w := opts.weights()
	lowerQuery := strings.ToLower(query)

	var scored []types.ScoredEntry
	for _, e := range corpus {
		if opts.ProjectID != "" && e.ProjectID != opts.ProjectID {
			continue
		}
		s := w.Similarity(query, e.SourceText)
		if s < opts.Threshold {
			continue
		}
		mt := types.MatchFuzzy
		if strings.ToLower(e.SourceText) == lowerQuery {
			mt = types.MatchExact
		}
		scored = append(scored, types.ScoredEntry{
			TranslationEntry: e,
			Similarity:       s,
			MatchType:        mt,
		})
	}
	return scored
}

// finish sorts, truncates, and attaches context excerpts.
func finish(query string, scored []types.ScoredEntry, opts Options) []types.ScoredEntry {
	sortScored(scored, opts.PreferRecent)

	if len(scored) > opts.MaxResults {
		scored = scored[:opts.MaxResults]
	}
	if scored == nil {
		scored = []types.ScoredEntry{}
	}

	if opts.IncludeContext {
		for i := range scored {
			// Radius was validated, so the error is always nil.
			scored[i].Context, _ = ExtractContext(scored[i].SourceText, query, opts.ContextRadius)
		}
	}
	return scored
}

func sortScored(scored []types.ScoredEntry, preferRecent bool) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if preferRecent {
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
		} else if a.UsageCount != b.UsageCount {
			return a.UsageCount > b.UsageCount
		}
		return a.ID < b.ID
	})
}
