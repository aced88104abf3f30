// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"sort"
	"strings"

	"github.com/pdiddy/transmem/pkg/types"
)

// minHighlightToken is the shortest query token that gets highlighted.
// Articles and pronouns of one or two letters light up too much text.
const minHighlightToken = 3

// interval is a half-open [start, end) range of positions.
type interval struct {
	start, end int
}

// Highlight splits text into spans, marking every case-insensitive,
// whole-word occurrence of a query token. Query tokens are separated by
// whitespace; tokens shorter than three characters are ignored. When no
// token is usable, or none occurs, the whole text comes back as a single
// unmatched span. The spans always concatenate back to text, byte for
// byte, even when text holds invalid UTF-8.
func Highlight(text, query string) []types.Span {
	tokens := highlightTokens(query)
	if len(tokens) == 0 {
		return []types.Span{{Text: text}}
	}

	runes, offsets := decodeText(text)
	lower := lowerRunes(runes)

	var found []interval
	for _, tok := range tokens {
		for from := 0; ; {
			i := indexRunes(lower, tok, from)
			if i < 0 {
				break
			}
			end := i + len(tok)
			if wordBoundary(runes, i-1) && wordBoundary(runes, end) {
				found = append(found, interval{start: i, end: end})
			}
			from = i + 1
		}
	}
	if len(found) == 0 {
		return []types.Span{{Text: text}}
	}

	return buildSpans(text, offsets, mergeRanges(found))
}

// highlightTokens returns the distinct lower-cased query tokens long
// enough to highlight.
func highlightTokens(query string) [][]rune {
	seen := make(map[string]bool)
	var tokens [][]rune
	for _, f := range strings.Fields(query) {
		tok := lowerRunes([]rune(f))
		key := string(tok)
		if len(tok) < minHighlightToken || seen[key] {
			continue
		}
		seen[key] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

// wordBoundary reports whether position i lies outside a word: before
// the start, past the end, or on a rune that is not a letter or digit.
func wordBoundary(runes []rune, i int) bool {
	if i < 0 || i >= len(runes) {
		return true
	}
	return !isWordRune(runes[i])
}

// mergeRanges sorts ranges and joins overlapping or touching ones.
func mergeRanges(ranges []interval) []interval {
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].start != ranges[j].start {
			return ranges[i].start < ranges[j].start
		}
		return ranges[i].end < ranges[j].end
	})

	merged := make([]interval, 0, len(ranges))
	current := ranges[0]
	for _, next := range ranges[1:] {
		if next.start <= current.end {
			if next.end > current.end {
				current.end = next.end
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// buildSpans cuts text at the byte offsets of the rune ranges in matches.
func buildSpans(text string, offsets []int, matches []interval) []types.Span {
	var spans []types.Span
	pos := 0
	for _, m := range matches {
		if m.start > pos {
			spans = append(spans, types.Span{Text: text[offsets[pos]:offsets[m.start]]})
		}
		spans = append(spans, types.Span{Text: text[offsets[m.start]:offsets[m.end]], IsMatch: true})
		pos = m.end
	}
	if last := len(offsets) - 1; pos < last {
		spans = append(spans, types.Span{Text: text[offsets[pos]:]})
	}
	return spans
}
