// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/transmem/pkg/types"
)

// FormatTable writes results as a human-readable table to w.
func FormatTable(results []types.ScoredEntry, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-6s  %-5s  %-36s  %-36s  %-5s  %s\n",
		"Rank", "Score", "Type", "Source", "Target", "Uses", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-6.2f  %-5s  %-36s  %-36s  %-5d  %s\n",
			i+1, r.Similarity, r.MatchType,
			truncate(r.SourceText, 36), truncate(r.TargetText, 36),
			r.UsageCount, r.ID)
		if r.Context != "" {
			fmt.Fprintf(w, "      context: %s\n", r.Context)
		}
	}

	exact := 0
	for _, r := range results {
		if r.MatchType == types.MatchExact {
			exact++
		}
	}
	fmt.Fprintf(w, "\n%d matches", len(results))
	if exact > 0 {
		fmt.Fprintf(w, " (%d exact)", exact)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(results []types.ScoredEntry, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// FormatSpans renders spans as plain text with matches wrapped in brackets.
func FormatSpans(spans []types.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.IsMatch {
			b.WriteString("[" + s.Text + "]")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max-3]) + "..."
}
