// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pdiddy/transmem/pkg/types"
)

func TestFormatTable(t *testing.T) {
	results, err := Search("Hello world", greetingsCorpus(), testOpts(0.3, 10))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	FormatTable(results, &buf)
	out := buf.String()

	for _, want := range []string{"Rank", "Ciao mondo", "exact", "fuzzy", "3 matches (1 exact)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	if !strings.Contains(buf.String(), "No matches found.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	results := ExactMatches("hello world", greetingsCorpus())

	var buf bytes.Buffer
	if err := FormatJSON(results, &buf); err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("len = %d, want 1", len(decoded))
	}
	if decoded[0]["source_text"] != "Hello world" || decoded[0]["match_type"] != string(types.MatchExact) {
		t.Errorf("decoded = %v", decoded[0])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a very long line of dialogue", 10); got != "a very ..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("multi\nline", 20); got != "multi line" {
		t.Errorf("truncate = %q", got)
	}
}
