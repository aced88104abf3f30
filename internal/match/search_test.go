// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transmem/pkg/types"
)

// --- fixtures ---

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func greetingsCorpus() []types.TranslationEntry {
	return []types.TranslationEntry{
		{ID: "tm-1", SourceText: "Hello world", TargetText: "Ciao mondo", UsageCount: 5, UpdatedAt: baseTime},
		{ID: "tm-2", SourceText: "Hello there", TargetText: "Ciao a te", UsageCount: 3, UpdatedAt: baseTime},
		{ID: "tm-3", SourceText: "Goodbye world", TargetText: "Addio mondo", UsageCount: 2, UpdatedAt: baseTime},
	}
}

func testOpts(threshold float64, maxResults int) Options {
	opts := DefaultOptions()
	opts.Threshold = threshold
	opts.MaxResults = maxResults
	return opts
}

func assertSortedBySimilarity(t *testing.T, results []types.ScoredEntry) {
	t.Helper()
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Errorf("result %d similarity %v > result %d similarity %v",
				i, results[i].Similarity, i-1, results[i-1].Similarity)
		}
	}
}

// --- Search ---

func TestSearchRanksExactFirst(t *testing.T) {
	results, err := Search("Hello world", greetingsCorpus(), testOpts(0.3, 10))
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, 1.0, results[0].Similarity)
	assert.Equal(t, types.MatchExact, results[0].MatchType)
	assert.Equal(t, "tm-1", results[0].ID)
	assertSortedBySimilarity(t, results)

	for _, r := range results[1:] {
		assert.Equal(t, types.MatchFuzzy, r.MatchType)
	}
}

func TestSearchThreshold(t *testing.T) {
	results, err := Search("Hello world", greetingsCorpus(), testOpts(0.9, 10))
	require.NoError(t, err)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Similarity, 0.9)
	}
	assert.Len(t, results, 1)
}

func TestSearchMaxResults(t *testing.T) {
	results, err := Search("Hello world", greetingsCorpus(), testOpts(0.3, 1))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tm-1", results[0].ID)
}

func TestSearchProjectFilter(t *testing.T) {
	corpus := greetingsCorpus()
	corpus[0].ProjectID = "rpg"
	corpus[2].ProjectID = "rpg"
	corpus[1].ProjectID = "racer"

	opts := testOpts(0, 10)
	opts.ProjectID = "rpg"
	results, err := Search("Hello world", corpus, opts)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "rpg", r.ProjectID)
	}
}

func TestSearchCaseInsensitiveExact(t *testing.T) {
	results, err := Search("HELLO WORLD", greetingsCorpus(), testOpts(0.99, 10))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.MatchExact, results[0].MatchType)
	assert.Equal(t, 1.0, results[0].Similarity)
}

func TestSearchEmptyInputs(t *testing.T) {
	results, err := Search("Hello world", nil, DefaultOptions())
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	results, err = Search("zzzz qqqq", greetingsCorpus(), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchTieBreakUsage(t *testing.T) {
	corpus := []types.TranslationEntry{
		{ID: "b", SourceText: "Load game", UsageCount: 1},
		{ID: "c", SourceText: "load game", UsageCount: 9},
		{ID: "a", SourceText: "LOAD GAME", UsageCount: 1},
	}
	results, err := Search("load game", corpus, testOpts(0.5, 10))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"c", "a", "b"}, ids(results))
}

func TestSearchTieBreakRecent(t *testing.T) {
	corpus := []types.TranslationEntry{
		{ID: "old", SourceText: "Load game", UsageCount: 50, UpdatedAt: baseTime},
		{ID: "new", SourceText: "Load game", UsageCount: 1, UpdatedAt: baseTime.Add(48 * time.Hour)},
		{ID: "mid", SourceText: "Load game", UsageCount: 7, UpdatedAt: baseTime.Add(time.Hour)},
	}
	opts := testOpts(0.5, 10)
	opts.PreferRecent = true
	results, err := Search("Load game", corpus, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, ids(results))

	opts.PreferRecent = false
	results, err = Search("Load game", corpus, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "mid", "new"}, ids(results))
}

func TestSearchIncludeContext(t *testing.T) {
	corpus := []types.TranslationEntry{
		{ID: "long", SourceText: "Before you leave the village, say hello world to the elder who guards the gate"},
	}
	opts := testOpts(0, 10)
	opts.IncludeContext = true
	opts.ContextRadius = 5
	results, err := Search("hello world", corpus, opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Context, "hello world")
	assert.True(t, strings.HasPrefix(results[0].Context, "..."))
	assert.True(t, strings.HasSuffix(results[0].Context, "..."))

	opts.IncludeContext = false
	results, err = Search("hello world", corpus, opts)
	require.NoError(t, err)
	assert.Empty(t, results[0].Context)
}

func TestSearchDoesNotMutateCorpus(t *testing.T) {
	corpus := greetingsCorpus()
	before := greetingsCorpus()

	opts := testOpts(0, 10)
	opts.IncludeContext = true
	_, err := Search("Hello world", corpus, opts)
	require.NoError(t, err)
	assert.Equal(t, before, corpus)
}

func TestSearchDeterministic(t *testing.T) {
	first, err := Search("Hello world", greetingsCorpus(), testOpts(0, 10))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Search("Hello world", greetingsCorpus(), testOpts(0, 10))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSearchCustomWeights(t *testing.T) {
	corpus := []types.TranslationEntry{{ID: "r", SourceText: "world hello"}}
	opts := testOpts(0.99, 10)
	opts.Weights = Weights{Token: 1}
	results, err := Search("hello world", corpus, opts)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.MatchFuzzy, results[0].MatchType, "reordered text is not an exact match")
}

func TestSearchInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"threshold above one", func(o *Options) { o.Threshold = 1.5 }},
		{"negative threshold", func(o *Options) { o.Threshold = -0.1 }},
		{"NaN threshold", func(o *Options) { o.Threshold = math.NaN() }},
		{"zero max results", func(o *Options) { o.MaxResults = 0 }},
		{"negative max results", func(o *Options) { o.MaxResults = -3 }},
		{"negative radius", func(o *Options) { o.ContextRadius = -1 }},
		{"bad weights", func(o *Options) { o.Weights = Weights{Edit: 0.9, Token: 0.9} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			results, err := Search("Hello world", greetingsCorpus(), opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))
			assert.Nil(t, results)
		})
	}
}

// --- OptionsFromConfig ---

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(types.MatchConfig{
		Threshold: 0.5, MaxResults: 3, ContextRadius: 12, EditWeight: 0.8, TokenWeight: 0.2,
	})
	assert.Equal(t, 0.5, opts.Threshold)
	assert.Equal(t, 3, opts.MaxResults)
	assert.Equal(t, 12, opts.ContextRadius)
	assert.Equal(t, Weights{Edit: 0.8, Token: 0.2}, opts.Weights)
	require.NoError(t, opts.Validate())

	opts = OptionsFromConfig(types.MatchConfig{Threshold: 0, MaxResults: 1})
	assert.Equal(t, 0.0, opts.Threshold)
	assert.Equal(t, DefaultWeights, opts.weights())
	require.NoError(t, opts.Validate())
}

func TestOptionsFromConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.MatchConfig
	}{
		{"negative threshold", types.MatchConfig{Threshold: -0.5, MaxResults: 10, ContextRadius: 40}},
		{"threshold above one", types.MatchConfig{Threshold: 1.5, MaxResults: 10, ContextRadius: 40}},
		{"negative max results", types.MatchConfig{Threshold: 0.7, MaxResults: -3, ContextRadius: 40}},
		{"zero max results", types.MatchConfig{Threshold: 0.7, ContextRadius: 40}},
		{"negative context radius", types.MatchConfig{Threshold: 0.7, MaxResults: 10, ContextRadius: -2}},
		{"weights not summing to one", types.MatchConfig{Threshold: 0.7, MaxResults: 10, EditWeight: 0.5, TokenWeight: 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := OptionsFromConfig(tt.cfg)
			err := opts.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfiguration), "got %v", err)

			_, err = Search("Hello world", greetingsCorpus(), opts)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration), "got %v", err)
		})
	}
}

// --- ExactMatches ---

func TestExactMatches(t *testing.T) {
	corpus := []types.TranslationEntry{
		{ID: "x1", SourceText: "Hello world", UsageCount: 1},
		{ID: "x2", SourceText: "hello world", UsageCount: 4},
		{ID: "x3", SourceText: "Hello worlds", UsageCount: 10},
	}
	results := ExactMatches("Hello World", corpus)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"x2", "x1"}, ids(results))
	for _, r := range results {
		assert.Equal(t, 1.0, r.Similarity)
		assert.Equal(t, types.MatchExact, r.MatchType)
	}
}

func TestExactMatchesTieBreakByID(t *testing.T) {
	corpus := []types.TranslationEntry{
		{ID: "b", SourceText: "Quit"},
		{ID: "a", SourceText: "QUIT"},
	}
	assert.Equal(t, []string{"a", "b"}, ids(ExactMatches("quit", corpus)))
}

func TestExactMatchesNone(t *testing.T) {
	results := ExactMatches("No match", greetingsCorpus())
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func ids(results []types.ScoredEntry) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}
