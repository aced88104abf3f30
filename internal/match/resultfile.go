// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transmem/pkg/types"
)

// ResultFile is the on-disk form of a search: the query, the options that
// ranked it, and the results. A saved search can be printed again without
// the memory it was run against.
type ResultFile struct {
	Query   string              `yaml:"query"`
	Options ResultFileOptions   `yaml:"options"`
	Results []types.ScoredEntry `yaml:"results"`
	Summary ResultSummary       `yaml:"summary"`
}

// ResultFileOptions records the ranking options in a serializable form.
type ResultFileOptions struct {
	Threshold    float64 `yaml:"threshold"`
	MaxResults   int     `yaml:"max_results"`
	PreferRecent bool    `yaml:"prefer_recent"`
	ProjectID    string  `yaml:"project_id,omitempty"`
	EditWeight   float64 `yaml:"edit_weight"`
	TokenWeight  float64 `yaml:"token_weight"`
}

// ResultSummary counts the saved results.
type ResultSummary struct {
	Total     int       `yaml:"total"`
	Exact     int       `yaml:"exact"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteResultFile saves a search and its results to a YAML file.
func WriteResultFile(path, query string, opts Options, results []types.ScoredEntry) error {
	w := opts.weights()
	rf := ResultFile{
		Query: query,
		Options: ResultFileOptions{
			Threshold:    opts.Threshold,
			MaxResults:   opts.MaxResults,
			PreferRecent: opts.PreferRecent,
			ProjectID:    opts.ProjectID,
			EditWeight:   w.Edit,
			TokenWeight:  w.Token,
		},
		Results: results,
		Summary: ResultSummary{
			Total:     len(results),
			Timestamp: time.Now().UTC(),
		},
	}
	for _, r := range results {
		if r.MatchType == types.MatchExact {
			rf.Summary.Exact++
		}
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result file: %w", err)
	}
	return nil
}

// ReadResultFile loads a previously saved search from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// ToOptions converts the stored options back into Options.
func (o ResultFileOptions) ToOptions() Options {
	opts := DefaultOptions()
	opts.Threshold = o.Threshold
	opts.MaxResults = o.MaxResults
	opts.PreferRecent = o.PreferRecent
	opts.ProjectID = o.ProjectID
	opts.Weights = Weights{Edit: o.EditWeight, Token: o.TokenWeight}
	return opts
}
