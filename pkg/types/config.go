// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MatchConfig holds settings for fuzzy lookup.
type MatchConfig struct {
	// Threshold is the minimum similarity kept in results (default 0.7).
	Threshold float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`

	// MaxResults caps the number of results returned (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// ContextRadius is the number of characters kept on each side of a
	// match in context excerpts (default 40).
	ContextRadius int `json:"context_radius" yaml:"context_radius" mapstructure:"context_radius"`

	// EditWeight and TokenWeight blend edit similarity with token-set
	// similarity. They must sum to 1 (defaults 0.6 and 0.4).
	EditWeight  float64 `json:"edit_weight" yaml:"edit_weight" mapstructure:"edit_weight"`
	TokenWeight float64 `json:"token_weight" yaml:"token_weight" mapstructure:"token_weight"`

	// Workers is the number of goroutines scoring corpus shards. Values
	// below 2 score the corpus on the calling goroutine.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// MemoryConfig holds settings for the translation memory store.
type MemoryConfig struct {
	// Dir is the base directory for the memory (contains import/, index/).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// Config groups all transmem settings as read from transmem.yaml.
type Config struct {
	Match  MatchConfig  `json:"match" yaml:"match" mapstructure:"match"`
	Memory MemoryConfig `json:"memory" yaml:"memory" mapstructure:"memory"`
}
