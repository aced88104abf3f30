// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for transmem: translation
// memory entries, scored lookup results, highlight spans, and configuration.
package types

import "time"

// TranslationEntry is a stored source/target text pair with its metadata.
// The matching engine treats entries as read-only input; UsageCount and
// UpdatedAt are maintained by the memory store.
type TranslationEntry struct {
	// ID is an opaque identifier, unique within a corpus.
	ID string `json:"id" yaml:"id"`

	// SourceText is the text in the source language.
	SourceText string `json:"source_text" yaml:"source_text"`

	// TargetText is the stored translation.
	TargetText string `json:"target_text" yaml:"target_text"`

	// SourceLanguage is the language tag of SourceText (e.g. "en").
	SourceLanguage string `json:"source_language" yaml:"source_language"`

	// TargetLanguage is the language tag of TargetText (e.g. "it").
	TargetLanguage string `json:"target_language" yaml:"target_language"`

	// Confidence is a value between 0.0 and 1.0 describing translation quality.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// UsageCount is the number of times the entry has been reused.
	UsageCount int `json:"usage_count" yaml:"usage_count"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`

	// ProjectID optionally scopes the entry to one project. Empty means unscoped.
	ProjectID string `json:"project_id,omitempty" yaml:"project_id,omitempty"`

	// Provider records who produced the translation (e.g. "manual", "tmx_import").
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`

	// Verified marks translations reviewed by a person.
	Verified bool `json:"verified" yaml:"verified"`

	// Notes is free-form reviewer commentary.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// MatchType classifies how a scored entry relates to the query.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
)

// ScoredEntry is a TranslationEntry ranked against a query.
type ScoredEntry struct {
	TranslationEntry `yaml:",inline"`

	// Similarity is a value between 0.0 and 1.0; 1.0 means identical text.
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// MatchType is exact when the source text equals the query ignoring case.
	MatchType MatchType `json:"match_type" yaml:"match_type"`

	// Context is an excerpt of the source text around the query, when requested.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Span is one display segment of highlighted text. Concatenating the spans
// returned for a text, in order, yields the text unchanged.
type Span struct {
	Text    string `json:"text" yaml:"text"`
	IsMatch bool   `json:"is_match" yaml:"is_match"`
}
