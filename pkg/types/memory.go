// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MemoryFile is the on-disk YAML layout of a translation memory for one
// language pair. Files of this shape placed under the memory import
// directory are ingested into the store.
type MemoryFile struct {
	// Name is a human-readable label (e.g. "EN → IT").
	Name string `json:"name" yaml:"name"`

	// SourceLanguage applies to entries that leave their own tag empty.
	SourceLanguage string `json:"source_language" yaml:"source_language"`

	// TargetLanguage applies to entries that leave their own tag empty.
	TargetLanguage string `json:"target_language" yaml:"target_language"`

	// ProjectID applies to entries that leave their own project empty.
	ProjectID string `json:"project_id,omitempty" yaml:"project_id,omitempty"`

	Entries []TranslationEntry `json:"entries" yaml:"entries"`
}
