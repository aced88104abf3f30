// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transmem/pkg/types"
)

// ExportYAML writes the entries matching filter to dir/index/export.yaml
// as a memory file, which Ingest can load again. It returns the path written.
func (s *Store) ExportYAML(ctx context.Context, filter CorpusFilter) (string, error) {
	mf, err := s.exportFile(ctx, filter)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(mf)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dir, indexDir, "export.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ExportJSON writes the entries matching filter to dir/index/export.json.
// It returns the path written.
func (s *Store) ExportJSON(ctx context.Context, filter CorpusFilter) (string, error) {
	mf, err := s.exportFile(ctx, filter)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dir, indexDir, "export.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func (s *Store) exportFile(ctx context.Context, filter CorpusFilter) (*types.MemoryFile, error) {
	entries, err := s.Corpus(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if entries == nil {
		entries = []types.TranslationEntry{}
	}

	mf := &types.MemoryFile{
		SourceLanguage: normalizeLang(filter.SourceLanguage),
		TargetLanguage: normalizeLang(filter.TargetLanguage),
		ProjectID:      filter.ProjectID,
		Entries:        entries,
	}
	mf.Name = "export"
	if mf.SourceLanguage != "" && mf.TargetLanguage != "" {
		mf.Name = mf.SourceLanguage + " → " + mf.TargetLanguage
	}
	return mf, nil
}
