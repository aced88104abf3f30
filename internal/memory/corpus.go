// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/transmem/pkg/types"
)

const selectEntries = `SELECT id, source_text, target_text, source_language, target_language,
	confidence, usage_count, created_at, updated_at, project_id, provider, verified, notes
	FROM entries`

// CorpusFilter narrows the entries handed to the matching engine. Empty
// fields do not filter.
type CorpusFilter struct {
	SourceLanguage string
	TargetLanguage string
	ProjectID      string
}

// where appends the filter's conditions and arguments.
func (f CorpusFilter) where(qb *strings.Builder, args []any) []any {
	qb.WriteString(` WHERE 1=1`)
	if lang := normalizeLang(f.SourceLanguage); lang != "" {
		qb.WriteString(` AND source_language = ?`)
		args = append(args, lang)
	}
	if lang := normalizeLang(f.TargetLanguage); lang != "" {
		qb.WriteString(` AND target_language = ?`)
		args = append(args, lang)
	}
	if f.ProjectID != "" {
		qb.WriteString(` AND project_id = ?`)
		args = append(args, f.ProjectID)
	}
	return args
}

// Corpus returns the stored entries matching filter, ordered by ID.
func (s *Store) Corpus(ctx context.Context, filter CorpusFilter) ([]types.TranslationEntry, error) {
	var qb strings.Builder
	qb.WriteString(selectEntries)
	args := filter.where(&qb, nil)
	qb.WriteString(` ORDER BY id`)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying corpus: %w", err)
	}
	defer rows.Close()

	var entries []types.TranslationEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	s.log.Debug("corpus loaded", "entries", len(entries),
		"source", filter.SourceLanguage, "target", filter.TargetLanguage, "project", filter.ProjectID)

	return entries, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (types.TranslationEntry, error) {
	var (
		e                types.TranslationEntry
		created, updated string
	)
	err := row.Scan(
		&e.ID, &e.SourceText, &e.TargetText, &e.SourceLanguage, &e.TargetLanguage,
		&e.Confidence, &e.UsageCount, &created, &updated,
		&e.ProjectID, &e.Provider, &e.Verified, &e.Notes,
	)
	if err != nil {
		return types.TranslationEntry{}, err
	}
	if e.CreatedAt, err = parseTime(created); err != nil {
		return types.TranslationEntry{}, fmt.Errorf("entry %s created_at: %w", e.ID, err)
	}
	if e.UpdatedAt, err = parseTime(updated); err != nil {
		return types.TranslationEntry{}, fmt.Errorf("entry %s updated_at: %w", e.ID, err)
	}
	return e, nil
}

// Stats summarizes the stored entries matching a filter.
type Stats struct {
	TotalEntries      int            `json:"total_entries" yaml:"total_entries"`
	VerifiedEntries   int            `json:"verified_entries" yaml:"verified_entries"`
	TotalUsage        int            `json:"total_usage" yaml:"total_usage"`
	AverageConfidence float64        `json:"average_confidence" yaml:"average_confidence"`
	ByProvider        map[string]int `json:"by_provider" yaml:"by_provider"`
	ByProject         map[string]int `json:"by_project" yaml:"by_project"`
}

// Stats computes totals, averages, and per-provider and per-project counts.
func (s *Store) Stats(ctx context.Context, filter CorpusFilter) (Stats, error) {
	var qb strings.Builder
	qb.WriteString(`SELECT count(*), coalesce(sum(verified), 0), coalesce(sum(usage_count), 0),
		coalesce(avg(confidence), 0) FROM entries`)
	args := filter.where(&qb, nil)

	st := Stats{ByProvider: map[string]int{}, ByProject: map[string]int{}}
	if err := s.db.QueryRowContext(ctx, qb.String(), args...).Scan(
		&st.TotalEntries, &st.VerifiedEntries, &st.TotalUsage, &st.AverageConfidence,
	); err != nil {
		return Stats{}, fmt.Errorf("computing totals: %w", err)
	}

	for column, counts := range map[string]map[string]int{
		"provider":   st.ByProvider,
		"project_id": st.ByProject,
	} {
		if err := s.groupCounts(ctx, column, filter, counts); err != nil {
			return Stats{}, err
		}
	}
	return st, nil
}

// groupCounts fills counts with the number of entries per value of column.
// column is always one of a fixed set of names, never user input.
func (s *Store) groupCounts(ctx context.Context, column string, filter CorpusFilter, counts map[string]int) error {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + column + `, count(*) FROM entries`)
	args := filter.where(&qb, nil)
	qb.WriteString(` GROUP BY ` + column)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return fmt.Errorf("counting by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("scanning %s count: %w", column, err)
		}
		if key == "" {
			key = "(none)"
		}
		counts[key] = n
	}
	return rows.Err()
}
