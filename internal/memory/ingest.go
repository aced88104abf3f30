// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transmem/pkg/types"
)

// IngestSummary holds counts from a memory file ingest run.
type IngestSummary struct {
	Imported int
	Updated  int
	Skipped  int
	Failed   int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Imported + s.Updated + s.Skipped + s.Failed
}

// Ingest reads memory files (*.yaml, *.yml) from dir/import/ and loads
// their entries. A file whose modification time is unchanged since the
// last run is skipped; a changed file replaces every entry it loaded
// before. A file that reuses an entry ID loaded from another file fails
// and leaves the store unchanged. Progress is written to w.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	dir := filepath.Join(s.dir, importDir)
	files, err := os.ReadDir(dir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading import directory %s: %w", dir, err)
	}

	var summary IngestSummary

	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		info, err := f.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM import_status WHERE file = ?`, name,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		mf, err := readMemoryFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := s.ingestFile(ctx, name, mf, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d entries)\n", name, len(mf.Entries))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "imported %s (%d entries)\n", name, len(mf.Entries))
			summary.Imported++
		}
	}

	fmt.Fprintf(w, "\nimported: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Imported, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func readMemoryFile(path string) (*types.MemoryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var mf types.MemoryFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &mf, nil
}

func (s *Store) ingestFile(ctx context.Context, name string, mf *types.MemoryFile, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE source_file = ?`, name); err != nil {
		return fmt.Errorf("deleting old entries: %w", err)
	}

	for _, e := range mf.Entries {
		if e.SourceLanguage == "" {
			e.SourceLanguage = mf.SourceLanguage
		}
		if e.TargetLanguage == "" {
			e.TargetLanguage = mf.TargetLanguage
		}
		if e.ProjectID == "" {
			e.ProjectID = mf.ProjectID
		}
		e, err := s.normalize(e)
		if err != nil {
			return err
		}
		owner, found, err := lookupOwner(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		if found && owner != "" && owner != name {
			return fmt.Errorf("entry %s is already loaded from %s", e.ID, owner)
		}
		if err := upsertEntry(ctx, tx, e, name); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO import_status (file, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(file) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		name, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating import status: %w", err)
	}

	return tx.Commit()
}
