// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package memory persists translation memory entries in SQLite and hands
// the matching engine a corpus pre-filtered by language pair and project.
// It is also the only place that records reuse of an entry.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/transmem/pkg/types"
)

const (
	defaultDir = "memory"
	importDir  = "import"
	indexDir   = "index"
	dbFile     = "memory.db"
)

// ErrNotFound reports a lookup of an entry ID that is not stored.
var ErrNotFound = errors.New("entry not found")

// Store manages the translation memory SQLite database.
type Store struct {
	db  *sql.DB
	dir string
	log *slog.Logger
	now func() time.Time
}

// NewStore opens or creates the memory database at dir/index/memory.db
// and makes sure dir/import exists. The schema is created on first open.
func NewStore(cfg types.MemoryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	for _, d := range []string{filepath.Join(dir, indexDir), filepath.Join(dir, importDir)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", d, err)
		}
	}

	dbPath := filepath.Join(dir, indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:  db,
		dir: dir,
		log: slog.Default().With("component", "memory"),
		now: time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	s.log.Debug("store opened", "path", dbPath)

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			source_text TEXT NOT NULL,
			target_text TEXT NOT NULL,
			source_language TEXT NOT NULL,
			target_language TEXT NOT NULL,
			confidence REAL NOT NULL DEFAULT 0,
			usage_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			project_id TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL DEFAULT '',
			verified INTEGER NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			source_file TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_pair ON entries(source_language, target_language)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_project ON entries(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_source_file ON entries(source_file)`,
		`CREATE TABLE IF NOT EXISTS import_status (
			file TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// rowQuerier is satisfied by *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// lookupOwner reports whether id is stored and, if so, the memory file it
// was loaded from ("" for entries added directly).
func lookupOwner(ctx context.Context, q rowQuerier, id string) (sourceFile string, found bool, err error) {
	err = q.QueryRowContext(ctx, `SELECT source_file FROM entries WHERE id = ?`, id).Scan(&sourceFile)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up entry %s: %w", id, err)
	}
	return sourceFile, true, nil
}

// Add upserts entries and returns their IDs in input order. Entries
// without an ID get a random UUID; zero timestamps are set to now and
// language tags are lower-cased.
func (s *Store) Add(ctx context.Context, entries ...types.TranslationEntry) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		e, err := s.normalize(e)
		if err != nil {
			return nil, err
		}
		if err := upsertEntry(ctx, tx, e, ""); err != nil {
			return nil, err
		}
		ids = append(ids, e.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing entries: %w", err)
	}
	return ids, nil
}

// normalize validates e and fills the fields the store owns.
func (s *Store) normalize(e types.TranslationEntry) (types.TranslationEntry, error) {
	e.SourceLanguage = normalizeLang(e.SourceLanguage)
	e.TargetLanguage = normalizeLang(e.TargetLanguage)

	switch {
	case strings.TrimSpace(e.SourceText) == "":
		return e, fmt.Errorf("entry %q: source text is empty", e.ID)
	case e.SourceLanguage == "" || e.TargetLanguage == "":
		return e, fmt.Errorf("entry %q: source and target language are required", e.ID)
	case e.Confidence < 0 || e.Confidence > 1:
		return e, fmt.Errorf("entry %q: confidence %v outside [0,1]", e.ID, e.Confidence)
	case e.UsageCount < 0:
		return e, fmt.Errorf("entry %q: usage count %d is negative", e.ID, e.UsageCount)
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	return e, nil
}

func normalizeLang(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func upsertEntry(ctx context.Context, ex execer, e types.TranslationEntry, sourceFile string) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO entries (id, source_text, target_text, source_language, target_language,
			confidence, usage_count, created_at, updated_at, project_id, provider, verified, notes, source_file)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_text=excluded.source_text, target_text=excluded.target_text,
			source_language=excluded.source_language, target_language=excluded.target_language,
			confidence=excluded.confidence, usage_count=excluded.usage_count,
			updated_at=excluded.updated_at, project_id=excluded.project_id,
			provider=excluded.provider, verified=excluded.verified, notes=excluded.notes,
			source_file=excluded.source_file`,
		e.ID, e.SourceText, e.TargetText, e.SourceLanguage, e.TargetLanguage,
		e.Confidence, e.UsageCount, formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
		e.ProjectID, e.Provider, e.Verified, e.Notes, sourceFile,
	)
	if err != nil {
		return fmt.Errorf("upserting entry %s: %w", e.ID, err)
	}
	return nil
}

// Get returns the entry with the given ID.
func (s *Store) Get(ctx context.Context, id string) (types.TranslationEntry, error) {
	row := s.db.QueryRowContext(ctx, selectEntries+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.TranslationEntry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return types.TranslationEntry{}, fmt.Errorf("looking up entry: %w", err)
	}
	return e, nil
}

// Delete removes the entry with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return requireAffected(res, id)
}

// RecordUsage marks the entry as reused at the given time: its usage
// count goes up by one and its update time moves to at.
func (s *Store) RecordUsage(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE entries SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?`,
		formatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
