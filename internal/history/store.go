// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records import runs in a SQLite database: one row per
// run and one row per reported note, skip or failure.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/trello2md/pkg/types"
)

// Status is the outcome recorded for one entry.
type Status string

const (
	StatusImported Status = "imported"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			output_dir TEXT NOT NULL,
			include_archived INTEGER NOT NULL,
			download_attachments INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			source_file TEXT,
			board TEXT,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_run_id ON entries(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one import run in progress. Entries are tagged with the file and
// board most recently passed to SetBoard.
type Run struct {
	ID string

	store *Store
	file  string
	board string
}

// StartRun inserts a run row and returns its handle.
func (s *Store) StartRun(ctx context.Context, outputDir string, opts types.ImportOptions) (*Run, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, output_dir, include_archived, download_attachments)
		 VALUES (?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(timeLayout), outputDir, opts.IncludeArchived, opts.DownloadAttachments,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return &Run{ID: id, store: s}, nil
}

// SetBoard sets the source file and board for subsequent entries.
func (r *Run) SetBoard(file, board string) {
	r.file = file
	r.board = board
}

// Record appends one entry to the run.
func (r *Run) Record(ctx context.Context, status Status, name, reason string) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO entries (run_id, source_file, board, name, status, reason, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.file, r.board, name, string(status), reason, r.store.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording entry %s: %w", name, err)
	}
	return nil
}

// Finish stamps the run's finish time.
func (r *Run) Finish(ctx context.Context) error {
	_, err := r.store.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ? WHERE id = ?`,
		r.store.now().UTC().Format(timeLayout), r.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}
