// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunSummary is one run with its entry counts.
type RunSummary struct {
	ID                  string    `json:"id"`
	StartedAt           time.Time `json:"started_at"`
	Finished            bool      `json:"finished"`
	OutputDir           string    `json:"output_dir"`
	IncludeArchived     bool      `json:"include_archived"`
	DownloadAttachments bool      `json:"download_attachments"`
	Imported            int       `json:"imported"`
	Skipped             int       `json:"skipped"`
	Failed              int       `json:"failed"`
}

// Entry is one recorded note, skip or failure.
type Entry struct {
	SourceFile string `json:"source_file"`
	Board      string `json:"board"`
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

const defaultRunLimit = 20

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started_at, r.finished_at, r.output_dir, r.include_archived, r.download_attachments,
			COALESCE(SUM(CASE WHEN e.status = 'imported' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN e.status = 'skipped' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN e.status = 'failed' THEN 1 ELSE 0 END), 0)
		 FROM runs r LEFT JOIN entries e ON e.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.started_at DESC, r.rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r        RunSummary
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.OutputDir,
			&r.IncludeArchived, &r.DownloadAttachments,
			&r.Imported, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		startedAt, err := time.Parse(timeLayout, started)
		if err != nil {
			return nil, fmt.Errorf("parsing start time of run %s: %w", r.ID, err)
		}
		r.StartedAt = startedAt
		r.Finished = finished.Valid
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Entries returns the entries of one run in recording order.
func (s *Store) Entries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(source_file, ''), COALESCE(board, ''), name, status, COALESCE(reason, '')
		 FROM entries WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status string
		if err := rows.Scan(&e.SourceFile, &e.Board, &e.Name, &status, &e.Reason); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Status = Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
