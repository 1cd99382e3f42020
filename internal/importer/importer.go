// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer runs a batch of export files through a format's
// transformer and persists the result through injected collaborators.
// Files are processed one at a time, each completely, in the order given.
package importer

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/rs/zerolog"

	"github.com/pdiddy/trello2md/internal/transform"
	"github.com/pdiddy/trello2md/internal/trello"
	"github.com/pdiddy/trello2md/internal/vault"
	"github.com/pdiddy/trello2md/pkg/types"
)

// ErrNoOutputTarget is returned before any file is read when the run has
// nowhere to write.
var ErrNoOutputTarget = errors.New("no output folder chosen")

// errNoFetcher is reported for uploads when downloads were requested but
// no fetcher is configured.
var errNoFetcher = errors.New("attachment downloads not configured")

// Source reads the text of one selected input file.
type Source interface {
	ReadText(file string) (string, error)
}

// Vault is the persistence target.
type Vault interface {
	CreateFolders(path string) (vault.Folder, error)
	SaveMarkdown(folder vault.Folder, name, content string) error
	CreateBinary(path string, data []byte) error
}

// Fetcher downloads attachment bytes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Reporter receives progress and answers cancellation polls.
type Reporter interface {
	IsCancelled() bool
	ReportNoteSuccess(name string)
	ReportSkipped(name, reason string)
	ReportFailed(name string, err error)
}

// BoardObserver is implemented by reporters that want to know which file
// and board the following reports belong to.
type BoardObserver interface {
	StartBoard(file, board string)
}

// Format is one importable source format.
type Format interface {
	// Name is the format's identifier, e.g. "trello".
	Name() string
	// Extensions lists the file extensions the format reads, with dot.
	Extensions() []string
	// Import processes files in order.
	Import(ctx context.Context, files []string) (BatchResult, error)
}

// BatchResult holds the outcome of one run.
type BatchResult struct {
	// Imported counts input files processed to completion.
	Imported int
	// Failed counts input files that could not be read, parsed or written.
	Failed int
	// Remaining counts input files left unprocessed after cancellation.
	Remaining int

	Notes           int
	Skipped         int
	AttachmentsLost int
	Cancelled       bool
}

// Total returns the number of input files handed to the run.
func (r BatchResult) Total() int {
	return r.Imported + r.Failed + r.Remaining
}

// HasFailures reports whether any input file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// TrelloImporter imports Trello board exports.
type TrelloImporter struct {
	source   Source
	vault    Vault
	fetcher  Fetcher
	reporter Reporter
	opts     types.ImportOptions
	log      zerolog.Logger
}

var _ Format = (*TrelloImporter)(nil)

// Option configures a TrelloImporter.
type Option func(*TrelloImporter)

// WithFetcher sets the attachment fetcher.
func WithFetcher(f Fetcher) Option {
	return func(t *TrelloImporter) { t.fetcher = f }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(t *TrelloImporter) { t.log = log }
}

// NewTrello creates a Trello importer. A nil vault makes every Import
// fail with ErrNoOutputTarget.
func NewTrello(src Source, v Vault, reporter Reporter, opts types.ImportOptions, options ...Option) *TrelloImporter {
	t := &TrelloImporter{
		source:   src,
		vault:    v,
		reporter: reporter,
		opts:     opts,
		log:      zerolog.Nop(),
	}
	for _, o := range options {
		o(t)
	}
	return t
}

func (t *TrelloImporter) Name() string { return "trello" }

func (t *TrelloImporter) Extensions() []string { return []string{".json"} }

// Import processes files in order. A failing file is reported and the
// batch moves on; cancellation is polled before each file and ends the
// run without error.
func (t *TrelloImporter) Import(ctx context.Context, files []string) (BatchResult, error) {
	var result BatchResult
	if t.vault == nil {
		return result, ErrNoOutputTarget
	}

	for i, file := range files {
		if t.reporter.IsCancelled() {
			result.Cancelled = true
			result.Remaining = len(files) - i
			t.log.Info().Int("remaining", result.Remaining).Msg("import cancelled")
			break
		}

		if err := t.importFile(ctx, file, &result); err != nil {
			t.log.Error().Err(err).Str("file", file).Msg("import failed")
			t.reporter.ReportFailed(file, err)
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

func (t *TrelloImporter) importFile(ctx context.Context, file string, result *BatchResult) error {
	if obs, ok := t.reporter.(BoardObserver); ok {
		obs.StartBoard(file, "")
	}

	text, err := t.source.ReadText(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	board, err := trello.ParseString(text)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}

	plan, err := transform.Transform(board, t.opts)
	if err != nil {
		return err
	}

	if obs, ok := t.reporter.(BoardObserver); ok {
		obs.StartBoard(file, board.Name)
	}
	log := t.log.With().Str("file", file).Str("board", board.Name).Logger()
	for _, name := range plan.Collisions {
		log.Warn().Str("note", name).Msg("duplicate card name, later card overwrites earlier note")
	}

	folder, err := t.vault.CreateFolders(plan.Folder)
	if err != nil {
		return err
	}

	// A started file runs to completion; cancellation is only honoured
	// between files.
	fileCtx := context.WithoutCancel(ctx)

	for _, op := range plan.Ops {
		switch op.Kind {
		case transform.OpSkip:
			t.reporter.ReportSkipped(op.Name, op.Reason)
			result.Skipped++

		case transform.OpDownload:
			if err := t.download(fileCtx, folder, op); err != nil {
				log.Warn().Err(err).Str("card", op.Card).Str("attachment", op.Name).Msg("attachment not saved")
				t.reporter.ReportFailed(op.Name, err)
				result.AttachmentsLost++
			}

		case transform.OpWriteNote:
			if err := t.vault.SaveMarkdown(folder, op.Name, op.Content); err != nil {
				return err
			}
			t.reporter.ReportNoteSuccess(op.Name)
			result.Notes++
		}
	}

	log.Debug().Int("ops", len(plan.Ops)).Msg("board imported")
	return nil
}

func (t *TrelloImporter) download(ctx context.Context, folder vault.Folder, op transform.Op) error {
	if t.fetcher == nil {
		return errNoFetcher
	}
	data, err := t.fetcher.Fetch(ctx, op.URL)
	if err != nil {
		return fmt.Errorf("fetching attachment: %w", err)
	}
	return t.vault.CreateBinary(path.Join(folder.Path, op.Path), data)
}
