// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pdiddy/trello2md/internal/history"
)

// Recorder persists report entries. *history.Run implements it.
type Recorder interface {
	SetBoard(file, board string)
	Record(ctx context.Context, status history.Status, name, reason string) error
}

// ConsoleReporter prints one status line per report and forwards each
// report to an optional Recorder. It is cancelled with its context.
type ConsoleReporter struct {
	ctx      context.Context
	w        io.Writer
	recorder Recorder
	log      zerolog.Logger
}

var (
	_ Reporter      = (*ConsoleReporter)(nil)
	_ BoardObserver = (*ConsoleReporter)(nil)
)

// NewConsoleReporter creates a reporter writing to w. recorder may be nil.
func NewConsoleReporter(ctx context.Context, w io.Writer, recorder Recorder, log zerolog.Logger) *ConsoleReporter {
	return &ConsoleReporter{ctx: ctx, w: w, recorder: recorder, log: log}
}

func (r *ConsoleReporter) IsCancelled() bool {
	return r.ctx.Err() != nil
}

func (r *ConsoleReporter) StartBoard(file, board string) {
	if r.recorder != nil {
		r.recorder.SetBoard(file, board)
	}
}

func (r *ConsoleReporter) ReportNoteSuccess(name string) {
	fmt.Fprintf(r.w, "imported: %s\n", name)
	r.record(history.StatusImported, name, "")
}

func (r *ConsoleReporter) ReportSkipped(name, reason string) {
	fmt.Fprintf(r.w, "skipped:  %s (%s)\n", name, reason)
	r.record(history.StatusSkipped, name, reason)
}

func (r *ConsoleReporter) ReportFailed(name string, err error) {
	fmt.Fprintf(r.w, "failed:   %s (%v)\n", name, err)
	r.record(history.StatusFailed, name, err.Error())
}

// Summary prints the closing batch line.
func (r *ConsoleReporter) Summary(result BatchResult) {
	fmt.Fprintf(r.w, "\nBatch summary: %d imported, %d failed (total: %d); %d notes, %d skipped\n",
		result.Imported, result.Failed, result.Total(), result.Notes, result.Skipped)
	if result.AttachmentsLost > 0 {
		fmt.Fprintf(r.w, "%d attachment(s) could not be saved\n", result.AttachmentsLost)
	}
	if result.Cancelled {
		fmt.Fprintf(r.w, "cancelled: %d file(s) not processed\n", result.Remaining)
	}
}

func (r *ConsoleReporter) record(status history.Status, name, reason string) {
	if r.recorder == nil {
		return
	}
	// History is best-effort; the cancelled run context must not drop entries.
	if err := r.recorder.Record(context.WithoutCancel(r.ctx), status, name, reason); err != nil {
		r.log.Warn().Err(err).Msg("history entry not recorded")
	}
}
