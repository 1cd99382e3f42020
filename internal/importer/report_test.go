// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/trello2md/internal/history"
	"github.com/pdiddy/trello2md/pkg/types"
)

type fakeRecorder struct {
	board   string
	entries []string
	err     error
}

func (f *fakeRecorder) SetBoard(file, board string) { f.board = file + ":" + board }

func (f *fakeRecorder) Record(_ context.Context, status history.Status, name, reason string) error {
	f.entries = append(f.entries, f.board+" "+string(status)+" "+name+" "+reason)
	return f.err
}

func TestConsoleReporter_Lines(t *testing.T) {
	var out bytes.Buffer
	rec := &fakeRecorder{}
	r := NewConsoleReporter(context.Background(), &out, rec, zerolog.Nop())

	r.StartBoard("s.json", "Sprint")
	r.ReportNoteSuccess("Fix bug")
	r.ReportSkipped("Old", "Archived card")
	r.ReportFailed("x.png", errors.New("HTTP 404"))

	assert.Equal(t, "imported: Fix bug\nskipped:  Old (Archived card)\nfailed:   x.png (HTTP 404)\n", out.String())
	assert.Equal(t, []string{
		"s.json:Sprint imported Fix bug ",
		"s.json:Sprint skipped Old Archived card",
		"s.json:Sprint failed x.png HTTP 404",
	}, rec.entries)
}

func TestConsoleReporter_RecorderErrorsLogged(t *testing.T) {
	var out, logs bytes.Buffer
	rec := &fakeRecorder{err: errors.New("database is locked")}
	r := NewConsoleReporter(context.Background(), &out, rec, zerolog.New(&logs))

	r.ReportNoteSuccess("n")
	assert.Contains(t, out.String(), "imported: n")
	assert.Contains(t, logs.String(), "database is locked")
}

func TestConsoleReporter_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewConsoleReporter(ctx, &bytes.Buffer{}, nil, zerolog.Nop())

	assert.False(t, r.IsCancelled())
	cancel()
	assert.True(t, r.IsCancelled())

	// Reports after cancellation still print without a recorder.
	r.ReportSkipped("a", "b")
}

func TestConsoleReporter_Summary(t *testing.T) {
	var out bytes.Buffer
	r := NewConsoleReporter(context.Background(), &out, nil, zerolog.Nop())

	r.Summary(BatchResult{Imported: 2, Failed: 1, Remaining: 1, Notes: 7, Skipped: 3, AttachmentsLost: 1, Cancelled: true})
	assert.Equal(t, "\nBatch summary: 2 imported, 1 failed (total: 4); 7 notes, 3 skipped\n"+
		"1 attachment(s) could not be saved\n"+
		"cancelled: 1 file(s) not processed\n", out.String())
}

func TestConsoleReporter_WithHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	run, err := store.StartRun(ctx, "/vault", types.ImportOptions{})
	require.NoError(t, err)

	rep := NewConsoleReporter(ctx, &bytes.Buffer{}, run, zerolog.Nop())
	imp := NewTrello(mapSource{"a.json": archiveJSON}, newMemVault(), rep, types.ImportOptions{})
	_, err = imp.Import(ctx, []string{"a.json"})
	require.NoError(t, err)

	entries, err := store.Entries(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, history.Entry{SourceFile: "a.json", Board: "Archive", Name: "Live", Status: history.StatusImported}, entries[0])
	assert.Equal(t, history.Entry{SourceFile: "a.json", Board: "Archive", Name: "Dead", Status: history.StatusSkipped, Reason: "Archived card"}, entries[1])
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.JSON", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))
	single := filepath.Join(dir, "notes.txt")

	files, err := ExpandInputs(nil, []string{single, dir, "missing.json"}, []string{".json"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		single,
		filepath.Join(dir, "a.JSON"),
		filepath.Join(dir, "b.json"),
		"missing.json",
	}, files)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x"}`), 0o644))

	text, err := FileSource{}.ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, text)

	_, err = FileSource{}.ReadText(path + ".missing")
	assert.Error(t, err)
}

func TestMemoryInputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/exports/sprint.json", []byte(sprintJSON), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/exports/readme.md", []byte("#"), 0o644))

	files, err := ExpandInputs(fs, []string{"/exports"}, []string{".json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/exports/sprint.json"}, files)

	text, err := FileSource{Fs: fs}.ReadText(files[0])
	require.NoError(t, err)
	assert.Equal(t, sprintJSON, text)
}
