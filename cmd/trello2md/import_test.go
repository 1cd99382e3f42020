// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCommand_Sample(t *testing.T) {
	out := filepath.Join(t.TempDir(), "vault")

	rootCmd.SetArgs([]string{"import", "--output", out, "--no-history", "testdata/sprint.json"})
	require.NoError(t, rootCmd.Execute())

	card, err := os.ReadFile(filepath.Join(out, "Sprint", "Fix bug.md"))
	require.NoError(t, err)
	assert.Equal(t, "---\n"+
		"tags: [Trello/Label/Bug, Trello/Label/red]\n"+
		"due: 2024-01-01\n"+
		"complete: false\n"+
		"---\n\n"+
		"## Description\n\ndetails\n\n## Attachments\n", string(card))

	notes, err := os.ReadFile(filepath.Join(out, "Sprint", "Write release notes.md"))
	require.NoError(t, err)
	assert.Contains(t, string(notes), "tags: [Trello/Label/green]\nstart: 2023-12-20\ndue: 2024-01-05\ncomplete: true\n")
	assert.Contains(t, string(notes), "- [Changelog](https://example.com/changelog)\n")
	assert.NotContains(t, string(notes), "notes.pdf")

	board, err := os.ReadFile(filepath.Join(out, "Sprint", "Sprint.md"))
	require.NoError(t, err)
	assert.Equal(t, "## Description\n\nQ1\n\n## Todo\n\n- [[Fix bug]]\n\n## Done\n\n- [[Write release notes]]\n", string(board))

	assert.NoFileExists(t, filepath.Join(out, "Sprint", "Old idea.md"))
	assert.NoDirExists(t, filepath.Join(out, "Sprint", "Attachments"))
}

func TestImportCommand_InMemory(t *testing.T) {
	export, err := os.ReadFile("testdata/sprint.json")
	require.NoError(t, err)

	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/exports/sprint.json", export, 0o644))

	saved := appFs
	appFs = mem
	t.Cleanup(func() { appFs = saved })

	rootCmd.SetArgs([]string{"import", "--output", "/vault", "--no-history", "/exports"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())

	board, err := afero.ReadFile(mem, "/vault/Sprint/Sprint.md")
	require.NoError(t, err)
	assert.Contains(t, string(board), "## Todo\n\n- [[Fix bug]]\n")

	exists, err := afero.Exists(mem, "/vault/Sprint/Fix bug.md")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = os.Stat("/vault")
	assert.True(t, os.IsNotExist(err), "nothing written to disk")
}
