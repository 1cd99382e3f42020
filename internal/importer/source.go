// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FileSource reads input files from Fs, or from the local disk when Fs is nil.
type FileSource struct {
	Fs afero.Fs
}

func (s FileSource) ReadText(file string) (string, error) {
	data, err := afero.ReadFile(orOS(s.Fs), file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExpandInputs resolves command-line paths on fs to input files. Files are
// kept as given, in order; a directory contributes its direct entries whose
// extension is in exts, sorted by name.
func ExpandInputs(fs afero.Fs, paths []string, exts []string) ([]string, error) {
	fs = orOS(fs)

	var files []string
	for _, p := range paths {
		info, err := fs.Stat(p)
		if err != nil {
			// Unreadable paths are left to the importer to report per file.
			files = append(files, p)
			continue
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := afero.ReadDir(fs, p)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", p, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !hasExt(e.Name(), exts) {
				continue
			}
			found = append(found, filepath.Join(p, e.Name()))
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

func orOS(fs afero.Fs) afero.Fs {
	if fs == nil {
		return afero.NewOsFs()
	}
	return fs
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
