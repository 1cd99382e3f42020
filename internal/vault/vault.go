// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vault persists notes and binary files under an output root.
// Every write goes to a temporary file first and is renamed into place, so
// an interrupted run never leaves a partial file.
package vault

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const markdownExt = ".md"

// ErrNoRoot is returned by New when no output root is given.
var ErrNoRoot = errors.New("no output folder chosen")

// ErrOutsideRoot is returned for paths that escape the output root.
var ErrOutsideRoot = errors.New("path escapes output folder")

// Folder is a directory inside the vault, relative to its root.
type Folder struct {
	Path string
}

// FS is a vault backed by a directory of an afero filesystem.
type FS struct {
	fs   afero.Fs
	root string
}

// New returns a vault rooted at root on the local disk, creating the
// directory if needed.
func New(root string) (*FS, error) {
	return NewWithFs(afero.NewOsFs(), root)
}

// NewWithFs returns a vault rooted at root on fs.
func NewWithFs(fs afero.Fs, root string) (*FS, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrNoRoot
	}
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating output folder %s: %w", root, err)
	}
	return &FS{fs: fs, root: root}, nil
}

// Root returns the vault's root directory.
func (v *FS) Root() string {
	return v.root
}

// CreateFolders creates path, and any missing parents, under the root.
func (v *FS) CreateFolders(path string) (Folder, error) {
	abs, err := v.resolve(path)
	if err != nil {
		return Folder{}, err
	}
	if err := v.fs.MkdirAll(abs, 0o755); err != nil {
		return Folder{}, fmt.Errorf("creating folder %s: %w", path, err)
	}
	return Folder{Path: filepath.ToSlash(filepath.Clean(path))}, nil
}

// SaveMarkdown writes content to <folder>/<name>.md, replacing any
// existing note of that name.
func (v *FS) SaveMarkdown(folder Folder, name, content string) error {
	abs, err := v.resolve(filepath.Join(folder.Path, name+markdownExt))
	if err != nil {
		return err
	}
	if err := v.writeAtomic(abs, []byte(content)); err != nil {
		return fmt.Errorf("saving note %s: %w", name, err)
	}
	return nil
}

// CreateBinary writes data to path under the root, creating parent folders.
func (v *FS) CreateBinary(path string, data []byte) error {
	abs, err := v.resolve(path)
	if err != nil {
		return err
	}
	if err := v.fs.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("creating folder for %s: %w", path, err)
	}
	if err := v.writeAtomic(abs, data); err != nil {
		return fmt.Errorf("saving file %s: %w", path, err)
	}
	return nil
}

// resolve maps a vault-relative path to an absolute one inside the root.
func (v *FS) resolve(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	abs := filepath.Join(v.root, rel)
	check, err := filepath.Rel(v.root, abs)
	if err != nil || check == ".." || strings.HasPrefix(check, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return abs, nil
}

// writeAtomic writes data to a temp file beside dest and renames it.
func (v *FS) writeAtomic(dest string, data []byte) error {
	tmpFile, err := afero.TempFile(v.fs, filepath.Dir(dest), ".trello2md-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		v.fs.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		v.fs.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := v.fs.Chmod(tmpPath, 0o644); err != nil {
		v.fs.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := v.fs.Rename(tmpPath, dest); err != nil {
		v.fs.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
