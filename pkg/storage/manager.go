package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Manager handles the download directory layout and on-disk verification
type Manager struct {
	fs      afero.Fs
	baseDir string
}

// NewManager creates a storage manager backed by the OS filesystem
func NewManager(baseDir string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), baseDir)
}

// NewManagerWithFs creates a storage manager on the given filesystem
func NewManagerWithFs(fs afero.Fs, baseDir string) *Manager {
	return &Manager{
		fs:      fs,
		baseDir: baseDir,
	}
}

// Fs returns the underlying filesystem
func (m *Manager) Fs() afero.Fs {
	return m.fs
}

// BaseDir returns the base download directory
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// DirFor derives the download directory for a search term and creates it.
// Terms that differ produce distinct directories; spaces become underscores.
func (m *Manager) DirFor(term string) (string, error) {
	if term == "" {
		return "", fmt.Errorf("search term cannot be empty")
	}

	dir := filepath.Join(m.baseDir, strings.ReplaceAll(term, " ", "_"))
	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	return dir, nil
}

// SafeFilename derives the on-disk name for a file page title: the "File:"
// prefix is stripped and spaces become underscores. Titles that would
// escape the download directory are rejected rather than rewritten.
func SafeFilename(title string) (string, error) {
	name := strings.TrimPrefix(title, "File:")
	name = strings.ReplaceAll(name, " ", "_")

	if name == "" {
		return "", fmt.Errorf("empty filename after sanitizing title %q", title)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("unsafe filename derived from title %q", title)
	}

	return name, nil
}

// FileSize returns the size of the file at path
func (m *Manager) FileSize(path string) (int64, error) {
	info, err := m.fs.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.Size(), nil
}

// Remove deletes the file at path if it exists
func (m *Manager) Remove(path string) error {
	if exists, _ := afero.Exists(m.fs, path); !exists {
		return nil
	}
	return m.fs.Remove(path)
}

// DiscardIfEmpty removes the file at path when it is zero bytes.
// Reports whether the file was discarded.
func (m *Manager) DiscardIfEmpty(path string) (bool, error) {
	size, err := m.FileSize(path)
	if err != nil {
		return false, err
	}
	if size > 0 {
		return false, nil
	}
	if err := m.fs.Remove(path); err != nil {
		return false, fmt.Errorf("failed to remove empty file: %w", err)
	}
	return true, nil
}
