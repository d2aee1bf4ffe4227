// Package adapter contains filesystem and infrastructure adapters for
// the refdata engine.
package adapter

import (
	"io"
	"os"
	"path/filepath"

	m "refdata.dev/internal/model"
)

// TreeFSAdapter abstracts the filesystem operations the staging and
// comparison logic relies on. It hides direct `os` access so the domain
// layer can be exercised against any directory layout.
//
//nolint:interfacebloat // A richer interface keeps tree logic decoupled from os/fs.
type TreeFSAdapter interface {
	// CopyTree recursively copies src into dst, skipping every entry
	// whose name matches the exclusion set. A matching directory is
	// skipped wholesale; its children are never visited.
	CopyTree(src, dst m.Path, excludes m.ExcludeSet) error

	// Walk traverses root depth-first, calling fn for every entry.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// ReadDir lists the entries of a directory.
	ReadDir(path m.Path) ([]os.DirEntry, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Rename moves an entry to a new path within the same tree.
	Rename(oldPath, newPath m.Path) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path m.Path) error

	// CreateTempDir creates a scratch directory for one staging run.
	CreateTempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// RemoveDir removes a single empty directory.
	RemoveDir(path m.Path) error
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It
// is defined here to avoid leaking the standard-library type directly
// into the domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalTreeFSAdapter is the concrete TreeFSAdapter backed by the local
// filesystem.
type LocalTreeFSAdapter struct{}

// NewLocalTreeFSAdapter constructs a LocalTreeFSAdapter ready to be
// wired into the workflow.
func NewLocalTreeFSAdapter() *LocalTreeFSAdapter {
	return &LocalTreeFSAdapter{}
}

// CopyTree recursively copies src into dst, honoring the exclusion set.
func (a *LocalTreeFSAdapter) CopyTree(src, dst m.Path, excludes m.ExcludeSet) error {
	return filepath.Walk(string(src), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(string(src), path)
		if err != nil {
			return err
		}

		if relPath != "." {
			excluded, err := excludes.Match(filepath.Base(path))
			if err != nil {
				return err
			}

			if excluded {
				if info.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}
		}

		targetPath := filepath.Join(string(dst), relPath)

		if info.IsDir() {
			return os.MkdirAll(targetPath, info.Mode())
		}

		return a.copyFile(path, targetPath, info.Mode())
	})
}

// copyFile copies a single file.
func (a *LocalTreeFSAdapter) copyFile(src, dst string, mode os.FileMode) error {
	// #nosec G304 - src is an internal staging path, not user input
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is an internal destination path, not user input
	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(dst, mode)
}

// Walk traverses root depth-first.
func (a *LocalTreeFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		return fn(path, info, err)
	})
}

// ReadDir lists the entries of a directory.
func (a *LocalTreeFSAdapter) ReadDir(path m.Path) ([]os.DirEntry, error) {
	return os.ReadDir(string(path))
}

// ReadFile loads file contents from disk.
func (a *LocalTreeFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalTreeFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalTreeFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Rename moves an entry to a new path.
func (a *LocalTreeFSAdapter) Rename(oldPath, newPath m.Path) error {
	return os.Rename(string(oldPath), string(newPath))
}

// MkdirAll creates a directory and any missing parents.
func (a *LocalTreeFSAdapter) MkdirAll(path m.Path) error {
	return os.MkdirAll(string(path), 0o750)
}

// CreateTempDir creates a scratch directory for one staging run.
func (a *LocalTreeFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalTreeFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// RemoveDir removes a single empty directory.
func (a *LocalTreeFSAdapter) RemoveDir(path m.Path) error {
	return os.Remove(string(path))
}
