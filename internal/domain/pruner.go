// Package domain implements the reference-data engine: snapshot
// staging, path and content normalization, empty-directory pruning and
// reference comparison.
package domain

import (
	"os"
	"path/filepath"

	"refdata.dev/internal/adapter"
	m "refdata.dev/internal/model"
)

// Pruner removes directories left empty after exclusion filtering, so
// structurally-empty artifacts never reach the reference tree.
type Pruner struct {
	fs adapter.TreeFSAdapter
}

// NewPruner constructs a Pruner backed by the provided filesystem
// adapter.
func NewPruner(fs adapter.TreeFSAdapter) *Pruner {
	return &Pruner{fs: fs}
}

// Prune removes every directory under root that contains no files,
// directly or transitively. From each empty directory it walks upward,
// removing ancestors that become empty in turn, stopping at the first
// non-empty ancestor or at root. The root itself is never removed.
// Prune is idempotent.
func (p *Pruner) Prune(root m.Path) error {
	dirs, err := p.collectDirs(root)
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if err := p.pruneUpward(root, dir); err != nil {
			return err
		}
	}

	return nil
}

// collectDirs snapshots all directories below root before any removal
// happens.
func (p *Pruner) collectDirs(root m.Path) ([]m.Path, error) {
	var dirs []m.Path

	err := p.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && m.Path(path) != root {
			dirs = append(dirs, m.Path(path))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return dirs, nil
}

// pruneUpward removes dir if empty and continues with its parent until
// a non-empty ancestor or root is reached. Directories already removed
// by an earlier pass are skipped.
func (p *Pruner) pruneUpward(root, dir m.Path) error {
	for dir != root {
		entries, err := p.fs.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}

			return err
		}

		if len(entries) > 0 {
			return nil
		}

		if err := p.fs.RemoveDir(dir); err != nil {
			return err
		}

		dir = m.Path(filepath.Dir(string(dir)))
	}

	return nil
}
