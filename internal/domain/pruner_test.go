package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refdata.dev/internal/adapter"
	m "refdata.dev/internal/model"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func mkdirAll(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o750))
}

func TestPrunerRemovesNestedEmptyDirs(t *testing.T) {
	fs := adapter.NewLocalTreeFSAdapter()
	pruner := NewPruner(fs)

	root := t.TempDir()
	mkdirAll(t, filepath.Join(root, "some", "where", "deep"))
	mkdirAll(t, filepath.Join(root, "some", "how"))
	writeFile(t, filepath.Join(root, "file.txt"), "Content\n")

	require.NoError(t, pruner.Prune(m.Path(root)))

	assert.NoDirExists(t, filepath.Join(root, "some"))
	assert.FileExists(t, filepath.Join(root, "file.txt"))
}

func TestPrunerStopsAtNonEmptyAncestor(t *testing.T) {
	fs := adapter.NewLocalTreeFSAdapter()
	pruner := NewPruner(fs)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep", "file.txt"), "x\n")
	mkdirAll(t, filepath.Join(root, "keep", "empty", "deeper"))

	require.NoError(t, pruner.Prune(m.Path(root)))

	assert.DirExists(t, filepath.Join(root, "keep"))
	assert.FileExists(t, filepath.Join(root, "keep", "file.txt"))
	assert.NoDirExists(t, filepath.Join(root, "keep", "empty"))
}

func TestPrunerNeverRemovesRoot(t *testing.T) {
	fs := adapter.NewLocalTreeFSAdapter()
	pruner := NewPruner(fs)

	root := t.TempDir()

	require.NoError(t, pruner.Prune(m.Path(root)))
	assert.DirExists(t, root)
}

func TestPrunerIsIdempotent(t *testing.T) {
	fs := adapter.NewLocalTreeFSAdapter()
	pruner := NewPruner(fs)

	root := t.TempDir()
	mkdirAll(t, filepath.Join(root, "a", "b"))
	writeFile(t, filepath.Join(root, "file.txt"), "x\n")

	require.NoError(t, pruner.Prune(m.Path(root)))
	require.NoError(t, pruner.Prune(m.Path(root)))

	assert.NoDirExists(t, filepath.Join(root, "a"))
	assert.FileExists(t, filepath.Join(root, "file.txt"))
}
