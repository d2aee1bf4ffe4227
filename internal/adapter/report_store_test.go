package adapter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "refdata.dev/internal/model"
)

func TestReportStoreRoundTrip(t *testing.T) {
	store := NewReportStore()
	path := m.Path(filepath.Join(t.TempDir(), "reports", "verify.yaml"))

	report := &m.VerifyReport{
		Results: []m.VerifyResult{
			{Ref: "refs/a", Gen: "gen/a", Clean: true},
			{Ref: "refs/b", Gen: "gen/b", Clean: false, Diff: "Only in gen/b: extra.txt\n"},
			{Ref: "refs/c", Gen: "gen/c", Error: "open gen/c: no such file or directory"},
		},
	}

	require.NoError(t, store.SaveReport(path, report))

	loaded, err := store.LoadReport(path)
	require.NoError(t, err)
	assert.Equal(t, report, loaded)
	assert.False(t, loaded.Clean())
}

func TestReportStoreLoadMissing(t *testing.T) {
	store := NewReportStore()

	_, err := store.LoadReport(m.Path(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
}
