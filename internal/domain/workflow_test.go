package domain

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refdata.dev/internal/adapter"
	m "refdata.dev/internal/model"
)

func TestWorkflowAssertLearnThenCheck(t *testing.T) {
	flow := NewWorkflow(adapter.NewLocalTreeFSAdapter(), nil)

	gen := t.TempDir()
	writeFile(t, filepath.Join(gen, "file.txt"), "Content\n")

	ref := filepath.Join(t.TempDir(), "refdata", "pkg", "TestSomething")
	args := AssertArgs{
		RefPath: m.Path(ref),
		Learn:   true,
		StageArgs: StageArgs{
			GenPath:     m.Path(gen),
			ProjectRoot: m.Path(t.TempDir()),
		},
	}

	require.NoError(t, flow.Assert(args))
	assert.FileExists(t, filepath.Join(ref, "file.txt"))

	// The recorded reference verifies cleanly in checking mode.
	args.Learn = false
	require.NoError(t, flow.Assert(args))
}

func TestWorkflowAssertMismatch(t *testing.T) {
	flow := NewWorkflow(adapter.NewLocalTreeFSAdapter(), nil)

	ref := filepath.Join(t.TempDir(), "refdata")
	project := t.TempDir()

	gen := t.TempDir()
	writeFile(t, filepath.Join(gen, "file.txt"), "Content\n")

	args := AssertArgs{
		RefPath: m.Path(ref),
		Learn:   true,
		StageArgs: StageArgs{
			GenPath:     m.Path(gen),
			ProjectRoot: m.Path(project),
		},
	}
	require.NoError(t, flow.Assert(args))

	writeFile(t, filepath.Join(gen, "file.txt"), "Other Content\n")
	args.Learn = false

	err := flow.Assert(args)
	require.ErrorIs(t, err, ErrMismatch)

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Error(), "-Content\n")
	assert.Contains(t, mismatch.Error(), "+Other Content\n")
}

func TestWorkflowAssertMissingReferenceMismatches(t *testing.T) {
	flow := NewWorkflow(adapter.NewLocalTreeFSAdapter(), nil)

	gen := t.TempDir()
	writeFile(t, filepath.Join(gen, "file.txt"), "Content\n")

	// Checking mode against a reference that was never recorded: the
	// empty reference dir is created and every staged entry shows up as
	// a difference.
	ref := filepath.Join(t.TempDir(), "refdata")
	err := flow.Assert(AssertArgs{
		RefPath: m.Path(ref),
		StageArgs: StageArgs{
			GenPath:     m.Path(gen),
			ProjectRoot: m.Path(t.TempDir()),
		},
	})

	require.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "file.txt")
	assert.DirExists(t, ref)
}

func TestWorkflowAssertAppliesExcludes(t *testing.T) {
	flow := NewWorkflow(adapter.NewLocalTreeFSAdapter(), nil)

	gen := t.TempDir()
	writeFile(t, filepath.Join(gen, "file.csv"), "keep\n")
	writeFile(t, filepath.Join(gen, "noise.txt"), "drop\n")

	ref := filepath.Join(t.TempDir(), "refdata")
	args := AssertArgs{
		RefPath:  m.Path(ref),
		Learn:    true,
		Excludes: m.ExcludeSet{"*.txt"},
		StageArgs: StageArgs{
			GenPath:     m.Path(gen),
			ProjectRoot: m.Path(t.TempDir()),
			Excludes:    m.ExcludeSet{"*.txt"},
		},
	}

	require.NoError(t, flow.Assert(args))
	assert.FileExists(t, filepath.Join(ref, "file.csv"))
	assert.NoFileExists(t, filepath.Join(ref, "noise.txt"))
}

func TestWorkflowComparePaths(t *testing.T) {
	flow := NewWorkflow(adapter.NewLocalTreeFSAdapter(), nil)

	ref := t.TempDir()
	writeFile(t, filepath.Join(ref, "file.txt"), "same\n")

	gen := t.TempDir()
	writeFile(t, filepath.Join(gen, "file.txt"), "same\n")

	require.NoError(t, flow.ComparePaths(m.Path(ref), m.Path(gen), nil))

	writeFile(t, filepath.Join(gen, "file.txt"), "changed\n")
	err := flow.ComparePaths(m.Path(ref), m.Path(gen), nil)
	require.ErrorIs(t, err, ErrMismatch)
}

func TestWorkflowLearn(t *testing.T) {
	flow := NewWorkflow(adapter.NewLocalTreeFSAdapter(), nil)

	gen := t.TempDir()
	writeFile(t, filepath.Join(gen, "file.txt"), "Content\n")

	ref := filepath.Join(t.TempDir(), "refdata")
	require.NoError(t, flow.Learn(m.Path(ref), m.Path(gen)))
	assert.FileExists(t, filepath.Join(ref, "file.txt"))
}

func TestWorkflowVerify(t *testing.T) {
	flow := NewWorkflow(adapter.NewLocalTreeFSAdapter(), nil)

	refA := t.TempDir()
	genA := t.TempDir()
	writeFile(t, filepath.Join(refA, "file.txt"), "same\n")
	writeFile(t, filepath.Join(genA, "file.txt"), "same\n")

	refB := t.TempDir()
	genB := t.TempDir()
	writeFile(t, filepath.Join(refB, "file.txt"), "ref\n")
	writeFile(t, filepath.Join(genB, "file.txt"), "gen\n")

	report, err := flow.Verify(context.Background(), VerifyArgs{
		Pairs: []VerifyPair{
			{Ref: m.Path(refA), Gen: m.Path(genA)},
			{Ref: m.Path(refB), Gen: m.Path(genB)},
		},
		Threads: 4,
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	assert.True(t, report.Results[0].Clean)
	assert.Empty(t, report.Results[0].Diff)

	assert.False(t, report.Results[1].Clean)
	assert.Contains(t, report.Results[1].Diff, "-ref\n")
	assert.Contains(t, report.Results[1].Diff, "+gen\n")

	assert.False(t, report.Clean())
}

func TestWorkflowVerifyRecordsPairErrors(t *testing.T) {
	flow := NewWorkflow(adapter.NewLocalTreeFSAdapter(), nil)

	ref := t.TempDir()
	writeFile(t, filepath.Join(ref, "file.txt"), "x\n")

	report, err := flow.Verify(context.Background(), VerifyArgs{
		Pairs: []VerifyPair{
			{Ref: m.Path(ref), Gen: m.Path(t.TempDir())},
		},
		Excludes: m.ExcludeSet{"["},
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	assert.NotEmpty(t, report.Results[0].Error)
	assert.False(t, report.Results[0].Clean)
	assert.False(t, report.Clean())
}

func TestWorkflowVerifyCancelledContext(t *testing.T) {
	flow := NewWorkflow(adapter.NewLocalTreeFSAdapter(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := flow.Verify(ctx, VerifyArgs{
		Pairs: []VerifyPair{
			{Ref: m.Path(t.TempDir()), Gen: m.Path(t.TempDir())},
		},
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMismatchErrorIdentity(t *testing.T) {
	err := &MismatchError{Report: &m.CompareReport{Diff: "Only in ref: a\n"}}

	assert.True(t, errors.Is(err, ErrMismatch))
	assert.Equal(t, "Only in ref: a\n", err.Error())
}
