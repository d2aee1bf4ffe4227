package domain

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"refdata.dev/internal/adapter"
	m "refdata.dev/internal/model"
)

// AssertArgs carries everything one compare-or-record invocation needs.
type AssertArgs struct {
	// RefPath is the resolved reference directory for the invocation.
	RefPath m.Path

	// Learn selects learning mode: the reference tree is replaced by
	// the staged snapshot before the comparison runs.
	Learn bool

	// Excludes is the merged exclusion set, applied to the staging copy
	// and to both sides of the final diff.
	Excludes m.ExcludeSet

	StageArgs
}

// VerifyPair names one reference/generated pair in a batch verify run.
type VerifyPair struct {
	Ref m.Path
	Gen m.Path
}

// VerifyArgs describes a batch verify run.
type VerifyArgs struct {
	Pairs    []VerifyPair
	Excludes m.ExcludeSet
	Threads  int
}

// Workflow coordinates staging, learning and comparison. It is the
// single entry point shared by the test-facing API and the CLI.
type Workflow interface {
	// Assert stages a snapshot of the generated tree and compares it
	// against (or records it as) the reference tree. A mismatch returns
	// a MismatchError carrying the full diff text.
	Assert(args AssertArgs) error

	// ComparePaths diffs two directory trees directly, without staging.
	ComparePaths(refPath, genPath m.Path, excludes m.ExcludeSet) error

	// Learn records genPath as the reference tree at refPath.
	Learn(refPath, genPath m.Path) error

	// Verify compares every pair and collects the outcomes into a
	// report. Pairs run in parallel up to Threads at a time.
	Verify(ctx context.Context, args VerifyArgs) (*m.VerifyReport, error)
}

type workflow struct {
	fs         adapter.TreeFSAdapter
	builder    *SnapshotBuilder
	comparator *Comparator
}

// NewWorkflow constructs the default Workflow over the provided
// filesystem adapter. A nil sniffer falls back to the default
// content-sniffing heuristic.
func NewWorkflow(fs adapter.TreeFSAdapter, sniffer BinarySniffer) Workflow {
	return &workflow{
		fs:         fs,
		builder:    NewSnapshotBuilder(fs, sniffer),
		comparator: NewComparator(fs, sniffer),
	}
}

// Assert implements the compare-or-record operation.
func (w *workflow) Assert(args AssertArgs) error {
	if err := w.fs.MkdirAll(args.RefPath); err != nil {
		slog.Error("Failed to create reference dir", "refPath", args.RefPath, "error", err)
		return fmt.Errorf("failed to create reference dir: %w", err)
	}

	scratch, cleanup, err := w.builder.Stage(args.StageArgs)
	defer cleanup()

	if err != nil {
		return fmt.Errorf("failed to stage snapshot: %w", err)
	}

	if args.Learn {
		if err := w.comparator.Learn(args.RefPath, scratch); err != nil {
			return err
		}
	}

	return w.compare(args.RefPath, scratch, args.Excludes)
}

// ComparePaths implements the compare-trees operation.
func (w *workflow) ComparePaths(refPath, genPath m.Path, excludes m.ExcludeSet) error {
	return w.compare(refPath, genPath, excludes)
}

// Learn records genPath as the reference tree at refPath.
func (w *workflow) Learn(refPath, genPath m.Path) error {
	return w.comparator.Learn(refPath, genPath)
}

func (w *workflow) compare(refPath, genPath m.Path, excludes m.ExcludeSet) error {
	report, err := w.comparator.Compare(refPath, genPath, excludes)
	if err != nil {
		return err
	}

	if !report.Clean() {
		return &MismatchError{Report: report}
	}

	return nil
}

// Verify compares every pair, at most args.Threads at a time, and
// collects per-pair outcomes. Only infrastructure failures abort the
// run; mismatches are recorded in the report.
func (w *workflow) Verify(ctx context.Context, args VerifyArgs) (*m.VerifyReport, error) {
	threads := args.Threads
	if threads < 1 {
		threads = 1
	}

	results := make([]m.VerifyResult, len(args.Pairs))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, pair := range args.Pairs {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result := m.VerifyResult{Ref: string(pair.Ref), Gen: string(pair.Gen)}

			report, err := w.comparator.Compare(pair.Ref, pair.Gen, args.Excludes)
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Clean = report.Clean()
				result.Diff = report.Diff
			}

			results[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &m.VerifyReport{Results: results}, nil
}
