package domain

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"refdata.dev/internal/adapter"
	m "refdata.dev/internal/model"
)

// diffContextLines is the number of context lines in unified diff hunks.
const diffContextLines = 3

// ErrMismatch is the sentinel all mismatch failures match via errors.Is.
var ErrMismatch = errors.New("reference mismatch")

// MismatchError reports a failed reference comparison. Its message is
// the literal diff output, so the failure pinpoints exact file and line
// differences.
type MismatchError struct {
	Report *m.CompareReport
}

// Error returns the full diff text.
func (e *MismatchError) Error() string {
	return e.Report.Diff
}

// Is matches MismatchError against the ErrMismatch sentinel.
func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// Comparator performs the final compare-or-learn step between a staged
// snapshot and the stored reference tree.
type Comparator struct {
	fs       adapter.TreeFSAdapter
	isBinary BinarySniffer
}

// NewComparator constructs a Comparator. A nil sniffer falls back to
// the default content-sniffing heuristic.
func NewComparator(fs adapter.TreeFSAdapter, sniffer BinarySniffer) *Comparator {
	if sniffer == nil {
		sniffer = adapter.IsBinary
	}

	return &Comparator{fs: fs, isBinary: sniffer}
}

// Learn replaces the reference tree with the generated tree. The old
// contents are removed first, then the new tree is copied in verbatim,
// so the reference is never left partially written.
func (c *Comparator) Learn(refPath, genPath m.Path) error {
	if err := c.fs.RemoveAll(refPath); err != nil {
		return fmt.Errorf("failed to clear reference tree: %w", err)
	}

	if err := c.fs.CopyTree(genPath, refPath, nil); err != nil {
		return fmt.Errorf("failed to record reference tree: %w", err)
	}

	return nil
}

// Compare performs a recursive structural and content diff between the
// reference and generated trees. Entries matching the exclusion set are
// ignored on both sides. The returned report carries the accumulated
// diff text; it is clean when no differences were found.
func (c *Comparator) Compare(refPath, genPath m.Path, excludes m.ExcludeSet) (*m.CompareReport, error) {
	report := &m.CompareReport{Ref: refPath, Gen: genPath}

	var diff strings.Builder
	if err := c.compareDir(&diff, report, refPath, genPath, "", excludes); err != nil {
		return nil, err
	}

	report.Diff = diff.String()

	return report, nil
}

// compareDir diffs one directory level. rel is the path of the level
// relative to the compared roots.
func (c *Comparator) compareDir(diff *strings.Builder, report *m.CompareReport, refRoot, genRoot m.Path, rel string, excludes m.ExcludeSet) error {
	refDir := filepath.Join(string(refRoot), rel)
	genDir := filepath.Join(string(genRoot), rel)

	refNames, err := c.listNames(m.Path(refDir), excludes)
	if err != nil {
		return err
	}

	genNames, err := c.listNames(m.Path(genDir), excludes)
	if err != nil {
		return err
	}

	for _, name := range sortedUnion(refNames, genNames) {
		entryRel := filepath.Join(rel, name)
		_, inRef := refNames[name]
		_, inGen := genNames[name]

		switch {
		case inRef && inGen:
			if err := c.compareEntry(diff, report, refRoot, genRoot, entryRel, refNames[name], genNames[name], excludes); err != nil {
				return err
			}
		case inRef:
			fmt.Fprintf(diff, "Only in %s: %s\n", refDir, name)
			report.Entries = append(report.Entries, m.DiffEntry{Path: entryRel, Kind: m.DiffOnlyInRef})
		default:
			fmt.Fprintf(diff, "Only in %s: %s\n", genDir, name)
			report.Entries = append(report.Entries, m.DiffEntry{Path: entryRel, Kind: m.DiffOnlyInGen})
		}
	}

	return nil
}

// compareEntry diffs one entry present on both sides.
func (c *Comparator) compareEntry(diff *strings.Builder, report *m.CompareReport, refRoot, genRoot m.Path, rel string, refIsDir, genIsDir bool, excludes m.ExcludeSet) error {
	refEntry := filepath.Join(string(refRoot), rel)
	genEntry := filepath.Join(string(genRoot), rel)

	switch {
	case refIsDir && genIsDir:
		return c.compareDir(diff, report, refRoot, genRoot, rel, excludes)
	case refIsDir != genIsDir:
		dirSide, fileSide := refEntry, genEntry
		if genIsDir {
			dirSide, fileSide = genEntry, refEntry
		}

		fmt.Fprintf(diff, "File %s is a directory while file %s is a regular file\n", dirSide, fileSide)
		report.Entries = append(report.Entries, m.DiffEntry{Path: rel, Kind: m.DiffType})

		return nil
	default:
		return c.compareFile(diff, report, m.Path(refEntry), m.Path(genEntry), rel)
	}
}

// compareFile diffs one regular file byte-for-byte and, for text files,
// renders a unified diff of the differing lines.
func (c *Comparator) compareFile(diff *strings.Builder, report *m.CompareReport, refFile, genFile m.Path, rel string) error {
	refData, err := c.fs.ReadFile(refFile)
	if err != nil {
		return err
	}

	genData, err := c.fs.ReadFile(genFile)
	if err != nil {
		return err
	}

	if bytes.Equal(refData, genData) {
		return nil
	}

	if c.isBinary(refData) || c.isBinary(genData) {
		fmt.Fprintf(diff, "Binary files %s and %s differ\n", refFile, genFile)
	} else {
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(refData)),
			B:        difflib.SplitLines(string(genData)),
			FromFile: string(refFile),
			ToFile:   string(genFile),
			Context:  diffContextLines,
		})
		if err != nil {
			return err
		}

		diff.WriteString(text)
	}

	report.Entries = append(report.Entries, m.DiffEntry{Path: rel, Kind: m.DiffContent})

	return nil
}

// listNames returns the non-excluded entries of a directory, mapped to
// whether each is a directory.
func (c *Comparator) listNames(dir m.Path, excludes m.ExcludeSet) (map[string]bool, error) {
	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}

		return nil, err
	}

	names := make(map[string]bool, len(entries))
	for _, entry := range entries {
		excluded, err := excludes.Match(entry.Name())
		if err != nil {
			return nil, err
		}

		if excluded {
			continue
		}

		names[entry.Name()] = entry.IsDir()
	}

	return names, nil
}

// sortedUnion merges the keys of both name sets into one sorted list.
func sortedUnion(refNames, genNames map[string]bool) []string {
	seen := make(map[string]struct{}, len(refNames)+len(genNames))
	union := make([]string, 0, len(refNames)+len(genNames))

	for name := range refNames {
		seen[name] = struct{}{}
		union = append(union, name)
	}

	for name := range genNames {
		if _, ok := seen[name]; !ok {
			union = append(union, name)
		}
	}

	sort.Strings(union)

	return union
}
