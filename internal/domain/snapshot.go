package domain

import (
	"log/slog"
	"path/filepath"
	"strings"

	"refdata.dev/internal/adapter"
	m "refdata.dev/internal/model"
)

// Capture file names synthesized at the scratch tree root.
const (
	StdoutFileName  = "stdout.txt"
	StderrFileName  = "stderr.txt"
	LoggingFileName = "logging.txt"
)

// capturePerm is the mode for synthesized capture files.
const capturePerm = 0o600

// StageArgs describes one snapshot staging request.
type StageArgs struct {
	// GenPath is the generated tree produced by the code under test. It
	// is never mutated.
	GenPath m.Path

	// ProjectRoot is replaced by $PRJ in staged content.
	ProjectRoot m.Path

	// Excludes filters the copy; a matching directory is skipped
	// wholesale.
	Excludes m.ExcludeSet

	// Replacements are the caller's rules. The default $PRJ and $GEN
	// path rules are prepended automatically.
	Replacements []m.Replacement

	// Stdout and Stderr, when non-nil, are written as stdout.txt and
	// stderr.txt at the scratch root.
	Stdout *string
	Stderr *string

	// Logs, when non-nil, are written one line per record as
	// logging.txt. A non-nil empty slice still produces the file.
	Logs []m.LogRecord
}

// SnapshotBuilder stages a normalized scratch copy of a generated tree:
// an exclusion-filtered copy plus synthesized capture files, pruned of
// empty directories and normalized by the path and content rules.
type SnapshotBuilder struct {
	fs      adapter.TreeFSAdapter
	pruner  *Pruner
	paths   *PathNormalizer
	content *ContentNormalizer
}

// NewSnapshotBuilder constructs a SnapshotBuilder and its staging
// pipeline. A nil sniffer falls back to the default content-sniffing
// heuristic.
func NewSnapshotBuilder(fs adapter.TreeFSAdapter, sniffer BinarySniffer) *SnapshotBuilder {
	return &SnapshotBuilder{
		fs:      fs,
		pruner:  NewPruner(fs),
		paths:   NewPathNormalizer(fs),
		content: NewContentNormalizer(fs, sniffer),
	}
}

// Stage builds the scratch tree and returns its path together with a
// cleanup function. The cleanup must run on every exit path, including
// assertion failure, so scratch trees never leak.
func (b *SnapshotBuilder) Stage(args StageArgs) (m.Path, func(), error) {
	scratch, err := b.fs.CreateTempDir("refdata-*")
	if err != nil {
		slog.Error("Failed to create scratch dir", "error", err)
		return "", func() {}, err
	}

	cleanup := func() {
		if err := b.fs.RemoveAll(scratch); err != nil {
			slog.Error("Failed to remove scratch dir", "scratch", scratch, "error", err)
		}
	}

	if err := b.stage(scratch, args); err != nil {
		return scratch, cleanup, err
	}

	return scratch, cleanup, nil
}

// stage runs the staging pipeline into an existing scratch directory.
// The capture files are written after the filtered copy, so exclusion
// patterns do not apply to them, and before normalization, so
// replacements do.
func (b *SnapshotBuilder) stage(scratch m.Path, args StageArgs) error {
	if err := b.fs.CopyTree(args.GenPath, scratch, args.Excludes); err != nil {
		return err
	}

	if err := b.writeCaptures(scratch, args); err != nil {
		return err
	}

	if err := b.pruner.Prune(scratch); err != nil {
		return err
	}

	rules := defaultRules(args.ProjectRoot, args.GenPath, args.Replacements)

	if err := b.paths.Normalize(scratch, rules); err != nil {
		return err
	}

	return b.content.Normalize(scratch, rules)
}

// writeCaptures synthesizes stdout.txt, stderr.txt and logging.txt at
// the scratch root for whichever captures were supplied.
func (b *SnapshotBuilder) writeCaptures(scratch m.Path, args StageArgs) error {
	if args.Stdout != nil {
		path := m.Path(filepath.Join(string(scratch), StdoutFileName))
		if err := b.fs.WriteFile(path, []byte(*args.Stdout), capturePerm); err != nil {
			return err
		}
	}

	if args.Stderr != nil {
		path := m.Path(filepath.Join(string(scratch), StderrFileName))
		if err := b.fs.WriteFile(path, []byte(*args.Stderr), capturePerm); err != nil {
			return err
		}
	}

	if args.Logs != nil {
		var lines strings.Builder
		for _, record := range args.Logs {
			lines.WriteString(record.Line())
		}

		path := m.Path(filepath.Join(string(scratch), LoggingFileName))
		if err := b.fs.WriteFile(path, []byte(lines.String()), capturePerm); err != nil {
			return err
		}
	}

	return nil
}

// defaultRules prepends the implicit project-root and generated-path
// rules to the caller's list. Order matters: earlier rules run first
// and later rules see their output.
func defaultRules(projectRoot, genPath m.Path, replacements []m.Replacement) []m.Replacement {
	rules := make([]m.Replacement, 0, len(replacements)+2)
	rules = append(rules, m.NewPath(projectRoot, "$PRJ"), m.NewPath(genPath, "$GEN"))
	rules = append(rules, replacements...)

	return rules
}
