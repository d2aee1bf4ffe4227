// Package refdata implements testing against learned reference data.
//
// A test produces files in a directory of its own, then calls Assert at
// the end. In checking mode the directory is normalized and compared
// byte-for-byte against a reference tree committed to version control;
// any deviation fails the test with a full diff. In learning mode the
// normalized directory replaces the reference tree instead. Learning
// mode is selected by a .refdata marker file in the project root.
//
//	func TestSomething(t *testing.T) {
//		dir := t.TempDir()
//		os.WriteFile(filepath.Join(dir, "file.txt"), []byte("Hello Mars\n"), 0o600)
//		refdata.Assert(t, dir)
//	}
//
// Captured stdout, stderr and log lines can be included in the
// reference via the WithStdout, WithStderr and WithLogRecords options.
package refdata

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"refdata.dev/internal/adapter"
	"refdata.dev/internal/domain"
	m "refdata.dev/internal/model"
)

// MarkerFileName selects learning mode when it exists in the project
// root at process start.
const MarkerFileName = ".refdata"

// DefaultExcludes are the exclusion patterns every run starts from:
// common cache-directory names.
var DefaultExcludes = []string{"__pycache__", ".*cache"}

// Config controls where references live and how comparisons run. It
// replaces hidden process-wide state: pass it explicitly via WithConfig,
// or rely on the process default.
type Config struct {
	// RefRoot is the directory reference trees are stored under.
	RefRoot string

	// Learn selects learning mode: references are replaced instead of
	// compared.
	Learn bool

	// Excludes are glob patterns matched against single path segments.
	Excludes []string

	// ProjectRoot is replaced by $PRJ in staged content.
	ProjectRoot string
}

// loadDefaults computes the process-default configuration once: the
// reference root under testdata/refdata, learning mode from the marker
// file's existence, and the working directory as project root.
var loadDefaults = sync.OnceValue(func() Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	learn := false
	if _, err := os.Stat(filepath.Join(cwd, MarkerFileName)); err == nil {
		learn = true
	}

	return Config{
		RefRoot:     filepath.Join(cwd, "testdata", "refdata"),
		Learn:       learn,
		Excludes:    DefaultExcludes,
		ProjectRoot: cwd,
	}
})

// DefaultConfig returns a copy of the process-default configuration,
// safe for the caller to modify.
func DefaultConfig() *Config {
	cfg := loadDefaults()
	cfg.Excludes = append([]string(nil), cfg.Excludes...)

	return &cfg
}

// Assert compares the generated tree at genPath against the learned
// reference for the calling test, or records it as the new reference in
// learning mode. The reference location is derived from the caller's
// package import path and test name unless WithRefPath overrides it.
// On mismatch the test fails with the full diff as the message.
func Assert(tb testing.TB, genPath string, opts ...Option) {
	tb.Helper()

	s := newSettings(opts)
	cfg := s.config()

	var resolved m.Path
	if s.refPath != "" {
		resolved = explicitRefPath(cfg, s.refPath, s.flavor)
	} else {
		identity := m.Identity{Module: callerModule(), Function: tb.Name(), Flavor: s.flavor}
		resolved = identity.RefPath(m.Path(cfg.RefRoot))
	}

	excludes := m.ExcludeSet(cfg.Excludes).Merge(s.excludes...)

	err := newWorkflow().Assert(domain.AssertArgs{
		RefPath:  resolved,
		Learn:    cfg.Learn,
		Excludes: excludes,
		StageArgs: domain.StageArgs{
			GenPath:      m.Path(genPath),
			ProjectRoot:  m.Path(cfg.ProjectRoot),
			Excludes:     excludes,
			Replacements: s.rules,
			Stdout:       s.stdout,
			Stderr:       s.stderr,
			Logs:         s.logs,
		},
	})
	if err != nil {
		tb.Fatalf("%s", err)
	}
}

// AssertPaths compares two directory trees directly, without staging or
// normalization. On mismatch the test fails with the full diff as the
// message.
func AssertPaths(tb testing.TB, refPath, genPath string, opts ...Option) {
	tb.Helper()

	s := newSettings(opts)
	cfg := s.config()

	excludes := m.ExcludeSet(cfg.Excludes).Merge(s.excludes...)

	if err := newWorkflow().ComparePaths(m.Path(refPath), m.Path(genPath), excludes); err != nil {
		tb.Fatalf("%s", err)
	}
}

func newWorkflow() domain.Workflow {
	return domain.NewWorkflow(adapter.NewLocalTreeFSAdapter(), nil)
}

// explicitRefPath resolves a caller-supplied reference path: absolute
// paths are used as-is, relative ones live under the reference root.
// The flavor still appends as a subdirectory.
func explicitRefPath(cfg *Config, refPath, flavor string) m.Path {
	resolved := refPath
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(cfg.RefRoot, resolved)
	}

	if flavor != "" {
		resolved = filepath.Join(resolved, flavor)
	}

	return m.Path(resolved)
}

// callerModule derives the identity's module part from the caller's
// package import path, two frames up (the test function calling Assert).
func callerModule() string {
	pc, _, _, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}

	name := fn.Name()
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot < 0 {
		return name
	}

	return name[:slash+1+dot]
}
