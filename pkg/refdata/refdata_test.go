package refdata

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorderTB captures the fatal message instead of aborting, so failure
// paths can be asserted on.
type recorderTB struct {
	testing.TB
	fatal string
}

func (r *recorderTB) Fatalf(format string, args ...any) {
	r.fatal = fmt.Sprintf(format, args...)
}

func (r *recorderTB) Helper() {}

func testConfig(t *testing.T) *Config {
	t.Helper()

	return &Config{
		RefRoot:     t.TempDir(),
		ProjectRoot: t.TempDir(),
	}
}

func writeGenFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

// identityRefPath mirrors the identity-derived layout: reference root,
// package import path, test name.
func identityRefPath(cfg *Config, testName string) string {
	return filepath.Join(cfg.RefRoot, "refdata.dev", "pkg", "refdata", testName)
}

func TestAssertLearnThenCheck(t *testing.T) {
	cfg := testConfig(t)
	cfg.Learn = true

	gen := t.TempDir()
	writeGenFile(t, gen, "file.txt", "Content\n")

	Assert(t, gen, WithConfig(cfg))

	ref := identityRefPath(cfg, t.Name())
	assert.FileExists(t, filepath.Join(ref, "file.txt"))

	cfg.Learn = false
	Assert(t, gen, WithConfig(cfg))
}

func TestAssertMismatchFailsWithDiff(t *testing.T) {
	cfg := testConfig(t)
	cfg.Learn = true

	gen := t.TempDir()
	writeGenFile(t, gen, "file.txt", "Content\n")
	Assert(t, gen, WithConfig(cfg))

	writeGenFile(t, gen, "file.txt", "Other Content\n")
	cfg.Learn = false

	recorder := &recorderTB{TB: t}
	Assert(recorder, gen, WithConfig(cfg))

	require.NotEmpty(t, recorder.fatal)
	assert.Contains(t, recorder.fatal, "-Content\n")
	assert.Contains(t, recorder.fatal, "+Other Content\n")
}

func TestAssertCaptures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Learn = true

	gen := t.TempDir()
	writeGenFile(t, gen, "file.txt", "Content\n")

	Assert(t, gen, WithConfig(cfg),
		WithStdout("One\nTwo\n"),
		WithStderr("myerr\n"),
		WithLogRecords(
			LogRecord{Level: "INFO", Name: "dummy", Message: "loginfo"},
			LogRecord{Level: "WARNING", Name: "dummy", Message: "logwarn"},
		))

	ref := identityRefPath(cfg, t.Name())

	data, err := os.ReadFile(filepath.Join(ref, "stdout.txt"))
	require.NoError(t, err)
	assert.Equal(t, "One\nTwo\n", string(data))

	data, err = os.ReadFile(filepath.Join(ref, "stderr.txt"))
	require.NoError(t, err)
	assert.Equal(t, "myerr\n", string(data))

	data, err = os.ReadFile(filepath.Join(ref, "logging.txt"))
	require.NoError(t, err)
	assert.Equal(t, "INFO     dummy  loginfo\nWARNING  dummy  logwarn\n", string(data))
}

func TestAssertEmptyLogRecordsStillWriteFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Learn = true

	gen := t.TempDir()
	writeGenFile(t, gen, "file.txt", "Content\n")

	Assert(t, gen, WithConfig(cfg), WithLogRecords())

	ref := identityRefPath(cfg, t.Name())
	data, err := os.ReadFile(filepath.Join(ref, "logging.txt"))
	require.NoError(t, err)
	assert.Empty(t, string(data))
}

func TestAssertExcludes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Learn = true

	gen := t.TempDir()
	writeGenFile(t, gen, "file.csv", "keep\n")
	writeGenFile(t, gen, "noise.txt", "drop\n")
	writeGenFile(t, gen, filepath.Join("__pycache__", "file.pyc"), "drop\n")
	cfg.Excludes = DefaultExcludes

	Assert(t, gen, WithConfig(cfg), WithExcludes("*.txt"))

	ref := identityRefPath(cfg, t.Name())
	assert.FileExists(t, filepath.Join(ref, "file.csv"))
	assert.NoFileExists(t, filepath.Join(ref, "noise.txt"))
	assert.NoDirExists(t, filepath.Join(ref, "__pycache__"))
}

func TestAssertFlavor(t *testing.T) {
	cfg := testConfig(t)
	cfg.Learn = true

	gen := t.TempDir()
	writeGenFile(t, gen, "file.txt", "variant one\n")

	Assert(t, gen, WithConfig(cfg), WithFlavor("one"))

	ref := identityRefPath(cfg, t.Name())
	assert.FileExists(t, filepath.Join(ref, "one", "file.txt"))
	assert.NoFileExists(t, filepath.Join(ref, "file.txt"))
}

func TestAssertReplacements(t *testing.T) {
	cfg := testConfig(t)
	cfg.Learn = true

	gen := t.TempDir()
	writeGenFile(t, gen, "file.txt",
		"project lives at "+cfg.ProjectRoot+"/config\nOver /other/deep took 123ms\n")

	Assert(t, gen, WithConfig(cfg), WithReplacements(
		ReplacePath("/other", "$OTHER_PATH"),
		ReplaceString("Over", "RAINBOW"),
		ReplaceRegexp(regexp.MustCompile(`\d+ms`), "Nms"),
	))

	ref := identityRefPath(cfg, t.Name())
	data, err := os.ReadFile(filepath.Join(ref, "file.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"project lives at $PRJ/config\nRAINBOW $OTHER_PATH/deep took Nms\n",
		string(data))
}

func TestAssertStringRulesRenamePaths(t *testing.T) {
	cfg := testConfig(t)
	cfg.Learn = true

	gen := t.TempDir()
	writeGenFile(t, gen, filepath.Join("run_7", "out.txt"), "run _7 output\n")

	Assert(t, gen, WithConfig(cfg), WithReplacements(ReplaceString("_7", "_N")))

	ref := identityRefPath(cfg, t.Name())
	assert.FileExists(t, filepath.Join(ref, "run_N", "out.txt"))

	data, err := os.ReadFile(filepath.Join(ref, "run_N", "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "run _N output\n", string(data))
}

func TestAssertWithRefPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Learn = true

	gen := t.TempDir()
	writeGenFile(t, gen, "file.txt", "Content\n")

	Assert(t, gen, WithConfig(cfg), WithRefPath("custom/location"))
	assert.FileExists(t, filepath.Join(cfg.RefRoot, "custom", "location", "file.txt"))

	abs := filepath.Join(t.TempDir(), "elsewhere")
	Assert(t, gen, WithConfig(cfg), WithRefPath(abs))
	assert.FileExists(t, filepath.Join(abs, "file.txt"))

	Assert(t, gen, WithConfig(cfg), WithRefPath("custom/location"), WithFlavor("two"))
	assert.FileExists(t, filepath.Join(cfg.RefRoot, "custom", "location", "two", "file.txt"))
}

func TestAssertMissingReferenceFails(t *testing.T) {
	cfg := testConfig(t)

	gen := t.TempDir()
	writeGenFile(t, gen, "file.txt", "Content\n")

	recorder := &recorderTB{TB: t}
	Assert(recorder, gen, WithConfig(cfg))

	require.NotEmpty(t, recorder.fatal)
	assert.Contains(t, recorder.fatal, "file.txt")
}

func TestAssertPathsMatch(t *testing.T) {
	ref := t.TempDir()
	gen := t.TempDir()
	writeGenFile(t, ref, "file.txt", "same\n")
	writeGenFile(t, gen, "file.txt", "same\n")

	AssertPaths(t, ref, gen)
}

func TestAssertPathsMismatch(t *testing.T) {
	ref := t.TempDir()
	gen := t.TempDir()
	writeGenFile(t, ref, "file.txt", "ref\n")
	writeGenFile(t, gen, "file.txt", "gen\n")

	recorder := &recorderTB{TB: t}
	AssertPaths(recorder, ref, gen)

	require.NotEmpty(t, recorder.fatal)
	assert.Contains(t, recorder.fatal, "-ref\n")
	assert.Contains(t, recorder.fatal, "+gen\n")
}

func TestAssertPathsExcludes(t *testing.T) {
	ref := t.TempDir()
	gen := t.TempDir()
	writeGenFile(t, ref, "file.csv", "same\n")
	writeGenFile(t, gen, "file.csv", "same\n")
	writeGenFile(t, gen, "extra.txt", "gen only\n")

	AssertPaths(t, ref, gen, WithExcludes("*.txt"), WithConfig(&Config{}))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	cwd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cwd, "testdata", "refdata"), cfg.RefRoot)
	assert.Equal(t, cwd, cfg.ProjectRoot)
	assert.Equal(t, DefaultExcludes, cfg.Excludes)

	// Each call hands out an independent copy.
	cfg.Excludes[0] = "mutated"
	assert.Equal(t, "__pycache__", DefaultConfig().Excludes[0])
}

func TestCallerModule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Learn = true

	gen := t.TempDir()
	writeGenFile(t, gen, "file.txt", "Content\n")

	Assert(t, gen, WithConfig(cfg))

	// Exactly one identity dir exists under the reference root and it
	// follows the package import path.
	ref := identityRefPath(cfg, t.Name())
	require.FileExists(t, filepath.Join(ref, "file.txt"))

	rel, err := filepath.Rel(cfg.RefRoot, ref)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.ToSlash(rel), "refdata.dev/pkg/refdata/"))
}
