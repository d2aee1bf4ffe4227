package refdata

import (
	"regexp"

	m "refdata.dev/internal/model"
)

// Replacement rewrites matching text while a snapshot is staged. Rules
// apply in the order given; each rule runs as one full pass over
// content already rewritten by the rules before it.
type Replacement struct {
	rule m.Replacement
}

// ReplaceString builds a rule matching an exact substring. String rules
// apply to file content and to file and directory names.
func ReplaceString(search, replace string) Replacement {
	return Replacement{rule: m.NewLiteral(search, replace)}
}

// ReplacePath builds a rule matching a path prefix and carrying any
// path-shaped remainder along, with separators normalized to forward
// slashes. Path rules apply to file content only.
func ReplacePath(path, replace string) Replacement {
	return Replacement{rule: m.NewPath(m.Path(path), replace)}
}

// ReplaceRegexp builds a rule applying the pattern verbatim to file
// content, with regexp.ReplaceAllString substitution semantics.
func ReplaceRegexp(pattern *regexp.Regexp, replace string) Replacement {
	return Replacement{rule: m.NewRegexp(pattern, replace)}
}

// LogRecord is one captured log line to include in logging.txt.
type LogRecord struct {
	Level   string
	Name    string
	Message string
}

// Option customizes one Assert or AssertPaths invocation.
type Option func(*settings)

type settings struct {
	cfg      *Config
	refPath  string
	flavor   string
	rules    []m.Replacement
	excludes []string
	stdout   *string
	stderr   *string
	logs     []m.LogRecord
}

func newSettings(opts []Option) *settings {
	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *settings) config() *Config {
	if s.cfg != nil {
		return s.cfg
	}

	return DefaultConfig()
}

// WithConfig replaces the process-default configuration for this
// invocation.
func WithConfig(cfg *Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithRefPath overrides the identity-derived reference location. An
// absolute path is used as-is; a relative one lives under the
// configured reference root.
func WithRefPath(path string) Option {
	return func(s *settings) {
		s.refPath = path
	}
}

// WithFlavor places the reference under an extra subdirectory, so one
// test can keep several reference variants.
func WithFlavor(flavor string) Option {
	return func(s *settings) {
		s.flavor = flavor
	}
}

// WithReplacements appends replacement rules, applied after the
// implicit $PRJ and $GEN rules in the order given.
func WithReplacements(rules ...Replacement) Option {
	return func(s *settings) {
		for _, rule := range rules {
			s.rules = append(s.rules, rule.rule)
		}
	}
}

// WithExcludes appends exclusion patterns to the configured defaults.
func WithExcludes(patterns ...string) Option {
	return func(s *settings) {
		s.excludes = append(s.excludes, patterns...)
	}
}

// WithStdout includes the captured stdout text as stdout.txt in the
// snapshot.
func WithStdout(text string) Option {
	return func(s *settings) {
		s.stdout = &text
	}
}

// WithStderr includes the captured stderr text as stderr.txt in the
// snapshot.
func WithStderr(text string) Option {
	return func(s *settings) {
		s.stderr = &text
	}
}

// WithLogRecords includes the captured log lines as logging.txt in the
// snapshot, one line per record in order. Supplying no records still
// produces an empty logging.txt.
func WithLogRecords(records ...LogRecord) Option {
	return func(s *settings) {
		s.logs = make([]m.LogRecord, 0, len(records))
		for _, record := range records {
			s.logs = append(s.logs, m.LogRecord(record))
		}
	}
}
