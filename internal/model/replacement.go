package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ReplacementKind tags the matcher variant of a Replacement.
type ReplacementKind int

const (
	// ReplaceLiteral matches an exact substring. Literal rules apply to
	// both path segments and file content.
	ReplaceLiteral ReplacementKind = iota
	// ReplacePath matches a path prefix followed by a path-shaped
	// remainder. Path rules apply to file content only.
	ReplacePath
	// ReplaceRegexp matches a caller-supplied regular expression,
	// applied to file content verbatim.
	ReplaceRegexp
)

// Replacement pairs a matcher with its replacement text. Rules apply in
// list order; each rule runs as one full pass over content already
// rewritten by the rules before it.
type Replacement struct {
	Kind    ReplacementKind
	Search  string         // literal and path kinds
	Pattern *regexp.Regexp // regexp kind
	Replace string
}

// NewLiteral builds a literal-string replacement rule.
func NewLiteral(search, replace string) Replacement {
	return Replacement{Kind: ReplaceLiteral, Search: search, Replace: replace}
}

// NewPath builds a path-prefix replacement rule.
func NewPath(path Path, replace string) Replacement {
	return Replacement{Kind: ReplacePath, Search: string(path), Replace: replace}
}

// NewRegexp builds a raw regular-expression replacement rule. The
// replacement string keeps regexp.ReplaceAllString semantics, so $1
// style references work.
func NewRegexp(pattern *regexp.Regexp, replace string) Replacement {
	return Replacement{Kind: ReplaceRegexp, Pattern: pattern, Replace: replace}
}

// ContentRule is a compiled content substitution pass: a regular
// expression plus the function that rewrites one full content string.
type ContentRule struct {
	re      *regexp.Regexp
	replace string
	capture bool
}

// Compile lowers the replacement to its content form.
//
// A literal compiles to the exact string followed by an empty capture
// group. A path compiles to the exact path followed by a capture group
// greedily matching word characters and path separators, so one rule
// rewrites the prefix and carries the remainder along. A regexp is used
// as-is.
func (r Replacement) Compile() ContentRule {
	switch r.Kind {
	case ReplacePath:
		re := regexp.MustCompile(regexp.QuoteMeta(r.Search) + "(" + pathRemainderClass() + "*)")
		return ContentRule{re: re, replace: r.Replace, capture: true}
	case ReplaceRegexp:
		return ContentRule{re: r.Pattern, replace: r.Replace}
	default:
		re := regexp.MustCompile(regexp.QuoteMeta(r.Search) + "()")
		return ContentRule{re: re, replace: r.Replace, capture: true}
	}
}

// Apply runs the rule once over the whole content and returns the
// rewritten string. Captured path remainders have OS separators
// normalized to a single forward slash before reinsertion.
func (c ContentRule) Apply(content string) string {
	if !c.capture {
		return c.re.ReplaceAllString(content, c.replace)
	}

	return c.re.ReplaceAllStringFunc(content, func(match string) string {
		groups := c.re.FindStringSubmatch(match)
		remainder := ""
		if len(groups) > 1 {
			remainder = strings.ReplaceAll(groups[1], string(filepath.Separator), "/")
		}

		return c.replace + remainder
	})
}

// pathRemainderClass returns the character class for the remainder that
// may follow a matched path prefix: word characters plus the path
// separators in use on this platform.
func pathRemainderClass() string {
	class := "[A-Za-z0-9_" + regexp.QuoteMeta(string(filepath.Separator))
	if filepath.Separator != '/' {
		class += "/"
	}

	return class + "]"
}
