package domain

import (
	"os"

	"refdata.dev/internal/adapter"
	m "refdata.dev/internal/model"
)

// BinarySniffer decides from a content sample whether a file is binary
// and therefore exempt from content substitution.
type BinarySniffer func(sample []byte) bool

// ContentNormalizer rewrites text file content by applying replacement
// rules in order. Each rule runs as one full pass over the file, so
// later rules see the output of earlier ones.
type ContentNormalizer struct {
	fs       adapter.TreeFSAdapter
	isBinary BinarySniffer
}

// NewContentNormalizer constructs a ContentNormalizer. A nil sniffer
// falls back to the default content-sniffing heuristic.
func NewContentNormalizer(fs adapter.TreeFSAdapter, sniffer BinarySniffer) *ContentNormalizer {
	if sniffer == nil {
		sniffer = adapter.IsBinary
	}

	return &ContentNormalizer{fs: fs, isBinary: sniffer}
}

// Normalize applies every rule's content form to each text file below
// root. A file is written back only if at least one substitution
// changed it. Binary files are detected by content sniffing, never by
// extension, and are left untouched.
func (n *ContentNormalizer) Normalize(root m.Path, rules []m.Replacement) error {
	compiled := make([]m.ContentRule, 0, len(rules))
	for _, rule := range rules {
		compiled = append(compiled, rule.Compile())
	}

	return n.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return n.normalizeFile(m.Path(path), info.Mode(), compiled)
	})
}

// normalizeFile runs all compiled rules over one file.
func (n *ContentNormalizer) normalizeFile(path m.Path, mode os.FileMode, compiled []m.ContentRule) error {
	data, err := n.fs.ReadFile(path)
	if err != nil {
		return err
	}

	if n.isBinary(data) {
		return nil
	}

	content := string(data)
	rewritten := content
	for _, rule := range compiled {
		rewritten = rule.Apply(rewritten)
	}

	if rewritten == content {
		return nil
	}

	return n.fs.WriteFile(path, []byte(rewritten), mode)
}
