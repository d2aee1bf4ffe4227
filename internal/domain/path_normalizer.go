package domain

import (
	"path/filepath"
	"strings"

	"refdata.dev/internal/adapter"
	m "refdata.dev/internal/model"
)

// PathNormalizer renames files and directories whose names contain a
// literal match of a replacement rule's search term. Only literal rules
// apply to path segments; path and regexp rules are content-only.
type PathNormalizer struct {
	fs adapter.TreeFSAdapter
}

// NewPathNormalizer constructs a PathNormalizer backed by the provided
// filesystem adapter.
func NewPathNormalizer(fs adapter.TreeFSAdapter) *PathNormalizer {
	return &PathNormalizer{fs: fs}
}

// Normalize walks the tree below root with an explicit stack, renaming
// entries as it goes. A directory is renamed first and its children are
// enumerated afterwards under the new name, so pending work is never
// invalidated by an ancestor rename. The root itself is never renamed.
func (n *PathNormalizer) Normalize(root m.Path, rules []m.Replacement) error {
	literals := literalRules(rules)

	stack := []m.Path{root}
	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		renamed, err := n.rename(root, path, literals)
		if err != nil {
			return err
		}

		info, err := n.fs.FileInfo(renamed)
		if err != nil {
			return err
		}

		if !info.IsDir() {
			continue
		}

		entries, err := n.fs.ReadDir(renamed)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			stack = append(stack, m.Path(filepath.Join(string(renamed), entry.Name())))
		}
	}

	return nil
}

// rename applies every literal rule to the entry's name, in rule order,
// and moves the entry if the name changed. It returns the path the
// entry lives at afterwards.
func (n *PathNormalizer) rename(root, path m.Path, literals []m.Replacement) (m.Path, error) {
	if path == root {
		return path, nil
	}

	name := filepath.Base(string(path))
	newName := name
	for _, rule := range literals {
		newName = strings.ReplaceAll(newName, rule.Search, rule.Replace)
	}

	if newName == name {
		return path, nil
	}

	newPath := m.Path(filepath.Join(filepath.Dir(string(path)), newName))
	if err := n.fs.Rename(path, newPath); err != nil {
		return "", err
	}

	return newPath, nil
}

// literalRules filters the rule list down to the literal-string rules
// that are allowed to touch path segments.
func literalRules(rules []m.Replacement) []m.Replacement {
	var literals []m.Replacement
	for _, rule := range rules {
		if rule.Kind == m.ReplaceLiteral {
			literals = append(literals, rule)
		}
	}

	return literals
}
