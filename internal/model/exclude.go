package model

import "path/filepath"

// ExcludeSet is an ordered collection of glob patterns matched against
// single path segments, never full paths. A file or directory whose
// name matches any pattern is dropped from copy, prune and diff
// operations; a matching directory is dropped wholesale.
type ExcludeSet []string

// Merge returns a new set holding the receiver's patterns followed by
// the extra ones. The receiver is not modified.
func (e ExcludeSet) Merge(extra ...string) ExcludeSet {
	merged := make(ExcludeSet, 0, len(e)+len(extra))
	merged = append(merged, e...)
	merged = append(merged, extra...)

	return merged
}

// Match reports whether name matches any pattern in the set. A
// malformed pattern surfaces filepath.Match's error unmodified.
func (e ExcludeSet) Match(name string) (bool, error) {
	for _, pattern := range e {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return false, err
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}
