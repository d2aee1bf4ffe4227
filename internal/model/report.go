package model

// DiffKind categorizes a single difference found during tree comparison.
type DiffKind string

const (
	// DiffOnlyInRef marks an entry present in the reference tree only.
	DiffOnlyInRef DiffKind = "only-in-ref"
	// DiffOnlyInGen marks an entry present in the generated tree only.
	DiffOnlyInGen DiffKind = "only-in-gen"
	// DiffContent marks a file whose content differs between trees.
	DiffContent DiffKind = "content"
	// DiffType marks an entry that is a directory on one side and a
	// regular file on the other.
	DiffType DiffKind = "type"
)

// DiffEntry describes one difference between reference and generated
// trees.
type DiffEntry struct {
	Path string // path relative to the compared roots
	Kind DiffKind
}

// CompareReport is the outcome of comparing one reference/generated
// tree pair. Diff holds the full human-readable diff text; it is the
// literal message of a mismatch failure.
type CompareReport struct {
	Ref     Path
	Gen     Path
	Entries []DiffEntry
	Diff    string
}

// Clean reports whether the comparison found no differences.
func (r *CompareReport) Clean() bool {
	return len(r.Entries) == 0
}

// VerifyResult is the persisted outcome of one pair in a verify run.
type VerifyResult struct {
	Ref   string `yaml:"ref"`
	Gen   string `yaml:"gen"`
	Clean bool   `yaml:"clean"`
	Diff  string `yaml:"diff,omitempty"`
	Error string `yaml:"error,omitempty"`
}

// VerifyReport is the persisted result of a verify run over several
// reference/generated pairs.
type VerifyReport struct {
	Results []VerifyResult `yaml:"results"`
}

// Clean reports whether every pair in the run compared clean.
func (r *VerifyReport) Clean() bool {
	for _, result := range r.Results {
		if !result.Clean {
			return false
		}
	}

	return true
}
