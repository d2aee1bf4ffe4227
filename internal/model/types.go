// Package model defines the data structures for reference-data testing.
package model

import (
	"fmt"
	"path/filepath"
)

// Path represents a file system path.
type Path string

// Identity identifies one test invocation. It determines where the
// reference tree for that invocation lives:
// <ref_root>/<module>/<function>[/<flavor>].
type Identity struct {
	Module   string
	Function string
	Flavor   string
}

// RefPath resolves the reference directory for the identity below root.
func (id Identity) RefPath(root Path) Path {
	elems := []string{string(root), id.Module, id.Function}
	if id.Flavor != "" {
		elems = append(elems, id.Flavor)
	}

	return Path(filepath.Join(elems...))
}

// LogRecord is one captured log line destined for logging.txt.
type LogRecord struct {
	Level   string
	Name    string
	Message string
}

// Line renders the record in the fixed logging.txt format: the level
// name padded to 7 characters, the logger name and the message, two
// spaces apart.
func (r LogRecord) Line() string {
	return fmt.Sprintf("%-7s  %s  %s\n", r.Level, r.Name, r.Message)
}
