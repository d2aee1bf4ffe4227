// Package controller provides output adapters for displaying
// comparison results.
package controller

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "refdata.dev/internal/model"
)

// UI defines the interface for displaying comparison outcomes.
// Implementations can use different output methods (simple text, TUI).
type UI interface {
	// DisplayDiff shows the diff text of one failed comparison.
	DisplayDiff(report *m.CompareReport) error

	// DisplaySummary shows a per-pair summary of a verify run.
	DisplaySummary(report *m.VerifyReport) error
}

// NewUI picks the UI implementation: the interactive diff viewer on a
// terminal, plain text otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewDiffViewer(os.Stdout)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the file is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
