package controller

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "refdata.dev/internal/model"
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayDiff prints the diff text preceded by a per-entry summary
// table.
func (s *SimpleUI) DisplayDiff(report *m.CompareReport) error {
	if report.Clean() {
		s.printf("trees match: %s == %s\n", report.Ref, report.Gen)
		return nil
	}

	s.printf("\n%s", renderEntryTable(report.Entries))
	s.printf("\n%s", report.Diff)

	return nil
}

// DisplaySummary prints a per-pair table for a verify run.
func (s *SimpleUI) DisplaySummary(report *m.VerifyReport) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Reference", "Generated", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	clean := 0

	for _, result := range report.Results {
		status := "FAIL"

		switch {
		case result.Error != "":
			status = "ERROR"
		case result.Clean:
			status = "OK"
			clean++
		}

		table.Append([]string{result.Ref, result.Gen, status})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(report.Results)),
		"",
		fmt.Sprintf("%d OK", clean),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

// renderEntryTable renders the structural summary of one comparison.
func renderEntryTable(entries []m.DiffEntry) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Difference"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, entry := range entries {
		table.Append([]string{entry.Path, string(entry.Kind)})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Differences %d", len(entries)), ""})
	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...any) {
	s.cmd.Printf(format, args...)
}
