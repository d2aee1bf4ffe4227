package cmd

import (
	"github.com/spf13/cobra"

	m "refdata.dev/internal/model"
)

// learnCmd represents the learn command.
var learnCmd = newLearnCmd()

func newLearnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "learn REF GEN",
		Short: "Record a generated tree as the new reference",
		Long: `Replace the reference tree at REF with the contents of GEN. The old
reference is removed first, so the result mirrors GEN exactly.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Learn(m.Path(args[0]), m.Path(args[1]))
		},
	}
}

func init() {
	rootCmd.AddCommand(learnCmd)
}
