package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "refdata.dev/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "View a previously generated verify report",
		Long:  "View a previously generated verify report from the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			reportPath := m.Path(filepath.Join(viper.GetString(outputFlagName), verifyReportFileName))

			report, err := reportStore.LoadReport(reportPath)
			if err != nil {
				return err
			}

			return ui.DisplaySummary(report)
		},
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
