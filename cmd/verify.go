package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"refdata.dev/internal/domain"
	m "refdata.dev/internal/model"
)

// verifyReportFileName is the report written into the output directory.
const verifyReportFileName = "verify.yaml"

var verifyParallelFlag int

// verifyCmd represents the verify command.
var verifyCmd = newVerifyCmd()

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify REF=GEN [REF=GEN...]",
		Short: "Compare several reference/generated pairs",
		Long:  verifyLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parsePairs(args)
			if err != nil {
				return err
			}

			report, err := workflow.Verify(cmd.Context(), domain.VerifyArgs{
				Pairs:    pairs,
				Excludes: mergedExcludes(nil),
				Threads:  viper.GetInt(parallelConfigKey),
			})
			if err != nil {
				return err
			}

			reportPath := m.Path(filepath.Join(viper.GetString(outputFlagName), verifyReportFileName))
			if err := reportStore.SaveReport(reportPath, report); err != nil {
				return err
			}

			if err := ui.DisplaySummary(report); err != nil {
				return err
			}

			if !report.Clean() {
				cmd.SilenceUsage = true
				return fmt.Errorf("%d of %d pairs differ", failedCount(report), len(report.Results))
			}

			return nil
		},
	}

	configureVerifyFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func configureVerifyFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&verifyParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of pairs compared in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)
}

// parsePairs splits REF=GEN arguments into verify pairs.
func parsePairs(args []string) ([]domain.VerifyPair, error) {
	pairs := make([]domain.VerifyPair, 0, len(args))

	for _, arg := range args {
		ref, gen, ok := strings.Cut(arg, "=")
		if !ok || ref == "" || gen == "" {
			return nil, fmt.Errorf("invalid pair %q, expected REF=GEN", arg)
		}

		pairs = append(pairs, domain.VerifyPair{Ref: m.Path(ref), Gen: m.Path(gen)})
	}

	return pairs, nil
}

// failedCount counts the pairs that did not compare clean.
func failedCount(report *m.VerifyReport) int {
	failed := 0
	for _, result := range report.Results {
		if !result.Clean {
			failed++
		}
	}

	return failed
}
