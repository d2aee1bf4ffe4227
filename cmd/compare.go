package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"refdata.dev/internal/domain"
	m "refdata.dev/internal/model"
)

// compareCmd represents the compare command.
var compareCmd = newCompareCmd()

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare REF GEN",
		Short: "Compare a generated tree against a reference tree",
		Long:  compareLongDescription,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			refPath := m.Path(args[0])
			genPath := m.Path(args[1])

			if viper.GetBool(refLearnConfigKey) {
				return workflow.Learn(refPath, genPath)
			}

			err := workflow.ComparePaths(refPath, genPath, mergedExcludes(nil))

			var mismatch *domain.MismatchError
			if errors.As(err, &mismatch) {
				if uiErr := ui.DisplayDiff(mismatch.Report); uiErr != nil {
					return uiErr
				}

				cmd.SilenceUsage = true
			}

			return err
		},
	}

	configureCompareFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func configureCompareFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&compareUpdateFlag, updateFlagName, "u", viper.GetBool(refLearnConfigKey), "record GEN as the new reference instead of comparing")
	bindFlagToConfig(cmd.Flags().Lookup(updateFlagName), refLearnConfigKey)
}

// compareUpdateFlag switches compare into learning mode.
var compareUpdateFlag bool
