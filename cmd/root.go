// Package cmd provides the root command and CLI setup for refdata.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"refdata.dev/internal/adapter"
	"refdata.dev/internal/controller"
	"refdata.dev/internal/domain"
	m "refdata.dev/internal/model"
)

var fsAdapter adapter.TreeFSAdapter
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that
// read/write verify reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag filtering files on both sides of
// every comparison.
var excludePatterns []string

// interactiveFlag selects the scrollable diff viewer instead of plain
// text output.
var interactiveFlag bool

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalTreeFSAdapter()
	reportStore = adapter.NewReportStore()
	workflow = domain.NewWorkflow(fsAdapter, nil)
	ui = controller.NewUI(rootCmd, viper.GetBool(interactiveFlagName) && controller.IsTTY(os.Stdout))
}

const rootLongDescription = `Refdata compares directory trees of generated test artifacts against
learned reference trees. References live in plain directories meant to
be committed to version control; any deviation is reported as a full,
line-level diff.

A reference is (re)recorded with the learn command, or automatically
when a ` + markerFileName + ` marker file exists in the working directory.`

const compareLongDescription = `Compare a generated directory tree against a reference tree.

Exclusion patterns apply to single path segments on both sides. The
command exits non-zero and prints the full diff on any mismatch.`

const verifyLongDescription = `Compare several REF=GEN directory pairs in one run.

Pairs are compared in parallel and the outcome is written as a YAML
report to the output directory for later viewing.`

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refdata",
		Short: "Reference-data comparison tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogger("", verboseFlag)

			// The flag values are only known after parsing, so the UI
			// choice happens here rather than in init.
			ui = controller.NewUI(cmd.Root(), viper.GetBool(interactiveFlagName) && controller.IsTTY(os.Stdout))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for verify run reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude entries whose name matches glob pattern (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&interactiveFlag, interactiveFlagName, "i", viper.GetBool(interactiveFlagName), "show mismatches in a scrollable diff viewer")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(interactiveFlagName), interactiveFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env
// values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// mergedExcludes combines the configured exclusion patterns with extras
// given on the command line.
func mergedExcludes(extra []string) m.ExcludeSet {
	return m.ExcludeSet(viper.GetStringSlice(excludeConfigKey)).Merge(extra...)
}
