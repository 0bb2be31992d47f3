package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quorum",
	Short: "Admission-controlled task orchestration",
	Long: `Quorum coordinates a pool of workers through a task pipeline:
analysis, decomposition, admission-controlled dispatch, and arbitration
of competing outputs.

Core capabilities:
- Classifies and scores tasks, splitting complex ones into subtasks
- Defers low-priority work when queue utilization crosses the threshold
- Routes subtasks to workers by specialty and tool availability
- Scores competing outputs and issues a single arbitration verdict`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
