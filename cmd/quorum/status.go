package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quorumhq/quorum/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show effective configuration and environment",
	Long: `Display where configuration is loaded from and the effective
pipeline settings. Runtime pool state lives in the embedding process;
use the run command's summary output to inspect a live pipeline.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	bold := color.New(color.Bold)

	bold.Println("Configuration sources")
	fmt.Printf("  user:    %s\n", config.GetUserConfigPath())
	project := config.GetProjectConfigPath()
	if project == "" {
		project = "(none found)"
	}
	fmt.Printf("  project: %s\n", project)

	fmt.Println()
	bold.Println("Effective settings")
	fmt.Printf("  queue window:           %s\n", cfg.Queue.Window)
	fmt.Printf("  backpressure threshold: %g\n", cfg.Queue.BackpressureThreshold)
	fmt.Printf("  default timeout:        %s\n", cfg.Dispatch.DefaultTimeout)
	fmt.Printf("  event buffer:           %d\n", cfg.Dispatch.EventBuffer)
	fmt.Printf("  debug log:              %s\n", displayPath(cfg.Logging.DebugLog))

	return nil
}
