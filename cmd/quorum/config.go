package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quorumhq/quorum/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify Quorum configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/quorum/config.yaml
Project-specific overrides can be placed in .quorum.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("queue.window: %s\n", cfg.Queue.Window)
	fmt.Printf("queue.backpressure_threshold: %g\n", cfg.Queue.BackpressureThreshold)
	fmt.Printf("dispatch.default_timeout: %s\n", cfg.Dispatch.DefaultTimeout)
	fmt.Printf("dispatch.event_buffer: %d\n", cfg.Dispatch.EventBuffer)
	fmt.Printf("thresholds.react_component: %g\n", cfg.Thresholds.ReactComponent)
	fmt.Printf("thresholds.file_editing: %g\n", cfg.Thresholds.FileEditing)
	fmt.Printf("thresholds.research: %g\n", cfg.Thresholds.Research)
	fmt.Printf("thresholds.code_generation: %g\n", cfg.Thresholds.CodeGeneration)
	fmt.Printf("logging.debug_log: %s\n", displayPath(cfg.Logging.DebugLog))
}

func displayPath(p string) string {
	if p == "" {
		return "(not set)"
	}
	return p
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "queue.window":
		return cfg.Queue.Window.String(), nil
	case "queue.backpressure_threshold":
		return strconv.FormatFloat(cfg.Queue.BackpressureThreshold, 'g', -1, 64), nil
	case "dispatch.default_timeout":
		return cfg.Dispatch.DefaultTimeout.String(), nil
	case "dispatch.event_buffer":
		return strconv.Itoa(cfg.Dispatch.EventBuffer), nil
	case "thresholds.react_component":
		return strconv.FormatFloat(cfg.Thresholds.ReactComponent, 'g', -1, 64), nil
	case "thresholds.file_editing":
		return strconv.FormatFloat(cfg.Thresholds.FileEditing, 'g', -1, 64), nil
	case "thresholds.research":
		return strconv.FormatFloat(cfg.Thresholds.Research, 'g', -1, 64), nil
	case "thresholds.code_generation":
		return strconv.FormatFloat(cfg.Thresholds.CodeGeneration, 'g', -1, 64), nil
	case "logging.debug_log":
		return displayPath(cfg.Logging.DebugLog), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "queue.window":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for queue.window: %w", err)
		}
		cfg.Queue.Window = d
	case "queue.backpressure_threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for backpressure_threshold: %w", err)
		}
		cfg.Queue.BackpressureThreshold = f
	case "dispatch.default_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for default_timeout: %w", err)
		}
		cfg.Dispatch.DefaultTimeout = d
	case "dispatch.event_buffer":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for event_buffer: %w", err)
		}
		cfg.Dispatch.EventBuffer = n
	case "thresholds.react_component":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for thresholds.react_component: %w", err)
		}
		cfg.Thresholds.ReactComponent = f
	case "thresholds.file_editing":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for thresholds.file_editing: %w", err)
		}
		cfg.Thresholds.FileEditing = f
	case "thresholds.research":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for thresholds.research: %w", err)
		}
		cfg.Thresholds.Research = f
	case "thresholds.code_generation":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for thresholds.code_generation: %w", err)
		}
		cfg.Thresholds.CodeGeneration = f
	case "logging.debug_log":
		cfg.Logging.DebugLog = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
