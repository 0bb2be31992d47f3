// Package config handles configuration loading and management for Quorum.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for Quorum.
type Config struct {
	Queue      QueueConfig      `mapstructure:"queue" yaml:"queue"`
	Dispatch   DispatchConfig   `mapstructure:"dispatch" yaml:"dispatch"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds" yaml:"thresholds"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// QueueConfig holds queue health monitor settings.
type QueueConfig struct {
	// Window is the rolling window over which arrival and completion
	// rates are measured.
	Window time.Duration `mapstructure:"window" yaml:"window"`
	// BackpressureThreshold is the utilization at which low-priority
	// work starts getting deferred.
	BackpressureThreshold float64 `mapstructure:"backpressure_threshold" yaml:"backpressure_threshold"`
}

// DispatchConfig holds dispatcher settings.
type DispatchConfig struct {
	// DefaultTimeout bounds tasks that carry no timeout of their own.
	DefaultTimeout time.Duration `mapstructure:"default_timeout" yaml:"default_timeout"`
	// EventBuffer sizes the coordinator event channel.
	EventBuffer int `mapstructure:"event_buffer" yaml:"event_buffer"`
}

// ThresholdsConfig holds per-category decomposition thresholds.
type ThresholdsConfig struct {
	ReactComponent float64 `mapstructure:"react_component" yaml:"react_component"`
	FileEditing    float64 `mapstructure:"file_editing" yaml:"file_editing"`
	Research       float64 `mapstructure:"research" yaml:"research"`
	CodeGeneration float64 `mapstructure:"code_generation" yaml:"code_generation"`
}

// LoggingConfig holds debug logging settings.
type LoggingConfig struct {
	// DebugLog is the path of the debug log file; empty disables it.
	DebugLog string `mapstructure:"debug_log" yaml:"debug_log"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (QUORUM_*)
// 2. Project config (.quorum.yaml in current directory or parent)
// 3. User config (~/.config/quorum/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.SetEnvPrefix("QUORUM")
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	out, err := Export(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, out, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Export renders the configuration as YAML.
func Export(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Queue defaults
	v.SetDefault("queue.window", "1m")
	v.SetDefault("queue.backpressure_threshold", 0.85)

	// Dispatch defaults
	v.SetDefault("dispatch.default_timeout", "2m")
	v.SetDefault("dispatch.event_buffer", 100)

	// Decomposition threshold defaults
	v.SetDefault("thresholds.react_component", 50.0)
	v.SetDefault("thresholds.file_editing", 30.0)
	v.SetDefault("thresholds.research", 40.0)
	v.SetDefault("thresholds.code_generation", 60.0)

	// Logging defaults
	v.SetDefault("logging.debug_log", "")
}

// getUserConfigDir returns the XDG config directory for Quorum.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "quorum")
	}

	// Fall back to ~/.config/quorum
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "quorum")
	}
	return filepath.Join(home, ".config", "quorum")
}

// findProjectConfig searches for .quorum.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".quorum.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Queue: QueueConfig{
			Window:                time.Minute,
			BackpressureThreshold: 0.85,
		},
		Dispatch: DispatchConfig{
			DefaultTimeout: 2 * time.Minute,
			EventBuffer:    100,
		},
		Thresholds: ThresholdsConfig{
			ReactComponent: 50.0,
			FileEditing:    30.0,
			Research:       40.0,
			CodeGeneration: 60.0,
		},
	}
}
