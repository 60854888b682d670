// Package config handles configuration loading and validation for recall.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration. Everything has a working
// default; the config file only exists for tuning.
type Config struct {
	// Budget is the character budget for the compiled context document.
	// Claude Code truncates additionalContext around 10k chars; the default
	// stays well under.
	Budget int `yaml:"budget"`

	AgentDir string `yaml:"agent_dir"`
	TaskFile string `yaml:"task_file"`

	Memory    MemoryConfig   `yaml:"memory"`
	Snapshots SnapshotConfig `yaml:"snapshots"`

	// WriteMode lets the stop hook auto-complete tasks when tests pass.
	// Off by default; also switchable via RECALL_WRITE_MODE=1.
	WriteMode bool `yaml:"write_mode"`
}

// MemoryConfig caps how much of each memory category reaches the compiler.
type MemoryConfig struct {
	MaxConstraints  int `yaml:"max_constraints"`
	MaxFailures     int `yaml:"max_failures"`
	MaxStrategies   int `yaml:"max_strategies"`
	ConstraintChars int `yaml:"constraint_chars"`
	FailureChars    int `yaml:"failure_chars"`
	StrategyChars   int `yaml:"strategy_chars"`
	SummaryChars    int `yaml:"summary_chars"`
}

// SnapshotConfig controls pre-compact snapshot size and retention.
type SnapshotConfig struct {
	Keep        int `yaml:"keep"`
	MaxChars    int `yaml:"max_chars"`
	MaxMessages int `yaml:"max_messages"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Budget:   6000,
		AgentDir: ".agent",
		TaskFile: "feature_list.json",
		Memory: MemoryConfig{
			MaxConstraints:  3,
			MaxFailures:     3,
			MaxStrategies:   2,
			ConstraintChars: 200,
			FailureChars:    400,
			StrategyChars:   300,
			SummaryChars:    1500,
		},
		Snapshots: SnapshotConfig{
			Keep:        10,
			MaxChars:    50000,
			MaxMessages: 20,
		},
	}
}

// Load reads configuration from the given path. If the path is empty or the
// file doesn't exist, defaults are returned.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if os.Getenv("RECALL_WRITE_MODE") == "1" {
		cfg.WriteMode = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
