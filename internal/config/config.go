// Package config resolves the tiermem home directory and loads the
// optional config.yaml inside it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tiermem/tiermem/internal/model"
)

// Config is the on-disk configuration. Every field has a working
// default; a missing config.yaml is not an error.
type Config struct {
	Migration model.MigrationPolicy `yaml:"migration"`
	Workspace WorkspaceConfig       `yaml:"workspace"`
}

// WorkspaceConfig controls workspace maintenance (memory-file rotation
// and log cleanup).
type WorkspaceConfig struct {
	ArchiveThresholdLines int `yaml:"archive_threshold_lines"`
	LogMaxAgeDays         int `yaml:"log_max_age_days"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Migration: model.DefaultMigrationPolicy(),
		Workspace: WorkspaceConfig{
			ArchiveThresholdLines: 200,
			LogMaxAgeDays:         90,
		},
	}
}

// Home returns the tiermem home directory: $TIERMEM_HOME, or
// ~/.tiermem.
func Home() string {
	if env := os.Getenv("TIERMEM_HOME"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tiermem"
	}
	return filepath.Join(home, ".tiermem")
}

// StoreDir returns the directory holding the tier databases.
func StoreDir() string {
	return filepath.Join(Home(), "store")
}

// Path returns the config file location inside home.
func Path() string {
	return filepath.Join(Home(), "config.yaml")
}

// Load reads the config at path, filling defaults for absent fields. A
// nonexistent file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Migration.HotToWarmDays <= 0 {
		cfg.Migration.HotToWarmDays = model.DefaultMigrationPolicy().HotToWarmDays
	}
	if cfg.Migration.WarmToColdDays <= 0 {
		cfg.Migration.WarmToColdDays = model.DefaultMigrationPolicy().WarmToColdDays
	}
	if cfg.Migration.MaxHotEntries <= 0 {
		cfg.Migration.MaxHotEntries = model.DefaultMigrationPolicy().MaxHotEntries
	}
	if cfg.Workspace.ArchiveThresholdLines <= 0 {
		cfg.Workspace.ArchiveThresholdLines = Default().Workspace.ArchiveThresholdLines
	}
	if cfg.Workspace.LogMaxAgeDays <= 0 {
		cfg.Workspace.LogMaxAgeDays = Default().Workspace.LogMaxAgeDays
	}
	return cfg, nil
}
