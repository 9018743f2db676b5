// Package config handles configuration loading and validation for gatekeep.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/colonyops/gatekeep/internal/core/styles"
	"gopkg.in/yaml.v3"
)

// FileName is the config file gatekeep looks for.
const FileName = "gatekeep.yaml"

// Config holds the application configuration. Every field has a working
// default, so running without a config file is fully supported.
type Config struct {
	// Root is the directory scanned for files to process.
	Root string `yaml:"root"`
	// Extension selects which files are processed, compared
	// case-insensitively against the end of each filename.
	Extension string `yaml:"extension"`
	// BackupSuffix is appended to a file's path to form its backup path.
	BackupSuffix string `yaml:"backup_suffix"`
	// Exclude lists doublestar patterns matched against paths relative to
	// Root; matching files are skipped.
	Exclude []string `yaml:"exclude"`
	// Workers bounds how many files are processed concurrently.
	Workers int `yaml:"workers"`
	// SkipUnchanged skips the backup and rewrite for files that already
	// carry both scripts. Off by default: a run re-backs-up and rewrites
	// every file it finds, even when nothing was inserted.
	SkipUnchanged bool `yaml:"skip_unchanged"`
	// Theme selects the output color palette.
	Theme string `yaml:"theme"`

	// Path is where the config was loaded from; empty when running on
	// defaults. Set by Load, not from the file.
	Path string `yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Root:         ".",
		Extension:    ".html",
		BackupSuffix: ".bak",
		Exclude:      []string{},
		Workers:      1,
		Theme:        styles.DefaultTheme,
	}
}

// Load reads configuration from the given path. A missing file is not an
// error; defaults apply and overrides merge on top.
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

			cfg.Path = configPath
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Root == "" {
		c.Root = defaults.Root
	}
	if c.Extension == "" {
		c.Extension = defaults.Extension
	}
	if c.BackupSuffix == "" {
		c.BackupSuffix = defaults.BackupSuffix
	}
	if c.Workers == 0 {
		c.Workers = defaults.Workers
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// DefaultPath returns the config path used when --config is not given:
// gatekeep.yaml in the working directory when present, otherwise the user
// config directory.
func DefaultPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, "gatekeep", FileName)
}
