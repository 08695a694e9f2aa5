// Package config loads the shell's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the shell configuration.
type Config struct {
	Prompt  string        `yaml:"prompt"`
	Quiet   bool          `yaml:"quiet"`
	Debug   bool          `yaml:"debug"`
	Notify  bool          `yaml:"notify"` // report background job start and completion
	History HistoryConfig `yaml:"history"`
}

// HistoryConfig controls the SQLite history of executed lines.
type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	MaxEntries int    `yaml:"max_entries"` // 0 keeps everything
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jobsh", "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Notify: true,
		History: HistoryConfig{
			Enabled:    true,
			Path:       filepath.Join(home, ".jobsh_history.sqlite"),
			MaxEntries: 10000,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// JOBSH_PROMPT and JOBSH_DEBUG override the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if prompt := os.Getenv("JOBSH_PROMPT"); prompt != "" {
		cfg.Prompt = prompt
	}
	if os.Getenv("JOBSH_DEBUG") != "" {
		cfg.Debug = true
	}
	return cfg, nil
}
