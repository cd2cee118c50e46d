package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default settings file location.
const EnvConfigPath = "DSWEEP_CONFIG"

// Settings is the on-disk configuration file.
type Settings struct {
	// LogLevel is a zerolog level name ("debug", "info", ...).
	LogLevel string `yaml:"log_level,omitempty"`

	// LogFile enables rotating file logging when non-empty.
	LogFile string `yaml:"log_file,omitempty"`

	// LogMaxSizeMB and LogMaxAgeDays tune log rotation.
	LogMaxSizeMB  int `yaml:"log_max_size_mb,omitempty"`
	LogMaxAgeDays int `yaml:"log_max_age_days,omitempty"`

	// Protected lists wildcard patterns or directories that are never
	// scanned or deleted.
	Protected []string `yaml:"protected,omitempty"`

	// Categories replaces the built-in catalog when non-empty.
	Categories []Category `yaml:"categories,omitempty"`
}

// DefaultPath returns the settings file path used when none is given.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "drivesweep", "config.yaml")
}

// Load reads settings from path. A missing file yields zero settings when
// explicit is false, so a fresh install runs with built-in defaults.
func Load(path string, explicit bool) (Settings, error) {
	var s Settings
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return s, nil
		}
		return s, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse config %s: %w", path, err)
	}
	return s, nil
}

// Catalog returns the configured catalog, falling back to DefaultCatalog.
func (s Settings) Catalog() (Catalog, error) {
	if len(s.Categories) == 0 {
		return DefaultCatalog(), nil
	}
	return NewCatalog(s.Categories)
}
