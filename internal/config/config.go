// Package config loads the optional YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user defaults; command line flags override all of them.
type Config struct {
	// Backend restricts discovery to backends whose name contains this
	// string (same as the -b flag).
	Backend string `yaml:"backend,omitempty"`

	// Notify sends a desktop notification after switch operations.
	Notify bool `yaml:"notify,omitempty"`

	// Wake nudges the system awake before switching.
	Wake bool `yaml:"wake,omitempty"`

	// SettleMS is the pause after each DDC write, in milliseconds.
	SettleMS int `yaml:"settle_ms,omitempty"`

	// Aliases maps custom designator names to raw input source codes,
	// e.g. "thunderbolt: 27". Names are case-insensitive and shadow the
	// built-in ones.
	Aliases map[string]uint16 `yaml:"aliases,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{SettleMS: 50}
}

// Path returns the default config file location,
// e.g. ~/.config/ddcswitch/config.yaml on Linux.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ddcswitch", "config.yaml"), nil
}

// Load reads the config file at path. A missing file yields the defaults;
// a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.SettleMS < 0 {
		cfg.SettleMS = 0
	}
	return cfg, nil
}
