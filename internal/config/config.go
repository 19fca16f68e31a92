// Package config resolves client configuration from, in increasing
// precedence: built-in defaults, ~/.shelfctl/config.yaml, and the
// SHELFCTL_SERVER environment variable. Command-line flags override all
// of these at the call site.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// ClientConfig holds configuration for the shelfctl client.
type ClientConfig struct {
	Server    string        `yaml:"server"`     // Backend API root
	Timeout   time.Duration `yaml:"timeout"`    // Per-request timeout
	LogLevel  string        `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string        `yaml:"log_format"` // text, json
}

// Default returns the built-in defaults.
func Default() ClientConfig {
	return ClientConfig{
		Server:    "http://localhost:5000/api",
		Timeout:   15 * time.Second,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load resolves the effective configuration. A missing config file is
// fine; a malformed one is an error so a typo does not silently fall back
// to defaults.
func Load() (ClientConfig, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".shelfctl", configFileName)
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if s := os.Getenv("SHELFCTL_SERVER"); s != "" {
		cfg.Server = s
	}
	return cfg, nil
}

// LoadFile resolves configuration from an explicit file path plus the
// environment. Used by tests and the --config flag.
func LoadFile(path string) (ClientConfig, error) {
	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		return cfg, err
	}
	if s := os.Getenv("SHELFCTL_SERVER"); s != "" {
		cfg.Server = s
	}
	return cfg, nil
}

func loadFile(path string, cfg *ClientConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
