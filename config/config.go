// Package config loads engine configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the hexaequo service.
type Config struct {
	// Listen is the HTTP listen address of the command/query API.
	Listen string `yaml:"listen" env:"HEXAEQUO_LISTEN"`
	// DatabasePath is the SQLite file holding saved games. Empty disables
	// persistence.
	DatabasePath string `yaml:"database_path" env:"HEXAEQUO_DB"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"HEXAEQUO_LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Listen:   ":8080",
		LogLevel: "info",
	}
}

// Load reads the YAML file at path (skipped when path is empty), then applies
// environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
