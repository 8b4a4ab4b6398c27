// Package config loads the tp configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config controls where tp looks for TaskPaper files and where the
// search index lives. An empty IndexPath means the db package default.
type Config struct {
	Dir        string   `yaml:"dir"`
	IndexPath  string   `yaml:"index"`
	Extensions []string `yaml:"extensions"`
}

// Default returns the built-in configuration: TaskPaper files under
// the home directory, the default index location, and the .taskpaper
// extension.
func Default() *Config {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}
	return &Config{
		Dir:        dir,
		Extensions: []string{".taskpaper"},
	}
}

// DefaultPath returns the default config file path (~/.tp/config.yaml).
// The TP_CONFIG environment variable overrides it.
func DefaultPath() (string, error) {
	if custom := os.Getenv("TP_CONFIG"); custom != "" {
		return custom, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tp", "config.yaml"), nil
}

// Load reads the config file at path, overlaying its values on the
// defaults. A missing file is not an error; it just means defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file (%s): %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Expand `~` in paths
	cfg.Dir = expandHome(cfg.Dir)
	cfg.IndexPath = expandHome(cfg.IndexPath)

	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".taskpaper"}
	}

	return cfg, nil
}

// expandHome resolves a leading `~` to the home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
