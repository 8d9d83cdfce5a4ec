package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < YAML file < machine
// INI < flags. The result is validated.
func Load() (*Config, error) {
	// Explicit paths take priority over the standard locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}
	machinePath := MachinePath()
	if machinePath == "" {
		machinePath = findMachineFile()
	}

	cfg, err := LoadFrom(configPath, machinePath)
	if err != nil {
		return nil, err
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFrom layers the given YAML and machine INI files over the
// defaults. Empty paths are skipped. Flags are not applied and the
// result is not validated.
func LoadFrom(configPath, machinePath string) (*Config, error) {
	cfg := Default()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}
	if machinePath != "" {
		if err := loadMachine(cfg, machinePath); err != nil {
			return nil, fmt.Errorf("loading machine from %s: %w", machinePath, err)
		}
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "XBurn")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "XBurn")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "xburn")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "xburn")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
