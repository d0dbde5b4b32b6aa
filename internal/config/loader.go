package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"calman/pkg/logging"
)

const (
	userConfigDir  = ".config/calman"
	configFileName = "config.yaml"
)

// DefaultConfigPath returns ~/.config/calman/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// LoadConfig reads the configuration file at path over the defaults. A
// missing file is not an error. The result is validated.
func LoadConfig(path string) (Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "No config.yaml found at %s, using defaults", path)
			return config, nil
		}
		return Config{}, fmt.Errorf("error reading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logging.Debug("Config", "Loaded configuration from %s", path)
	return config, nil
}
