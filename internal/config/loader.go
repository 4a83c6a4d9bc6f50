package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"raccoon/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/raccoon"
	configFileName = "config.yaml"

	// ClientSecretEnv overrides rdpc.clientSecret.
	ClientSecretEnv = "RDPC_CLIENT_SECRET"
)

// Overridable in tests.
var (
	osUserHomeDir = os.UserHomeDir
	lookupEnv     = os.LookupEnv
)

// GetDefaultConfigPath returns ~/.config/raccoon.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

func GetDefaultConfigPathOrPanic() string {
	path, err := GetDefaultConfigPath()
	if err != nil {
		panic(err)
	}
	return path
}

// ConfigFilePath returns the location of config.yaml inside configPath.
func ConfigFilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads config.yaml from configPath on top of the defaults,
// applies environment overrides and validates the result. A missing file
// yields the defaults.
func LoadConfig(configPath string) (RaccoonConfig, error) {
	configFilePath := ConfigFilePath(configPath)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("Config", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return RaccoonConfig{}, NewConfigurationErrorWithDetails(configFilePath, ErrorTypeIO,
			"failed to read configuration file", err.Error(), nil)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return RaccoonConfig{}, NewConfigurationErrorWithDetails(configFilePath, ErrorTypeParse,
				"malformed configuration file", err.Error(),
				[]string{"check indentation and field names against the documented layout"})
		}
		logging.Info("Config", "Loaded configuration from %s", configFilePath)
	}

	if secret, ok := lookupEnv(ClientSecretEnv); ok && secret != "" {
		config.RDPC.ClientSecret = secret
		logging.Debug("Config", "Using RDPC client secret from %s", ClientSecretEnv)
	}

	applyImplicitDefaults(&config)

	if err := Validate(config, configFilePath); err != nil {
		return RaccoonConfig{}, err
	}
	return config, nil
}
