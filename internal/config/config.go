// Package config reads process-level options from a YAML file in the
// user config directory. User-facing settings live in the data store;
// this file only carries what has to be known before the store is open.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config contains process-level runtime options.
type Config struct {
	DataDir        string
	ForegroundPoll time.Duration
	IdlePoll       time.Duration
	Debug          bool
}

type yamlConfig struct {
	DataDir              string `yaml:"data_dir"`
	ForegroundPollMillis int    `yaml:"foreground_poll_millis"`
	IdlePollSeconds      int    `yaml:"idle_poll_seconds"`
	Debug                bool   `yaml:"debug"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		ForegroundPoll: 500 * time.Millisecond,
		IdlePoll:       10 * time.Second,
	}
}

// Load reads the config file for the given app name. A missing file
// yields the defaults.
func Load(appName string) (Config, error) {
	config := DefaultConfig()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return config, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlConfig(&config, fileData)
	return config, nil
}

// Save writes the config file for the given app name.
func Save(appName string, config Config) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlConfig{
		DataDir:              config.DataDir,
		ForegroundPollMillis: int(config.ForegroundPoll / time.Millisecond),
		IdlePollSeconds:      int(config.IdlePoll / time.Second),
		Debug:                config.Debug,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ResolveDataDir returns the directory holding the data document: the
// configured one if set, otherwise a per-app directory under the user
// config dir.
func (config Config) ResolveDataDir(appName string) (string, error) {
	if config.DataDir != "" {
		return config.DataDir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

func applyYamlConfig(config *Config, fileData yamlConfig) {
	if fileData.DataDir != "" {
		config.DataDir = fileData.DataDir
	}
	if fileData.ForegroundPollMillis > 0 {
		config.ForegroundPoll = time.Duration(fileData.ForegroundPollMillis) * time.Millisecond
	}
	if fileData.IdlePollSeconds > 0 {
		config.IdlePoll = time.Duration(fileData.IdlePollSeconds) * time.Second
	}
	config.Debug = fileData.Debug
}
