package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file
const ConfigFileName = "config.yaml"

// FileConfig represents the configuration file structure
type FileConfig struct {
	// Completion provider settings
	API *APIConfig `yaml:"api,omitempty"`

	// Shell used to launch accepted commands
	Shell string `yaml:"shell,omitempty"`

	// Credential settings
	TokenFile string `yaml:"token_file,omitempty"`
	SetupURL  string `yaml:"setup_url,omitempty"`

	// Logging
	LogLevel string `yaml:"log_level,omitempty"`

	// Risk rules layered over the built-in command classifier
	Rules *RulesConfig `yaml:"rules,omitempty"`
}

// RulesConfig holds user command patterns
type RulesConfig struct {
	Trust []string `yaml:"trust,omitempty"` // never warn
	Warn  []string `yaml:"warn,omitempty"`  // always warn, wins over trust
}

// APIConfig holds completion provider configuration
type APIConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
	Token   string `yaml:"token,omitempty"`
}

// GetConfigPaths returns the paths to check for config files (in order of priority)
func GetConfigPaths() []string {
	var paths []string

	// 1. Current directory
	paths = append(paths, filepath.Join(".", ".x", ConfigFileName))

	// 2. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "x", ConfigFileName))
	}

	// 3. Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "x", ConfigFileName))
	}

	return paths
}

// LoadConfigFile loads the first config file found and returns it along
// with its path. An empty config and path are returned when none exists.
func LoadConfigFile() (*FileConfig, string, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := loadConfigFromPath(path)
			return cfg, path, err
		}
	}

	return &FileConfig{}, "", nil
}

// loadConfigFromPath loads config from a specific path
func loadConfigFromPath(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyFileConfig applies file configuration to the main Config
// File config has lower priority than environment variables and CLI flags
func (c *Config) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}

	if fc.API != nil {
		if c.APIBaseURL == "" && fc.API.BaseURL != "" {
			c.APIBaseURL = fc.API.BaseURL
		}
		if c.Model == "" && fc.API.Model != "" {
			c.Model = fc.API.Model
		}
		if c.APIToken == "" && fc.API.Token != "" {
			c.APIToken = fc.API.Token
		}
	}

	if c.Shell == "" && fc.Shell != "" {
		c.Shell = fc.Shell
	}
	if c.TokenFile == "" && fc.TokenFile != "" {
		c.TokenFile = fc.TokenFile
	}
	if c.SetupURL == "" && fc.SetupURL != "" {
		c.SetupURL = fc.SetupURL
	}
	if c.LogLevel == "" && fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.Rules != nil {
		c.TrustPatterns = fc.Rules.Trust
		c.WarnPatterns = fc.Rules.Warn
	}
}

// CreateDefaultConfigFile creates a default config file at the user config directory
func CreateDefaultConfigFile() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine config directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "x")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}

	defaultConfig := `# x configuration
# Location: ~/.config/x/config.yaml

# Completion provider
# api:
#   base_url: https://api.openai.com/v1
#   model: gpt-3.5-turbo-instruct
#   token: sk-...   # OPENAI_TOKEN and the token file take precedence

# Shell used to run accepted commands (default: $SHELL, then /bin/sh)
# shell: /bin/bash

# Where 'x init' stores the fetched token (default: ~/.local/share/x/token)
# token_file: ~/.local/share/x/token
# setup_url: https://fant.io/x

# Log level: debug, info, warn, error, none
# log_level: none

# Suggestion warnings. Patterns: exact, prefix, "git:*" or "kubectl delete *".
# rules:
#   warn:
#     - "kubectl delete *"
#     - "git push --force*"
#   trust:
#     - "rm -rf ./build*"
`

	if err := os.WriteFile(path, []byte(defaultConfig), 0600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
