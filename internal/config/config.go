package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/quocvuong92/x-cli/internal/constants"
)

// Environment variable names
const (
	// Completion provider settings
	EnvAPIToken   = "OPENAI_TOKEN"
	EnvAPIBaseURL = "OPENAI_BASE_URL"
	EnvModel      = "X_MODEL"

	// Execution settings
	EnvShell      = "X_SHELL"
	EnvLoginShell = "SHELL"

	// Credential settings
	EnvTokenFile = "X_TOKEN_FILE"
	EnvSetupURL  = "X_SETUP_URL"

	// Logging
	EnvLogLevel = "X_LOG_LEVEL"
)

// TokenFileName is the name of the stored token file
const TokenFileName = "token"

// Defaults - re-exported from constants for convenience
const (
	DefaultAPIBaseURL = constants.DefaultAPIBaseURL
	DefaultModel      = constants.DefaultModel
	DefaultSetupURL   = constants.DefaultSetupURL
	DefaultShell      = constants.DefaultShell
	DefaultLogLevel   = constants.DefaultLogLevel
)

// Errors
var (
	ErrInvalidBaseURL  = errors.New("invalid API base URL. Set OPENAI_BASE_URL to an http(s) URL")
	ErrInvalidSetupURL = errors.New("invalid setup URL. Set X_SETUP_URL to an http(s) URL")
	ErrNoHomeDir       = errors.New("could not determine home directory for the token file")
)

// Config holds the application configuration
type Config struct {
	// Completion provider settings
	APIBaseURL string
	APIToken   string // Only from the config file; env and token file are read by auth
	Model      string

	// Shell used to launch accepted commands
	Shell string

	// Credential settings
	TokenFile string
	SetupURL  string

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// User risk rules, from the config file only
	TrustPatterns []string
	WarnPatterns  []string

	// Flags
	Verbose bool

	// ConfigPath is the file the configuration was loaded from, if any
	ConfigPath string
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{}
}

// Validate loads the configuration file and environment, fills defaults,
// and checks the result. Values already set (from flags) win.
func (c *Config) Validate() error {
	// Environment fills what flags left empty
	c.APIBaseURL = firstNonEmpty(c.APIBaseURL, os.Getenv(EnvAPIBaseURL))
	c.Model = firstNonEmpty(c.Model, os.Getenv(EnvModel))
	c.Shell = firstNonEmpty(c.Shell, os.Getenv(EnvShell))
	c.SetupURL = firstNonEmpty(c.SetupURL, os.Getenv(EnvSetupURL))
	c.TokenFile = firstNonEmpty(c.TokenFile, os.Getenv(EnvTokenFile))
	if c.Verbose {
		c.LogLevel = "debug"
	}
	c.LogLevel = firstNonEmpty(c.LogLevel, os.Getenv(EnvLogLevel))

	// Config file only fills what is still empty (lowest priority)
	if fileConfig, path, err := LoadConfigFile(); err == nil {
		c.ApplyFileConfig(fileConfig)
		c.ConfigPath = path
	}
	// Errors loading config file are silently ignored - env vars and flags take precedence

	c.APIBaseURL = firstNonEmpty(c.APIBaseURL, DefaultAPIBaseURL)
	c.APIBaseURL = strings.TrimSuffix(strings.TrimSpace(c.APIBaseURL), "/")
	if !isHTTPURL(c.APIBaseURL) {
		return ErrInvalidBaseURL
	}

	c.Model = firstNonEmpty(c.Model, DefaultModel)
	// The login shell is a fallback, not an override of the config file
	c.Shell = firstNonEmpty(c.Shell, os.Getenv(EnvLoginShell), DefaultShell)

	c.SetupURL = firstNonEmpty(c.SetupURL, DefaultSetupURL)
	if !isHTTPURL(c.SetupURL) {
		return ErrInvalidSetupURL
	}

	if c.TokenFile == "" {
		path, err := DefaultTokenPath()
		if err != nil {
			return err
		}
		c.TokenFile = path
	}
	c.TokenFile = expandHome(c.TokenFile)

	c.LogLevel = firstNonEmpty(c.LogLevel, DefaultLogLevel)
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}

	return nil
}

// CompletionsURL returns the full URL of the completions endpoint
func (c *Config) CompletionsURL() string {
	return fmt.Sprintf("%s/completions", c.APIBaseURL)
}

// DefaultTokenPath returns where a fetched token is stored
func DefaultTokenPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "", ErrNoHomeDir
	}
	return filepath.Join(homeDir, ".local", "share", "x", TokenFileName), nil
}

// expandHome replaces a leading "~/" with the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
