package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file
const ConfigFileName = "config.yaml"

// FileConfig represents the configuration file structure
type FileConfig struct {
	// API settings
	BaseURL        string `yaml:"base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`

	// Listing settings
	PageSize     int `yaml:"page_size,omitempty"`
	ContextLimit int `yaml:"context_limit,omitempty"`

	// Default flags
	Defaults *DefaultsConfig `yaml:"defaults,omitempty"`
}

// DefaultsConfig holds default flag values
type DefaultsConfig struct {
	Render  bool `yaml:"render,omitempty"`
	Verbose bool `yaml:"verbose,omitempty"`
}

// GetConfigPaths returns the paths to check for config files (in order of priority)
func GetConfigPaths() []string {
	var paths []string

	// 1. Current directory
	paths = append(paths, filepath.Join(".", ".selflayer", ConfigFileName))

	// 2. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "selflayer", ConfigFileName))
	}

	// 3. Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "selflayer", ConfigFileName))
	}

	return paths
}

// LoadConfigFile attempts to load configuration from a file
func LoadConfigFile() (*FileConfig, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return loadConfigFromPath(path)
		}
	}

	// No config file found, return empty config
	return &FileConfig{}, nil
}

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

// ApplyFileConfig applies file configuration to the main Config.
// File config has lower priority than environment variables and CLI flags,
// so only values still at their zero state are filled in.
func (c *Config) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}

	if c.BaseURL == "" && fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if c.Timeout == 0 && fc.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}
	if c.PageSize == 0 && fc.PageSize > 0 {
		c.PageSize = fc.PageSize
	}
	if c.ContextLimit == 0 && fc.ContextLimit > 0 {
		c.ContextLimit = fc.ContextLimit
	}

	// Boolean defaults only promote false to true; a true flag value
	// cannot be distinguished from an unset one.
	if fc.Defaults != nil {
		if fc.Defaults.Render && !c.Render {
			c.Render = true
		}
		if fc.Defaults.Verbose && !c.Verbose {
			c.Verbose = true
		}
	}
}

// CreateDefaultConfigFile creates a commented config file at the user
// config directory and returns its path.
func CreateDefaultConfigFile() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine config directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "selflayer")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}

	defaultConfig := `# SelfLayer CLI Configuration
# Location: ~/.config/selflayer/config.yaml

# API endpoint (also settable via SELFLAYER_BASE_URL)
# base_url: https://api.selflayer.com/api/v1

# Per-request timeout for non-streaming calls
# timeout_seconds: 30

# Items fetched per listing page (1-100)
# page_size: 20

# Knowledge items sent as context with /ask
# context_limit: 10

# Default flags for interactive mode
# defaults:
#   render: true
#   verbose: false
`

	if err := os.WriteFile(path, []byte(defaultConfig), 0600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
