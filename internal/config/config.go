// Package config layers application settings from three sources in
// increasing priority: config file, environment variables, CLI flags.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/selflayer/selflayer-cli/internal/constants"
)

// Environment variable names
const (
	EnvBaseURL = "SELFLAYER_BASE_URL"
	EnvTimeout = "SELFLAYER_TIMEOUT" // seconds, buffered calls
)

// Errors
var (
	ErrInvalidBaseURL  = errors.New("base URL must start with http:// or https://")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

// Config holds the application configuration
type Config struct {
	// BaseURL is the API endpoint, without a trailing slash.
	BaseURL string

	// Timeout applies to buffered API calls. Streaming calls use
	// StreamTimeout instead.
	Timeout       time.Duration
	StreamTimeout time.Duration

	// PageSize is the number of items per listing page.
	PageSize int

	// ContextLimit is how many knowledge items accompany an ask request.
	ContextLimit int

	// Flags
	Render  bool // render responses as markdown
	Verbose bool // debug logging
}

// NewConfig creates a new Config. Fields left at their zero value are
// filled from the environment, the config file, and finally the
// built-in defaults when Validate runs.
func NewConfig() *Config {
	return &Config{Render: true}
}

// Validate loads lower-priority sources and checks the resulting config.
// Flag values already set on c are never overwritten.
func (c *Config) Validate() error {
	// Environment fills values flags left unset, then the config file
	// fills whatever remains. Errors loading the file are silently
	// ignored; env vars and flags still apply.
	if c.BaseURL == "" {
		c.BaseURL = strings.TrimSpace(os.Getenv(EnvBaseURL))
	}
	if c.Timeout <= 0 {
		if secs, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvTimeout))); err == nil && secs > 0 {
			c.Timeout = time.Duration(secs) * time.Second
		}
	}
	if fileConfig, err := LoadConfigFile(); err == nil {
		c.ApplyFileConfig(fileConfig)
	}

	if c.BaseURL == "" {
		c.BaseURL = constants.DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		c.Timeout = constants.DefaultAPITimeout
	}
	if c.StreamTimeout <= 0 {
		c.StreamTimeout = constants.DefaultStreamTimeout
	}

	if c.PageSize == 0 {
		c.PageSize = constants.DefaultPageSize
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return ErrInvalidPageSize
	}

	if c.ContextLimit <= 0 {
		c.ContextLimit = constants.DefaultContextLimit
	}

	return nil
}
