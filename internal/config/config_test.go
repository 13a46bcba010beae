package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/selflayer/selflayer-cli/internal/constants"
)

// chdir moves into an empty temp dir so a developer's real
// ./.selflayer/config.yaml cannot leak into tests.
func chdir(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func isolate(t *testing.T) {
	t.Helper()
	chdir(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvTimeout, "")
}

func TestValidateDefaults(t *testing.T) {
	isolate(t)

	c := &Config{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.BaseURL != constants.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", c.BaseURL)
	}
	if c.Timeout != constants.DefaultAPITimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, constants.DefaultAPITimeout)
	}
	if c.PageSize != constants.DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", c.PageSize, constants.DefaultPageSize)
	}
}

func TestValidateEnvOverridesFile(t *testing.T) {
	isolate(t)

	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "selflayer")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "base_url: https://file.example.com/api\npage_size: 50\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBaseURL, "https://env.example.com/api/")

	c := &Config{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.BaseURL != "https://env.example.com/api" {
		t.Errorf("BaseURL = %q, want env value without trailing slash", c.BaseURL)
	}
	if c.PageSize != 50 {
		t.Errorf("PageSize = %d, want file value 50", c.PageSize)
	}
}

func TestValidateTimeoutFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTimeout, "45")

	c := &Config{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s from env", c.Timeout)
	}

	// A flag-set timeout wins over the environment.
	c = &Config{Timeout: 5 * time.Second}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want flag value 5s", c.Timeout)
	}

	// Garbage falls back to the default.
	t.Setenv(EnvTimeout, "soon")
	c = &Config{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.Timeout != constants.DefaultAPITimeout {
		t.Errorf("Timeout = %v, want default for bad env value", c.Timeout)
	}
}

func TestValidateFlagOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvBaseURL, "https://env.example.com/api")

	c := &Config{BaseURL: "https://flag.example.com/api"}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if c.BaseURL != "https://flag.example.com/api" {
		t.Errorf("BaseURL = %q, want flag value", c.BaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"bad scheme", Config{BaseURL: "ftp://example.com"}, ErrInvalidBaseURL},
		{"page size too large", Config{PageSize: 1000}, ErrInvalidPageSize},
		{"negative page size", Config{PageSize: -1}, ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Validate(); err != tt.want {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestApplyFileConfigDoesNotOverride(t *testing.T) {
	c := &Config{BaseURL: "https://set.example.com", PageSize: 5, Timeout: 10 * time.Second}
	c.ApplyFileConfig(&FileConfig{
		BaseURL:        "https://file.example.com",
		PageSize:       50,
		TimeoutSeconds: 99,
	})

	if c.BaseURL != "https://set.example.com" {
		t.Errorf("BaseURL overridden by file config: %q", c.BaseURL)
	}
	if c.PageSize != 5 {
		t.Errorf("PageSize overridden by file config: %d", c.PageSize)
	}
	if c.Timeout != 10*time.Second {
		t.Errorf("Timeout overridden by file config: %v", c.Timeout)
	}
}

func TestApplyFileConfigNil(t *testing.T) {
	c := NewConfig()
	c.ApplyFileConfig(nil) // must not panic
}
