// Package auth manages the SelfLayer API key: a plaintext credential file
// under the user's data directory, with the SELFLAYER_API_KEY environment
// variable taking precedence.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvAPIKey is the environment variable checked before the key file.
const EnvAPIKey = "SELFLAYER_API_KEY"

// API keys issued by SelfLayer carry one of these prefixes.
var keyPrefixes = []string{"sl_live_", "sl_test_"}

// GetKeyPath returns the path where the API key is stored
func GetKeyPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "selflayer", "api-key"), nil
}

// ValidateKey checks that a key has the expected SelfLayer format.
func ValidateKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	for _, prefix := range keyPrefixes {
		if strings.HasPrefix(key, prefix) {
			return nil
		}
	}
	return fmt.Errorf("invalid API key format: SelfLayer keys start with 'sl_live_' or 'sl_test_'")
}

// SaveKey writes the API key to disk with restricted permissions.
func SaveKey(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	keyPath, err := GetKeyPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(keyPath, []byte(strings.TrimSpace(key)), 0600); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}

	return nil
}

// LoadKey returns the effective API key: the environment variable if set,
// otherwise the stored key file. An empty string means no key is configured;
// that is not an error at startup.
func LoadKey() string {
	if envKey := strings.TrimSpace(os.Getenv(EnvAPIKey)); envKey != "" {
		return envKey
	}

	keyPath, err := GetKeyPath()
	if err != nil {
		return ""
	}

	data, err := os.ReadFile(keyPath)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

// DeleteKey removes the stored API key file. The environment variable,
// if set, is untouched and will still be used.
func DeleteKey() error {
	keyPath, err := GetKeyPath()
	if err != nil {
		return err
	}

	if err := os.Remove(keyPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}

// HasKey reports whether an API key is available from any source.
func HasKey() bool {
	return LoadKey() != ""
}

// FromEnv reports whether the effective key comes from the environment.
func FromEnv() bool {
	return strings.TrimSpace(os.Getenv(EnvAPIKey)) != ""
}

// MaskKey returns a display-safe form of the key.
func MaskKey(key string) string {
	if key == "" {
		return "not set"
	}
	if len(key) < 12 {
		return "***"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
