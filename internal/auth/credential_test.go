package auth

import (
	"os"
	"strings"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"live key", "sl_live_abc123def456", false},
		{"test key", "sl_test_abc123def456", false},
		{"padded key", "  sl_live_abc123def456  ", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"wrong prefix", "sk_live_abc123", true},
		{"no prefix", "abc123def456", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadDeleteKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIKey, "")

	if HasKey() {
		t.Fatal("HasKey() = true before any key saved")
	}

	if err := SaveKey("sl_test_roundtrip1234"); err != nil {
		t.Fatalf("SaveKey() error = %v", err)
	}

	if got := LoadKey(); got != "sl_test_roundtrip1234" {
		t.Errorf("LoadKey() = %q, want %q", got, "sl_test_roundtrip1234")
	}

	keyPath, err := GetKeyPath()
	if err != nil {
		t.Fatalf("GetKeyPath() error = %v", err)
	}
	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatalf("key file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("key file permissions = %o, want 0600", perm)
	}

	if err := DeleteKey(); err != nil {
		t.Fatalf("DeleteKey() error = %v", err)
	}
	if HasKey() {
		t.Error("HasKey() = true after delete")
	}

	// Deleting twice must not fail.
	if err := DeleteKey(); err != nil {
		t.Errorf("DeleteKey() on missing file error = %v", err)
	}
}

func TestSaveKeyRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SaveKey("not-a-selflayer-key"); err == nil {
		t.Fatal("SaveKey() accepted an invalid key")
	}
	if HasKey() {
		t.Error("invalid key was persisted")
	}
}

func TestEnvTakesPrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SaveKey("sl_test_fromfile0000"); err != nil {
		t.Fatalf("SaveKey() error = %v", err)
	}
	t.Setenv(EnvAPIKey, "sl_live_fromenv00000")

	if got := LoadKey(); got != "sl_live_fromenv00000" {
		t.Errorf("LoadKey() = %q, want env value", got)
	}
	if !FromEnv() {
		t.Error("FromEnv() = false with env set")
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", "not set"},
		{"short", "sl_live", "***"},
		{"normal", "sl_live_abcdef123456", "sl_live_...3456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaskKey(tt.key)
			if got != tt.want {
				t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
			if tt.key != "" && len(tt.key) >= 12 && strings.Contains(got, tt.key[8:len(tt.key)-4]) {
				t.Errorf("MaskKey(%q) leaked the middle of the key", tt.key)
			}
		})
	}
}
