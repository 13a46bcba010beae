package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"off", LevelNone},
		{"garbage", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below level were logged: %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("messages at or above level were dropped: %q", out)
	}
	if !strings.Contains(out, `error="boom"`) {
		t.Errorf("error detail missing from output: %q", out)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Info("request done", Fields{"status": 200})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("level = %q, want INFO", entry.Level)
	}
	if entry.Message != "request done" {
		t.Errorf("message = %q, want %q", entry.Message, "request done")
	}
	if entry.Fields["status"] != float64(200) {
		t.Errorf("fields[status] = %v, want 200", entry.Fields["status"])
	}
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer sl_live_secret")
	h.Set("X-Api-Key", "sl_test_secret")
	h.Set("Content-Type", "application/json")

	redacted := redactHeaders(h)

	if redacted["Authorization"] != "[REDACTED]" {
		t.Errorf("Authorization not redacted: %q", redacted["Authorization"])
	}
	if redacted["X-Api-Key"] != "[REDACTED]" {
		t.Errorf("X-Api-Key not redacted: %q", redacted["X-Api-Key"])
	}
	if redacted["Content-Type"] != "application/json" {
		t.Errorf("Content-Type mangled: %q", redacted["Content-Type"])
	}
}
