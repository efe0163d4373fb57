package logger

import (
	"errors"
	"log/slog"
	"os"
	"testing"
)

func TestScope(t *testing.T) {
	tests := []struct {
		name  string
		scope string
	}{
		{"component scope", "autolink.engine"},
		{"nested scope", "graph.repo"},
		{"empty scope", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := Scope(tt.scope)
			if attr.Key != "scope" {
				t.Errorf("Scope() key = %q, want %q", attr.Key, "scope")
			}
			if attr.Value.String() != tt.scope {
				t.Errorf("Scope() value = %q, want %q", attr.Value.String(), tt.scope)
			}
		})
	}
}

func TestError(t *testing.T) {
	err := errors.New("vector index unreachable")
	attr := Error(err)
	if attr.Key != "error" {
		t.Errorf("Error() key = %q, want %q", attr.Key, "error")
	}
	if attr.Value.Any() != err {
		t.Errorf("Error() value = %v, want %v", attr.Value.Any(), err)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	origLevel := os.Getenv("LOG_LEVEL")
	defer func() {
		if origLevel == "" {
			os.Unsetenv("LOG_LEVEL")
		} else {
			os.Setenv("LOG_LEVEL", origLevel)
		}
	}()

	tests := []struct {
		level    string
		enabled  slog.Level
		disabled *slog.Level
	}{
		{"", slog.LevelInfo, nil},
		{"debug", slog.LevelDebug, nil},
		{"warn", slog.LevelWarn, levelPtr(slog.LevelInfo)},
		{"warning", slog.LevelWarn, levelPtr(slog.LevelInfo)},
		{"error", slog.LevelError, levelPtr(slog.LevelWarn)},
	}

	for _, tt := range tests {
		t.Run("LOG_LEVEL="+tt.level, func(t *testing.T) {
			if tt.level == "" {
				os.Unsetenv("LOG_LEVEL")
			} else {
				os.Setenv("LOG_LEVEL", tt.level)
			}

			log := NewLogger()
			if log == nil {
				t.Fatal("NewLogger() returned nil")
			}
			if !log.Enabled(nil, tt.enabled) {
				t.Errorf("level %v should be enabled for LOG_LEVEL=%s", tt.enabled, tt.level)
			}
			if tt.disabled != nil && log.Enabled(nil, *tt.disabled) {
				t.Errorf("level %v should be disabled for LOG_LEVEL=%s", *tt.disabled, tt.level)
			}
		})
	}
}

func levelPtr(l slog.Level) *slog.Level { return &l }
