// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestLevelString verifies level names.
func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

// TestNew_ZeroConfig verifies a zero-value Config produces a usable logger.
func TestNew_ZeroConfig(t *testing.T) {
	logger := New(Config{})
	if logger == nil {
		t.Fatal("New(Config{}) returned nil")
	}
	if logger.Slog() == nil {
		t.Fatal("underlying slog.Logger is nil")
	}
	// Must not panic.
	logger.Info("test message", "key", "value")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on file-less logger failed: %v", err)
	}
}

// TestNew_FileLogging verifies file creation and JSON format.
func TestNew_FileLogging(t *testing.T) {
	tempDir := t.TempDir()

	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  tempDir,
		Service: "benchmatrix-test",
		Quiet:   true,
	})
	logger.Info("campaign started", "tasks", 4)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	wantFile := filepath.Join(tempDir,
		"benchmatrix-test_"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(wantFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	line := strings.TrimSpace(string(data))
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log file line is not JSON: %v", err)
	}
	if entry["msg"] != "campaign started" {
		t.Errorf("msg = %v, want %q", entry["msg"], "campaign started")
	}
	if entry["service"] != "benchmatrix-test" {
		t.Errorf("service = %v, want %q", entry["service"], "benchmatrix-test")
	}
	if entry["tasks"] != float64(4) {
		t.Errorf("tasks = %v, want 4", entry["tasks"])
	}
}

// TestNew_LevelFilter verifies messages below the minimum level are
// discarded.
func TestNew_LevelFilter(t *testing.T) {
	tempDir := t.TempDir()

	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  tempDir,
		Service: "filter-test",
		Quiet:   true,
	})
	logger.Debug("dropped")
	logger.Info("also dropped")
	logger.Warn("kept")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	wantFile := filepath.Join(tempDir,
		"filter-test_"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(wantFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "dropped") {
		t.Error("log file contains filtered messages")
	}
	if !strings.Contains(content, "kept") {
		t.Error("log file is missing the Warn message")
	}
}

// TestWith verifies child loggers carry their attributes.
func TestWith(t *testing.T) {
	tempDir := t.TempDir()

	logger := New(Config{
		LogDir:  tempDir,
		Service: "with-test",
		Quiet:   true,
	})
	child := logger.With("run_id", "abc-123")
	child.Info("task finished")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	wantFile := filepath.Join(tempDir,
		"with-test_"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(wantFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "abc-123") {
		t.Error("child logger attribute missing from output")
	}
}

// TestDefault verifies the default logger configuration.
func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Fatal("Default() returned nil")
	}
	if logger.config.Service != "benchmatrix" {
		t.Errorf("Service = %q, want %q", logger.config.Service, "benchmatrix")
	}
	if logger.config.Level != LevelInfo {
		t.Errorf("Level = %v, want LevelInfo", logger.config.Level)
	}
}

// TestExpandPath verifies ~ expansion.
func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	if got := expandPath("~/logs"); got != filepath.Join(home, "logs") {
		t.Errorf("expandPath(~/logs) = %q", got)
	}
	if got := expandPath("/var/log"); got != "/var/log" {
		t.Errorf("expandPath(/var/log) = %q, want unchanged", got)
	}
}
