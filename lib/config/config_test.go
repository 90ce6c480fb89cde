// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.RotateSignal != RotateHangup {
		t.Errorf("expected rotate_signal=SIGHUP, got %v", cfg.RotateSignal)
	}
	if cfg.DrainTimeout != DefaultDrainTimeout {
		t.Errorf("expected drain_timeout=%v, got %v", DefaultDrainTimeout, cfg.DrainTimeout)
	}
	if !cfg.SdNotify {
		t.Error("expected sd_notify=true")
	}
	if cfg.WatchPaths {
		t.Error("expected watch_paths=false")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log_level=info, got %s", cfg.LogLevel)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "logwrap.yaml")

	configContent := `
stdout_path: /var/log/app/out.log
stderr_path: /var/log/app/err.log
pid_file: /run/app.pid
rotate_signal: usr1
state_file: /run/app.state
drain_timeout: 250ms
watch_paths: true
sd_notify: false
log_level: debug
command: ["/usr/bin/app", "--serve"]
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.StdoutPath != "/var/log/app/out.log" {
		t.Errorf("expected stdout_path=/var/log/app/out.log, got %s", cfg.StdoutPath)
	}
	if cfg.StderrPath != "/var/log/app/err.log" {
		t.Errorf("expected stderr_path=/var/log/app/err.log, got %s", cfg.StderrPath)
	}
	if cfg.PidFile != "/run/app.pid" {
		t.Errorf("expected pid_file=/run/app.pid, got %s", cfg.PidFile)
	}
	if cfg.RotateSignal != RotateUser1 {
		t.Errorf("expected rotate_signal=SIGUSR1, got %v", cfg.RotateSignal)
	}
	if cfg.StateFile != "/run/app.state" {
		t.Errorf("expected state_file=/run/app.state, got %s", cfg.StateFile)
	}
	if cfg.DrainTimeout != 250*time.Millisecond {
		t.Errorf("expected drain_timeout=250ms, got %v", cfg.DrainTimeout)
	}
	if !cfg.WatchPaths {
		t.Error("expected watch_paths=true")
	}
	if cfg.SdNotify {
		t.Error("expected sd_notify=false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level=debug, got %s", cfg.LogLevel)
	}
	if len(cfg.Command) != 2 || cfg.Command[0] != "/usr/bin/app" || cfg.Command[1] != "--serve" {
		t.Errorf("unexpected command: %q", cfg.Command)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed on loaded config: %v", err)
	}
}

func TestLoadFile_KeepsDefaultsForMissingKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "logwrap.yaml")

	if err := os.WriteFile(configPath, []byte("stdout_path: /tmp/out.log\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.DrainTimeout != DefaultDrainTimeout {
		t.Errorf("expected default drain_timeout, got %v", cfg.DrainTimeout)
	}
	if !cfg.SdNotify {
		t.Error("expected default sd_notify=true")
	}
}

func TestLoadFile_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "logwrap.yaml")

	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed on empty file: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log_level, got %s", cfg.LogLevel)
	}
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "logwrap.yaml")

	if err := os.WriteFile(configPath, []byte("stdout_pth: /tmp/out.log\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadFile(configPath); err == nil {
		t.Fatal("expected error for misspelled key, got nil")
	}
}

func TestLoadFile_InvalidRotateSignal(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "logwrap.yaml")

	if err := os.WriteFile(configPath, []byte("rotate_signal: SIGKILL\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadFile(configPath); err == nil {
		t.Fatal("expected error for SIGKILL rotate signal, got nil")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestVariableExpansion(t *testing.T) {
	t.Setenv("LOGWRAP_TEST_DIR", "/srv/app")
	t.Setenv("LOGWRAP_TEST_UNSET", "")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "logwrap.yaml")

	configContent := `
stdout_path: ${LOGWRAP_TEST_DIR}/out.log
stderr_path: ${LOGWRAP_TEST_UNSET:-/var/log}/err.log
pid_file: ${LOGWRAP_TEST_UNSET}/app.pid
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.StdoutPath != "/srv/app/out.log" {
		t.Errorf("expected stdout_path=/srv/app/out.log, got %s", cfg.StdoutPath)
	}
	if cfg.StderrPath != "/var/log/err.log" {
		t.Errorf("expected stderr_path=/var/log/err.log, got %s", cfg.StderrPath)
	}
	if cfg.PidFile != "/app.pid" {
		t.Errorf("expected pid_file=/app.pid, got %s", cfg.PidFile)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.StdoutPath = "/tmp/out.log"
		cfg.StderrPath = "/tmp/err.log"
		cfg.Command = []string{"echo", "hello"}
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "missing stdout path", modify: func(c *Config) { c.StdoutPath = "" }, wantErr: true},
		{name: "missing stderr path", modify: func(c *Config) { c.StderrPath = "" }, wantErr: true},
		{name: "missing command", modify: func(c *Config) { c.Command = nil }, wantErr: true},
		{name: "empty command name", modify: func(c *Config) { c.Command = []string{""} }, wantErr: true},
		{name: "bad rotate signal", modify: func(c *Config) { c.RotateSignal = RotateSignal(9) }, wantErr: true},
		{name: "negative drain timeout", modify: func(c *Config) { c.DrainTimeout = -time.Second }, wantErr: true},
		{name: "zero drain timeout", modify: func(c *Config) { c.DrainTimeout = 0 }},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid()
			test.modify(cfg)
			err := cfg.Validate()
			if test.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !test.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_NoCommandIsSentinel(t *testing.T) {
	cfg := Default()
	cfg.StdoutPath = "/tmp/out.log"
	cfg.StderrPath = "/tmp/err.log"

	if err := cfg.Validate(); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
}
