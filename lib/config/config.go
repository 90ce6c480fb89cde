// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoCommand is returned by Validate when no child command is configured.
var ErrNoCommand = errors.New("no command specified")

// Config is the complete logwrap configuration.
type Config struct {
	// StdoutPath is the log file that receives the child's stdout.
	StdoutPath string `yaml:"stdout_path"`

	// StderrPath is the log file that receives the child's stderr.
	StderrPath string `yaml:"stderr_path"`

	// PidFile, when set, receives the wrapper's pid before the event
	// loop starts and is removed when the wrapper finishes.
	PidFile string `yaml:"pid_file"`

	// RotateSignal asks the wrapper to reopen both log files.
	// Default: SIGHUP
	RotateSignal RotateSignal `yaml:"rotate_signal"`

	// Command is the child command and its arguments.
	Command []string `yaml:"command"`

	// ExitCodeFile, when set, receives the wrapper's final exit code
	// as decimal text.
	ExitCodeFile string `yaml:"exit_code_file"`

	// StateFile, when set, receives a CBOR run-state record at startup,
	// after each rotation and at exit.
	StateFile string `yaml:"state_file"`

	// DrainTimeout bounds how long the wrapper keeps reading the pipes
	// after the child exits. Descendants that inherited the pipes can
	// hold them open indefinitely.
	// Default: 5s
	DrainTimeout time.Duration `yaml:"drain_timeout"`

	// WatchPaths enables filesystem notifications on the log paths so
	// an external rename or removal is handled as soon as it happens
	// rather than on the next write.
	// Default: false
	WatchPaths bool `yaml:"watch_paths"`

	// SdNotify sends readiness and status updates to systemd when
	// NOTIFY_SOCKET is set. Without NOTIFY_SOCKET it does nothing.
	// Default: true
	SdNotify bool `yaml:"sd_notify"`

	// LogLevel is the minimum level of the wrapper's own diagnostics.
	// Values: debug, info, warn, error
	// Default: info
	LogLevel string `yaml:"log_level"`
}

// DefaultDrainTimeout is the drain timeout used when none is configured.
const DefaultDrainTimeout = 5 * time.Second

// Default returns the configuration before any file or flag is applied.
// The log paths and command have no defaults.
func Default() *Config {
	return &Config{
		RotateSignal: RotateHangup,
		DrainTimeout: DefaultDrainTimeout,
		SdNotify:     true,
		LogLevel:     "info",
	}
}

// LoadFile loads configuration from a YAML file on top of [Default].
// Unknown keys are rejected so a misspelled option fails loudly instead
// of silently keeping its default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.ExpandVariables()

	return cfg, nil
}

// ExpandVariables expands ${VAR} and ${VAR:-default} patterns in every
// path field. LoadFile calls it; flag values arrive already expanded by
// the shell.
func (c *Config) ExpandVariables() {
	c.StdoutPath = expandVars(c.StdoutPath)
	c.StderrPath = expandVars(c.StderrPath)
	c.PidFile = expandVars(c.PidFile)
	c.ExitCodeFile = expandVars(c.ExitCodeFile)
	c.StateFile = expandVars(c.StateFile)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns from the
// environment. An unset or empty variable without a default expands to
// the empty string.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.StdoutPath == "" {
		errs = append(errs, fmt.Errorf("stdout path is required"))
	}
	if c.StderrPath == "" {
		errs = append(errs, fmt.Errorf("stderr path is required"))
	}
	if len(c.Command) == 0 || c.Command[0] == "" {
		errs = append(errs, ErrNoCommand)
	}

	switch c.RotateSignal {
	case RotateHangup, RotateUser1, RotateUser2:
	default:
		errs = append(errs, fmt.Errorf("invalid rotate signal: %v", c.RotateSignal))
	}

	if c.DrainTimeout < 0 {
		errs = append(errs, fmt.Errorf("drain timeout must not be negative, got %v", c.DrainTimeout))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log level must be one of: debug, info, warn, error (got %q)", c.LogLevel)
}
