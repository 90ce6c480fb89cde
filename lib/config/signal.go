// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"
)

// RotateSignal selects which signal asks the wrapper to reopen both log
// files. The zero value is [RotateHangup].
type RotateSignal int

const (
	// RotateHangup selects SIGHUP.
	RotateHangup RotateSignal = iota
	// RotateUser1 selects SIGUSR1.
	RotateUser1
	// RotateUser2 selects SIGUSR2.
	RotateUser2
)

// RotateSignals lists every selectable rotate signal in declaration order.
var RotateSignals = []RotateSignal{RotateHangup, RotateUser1, RotateUser2}

// Signal returns the platform signal number for r.
func (r RotateSignal) Signal() syscall.Signal {
	switch r {
	case RotateUser1:
		return syscall.SIGUSR1
	case RotateUser2:
		return syscall.SIGUSR2
	default:
		return syscall.SIGHUP
	}
}

// String returns the conventional signal name, e.g. "SIGHUP".
func (r RotateSignal) String() string {
	switch r {
	case RotateHangup:
		return "SIGHUP"
	case RotateUser1:
		return "SIGUSR1"
	case RotateUser2:
		return "SIGUSR2"
	default:
		return fmt.Sprintf("RotateSignal(%d)", int(r))
	}
}

// ParseRotateSignal accepts "SIGHUP", "HUP" or "hangup" (and the USR1 and
// USR2 equivalents), case-insensitively.
func ParseRotateSignal(value string) (RotateSignal, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "SIGHUP", "HUP", "HANGUP":
		return RotateHangup, nil
	case "SIGUSR1", "USR1", "USER1":
		return RotateUser1, nil
	case "SIGUSR2", "USR2", "USER2":
		return RotateUser2, nil
	}
	return RotateHangup, fmt.Errorf("invalid rotate signal %q (must be one of SIGHUP, SIGUSR1, SIGUSR2)", value)
}

// Set implements pflag.Value.
func (r *RotateSignal) Set(value string) error {
	parsed, err := ParseRotateSignal(value)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Type implements pflag.Value.
func (r *RotateSignal) Type() string { return "signal" }

// UnmarshalYAML accepts the same spellings as [ParseRotateSignal].
func (r *RotateSignal) UnmarshalYAML(node *yaml.Node) error {
	var value string
	if err := node.Decode(&value); err != nil {
		return fmt.Errorf("rotate_signal: %w", err)
	}
	return r.Set(value)
}

// MarshalYAML writes the conventional signal name.
func (r RotateSignal) MarshalYAML() (any, error) {
	return r.String(), nil
}
