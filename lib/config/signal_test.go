// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"syscall"
	"testing"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

func TestParseRotateSignal(t *testing.T) {
	tests := []struct {
		input   string
		want    RotateSignal
		wantErr bool
	}{
		{input: "SIGHUP", want: RotateHangup},
		{input: "hup", want: RotateHangup},
		{input: "hangup", want: RotateHangup},
		{input: "SIGUSR1", want: RotateUser1},
		{input: "usr1", want: RotateUser1},
		{input: " SIGUSR2 ", want: RotateUser2},
		{input: "user2", want: RotateUser2},
		{input: "SIGTERM", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := ParseRotateSignal(test.input)
			if test.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", test.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("ParseRotateSignal(%q) = %v, want %v", test.input, got, test.want)
			}
		})
	}
}

func TestRotateSignalMapping(t *testing.T) {
	want := map[RotateSignal]syscall.Signal{
		RotateHangup: syscall.SIGHUP,
		RotateUser1:  syscall.SIGUSR1,
		RotateUser2:  syscall.SIGUSR2,
	}
	for _, signal := range RotateSignals {
		if got := signal.Signal(); got != want[signal] {
			t.Errorf("%v.Signal() = %v, want %v", signal, got, want[signal])
		}
		parsed, err := ParseRotateSignal(signal.String())
		if err != nil || parsed != signal {
			t.Errorf("ParseRotateSignal(%q) = %v, %v; want %v", signal.String(), parsed, err, signal)
		}
	}
}

func TestRotateSignalAsFlag(t *testing.T) {
	var signal RotateSignal
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.Var(&signal, "sig", "rotate signal")

	if err := flagSet.Parse([]string{"--sig", "SIGUSR2"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if signal != RotateUser2 {
		t.Errorf("expected SIGUSR2, got %v", signal)
	}

	if err := flagSet.Parse([]string{"--sig", "SIGSEGV"}); err == nil {
		t.Error("expected error for SIGSEGV")
	}
}

func TestRotateSignalYAML(t *testing.T) {
	var holder struct {
		Signal RotateSignal `yaml:"signal"`
	}
	if err := yaml.Unmarshal([]byte("signal: SIGUSR1\n"), &holder); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if holder.Signal != RotateUser1 {
		t.Errorf("expected SIGUSR1, got %v", holder.Signal)
	}

	data, err := yaml.Marshal(holder)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "signal: SIGUSR1\n" {
		t.Errorf("Marshal = %q, want %q", data, "signal: SIGUSR1\n")
	}
}
