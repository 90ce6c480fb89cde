// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// recorder captures Fatalf calls instead of stopping the test.
type recorder struct {
	failed  bool
	message string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
	panic(r)
}

// run invokes body, swallowing the panic a recorded Fatalf raises.
func run(r *recorder, body func()) {
	defer func() {
		if recovered := recover(); recovered != nil && recovered != r {
			panic(recovered)
		}
	}()
	body()
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}
}

func TestRequireReceiveClosedChannelFails(t *testing.T) {
	ch := make(chan int)
	close(ch)
	r := &recorder{}
	run(r, func() { RequireReceive(r, ch, time.Second, "value %d", 1) })
	if !r.failed {
		t.Fatal("expected failure on closed channel")
	}
	if r.message != "channel closed without sending a value: value 1" {
		t.Errorf("message = %q", r.message)
	}
}

func TestRequireClosedDiscardsValues(t *testing.T) {
	ch := make(chan string, 2)
	ch <- "a"
	ch <- "b"
	close(ch)
	RequireClosed(t, ch, time.Second, "close")
}

func TestRequireClosedTimesOut(t *testing.T) {
	r := &recorder{}
	run(r, func() { RequireClosed(r, make(chan struct{}), 10*time.Millisecond) })
	if !r.failed {
		t.Fatal("expected timeout failure")
	}
}

func TestCollect(t *testing.T) {
	ch := make(chan int)
	go func() {
		for i := 0; i < 3; i++ {
			ch <- i
		}
		close(ch)
	}()
	values := Collect(t, ch, time.Second, "collecting")
	if len(values) != 3 || values[0] != 0 || values[2] != 2 {
		t.Errorf("Collect = %v, want [0 1 2]", values)
	}
}

func TestRequireFileContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	RequireFileContent(t, path, "content")

	r := &recorder{}
	run(r, func() { RequireFileContent(r, path, "other") })
	if !r.failed {
		t.Fatal("expected mismatch failure")
	}
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want string
	}{
		{"empty", nil, "(no message)"},
		{"string", []any{"waiting"}, "waiting"},
		{"non-string", []any{42}, "42"},
		{"format", []any{"stream %s", "stdout"}, "stream stdout"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := formatMessage(test.args); got != test.want {
				t.Errorf("formatMessage(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
