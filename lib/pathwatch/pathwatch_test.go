// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pathwatch

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/logwrap/lib/testutil"
)

const testTimeout = 5 * time.Second

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWatcher(t *testing.T, paths ...string) *Watcher {
	t.Helper()
	w, err := New(paths, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func createFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
}

func TestRenameIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	createFile(t, path)
	w := startWatcher(t, path)

	if err := os.Rename(path, path+".1"); err != nil {
		t.Fatalf("renaming: %v", err)
	}
	got := testutil.RequireReceive(t, w.Events(), testTimeout, "waiting for rename event")
	if got != path {
		t.Errorf("event path = %q, want %q", got, path)
	}
}

func TestRemoveIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "err.log")
	createFile(t, path)
	w := startWatcher(t, path)

	if err := os.Remove(path); err != nil {
		t.Fatalf("removing: %v", err)
	}
	if got := testutil.RequireReceive(t, w.Events(), testTimeout, "waiting for remove event"); got != path {
		t.Errorf("event path = %q, want %q", got, path)
	}
}

func TestUnwatchedSiblingIsIgnored(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "out.log")
	sibling := filepath.Join(directory, "other.log")
	createFile(t, path)
	w := startWatcher(t, path)

	// The sibling's event is processed before the watched file's, so
	// the first event received must name the watched path.
	createFile(t, sibling)
	if err := os.Remove(path); err != nil {
		t.Fatalf("removing: %v", err)
	}
	if got := testutil.RequireReceive(t, w.Events(), testTimeout, "waiting for event"); got != path {
		t.Errorf("event path = %q, want %q", got, path)
	}
}

func TestRelativePathIsReportedAsGiven(t *testing.T) {
	directory := t.TempDir()
	previous, err := os.Getwd()
	if err != nil {
		t.Fatalf("getting working directory: %v", err)
	}
	if err := os.Chdir(directory); err != nil {
		t.Fatalf("changing directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(previous) })
	createFile(t, "out.log")
	w := startWatcher(t, "out.log")

	if err := os.Remove("out.log"); err != nil {
		t.Fatalf("removing: %v", err)
	}
	if got := testutil.RequireReceive(t, w.Events(), testTimeout, "waiting for event"); got != "out.log" {
		t.Errorf("event path = %q, want %q", got, "out.log")
	}
}

func TestSharedDirectoryWatchedOnce(t *testing.T) {
	directory := t.TempDir()
	stdout := filepath.Join(directory, "out.log")
	stderr := filepath.Join(directory, "err.log")
	createFile(t, stdout)
	createFile(t, stderr)
	w := startWatcher(t, stdout, stderr)

	if got := len(w.watcher.WatchList()); got != 1 {
		t.Errorf("watching %d directories, want 1", got)
	}
}

func TestMissingDirectoryFails(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "missing", "out.log")}, testLogger()); err == nil {
		t.Fatal("New succeeded for a missing directory")
	}
}

func TestCloseClosesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	createFile(t, path)
	w, err := New([]string{path}, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	testutil.RequireClosed(t, w.Events(), testTimeout, "events after Close")
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
