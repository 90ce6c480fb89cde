// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pathwatch reports directory-entry changes for a fixed set of
// file paths.
//
// The sink's staleness check runs lazily, on the next write. A quiet
// child can leave the wrapper holding a rotated-away file for hours, and
// logrotate's "create" step then leaves an empty file nobody writes to.
// A [Watcher] closes that gap: it watches each path's parent directory
// with fsnotify (inotify on Linux) and emits the path on [Watcher.Events]
// whenever its directory entry is created, renamed or removed. The
// supervisor responds by checking that sink and reopening it if stale.
//
// Events are hints. The channel is buffered and an event that does not
// fit is dropped; the lazy check on the next write still catches the
// rotation.
package pathwatch
