// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sink owns one append-only log file destination.
//
// A [Sink] holds a path and the file handle currently open on it
// (O_WRONLY|O_APPEND|O_CREATE). Two things can make that handle point at
// the wrong file:
//
//   - An operator asks for rotation (the rotate signal). The caller
//     invokes [Sink.Reopen].
//   - Something outside the wrapper renames or unlinks the file, as
//     logrotate does. [Sink.IsStale] detects this lazily: the handle's
//     inode has a link count of zero, or the path now names a different
//     inode (or nothing at all).
//
// Both triggers converge on [Sink.Reopen], which syncs the old handle
// (best effort), opens the path fresh and closes the old handle.
//
// [Sink.Write] retries once through a reopen when a write fails, and
// returns a [*WriteError] when the retry also fails.
//
// A Sink is not safe for concurrent use. The supervisor's event loop is
// its only user.
package sink
