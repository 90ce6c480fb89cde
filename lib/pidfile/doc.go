// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pidfile records the wrapper's process id on disk.
//
// The file holds the pid in decimal followed by a newline, the format
// init scripts and start-stop-daemon expect. It names the wrapper, not
// the child: the rotate signal must reach the wrapper, and terminal
// signals sent to it are forwarded to the child. It is written
// atomically before the child is spawned and removed when the supervisor
// finishes.
package pidfile
