// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// logwrap runs a command and appends its stdout and stderr to two log
// files, reopening them when they are rotated.
//
//	logwrap -o /var/log/app/out.log -e /var/log/app/err.log -- /usr/bin/app --serve
//
// Rotation works both ways logrotate does it. With "create", logrotate
// renames the file away and logwrap notices on its next write (or at
// once with --watch-paths) that its handle no longer matches the path,
// and opens a fresh file. With a postrotate script, send the rotate
// signal (SIGHUP by default, --sig to change) and logwrap reopens both
// files immediately. copytruncate is unnecessary.
//
// SIGTERM, SIGINT and SIGQUIT are forwarded to the child. logwrap exits
// only after the child does, and with the child's exit code. Its own
// failures use the codes env(1) uses: 125 for a wrapper fault, 126 when
// the command cannot be executed, 127 when it does not exist. A child
// killed by a signal has no exit code to propagate; that is a wrapper
// fault (125).
//
// Options can also come from a YAML file (--config); flags given on the
// command line override it. See lib/config for the keys.
//
// Diagnostics are JSON lines on logwrap's own stderr, never in the
// captured logs.
package main
