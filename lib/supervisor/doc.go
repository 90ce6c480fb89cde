// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package supervisor runs one child process and captures its output.
//
// [Start] opens the two log sinks, writes the pidfile, subscribes to
// signals and spawns the child with its stdout and stderr connected to
// pipes. [Supervisor.Run] then drives a single-goroutine event loop.
// Each iteration handles exactly one of:
//
//   - a chunk read from the child's stdout or stderr, appended to the
//     matching sink (after redirecting a stale sink to a fresh file);
//   - the rotate signal, which syncs and reopens both sinks;
//   - a terminal signal (SIGTERM, SIGQUIT, SIGINT), forwarded to the
//     child;
//   - a path event from the optional directory watcher, which reopens a
//     sink whose file was renamed or removed;
//   - the child's exit.
//
// The loop goroutine is the only user of the sinks, so a rotation never
// races a write and needs no locks.
//
// # Exit
//
// When the child exits the supervisor drains: it keeps routing pipe
// output until both streams reach end of file or the drain timeout
// elapses, so output still buffered in the kernel at exit is captured.
// It then closes the pipes and sinks, writes the final run-state record,
// removes the pidfile and returns the child's exit code as an
// [ExitOutcome]. A child that ended without an exit code (killed by a
// signal) yields [ErrNoExitCode].
//
// A stream fault (a pipe read error, or a sink write that failed even
// after reopening) stops capture. The supervisor closes the pipes, so a
// child blocked writing a full pipe gets EPIPE instead of hanging, keeps
// forwarding terminal signals, and waits for the child. The child's own
// status still decides the outcome; the fault is logged and recorded in
// the run-state file.
//
// End of file on both streams while the child is alive is not an exit:
// the loop keeps waiting for the child.
package supervisor
