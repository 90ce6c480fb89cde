// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package signals turns the wrapper's incoming OS signals into two event
// sources for the supervisor's event loop.
//
// A [Coordinator] registers one subscription for the configured rotate
// signal and one for the terminal set ([TerminalSignals]: SIGTERM,
// SIGQUIT, SIGINT). Registering a signal with signal.Notify also stops
// the Go runtime's default action for it, so the wrapper survives a
// SIGTERM and stays alive long enough to forward it and collect the
// child's real exit status.
//
// [Forward] relays a terminal signal to the child. Delivery failures
// are logged, never returned: the usual cause is a child that exited
// between the signal arriving and the relay, and the child-exited event
// will follow.
package signals
