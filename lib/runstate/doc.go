// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package runstate persists a snapshot of a wrapper run.
//
// A [Record] describes one supervised child: who it is, where its output
// goes, how many rotations happened and, once it is over, how it ended.
// The supervisor writes a record with phase [PhaseRunning] after the
// child starts, rewrites it after each rotation, and writes a final
// record with phase [PhaseTerminated]. Records are CBOR (see lib/codec)
// and replaced atomically, so an operator or a monitoring agent can read
// the file at any time.
//
// A record left in phase running after the wrapper is gone means the
// wrapper itself was killed.
package runstate
