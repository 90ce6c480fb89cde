// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package atomicfile replaces small files so readers never see a partial
// write.
//
// [Write] creates a temporary file in the destination's directory, writes
// and fsyncs it, renames it over the destination, then fsyncs the
// directory so the rename survives a power loss. The pidfile, the
// exit-code file and the run-state record are all written this way:
// each is read by another process (an init script, a supervisor, an
// operator) that may look at it at any moment.
//
// [Remove] is the idempotent counterpart.
package atomicfile
