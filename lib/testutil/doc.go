// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for logwrap packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] encapsulate the
// timeout safety valve pattern (select with time.After fallback) so
// that individual tests do not need direct time.After calls. [Collect]
// applies the same valve to draining a channel until it closes, which
// is how stream tests observe everything a reader goroutine produced.
//
// [SocketDir] creates a temporary directory in /tmp short enough for
// Unix domain socket paths (108-byte sun_path limit), used by the
// sd_notify tests.
//
// [RequireFileContent] reads a file and compares it with an expected
// string, the assertion nearly every log capture test ends with.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no logwrap-internal dependencies.
package testutil
