// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package notify reports the wrapper's lifecycle to a service manager.
//
// Under systemd with Type=notify the wrapper sends READY=1 once the child
// is running and its output is being captured, a STATUS= line after each
// rotation, and STOPPING=1 when the child has exited. [Systemd] speaks
// the sd_notify protocol through go-systemd; without NOTIFY_SOCKET in the
// environment every call is a no-op. [Discard] satisfies [Notifier] for
// callers that turn notification off.
package notify
