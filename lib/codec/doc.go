// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the wrapper's CBOR encoding configuration.
//
// The run-state file is the only binary format the wrapper writes. It
// is CBOR with Core Deterministic Encoding, so the same record always
// encodes to the same bytes and two snapshots can be compared directly.
// Timestamps are RFC 3339 strings with nanoseconds.
//
// Struct fields use `cbor` tags with snake_case keys. Without a cbor
// tag the encoder falls back to the `json` tag, then to the field name.
package codec
