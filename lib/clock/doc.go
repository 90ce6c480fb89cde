// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// The supervisor stamps run-state records with Now and bounds the drain
// phase after child exit with After. Production code passes Real();
// tests pass Fake(), whose time moves only when Advance is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	// ... start the goroutine that calls c.After ...
//	c.WaitForTimers(1)         // wait for the deadline to be registered
//	c.Advance(5 * time.Second) // fire it deterministically
//
// WaitForTimers removes the race between a goroutine registering a
// deadline and the test advancing past it.
package clock
