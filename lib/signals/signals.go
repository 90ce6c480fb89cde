// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signals

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/logwrap/lib/config"
)

// TerminalSignals are forwarded to the child instead of terminating the
// wrapper.
var TerminalSignals = []os.Signal{syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT}

// Buffer sizes for the subscriptions. signal.Notify drops a signal when
// the channel is full; repeated rotate signals coalesce into one pending
// rotation, which has the same effect as handling each of them.
const (
	rotateBuffer   = 1
	terminalBuffer = 4
)

// Signaler delivers a signal to a process. *os.Process satisfies it.
type Signaler interface {
	Signal(os.Signal) error
}

// Coordinator owns the wrapper's signal subscriptions.
type Coordinator struct {
	rotateSignal syscall.Signal
	rotate       chan os.Signal
	terminal     chan os.Signal
}

// New subscribes to the rotate signal and the terminal set. Call Stop
// to release the subscriptions.
func New(rotate config.RotateSignal) *Coordinator {
	c := &Coordinator{
		rotateSignal: rotate.Signal(),
		rotate:       make(chan os.Signal, rotateBuffer),
		terminal:     make(chan os.Signal, terminalBuffer),
	}
	signal.Notify(c.rotate, c.rotateSignal)
	signal.Notify(c.terminal, TerminalSignals...)
	return c
}

// RotateSignal returns the signal that requests rotation.
func (c *Coordinator) RotateSignal() syscall.Signal { return c.rotateSignal }

// Rotate delivers each received rotate signal.
func (c *Coordinator) Rotate() <-chan os.Signal { return c.rotate }

// Terminal delivers each received terminal signal.
func (c *Coordinator) Terminal() <-chan os.Signal { return c.terminal }

// Stop releases both subscriptions and restores default handling. The
// channels are not closed; the event loop stops selecting on them when
// it returns.
func (c *Coordinator) Stop() {
	signal.Stop(c.rotate)
	signal.Stop(c.terminal)
}

// Forward relays sig to target, logging a failed delivery at warn level.
// It reports whether the signal was delivered.
func Forward(target Signaler, sig os.Signal, logger *slog.Logger) bool {
	if err := target.Signal(sig); err != nil {
		logger.Warn("forwarding signal to child", "signal", sig.String(), "error", err)
		return false
	}
	logger.Info("forwarded signal to child", "signal", sig.String())
	return true
}
