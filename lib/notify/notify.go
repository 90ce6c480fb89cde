// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package notify

import (
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier receives lifecycle transitions.
type Notifier interface {
	Ready(childPID int)
	Status(text string)
	Stopping()
}

// sendFunc matches daemon.SdNotify.
type sendFunc func(unsetEnvironment bool, state string) (bool, error)

// Systemd sends sd_notify messages. Failures are logged and otherwise
// ignored: losing a readiness message must not kill the workload.
type Systemd struct {
	logger *slog.Logger
	send   sendFunc
}

// NewSystemd returns a notifier that writes to $NOTIFY_SOCKET.
func NewSystemd(logger *slog.Logger) *Systemd {
	return &Systemd{logger: logger, send: daemon.SdNotify}
}

// Ready reports that the child is running and its output is captured.
// The main pid stays the wrapper's, which forwards terminal signals.
func (s *Systemd) Ready(childPID int) {
	s.notify(fmt.Sprintf("%s\nSTATUS=capturing output of pid %d", daemon.SdNotifyReady, childPID))
}

// Status sets the free-form status line shown by `systemctl status`.
func (s *Systemd) Status(text string) {
	s.notify("STATUS=" + text)
}

// Stopping reports that the child has exited and the wrapper is
// finishing.
func (s *Systemd) Stopping() {
	s.notify(daemon.SdNotifyStopping)
}

func (s *Systemd) notify(state string) {
	sent, err := s.send(false, state)
	if err != nil {
		s.logger.Warn("sd_notify failed", "state", state, "error", err)
		return
	}
	if sent {
		s.logger.Debug("sd_notify sent", "state", state)
	}
}

// Discard ignores every notification.
type Discard struct{}

func (Discard) Ready(int)     {}
func (Discard) Status(string) {}
func (Discard) Stopping()     {}
