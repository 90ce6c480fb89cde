// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	"github.com/bureau-foundation/logwrap/lib/process"
)

// ErrNoExitCode is returned by Run when the child terminated without an
// exit code, usually because a signal killed it.
var ErrNoExitCode = errors.New("child exited without an exit code")

// StartError reports a child that could not be spawned.
type StartError struct {
	Command string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Command, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// ExitCode follows the shell convention: 127 when the command does not
// exist, 126 when it exists but cannot be executed.
func (e *StartError) ExitCode() int {
	if errors.Is(e.Err, exec.ErrNotFound) || errors.Is(e.Err, fs.ErrNotExist) {
		return process.ExitNotFound
	}
	return process.ExitCannotExecute
}
