// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
)

// Wrapper exit codes. Child exit codes in this range cannot be told apart
// from wrapper failures; the same ambiguity exists for env(1).
const (
	ExitWrapperFault  = 125
	ExitCannotExecute = 126
	ExitNotFound      = 127
)

// Coder is implemented by errors that carry their own exit code.
type Coder interface {
	ExitCode() int
}

// ExitCodeFor returns the wrapper exit code for err: the code carried by
// the first [Coder] in err's chain, or [ExitWrapperFault]. A nil error
// maps to 0.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var coder Coder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitWrapperFault
}

// Fatal writes "logwrap: err" to stderr and exits with the code chosen by
// [ExitCodeFor]. Use it in main() for errors that occur before the
// structured logger exists, or after it can no longer be trusted.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "logwrap: %v\n", err)
	os.Exit(ExitCodeFor(err))
}
