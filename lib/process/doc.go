// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the logwrap binary:
// the wrapper's own exit code family and the pre-logger fatal path.
//
// A wrapper that mirrors its child's exit status needs a way to say
// "the wrapper failed" that an operator can tell apart from "the child
// failed". logwrap follows the convention of env(1) and timeout(1):
//
//   - [ExitWrapperFault] (125): the wrapper itself failed (bad
//     configuration, an unopenable log file, a child that produced no
//     exit code).
//   - [ExitCannotExecute] (126): the child command exists but could not
//     be executed.
//   - [ExitNotFound] (127): the child command could not be found.
//
// Any other code is the child's own exit code, passed through
// unchanged. Errors that know their exit code implement [Coder];
// [ExitCodeFor] maps an arbitrary error onto the family.
//
// This package depends on no other logwrap packages.
package process
