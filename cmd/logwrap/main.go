// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/logwrap/lib/atomicfile"
	"github.com/bureau-foundation/logwrap/lib/config"
	"github.com/bureau-foundation/logwrap/lib/notify"
	"github.com/bureau-foundation/logwrap/lib/process"
	"github.com/bureau-foundation/logwrap/lib/supervisor"
	"github.com/bureau-foundation/logwrap/lib/version"
)

func main() {
	code, err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		process.Fatal(err)
	}
	os.Exit(code)
}

// run executes one supervised child and returns the code logwrap should
// exit with. A non-nil error means a wrapper fault; its exit code comes
// from process.ExitCodeFor.
func run(args []string, stdout, stderr io.Writer) (int, error) {
	parsed, err := parseArgs(args)
	if errors.Is(err, pflag.ErrHelp) {
		printUsage(stdout)
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if parsed.showVersion {
		fmt.Fprintln(stdout, version.Full("logwrap"))
		return 0, nil
	}
	cfg := parsed.config

	level, err := cfg.SlogLevel()
	if err != nil {
		return 0, err
	}
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))

	code, err := supervise(cfg, logger)
	if cfg.ExitCodeFile != "" {
		if writeErr := writeExitCode(cfg.ExitCodeFile, code); writeErr != nil {
			logger.Error("writing exit code file", "path", cfg.ExitCodeFile, "error", writeErr)
		}
	}
	return code, err
}

// supervise runs the child to completion. The returned code is what
// logwrap exits with, including for wrapper faults, so it can be
// recorded in the exit-code file either way.
func supervise(cfg *config.Config, logger *slog.Logger) (int, error) {
	var notifier notify.Notifier = notify.Discard{}
	if cfg.SdNotify {
		notifier = notify.NewSystemd(logger)
	}

	s, err := supervisor.Start(cfg, supervisor.Options{
		Logger:   logger,
		Notifier: notifier,
	})
	if err != nil {
		return process.ExitCodeFor(err), err
	}

	outcome, err := s.Run()
	if err != nil {
		return process.ExitCodeFor(err), err
	}
	return outcome.Code, nil
}

// writeExitCode records code as "N\n" at path. Readers poll this file to
// learn how a run ended after logwrap itself is gone.
func writeExitCode(path string, code int) error {
	return atomicfile.Write(path, []byte(strconv.Itoa(code)+"\n"), 0o644)
}
