// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/logwrap/lib/config"
)

// invocation is the parsed command line.
type invocation struct {
	config      *config.Config
	showVersion bool
}

// flagValues holds raw flag destinations before they are layered over
// the config file.
type flagValues struct {
	configFile   string
	stdoutPath   string
	stderrPath   string
	pidFile      string
	rotateSignal config.RotateSignal
	exitCodeFile string
	stateFile    string
	drainTimeout time.Duration
	watchPaths   bool
	noSdNotify   bool
	logLevel     string
	showVersion  bool
}

func newFlagSet(values *flagValues) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("logwrap", pflag.ContinueOnError)
	// Everything from the first positional argument on belongs to the
	// child, so "logwrap -o a -e b ls -l" does not parse -l.
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(io.Discard)

	flagSet.StringVarP(&values.stdoutPath, "stdout", "o", "", "append the child's stdout to this file")
	flagSet.StringVarP(&values.stderrPath, "stderr", "e", "", "append the child's stderr to this file")
	flagSet.StringVarP(&values.pidFile, "pidfile", "p", "", "write the child's pid to this file")
	flagSet.Var(&values.rotateSignal, "sig", "signal that reopens both log files (SIGHUP, SIGUSR1, SIGUSR2)")
	flagSet.StringVar(&values.configFile, "config", "", "read options from this YAML file; flags override it")
	flagSet.StringVar(&values.exitCodeFile, "exit-code-file", "", "write the final exit code to this file")
	flagSet.StringVar(&values.stateFile, "state-file", "", "maintain a CBOR run-state record at this path")
	flagSet.DurationVar(&values.drainTimeout, "drain-timeout", config.DefaultDrainTimeout, "how long to keep reading output after the child exits")
	flagSet.BoolVar(&values.watchPaths, "watch-paths", false, "watch the log directories to reopen rotated files immediately")
	flagSet.BoolVar(&values.noSdNotify, "no-sd-notify", false, "do not send systemd readiness notifications")
	flagSet.StringVar(&values.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error (default info)")
	flagSet.BoolVar(&values.showVersion, "version", false, "print version information and exit")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

// parseArgs builds the run configuration: defaults, then the config
// file, then every flag given explicitly, then the command.
func parseArgs(args []string) (*invocation, error) {
	var values flagValues
	flagSet := newFlagSet(&values)
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if help, _ := flagSet.GetBool("help"); help {
		return nil, pflag.ErrHelp
	}
	if values.showVersion {
		return &invocation{showVersion: true}, nil
	}

	cfg := config.Default()
	if values.configFile != "" {
		loaded, err := config.LoadFile(values.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagSet.Changed("stdout") {
		cfg.StdoutPath = values.stdoutPath
	}
	if flagSet.Changed("stderr") {
		cfg.StderrPath = values.stderrPath
	}
	if flagSet.Changed("pidfile") {
		cfg.PidFile = values.pidFile
	}
	if flagSet.Changed("sig") {
		cfg.RotateSignal = values.rotateSignal
	}
	if flagSet.Changed("exit-code-file") {
		cfg.ExitCodeFile = values.exitCodeFile
	}
	if flagSet.Changed("state-file") {
		cfg.StateFile = values.stateFile
	}
	if flagSet.Changed("drain-timeout") {
		cfg.DrainTimeout = values.drainTimeout
	}
	if flagSet.Changed("watch-paths") {
		cfg.WatchPaths = values.watchPaths
	}
	if flagSet.Changed("no-sd-notify") {
		cfg.SdNotify = !values.noSdNotify
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = values.logLevel
	}

	if command := flagSet.Args(); len(command) > 0 {
		cfg.Command = command
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &invocation{config: cfg}, nil
}

func printUsage(w io.Writer) {
	var values flagValues
	flagSet := newFlagSet(&values)
	fmt.Fprint(w, `logwrap runs a command and captures its stdout and stderr in two
rotatable log files.

Usage:
  logwrap -o OUT -e ERR [flags] [--] COMMAND [ARGS...]

Examples:
  # Capture a service's output
  logwrap -o /var/log/app/out.log -e /var/log/app/err.log -- /usr/bin/app --serve

  # Use SIGUSR1 for rotation and record the child's pid
  logwrap -o out.log -e err.log -p /run/app.pid --sig SIGUSR1 -- ./app

  # Take everything but the command from a file
  logwrap --config /etc/logwrap/app.yaml -- /usr/bin/app

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
