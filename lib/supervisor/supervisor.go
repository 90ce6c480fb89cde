// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/bureau-foundation/logwrap/lib/clock"
	"github.com/bureau-foundation/logwrap/lib/config"
	"github.com/bureau-foundation/logwrap/lib/notify"
	"github.com/bureau-foundation/logwrap/lib/pathwatch"
	"github.com/bureau-foundation/logwrap/lib/pidfile"
	"github.com/bureau-foundation/logwrap/lib/runstate"
	"github.com/bureau-foundation/logwrap/lib/signals"
	"github.com/bureau-foundation/logwrap/lib/sink"
	"github.com/bureau-foundation/logwrap/lib/stream"
)

// Options carries the supervisor's injectable dependencies. Zero values
// select the production defaults.
type Options struct {
	// Logger receives the wrapper's diagnostics. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Clock times the drain phase and stamps run-state records.
	// Defaults to clock.Real().
	Clock clock.Clock

	// Notifier receives readiness and status transitions. Defaults to
	// notify.Discard.
	Notifier notify.Notifier
}

// ExitOutcome is the result of a supervised run.
type ExitOutcome struct {
	// Code is the child's exit code, in [0, 255].
	Code int
}

// Supervisor owns one child process and everything attached to it.
type Supervisor struct {
	config   *config.Config
	logger   *slog.Logger
	clock    clock.Clock
	notifier notify.Notifier

	cmd       *exec.Cmd
	childDone chan error

	stdout  *stream.Router
	stderr  *stream.Router
	signals *signals.Coordinator
	watcher *pathwatch.Watcher

	record runstate.Record
}

// Start spawns the child described by cfg and prepares the event loop.
// On error every resource acquired so far is released and no child is
// left running.
func Start(cfg *config.Config, options Options) (*Supervisor, error) {
	if len(cfg.Command) == 0 {
		return nil, config.ErrNoCommand
	}
	s := &Supervisor{
		config:    cfg,
		logger:    options.Logger,
		clock:     options.Clock,
		notifier:  options.Notifier,
		childDone: make(chan error, 1),
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.notifier == nil {
		s.notifier = notify.Discard{}
	}

	// cleanup unwinds in reverse order when a later step fails.
	var cleanup []func()
	fail := func(err error) (*Supervisor, error) {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
		return nil, err
	}

	stdoutSink, err := sink.Open(cfg.StdoutPath, s.logger)
	if err != nil {
		return fail(fmt.Errorf("stdout: %w", err))
	}
	cleanup = append(cleanup, func() { stdoutSink.Close() })
	stderrSink, err := sink.Open(cfg.StderrPath, s.logger)
	if err != nil {
		return fail(fmt.Errorf("stderr: %w", err))
	}
	cleanup = append(cleanup, func() { stderrSink.Close() })

	if cfg.PidFile != "" {
		if err := pidfile.Write(cfg.PidFile, os.Getpid()); err != nil {
			return fail(err)
		}
		cleanup = append(cleanup, func() { pidfile.Remove(cfg.PidFile) })
	}

	if cfg.WatchPaths {
		s.watcher, err = pathwatch.New([]string{cfg.StdoutPath, cfg.StderrPath}, s.logger)
		if err != nil {
			return fail(err)
		}
		cleanup = append(cleanup, func() { s.watcher.Close() })
	}

	stdoutReader, stdoutWriter, err := os.Pipe()
	if err != nil {
		return fail(fmt.Errorf("creating stdout pipe: %w", err))
	}
	cleanup = append(cleanup, func() { stdoutReader.Close() })
	stderrReader, stderrWriter, err := os.Pipe()
	if err != nil {
		stdoutWriter.Close()
		return fail(fmt.Errorf("creating stderr pipe: %w", err))
	}
	cleanup = append(cleanup, func() { stderrReader.Close() })

	// Subscribe before spawning so a terminal signal that arrives while
	// the child starts is forwarded instead of killing the wrapper.
	s.signals = signals.New(cfg.RotateSignal)
	cleanup = append(cleanup, s.signals.Stop)

	s.cmd = exec.Command(cfg.Command[0], cfg.Command[1:]...)
	s.cmd.Stdin = os.Stdin
	s.cmd.Stdout = stdoutWriter
	s.cmd.Stderr = stderrWriter
	startErr := s.cmd.Start()

	// The child holds its own copies of the write ends. Closing ours is
	// what lets the readers see end of file when the child is done.
	stdoutWriter.Close()
	stderrWriter.Close()

	if startErr != nil {
		return fail(&StartError{Command: cfg.Command[0], Err: startErr})
	}

	// The waiter goroutine is the only caller of cmd.Wait, so the child
	// is reaped exactly once.
	go func() { s.childDone <- s.cmd.Wait() }()

	s.logger = s.logger.With("child_pid", s.cmd.Process.Pid)
	s.stdout = stream.Start("stdout", stdoutReader, stdoutSink, s.logger)
	s.stderr = stream.Start("stderr", stderrReader, stderrSink, s.logger)

	s.record = runstate.Record{
		WrapperPID: os.Getpid(),
		ChildPID:   s.cmd.Process.Pid,
		Command:    cfg.Command,
		StdoutPath: cfg.StdoutPath,
		StderrPath: cfg.StderrPath,
		Phase:      runstate.PhaseRunning,
		StartedAt:  s.clock.Now(),
	}
	s.writeState()

	s.logger.Info("child started",
		"command", cfg.Command,
		"stdout_path", cfg.StdoutPath,
		"stderr_path", cfg.StderrPath,
		"rotate_signal", cfg.RotateSignal.String(),
	)
	return s, nil
}

// PID returns the child's process id.
func (s *Supervisor) PID() int { return s.cmd.Process.Pid }

// Forward delivers sig to the child.
func (s *Supervisor) Forward(sig os.Signal) error {
	return s.cmd.Process.Signal(sig)
}

// Run drives the event loop until the child has exited and its output
// has been drained. It must be called exactly once.
func (s *Supervisor) Run() (ExitOutcome, error) {
	defer s.release()

	s.notifier.Ready(s.cmd.Process.Pid)

	loop := eventSources{
		stdout:   s.stdout.Chunks(),
		stderr:   s.stderr.Chunks(),
		rotate:   s.signals.Rotate(),
		terminal: s.signals.Terminal(),
	}
	if s.watcher != nil {
		loop.paths = s.watcher.Events()
	}

	waitErr, fault := s.runLoop(&loop)
	if fault != nil {
		s.logger.Error("output capture stopped, waiting for child", "error", fault)
		s.closeStreams()
		waitErr = s.awaitChild(&loop)
		s.notifier.Stopping()
	} else {
		s.notifier.Stopping()
		if err := s.drain(&loop); err != nil {
			s.logger.Error("output capture stopped while draining", "error", err)
			fault = err
		}
	}
	if fault != nil {
		s.record.Fault = fault.Error()
	}

	outcome, err := s.outcome(waitErr)
	s.finish(outcome, err)
	return outcome, err
}

// eventSources are the channels the loop selects on. A nil channel is
// never ready, which is how exhausted sources drop out of the select.
type eventSources struct {
	stdout   <-chan stream.Chunk
	stderr   <-chan stream.Chunk
	rotate   <-chan os.Signal
	terminal <-chan os.Signal
	paths    <-chan string
}

// runLoop handles one event per iteration until the child exits or a
// stream fault occurs.
func (s *Supervisor) runLoop(loop *eventSources) (waitErr error, fault error) {
	for {
		select {
		case chunk, ok := <-loop.stdout:
			if !ok {
				s.logger.Debug("stdout closed")
				loop.stdout = nil
				continue
			}
			if err := route(s.stdout, chunk); err != nil {
				return nil, err
			}

		case chunk, ok := <-loop.stderr:
			if !ok {
				s.logger.Debug("stderr closed")
				loop.stderr = nil
				continue
			}
			if err := route(s.stderr, chunk); err != nil {
				return nil, err
			}

		case sig := <-loop.rotate:
			s.rotate(sig)

		case sig := <-loop.terminal:
			signals.Forward(s.cmd.Process, sig, s.logger)

		case path, ok := <-loop.paths:
			if !ok {
				loop.paths = nil
				continue
			}
			s.checkPath(path)

		case waitErr := <-s.childDone:
			return waitErr, nil
		}
	}
}

// drain routes output the child left in the pipes, until both streams
// end or the drain timeout elapses. Rotation is still honored.
func (s *Supervisor) drain(loop *eventSources) error {
	if loop.stdout == nil && loop.stderr == nil {
		return nil
	}
	s.logger.Debug("draining child output", "timeout", s.config.DrainTimeout)
	deadline := s.clock.After(s.config.DrainTimeout)
	for loop.stdout != nil || loop.stderr != nil {
		select {
		case chunk, ok := <-loop.stdout:
			if !ok {
				loop.stdout = nil
				continue
			}
			if err := route(s.stdout, chunk); err != nil {
				return err
			}

		case chunk, ok := <-loop.stderr:
			if !ok {
				loop.stderr = nil
				continue
			}
			if err := route(s.stderr, chunk); err != nil {
				return err
			}

		case sig := <-loop.rotate:
			s.rotate(sig)

		case <-deadline:
			// Usually a grandchild inherited the pipes and is still
			// running. Its further output is not captured.
			s.logger.Warn("drain timeout elapsed, abandoning open streams",
				"timeout", s.config.DrainTimeout,
				"stdout_open", loop.stdout != nil,
				"stderr_open", loop.stderr != nil,
			)
			return nil
		}
	}
	return nil
}

// awaitChild waits for the child after capture has stopped, still
// forwarding terminal signals.
func (s *Supervisor) awaitChild(loop *eventSources) error {
	for {
		select {
		case sig := <-loop.terminal:
			signals.Forward(s.cmd.Process, sig, s.logger)
		case waitErr := <-s.childDone:
			return waitErr
		}
	}
}

func route(router *stream.Router, chunk stream.Chunk) error {
	if chunk.Err != nil {
		return chunk.Err
	}
	return router.Route(chunk.Data)
}

// rotate syncs both sinks, then reopens both. A sink that cannot be
// reopened keeps writing to its previous file.
func (s *Supervisor) rotate(sig os.Signal) {
	sinks := []*sink.Sink{s.stdout.Sink(), s.stderr.Sink()}
	for _, destination := range sinks {
		if err := destination.Sync(); err != nil {
			s.logger.Warn("syncing log file before rotation", "path", destination.Path(), "error", err)
		}
	}
	for _, destination := range sinks {
		if err := destination.Reopen(); err != nil {
			s.logger.Error("reopening log file, continuing with previous file",
				"path", destination.Path(), "error", err)
		}
	}

	s.record.Rotations++
	s.logger.Info("log files rotated", "signal", sig.String(), "rotations", s.record.Rotations)
	s.notifier.Status(fmt.Sprintf("capturing output, %d rotation(s)", s.record.Rotations))
	s.writeState()
}

// checkPath reopens the sink for path if its handle went stale.
func (s *Supervisor) checkPath(path string) {
	for _, router := range []*stream.Router{s.stdout, s.stderr} {
		destination := router.Sink()
		if destination.Path() != path {
			continue
		}
		stale, err := destination.IsStale()
		if err != nil {
			s.logger.Warn("checking log file after path event", "path", path, "error", err)
			continue
		}
		if !stale {
			continue
		}
		if err := destination.Reopen(); err != nil {
			s.logger.Warn("reopening log file after path event", "path", path, "error", err)
			continue
		}
		s.logger.Info("log file replaced externally, reopened", "path", path, "stream", router.Name())
	}
}

// outcome converts the child's wait result into an exit code.
func (s *Supervisor) outcome(waitErr error) (ExitOutcome, error) {
	state := s.cmd.ProcessState
	if state == nil {
		return ExitOutcome{}, fmt.Errorf("waiting for child: %w", waitErr)
	}
	code := state.ExitCode()
	if code < 0 {
		if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return ExitOutcome{}, fmt.Errorf("%w: terminated by %v", ErrNoExitCode, status.Signal())
		}
		return ExitOutcome{}, fmt.Errorf("%w: %v", ErrNoExitCode, state)
	}
	return ExitOutcome{Code: code}, nil
}

// finish closes the streams and sinks and records the final state.
func (s *Supervisor) finish(outcome ExitOutcome, err error) {
	s.closeStreams()
	for _, destination := range []*sink.Sink{s.stdout.Sink(), s.stderr.Sink()} {
		if closeErr := destination.Close(); closeErr != nil {
			s.logger.Warn("closing log file", "path", destination.Path(), "error", closeErr)
		}
	}

	ended := s.clock.Now()
	s.record.Phase = runstate.PhaseTerminated
	s.record.EndedAt = &ended
	if err == nil {
		code := outcome.Code
		s.record.ExitCode = &code
		s.logger.Info("child exited", "exit_code", outcome.Code, "duration", ended.Sub(s.record.StartedAt).Round(time.Millisecond))
	} else {
		if s.record.Fault == "" {
			s.record.Fault = err.Error()
		}
		s.logger.Error("child exited without a usable status", "error", err)
	}
	s.writeState()
}

func (s *Supervisor) closeStreams() {
	for _, router := range []*stream.Router{s.stdout, s.stderr} {
		if err := router.Close(); err != nil {
			s.logger.Warn("closing pipe", "stream", router.Name(), "error", err)
		}
	}
}

// release drops every resource the run holds. The pidfile goes last so
// its absence means the wrapper is done.
func (s *Supervisor) release() {
	s.signals.Stop()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.logger.Warn("closing path watcher", "error", err)
		}
	}
	s.closeStreams()
	for _, destination := range []*sink.Sink{s.stdout.Sink(), s.stderr.Sink()} {
		destination.Close()
	}
	if s.config.PidFile != "" {
		if err := pidfile.Remove(s.config.PidFile); err != nil {
			s.logger.Warn("removing pidfile", "error", err)
		}
	}
}

// writeState persists the run-state record when a state file is
// configured. Failures are logged: the record is advisory.
func (s *Supervisor) writeState() {
	if s.config.StateFile == "" {
		return
	}
	if err := runstate.Write(s.config.StateFile, s.record); err != nil {
		s.logger.Warn("writing run state", "error", err)
	}
}
