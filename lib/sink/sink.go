// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// fileMode is the permission used when a log file is created.
const fileMode = 0o644

// WriteError reports a write that failed both on the original handle and
// on the retry after a reopen. The wrapper cannot capture the stream any
// further once this happens.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Sink is one log file destination and its current handle.
type Sink struct {
	path   string
	file   *os.File
	logger *slog.Logger

	bytesWritten int64
	reopens      int
}

// Open opens path for appending, creating it if needed.
func Open(path string, logger *slog.Logger) (*Sink, error) {
	file, err := openAppend(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return &Sink{
		path:   path,
		file:   file,
		logger: logger.With("path", path),
	}, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, fileMode)
}

// Path returns the destination path.
func (s *Sink) Path() string { return s.path }

// BytesWritten returns the total number of bytes appended across all
// handles this sink has held.
func (s *Sink) BytesWritten() int64 { return s.bytesWritten }

// Reopens returns how many times the handle has been replaced.
func (s *Sink) Reopens() int { return s.reopens }

// Write appends data to the current handle. When the write fails, the
// sink reopens its path and writes the remainder once more; bytes the
// first attempt already appended are not repeated.
func (s *Sink) Write(data []byte) (int, error) {
	written, err := s.file.Write(data)
	s.bytesWritten += int64(written)
	if err == nil {
		return written, nil
	}

	s.logger.Warn("log write failed, reopening",
		"error", err,
		"written", written,
		"pending", len(data)-written,
	)
	if reopenErr := s.Reopen(); reopenErr != nil {
		return written, &WriteError{Path: s.path, Err: errors.Join(err, reopenErr)}
	}

	retried, retryErr := s.file.Write(data[written:])
	s.bytesWritten += int64(retried)
	written += retried
	if retryErr != nil {
		return written, &WriteError{Path: s.path, Err: retryErr}
	}
	return written, nil
}

// IsStale reports whether the open handle no longer refers to the file
// named by the sink's path: its inode has been unlinked (link count
// zero), the path is gone, or the path names a different inode.
func (s *Sink) IsStale() (bool, error) {
	var handle unix.Stat_t
	if err := unix.Fstat(int(s.file.Fd()), &handle); err != nil {
		return false, fmt.Errorf("fstat %s: %w", s.path, err)
	}
	if handle.Nlink == 0 {
		return true, nil
	}

	var named unix.Stat_t
	if err := unix.Stat(s.path, &named); err != nil {
		if errors.Is(err, unix.ENOENT) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", s.path, err)
	}
	return handle.Dev != named.Dev || handle.Ino != named.Ino, nil
}

// Reopen syncs the current handle, opens the path fresh in append mode
// and releases the old handle. Sync failures are logged and otherwise
// ignored because the old handle is being abandoned. If the path cannot
// be opened the old handle stays in place and the error is returned.
func (s *Sink) Reopen() error {
	if err := s.file.Sync(); err != nil {
		s.logger.Warn("syncing log file before reopen", "error", err)
	}

	file, err := openAppend(s.path)
	if err != nil {
		return fmt.Errorf("reopening log file: %w", err)
	}

	previous := s.file
	s.file = file
	s.reopens++

	if err := previous.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		s.logger.Warn("closing replaced log file", "error", err)
	}
	s.logger.Debug("log file reopened", "reopens", s.reopens)
	return nil
}

// Sync flushes the current handle to stable storage.
func (s *Sink) Sync() error {
	return s.file.Sync()
}

// Close syncs (best effort) and closes the current handle.
func (s *Sink) Close() error {
	if err := s.file.Sync(); err != nil && !errors.Is(err, os.ErrClosed) {
		s.logger.Warn("syncing log file before close", "error", err)
	}
	if err := s.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("closing %s: %w", s.path, err)
	}
	return nil
}
