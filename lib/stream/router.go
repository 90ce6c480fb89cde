// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/bureau-foundation/logwrap/lib/sink"
)

// ChunkSize is the largest read taken from a pipe in one step.
const ChunkSize = 8 * 1024

// Chunk is one read from the pipe. Exactly one of Data and Err is set.
type Chunk struct {
	Data []byte
	Err  error
}

// Router moves bytes from one pipe to one sink.
type Router struct {
	name   string
	reader io.Reader
	sink   *sink.Sink
	logger *slog.Logger

	chunks chan Chunk
	done   chan struct{}

	closeOnce sync.Once
	exited    chan struct{}

	routed int64
}

// Start begins reading from reader in a new goroutine. name identifies
// the stream ("stdout", "stderr") in diagnostics.
func Start(name string, reader io.Reader, destination *sink.Sink, logger *slog.Logger) *Router {
	r := &Router{
		name:   name,
		reader: reader,
		sink:   destination,
		logger: logger.With("stream", name),
		chunks: make(chan Chunk),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go r.readLoop()
	return r
}

// Name returns the stream name given to Start.
func (r *Router) Name() string { return r.name }

// Sink returns the destination sink.
func (r *Router) Sink() *sink.Sink { return r.sink }

// Chunks delivers reads from the pipe. The channel is closed at end of
// stream, after a read error, or after Close.
func (r *Router) Chunks() <-chan Chunk { return r.chunks }

// Routed returns the number of bytes passed to Route successfully.
func (r *Router) Routed() int64 { return r.routed }

func (r *Router) readLoop() {
	defer close(r.exited)
	defer close(r.chunks)

	buffer := make([]byte, ChunkSize)
	for {
		count, err := r.reader.Read(buffer)
		if count > 0 {
			// The buffer is reused for the next read, so the chunk
			// gets its own copy.
			data := make([]byte, count)
			copy(data, buffer[:count])
			if !r.deliver(Chunk{Data: data}) {
				return
			}
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			r.logger.Debug("end of stream")
			return
		}
		if r.closing() {
			return
		}
		r.deliver(Chunk{Err: fmt.Errorf("reading %s: %w", r.name, err)})
		return
	}
}

// deliver hands a chunk to the event loop, giving up when the router is
// closed so the goroutine never outlives the run.
func (r *Router) deliver(chunk Chunk) bool {
	select {
	case r.chunks <- chunk:
		return true
	case <-r.done:
		return false
	}
}

func (r *Router) closing() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Route appends data to the sink, reopening first when the sink's handle
// no longer refers to the file at its path. A failed staleness check is
// logged and the write proceeds on the current handle; sink.Write has its
// own reopen-and-retry. The returned error is fatal to the run.
func (r *Router) Route(data []byte) error {
	stale, err := r.sink.IsStale()
	if err != nil {
		r.logger.Warn("checking log file for external rotation", "error", err)
	}
	if stale {
		r.logger.Info("log file rotated externally, reopening")
		if err := r.sink.Reopen(); err != nil {
			r.logger.Warn("reopening externally rotated log file", "error", err)
		}
	}

	written, err := r.sink.Write(data)
	r.routed += int64(written)
	if err != nil {
		return fmt.Errorf("%s: %w", r.name, err)
	}
	return nil
}

// Close stops the reader goroutine and closes the pipe when the reader
// is an io.Closer. It waits for the goroutine to exit. Safe to call more
// than once.
func (r *Router) Close() error {
	var closeErr error
	r.closeOnce.Do(func() {
		close(r.done)
		if closer, ok := r.reader.(io.Closer); ok {
			if err := closer.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
				closeErr = fmt.Errorf("closing %s pipe: %w", r.name, err)
			}
		}
	})
	<-r.exited
	return closeErr
}
