// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pathwatch

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const eventBuffer = 16

// entryChanges are the operations that can leave an open handle pointing
// at a file the path no longer names.
const entryChanges = fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher watches the parent directories of a set of paths.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// paths maps the absolute path fsnotify reports to the path as the
	// caller supplied it.
	paths map[string]string

	events chan string
	done   chan struct{}

	closeOnce sync.Once
	group     sync.WaitGroup
}

// New starts watching the given paths. Every parent directory must
// exist.
func New(paths []string, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating path watcher: %w", err)
	}

	w := &Watcher{
		watcher: fsw,
		logger:  logger,
		paths:   make(map[string]string, len(paths)),
		events:  make(chan string, eventBuffer),
		done:    make(chan struct{}),
	}

	directories := make(map[string]bool)
	for _, path := range paths {
		absolute, err := filepath.Abs(path)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}
		w.paths[absolute] = path

		directory := filepath.Dir(absolute)
		if directories[directory] {
			continue
		}
		if err := fsw.Add(directory); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", directory, err)
		}
		directories[directory] = true
	}

	w.group.Add(1)
	go w.processLoop()
	return w, nil
}

// Events delivers a watched path each time its directory entry changes.
// The channel is closed by Close.
func (w *Watcher) Events() <-chan string { return w.events }

func (w *Watcher) processLoop() {
	defer w.group.Done()
	defer close(w.events)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("path watcher queue overflowed, rotations may be noticed late")
				continue
			}
			w.logger.Warn("path watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&entryChanges == 0 {
		return
	}
	path, watched := w.paths[filepath.Clean(event.Name)]
	if !watched {
		return
	}
	select {
	case w.events <- path:
	default:
		w.logger.Debug("dropping path event, consumer is behind", "path", path, "op", event.Op.String())
	}
}

// Close stops the watcher and closes the Events channel.
func (w *Watcher) Close() error {
	var closeErr error
	w.closeOnce.Do(func() {
		close(w.done)
		closeErr = w.watcher.Close()
		w.group.Wait()
	})
	return closeErr
}
