// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bureau-foundation/logwrap/lib/atomicfile"
)

const fileMode = 0o644

// Write atomically records pid at path.
func Write(path string, pid int) error {
	if pid <= 0 {
		return fmt.Errorf("writing pidfile %s: invalid pid %d", path, pid)
	}
	if err := atomicfile.Write(path, []byte(strconv.Itoa(pid)+"\n"), fileMode); err != nil {
		return fmt.Errorf("writing pidfile: %w", err)
	}
	return nil
}

// Read returns the pid stored at path. When the file does not exist the
// error wraps os.ErrNotExist.
func Read(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing pidfile %s: %w", path, err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("parsing pidfile %s: invalid pid %d", path, pid)
	}
	return pid, nil
}

// Remove deletes the pidfile. It returns nil when the file is already
// gone.
func Remove(path string) error {
	return atomicfile.Remove(path)
}
