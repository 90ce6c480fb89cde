// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runstate

import (
	"fmt"
	"os"
	"time"

	"github.com/bureau-foundation/logwrap/lib/atomicfile"
	"github.com/bureau-foundation/logwrap/lib/codec"
)

const fileMode = 0o644

// Phase is the lifecycle stage a record describes.
type Phase string

const (
	PhaseRunning    Phase = "running"
	PhaseTerminated Phase = "terminated"
)

// Record is the on-disk description of one run.
type Record struct {
	WrapperPID int      `cbor:"wrapper_pid"`
	ChildPID   int      `cbor:"child_pid"`
	Command    []string `cbor:"command"`
	StdoutPath string   `cbor:"stdout_path"`
	StderrPath string   `cbor:"stderr_path"`
	Phase      Phase    `cbor:"phase"`

	// Rotations counts rotate signals handled. External rotations
	// picked up by the staleness check are not included.
	Rotations int `cbor:"rotations"`

	StartedAt time.Time  `cbor:"started_at"`
	EndedAt   *time.Time `cbor:"ended_at,omitempty"`

	// ExitCode is the child's exit code. Nil while running and when
	// the child ended without one (killed by a signal).
	ExitCode *int `cbor:"exit_code,omitempty"`

	// Fault is the wrapper-side error that ended or degraded the run.
	Fault string `cbor:"fault,omitempty"`
}

// Write atomically replaces the record at path.
func Write(path string, record Record) error {
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding run state: %w", err)
	}
	if err := atomicfile.Write(path, data, fileMode); err != nil {
		return fmt.Errorf("writing run state: %w", err)
	}
	return nil
}

// Read decodes the record at path. When the file does not exist the
// error wraps os.ErrNotExist.
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	var record Record
	if err := codec.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("decoding run state %s: %w", path, err)
	}
	return record, nil
}
