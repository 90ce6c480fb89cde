// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides the validated configuration consumed by the
// logwrap supervisor.
//
// Configuration comes from three layers, lowest precedence first:
// [Default], an optional YAML file loaded with [LoadFile] (named by the
// --config flag; there is no environment variable or search path), and
// command-line flags applied by cmd/logwrap. Once [Config.Validate]
// passes, the supervisor treats the struct as immutable.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded from the process
// environment.
//
// The rotate signal is a closed enumeration ([RotateSignal]) with an
// explicit mapping to syscall signal numbers. It implements
// pflag.Value and yaml.Unmarshaler so both layers parse it identically.
//
// This package depends on no other logwrap packages.
package config
