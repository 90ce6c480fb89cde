// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stream pumps one child output pipe into one [sink.Sink].
//
// A [Router] splits the work across two goroutines. Its reader goroutine
// owns the pipe: it reads bounded chunks ([ChunkSize]) and hands each one
// to the caller over an unbuffered channel ([Router.Chunks]), so at most
// one chunk per stream is in flight and a slow sink pushes back on the
// child through the kernel pipe buffer. The caller's goroutine (the
// supervisor's event loop) owns the sink and passes each chunk to
// [Router.Route], which redirects to a fresh file when the sink is stale
// and then appends the bytes.
//
// End of stream closes the chunk channel; a read error is delivered as a
// final [Chunk] with Err set, then the channel is closed. The event loop
// sets its copy of a closed channel to nil so an idle stream is never
// selected again.
package stream
