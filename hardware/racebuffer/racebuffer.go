// This file is part of softvga.
//
// softvga is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// softvga is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with softvga.  If not, see <https://www.gnu.org/licenses/>.

// Package racebuffer implements a line buffer shared between a thread-mode
// writer and an interrupt-mode reader without a lock.
//
// The buffer has two segments of rows. The segments are addressed as if they
// were one contiguous list of rows, the first segment supplying rows
// 0..len(segment0) and the second the rest. Splitting the storage in two
// allows a frame to be assembled from memories that cannot be allocated as a
// single block on the target.
//
// A single atomic counter records how many rows the writer has completed. The
// reader may only take rows below that count. Reaching an unwritten row is
// tearing: the renderer has fallen behind the scanout and the reader panics
// with the requested and available line numbers.
//
// The writer and reader are obtained with Split(), which may only be called
// once. Writer methods require a priority.Thread token and reader methods a
// priority.Interrupt token. Because an interrupt can never be preempted by
// thread mode, the reader's view of a completed row can never change while
// it is being read.
package racebuffer

import (
	"fmt"
	"sync/atomic"

	"github.com/softvga/softvga/hardware/priority"
)

// RaceBuffer is the backing storage. It is not used directly after Split().
type RaceBuffer[T any] struct {
	segments [2][][]T

	// number of rows completed by the writer
	progress atomic.Int64

	split atomic.Bool
}

// New is the preferred method of initialisation for the RaceBuffer type. The
// two segments can be of different lengths. Either can be empty.
func New[T any](segment0, segment1 [][]T) *RaceBuffer[T] {
	return &RaceBuffer[T]{
		segments: [2][][]T{segment0, segment1},
	}
}

// Allocate creates a RaceBuffer with rows of the specified width. rows0 and
// rows1 are the number of rows in each segment.
func Allocate[T any](width int, rows0 int, rows1 int) *RaceBuffer[T] {
	alloc := func(n int) [][]T {
		backing := make([]T, width*n)
		rows := make([][]T, n)
		for i := range rows {
			rows[i] = backing[i*width : (i+1)*width : (i+1)*width]
		}
		return rows
	}
	return New(alloc(rows0), alloc(rows1))
}

// Capacity returns the total number of rows in both segments.
func (rb *RaceBuffer[T]) Capacity() int {
	return len(rb.segments[0]) + len(rb.segments[1])
}

// Split returns the reader and writer for the buffer. It panics if called
// more than once.
func (rb *RaceBuffer[T]) Split() (*Reader[T], *Writer[T]) {
	if rb.split.Swap(true) {
		panic("racebuffer: buffer has already been split")
	}
	return &Reader[T]{rb: rb}, &Writer[T]{rb: rb}
}

// row returns the row at the index, translating the index across the segment
// boundary.
func (rb *RaceBuffer[T]) row(i int) []T {
	if i < len(rb.segments[0]) {
		return rb.segments[0][i]
	}
	return rb.segments[1][i-len(rb.segments[0])]
}

// Writer is the producing side of a RaceBuffer.
type Writer[T any] struct {
	rb *RaceBuffer[T]
}

// GenerateLine passes the next unwritten row to f. When f returns the row is
// published to the reader. It panics if every row has already been written.
func (w *Writer[T]) GenerateLine(_ priority.Thread, f func(row []T)) {
	// only the writer changes progress so there is no race between this
	// load and the store below
	i := int(w.rb.progress.Load())
	if i >= w.rb.Capacity() {
		panic(fmt.Sprintf("racebuffer: all %d lines already generated", i))
	}
	f(w.rb.row(i))
	w.rb.progress.Store(int64(i + 1))
}

// Reset sets the write progress to zero so that a new frame can be produced.
// It must only be called when the reader cannot be using the buffer, which
// for the video driver means during vertical blank.
func (w *Writer[T]) Reset(_ priority.Thread) {
	w.rb.progress.Store(0)
}

// Progress returns the number of rows published since the last Reset().
func (w *Writer[T]) Progress() int {
	return int(w.rb.progress.Load())
}

// Capacity returns the total number of rows in the buffer.
func (w *Writer[T]) Capacity() int {
	return w.rb.Capacity()
}

// Reader is the consuming side of a RaceBuffer.
type Reader[T any] struct {
	rb *RaceBuffer[T]
}

// TakeLine returns the row for the line. The row must not be modified. If the
// line has not yet been written this is tearing and the function panics.
func (r *Reader[T]) TakeLine(line int, _ priority.Interrupt) []T {
	available := int(r.rb.progress.Load())
	if line < 0 || line >= available {
		panic(fmt.Sprintf("racebuffer: tearing: line %d requested but only %d available", line, available))
	}
	return r.rb.row(line)
}

// Available returns the number of rows the reader may currently take.
func (r *Reader[T]) Available() int {
	return int(r.rb.progress.Load())
}
