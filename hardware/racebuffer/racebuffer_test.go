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

package racebuffer_test

import (
	"fmt"
	"testing"

	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/racebuffer"
	"github.com/softvga/softvga/test"
)

func TestSplitOnce(t *testing.T) {
	rb := racebuffer.Allocate[byte](4, 2, 2)
	test.ExpectEquality(t, rb.Capacity(), 4)
	rb.Split()
	test.ExpectPanic(t, func() { rb.Split() }, "already been split")
}

func TestTakeLineBoundary(t *testing.T) {
	thread := priority.AssumeThread()
	intr := priority.AssumeI0()

	rb := racebuffer.Allocate[byte](1, 5, 5)
	rd, wr := rb.Split()

	for w := 0; w <= wr.Capacity(); w++ {
		for i := 0; i <= wr.Capacity(); i++ {
			if i < w {
				test.ExpectNoPanic(t, func() { rd.TakeLine(i, intr) }, w, i)
			} else {
				test.ExpectPanic(t, func() { rd.TakeLine(i, intr) }, fmt.Sprintf("line %d requested but only %d available", i, w), w, i)
			}
		}
		if w < wr.Capacity() {
			wr.GenerateLine(thread, func(row []byte) {})
		}
	}

	test.ExpectPanic(t, func() { rd.TakeLine(-1, intr) }, "tearing")
}

func TestResetThenTake(t *testing.T) {
	thread := priority.AssumeThread()
	intr := priority.AssumeI1()

	rb := racebuffer.Allocate[byte](2, 3, 3)
	rd, wr := rb.Split()

	wr.GenerateLine(thread, func(row []byte) {})
	wr.GenerateLine(thread, func(row []byte) {})
	test.ExpectEquality(t, rd.Available(), 2)

	wr.Reset(thread)
	test.ExpectEquality(t, wr.Progress(), 0)

	// no lines available until at least one has been generated
	for i := 0; i < 3; i++ {
		test.ExpectPanic(t, func() { rd.TakeLine(0, intr) }, "tearing")
	}

	wr.GenerateLine(thread, func(row []byte) {})
	test.ExpectNoPanic(t, func() { rd.TakeLine(0, intr) })
}

func TestRoundTripAcrossSegments(t *testing.T) {
	thread := priority.AssumeThread()
	intr := priority.AssumeI0()

	// segments of unequal length so that the boundary is not in the middle
	rb := racebuffer.Allocate[uint16](3, 4, 7)
	rd, wr := rb.Split()

	n := wr.Capacity()
	for i := 0; i < n; i++ {
		wr.GenerateLine(thread, func(row []uint16) {
			for x := range row {
				row[x] = uint16(i*10 + x)
			}
		})
	}

	for i := 0; i < n; i++ {
		row := rd.TakeLine(i, intr)
		test.DemandEquality(t, len(row), 3)
		for x := range row {
			test.ExpectEquality(t, row[x], uint16(i*10+x), i, x)
		}
	}

	test.ExpectPanic(t, func() { wr.GenerateLine(thread, func(row []uint16) {}) }, "already generated")
}

func TestExplicitSegments(t *testing.T) {
	thread := priority.AssumeThread()
	intr := priority.AssumeI0()

	seg0 := [][]byte{{'a'}}
	seg1 := [][]byte{{'b'}, {'c'}}
	rd, wr := racebuffer.New(seg0, seg1).Split()

	for i := 0; i < 3; i++ {
		wr.GenerateLine(thread, func(row []byte) {})
	}
	test.ExpectEquality(t, string(rd.TakeLine(0, intr)), "a")
	test.ExpectEquality(t, string(rd.TakeLine(1, intr)), "b")
	test.ExpectEquality(t, string(rd.TakeLine(2, intr)), "c")
}

func TestEmptyFirstSegment(t *testing.T) {
	thread := priority.AssumeThread()
	intr := priority.AssumeI0()

	rd, wr := racebuffer.New(nil, [][]byte{{'x'}}).Split()
	wr.GenerateLine(thread, func(row []byte) { row[0] = 'y' })
	test.ExpectEquality(t, string(rd.TakeLine(0, intr)), "y")
}

func TestConcurrentProduction(t *testing.T) {
	intr := priority.AssumeI0()

	rb := racebuffer.Allocate[int](1, 64, 64)
	rd, wr := rb.Split()

	done := make(chan struct{})
	go func() {
		thread := priority.AssumeThread()
		for i := 0; i < wr.Capacity(); i++ {
			wr.GenerateLine(thread, func(row []int) { row[0] = i })
		}
		close(done)
	}()

	// the reader never reads beyond what is available and so never panics
	next := 0
	for next < rb.Capacity() {
		for next < rd.Available() {
			test.ExpectEquality(t, rd.TakeLine(next, intr)[0], next)
			next++
		}
	}
	<-done
}
