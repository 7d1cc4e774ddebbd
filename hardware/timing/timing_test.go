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

package timing_test

import (
	"testing"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/test"
)

func TestSVGA(t *testing.T) {
	tm := timing.SVGA800x600
	test.ExpectSuccess(t, tm.Validate())
	test.ExpectEquality(t, tm.FrameLines(), 628)
	test.ExpectEquality(t, tm.VisibleLines(), 600)
	test.ExpectEquality(t, tm.LineCycles(), 4224)
	test.ExpectEquality(t, tm.SAVCycle(), (128+88-22)*4)
	test.ExpectEquality(t, tm.EAVCycle(), tm.SAVCycle()+3200)
	test.ExpectEquality(t, tm.ShockCycle(), tm.SAVCycle()-timing.ShockAbsorberShift)
	test.ExpectApproximate(t, tm.RefreshRate(), 60.3, 0.01)
}

func TestValidate(t *testing.T) {
	bad := []func(*timing.Timing){
		func(tm *timing.Timing) { tm.LinePixels = 0 },
		func(tm *timing.Timing) { tm.VideoPixels = 1000 },
		func(tm *timing.Timing) { tm.VideoLead = 300 },
		func(tm *timing.Timing) { tm.VSyncStartLine = 0 },
		func(tm *timing.Timing) { tm.VSyncEndLine = tm.VSyncStartLine },
		func(tm *timing.Timing) { tm.VideoStartLine = tm.VSyncEndLine + 1 },
		func(tm *timing.Timing) { tm.VideoEndLine = tm.VideoStartLine + 1 },
	}
	for i, f := range bad {
		tm := timing.SVGA800x600
		f(&tm)
		err := tm.Validate()
		test.ExpectFailure(t, err, i)
		test.ExpectSuccess(t, curated.Is(err, timing.InvalidTiming), i)
	}
}

func TestStateBits(t *testing.T) {
	test.ExpectEquality(t, timing.Blank.Rendered(), false)
	test.ExpectEquality(t, timing.Blank.Displayed(), false)
	test.ExpectEquality(t, timing.Starting.Rendered(), true)
	test.ExpectEquality(t, timing.Starting.Displayed(), false)
	test.ExpectEquality(t, timing.Active.Rendered(), true)
	test.ExpectEquality(t, timing.Active.Displayed(), true)
	test.ExpectEquality(t, timing.Finishing.Rendered(), false)
	test.ExpectEquality(t, timing.Finishing.Displayed(), true)
}

// runs the state machine for the given number of lines starting from line
// zero in the blank state, calling f after every step
func run(tm timing.Timing, lines int, f func(line int, state timing.VState, step timing.Step)) {
	line := 0
	state := timing.Blank
	for i := 0; i < lines; i++ {
		s := tm.Step(line + 1)
		line = s.Line
		if s.Transition {
			state = s.State
		}
		f(line, state, s)
	}
}

func TestStateSequence(t *testing.T) {
	vga640x480 := timing.Timing{
		LinePixels:      800,
		SyncPixels:      96,
		BackPorchPixels: 48,
		VideoLead:       10,
		VideoPixels:     640,
		HSyncPolarity:   timing.Negative,
		VSyncStartLine:  10,
		VSyncEndLine:    12,
		VideoStartLine:  45,
		VideoEndLine:    525,
		VSyncPolarity:   timing.Negative,
	}

	// the smallest gaps between vsync, video start and video end
	minimal := timing.SVGA800x600
	minimal.VSyncStartLine = 1
	minimal.VSyncEndLine = 2
	minimal.VideoStartLine = 4
	minimal.VideoEndLine = 6

	// vsync some distance from the start of the frame
	lateVSync := timing.SVGA800x600
	lateVSync.VSyncStartLine = 5
	lateVSync.VSyncEndLine = 9
	lateVSync.VideoStartLine = 11
	lateVSync.VideoEndLine = 13

	tests := []struct {
		name string
		tm   timing.Timing
	}{
		{name: "svga", tm: timing.SVGA800x600},
		{name: "640x480", tm: vga640x480},
		{name: "minimal", tm: minimal},
		{name: "late vsync", tm: lateVSync},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := tt.tm
			test.DemandSuccess(t, tm.Validate())

			const frames = 2

			var sequence []timing.VState
			durations := make(map[timing.VState]int)
			var edges []int

			state := timing.Blank
			run(tm, tm.FrameLines()*frames, func(line int, s timing.VState, step timing.Step) {
				if step.Transition {
					sequence = append(sequence, s)
				}
				if step.VSyncEdge {
					edges = append(edges, line)
				}
				durations[s]++
				state = s
			})

			test.ExpectEquality(t, state, timing.Blank)
			test.DemandEquality(t, len(sequence), 4*frames)
			expected := []timing.VState{timing.Starting, timing.Active, timing.Finishing, timing.Blank}
			for i, s := range sequence {
				test.ExpectEquality(t, s, expected[i%4], i)
			}

			test.ExpectEquality(t, durations[timing.Starting], frames)
			test.ExpectEquality(t, durations[timing.Active], frames*(tm.VisibleLines()-1))
			test.ExpectEquality(t, durations[timing.Finishing], frames)
			test.ExpectEquality(t, durations[timing.Blank], frames*(tm.FrameLines()-tm.VisibleLines()-1))

			// displayed lines are the active lines and the finishing line
			test.ExpectEquality(t, durations[timing.Active]+durations[timing.Finishing], frames*tm.VisibleLines())

			test.DemandEquality(t, len(edges), 2*frames)
			for i := 0; i < frames; i++ {
				test.ExpectEquality(t, edges[i*2], tm.VSyncStartLine, i)
				test.ExpectEquality(t, edges[i*2+1], tm.VSyncEndLine, i)
			}
		})
	}
}

func TestRollover(t *testing.T) {
	tm := timing.SVGA800x600
	s := tm.Step(tm.VideoEndLine)
	test.ExpectEquality(t, s.Line, 0)
	test.ExpectEquality(t, s.State, timing.Blank)
	test.ExpectSuccess(t, s.Transition)

	s = tm.Step(tm.VideoStartLine - 1)
	test.ExpectEquality(t, s.State, timing.Starting)
	test.ExpectEquality(t, s.Line, tm.VideoStartLine-1)

	s = tm.Step(100)
	test.ExpectEquality(t, s.Transition, false)
	test.ExpectEquality(t, s.VSyncEdge, false)
	test.ExpectEquality(t, s.Line, 100)
}
