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

package timing

// VState is the vertical state of the video signal. The two low bits encode
// the two questions asked of the state on the latency-critical paths:
//
//	bit 0: rendered, the rasterizer must produce the next line
//	bit 1: displayed, the current line is scanned out
type VState uint32

// List of valid VState values.
const (
	// no rasterization and no scanout
	Blank VState = 0b00

	// the line before video starts: the first line is rasterized but nothing
	// is displayed yet
	Starting VState = 0b01

	// rasterization of the next line and scanout of the current line
	Active VState = 0b11

	// the last displayed line: scanout but no rasterization
	Finishing VState = 0b10
)

const (
	renderedBit  = 0b01
	displayedBit = 0b10
)

func (s VState) String() string {
	switch s {
	case Blank:
		return "blank"
	case Starting:
		return "starting"
	case Active:
		return "active"
	case Finishing:
		return "finishing"
	}
	return "unknown"
}

// Rendered returns true for states in which the rasterizer is invoked.
func (s VState) Rendered() bool {
	return s&renderedBit != 0
}

// Displayed returns true for states in which the current line is scanned
// out.
func (s VState) Displayed() bool {
	return s&displayedBit != 0
}

// Step is the result of advancing the line counter.
type Step struct {
	// the new line number. zero if the frame has rolled over
	Line int

	// the new state. only meaningful if Transition is true
	State      VState
	Transition bool

	// the vertical sync signal changes level at the start of this line
	VSyncEdge bool
}

// Step is the transition function of the vertical state machine. It is given
// the number of the line that is about to start and returns the new line
// number and any change of state.
func (t Timing) Step(nextLine int) Step {
	switch {
	case nextLine == t.VSyncStartLine || nextLine == t.VSyncEndLine:
		return Step{Line: nextLine, VSyncEdge: true}
	case nextLine+1 == t.VideoStartLine:
		return Step{Line: nextLine, State: Starting, Transition: true}
	case nextLine == t.VideoStartLine:
		return Step{Line: nextLine, State: Active, Transition: true}
	case nextLine+1 == t.VideoEndLine:
		return Step{Line: nextLine, State: Finishing, Transition: true}
	case nextLine == t.VideoEndLine:
		return Step{Line: 0, State: Blank, Transition: true}
	}
	return Step{Line: nextLine}
}
