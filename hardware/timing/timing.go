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

// Package timing contains the description of a video mode and the vertical
// state machine that is driven by it.
//
// Horizontal quantities are in pixels of the base pixel clock, which is one
// quarter of the CPU clock. Vertical quantities are in scanlines counted from
// the start of the frame. The frame is VideoEndLine lines long: the line
// counter rolls over to zero when it reaches VideoEndLine.
package timing

import (
	"github.com/softvga/softvga/curated"
)

// CPU clock frequency of the target in Hz.
const CPUHz = 160_000_000

// BaseCyclesPerPixel is the number of CPU cycles per pixel of the base pixel
// clock. The DMA controller moves one byte every four cycles when copying
// memory to memory, which is how the 40MHz pixel clock is produced.
const BaseCyclesPerPixel = 4

// ShockAbsorberShift is the number of cycles before the start of active video
// at which the shock absorber interrupt fires.
const ShockAbsorberShift = 20

// MaxPixelsPerLine is the widest line supported by the driver.
const MaxPixelsPerLine = 800

// Polarity of a sync signal.
type Polarity int

// List of valid Polarity values.
const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// Active returns the level of the signal while the sync pulse is active.
func (p Polarity) Active() bool {
	return p == Positive
}

// Timing describes a video mode.
type Timing struct {
	// total length of a line including blanking
	LinePixels int

	// length of the horizontal sync pulse
	SyncPixels int

	// length of the back porch, between the end of the sync pulse and the
	// start of active video
	BackPorchPixels int

	// number of pixels by which the start of active video interrupt is moved
	// earlier, to account for interrupt latency and DMA startup
	VideoLead int

	// number of visible pixels
	VideoPixels int

	HSyncPolarity Polarity

	VSyncStartLine int
	VSyncEndLine   int
	VideoStartLine int
	VideoEndLine   int

	VSyncPolarity Polarity
}

// SVGA800x600 is the standard VESA 800x600 mode at 60Hz. The 40MHz pixel
// clock is derived from a 160MHz CPU clock.
var SVGA800x600 = Timing{
	LinePixels:      1056,
	SyncPixels:      128,
	BackPorchPixels: 88,
	VideoLead:       22,
	VideoPixels:     800,
	HSyncPolarity:   Positive,
	VSyncStartLine:  1,
	VSyncEndLine:    1 + 4,
	VideoStartLine:  1 + 4 + 23,
	VideoEndLine:    1 + 4 + 23 + 600,
	VSyncPolarity:   Positive,
}

// InvalidTiming is the pattern for errors returned by Validate().
const InvalidTiming = "timing: invalid: %s"

// Validate checks that the timing can be used by the driver.
func (t Timing) Validate() error {
	switch {
	case t.LinePixels <= 0 || t.SyncPixels <= 0 || t.BackPorchPixels < 0 || t.VideoPixels <= 0:
		return curated.Errorf(InvalidTiming, "horizontal values must be positive")
	case t.SyncPixels+t.BackPorchPixels+t.VideoPixels > t.LinePixels:
		return curated.Errorf(InvalidTiming, "sync, back porch and video do not fit in line")
	case t.VideoPixels > MaxPixelsPerLine:
		return curated.Errorf(InvalidTiming, "too many video pixels")
	case t.VideoLead < 0 || t.VideoLead*BaseCyclesPerPixel+ShockAbsorberShift > (t.SyncPixels+t.BackPorchPixels)*BaseCyclesPerPixel:
		return curated.Errorf(InvalidTiming, "video lead does not fit in horizontal blank")
	case t.VSyncStartLine < 1:
		// line zero is never seen by the state machine because it is
		// reached by rolling over
		return curated.Errorf(InvalidTiming, "vsync must start on line 1 or later")
	case t.VSyncEndLine <= t.VSyncStartLine:
		return curated.Errorf(InvalidTiming, "vsync ends before it starts")
	case t.VideoStartLine <= t.VSyncEndLine+1:
		// the starting state is entered one line before video starts and
		// that line must not also be a vsync edge
		return curated.Errorf(InvalidTiming, "video starts during vsync")
	case t.VideoEndLine <= t.VideoStartLine+1:
		return curated.Errorf(InvalidTiming, "video must be at least two lines")
	}
	return nil
}

// FrameLines returns the number of lines in a frame.
func (t Timing) FrameLines() int {
	return t.VideoEndLine
}

// VisibleLines returns the number of lines of active video.
func (t Timing) VisibleLines() int {
	return t.VideoEndLine - t.VideoStartLine
}

// LineCycles returns the length of a line in CPU cycles.
func (t Timing) LineCycles() int {
	return t.LinePixels * BaseCyclesPerPixel
}

// HSyncEndCycle returns the cycle within the line at which the horizontal
// sync pulse ends.
func (t Timing) HSyncEndCycle() int {
	return t.SyncPixels * BaseCyclesPerPixel
}

// SAVCycle returns the cycle within the line at which the start of active
// video interrupt fires.
func (t Timing) SAVCycle() int {
	return (t.SyncPixels + t.BackPorchPixels - t.VideoLead) * BaseCyclesPerPixel
}

// EAVCycle returns the cycle within the line at which the end of active
// video interrupt fires.
func (t Timing) EAVCycle() int {
	return t.SAVCycle() + t.VideoPixels*BaseCyclesPerPixel
}

// ShockCycle returns the cycle within the line at which the shock absorber
// fires.
func (t Timing) ShockCycle() int {
	return t.SAVCycle() - ShockAbsorberShift
}

// RefreshRate returns the number of frames per second.
func (t Timing) RefreshRate() float32 {
	return float32(CPUHz) / float32(t.LineCycles()*t.FrameLines())
}
