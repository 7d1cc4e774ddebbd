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

package vga

import (
	"fmt"

	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/timing"
)

// Range is a half open range of pixel indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of pixels in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// RasterCtx is passed to the Raster function for every line. The function
// describes the line it produced by modifying the context.
type RasterCtx struct {
	// pixels of the target that were written. pixels outside the range are
	// black. empty by default
	TargetRange Range

	// number of CPU cycles each pixel is displayed for. must be a multiple
	// of timing.BaseCyclesPerPixel
	CyclesPerPixel int

	// number of following lines that repeat this line. the Raster function
	// is not called for repeated lines
	RepeatLines int
}

func newRasterCtx() RasterCtx {
	return RasterCtx{
		CyclesPerPixel: timing.BaseCyclesPerPixel,
	}
}

// Raster produces the pixels for a visible line into the target. The target
// is at least timing.MaxPixelsPerLine long. Line numbers start at zero with
// the first visible line.
//
// Raster runs in the raster maintenance interrupt and must complete before
// the end of the next line.
type Raster func(line int, target []byte, ctx *RasterCtx, tok priority.I0)

// Render is the application's main loop. It runs in thread mode for as long
// as its Raster function is registered.
type Render func(live *Live)

// validate panics if the context describes a line that cannot be displayed.
func (ctx RasterCtx) validate(width int) {
	r := ctx.TargetRange
	if r.Start < 0 || r.End < r.Start || r.End > width {
		panic(fmt.Sprintf("vga: target range %v outside of line width %d", r, width))
	}
	if ctx.CyclesPerPixel < timing.BaseCyclesPerPixel {
		panic(fmt.Sprintf("vga: %d cycles per pixel is faster than the pixel clock", ctx.CyclesPerPixel))
	}
	if ctx.RepeatLines < 0 {
		panic(fmt.Sprintf("vga: negative repeat count %d", ctx.RepeatLines))
	}
}
