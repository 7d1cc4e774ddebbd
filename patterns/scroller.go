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

package patterns

import (
	"sync/atomic"

	"github.com/softvga/softvga/hardware/memory"
	"github.com/softvga/softvga/hardware/memory/memorymap"
	"github.com/softvga/softvga/hardware/racebuffer"
	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/hardware/vga/rast"
)

// The scroller is a quarter of the screen resolution in both axes.
const (
	ScrollerWidth = timing.MaxPixelsPerLine / 4
	ScrollerRows  = 150

	scrollerWords = ScrollerWidth / 4

	// rows in the first segment of the race buffer. the remaining rows are
	// in the second segment
	scrollerRows0 = 100
)

// Scroller is a pattern where thread mode produces the rows of the frame
// while the frame is being displayed. The rows are handed to the raster
// function through a race buffer. If thread mode falls behind the scanout the
// raster function panics.
type Scroller struct {
	reader *racebuffer.Reader[uint32]
	writer *racebuffer.Writer[uint32]

	// thread mode has started producing frames. until then the raster
	// function draws nothing
	started atomic.Bool

	// the number of lines thread mode waits between producing rows. zero
	// means the rows are produced all at once
	linesPerRow int
}

// NewScroller is the preferred method of initialisation for the Scroller
// type. The rows are allocated in two different areas of memory.
func NewScroller(mem *memory.Memory, linesPerRow int) (*Scroller, error) {
	alloc := func(area memorymap.Area, n int) ([][]uint32, error) {
		blk, err := mem.Allocate(area, ScrollerWidth*n, 4)
		if err != nil {
			return nil, err
		}
		words, err := rast.BytesAsWords(blk.Data)
		if err != nil {
			return nil, err
		}
		rows := make([][]uint32, n)
		for i := range rows {
			rows[i] = words[i*scrollerWords : (i+1)*scrollerWords : (i+1)*scrollerWords]
		}
		return rows, nil
	}

	seg0, err := alloc(memorymap.SRAM112, scrollerRows0)
	if err != nil {
		return nil, err
	}
	seg1, err := alloc(memorymap.SRAM16, ScrollerRows-scrollerRows0)
	if err != nil {
		return nil, err
	}

	scr := &Scroller{
		linesPerRow: linesPerRow,
	}
	scr.reader, scr.writer = racebuffer.New(seg0, seg1).Split()

	return scr, nil
}

func (scr *Scroller) String() string {
	return "scroller"
}

// Progress returns the number of rows produced during the current frame.
func (scr *Scroller) Progress() int {
	return scr.writer.Progress()
}

// Raster implements the Pattern interface.
func (scr *Scroller) Raster(line int, target []byte, ctx *vga.RasterCtx, tok priority.I0) {
	if !scr.started.Load() {
		return
	}
	row := scr.reader.TakeLine(line/4, tok)
	dst, err := rast.BytesAsWords(target[:ScrollerWidth])
	if err != nil {
		panic(err)
	}
	rast.CopyWords(dst, row)
	ctx.TargetRange = vga.Range{Start: 0, End: ScrollerWidth}
	ctx.CyclesPerPixel = timing.BaseCyclesPerPixel * 4
	ctx.RepeatLines = 3
}

// Frame implements the Pattern interface. It produces every row of the frame
// and so does not return until the frame is almost over.
func (scr *Scroller) Frame(live *vga.Live, frame int) {
	tok := live.Thread()

	// the raster function is not called during vertical blank so the rows
	// can be reused
	scr.writer.Reset(tok)
	scr.started.Store(true)

	for y := 0; y < scr.writer.Capacity(); y++ {
		scr.writer.GenerateLine(tok, func(row []uint32) {
			px := rast.WordsAsBytes(row)
			for x := range px {
				// diagonal stripes moving to the left
				px[x] = BarColors[((x+y+frame*2)/8)%len(BarColors)]
			}
		})
		for i := 0; i < scr.linesPerRow; i++ {
			live.WaitForInterrupt()
		}
	}
}
