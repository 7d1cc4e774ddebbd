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
	"github.com/softvga/softvga/hardware/memory"
	"github.com/softvga/softvga/hardware/memory/bitband"
	"github.com/softvga/softvga/hardware/memory/memorymap"
	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/spinlock"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/hardware/vga/rast"
)

// The checker bitmap is half the resolution of the screen in both axes.
const (
	CheckerWidth = timing.MaxPixelsPerLine / 2

	// each row of the bitmap is padded to a whole number of words
	checkerStrideWords = (CheckerWidth + 31) / 32
	checkerStride      = checkerStrideWords * 4

	// size of the squares in bitmap pixels
	checkerSquare = 25
)

// CheckerColors are the background and foreground colours of the checker
// pattern.
var CheckerColors = [2]byte{0x00, 0xff}

type checkerBuffer struct {
	view  *bitband.View
	words []uint32
}

// Checker is a 1bpp bitmap pattern. There are two bitmaps: one is read by the
// raster function while the other is drawn by thread mode. The bitmaps are
// swapped during vertical blank.
type Checker struct {
	height  int
	buffers [2]checkerBuffer

	// index of the buffer being displayed. thread mode draws into the other
	// buffer
	front *spinlock.RWSpinLock[int]

	// the buffer thread mode draws into. only thread mode uses this value
	back int
}

// NewChecker is the preferred method of initialisation for the Checker type.
// The bitmaps are allocated in bit-banded memory.
func NewChecker(mem *memory.Memory, visibleLines int) (*Checker, error) {
	chk := &Checker{
		height: (visibleLines + 1) / 2,
		front:  spinlock.NewRW(0),
		back:   1,
	}

	for i := range chk.buffers {
		blk, err := mem.Allocate(memorymap.SRAM112, checkerStride*chk.height, 4)
		if err != nil {
			return nil, err
		}
		view, err := bitband.New(blk)
		if err != nil {
			return nil, err
		}
		words, err := rast.BytesAsWords(blk.Data)
		if err != nil {
			return nil, err
		}
		chk.buffers[i] = checkerBuffer{view: view, words: words}
	}

	return chk, nil
}

func (chk *Checker) String() string {
	return "checker"
}

// Bitmap returns the view of the bitmap currently being displayed.
func (chk *Checker) Bitmap() *bitband.View {
	g := chk.front.LockMut()
	defer g.Unlock()
	return chk.buffers[*g.Value()].view
}

// Raster implements the Pattern interface.
func (chk *Checker) Raster(line int, target []byte, ctx *vga.RasterCtx, _ priority.I0) {
	row := line / 2

	g := chk.front.MustLock("checker front buffer")
	words := chk.buffers[*g.Value()].words[row*checkerStrideWords : (row+1)*checkerStrideWords]
	rast.Unpack1bpp(words, CheckerColors, target[:checkerStrideWords*32])
	g.Unlock()

	ctx.TargetRange = vga.Range{Start: 0, End: CheckerWidth}
	ctx.CyclesPerPixel = timing.BaseCyclesPerPixel * 2
	ctx.RepeatLines = 1
}

// draw the checker board into the back buffer with the squares offset by the
// number of pixels
func (chk *Checker) draw(offset int) {
	view := chk.buffers[chk.back].view
	for y := 0; y < chk.height; y++ {
		for x := 0; x < CheckerWidth; x++ {
			on := ((x+offset)/checkerSquare+(y+offset)/checkerSquare)%2 == 1
			view.Set(y*checkerStride*8+x, on)
		}
	}
}

// Frame implements the Pattern interface. The next bitmap is drawn and then
// swapped with the one being displayed.
func (chk *Checker) Frame(_ *vga.Live, frame int) {
	chk.draw(frame)

	g := chk.front.LockMut()
	*g.Value(), chk.back = chk.back, *g.Value()
	g.Unlock()
}
