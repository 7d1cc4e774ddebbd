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
	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/hardware/vga"
)

// BarColors are the colours of the bars from left to right. White, yellow,
// cyan, green, magenta, red, blue, black.
var BarColors = [...]byte{0xff, 0xfc, 0x1f, 0x1c, 0xe3, 0xe0, 0x03, 0x00}

// Bars is a colour bar pattern. There is no thread mode state.
type Bars struct {
	line [timing.MaxPixelsPerLine]byte
}

// NewBars is the preferred method of initialisation for the Bars type.
func NewBars() *Bars {
	b := &Bars{}
	w := len(b.line) / len(BarColors)
	for i := range b.line {
		b.line[i] = BarColors[i/w]
	}
	return b
}

func (b *Bars) String() string {
	return "bars"
}

// Raster implements the Pattern interface.
func (b *Bars) Raster(_ int, target []byte, ctx *vga.RasterCtx, _ priority.I0) {
	copy(target, b.line[:])
	ctx.TargetRange = vga.Range{Start: 0, End: len(b.line)}
}

// Frame implements the Pattern interface.
func (b *Bars) Frame(_ *vga.Live, _ int) {
}
