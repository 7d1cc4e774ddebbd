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

	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/hardware/vga/rast"
)

// SolidBands is the number of horizontal bands drawn by the Solid pattern.
const SolidBands = 8

// the number of frames the colours are held before they move down a band
const solidHold = 30

// Solid draws horizontal bands of solid colour. Each band is produced by a
// single call to the raster function. The colours cycle.
type Solid struct {
	height int

	// the colour of the first band. changed by thread mode
	phase atomic.Uint32
}

// NewSolid is the preferred method of initialisation for the Solid type.
func NewSolid(visibleLines int) *Solid {
	height := visibleLines / SolidBands
	if height < 1 {
		height = 1
	}
	return &Solid{height: height}
}

func (s *Solid) String() string {
	return "solid"
}

// Raster implements the Pattern interface.
func (s *Solid) Raster(line int, target []byte, ctx *vga.RasterCtx, _ priority.I0) {
	band := line / s.height
	rast.SolidColor(ctx, target, BarColors[(band+int(s.phase.Load()))%len(BarColors)])

	// the rest of the band repeats this line
	ctx.RepeatLines = s.height - 1 - line%s.height
}

// Frame implements the Pattern interface.
func (s *Solid) Frame(_ *vga.Live, frame int) {
	if frame%solidHold == solidHold-1 {
		s.phase.Add(1)
	}
}
