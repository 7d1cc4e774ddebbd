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
	"github.com/softvga/softvga/hardware/dma"
	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/timing"
)

// maintainRaster runs once per line after EAV. For displayed lines it
// prepares the following SAV: the transfer is computed from the context of
// the line in the working buffer and the working buffer is copied to the scan
// buffer. For rendered lines it then produces the next line into the working
// buffer.
func (d *driver) maintainRaster(tok priority.I0) {
	state := timing.VState(d.vstate.Load())

	if state.Displayed() {
		x := dma.Plan(d.ctx.TargetRange.End, d.ctx.CyclesPerPixel)

		g := d.next.MustLock("next transfer")
		*g.Value() = nextTransfer{transfer: x, fresh: true}
		g.Unlock()

		if x.Paced() {
			hw := d.hw.MustLock("horizontal hardware")
			hw.Value().pacer.ARR.Set(uint32(x.CyclesPerPixel - 1))
			hw.Unlock()
		}

		if d.fresh {
			d.updateScanBuffer()
			d.fresh = false
		}
	}

	if !state.Rendered() {
		return
	}

	if state == timing.Starting {
		d.repeat = 0
	}

	if d.repeat > 0 {
		d.repeat--
		d.stats.repeated.Add(1)
		return
	}

	visible := int(d.line.Load()) + 1 - d.timing.VideoStartLine
	ctx := newRasterCtx()
	ok := d.raster.Observe(func(raster Raster) {
		raster(visible, d.working.Data, &ctx, tok)
	})
	if !ok {
		// nothing registered. the line is black
		ctx = newRasterCtx()
	} else {
		ctx.validate(len(d.working.Data))
		d.stats.invocations.Add(1)
	}

	d.ctx = ctx
	d.repeat = ctx.RepeatLines
	d.fresh = true
}

// updateScanBuffer copies the target range of the working buffer to the scan
// buffer. pixels before the range and a sentinel word after it are black.
func (d *driver) updateScanBuffer() {
	r := d.ctx.TargetRange
	scan := d.scan.Data
	clear(scan[:r.Start])
	copy(scan[r.Start:r.End], d.working.Data[r.Start:r.End])
	clear(scan[r.End : r.End+sentinelBytes])
}
