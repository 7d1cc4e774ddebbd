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
	"github.com/softvga/softvga/hardware/board"
	"github.com/softvga/softvga/hardware/dma"
	"github.com/softvga/softvga/hardware/memory/memorymap"
	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/timing"
)

// hstate is the handler for both horizontal timer compares.
func (d *driver) hstate(tok priority.I1) {
	sr := d.res.HTimer.AcknowledgeFlags(board.CC2IF | board.CC3IF)
	if sr&board.CC2IF == board.CC2IF {
		d.startOfActiveVideo(tok)
	}
	if sr&board.CC3IF == board.CC3IF {
		d.endOfActiveVideo(tok)
	}
}

// startOfActiveVideo starts the stream with the transfer prepared during the
// previous line. nothing else happens here.
func (d *driver) startOfActiveVideo(_ priority.I1) {
	if !timing.VState(d.vstate.Load()).Displayed() || !d.videoOn.Load() {
		return
	}

	g := d.next.MustLock("next transfer")
	n := g.Value()
	x := n.transfer
	stale := !n.fresh
	n.fresh = false
	g.Unlock()

	hw := d.hw.MustLock("horizontal hardware")
	h := hw.Value()
	if x.Paced() {
		h.stream.M0AR.Set(d.scan.Addr)
		h.stream.PAR.Set(memorymap.GPIOEOutput)
	} else {
		h.stream.PAR.Set(d.scan.Addr)
		h.stream.M0AR.Set(memorymap.GPIOEOutput)
	}
	h.stream.NDTR.Set(uint32(x.Count))
	h.stream.CR.Set(uint32(x.Control | dma.EN))
	if x.Paced() {
		h.pacer.CR1.SetBits(board.CEN)
	}
	hw.Unlock()

	if stale {
		d.stats.staleSAV.Add(1)
	}
}

// endOfActiveVideo stops the pacer, advances the vertical state machine and
// pends the raster handler.
func (d *driver) endOfActiveVideo(_ priority.I1) {
	hw := d.hw.MustLock("horizontal hardware")
	hw.Value().pacer.CR1.ClearBits(board.CEN)
	hw.Unlock()

	step := d.timing.Step(int(d.line.Load()) + 1)
	if step.VSyncEdge {
		d.res.SyncPort.ODR.ToggleBits(board.VSyncPin)
	}
	if step.Transition {
		d.vstate.Store(uint32(step.State))
		if step.State == timing.Blank {
			d.stats.frames.Add(1)
		}
	}
	d.line.Store(int32(step.Line))

	d.res.NVIC.Pend(board.PendSVVector)
}

// shock acknowledges the shock absorber timer and idles until the SAV
// interrupt arrives.
func (d *driver) shock(tok priority.I2) {
	d.res.ShockTimer.AcknowledgeFlags(board.CC2IF)
	d.stats.shocks.Add(1)
	d.res.CPU.Sleep(tok)
}
