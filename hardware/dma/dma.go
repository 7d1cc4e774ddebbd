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

// Package dma describes the transfers made by the DMA stream that scans
// pixels out to the video port.
//
// A Control value is an image of the stream's configuration register. It is
// computed ahead of time, during the raster maintenance interrupt, so that
// the start of active video interrupt only has to write it.
package dma

import (
	"fmt"

	"github.com/softvga/softvga/hardware/timing"
)

// Size of a single DMA transfer unit.
type Size uint32

// List of valid Size values.
const (
	Byte     Size = 0b00
	HalfWord Size = 0b01
	Word     Size = 0b10
)

// Bytes returns the number of bytes moved by a single transfer of this size.
func (s Size) Bytes() int {
	return 1 << s
}

func (s Size) String() string {
	switch s {
	case Byte:
		return "byte"
	case HalfWord:
		return "halfword"
	case Word:
		return "word"
	}
	return "unknown"
}

// Direction of a DMA transfer.
type Direction uint32

// List of valid Direction values.
const (
	PeriphToMem Direction = 0b00
	MemToPeriph Direction = 0b01
	MemToMem    Direction = 0b10
)

// Control is a DMA stream configuration register image.
type Control uint32

// Bit positions in the Control register.
const (
	EN    Control = 1 << 0
	TCIE  Control = 1 << 4
	PINC  Control = 1 << 9
	MINC  Control = 1 << 10
	TRBUF Control = 1 << 20

	dirShift   = 6
	psizeShift = 11
	msizeShift = 13
	plShift    = 16
	chselShift = 25

	fieldMask = 0b11
	chselMask = 0b111
)

// PacerChannel is the request channel on which the pixel pacing timer issues
// requests.
const PacerChannel = 7

// VeryHigh stream priority.
const VeryHigh = 0b11

// WithDirection returns a copy of the register with the direction field set.
func (c Control) WithDirection(d Direction) Control {
	return c&^(fieldMask<<dirShift) | Control(d)<<dirShift
}

// Direction field of the register.
func (c Control) Direction() Direction {
	return Direction(c>>dirShift) & fieldMask
}

// WithPSize returns a copy of the register with the peripheral size set.
func (c Control) WithPSize(s Size) Control {
	return c&^(fieldMask<<psizeShift) | Control(s)<<psizeShift
}

// PSize field of the register.
func (c Control) PSize() Size {
	return Size(c>>psizeShift) & fieldMask
}

// WithMSize returns a copy of the register with the memory size set.
func (c Control) WithMSize(s Size) Control {
	return c&^(fieldMask<<msizeShift) | Control(s)<<msizeShift
}

// MSize field of the register.
func (c Control) MSize() Size {
	return Size(c>>msizeShift) & fieldMask
}

// WithPriority returns a copy of the register with the priority field set.
func (c Control) WithPriority(pl uint32) Control {
	return c&^(fieldMask<<plShift) | Control(pl&fieldMask)<<plShift
}

// Priority field of the register.
func (c Control) Priority() uint32 {
	return uint32(c>>plShift) & fieldMask
}

// WithChannel returns a copy of the register with the request channel set.
func (c Control) WithChannel(ch uint32) Control {
	return c&^(chselMask<<chselShift) | Control(ch&chselMask)<<chselShift
}

// Channel field of the register.
func (c Control) Channel() uint32 {
	return uint32(c>>chselShift) & chselMask
}

// SourceSize is the size of the units read from the source. In memory to
// memory mode the peripheral port is the source. Otherwise the memory port is
// the source.
func (c Control) SourceSize() Size {
	if c.Direction() == MemToMem {
		return c.PSize()
	}
	return c.MSize()
}

// Paced is true if the transfer waits for requests from the pacing timer.
func (c Control) Paced() bool {
	return c.Direction() == MemToPeriph
}

func (c Control) String() string {
	return fmt.Sprintf("CR{dir=%d psize=%s msize=%s pinc=%v minc=%v pl=%d ch=%d en=%v}",
		c.Direction(), c.PSize(), c.MSize(), c&PINC == PINC, c&MINC == MINC,
		c.Priority(), c.Channel(), c&EN == EN)
}

// Transfer is a fully computed description of the next scanout.
type Transfer struct {
	// register image without the enable bit
	Control Control

	// number of transfer units
	Count int

	// number of CPU cycles per pixel. the base rate unless the transfer is
	// paced
	CyclesPerPixel int
}

// Bytes returns the number of bytes read from the source.
func (x Transfer) Bytes() int {
	return x.Count * x.Control.SourceSize().Bytes()
}

// Paced is true if the pacing timer must be started alongside the stream.
func (x Transfer) Paced() bool {
	return x.Control.Paced()
}

func (x Transfer) String() string {
	return fmt.Sprintf("%d x %s (%d bytes) @ %d cpp", x.Count, x.Control.SourceSize(), x.Bytes(), x.CyclesPerPixel)
}

// Plan computes the transfer for a line of the given length in pixels.
//
// The transfer always reads at least one unit past the end of the line. The
// scan buffer carries a black sentinel after the pixels so that the video
// output returns to black when the stream finishes.
//
// Unpaced transfers run memory to memory at the base pixel rate and read the
// widest unit the length is divisible by. Paced transfers move one byte per
// request from the pacing timer.
func Plan(length int, cyclesPerPixel int) Transfer {
	if length < 0 {
		panic(fmt.Sprintf("dma: negative transfer length %d", length))
	}

	if cyclesPerPixel > timing.BaseCyclesPerPixel {
		cr := Control(0).
			WithDirection(MemToPeriph).
			WithMSize(Byte).
			WithPSize(Byte).
			WithPriority(VeryHigh).
			WithChannel(PacerChannel) | MINC
		return Transfer{
			Control:        cr,
			Count:          length + 1,
			CyclesPerPixel: cyclesPerPixel,
		}
	}

	var size Size
	switch length % 4 {
	case 0:
		size = Word
	case 2:
		size = HalfWord
	default:
		size = Byte
	}

	cr := Control(0).
		WithDirection(MemToMem).
		WithPSize(size).
		WithMSize(Byte).
		WithPriority(VeryHigh) | PINC | TRBUF

	return Transfer{
		Control:        cr,
		Count:          length/size.Bytes() + 1,
		CyclesPerPixel: timing.BaseCyclesPerPixel,
	}
}
