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

package board

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/dma"
	"github.com/softvga/softvga/hardware/memory"
	"github.com/softvga/softvga/hardware/memory/memorymap"
	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/logger"
)

// AlreadyInitialized is returned by TakeResources() if the resources have
// already been taken.
const AlreadyInitialized = "board: resources already taken"

// Halted is the panic raised in thread mode when it waits for an interrupt
// after an interrupt handler has failed.
const Halted = "board: halted after interrupt handler failure"

// Sink receives the video signal produced by the board.
type Sink interface {
	// HSync is called at the start of every line with the level of the
	// horizontal sync output during the pulse.
	HSync(level bool)

	// VSync is called at the start of a line when the vertical sync output
	// has changed level.
	VSync(level bool)

	// Line is called once per line with the pixels written to the output
	// port. The first pixel appears start cycles after the start of the line
	// and every pixel is held for cyclesPerPixel cycles. After the last pixel
	// the output port holds its value until the next write. The pixels slice
	// must not be retained.
	Line(pixels []byte, start int, cyclesPerPixel int)
}

// Resources is the collection of peripherals used by the video driver.
type Resources struct {
	HTimer     *Timer
	ShockTimer *Timer
	Pacer      *Timer
	Stream     *Stream
	SyncPort   *GPIO
	NVIC       *NVIC
	CPU        *CPU
	Memory     *memory.Memory
}

// Stats are counters maintained by the board.
type Stats struct {
	Lines     uint64
	Transfers uint64
	Stalls    uint64
}

// Board is the simulated microcontroller.
type Board struct {
	res   Resources
	sink  Sink
	taken atomic.Bool

	// last value written to the pixel port
	latch uint8

	// last vsync level given to the sink
	vsync bool

	lines     atomic.Uint64
	transfers atomic.Uint64
	stalls    atomic.Uint64
}

// NewBoard is the preferred method of initialisation for the Board type.
func NewBoard(sink Sink) *Board {
	brd := &Board{
		sink: sink,
		res: Resources{
			HTimer:     newTimer("TIM1"),
			ShockTimer: newTimer("TIM3"),
			Pacer:      newTimer("TIM8"),
			Stream:     &Stream{},
			SyncPort:   &GPIO{},
			NVIC:       &NVIC{},
			CPU:        newCPU(),
			Memory:     memory.NewMemory(),
		},
	}
	return brd
}

// TakeResources returns the peripherals. It can only be called successfully
// once.
func (brd *Board) TakeResources() (*Resources, error) {
	if !brd.taken.CompareAndSwap(false, true) {
		return nil, curated.Errorf(AlreadyInitialized)
	}
	logger.Log(logger.Allow, "board", "resources taken")
	res := brd.res
	return &res, nil
}

// Stats returns a snapshot of the board's counters.
func (brd *Board) Stats() Stats {
	return Stats{
		Lines:     brd.lines.Load(),
		Transfers: brd.transfers.Load(),
		Stalls:    brd.stalls.Load(),
	}
}

// Step advances the board by the number of lines. Interrupt handlers run on
// the calling goroutine.
//
// A panic in an interrupt handler halts the board and is propagated to the
// caller. Thread mode panics with the Halted message when it next waits for
// an interrupt.
func (brd *Board) Step(lines int) {
	priority.ClaimInterrupts()
	defer brd.haltOnPanic()
	for i := 0; i < lines; i++ {
		brd.res.CPU.waitIdle()
		brd.line()
		brd.res.CPU.advance()
	}
}

// Run advances the board until the context is cancelled. A panic in an
// interrupt handler halts the board in the same way as for Step().
func (brd *Board) Run(ctx context.Context) error {
	priority.ClaimInterrupts()
	defer brd.haltOnPanic()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		brd.res.CPU.waitIdle()
		brd.line()
		brd.res.CPU.advance()
	}
}

func (brd *Board) haltOnPanic() {
	if r := recover(); r != nil {
		brd.res.CPU.halt()
		logger.Logf(logger.Allow, "board", "halted: %v", r)
		panic(r)
	}
}

func (brd *Board) raise(v Vector) {
	brd.res.NVIC.Pend(v)
	brd.res.NVIC.dispatch()
}

func (brd *Board) line() {
	brd.lines.Add(1)

	htim := brd.res.HTimer
	if !htim.Running() {
		return
	}

	// vertical sync is sampled at the start of the line
	if v := brd.res.SyncPort.ODR.HasBits(VSyncPin); v != brd.vsync {
		brd.vsync = v
		brd.sink.VSync(v)
	}

	// output compare 1 drives the horizontal sync pulse. the output is
	// active high unless the polarity bit is set
	if htim.CCER.HasBits(CC1E) {
		brd.sink.HSync(!htim.CCER.HasBits(CC1P))
	}

	if brd.res.ShockTimer.compare(2) {
		brd.raise(ShockVector)
	}

	if htim.compare(2) {
		brd.raise(HStateVector)
	}

	brd.scanout()

	if htim.compare(3) {
		brd.raise(HStateVector)
	}

	// handlers pended by the EAV handler
	brd.res.NVIC.dispatch()
}

// scanout performs the DMA transfer if the stream has been enabled.
func (brd *Board) scanout() {
	start := int(brd.res.HTimer.CCR[1].Get()) + StreamLatency

	stream := brd.res.Stream
	cr := dma.Control(stream.CR.Get())
	if cr&dma.EN != dma.EN {
		brd.sink.Line([]byte{brd.latch}, start, timing.BaseCyclesPerPixel)
		return
	}

	// the stream disables itself on completion
	defer func() {
		stream.CR.ClearBits(uint32(dma.EN))
		stream.NDTR.Set(0)
	}()

	src := stream.PAR.Get()
	dst := stream.M0AR.Get()
	if cr.Paced() {
		src, dst = dst, src
	}
	if dst != memorymap.GPIOEOutput {
		panic(fmt.Sprintf("board: dma destination %08x is not the pixel port", dst))
	}

	n := int(stream.NDTR.Get()) * cr.SourceSize().Bytes()
	pixels, area, err := brd.res.Memory.Resolve(src, n)
	if err != nil {
		panic(err)
	}
	if !area.DMA() {
		panic(fmt.Sprintf("board: dma source %08x is in %s which is not reachable by dma", src, area))
	}

	cpp := timing.BaseCyclesPerPixel
	if cr.Paced() {
		pacer := brd.res.Pacer
		if !pacer.Running() || !pacer.DIER.HasBits(UDE) {
			// no requests from the pacer and so nothing is transferred
			brd.stalls.Add(1)
			brd.sink.Line([]byte{brd.latch}, start, timing.BaseCyclesPerPixel)
			return
		}
		cpp = pacer.Period()
	}

	brd.transfers.Add(1)
	if len(pixels) > 0 {
		brd.latch = pixels[len(pixels)-1]
		brd.sink.Line(pixels, start, cpp)
	}
}
