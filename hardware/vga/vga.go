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
	"sync/atomic"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/board"
	"github.com/softvga/softvga/hardware/dma"
	"github.com/softvga/softvga/hardware/iref"
	"github.com/softvga/softvga/hardware/memory"
	"github.com/softvga/softvga/hardware/memory/memorymap"
	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/spinlock"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/logger"
)

// the scan buffer carries a sentinel word after the longest line
const sentinelBytes = 4

// horizontal timing hardware that is shared by the hstate and raster
// handlers. never touched by thread mode after configuration
type horizontal struct {
	pacer  *board.Timer
	stream *board.Stream
}

// nextTransfer is prepared by the raster handler for the following SAV
type nextTransfer struct {
	transfer dma.Transfer

	// cleared when the transfer is used. a SAV that finds the flag clear
	// is using stale parameters
	fresh bool
}

// Stats are the driver's counters.
type Stats struct {
	Frames      uint64
	Invocations uint64
	Repeated    uint64
	StaleSAV    uint64
	Shocks      uint64
}

type counters struct {
	frames      atomic.Uint64
	invocations atomic.Uint64
	repeated    atomic.Uint64
	staleSAV    atomic.Uint64
	shocks      atomic.Uint64
}

type driver struct {
	res    *board.Resources
	stage  atomic.Int32
	timing timing.Timing

	line    atomic.Int32
	vstate  atomic.Uint32
	videoOn atomic.Bool

	hw   *spinlock.SpinLock[horizontal]
	next *spinlock.SpinLock[nextTransfer]

	raster iref.IRef[Raster]

	// raster handler state. only accessed at I0
	working memory.Block
	scan    memory.Block
	ctx     RasterCtx
	fresh   bool
	repeat  int

	stats counters
}

// Idle is the driver after initialisation.
type Idle struct {
	d *driver
}

// Sync is the driver with the timing configured and sync signals running.
type Sync struct {
	d *driver
}

// Live is the driver while the raster function is registered. It is only
// available to the Render function.
type Live struct {
	d   *driver
	tok priority.Thread
}

// Init takes ownership of the resources, allocates the line buffers and
// installs the interrupt handlers. The handlers stay disabled until the
// timing is configured.
func Init(res *board.Resources) (*Idle, error) {
	d := &driver{
		res: res,
		hw: spinlock.New(horizontal{
			pacer:  res.Pacer,
			stream: res.Stream,
		}),
		next: spinlock.New(nextTransfer{}),
		ctx:  newRasterCtx(),
	}

	var err error

	// the rasterizer works in fast memory that the DMA cannot reach
	d.working, err = res.Memory.Allocate(memorymap.CCM, timing.MaxPixelsPerLine, 4)
	if err != nil {
		return nil, curated.Errorf("vga: %v", err)
	}

	d.scan, err = res.Memory.Allocate(memorymap.SRAM112, timing.MaxPixelsPerLine+sentinelBytes, 4)
	if err != nil {
		return nil, curated.Errorf("vga: %v", err)
	}

	res.NVIC.SetPriority(board.ShockVector, priority.LevelI2)
	res.NVIC.SetPriority(board.HStateVector, priority.LevelI1)
	res.NVIC.SetPriority(board.PendSVVector, priority.LevelI0)
	res.NVIC.SetHandler(board.ShockVector, func() { d.shock(priority.AssumeI2()) })
	res.NVIC.SetHandler(board.HStateVector, func() { d.hstate(priority.AssumeI1()) })
	res.NVIC.SetHandler(board.PendSVVector, func() { d.maintainRaster(priority.AssumeI0()) })

	d.stage.Store(int32(StageIdle))
	logger.Logf(logger.Allow, "vga", "working buffer %s", d.working)
	logger.Logf(logger.Allow, "vga", "scan buffer %s", d.scan)

	return &Idle{d: d}, nil
}

// advance moves the driver from one stage to another. fails with StageError
// if the driver is not in the from stage.
func (d *driver) advance(op string, from Stage, to Stage) error {
	if !d.stage.CompareAndSwap(int32(from), int32(to)) {
		return curated.Errorf(StageError, op, from, Stage(d.stage.Load()))
	}
	return nil
}

// Stage returns the current stage of the driver.
func (d *driver) Stage() Stage {
	return Stage(d.stage.Load())
}

func (d *driver) Stats() Stats {
	return Stats{
		Frames:      d.stats.frames.Load(),
		Invocations: d.stats.invocations.Load(),
		Repeated:    d.stats.repeated.Load(),
		StaleSAV:    d.stats.staleSAV.Load(),
		Shocks:      d.stats.shocks.Load(),
	}
}

// Stage returns the current stage of the driver.
func (idle *Idle) Stage() Stage {
	return idle.d.Stage()
}

// Memory returns the memory remaining after the driver's allocations. Used
// by applications that need DMA reachable or bit-banded buffers.
func (idle *Idle) Memory() *memory.Memory {
	return idle.d.res.Memory
}

// ConfigureTiming programs the timers for the video mode and starts the sync
// signals.
func (idle *Idle) ConfigureTiming(t timing.Timing) (*Sync, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	d := idle.d
	if err := d.advance("configure timing", StageIdle, StageSync); err != nil {
		return nil, err
	}

	d.timing = t
	d.line.Store(0)
	d.vstate.Store(uint32(timing.Blank))
	d.videoOn.Store(false)
	d.ctx = newRasterCtx()
	d.fresh = false
	d.repeat = 0

	g := d.next.Lock()
	*g.Value() = nextTransfer{transfer: dma.Plan(0, timing.BaseCyclesPerPixel)}
	g.Unlock()

	res := d.res

	// vertical sync starts inactive
	if t.VSyncPolarity.Active() {
		res.SyncPort.ODR.ClearBits(board.VSyncPin)
	} else {
		res.SyncPort.ODR.SetBits(board.VSyncPin)
	}

	htim := res.HTimer
	htim.ARR.Set(uint32(t.LineCycles() - 1))
	htim.CCR[0].Set(uint32(t.HSyncEndCycle()))
	htim.CCR[1].Set(uint32(t.SAVCycle()))
	htim.CCR[2].Set(uint32(t.EAVCycle()))
	ccer := uint32(board.CC1E)
	if !t.HSyncPolarity.Active() {
		ccer |= board.CC1P
	}
	htim.CCER.Set(ccer)
	htim.SR.Set(0)
	htim.DIER.Set(board.CC2IE | board.CC3IE)

	shock := res.ShockTimer
	shock.ARR.Set(uint32(t.LineCycles() - 1))
	shock.CCR[1].Set(uint32(t.ShockCycle()))
	shock.SR.Set(0)
	shock.DIER.Set(board.CC2IE)

	res.Pacer.CR1.Set(0)
	res.Pacer.ARR.Set(timing.BaseCyclesPerPixel - 1)
	res.Pacer.DIER.Set(board.UDE)

	res.Stream.CR.Set(0)

	res.NVIC.Enable(board.ShockVector)
	res.NVIC.Enable(board.HStateVector)
	res.NVIC.Enable(board.PendSVVector)

	shock.CR1.Set(board.CEN)
	htim.CR1.Set(board.CEN)

	logger.Logf(logger.Allow, "vga", "timing configured: %dx%d at %.2fHz", t.VideoPixels, t.VisibleLines(), t.RefreshRate())

	return &Sync{d: d}, nil
}

// Close removes the interrupt handlers. The driver cannot be used again.
func (idle *Idle) Close() error {
	d := idle.d
	if err := d.advance("close", StageIdle, StageTornDown); err != nil {
		return err
	}
	for v := board.Vector(0); v < board.NumVectors; v++ {
		d.res.NVIC.SetHandler(v, nil)
	}
	logger.Log(logger.Allow, "vga", "torn down")
	return nil
}

// Stage returns the current stage of the driver.
func (s *Sync) Stage() Stage {
	return s.d.Stage()
}

// Stats returns a snapshot of the driver's counters.
func (s *Sync) Stats() Stats {
	return s.d.Stats()
}

// Timing returns the configured timing.
func (s *Sync) Timing() timing.Timing {
	return s.d.timing
}

// Memory returns the memory remaining after the driver's allocations.
func (s *Sync) Memory() *memory.Memory {
	return s.d.res.Memory
}

// WithRaster registers the raster function and runs the render loop on the
// calling goroutine, which becomes thread mode. The raster function is
// revoked and video output is turned off when render returns. WithRaster
// does not return until no interrupt handler is using the raster function.
//
// A panic in the raster function halts the board. Thread mode panics at its
// next wait for an interrupt and WithRaster then panics with the failure of
// the raster function when the raster function is revoked.
func (s *Sync) WithRaster(raster Raster, render Render) error {
	d := s.d
	if err := d.advance("raster registration", StageSync, StageLive); err != nil {
		return err
	}

	defer func() {
		d.videoOn.Store(false)
		d.stage.Store(int32(StageSync))
		logger.Log(logger.Allow, "vga", "raster revoked")
	}()

	logger.Log(logger.Allow, "vga", "raster registered")

	d.raster.Donate(raster, func() {
		tok := d.res.CPU.EnterThread()
		defer d.res.CPU.ExitThread(tok)
		render(&Live{d: d, tok: tok})
	})

	return nil
}

// Shutdown stops the sync signals and returns the driver to the idle stage.
func (s *Sync) Shutdown() (*Idle, error) {
	d := s.d
	if err := d.advance("shutdown", StageSync, StageIdle); err != nil {
		return nil, err
	}

	res := d.res
	res.HTimer.CR1.Set(0)
	res.ShockTimer.CR1.Set(0)
	res.Pacer.CR1.Set(0)
	res.Stream.CR.Set(0)
	res.NVIC.Disable(board.ShockVector)
	res.NVIC.Disable(board.HStateVector)
	res.NVIC.Disable(board.PendSVVector)
	res.NVIC.ClearPending(board.ShockVector)
	res.NVIC.ClearPending(board.HStateVector)
	res.NVIC.ClearPending(board.PendSVVector)

	logger.Log(logger.Allow, "vga", "sync stopped")

	return &Idle{d: d}, nil
}

// Thread returns the thread mode token.
func (live *Live) Thread() priority.Thread {
	return live.tok
}

// VideoOn starts scanning out pixels from the next displayed line.
func (live *Live) VideoOn() {
	if !live.d.videoOn.Swap(true) {
		logger.Log(logger.Allow, "vga", "video on")
	}
}

// VideoOff stops scanning out pixels from the next line. The raster function
// continues to be called.
func (live *Live) VideoOff() {
	if live.d.videoOn.Swap(false) {
		logger.Log(logger.Allow, "vga", "video off")
	}
}

// SyncToVblank waits for the start of the next vertical blanking interval.
func (live *Live) SyncToVblank() {
	f := live.d.stats.frames.Load()
	for live.d.stats.frames.Load() == f {
		live.d.res.CPU.WaitForInterrupt(live.tok)
	}
}

// WaitForInterrupt idles thread mode until an interrupt handler has run.
func (live *Live) WaitForInterrupt() {
	live.d.res.CPU.WaitForInterrupt(live.tok)
}

// Line returns the current line number, counted from the start of the frame.
func (live *Live) Line() int {
	return int(live.d.line.Load())
}

// State returns the current vertical state.
func (live *Live) State() timing.VState {
	return timing.VState(live.d.vstate.Load())
}

// Stats returns a snapshot of the driver's counters.
func (live *Live) Stats() Stats {
	return live.d.Stats()
}

// Timing returns the configured timing.
func (live *Live) Timing() timing.Timing {
	return live.d.timing
}
