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

package board_test

import (
	"context"
	"sync"
	"testing"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/board"
	"github.com/softvga/softvga/hardware/dma"
	"github.com/softvga/softvga/hardware/memory/memorymap"
	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/test"
)

type line struct {
	pixels []byte
	start  int
	cpp    int
}

type recorder struct {
	hsync int
	vsync []bool
	lines []line
}

func (r *recorder) HSync(level bool) {
	r.hsync++
}

func (r *recorder) VSync(level bool) {
	r.vsync = append(r.vsync, level)
}

func (r *recorder) Line(pixels []byte, start int, cpp int) {
	r.lines = append(r.lines, line{
		pixels: append([]byte(nil), pixels...),
		start:  start,
		cpp:    cpp,
	})
}

func TestTakeResources(t *testing.T) {
	brd := board.NewBoard(&recorder{})
	res, err := brd.TakeResources()
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, res != nil)

	_, err = brd.TakeResources()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, board.AlreadyInitialized))
}

func TestIdleBoard(t *testing.T) {
	rec := &recorder{}
	brd := board.NewBoard(rec)
	brd.Step(10)
	test.ExpectEquality(t, brd.Stats().Lines, uint64(10))
	test.ExpectEquality(t, rec.hsync, 0)
	test.ExpectEquality(t, len(rec.lines), 0)
}

func TestDispatchOrder(t *testing.T) {
	rec := &recorder{}
	brd := board.NewBoard(rec)
	res, err := brd.TakeResources()
	test.DemandSuccess(t, err)

	var order []string

	res.NVIC.SetPriority(board.ShockVector, priority.LevelI2)
	res.NVIC.SetPriority(board.HStateVector, priority.LevelI1)
	res.NVIC.SetPriority(board.PendSVVector, priority.LevelI0)

	res.NVIC.SetHandler(board.ShockVector, func() {
		res.ShockTimer.AcknowledgeFlags(board.CC2IF)
		order = append(order, "shock")
	})
	res.NVIC.SetHandler(board.HStateVector, func() {
		sr := res.HTimer.AcknowledgeFlags(board.CC2IF | board.CC3IF)
		if sr&board.CC2IF != 0 {
			order = append(order, "sav")
		}
		if sr&board.CC3IF != 0 {
			order = append(order, "eav")
			res.NVIC.Pend(board.PendSVVector)
		}
	})
	res.NVIC.SetHandler(board.PendSVVector, func() {
		order = append(order, "pendsv")
	})
	for v := board.Vector(0); v < board.NumVectors; v++ {
		res.NVIC.Enable(v)
	}

	res.HTimer.DIER.Set(board.CC2IE | board.CC3IE)
	res.HTimer.CCER.Set(board.CC1E)
	res.HTimer.CR1.Set(board.CEN)
	res.ShockTimer.DIER.Set(board.CC2IE)
	res.ShockTimer.CR1.Set(board.CEN)

	brd.Step(1)

	expected := []string{"shock", "sav", "eav", "pendsv"}
	test.DemandEquality(t, len(order), len(expected))
	for i := range order {
		test.ExpectEquality(t, order[i], expected[i], i)
	}
	test.ExpectEquality(t, rec.hsync, 1)
	test.ExpectEquality(t, res.HTimer.SR.Get(), uint32(0))

	// a disabled vector stays pending
	order = order[:0]
	res.NVIC.Disable(board.PendSVVector)
	brd.Step(1)
	test.ExpectEquality(t, len(order), 3)
	test.ExpectSuccess(t, res.NVIC.Pending(board.PendSVVector))
}

func TestScanout(t *testing.T) {
	rec := &recorder{}
	brd := board.NewBoard(rec)
	res, err := brd.TakeResources()
	test.DemandSuccess(t, err)

	scan, err := res.Memory.Allocate(memorymap.SRAM112, 12, 4)
	test.DemandSuccess(t, err)
	copy(scan.Data, []byte{1, 2, 3, 4, 5, 6, 7, 8, 0, 0, 0, 0})

	x := dma.Plan(8, 4)
	res.NVIC.SetPriority(board.HStateVector, priority.LevelI1)
	res.NVIC.SetHandler(board.HStateVector, func() {
		sr := res.HTimer.AcknowledgeFlags(board.CC2IF | board.CC3IF)
		if sr&board.CC2IF != 0 {
			res.Stream.PAR.Set(scan.Addr)
			res.Stream.M0AR.Set(memorymap.GPIOEOutput)
			res.Stream.NDTR.Set(uint32(x.Count))
			res.Stream.CR.Set(uint32(x.Control | dma.EN))
		}
	})
	res.NVIC.Enable(board.HStateVector)
	res.HTimer.CCR[1].Set(100)
	res.HTimer.DIER.Set(board.CC2IE)
	res.HTimer.CR1.Set(board.CEN)

	brd.Step(1)
	test.DemandEquality(t, len(rec.lines), 1)
	test.ExpectEquality(t, len(rec.lines[0].pixels), 12)
	test.ExpectEquality(t, rec.lines[0].pixels[7], uint8(8))
	test.ExpectEquality(t, rec.lines[0].start, 100+board.StreamLatency)
	test.ExpectEquality(t, rec.lines[0].cpp, 4)
	test.ExpectEquality(t, res.Stream.CR.HasBits(uint32(dma.EN)), false)
	test.ExpectEquality(t, brd.Stats().Transfers, uint64(1))

	// stream disabled: the latched (sentinel) value is held for the line
	res.HTimer.DIER.Set(0)
	brd.Step(1)
	test.DemandEquality(t, len(rec.lines), 2)
	test.ExpectEquality(t, len(rec.lines[1].pixels), 1)
	test.ExpectEquality(t, rec.lines[1].pixels[0], uint8(0))
}

func TestScanoutFromCCM(t *testing.T) {
	brd := board.NewBoard(&recorder{})
	res, err := brd.TakeResources()
	test.DemandSuccess(t, err)

	blk, err := res.Memory.Allocate(memorymap.CCM, 8, 4)
	test.DemandSuccess(t, err)

	res.Stream.PAR.Set(blk.Addr)
	res.Stream.M0AR.Set(memorymap.GPIOEOutput)
	res.Stream.NDTR.Set(2)
	res.Stream.CR.Set(uint32(dma.Plan(4, 4).Control | dma.EN))
	res.HTimer.CR1.Set(board.CEN)

	test.ExpectPanic(t, func() { brd.Step(1) }, "not reachable by dma")
}

func TestPacedStall(t *testing.T) {
	rec := &recorder{}
	brd := board.NewBoard(rec)
	res, err := brd.TakeResources()
	test.DemandSuccess(t, err)

	blk, err := res.Memory.Allocate(memorymap.SRAM112, 8, 4)
	test.DemandSuccess(t, err)

	x := dma.Plan(4, 8)
	setup := func() {
		res.Stream.M0AR.Set(blk.Addr)
		res.Stream.PAR.Set(memorymap.GPIOEOutput)
		res.Stream.NDTR.Set(uint32(x.Count))
		res.Stream.CR.Set(uint32(x.Control | dma.EN))
	}
	res.HTimer.CR1.Set(board.CEN)

	setup()
	brd.Step(1)
	test.ExpectEquality(t, brd.Stats().Stalls, uint64(1))

	res.Pacer.ARR.Set(7)
	res.Pacer.DIER.Set(board.UDE)
	res.Pacer.CR1.Set(board.CEN)
	setup()
	brd.Step(1)
	test.DemandEquality(t, len(rec.lines), 2)
	test.ExpectEquality(t, rec.lines[1].cpp, 8)
	test.ExpectEquality(t, len(rec.lines[1].pixels), 5)
}

func TestLockstep(t *testing.T) {
	brd := board.NewBoard(&recorder{})
	res, err := brd.TakeResources()
	test.DemandSuccess(t, err)

	// thread mode sees every line
	const lines = 50
	var seen []uint64
	var wg sync.WaitGroup
	wg.Add(1)
	entered := make(chan bool)
	go func() {
		defer wg.Done()
		tok := res.CPU.EnterThread()
		entered <- true
		for i := 0; i < lines; i++ {
			seen = append(seen, brd.Stats().Lines)
			res.CPU.WaitForInterrupt(tok)
		}
		res.CPU.ExitThread(tok)
	}()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- brd.Run(ctx)
	}()

	wg.Wait()
	cancel()
	test.ExpectSuccess(t, <-done)

	test.DemandEquality(t, len(seen), lines)
	for i := range seen {
		test.ExpectEquality(t, seen[i], uint64(i), i)
	}
}

func TestHandlerPanicHalts(t *testing.T) {
	brd := board.NewBoard(&recorder{})
	res, err := brd.TakeResources()
	test.DemandSuccess(t, err)

	res.NVIC.SetPriority(board.HStateVector, priority.LevelI1)
	res.NVIC.SetHandler(board.HStateVector, func() {
		res.HTimer.AcknowledgeFlags(board.CC2IF | board.CC3IF)
		if brd.Stats().Lines == 5 {
			panic("handler failure")
		}
	})
	res.NVIC.Enable(board.HStateVector)
	res.HTimer.DIER.Set(board.CC2IE)
	res.HTimer.CR1.Set(board.CEN)

	// thread mode waits for interrupts until the board halts
	waits := 0
	threadPanic := make(chan any)
	entered := make(chan bool)
	go func() {
		defer func() { threadPanic <- recover() }()
		tok := res.CPU.EnterThread()
		defer res.CPU.ExitThread(tok)
		entered <- true
		for {
			res.CPU.WaitForInterrupt(tok)
			waits++
		}
	}()
	<-entered

	test.ExpectPanic(t, func() {
		brd.Step(10)
	}, "handler failure")
	test.ExpectSuccess(t, res.CPU.Halted())
	test.ExpectEquality(t, <-threadPanic, any(board.Halted))
	test.ExpectEquality(t, waits, 4)
}

func TestUnmintedToken(t *testing.T) {
	brd := board.NewBoard(&recorder{})
	res, err := brd.TakeResources()
	test.DemandSuccess(t, err)

	test.ExpectPanic(t, func() {
		res.CPU.WaitForInterrupt(priority.Thread{})
	}, "not minted")
	test.ExpectPanic(t, func() {
		res.CPU.Sleep(priority.I2{})
	}, "not minted")
	test.ExpectNoPanic(t, func() {
		res.CPU.Sleep(priority.AssumeI2())
	})
}
