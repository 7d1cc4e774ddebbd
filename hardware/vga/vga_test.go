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

package vga_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/board"
	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/test"
)

// sink records the lines that contain more than the latched value
type sink struct {
	lines  [][]byte
	cpp    []int
	vsyncs int
	hsyncs int
}

func (s *sink) HSync(_ bool) {
	s.hsyncs++
}

func (s *sink) VSync(_ bool) {
	s.vsyncs++
}

func (s *sink) Line(pixels []byte, _ int, cpp int) {
	if len(pixels) > 1 {
		s.lines = append(s.lines, append([]byte(nil), pixels...))
		s.cpp = append(s.cpp, cpp)
	}
}

func configure(t *testing.T, snk board.Sink) (*board.Board, *board.Resources, *vga.Sync) {
	t.Helper()
	brd := board.NewBoard(snk)
	res, err := brd.TakeResources()
	test.DemandSuccess(t, err)
	idle, err := vga.Init(res)
	test.DemandSuccess(t, err)
	sync, err := idle.ConfigureTiming(timing.SVGA800x600)
	test.DemandSuccess(t, err)
	return brd, res, sync
}

// run the board on its own goroutine for as long as the render function
// runs
func run(t *testing.T, brd *board.Board, sync *vga.Sync, raster vga.Raster, render vga.Render) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- brd.Run(ctx)
	}()
	err := sync.WithRaster(raster, render)
	cancel()
	test.DemandSuccess(t, <-done)
	test.DemandSuccess(t, err)
}

func fill(value byte, repeat int) vga.Raster {
	return func(line int, target []byte, ctx *vga.RasterCtx, _ priority.I0) {
		for i := range target[:800] {
			target[i] = value
		}
		ctx.TargetRange = vga.Range{Start: 0, End: 800}
		ctx.RepeatLines = repeat
	}
}

func TestInvocationsPerFrame(t *testing.T) {
	tm := timing.SVGA800x600
	for _, repeat := range []int{0, 1, 2, 3, 5} {
		t.Run(fmt.Sprintf("repeat %d", repeat), func(t *testing.T) {
			brd, _, sync := configure(t, &sink{})

			var invocations [3]uint64
			run(t, brd, sync, fill(0xff, repeat), func(live *vga.Live) {
				live.SyncToVblank()
				for i := range invocations {
					live.SyncToVblank()
					invocations[i] = live.Stats().Invocations
				}
			})

			expected := uint64(tm.VisibleLines() / (1 + repeat))
			test.ExpectEquality(t, invocations[1]-invocations[0], expected)
			test.ExpectEquality(t, invocations[2]-invocations[1], expected)
		})
	}
}

func TestLineNumbers(t *testing.T) {
	brd, _, sync := configure(t, &sink{})

	var lines []int
	raster := func(line int, target []byte, ctx *vga.RasterCtx, _ priority.I0) {
		lines = append(lines, line)
	}

	// thread mode and the interrupt handlers run in lockstep and so the
	// render function can safely look at what the raster function did
	var frame []int
	run(t, brd, sync, raster, func(live *vga.Live) {
		live.SyncToVblank()
		lines = lines[:0]
		live.SyncToVblank()
		frame = append(frame, lines...)
	})
	lines = frame

	test.DemandEquality(t, len(lines), 600)
	for i := range lines {
		test.ExpectEquality(t, lines[i], i, i)
	}
}

func TestScanout(t *testing.T) {
	snk := &sink{}
	brd, _, sync := configure(t, snk)

	var n int
	run(t, brd, sync, fill(0x1c, 0), func(live *vga.Live) {
		live.VideoOn()
		live.SyncToVblank()
		live.SyncToVblank()
		n = len(snk.lines)
	})

	// video is turned on part way through a frame and so there is at least
	// one complete frame of lines
	test.ExpectSuccess(t, n >= 600)
	for i, l := range snk.lines[:n] {
		test.DemandEquality(t, len(l), 804, i)
		test.ExpectEquality(t, l[0], uint8(0x1c), i)
		test.ExpectEquality(t, l[799], uint8(0x1c), i)
		test.ExpectEquality(t, l[800], uint8(0), i)
		test.ExpectEquality(t, l[803], uint8(0), i)
		test.ExpectEquality(t, snk.cpp[i], 4, i)
	}

	// vsync toggles twice per frame
	test.ExpectSuccess(t, snk.vsyncs >= 2)
	test.ExpectEquality(t, snk.hsyncs, int(brd.Stats().Lines))
}

func TestVideoOff(t *testing.T) {
	snk := &sink{}
	brd, _, sync := configure(t, snk)

	run(t, brd, sync, fill(0x1c, 0), func(live *vga.Live) {
		live.SyncToVblank()
		live.SyncToVblank()
	})

	test.ExpectEquality(t, len(snk.lines), 0)
	test.ExpectEquality(t, brd.Stats().Transfers, uint64(0))
}

func TestPixelDoubling(t *testing.T) {
	snk := &sink{}
	brd, _, sync := configure(t, snk)

	raster := func(line int, target []byte, ctx *vga.RasterCtx, _ priority.I0) {
		for i := range target[:400] {
			target[i] = byte(i)
		}
		ctx.TargetRange = vga.Range{Start: 0, End: 400}
		ctx.CyclesPerPixel = 8
		ctx.RepeatLines = 1
	}

	var n int
	run(t, brd, sync, raster, func(live *vga.Live) {
		live.VideoOn()
		live.SyncToVblank()
		live.SyncToVblank()
		n = len(snk.lines)
	})

	test.ExpectSuccess(t, n >= 600)
	for i, l := range snk.lines[:n] {
		test.DemandEquality(t, len(l), 401, i)
		test.ExpectEquality(t, l[399], uint8(399&0xff), i)
		test.ExpectEquality(t, l[400], uint8(0), i)
		test.ExpectEquality(t, snk.cpp[i], 8, i)
	}
	test.ExpectEquality(t, brd.Stats().Stalls, uint64(0))
}

func TestStaleTransfer(t *testing.T) {
	brd, res, sync := configure(t, &sink{})

	var stale uint64
	run(t, brd, sync, fill(0xff, 0), func(live *vga.Live) {
		live.VideoOn()
		live.SyncToVblank()
		test.ExpectEquality(t, live.Stats().StaleSAV, uint64(0))

		// without the raster handler no transfer is ever prepared
		res.NVIC.Disable(board.PendSVVector)
		live.SyncToVblank()
		live.SyncToVblank()
		stale = live.Stats().StaleSAV
		res.NVIC.Enable(board.PendSVVector)
	})

	test.ExpectSuccess(t, stale >= 600)
}

func TestShockAbsorber(t *testing.T) {
	brd, res, sync := configure(t, &sink{})
	run(t, brd, sync, fill(0, 0), func(live *vga.Live) {
		live.SyncToVblank()
	})
	test.ExpectEquality(t, sync.Stats().Shocks, brd.Stats().Lines)
	test.ExpectEquality(t, res.CPU.Sleeps(), brd.Stats().Lines)
}

func TestFrames(t *testing.T) {
	brd, _, sync := configure(t, &sink{})
	var line, frames int
	run(t, brd, sync, fill(0, 0), func(live *vga.Live) {
		live.SyncToVblank()
		line = live.Line()
		f := live.Stats().Frames
		for i := 0; i < 3; i++ {
			live.SyncToVblank()
		}
		frames = int(live.Stats().Frames - f)
	})
	test.ExpectEquality(t, line, 0)
	test.ExpectEquality(t, frames, 3)
}

func TestStages(t *testing.T) {
	brd := board.NewBoard(&sink{})
	res, err := brd.TakeResources()
	test.DemandSuccess(t, err)

	idle, err := vga.Init(res)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, idle.Stage(), vga.StageIdle)

	bad := timing.SVGA800x600
	bad.VideoEndLine = bad.VideoStartLine
	_, err = idle.ConfigureTiming(bad)
	test.ExpectSuccess(t, curated.Is(err, timing.InvalidTiming))
	test.ExpectEquality(t, idle.Stage(), vga.StageIdle)

	sync, err := idle.ConfigureTiming(timing.SVGA800x600)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, sync.Stage(), vga.StageSync)

	// timing cannot be configured twice
	_, err = idle.ConfigureTiming(timing.SVGA800x600)
	test.ExpectSuccess(t, curated.Is(err, vga.StageError))

	test.ExpectFailure(t, idle.Close())

	idle, err = sync.Shutdown()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, idle.Stage(), vga.StageIdle)

	err = sync.WithRaster(fill(0, 0), func(*vga.Live) {})
	test.ExpectSuccess(t, curated.Is(err, vga.StageError))

	_, err = sync.Shutdown()
	test.ExpectSuccess(t, curated.Is(err, vga.StageError))

	// reconfiguration after shutdown
	sync, err = idle.ConfigureTiming(timing.SVGA800x600)
	test.DemandSuccess(t, err)
	idle, err = sync.Shutdown()
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, idle.Close())
	test.ExpectEquality(t, idle.Stage(), vga.StageTornDown)
	_, err = idle.ConfigureTiming(timing.SVGA800x600)
	test.ExpectSuccess(t, curated.Is(err, vga.StageError))
}

func TestNestedRaster(t *testing.T) {
	brd, _, sync := configure(t, &sink{})
	var nested error
	run(t, brd, sync, fill(0, 0), func(live *vga.Live) {
		nested = sync.WithRaster(fill(0, 0), func(*vga.Live) {})
		test.ExpectEquality(t, sync.Stage(), vga.StageLive)
	})
	test.ExpectSuccess(t, curated.Is(nested, vga.StageError))
	test.ExpectEquality(t, sync.Stage(), vga.StageSync)
}

func TestRasterPanic(t *testing.T) {
	brd, _, sync := configure(t, &sink{})

	raster := func(line int, target []byte, ctx *vga.RasterCtx, _ priority.I0) {
		if line == 10 {
			panic("raster failure")
		}
	}

	// the panic surfaces on the goroutine running the interrupt handlers
	boardPanic := make(chan any, 1)
	go func() {
		defer func() { boardPanic <- recover() }()
		_ = brd.Run(context.Background())
	}()

	// and is reported to thread mode when the raster function is revoked
	test.ExpectPanic(t, func() {
		_ = sync.WithRaster(raster, func(live *vga.Live) {
			for i := 0; i < 3; i++ {
				live.SyncToVblank()
			}
		})
	}, "observer panicked during loan")

	test.ExpectEquality(t, <-boardPanic, any("raster failure"))
	test.ExpectEquality(t, sync.Stage(), vga.StageSync)
}

func TestBadRasterCtx(t *testing.T) {
	tests := []struct {
		ctx      vga.RasterCtx
		contains string
	}{
		{ctx: vga.RasterCtx{TargetRange: vga.Range{Start: 0, End: 801}, CyclesPerPixel: 4}, contains: "outside of line width"},
		{ctx: vga.RasterCtx{TargetRange: vga.Range{Start: 10, End: 5}, CyclesPerPixel: 4}, contains: "outside of line width"},
		{ctx: vga.RasterCtx{CyclesPerPixel: 2}, contains: "faster than the pixel clock"},
		{ctx: vga.RasterCtx{CyclesPerPixel: 4, RepeatLines: -1}, contains: "negative repeat"},
	}

	for _, tt := range tests {
		brd, _, sync := configure(t, &sink{})
		bad := tt.ctx
		raster := func(line int, target []byte, ctx *vga.RasterCtx, _ priority.I0) {
			*ctx = bad
		}
		started := make(chan bool)
		go func() {
			defer func() { _ = recover() }()
			_ = sync.WithRaster(raster, func(live *vga.Live) {
				started <- true
				for {
					live.SyncToVblank()
				}
			})
		}()
		<-started
		test.ExpectPanic(t, func() {
			brd.Step(timing.SVGA800x600.FrameLines())
		}, tt.contains, tt.contains)
	}
}
