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

package patterns_test

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/digest"
	"github.com/softvga/softvga/hardware/board"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/monitor"
	"github.com/softvga/softvga/patterns"
	"github.com/softvga/softvga/test"
)

type result struct {
	img    *image.RGBA
	hash   string
	stats  vga.Stats
	frames int
}

func setup(t *testing.T) (*board.Board, *vga.Sync, *monitor.Monitor, *digest.Video) {
	t.Helper()
	tm := timing.SVGA800x600
	mon, err := monitor.NewMonitor(tm)
	test.DemandSuccess(t, err)
	dig, err := digest.NewVideo(mon, tm.VideoPixels, tm.VisibleLines())
	test.DemandSuccess(t, err)

	brd := board.NewBoard(mon)
	res, err := brd.TakeResources()
	test.DemandSuccess(t, err)
	idle, err := vga.Init(res)
	test.DemandSuccess(t, err)
	sync, err := idle.ConfigureTiming(tm)
	test.DemandSuccess(t, err)

	return brd, sync, mon, dig
}

// run the pattern for the number of frames. thread mode is attached before
// the board starts and so the output is the same every time
func run(t *testing.T, name string, frames int) result {
	t.Helper()

	brd, sync, mon, dig := setup(t)
	p, err := patterns.New(name, sync)
	test.DemandSuccess(t, err)

	var r result
	attached := make(chan bool)
	finished := make(chan error)
	go func() {
		finished <- patterns.Run(sync, p, func(frame int) bool {
			if frame == 0 {
				attached <- true
			}
			if frame == frames {
				// thread mode and the board run in lockstep so the monitor
				// can be inspected from here
				r.img = mon.LastFrame()
				r.hash = dig.Hash()
				r.frames = mon.GetState(monitor.ReqFramenum)
				r.stats = sync.Stats()
				return false
			}
			return true
		})
	}()
	<-attached

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- brd.Run(ctx)
	}()

	err = <-finished
	cancel()
	test.DemandSuccess(t, <-done)
	test.DemandSuccess(t, err)

	return r
}

func TestNames(t *testing.T) {
	test.ExpectEquality(t, strings.Join(patterns.Names(), " "), "BARS CHECKER CONSOLE SCROLLER SOLID")

	_, sync, _, _ := setup(t)
	_, err := patterns.New("plaid", sync)
	test.ExpectSuccess(t, curated.Is(err, patterns.UnknownPattern))

	p, err := patterns.New("bars", sync)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.String(), "bars")
}

func TestBars(t *testing.T) {
	r := run(t, "BARS", 3)
	test.ExpectEquality(t, r.frames, 3)

	for i, c := range patterns.BarColors {
		x := i*100 + 50
		test.ExpectEquality(t, r.img.RGBAAt(x, 0), monitor.Color(c), i)
		test.ExpectEquality(t, r.img.RGBAAt(x, 599), monitor.Color(c), i)
	}

	// one invocation for every visible line
	test.ExpectEquality(t, r.stats.Invocations, uint64(3*600))
	test.ExpectEquality(t, r.stats.StaleSAV, uint64(0))
}

func TestSolid(t *testing.T) {
	r := run(t, "SOLID", 3)

	for band := 0; band < patterns.SolidBands; band++ {
		c := monitor.Color(patterns.BarColors[band])
		y := band * 75
		test.ExpectEquality(t, r.img.RGBAAt(0, y), c, band)
		test.ExpectEquality(t, r.img.RGBAAt(799, y+74), c, band)
	}

	// one invocation per band
	test.ExpectEquality(t, r.stats.Invocations, uint64(3*patterns.SolidBands))
	test.ExpectEquality(t, r.stats.Repeated, uint64(3*(600-patterns.SolidBands)))
}

func TestConsole(t *testing.T) {
	_, sync, _, _ := setup(t)
	con, err := patterns.NewConsole(sync.Timing().VisibleLines())
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, con.Rows(), 75)

	con.Print(3, 78, "abc", 0xff, 0x00)
	test.ExpectEquality(t, con.Text(3)[76:], "  ab")

	r := run(t, "CONSOLE", 3)

	// status line is drawn with a yellow background. the last two pixels of
	// every cell are background
	test.ExpectEquality(t, r.img.RGBAAt(8, 0), monitor.Color(0xfc))
	test.ExpectEquality(t, r.img.RGBAAt(799, 7), monitor.Color(0xfc))
	test.ExpectEquality(t, r.img.RGBAAt(799, 8), monitor.Color(0x00))
}

func TestChecker(t *testing.T) {
	r := run(t, "CHECKER", 3)

	// the most recent frame shows the board drawn in frame 1, which is
	// offset by one bitmap pixel
	test.ExpectEquality(t, r.img.RGBAAt(0, 0), monitor.Color(patterns.CheckerColors[0]))
	test.ExpectEquality(t, r.img.RGBAAt(46, 0), monitor.Color(patterns.CheckerColors[0]))
	test.ExpectEquality(t, r.img.RGBAAt(48, 0), monitor.Color(patterns.CheckerColors[1]))
	test.ExpectEquality(t, r.img.RGBAAt(49, 1), monitor.Color(patterns.CheckerColors[1]))
	test.ExpectEquality(t, r.img.RGBAAt(50, 50), monitor.Color(patterns.CheckerColors[0]))

	// pixels are doubled horizontally by the pixel clock and vertically by
	// line repetition
	test.ExpectEquality(t, r.stats.Invocations, uint64(3*300))
	test.ExpectEquality(t, r.stats.Repeated, uint64(3*300))
}

func TestScroller(t *testing.T) {
	r := run(t, "SCROLLER", 3)

	// the most recent frame shows the rows produced in frame 1
	test.ExpectEquality(t, r.img.RGBAAt(0, 0), monitor.Color(patterns.BarColors[0]))
	test.ExpectEquality(t, r.img.RGBAAt(40, 0), monitor.Color(patterns.BarColors[1]))
	test.ExpectEquality(t, r.stats.StaleSAV, uint64(0))
}

func TestScrollerTearing(t *testing.T) {
	brd, sync, _, _ := setup(t)

	// thread mode produces a row every five lines, which is slower than
	// the rows are displayed
	scr, err := patterns.NewScroller(sync.Memory(), 5)
	test.DemandSuccess(t, err)

	started := make(chan bool)
	go func() {
		defer func() { _ = recover() }()
		_ = patterns.Run(sync, scr, func(frame int) bool {
			if frame == 0 {
				started <- true
			}
			return true
		})
	}()
	<-started

	test.ExpectPanic(t, func() {
		brd.Step(3 * timing.SVGA800x600.FrameLines())
	}, "tearing")
}

func TestDigest(t *testing.T) {
	a := run(t, "BARS", 3)
	b := run(t, "BARS", 3)
	c := run(t, "CHECKER", 3)
	test.ExpectEquality(t, a.hash, b.hash)
	test.ExpectInequality(t, a.hash, c.hash)
}
