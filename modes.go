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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/softvga/softvga/digest"
	"github.com/softvga/softvga/hardware/board"
	"github.com/softvga/softvga/hardware/memory/memorymap"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/logger"
	"github.com/softvga/softvga/modalflag"
	"github.com/softvga/softvga/monitor/limiter"
	"github.com/softvga/softvga/performance"
	"github.com/softvga/softvga/sdlwindow"
	"github.com/softvga/softvga/snapshot"
	"github.com/softvga/softvga/termview"
)

// windowGui satisfies the GuiCreator interface for an SDL window.
type windowGui struct {
	wnd  *sdlwindow.Window
	quit chan bool
	done bool
}

func (gui *windowGui) Destroy(output io.Writer) {
	gui.wnd.Destroy()
	if !gui.done {
		gui.done = true
		close(gui.quit)
	}
}

func (gui *windowGui) Service() {
	keys, quit, err := gui.wnd.Service()
	if err != nil {
		logger.Logf(logger.Allow, "softvga", "%v", err)
	}
	for _, k := range keys {
		if k == 'q' || k == 'Q' {
			quit = true
		}
	}
	if quit && !gui.done {
		gui.done = true
		close(gui.quit)
	}
}

func run(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	c := addCommon(md, 0)
	fps := md.AddFloat64("fps", 60.0, "limit frame rate (0 for no limit)")
	scale := md.AddFloat64("scale", 1.0, "window scaling")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	c.apply(os.Stdout)

	sys, err := newSystem(*c.pattern)
	if err != nil {
		return err
	}

	var lmtr *limiter.Limiter
	if *fps > 0 {
		lmtr = limiter.NewLimiter(float32(*fps))
		defer lmtr.End()
		sys.mon.SetLimiter(lmtr)
	}

	// the window must be created by the main thread
	sync.creator <- func() (GuiCreator, error) {
		wnd, err := sdlwindow.NewWindow(sys.mon, 800, 600, float32(*scale))
		if err != nil {
			return nil, err
		}
		return &windowGui{wnd: wnd, quit: make(chan bool)}, nil
	}

	var gui *windowGui
	select {
	case g := <-sync.creation:
		gui = g.(*windowGui)
	case err := <-sync.creationError:
		return err
	}

	err = sys.run(func(frame int) bool {
		select {
		case <-sync.interrupt:
			return false
		case <-gui.quit:
			return false
		default:
		}
		return *c.frames <= 0 || frame < *c.frames
	})

	if lmtr != nil {
		logger.Logf(logger.Allow, "softvga", "%.2f fps (requested %.2f)", lmtr.Actual(), lmtr.Requested())
	}

	if eerr := sys.end(); err == nil {
		err = eerr
	}
	return err
}

func termMode(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()

	c := addCommon(md, 0)
	fps := md.AddFloat64("fps", 20.0, "limit frame rate (0 for no limit)")
	every := md.AddInt("every", 1, "draw every nth frame")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	c.apply(os.Stdout)

	sys, err := newSystem(*c.pattern)
	if err != nil {
		return err
	}

	trm, err := termview.OpenTerminal(os.Stdout)
	if err != nil {
		return err
	}
	defer trm.Restore()

	cols, rows, err := trm.Size()
	if err != nil {
		return err
	}
	t := sys.sync.Timing()
	cols = min(cols, t.VideoPixels)
	rows = min(rows-1, t.VisibleLines()/2)

	vw, err := termview.NewView(sys.mon, os.Stdout, t.VideoPixels, t.VisibleLines(), cols, rows)
	if err != nil {
		return err
	}
	vw.SetEvery(*every)

	if *fps > 0 {
		lmtr := limiter.NewLimiter(float32(*fps))
		defer lmtr.End()
		sys.mon.SetLimiter(lmtr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	keys := trm.Keys(ctx)

	err = sys.run(func(frame int) bool {
		select {
		case <-sync.interrupt:
			return false
		case k, ok := <-keys:
			if !ok || k == 'q' || k == 'Q' || k == 0x1b {
				return false
			}
		default:
		}
		return *c.frames <= 0 || frame < *c.frames
	})

	if eerr := sys.end(); err == nil {
		err = eerr
	}
	return err
}

func digestMode(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	c := addCommon(md, 10)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	c.apply(output)

	if *c.frames <= 0 {
		return fmt.Errorf("number of frames must be greater than zero")
	}

	sys, err := newSystem(*c.pattern)
	if err != nil {
		return err
	}

	t := sys.sync.Timing()
	dig, err := digest.NewVideo(sys.mon, t.VideoPixels, t.VisibleLines())
	if err != nil {
		return err
	}

	var hash string
	err = sys.run(func(frame int) bool {
		if frame < *c.frames {
			return true
		}
		hash = dig.Hash()
		return false
	})

	if eerr := sys.end(); err == nil {
		err = eerr
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%s\n", hash)
	return nil
}

func snapshotMode(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	c := addCommon(md, 3)
	scale := md.AddInt("scale", 1, "image scaling")
	base := md.AddString("o", "softvga", "base of output filename")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	c.apply(output)

	if *c.frames <= 0 {
		return fmt.Errorf("number of frames must be greater than zero")
	}

	sys, err := newSystem(*c.pattern)
	if err != nil {
		return err
	}

	t := sys.sync.Timing()
	snp, err := snapshot.NewSnapshot(sys.mon, t.VideoPixels, t.VisibleLines(), *scale)
	if err != nil {
		return err
	}

	err = sys.run(func(frame int) bool {
		return frame < *c.frames
	})

	if eerr := sys.end(); err == nil {
		err = eerr
	}
	if err != nil {
		return err
	}

	fn, err := snp.Save(*base)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%s\n", fn)
	return nil
}

func perform(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	pattern := md.AddString("pattern", "BARS", "test pattern to run")
	duration := md.AddDuration("duration", 5*time.Second, "run duration")
	leadtime := md.AddDuration("leadtime", time.Second, "time to run before measurement")
	profile := md.AddString("profile", "NONE", "run performance check with profiling: CPU, MEM, TRACE, ALL (comma separated)")
	log := md.AddBool("log", false, "echo log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(output)
	} else {
		logger.SetEcho(nil)
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	_, err = performance.Check(output, prf, *pattern, *leadtime, *duration)
	return err
}

// the state shown by the DUMP mode.
type dumpArea struct {
	Area string
	Free int
}

type dumpState struct {
	Pattern string
	Timing  timing.Timing
	Stats   vga.Stats
	Board   board.Stats
	Memory  []dumpArea
}

func dump(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	c := addCommon(md, 1)
	out := md.AddString("o", "", "output file (default stdout)")
	memmap := md.AddBool("map", false, "print the memory map instead of the driver state")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	c.apply(output)

	if *memmap {
		_, err := io.WriteString(output, memorymap.Summary())
		return err
	}

	sys, err := newSystem(*c.pattern)
	if err != nil {
		return err
	}

	err = sys.run(func(frame int) bool {
		return frame < *c.frames
	})

	state := dumpState{
		Pattern: sys.pattern.String(),
		Timing:  sys.sync.Timing(),
		Stats:   sys.sync.Stats(),
		Board:   sys.brd.Stats(),
	}
	mem := sys.sync.Memory()
	for _, a := range []memorymap.Area{memorymap.CCM, memorymap.SRAM112, memorymap.SRAM16} {
		state.Memory = append(state.Memory, dumpArea{Area: a.String(), Free: mem.Free(a)})
	}

	if eerr := sys.end(); err == nil {
		err = eerr
	}
	if err != nil {
		return err
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	memviz.Map(output, &state)
	return nil
}
