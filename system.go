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

	"github.com/softvga/softvga/hardware/board"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/logger"
	"github.com/softvga/softvga/modalflag"
	"github.com/softvga/softvga/monitor"
	"github.com/softvga/softvga/patterns"
	"github.com/softvga/softvga/statsview"
)

// flags shared by every mode that runs a pattern.
type common struct {
	pattern   *string
	frames    *int
	log       *bool
	statsview *bool
}

func addCommon(md *modalflag.Modes, frames int) *common {
	c := &common{
		pattern: md.AddString("pattern", "BARS", fmt.Sprintf("test pattern to display %v", patterns.Names())),
		frames:  md.AddInt("frames", frames, "number of frames to run (0 to run until interrupted)"),
		log:     md.AddBool("log", false, "echo log to stdout"),
	}
	if statsview.Available() {
		c.statsview = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}
	return c
}

func (c *common) apply(output io.Writer) {
	if *c.log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}
	if c.statsview != nil && *c.statsview {
		statsview.Launch(output)
	}
}

// system is a monitor, a board and a video driver running a single pattern.
type system struct {
	mon     *monitor.Monitor
	brd     *board.Board
	sync    *vga.Sync
	pattern patterns.Pattern
}

func newSystem(pattern string) (*system, error) {
	t := timing.SVGA800x600

	mon, err := monitor.NewMonitor(t)
	if err != nil {
		return nil, err
	}

	brd := board.NewBoard(mon)
	res, err := brd.TakeResources()
	if err != nil {
		return nil, err
	}

	idle, err := vga.Init(res)
	if err != nil {
		return nil, err
	}

	sync, err := idle.ConfigureTiming(t)
	if err != nil {
		return nil, err
	}

	p, err := patterns.New(pattern, sync)
	if err != nil {
		return nil, err
	}

	return &system{
		mon:     mon,
		brd:     brd,
		sync:    sync,
		pattern: p,
	}, nil
}

// run the pattern until more returns false. more is called from thread mode
// once per frame, while the board is idle.
//
// the board is only started once the pattern is attached to thread mode so
// that output is the same from one run to the next.
//
// a failure in an interrupt handler halts the board. the failure is returned
// as an error along with the failure seen by thread mode.
func (sys *system) run(more func(frame int) bool) error {
	attached := make(chan bool)
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("thread mode: %v", r)
			}
		}()
		done <- patterns.Run(sys.sync, sys.pattern, func(frame int) bool {
			if frame == 0 {
				close(attached)
			}
			return more(frame)
		})
	}()

	select {
	case <-attached:
	case err := <-done:
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	brdDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				brdDone <- fmt.Errorf("interrupt: %v", r)
			}
		}()
		brdDone <- sys.brd.Run(ctx)
	}()

	err := <-done
	cancel()
	if berr := <-brdDone; berr != nil {
		if err != nil {
			return fmt.Errorf("%v (%v)", berr, err)
		}
		return berr
	}
	if err == nil {
		err = sys.mon.Err()
	}
	return err
}

// end rendering and shutdown the video driver.
func (sys *system) end() error {
	err := sys.mon.End()
	idle, serr := sys.sync.Shutdown()
	if serr != nil {
		if err == nil {
			err = serr
		}
		return err
	}
	if cerr := idle.Close(); err == nil {
		err = cerr
	}
	return err
}
