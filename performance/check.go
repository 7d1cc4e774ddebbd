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

package performance

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/board"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/monitor"
	"github.com/softvga/softvga/patterns"
)

// Result of a performance check.
type Result struct {
	Frames   int
	Duration time.Duration
	FPS      float64
	Accuracy float64
	Stats    vga.Stats
	Board    board.Stats
}

func (r Result) String() string {
	return fmt.Sprintf("%.2f fps (%d frames in %.2f seconds) %.1f%%", r.FPS, r.Frames, r.Duration.Seconds(), r.Accuracy)
}

// Check the performance of the simulation using the named pattern.
//
// The simulation runs as fast as it can. Frames are counted after a leadtime
// to allow the framerate to settle down. The simulation will create a cpu or
// memory profile, a trace (or a combination of those) as defined by the
// Profile argument.
func Check(output io.Writer, profile Profile, pattern string, leadtime time.Duration, duration time.Duration) (Result, error) {
	t := timing.SVGA800x600

	mon, err := monitor.NewMonitor(t)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}
	defer mon.End()

	brd := board.NewBoard(mon)
	res, err := brd.TakeResources()
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}
	idle, err := vga.Init(res)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}
	sync, err := idle.ConfigureTiming(t)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}
	p, err := patterns.New(pattern, sync)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}

	var startFrame uint64
	var endFrame uint64

	runner := func() error {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() {
			done <- brd.Run(ctx)
		}()

		// signals false when the leadtime has elapsed and true when the
		// measurement period has finished
		timerChan := make(chan bool, 2)
		time.AfterFunc(leadtime, func() {
			timerChan <- false
			time.AfterFunc(duration, func() {
				timerChan <- true
			})
		})

		// the timer is checked once per frame, from thread mode
		err := patterns.Run(sync, p, func(_ int) bool {
			select {
			case v := <-timerChan:
				if v {
					endFrame = sync.Stats().Frames
					return false
				}
				startFrame = sync.Stats().Frames
			default:
			}
			return true
		})

		cancel()
		if rerr := <-done; err == nil {
			err = rerr
		}
		return err
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil {
		return Result{}, curated.Errorf("performance: %v", err)
	}

	r := Result{
		Frames:   int(endFrame - startFrame),
		Duration: duration,
		Stats:    sync.Stats(),
		Board:    brd.Stats(),
	}
	r.FPS, r.Accuracy = CalcFPS(t, r.Frames, duration.Seconds())

	if output != nil {
		if _, err := io.WriteString(output, r.String()+"\n"); err != nil {
			return r, curated.Errorf("performance: %v", err)
		}
	}

	return r, nil
}
