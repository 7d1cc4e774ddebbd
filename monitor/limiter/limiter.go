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

// Package limiter paces the simulation to the refresh rate of the video mode.
// The monitor calls Wait() once per frame and the call returns on the next
// tick of the requested rate.
package limiter

import (
	"math"
	"sync/atomic"
	"time"
)

// Limiter ticks at a requested number of frames per second.
type Limiter struct {
	// whether to wait for the tick in Wait()
	active atomic.Bool

	requested float32

	// actual rate calculation
	actual         atomic.Uint32
	actualCt       int
	actualCtTarget int
	actualRefTime  time.Time

	// channels
	sync    chan bool
	reqRate chan time.Duration
	quit    chan bool
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
// The limiter is active and ticks at the given rate.
func NewLimiter(fps float32) *Limiter {
	lmtr := &Limiter{
		actualRefTime: time.Now(),
		sync:          make(chan bool),
		reqRate:       make(chan time.Duration),
		quit:          make(chan bool),
	}
	lmtr.active.Store(true)

	go func() {
		// new ticker with an arbitrary value. it'll get changed soon enough
		tck := time.NewTicker(time.Second)
		defer tck.Stop()

		for {
			select {
			case <-tck.C:
				select {
				case lmtr.sync <- true:

				// listen for rate changes while waiting to signal the
				// tick. if we don't do this it's possible for SetRate() to
				// deadlock
				case d := <-lmtr.reqRate:
					tck.Reset(d)
				case <-lmtr.quit:
					return
				}
			case d := <-lmtr.reqRate:
				tck.Reset(d)
			case <-lmtr.quit:
				return
			}
		}
	}()

	lmtr.SetRate(fps)

	return lmtr
}

// End stops the limiter. It should not be used afterwards.
func (lmtr *Limiter) End() {
	close(lmtr.quit)
}

// SetActive sets whether Wait() waits for the tick. An inactive limiter only
// measures the actual rate.
func (lmtr *Limiter) SetActive(active bool) {
	lmtr.active.Store(active)
}

// SetRate changes the number of ticks per second. Values of zero or less
// are ignored.
func (lmtr *Limiter) SetRate(fps float32) {
	if fps <= 0 {
		return
	}

	lmtr.requested = fps
	lmtr.reqRate <- time.Duration(float64(time.Second) / float64(fps))

	// the first measurement is taken on the next frame. the target is
	// adjusted to the measured rate after that
	lmtr.actualCtTarget = 1
	lmtr.actualCt = 0
	lmtr.actualRefTime = time.Now()
}

// Requested returns the requested rate.
func (lmtr *Limiter) Requested() float32 {
	return lmtr.requested
}

// Wait is called once per frame. It waits for the next tick if the limiter is
// active.
func (lmtr *Limiter) Wait() {
	if lmtr.active.Load() {
		<-lmtr.sync
	}
	lmtr.measureActual()
}

// Actual returns the measured rate.
func (lmtr *Limiter) Actual() float32 {
	return math.Float32frombits(lmtr.actual.Load())
}

// called every frame to calculate the actual frame rate being achieved
func (lmtr *Limiter) measureActual() {
	lmtr.actualCt++
	if lmtr.actualCt >= lmtr.actualCtTarget {
		t := time.Now()
		actual := float32(lmtr.actualCt) / float32(t.Sub(lmtr.actualRefTime).Seconds())
		lmtr.actual.Store(math.Float32bits(actual))

		// remeasure every second or so. if actual is less than 1 then
		// remeasure every frame
		if actual > 1 {
			lmtr.actualCtTarget = int(actual)
		} else {
			lmtr.actualCtTarget = 1
		}

		lmtr.actualRefTime = t
		lmtr.actualCt = 0
	}
}
