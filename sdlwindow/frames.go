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

package sdlwindow

import "sync"

// frames is a pair of pixel buffers. one is written by the monitor while the
// other holds the most recent complete frame.
type frames struct {
	crit  sync.Mutex
	back  []byte
	front []byte
	fresh bool
	pitch int
}

func newFrames(width int, height int) *frames {
	return &frames{
		back:  make([]byte, width*height*4),
		front: make([]byte, width*height*4),
		pitch: width * 4,
	}
}

// setLine is called by the monitor goroutine.
func (f *frames) setLine(y int, rgba []byte) bool {
	i := y * f.pitch
	if i < 0 || i+len(rgba) > len(f.back) {
		return false
	}
	copy(f.back[i:], rgba)
	return true
}

// swap is called by the monitor goroutine at the end of every frame.
func (f *frames) swap() {
	f.crit.Lock()
	defer f.crit.Unlock()
	f.back, f.front = f.front, f.back
	f.fresh = true
}

// show is called on the main thread. the function is only called if there is
// a frame that has not yet been shown.
func (f *frames) show(fn func(pixels []byte, pitch int) error) error {
	f.crit.Lock()
	defer f.crit.Unlock()
	if !f.fresh {
		return nil
	}
	f.fresh = false
	return fn(f.front, f.pitch)
}
