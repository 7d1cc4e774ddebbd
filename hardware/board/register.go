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

import "sync/atomic"

// Register is a 32 bit peripheral register.
type Register struct {
	v atomic.Uint32
}

// Get returns the value of the register.
func (r *Register) Get() uint32 {
	return r.v.Load()
}

// Set the register to value.
func (r *Register) Set(value uint32) {
	r.v.Store(value)
}

// SetBits sets the bits in the mask.
func (r *Register) SetBits(mask uint32) {
	for {
		v := r.v.Load()
		if r.v.CompareAndSwap(v, v|mask) {
			return
		}
	}
}

// ClearBits clears the bits in the mask.
func (r *Register) ClearBits(mask uint32) {
	for {
		v := r.v.Load()
		if r.v.CompareAndSwap(v, v&^mask) {
			return
		}
	}
}

// ToggleBits inverts the bits in the mask.
func (r *Register) ToggleBits(mask uint32) {
	for {
		v := r.v.Load()
		if r.v.CompareAndSwap(v, v^mask) {
			return
		}
	}
}

// HasBits returns true if all the bits in the mask are set.
func (r *Register) HasBits(mask uint32) bool {
	return r.v.Load()&mask == mask
}
