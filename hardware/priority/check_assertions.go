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

//go:build assertions

package priority

import "github.com/softvga/softvga/assert"

// all interrupt levels are dispatched from the same goroutine. thread mode
// must never be entered from that goroutine
var interrupts assert.Owner
var thread assert.Owner

// ClaimInterrupts records the calling goroutine as the interrupt context.
// Called once by the board when its dispatcher starts.
func ClaimInterrupts() {
	interrupts.Claim()
}

// ClaimThread records the calling goroutine as the thread context.
func ClaimThread() {
	thread.Claim()
}

func check(l Level) {
	switch l {
	case LevelThread:
		thread.CheckOwner(l.String())
	default:
		interrupts.CheckOwner(l.String())
	}
}
