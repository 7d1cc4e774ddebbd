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

import "fmt"

// CR1 bits.
const (
	CEN = 1 << 0
)

// SR bits. Compare flags are set by hardware and cleared by software.
const (
	UIF   = 1 << 0
	CC1IF = 1 << 1
	CC2IF = 1 << 2
	CC3IF = 1 << 3
	CC4IF = 1 << 4
)

// DIER bits.
const (
	UIE   = 1 << 0
	CC1IE = 1 << 1
	CC2IE = 1 << 2
	CC3IE = 1 << 3
	CC4IE = 1 << 4
	UDE   = 1 << 8
)

// CCER bits for channel 1, which drives the horizontal sync output.
const (
	CC1E = 1 << 0
	CC1P = 1 << 1
)

// Timer is a general purpose timer. Its counter counts CPU cycles.
type Timer struct {
	name string

	CR1  Register
	DIER Register
	SR   Register
	CCER Register
	ARR  Register

	// capture compare registers for channels 1 to 4
	CCR [4]Register
}

func newTimer(name string) *Timer {
	return &Timer{name: name}
}

func (tim *Timer) String() string {
	return fmt.Sprintf("%s: cen=%v arr=%d ccr=[%d %d %d %d] dier=%03x",
		tim.name, tim.Running(), tim.ARR.Get(),
		tim.CCR[0].Get(), tim.CCR[1].Get(), tim.CCR[2].Get(), tim.CCR[3].Get(),
		tim.DIER.Get())
}

// Running returns true if the counter is enabled.
func (tim *Timer) Running() bool {
	return tim.CR1.HasBits(CEN)
}

// Period returns the number of cycles in one period of the counter.
func (tim *Timer) Period() int {
	return int(tim.ARR.Get()) + 1
}

// AcknowledgeFlags clears the flags in the mask and returns the flags that
// were set before.
func (tim *Timer) AcknowledgeFlags(mask uint32) uint32 {
	sr := tim.SR.Get()
	tim.SR.ClearBits(sr & mask)
	return sr
}

// compare sets the flag for the channel (numbered from 1) and returns true
// if the channel's interrupt is enabled.
func (tim *Timer) compare(channel int) bool {
	if !tim.Running() {
		return false
	}
	flag := uint32(1) << channel
	tim.SR.SetBits(flag)
	return tim.DIER.HasBits(flag)
}
