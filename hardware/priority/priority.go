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

// Package priority defines tokens that prove which execution context the
// holder is running in. The video driver runs code at four levels:
//
//	I2     shock absorber (highest)
//	I1     horizontal retrace (SAV/EAV)
//	I0     raster maintenance
//	Thread the application's render loop (lowest)
//
// Functions that are only safe at one level take the matching token as an
// argument. Because a lower level can never preempt a higher one, a token
// stands in for a lock: for example, the reader side of a race buffer takes
// an Interrupt token and the writer side takes a Thread token, and so the two
// cannot be swapped by mistake.
//
// Tokens are plain values and any package can declare one. Only the tokens
// returned by the Assume functions are minted, and the board refuses tokens
// that are not. The Assume functions are only to be called at the points
// where the context is actually entered: the board's interrupt dispatcher and
// the driver's render loop. When built with the "assertions" tag, the Assume
// functions record and check the goroutine of each context.
package priority

// Thread proves that the holder is running in thread mode, below all
// interrupt priorities.
type Thread struct {
	_      [0]func()
	minted bool
}

// I0 proves that the holder is running in the raster maintenance interrupt.
type I0 struct {
	_      [0]func()
	minted bool
}

// I1 proves that the holder is running in the horizontal retrace interrupt.
type I1 struct {
	_      [0]func()
	minted bool
}

// I2 proves that the holder is running in the shock absorber interrupt.
type I2 struct {
	_      [0]func()
	minted bool
}

// Interrupt is implemented by all interrupt tokens. It is accepted where any
// interrupt level will do, such as the reader side of a race buffer.
type Interrupt interface {
	interrupt()

	// Level returns the priority level. Higher levels preempt lower levels.
	Level() Level

	// Minted returns false if the token was not returned by an Assume
	// function.
	Minted() bool
}

func (I0) interrupt() {}
func (I1) interrupt() {}
func (I2) interrupt() {}

// Level of an execution context. Thread is the lowest.
type Level int

// List of valid Level values.
const (
	LevelThread Level = iota
	LevelI0
	LevelI1
	LevelI2
)

func (l Level) String() string {
	switch l {
	case LevelThread:
		return "thread"
	case LevelI0:
		return "I0"
	case LevelI1:
		return "I1"
	case LevelI2:
		return "I2"
	}
	return "unknown"
}

// Level implements the Interrupt interface.
func (I0) Level() Level { return LevelI0 }

// Level implements the Interrupt interface.
func (I1) Level() Level { return LevelI1 }

// Level implements the Interrupt interface.
func (I2) Level() Level { return LevelI2 }

// Minted returns false if the token was not returned by AssumeThread().
func (t Thread) Minted() bool { return t.minted }

// Minted implements the Interrupt interface.
func (t I0) Minted() bool { return t.minted }

// Minted implements the Interrupt interface.
func (t I1) Minted() bool { return t.minted }

// Minted implements the Interrupt interface.
func (t I2) Minted() bool { return t.minted }

// AssumeThread returns a Thread token. Only to be called where thread mode is
// entered.
func AssumeThread() Thread {
	check(LevelThread)
	return Thread{minted: true}
}

// AssumeI0 returns an I0 token. Only to be called by the interrupt dispatcher.
func AssumeI0() I0 {
	check(LevelI0)
	return I0{minted: true}
}

// AssumeI1 returns an I1 token. Only to be called by the interrupt dispatcher.
func AssumeI1() I1 {
	check(LevelI1)
	return I1{minted: true}
}

// AssumeI2 returns an I2 token. Only to be called by the interrupt dispatcher.
func AssumeI2() I2 {
	check(LevelI2)
	return I2{minted: true}
}
