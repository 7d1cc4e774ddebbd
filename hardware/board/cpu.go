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

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/softvga/softvga/hardware/priority"
)

// CPU schedules thread mode against the simulated interrupts.
type CPU struct {
	crit sync.Mutex
	cond *sync.Cond

	// thread mode is attached and is running (not waiting for an interrupt)
	attached bool
	busy     bool

	// incremented every time the board completes a line
	tick uint64

	// an interrupt handler has failed. the board will not complete another
	// line
	halted bool

	sleeps atomic.Uint64
}

func newCPU() *CPU {
	c := &CPU{}
	c.cond = sync.NewCond(&c.crit)
	return c
}

// EnterThread attaches the calling goroutine as thread mode. From this point
// until ExitThread() the board only advances while thread mode is waiting for
// an interrupt.
func (c *CPU) EnterThread() priority.Thread {
	c.crit.Lock()
	defer c.crit.Unlock()
	if c.attached {
		panic("board: thread mode already entered")
	}
	c.attached = true
	c.busy = true
	priority.ClaimThread()
	return priority.AssumeThread()
}

// ExitThread detaches thread mode. The board runs freely afterwards.
func (c *CPU) ExitThread(tok priority.Thread) {
	mustBeMinted(tok)
	c.crit.Lock()
	defer c.crit.Unlock()
	c.attached = false
	c.busy = false
	c.cond.Broadcast()
}

// WaitForInterrupt suspends thread mode until the board has completed the
// next line, and therefore until at least one interrupt has been taken.
//
// It panics with the Halted message if the board has halted, because no
// interrupt will ever arrive.
func (c *CPU) WaitForInterrupt(tok priority.Thread) {
	mustBeMinted(tok)
	c.crit.Lock()
	defer c.crit.Unlock()
	c.busy = false
	c.cond.Broadcast()
	t := c.tick
	for c.tick == t && !c.halted {
		c.cond.Wait()
	}
	if c.halted {
		panic(Halted)
	}
}

// Halted returns true if an interrupt handler has failed.
func (c *CPU) Halted() bool {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.halted
}

// halt stops the CPU and wakes thread mode if it is waiting for an interrupt.
func (c *CPU) halt() {
	c.crit.Lock()
	defer c.crit.Unlock()
	c.halted = true
	c.cond.Broadcast()
}

// Sleep is the wait for interrupt instruction executed by an interrupt
// handler. The handler stays at its priority and so wakes on the next
// interrupt of higher priority. The board has no notion of time within a line
// and so Sleep returns immediately.
func (c *CPU) Sleep(tok priority.Interrupt) {
	mustBeMinted(tok)
	c.sleeps.Add(1)
}

// Sleeps returns the number of times Sleep() has been called.
func (c *CPU) Sleeps() uint64 {
	return c.sleeps.Load()
}

// waitIdle blocks until thread mode is detached or waiting.
func (c *CPU) waitIdle() {
	c.crit.Lock()
	defer c.crit.Unlock()
	for c.attached && c.busy {
		c.cond.Wait()
	}
}

// advance marks the end of a line and wakes thread mode.
func (c *CPU) advance() {
	c.crit.Lock()
	defer c.crit.Unlock()
	c.tick++
	if c.attached {
		// thread mode is running again from this point even if its
		// goroutine has not been scheduled yet
		c.busy = true
	}
	c.cond.Broadcast()
}

func mustBeMinted(tok interface{ Minted() bool }) {
	if !tok.Minted() {
		panic(fmt.Sprintf("board: %T token was not minted by an Assume function", tok))
	}
}
