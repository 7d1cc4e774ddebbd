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
	"sync/atomic"

	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/logger"
)

// Vector identifies an interrupt source.
type Vector int

// List of valid Vector values.
const (
	// shock absorber timer compare
	ShockVector Vector = iota

	// horizontal timer compare (SAV and EAV)
	HStateVector

	// software interrupt used for raster maintenance
	PendSVVector

	NumVectors
)

func (v Vector) String() string {
	switch v {
	case ShockVector:
		return "shock"
	case HStateVector:
		return "hstate"
	case PendSVVector:
		return "pendsv"
	}
	return "unknown"
}

// Handler is an interrupt service routine.
type Handler func()

type vector struct {
	level   atomic.Int32
	enabled atomic.Bool
	pending atomic.Bool
	handler atomic.Pointer[Handler]
}

// NVIC is the interrupt controller.
type NVIC struct {
	vectors [NumVectors]vector

	// level of the handler currently running. only accessed by the
	// dispatching goroutine
	running priority.Level
}

// SetPriority sets the priority level of the vector.
func (n *NVIC) SetPriority(v Vector, level priority.Level) {
	if level == priority.LevelThread {
		panic(fmt.Sprintf("board: %s vector cannot have thread priority", v))
	}
	n.vectors[v].level.Store(int32(level))
	logger.Logf(logger.Allow, "board", "%s vector priority %s", v, level)
}

// Priority returns the priority level of the vector.
func (n *NVIC) Priority(v Vector) priority.Level {
	return priority.Level(n.vectors[v].level.Load())
}

// SetHandler installs the interrupt service routine for the vector.
func (n *NVIC) SetHandler(v Vector, h Handler) {
	if h == nil {
		n.vectors[v].handler.Store(nil)
		return
	}
	n.vectors[v].handler.Store(&h)
}

// Enable the vector. Pending interrupts are dispatched at the next
// opportunity.
func (n *NVIC) Enable(v Vector) {
	n.vectors[v].enabled.Store(true)
	logger.Logf(logger.Allow, "board", "%s vector enabled", v)
}

// Disable the vector. The pending state is preserved.
func (n *NVIC) Disable(v Vector) {
	n.vectors[v].enabled.Store(false)
	logger.Logf(logger.Allow, "board", "%s vector disabled", v)
}

// Enabled returns true if the vector is enabled.
func (n *NVIC) Enabled(v Vector) bool {
	return n.vectors[v].enabled.Load()
}

// Pend sets the vector pending.
func (n *NVIC) Pend(v Vector) {
	n.vectors[v].pending.Store(true)
}

// Pending returns true if the vector is pending.
func (n *NVIC) Pending(v Vector) bool {
	return n.vectors[v].pending.Load()
}

// ClearPending clears the pending state of the vector.
func (n *NVIC) ClearPending(v Vector) {
	n.vectors[v].pending.Store(false)
}

// dispatch runs pending handlers with a priority higher than the currently
// running level, highest priority first, until none remain. Handlers that
// pend a vector of higher priority than themselves are not preempted: the
// new interrupt is taken when the running handler returns.
func (n *NVIC) dispatch() {
	for {
		best := Vector(-1)
		bestLevel := n.running
		for v := range n.vectors {
			vec := &n.vectors[v]
			if !vec.pending.Load() || !vec.enabled.Load() {
				continue
			}
			if l := priority.Level(vec.level.Load()); l > bestLevel {
				best = Vector(v)
				bestLevel = l
			}
		}
		if best < 0 {
			return
		}

		vec := &n.vectors[best]
		vec.pending.Store(false)
		h := vec.handler.Load()
		if h == nil {
			continue
		}

		prev := n.running
		n.running = bestLevel
		func() {
			defer func() { n.running = prev }()
			(*h)()
		}()
	}
}
