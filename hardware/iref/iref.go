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

// Package iref implements a single-slot loan of a value from thread mode to an
// interrupt handler.
//
// Thread mode donates a value for the duration of a scope. While the scope
// runs, an interrupt handler may observe the value. When the scope ends the
// donor waits for any observation in progress to finish before taking the
// value back, so the value is never in use after Donate() returns.
//
// Observation never blocks. If nothing has been donated, or if the value is
// already being observed (by a re-entrant handler, for example), Observe()
// returns false and does nothing.
//
// If the observing function panics the IRef is poisoned. The donor panics
// when it takes the value back and every later Observe() or Donate() panics.
// An observer is typically a rasterizer called for every scanline, so a
// failure in it is never allowed to go unnoticed.
package iref

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// State of an IRef.
type State uint32

// List of valid State values.
const (
	Empty State = iota
	Loading
	Loaded
	Locked
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Locked:
		return "locked"
	}
	return fmt.Sprintf("unknown state (%d)", uint32(s))
}

// IRef is the loan cell. The zero value is an empty IRef ready for use.
type IRef[T any] struct {
	state    atomic.Uint32
	poisoned atomic.Bool

	// only written in the Loading state and only read in the Locked state
	value T
}

// State returns the current state. For diagnostics only.
func (r *IRef[T]) State() State {
	return State(r.state.Load())
}

// Poisoned returns true if an observer has panicked.
func (r *IRef[T]) Poisoned() bool {
	return r.poisoned.Load()
}

// Donate makes the value available to observers for the duration of scope.
//
// It panics if the IRef is not empty, which means that donations have
// overlapped, or if the IRef is poisoned. It also panics after scope returns
// if an observer panicked during the loan.
func (r *IRef[T]) Donate(value T, scope func()) {
	if r.poisoned.Load() {
		panic("iref: donation to poisoned iref")
	}
	if !r.state.CompareAndSwap(uint32(Empty), uint32(Loading)) {
		panic(fmt.Sprintf("iref: donation while %s", r.State()))
	}

	r.value = value
	r.state.Store(uint32(Loaded))

	defer r.revoke()
	scope()
}

// revoke waits for any observation in progress to finish and empties the
// IRef.
func (r *IRef[T]) revoke() {
	// an observer holds the value in the Locked state. we can only take the
	// value back in the Loaded state
	for !r.state.CompareAndSwap(uint32(Loaded), uint32(Loading)) {
		runtime.Gosched()
	}

	var zero T
	r.value = zero
	r.state.Store(uint32(Empty))

	if r.poisoned.Load() {
		panic("iref: observer panicked during loan")
	}
}

// Observe calls body with the donated value. It returns false without calling
// body if no value is loaded or if the value is already being observed.
//
// It panics if the IRef is poisoned.
func (r *IRef[T]) Observe(body func(value T)) bool {
	if r.poisoned.Load() {
		panic("iref: observation of poisoned iref")
	}
	if !r.state.CompareAndSwap(uint32(Loaded), uint32(Locked)) {
		return false
	}

	// body may panic. the panic is not recovered but the IRef is poisoned
	// and unlocked so that the donor can take the value back
	completed := false
	defer func() {
		if !completed {
			r.poisoned.Store(true)
		}
		r.state.Store(uint32(Loaded))
	}()

	body(r.value)
	completed = true

	return true
}
