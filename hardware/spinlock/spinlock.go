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

// Package spinlock provides the two non-blocking locks used by the video
// driver. Neither lock ever blocks in the operating system sense: TryLock()
// either succeeds immediately or reports that the lock is unavailable.
//
// SpinLock guards small records and peripheral handles shared between two
// priority levels. RWSpinLock allows any number of concurrent readers or a
// single writer and is used for framebuffers that are swapped at vblank.
//
// In interrupt context contention is a logic error, because by construction
// each lock has exactly one possible interrupt-context acquirer. The Must
// variants panic on contention and are the only variants to be used in
// interrupt handlers.
package spinlock

import (
	"fmt"
	"sync/atomic"
)

// SpinLock wraps a value of type T. The value must only be accessed through a
// Guard.
type SpinLock[T any] struct {
	locked atomic.Bool
	value  T
}

// New is the preferred method of initialisation for the SpinLock type.
func New[T any](value T) *SpinLock[T] {
	return &SpinLock[T]{value: value}
}

// Guard grants access to the value of a locked SpinLock. The zero value is a
// released guard.
type Guard[T any] struct {
	lock *SpinLock[T]
}

// Value returns a pointer to the guarded value. The pointer must not be
// retained after Unlock().
func (g *Guard[T]) Value() *T {
	if g.lock == nil {
		panic("spinlock: access through released guard")
	}
	return &g.lock.value
}

// Unlock releases the lock. Unlocking a released guard panics.
func (g *Guard[T]) Unlock() {
	if g.lock == nil {
		panic("spinlock: unlock of released guard")
	}
	g.lock.locked.Store(false)
	g.lock = nil
}

// TryLock makes a single attempt to acquire the lock. It never blocks. If
// the lock is unavailable the returned bool is false and the guard is
// released.
func (s *SpinLock[T]) TryLock() (Guard[T], bool) {
	if s.locked.Swap(true) {
		return Guard[T]{}, false
	}
	return Guard[T]{lock: s}, true
}

// MustLock acquires the lock or panics. For use in interrupt handlers where
// contention indicates re-entrancy or overlapping handlers. The name
// identifies the lock in the panic message.
func (s *SpinLock[T]) MustLock(name string) Guard[T] {
	g, ok := s.TryLock()
	if !ok {
		panic(fmt.Sprintf("spinlock: contention on %s in interrupt context", name))
	}
	return g
}

// Lock spins until the lock is acquired. Only for use in thread mode, where
// the holder may be an interrupt that will run to completion.
func (s *SpinLock[T]) Lock() Guard[T] {
	for {
		if g, ok := s.TryLock(); ok {
			return g
		}
		relax()
	}
}

// With calls f with the guarded value if the lock can be acquired
// immediately. Returns false if the lock was unavailable and f was not called.
func (s *SpinLock[T]) With(f func(v *T)) bool {
	g, ok := s.TryLock()
	if !ok {
		return false
	}
	defer g.Unlock()
	f(g.Value())
	return true
}

// Locked returns true if the lock is currently held. The answer may be stale
// by the time it is used and is for diagnostics only.
func (s *SpinLock[T]) Locked() bool {
	return s.locked.Load()
}
