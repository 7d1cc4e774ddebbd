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

package spinlock

import (
	"fmt"
	"sync/atomic"
)

// the value of the counter when a writer holds the lock
const writerActive = -1

// RWSpinLock wraps a value of type T and allows either any number of readers
// or a single writer.
//
// The counter is zero when the lock is free, positive when held by readers
// (the number of readers) and writerActive when held by a writer.
type RWSpinLock[T any] struct {
	count atomic.Int32
	value T
}

// NewRW is the preferred method of initialisation for the RWSpinLock type.
func NewRW[T any](value T) *RWSpinLock[T] {
	return &RWSpinLock[T]{value: value}
}

// ReadGuard grants shared access to the value of an RWSpinLock.
type ReadGuard[T any] struct {
	lock *RWSpinLock[T]
}

// Value returns a pointer to the guarded value. The value must not be
// modified through the pointer and the pointer must not be retained after
// Unlock().
func (g *ReadGuard[T]) Value() *T {
	if g.lock == nil {
		panic("spinlock: access through released read guard")
	}
	return &g.lock.value
}

// Unlock releases the shared lock.
func (g *ReadGuard[T]) Unlock() {
	if g.lock == nil {
		panic("spinlock: unlock of released read guard")
	}
	g.lock.count.Add(-1)
	g.lock = nil
}

// WriteGuard grants exclusive access to the value of an RWSpinLock.
type WriteGuard[T any] struct {
	lock *RWSpinLock[T]
}

// Value returns a pointer to the guarded value. The pointer must not be
// retained after Unlock().
func (g *WriteGuard[T]) Value() *T {
	if g.lock == nil {
		panic("spinlock: access through released write guard")
	}
	return &g.lock.value
}

// Unlock releases the exclusive lock.
func (g *WriteGuard[T]) Unlock() {
	if g.lock == nil {
		panic("spinlock: unlock of released write guard")
	}
	g.lock.count.Store(0)
	g.lock = nil
}

// TryLock attempts to acquire a shared lock. It succeeds unless a writer
// holds the lock.
func (s *RWSpinLock[T]) TryLock() (ReadGuard[T], bool) {
	for {
		n := s.count.Load()
		if n < 0 {
			return ReadGuard[T]{}, false
		}
		// another reader may have changed the count between the load and
		// the swap. that's not contention with a writer so try again
		if s.count.CompareAndSwap(n, n+1) {
			return ReadGuard[T]{lock: s}, true
		}
	}
}

// TryLockMut attempts to acquire the exclusive lock. It succeeds only if
// there are no readers and no writer.
func (s *RWSpinLock[T]) TryLockMut() (WriteGuard[T], bool) {
	if s.count.CompareAndSwap(0, writerActive) {
		return WriteGuard[T]{lock: s}, true
	}
	return WriteGuard[T]{}, false
}

// MustLock acquires a shared lock or panics. For use in interrupt handlers.
func (s *RWSpinLock[T]) MustLock(name string) ReadGuard[T] {
	g, ok := s.TryLock()
	if !ok {
		panic(fmt.Sprintf("spinlock: writer holds %s in interrupt context", name))
	}
	return g
}

// LockMut spins until the exclusive lock is acquired. Only for use in thread
// mode.
func (s *RWSpinLock[T]) LockMut() WriteGuard[T] {
	for {
		if g, ok := s.TryLockMut(); ok {
			return g
		}
		relax()
	}
}

// Readers returns the number of active readers, or -1 if a writer holds the
// lock. For diagnostics only.
func (s *RWSpinLock[T]) Readers() int {
	return int(s.count.Load())
}
