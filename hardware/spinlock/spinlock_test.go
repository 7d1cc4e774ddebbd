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

package spinlock_test

import (
	"sync"
	"testing"

	"github.com/softvga/softvga/hardware/spinlock"
	"github.com/softvga/softvga/test"
)

func TestTryLock(t *testing.T) {
	s := spinlock.New(10)

	g, ok := s.TryLock()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, *g.Value(), 10)
	test.ExpectSuccess(t, s.Locked())

	// second attempt fails without blocking
	_, ok = s.TryLock()
	test.ExpectFailure(t, ok)

	*g.Value() = 20
	g.Unlock()
	test.ExpectFailure(t, s.Locked())

	g, ok = s.TryLock()
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, *g.Value(), 20)
	g.Unlock()
}

func TestReleasedGuard(t *testing.T) {
	s := spinlock.New(0)
	g, _ := s.TryLock()
	g.Unlock()
	test.ExpectPanic(t, func() { g.Unlock() }, "released guard")
	test.ExpectPanic(t, func() { g.Value() }, "released guard")

	var zero spinlock.Guard[int]
	test.ExpectPanic(t, func() { zero.Unlock() }, "released guard")
}

func TestMustLock(t *testing.T) {
	s := spinlock.New(struct{}{})
	g := s.MustLock("timing")
	test.ExpectPanic(t, func() { s.MustLock("timing") }, "contention on timing")
	g.Unlock()
	test.ExpectNoPanic(t, func() {
		g := s.MustLock("timing")
		g.Unlock()
	})
}

func TestWith(t *testing.T) {
	s := spinlock.New(1)
	test.ExpectSuccess(t, s.With(func(v *int) { *v++ }))

	g, _ := s.TryLock()
	test.ExpectFailure(t, s.With(func(v *int) { *v++ }))
	test.ExpectEquality(t, *g.Value(), 2)
	g.Unlock()
}

func TestLockSpins(t *testing.T) {
	s := spinlock.New(0)

	const n = 8
	const iterations = 1000

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				g := s.Lock()
				*g.Value()++
				g.Unlock()
			}
		}()
	}
	wg.Wait()

	g := s.Lock()
	test.ExpectEquality(t, *g.Value(), n*iterations)
	g.Unlock()
}
