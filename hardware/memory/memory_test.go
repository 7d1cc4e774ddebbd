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

package memory_test

import (
	"testing"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/memory"
	"github.com/softvga/softvga/hardware/memory/memorymap"
	"github.com/softvga/softvga/test"
)

func TestAllocate(t *testing.T) {
	mem := memory.NewMemory()

	a, err := mem.Allocate(memorymap.SRAM112, 3, 1)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, a.Addr, memorymap.OriginSRAM112)
	test.ExpectEquality(t, a.Len(), 3)

	b, err := mem.Allocate(memorymap.SRAM112, 804, 4)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, b.Addr, memorymap.OriginSRAM112+4)
	test.ExpectEquality(t, b.Area, memorymap.SRAM112)

	// blocks must not overlap
	b.Data[0] = 0xff
	test.ExpectEquality(t, a.Data[2], uint8(0))

	v, err := mem.Peek(b.Addr)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0xff))

	test.ExpectSuccess(t, mem.Poke(b.Addr+1, 0x12))
	test.ExpectEquality(t, b.Data[1], uint8(0x12))

	test.ExpectEquality(t, mem.Free(memorymap.SRAM112), memorymap.SRAM112.Size()-808)
}

func TestOutOfMemory(t *testing.T) {
	mem := memory.NewMemory()
	_, err := mem.Allocate(memorymap.SRAM16, 16*1024, 1)
	test.ExpectSuccess(t, err)
	_, err = mem.Allocate(memorymap.SRAM16, 1, 1)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, memory.OutOfMemory))

	_, err = mem.Allocate(memorymap.GPIO, 1, 1)
	test.ExpectSuccess(t, curated.Is(err, memory.NotRAM))
}

func TestResolve(t *testing.T) {
	mem := memory.NewMemory()
	blk, err := mem.Allocate(memorymap.CCM, 16, 4)
	test.DemandSuccess(t, err)

	d, area, err := mem.Resolve(blk.Addr+4, 8)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, area, memorymap.CCM)
	d[0] = 1
	test.ExpectEquality(t, blk.Data[4], uint8(1))

	_, _, err = mem.Resolve(memorymap.MemtopCCM, 2)
	test.ExpectSuccess(t, curated.Is(err, memory.AddressError))

	_, _, err = mem.Resolve(memorymap.GPIOEOutput, 1)
	test.ExpectSuccess(t, curated.Is(err, memory.AddressError))
}

func TestBadAlignment(t *testing.T) {
	mem := memory.NewMemory()
	test.ExpectPanic(t, func() { _, _ = mem.Allocate(memorymap.CCM, 4, 3) }, "power of two")
}
