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

package bitband_test

import (
	"testing"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/memory"
	"github.com/softvga/softvga/hardware/memory/bitband"
	"github.com/softvga/softvga/hardware/memory/memorymap"
	"github.com/softvga/softvga/test"
)

func TestView(t *testing.T) {
	mem := memory.NewMemory()
	blk, err := mem.Allocate(memorymap.SRAM112, 4, 4)
	test.DemandSuccess(t, err)

	v, err := bitband.New(blk)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v.Len(), 32)

	v.Set(0, true)
	v.Set(9, true)
	v.Set(31, true)
	test.ExpectEquality(t, blk.Data[0], uint8(0x01))
	test.ExpectEquality(t, blk.Data[1], uint8(0x02))
	test.ExpectEquality(t, blk.Data[3], uint8(0x80))
	test.ExpectSuccess(t, v.Get(9))
	test.ExpectEquality(t, v.Get(8), false)

	v.Set(9, false)
	test.ExpectEquality(t, blk.Data[1], uint8(0x00))

	test.ExpectEquality(t, v.Alias(0), memorymap.OriginBitBand)
	test.ExpectEquality(t, v.Alias(9), memorymap.OriginBitBand+32+4)
	test.ExpectPanic(t, func() { v.Alias(32) }, "out of range")
}

func TestOutsideBitBand(t *testing.T) {
	mem := memory.NewMemory()
	blk, err := mem.Allocate(memorymap.CCM, 4, 4)
	test.DemandSuccess(t, err)

	_, err = bitband.New(blk)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, bitband.AddressRangeError))
}
