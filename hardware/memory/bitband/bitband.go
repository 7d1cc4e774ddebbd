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

// Package bitband provides a view of a block of bit-banded SRAM in which every
// bit is individually addressable.
//
// On the target each bit of the first megabyte of SRAM is aliased by a word
// in the bit-band region. Writing the alias word writes the single bit
// atomically. The View type gives access to the bits through their index and
// reports the alias address of each bit.
package bitband

import (
	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/memory"
	"github.com/softvga/softvga/hardware/memory/memorymap"
)

// AddressRangeError is returned by New() when the block is not entirely in
// bit-banded memory.
const AddressRangeError = "bitband: %08x to %08x is outside the bit-banded region"

// View of a memory block as a sequence of bits. Bit n of byte i has index
// i*8+n.
type View struct {
	block memory.Block
}

// New returns a view of the block. The view has eight times as many cells as
// the block has bytes.
func New(block memory.Block) (*View, error) {
	if !memorymap.IsBitBanded(block.Addr) || !memorymap.IsBitBanded(block.Memtop()) {
		return nil, curated.Errorf(AddressRangeError, block.Addr, block.Memtop())
	}
	return &View{block: block}, nil
}

// Len returns the number of bits in the view.
func (v *View) Len() int {
	return len(v.block.Data) * 8
}

// Get returns the value of the bit at index i.
func (v *View) Get(i int) bool {
	return v.block.Data[i>>3]&(1<<(i&7)) != 0
}

// Set changes the value of the bit at index i.
func (v *View) Set(i int, b bool) {
	if b {
		v.block.Data[i>>3] |= 1 << (i & 7)
	} else {
		v.block.Data[i>>3] &^= 1 << (i & 7)
	}
}

// Alias returns the address of the alias word for the bit at index i.
func (v *View) Alias(i int) uint32 {
	if i < 0 || i >= v.Len() {
		panic("bitband: index out of range")
	}
	return memorymap.BitBandAlias(v.block.Addr+uint32(i>>3), i&7)
}

// Block returns the underlying memory.
func (v *View) Block() memory.Block {
	return v.block
}
