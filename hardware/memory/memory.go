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

package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/memory/memorymap"
)

// Sentinal errors.
const (
	OutOfMemory  = "memory: %s: cannot allocate %d bytes (%d free)"
	AddressError = "memory: address %08x (%d bytes) is not backed by memory"
	NotRAM       = "memory: %s is not an allocatable area"
)

// Block is an allocation of simulated memory.
type Block struct {
	Addr uint32
	Area memorymap.Area
	Data []byte
}

// Len returns the number of bytes in the block.
func (b Block) Len() int {
	return len(b.Data)
}

// Memtop returns the address of the last byte in the block.
func (b Block) Memtop() uint32 {
	if len(b.Data) == 0 {
		return b.Addr
	}
	return b.Addr + uint32(len(b.Data)) - 1
}

func (b Block) String() string {
	return fmt.Sprintf("%s %08x -> %08x", b.Area, b.Addr, b.Memtop())
}

type bank struct {
	area memorymap.Area
	data []byte
	next int
}

// Memory is the collection of RAM areas.
type Memory struct {
	crit  sync.Mutex
	banks map[memorymap.Area]*bank
}

// NewMemory is the preferred method of initialisation for the Memory type.
func NewMemory() *Memory {
	mem := &Memory{
		banks: make(map[memorymap.Area]*bank),
	}
	for _, a := range memorymap.Areas {
		if a.RAM() {
			mem.banks[a] = &bank{
				area: a,
				data: make([]byte, a.Size()),
			}
		}
	}
	return mem
}

// Allocate reserves size bytes in the area. The address of the block is a
// multiple of align, which must be a power of two. Allocated memory is zeroed.
func (mem *Memory) Allocate(area memorymap.Area, size int, align int) (Block, error) {
	mem.crit.Lock()
	defer mem.crit.Unlock()

	b, ok := mem.banks[area]
	if !ok {
		return Block{}, curated.Errorf(NotRAM, area)
	}

	if align < 1 || align&(align-1) != 0 {
		panic(fmt.Sprintf("memory: alignment %d is not a power of two", align))
	}

	start := (b.next + align - 1) &^ (align - 1)
	if size < 0 || start+size > len(b.data) {
		return Block{}, curated.Errorf(OutOfMemory, area, size, len(b.data)-b.next)
	}
	b.next = start + size

	return Block{
		Addr: area.Origin() + uint32(start),
		Area: area,
		Data: b.data[start : start+size : start+size],
	}, nil
}

// Free returns the number of unallocated bytes in the area.
func (mem *Memory) Free(area memorymap.Area) int {
	mem.crit.Lock()
	defer mem.crit.Unlock()
	if b, ok := mem.banks[area]; ok {
		return len(b.data) - b.next
	}
	return 0
}

// Resolve returns the host memory for n bytes starting at the simulated
// address. The range must not cross the end of an area.
func (mem *Memory) Resolve(address uint32, n int) ([]byte, memorymap.Area, error) {
	area := memorymap.MapAddress(address)
	b, ok := mem.banks[area]
	if !ok || n < 0 {
		return nil, area, curated.Errorf(AddressError, address, n)
	}
	start := int(address - area.Origin())
	if start+n > len(b.data) {
		return nil, area, curated.Errorf(AddressError, address, n)
	}
	return b.data[start : start+n], area, nil
}

// Peek returns the byte at the simulated address.
func (mem *Memory) Peek(address uint32) (uint8, error) {
	d, _, err := mem.Resolve(address, 1)
	if err != nil {
		return 0, err
	}
	return d[0], nil
}

// Poke sets the byte at the simulated address.
func (mem *Memory) Poke(address uint32, value uint8) error {
	d, _, err := mem.Resolve(address, 1)
	if err != nil {
		return err
	}
	d[0] = value
	return nil
}

func (mem *Memory) String() string {
	mem.crit.Lock()
	defer mem.crit.Unlock()

	s := strings.Builder{}
	for _, a := range memorymap.Areas {
		if b, ok := mem.banks[a]; ok {
			s.WriteString(fmt.Sprintf("%-8s %6d/%6d used\n", a, b.next, len(b.data)))
		}
	}
	return s.String()
}
