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

package memorymap

// Area represents the different areas of memory.
type Area int

func (a Area) String() string {
	switch a {
	case CCM:
		return "CCM"
	case SRAM112:
		return "SRAM112"
	case SRAM16:
		return "SRAM16"
	case BitBand:
		return "BitBand"
	case GPIO:
		return "GPIO"
	}

	return "undefined"
}

// The different memory areas.
const (
	Undefined Area = iota
	CCM
	SRAM112
	SRAM16
	BitBand
	GPIO
)

// Areas lists the areas in address order.
var Areas = []Area{CCM, SRAM112, SRAM16, BitBand, GPIO}

// The origin and memory top for each area of memory.
const (
	OriginCCM     = uint32(0x1000_0000)
	MemtopCCM     = uint32(0x1000_ffff)
	OriginSRAM112 = uint32(0x2000_0000)
	MemtopSRAM112 = uint32(0x2001_bfff)
	OriginSRAM16  = uint32(0x2001_c000)
	MemtopSRAM16  = uint32(0x2001_ffff)
	OriginBitBand = uint32(0x2200_0000)
	MemtopBitBand = uint32(0x23ff_ffff)
	OriginGPIO    = uint32(0x4002_0000)
	MemtopGPIO    = uint32(0x4002_23ff)
)

// The bit-banded part of SRAM. Each byte in the range corresponds to eight
// words in the BitBand area.
const (
	OriginBitBanded = uint32(0x2000_0000)
	MemtopBitBanded = uint32(0x200f_ffff)
)

// Output data registers of the GPIO ports used for video. Pixels are written
// to the low byte of port E. Sync signals are on port B.
const (
	GPIOBOutput = uint32(0x4002_0414)
	GPIOEOutput = uint32(0x4002_1014)
)

// Origin returns the first address of the area.
func (a Area) Origin() uint32 {
	switch a {
	case CCM:
		return OriginCCM
	case SRAM112:
		return OriginSRAM112
	case SRAM16:
		return OriginSRAM16
	case BitBand:
		return OriginBitBand
	case GPIO:
		return OriginGPIO
	}
	return 0
}

// Memtop returns the last address of the area.
func (a Area) Memtop() uint32 {
	switch a {
	case CCM:
		return MemtopCCM
	case SRAM112:
		return MemtopSRAM112
	case SRAM16:
		return MemtopSRAM16
	case BitBand:
		return MemtopBitBand
	case GPIO:
		return MemtopGPIO
	}
	return 0
}

// Size returns the number of bytes in the area.
func (a Area) Size() int {
	if a == Undefined {
		return 0
	}
	return int(a.Memtop()-a.Origin()) + 1
}

// DMA returns true if the area can be reached by the DMA controller.
func (a Area) DMA() bool {
	return a == SRAM112 || a == SRAM16 || a == GPIO
}

// RAM returns true if the area is backed by general purpose memory.
func (a Area) RAM() bool {
	return a == CCM || a == SRAM112 || a == SRAM16
}

// MapAddress returns the area the address belongs to.
func MapAddress(address uint32) Area {
	for _, a := range Areas {
		if address >= a.Origin() && address <= a.Memtop() {
			return a
		}
	}
	return Undefined
}

// IsArea returns true if the address is in the specified area.
func IsArea(address uint32, area Area) bool {
	return MapAddress(address) == area
}

// IsBitBanded returns true if the address has an alias in the BitBand area.
func IsBitBanded(address uint32) bool {
	return address >= OriginBitBanded && address <= MemtopBitBanded
}

// BitBandAlias returns the address of the alias word for a bit of a
// bit-banded byte. The address must be bit-banded.
func BitBandAlias(address uint32, bit int) uint32 {
	return OriginBitBand + (address-OriginBitBanded)*32 + uint32(bit&7)*4
}
