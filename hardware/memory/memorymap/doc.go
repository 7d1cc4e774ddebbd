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

// Package memorymap describes the address space of the target
// microcontroller, as far as the video driver is concerned.
//
// The important distinction is between memory the DMA controller can reach
// and memory it cannot. Scan buffers must be in DMA reachable SRAM. The core
// coupled memory (CCM) is faster for the CPU but invisible to DMA, which is
// why the rasterizer draws into CCM and the result is copied to SRAM.
//
// The first megabyte of SRAM is also bit-banded: every bit has an alias word
// in the bit-band region.
package memorymap
