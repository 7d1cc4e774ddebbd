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

// Package memory simulates the RAM areas of the target. Memory is allocated
// statically, at initialisation time, in the same way a linker places
// buffers in named sections. There is no way to free an allocation.
//
// Allocations are returned as a Block, which records the simulated address
// of the memory alongside the host slice backing it. The address is what the
// DMA controller sees. The slice is what the CPU sees.
package memory
