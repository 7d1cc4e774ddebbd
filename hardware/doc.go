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

// Package hardware is the base package for the video driver and the simulated
// microcontroller it runs on. It has no code of its own.
//
// The board sub-package simulates the timers, the DMA stream, the interrupt
// controller and the GPIO outputs. The vga sub-package is the driver itself.
// The remaining sub-packages are the primitives the driver is built from:
// priority tokens, spin locks, the race buffer, the interrupt-safe callback
// loan, the timing descriptor, the DMA transfer descriptor and the memory map.
package hardware
