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

// Package board simulates the parts of the microcontroller that the video
// driver depends on: the horizontal timer and its compare channels, the
// shock absorber timer, the DMA pacing timer, the DMA stream, the sync output
// pins and the interrupt controller.
//
// Time advances one scanline at a time. For each line the board emits the
// horizontal sync pulse to the Sink, raises the shock absorber compare, the
// start of active video (SAV) compare, runs the DMA stream if it has been
// enabled, raises the end of active video (EAV) compare and finally
// dispatches any interrupts that were pended by the handlers. Interrupt
// handlers run to completion on the goroutine that is stepping the board.
//
// Thread mode runs on its own goroutine and is scheduled in lockstep with the
// board: while thread mode is attached (see CPU.EnterThread) the board only
// advances when thread mode is waiting for an interrupt. As far as the
// simulation is concerned thread mode code takes no time at all.
//
// Peripheral registers are Register values, which can be safely accessed by
// thread mode and interrupt handlers at the same time.
package board
