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

package board

// StreamLatency is the number of cycles between the stream being enabled and
// the first pixel appearing on the output port.
const StreamLatency = 88

// Stream is a DMA stream.
type Stream struct {
	// configuration register. see the dma package for an interpretation
	CR Register

	// number of data items to transfer
	NDTR Register

	// peripheral and memory addresses
	PAR  Register
	M0AR Register
}

// GPIO is a general purpose I/O port.
type GPIO struct {
	ODR Register
}

// Output pins on the sync port.
const (
	HSyncPin = 1 << 6
	VSyncPin = 1 << 7
)
