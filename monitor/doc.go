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

// Package monitor is a simulated analog display. It implements the
// board.Sink interface and decodes the sync pulses and pixel stream produced
// by the board into frames.
//
// The monitor does not present the frames itself. PixelRenderer
// implementations are added to it to do that, or to otherwise work with the
// image. For example the digest.Video type.
//
// Frames begin on the leading edge of the vertical sync pulse. The monitor
// counts horizontal sync pulses to find the visible lines, which it crops
// according to the timing it was created with. Pixels are RGB332 and each is
// held for a number of cycles. The monitor expands every pixel to the base
// pixel clock (secondary unpacking) and only supports multiples of the base
// clock.
package monitor
