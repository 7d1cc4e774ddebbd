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

// Package rast contains rasterizer primitives for use by Raster functions.
//
// The primitives have exact length contracts and panic when the contract is
// not met. Words are interpreted with the least significant bit first: bit n
// of word w describes pixel 32w+n. On a little-endian machine this matches
// the bit order of the same memory viewed as bytes, which is what the bitband
// package uses.
package rast
