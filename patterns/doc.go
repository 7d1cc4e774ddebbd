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

// Package patterns contains test patterns for the video driver. Each pattern
// is a raster function, called by the driver in interrupt context, and a
// function called by thread mode once per frame.
//
// The patterns show the different ways thread mode and the raster function
// can share data:
//
//	bars      no shared data
//	solid     a single atomic value
//	console   a text buffer behind a spin lock
//	checker   a double-buffered bitmap behind a read/write spin lock
//	scroller  rows published through a race buffer
//
// Patterns are created by name with New() and run with Run().
package patterns
