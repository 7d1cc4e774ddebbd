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

// Package termview shows a preview of the monitor output in a terminal. Every
// character cell shows two pixels by drawing the upper half block character
// with the foreground colour set to the upper pixel and the background colour
// set to the lower pixel. The terminal must support 24-bit colour.
//
// The Terminal type puts the controlling terminal into cbreak mode so that
// key presses can be read without waiting for the return key.
package termview
