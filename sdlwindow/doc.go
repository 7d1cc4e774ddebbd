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

// Package sdlwindow shows the output of the monitor in a window. It is an
// implementation of the monitor.PixelRenderer interface.
//
// The monitor calls the PixelRenderer functions from the goroutine driving
// the board. SDL functions must only be called from the main thread and so
// completed frames are handed over and drawn by the Service() function, which
// the main thread calls in a loop.
package sdlwindow
