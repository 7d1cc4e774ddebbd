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

package monitor

// PixelRenderer implementations display, or otherwise work with, the frames
// decoded by the monitor.
type PixelRenderer interface {
	// NewFrame is called before the first visible line of a frame.
	NewFrame(frameNum int) error

	// SetLine is called once for every visible line with the line as RGBA
	// values, four bytes per pixel. The slice must not be retained.
	SetLine(y int, rgba []byte) error

	// EndFrame is called after the last visible line of a frame.
	EndFrame() error

	// some renderers may need to conclude and/or dispose of resources
	// gently. for simplicity, the PixelRenderer should be considered
	// unusable after EndRendering() has been called
	EndRendering() error
}
