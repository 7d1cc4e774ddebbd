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

package sdlwindow

import (
	"testing"

	"github.com/softvga/softvga/test"
)

func TestFrames(t *testing.T) {
	f := newFrames(4, 2)

	var calls int
	show := func(pixels []byte, pitch int) error {
		calls++
		test.ExpectEquality(t, pitch, 16)
		test.ExpectEquality(t, pixels[16], uint8(0xaa))
		return nil
	}

	// nothing to show before the first frame is complete
	test.ExpectSuccess(t, f.show(show))
	test.ExpectEquality(t, calls, 0)

	row := []byte{0xaa, 0, 0, 0xff, 0xaa, 0, 0, 0xff, 0xaa, 0, 0, 0xff, 0xaa, 0, 0, 0xff}
	test.ExpectSuccess(t, f.setLine(1, row))
	test.ExpectFailure(t, f.setLine(2, row))
	test.ExpectFailure(t, f.setLine(-1, row))
	f.swap()

	test.ExpectSuccess(t, f.show(show))
	test.ExpectEquality(t, calls, 1)

	// a frame is only shown once
	test.ExpectSuccess(t, f.show(show))
	test.ExpectEquality(t, calls, 1)
}
