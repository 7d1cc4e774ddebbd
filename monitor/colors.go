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

import "image/color"

// Pixels are RGB332: red in the top three bits, green in the middle three
// and blue in the bottom two.
type palette [256]color.RGBA

var rgb332 palette

func init() {
	for i := range rgb332 {
		r := (i >> 5) & 0x07
		g := (i >> 2) & 0x07
		b := i & 0x03
		rgb332[i] = color.RGBA{
			R: uint8(r * 255 / 7),
			G: uint8(g * 255 / 7),
			B: uint8(b * 255 / 3),
			A: 0xff,
		}
	}
}

// Color returns the RGBA value of an RGB332 pixel.
func Color(pixel uint8) color.RGBA {
	return rgb332[pixel]
}

// RGB332 returns the pixel closest to an RGBA value.
func RGB332(c color.RGBA) uint8 {
	r := (uint16(c.R)*7 + 127) / 255
	g := (uint16(c.G)*7 + 127) / 255
	b := (uint16(c.B)*3 + 127) / 255
	return uint8(r<<5 | g<<2 | b)
}
