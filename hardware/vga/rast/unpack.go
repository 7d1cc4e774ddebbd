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

package rast

import "fmt"

// Unpack1bpp expands a bitmap into pixels. Each bit of src selects the
// background (0) or foreground (1) colour from clut.
//
// The dst slice must be exactly 32 times as long as src.
func Unpack1bpp(src []uint32, clut [2]byte, dst []byte) {
	if len(dst) != len(src)*32 {
		panic(fmt.Sprintf("rast: 1bpp unpack of %d words needs %d pixels not %d", len(src), len(src)*32, len(dst)))
	}
	for w, bits := range src {
		out := dst[w*32 : w*32+32]
		for n := range out {
			out[n] = clut[(bits>>n)&1]
		}
	}
}

// Text cells are 8 glyph pixels followed by 2 background pixels.
const (
	GlyphCols = 8
	CellCols  = 10
)

// Cell packs a character and its colours into the word used by
// UnpackText10pAttributed.
func Cell(char byte, fg byte, bg byte) uint32 {
	return uint32(char) | uint32(fg)<<8 | uint32(bg)<<16
}

// UnpackText10pAttributed draws one row of glyphs for a line of text cells.
// Each word of src is a cell created by Cell(). The font is a glyph ROM,
// indexed by glyphRow*256 + char, holding one row of a glyph with the leftmost
// pixel in the most significant bit.
//
// The dst slice must be exactly 10 times as long as src.
func UnpackText10pAttributed(src []uint32, font []byte, glyphRow int, dst []byte) {
	if len(dst) != len(src)*CellCols {
		panic(fmt.Sprintf("rast: text unpack of %d cells needs %d pixels not %d", len(src), len(src)*CellCols, len(dst)))
	}
	glyphs := font[glyphRow*256 : glyphRow*256+256]
	for c, cell := range src {
		bits := glyphs[cell&0xff]
		fg := byte(cell >> 8)
		bg := byte(cell >> 16)
		out := dst[c*CellCols : c*CellCols+CellCols]
		for i := 0; i < GlyphCols; i++ {
			if bits&(0x80>>i) != 0 {
				out[i] = fg
			} else {
				out[i] = bg
			}
		}
		out[8] = bg
		out[9] = bg
	}
}
