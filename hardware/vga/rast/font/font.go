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

// Package font bakes tinyfont fonts into glyph ROMs for use with
// rast.UnpackText10pAttributed.
//
// A glyph ROM holds one byte per glyph per row. The byte for row r of
// character c is at index r*256+c, with the leftmost pixel in the most
// significant bit. Glyphs wider than eight pixels are clipped.
package font

import (
	"image/color"

	"github.com/softvga/softvga/curated"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Sentinal errors.
const (
	BadHeight = "font: glyph height %d is not supported"
	NoGlyphs  = "font: no glyphs were drawn"
)

// ROM is a baked font.
type ROM struct {
	// number of rows in each glyph
	Height int

	// glyph data indexed by row*256+char
	Data []byte
}

// Row returns the glyph data for one row of every character.
func (rom *ROM) Row(row int) []byte {
	return rom.Data[row*256 : row*256+256]
}

// cell is a drivers.Displayer that records the pixels drawn into one glyph of
// the ROM.
type cell struct {
	rom  *ROM
	char int
}

func (c *cell) Size() (x, y int16) {
	return 8, int16(c.rom.Height)
}

func (c *cell) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || x >= 8 || y < 0 || int(y) >= c.rom.Height || col.A == 0 {
		return
	}
	c.rom.Data[int(y)*256+c.char] |= 0x80 >> x
}

func (c *cell) Display() error {
	return nil
}

// the cell must be usable wherever tinyfont draws
var _ drivers.Displayer = (*cell)(nil)

// Bake draws every character from 0 to 255 into a new ROM of the given height.
// The baseline is placed so that the tallest printable ASCII glyph fits.
func Bake(f tinyfont.Fonter, height int) (*ROM, error) {
	if height < 1 || height > 32 {
		return nil, curated.Errorf(BadHeight, height)
	}

	rom := &ROM{
		Height: height,
		Data:   make([]byte, height*256),
	}

	var ascent int
	for r := rune(0x20); r < 0x7f; r++ {
		info := f.GetGlyph(r).Info()
		if a := -int(info.YOffset); a > ascent {
			ascent = a
		}
	}
	if ascent > height {
		ascent = height
	}

	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	c := &cell{rom: rom}
	for ch := 0; ch < 256; ch++ {
		c.char = ch
		tinyfont.DrawChar(c, f, 0, int16(ascent), rune(ch), white)
	}

	for _, b := range rom.Data {
		if b != 0 {
			return rom, nil
		}
	}
	return nil, curated.Errorf(NoGlyphs)
}
