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

import (
	"fmt"
	"unsafe"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/hardware/vga"
)

// ReinterpretError is returned by BytesAsWords() when the bytes cannot be
// viewed as words.
const ReinterpretError = "rast: cannot reinterpret %d bytes at %#x as words"

// CopyWords copies all of src to the start of dst. dst must be at least as
// long as src.
func CopyWords(dst []uint32, src []uint32) {
	if len(dst) < len(src) {
		panic(fmt.Sprintf("rast: copy of %d words into %d", len(src), len(dst)))
	}
	copy(dst, src)
}

// WordsAsBytes returns the memory of the words as bytes. Always possible.
func WordsAsBytes(w []uint32) []byte {
	if len(w) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&w[0])), len(w)*4)
}

// BytesAsWords returns the memory of the bytes as words. The number of bytes
// must be a multiple of four and the first byte must be word aligned.
func BytesAsWords(b []byte) ([]uint32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	p := unsafe.Pointer(&b[0])
	if len(b)%4 != 0 || uintptr(p)%4 != 0 {
		return nil, curated.Errorf(ReinterpretError, len(b), uintptr(p))
	}
	return unsafe.Slice((*uint32)(p), len(b)/4), nil
}

// SolidColor fills the whole line with one colour. Rather than writing every
// pixel it writes a single pixel and stretches it across the line by slowing
// the pixel clock.
func SolidColor(ctx *vga.RasterCtx, target []byte, colour byte) {
	target[0] = colour
	ctx.TargetRange = vga.Range{Start: 0, End: 1}
	ctx.CyclesPerPixel = timing.MaxPixelsPerLine * timing.BaseCyclesPerPixel
}
