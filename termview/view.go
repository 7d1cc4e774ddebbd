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

package termview

import (
	"bytes"
	"fmt"
	"io"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/monitor"
)

// the upper half block character
const halfBlock = "▀"

// View is an implementation of the monitor.PixelRenderer interface that draws
// a scaled down copy of every nth frame.
type View struct {
	output io.Writer

	width  int
	height int

	// size of the preview in character cells
	cols int
	rows int

	pixels []byte

	every    int
	frameNum int
	drawn    int

	buf bytes.Buffer
}

// NewView is the preferred method of initialisation for the View type. The
// view is registered as a renderer with the monitor. The size of the preview
// in character cells cannot be bigger than the frame.
func NewView(mon *monitor.Monitor, output io.Writer, width int, height int, cols int, rows int) (*View, error) {
	if width <= 0 || height <= 0 {
		return nil, curated.Errorf("termview: bad frame size %dx%d", width, height)
	}
	if cols <= 0 || rows <= 0 || cols > width || rows*2 > height {
		return nil, curated.Errorf("termview: bad preview size %dx%d", cols, rows)
	}

	vw := &View{
		output: output,
		width:  width,
		height: height,
		cols:   cols,
		rows:   rows,
		pixels: make([]byte, width*height*4),
		every:  1,
	}

	if mon != nil {
		mon.AddPixelRenderer(vw)
	}

	return vw, nil
}

// SetEvery sets how often a frame is drawn. A value of 1 draws every frame.
func (vw *View) SetEvery(every int) {
	if every < 1 {
		every = 1
	}
	vw.every = every
}

// Drawn returns the number of frames that have been drawn.
func (vw *View) Drawn() int {
	return vw.drawn
}

// sample returns the colour of the pixel in the middle of the area covered by
// half a character cell.
func (vw *View) sample(col int, halfRow int) (uint8, uint8, uint8) {
	x := (col*vw.width + vw.width/2) / vw.cols
	y := (halfRow*vw.height + vw.height/2) / (vw.rows * 2)
	i := (y*vw.width + x) * 4
	return vw.pixels[i], vw.pixels[i+1], vw.pixels[i+2]
}

// draw the preview. colour changes are only written when the colour differs
// from the previous cell.
func (vw *View) draw() error {
	vw.buf.Reset()

	// cursor home
	vw.buf.WriteString("\x1b[H")

	for row := 0; row < vw.rows; row++ {
		var fg, bg [3]uint8
		first := true
		for col := 0; col < vw.cols; col++ {
			r, g, b := vw.sample(col, row*2)
			if first || fg != [3]uint8{r, g, b} {
				fg = [3]uint8{r, g, b}
				fmt.Fprintf(&vw.buf, "\x1b[38;2;%d;%d;%dm", r, g, b)
			}
			r, g, b = vw.sample(col, row*2+1)
			if first || bg != [3]uint8{r, g, b} {
				bg = [3]uint8{r, g, b}
				fmt.Fprintf(&vw.buf, "\x1b[48;2;%d;%d;%dm", r, g, b)
			}
			first = false
			vw.buf.WriteString(halfBlock)
		}
		vw.buf.WriteString("\x1b[0m\r\n")
	}

	_, err := vw.output.Write(vw.buf.Bytes())
	if err != nil {
		return curated.Errorf("termview: %v", err)
	}
	vw.drawn++
	return nil
}

// NewFrame implements monitor.PixelRenderer interface.
func (vw *View) NewFrame(frameNum int) error {
	vw.frameNum = frameNum
	return nil
}

// SetLine implements monitor.PixelRenderer interface.
func (vw *View) SetLine(y int, rgba []byte) error {
	i := y * vw.width * 4
	if y < 0 || i+len(rgba) > len(vw.pixels) {
		return curated.Errorf("termview: line %d is outside the frame", y)
	}
	copy(vw.pixels[i:], rgba)
	return nil
}

// EndFrame implements monitor.PixelRenderer interface.
func (vw *View) EndFrame() error {
	if vw.frameNum%vw.every != 0 {
		return nil
	}
	return vw.draw()
}

// EndRendering implements monitor.PixelRenderer interface.
func (vw *View) EndRendering() error {
	_, err := io.WriteString(vw.output, "\x1b[0m")
	if err != nil {
		return curated.Errorf("termview: %v", err)
	}
	return nil
}
