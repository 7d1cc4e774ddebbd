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

package patterns

import (
	"fmt"

	"tinygo.org/x/tinyfont"

	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/spinlock"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/hardware/vga/rast"
	"github.com/softvga/softvga/hardware/vga/rast/font"
)

// ConsoleCols is the number of text columns in the console pattern.
const ConsoleCols = timing.MaxPixelsPerLine / rast.CellCols

// the height of a text row in lines
const consoleGlyphHeight = 8

// default colours of the console
const (
	consoleFG byte = 0x1c
	consoleBG byte = 0x00
)

// Console is a text mode pattern. Thread mode writes text into the cell
// buffer while the raster function is not running.
type Console struct {
	rom  *font.ROM
	rows int

	cells *spinlock.SpinLock[[]uint32]

	// the line of text that is written at the bottom of the screen and
	// scrolled up
	msg int
}

// NewConsole is the preferred method of initialisation for the Console type.
func NewConsole(visibleLines int) (*Console, error) {
	rom, err := font.Bake(&tinyfont.TomThumb, consoleGlyphHeight)
	if err != nil {
		return nil, err
	}

	rows := visibleLines / consoleGlyphHeight
	if visibleLines%consoleGlyphHeight != 0 {
		rows++
	}

	cells := make([]uint32, rows*ConsoleCols)
	for i := range cells {
		cells[i] = rast.Cell(' ', consoleFG, consoleBG)
	}

	con := &Console{
		rom:   rom,
		rows:  rows,
		cells: spinlock.New(cells),
	}
	return con, nil
}

func (con *Console) String() string {
	return "console"
}

// Rows returns the number of text rows.
func (con *Console) Rows() int {
	return con.rows
}

// Print writes the string at the row and column. Text that would be written
// past the end of the row is dropped. Must only be called from thread mode.
func (con *Console) Print(row int, col int, s string, fg byte, bg byte) {
	g := con.cells.Lock()
	defer g.Unlock()
	con.print(*g.Value(), row, col, s, fg, bg)
}

func (con *Console) print(cells []uint32, row int, col int, s string, fg byte, bg byte) {
	if row < 0 || row >= con.rows {
		return
	}
	for i := 0; i < len(s) && col+i < ConsoleCols; i++ {
		if col+i < 0 {
			continue
		}
		cells[row*ConsoleCols+col+i] = rast.Cell(s[i], fg, bg)
	}
}

// Text returns the characters of a row. Trailing spaces are included.
func (con *Console) Text(row int) string {
	g := con.cells.Lock()
	defer g.Unlock()
	cells := *g.Value()
	b := make([]byte, ConsoleCols)
	for i := range b {
		b[i] = byte(cells[row*ConsoleCols+i])
	}
	return string(b)
}

// scroll moves every row below the status row up by one and clears the
// bottom row.
func (con *Console) scroll(cells []uint32) {
	copy(cells[ConsoleCols:], cells[2*ConsoleCols:])
	bottom := cells[(con.rows-1)*ConsoleCols:]
	for i := range bottom {
		bottom[i] = rast.Cell(' ', consoleFG, consoleBG)
	}
}

// Raster implements the Pattern interface.
func (con *Console) Raster(line int, target []byte, ctx *vga.RasterCtx, _ priority.I0) {
	row := line / consoleGlyphHeight
	glyphRow := line % consoleGlyphHeight

	g := con.cells.MustLock("console cells")
	cells := (*g.Value())[row*ConsoleCols : (row+1)*ConsoleCols]
	rast.UnpackText10pAttributed(cells, con.rom.Data, glyphRow, target[:ConsoleCols*rast.CellCols])
	g.Unlock()

	ctx.TargetRange = vga.Range{Start: 0, End: ConsoleCols * rast.CellCols}
}

// Frame implements the Pattern interface. The top row shows the driver
// statistics. A new line of text is added to the bottom of the screen every
// few frames.
func (con *Console) Frame(live *vga.Live, frame int) {
	g := con.cells.Lock()
	defer g.Unlock()
	cells := *g.Value()

	st := live.Stats()
	status := fmt.Sprintf(" frame %-6d invocations %-9d repeated %-6d stale %-4d shocks %-9d",
		st.Frames, st.Invocations, st.Repeated, st.StaleSAV, st.Shocks)
	con.print(cells, 0, 0, fmt.Sprintf("%-*s", ConsoleCols, status), 0x00, 0xfc)

	if frame%4 == 0 && con.rows > 1 {
		con.scroll(cells)
		con.msg++
		con.print(cells, con.rows-1, 0, fmt.Sprintf("%05d  the quick brown fox jumps over the lazy dog 0123456789", con.msg), consoleFG, consoleBG)
	}
}
