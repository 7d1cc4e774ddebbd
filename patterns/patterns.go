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
	"sort"
	"strings"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/logger"
)

// UnknownPattern is returned by New() when the name is not recognised.
const UnknownPattern = "patterns: unknown pattern (%s)"

// Pattern is a raster function with its thread mode counterpart.
type Pattern interface {
	fmt.Stringer

	// Raster is called by the driver for every rendered line.
	Raster(line int, target []byte, ctx *vga.RasterCtx, tok priority.I0)

	// Frame is called by thread mode once per frame, at the start of the
	// vertical blanking interval.
	Frame(live *vga.Live, frame int)
}

// the list of patterns and how to create them. patterns that need memory the
// DMA can reach allocate it from the memory of the driver's board
var patterns = map[string]func(sync *vga.Sync) (Pattern, error){
	"BARS":     func(_ *vga.Sync) (Pattern, error) { return NewBars(), nil },
	"SOLID":    func(sync *vga.Sync) (Pattern, error) { return NewSolid(sync.Timing().VisibleLines()), nil },
	"CONSOLE":  func(sync *vga.Sync) (Pattern, error) { return NewConsole(sync.Timing().VisibleLines()) },
	"CHECKER":  func(sync *vga.Sync) (Pattern, error) { return NewChecker(sync.Memory(), sync.Timing().VisibleLines()) },
	"SCROLLER": func(sync *vga.Sync) (Pattern, error) { return NewScroller(sync.Memory(), 1) },
}

// Names returns the list of pattern names in alphabetical order.
func Names() []string {
	n := make([]string, 0, len(patterns))
	for k := range patterns {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

// New creates the named pattern for the configured driver. The name is not
// case sensitive.
func New(name string, sync *vga.Sync) (Pattern, error) {
	f, ok := patterns[strings.ToUpper(name)]
	if !ok {
		return nil, curated.Errorf(UnknownPattern, name)
	}
	return f(sync)
}

// Render returns the thread mode function for the pattern. It turns video on
// and calls the pattern's Frame() function at the start of every vertical
// blanking interval for as long as more returns true.
//
// A nil more function means the pattern runs forever.
func Render(p Pattern, more func(frame int) bool) vga.Render {
	return func(live *vga.Live) {
		live.VideoOn()
		for frame := 0; more == nil || more(frame); frame++ {
			live.SyncToVblank()
			p.Frame(live, frame)
		}
	}
}

// Run registers the pattern's raster function with the driver and runs the
// pattern's Render() function. It returns when more returns false.
func Run(sync *vga.Sync, p Pattern, more func(frame int) bool) error {
	logger.Logf(logger.Allow, "patterns", "running %s", p)
	return sync.WithRaster(p.Raster, Render(p, more))
}
