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

import (
	"fmt"
	"image"
	"sync"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/hardware/timing"
	"github.com/softvga/softvga/logger"
	"github.com/softvga/softvga/monitor/limiter"
)

// StateReq is used to identify which monitor attribute is being asked for
// with the GetState() function.
type StateReq int

// List of valid state requests.
const (
	ReqFramenum StateReq = iota
	ReqScanline
	ReqSynced
)

// Monitor decodes the video signal into frames.
type Monitor struct {
	timing timing.Timing

	renderers []PixelRenderer
	lmtr      *limiter.Limiter

	// the line counter is synchronised to the vsync leading edge and is
	// numbered in the same way as the driver numbers lines
	synced   bool
	line     int
	frameNum int
	inFrame  bool

	// value of the pixel port at the end of the previous line
	latch uint8

	// the visible line being decoded, as RGB332 and then RGBA
	row  []uint8
	rgba []byte

	// most recent complete frame
	crit  sync.Mutex
	image *image.RGBA
	last  *image.RGBA

	// first error returned by a renderer. renderers are not called once
	// an error has occurred
	err error
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
func NewMonitor(t timing.Timing) (*Monitor, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	mon := &Monitor{
		timing: t,
		row:    make([]uint8, t.VideoPixels),
		rgba:   make([]byte, t.VideoPixels*4),
		image:  image.NewRGBA(image.Rect(0, 0, t.VideoPixels, t.VisibleLines())),
		last:   image.NewRGBA(image.Rect(0, 0, t.VideoPixels, t.VisibleLines())),
	}
	return mon, nil
}

func (mon *Monitor) String() string {
	return fmt.Sprintf("monitor %dx%d frame=%d line=%d", mon.timing.VideoPixels, mon.timing.VisibleLines(), mon.frameNum, mon.line)
}

// AddPixelRenderer registers an (additional) implementation of PixelRenderer.
func (mon *Monitor) AddPixelRenderer(r PixelRenderer) {
	mon.renderers = append(mon.renderers, r)
}

// SetLimiter paces the monitor with the limiter. The limiter is waited on at
// the end of every frame. A nil limiter means no pacing.
func (mon *Monitor) SetLimiter(lmtr *limiter.Limiter) {
	mon.lmtr = lmtr
}

// Err returns the first error returned by a renderer.
func (mon *Monitor) Err() error {
	return mon.err
}

// GetState returns the value of the requested state.
func (mon *Monitor) GetState(req StateReq) int {
	switch req {
	case ReqFramenum:
		return mon.frameNum
	case ReqScanline:
		return mon.line
	case ReqSynced:
		if mon.synced {
			return 1
		}
	}
	return 0
}

// End calls EndRendering() on every renderer.
func (mon *Monitor) End() error {
	var err error
	for _, r := range mon.renderers {
		if e := r.EndRendering(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// LastFrame returns a copy of the most recently completed frame.
func (mon *Monitor) LastFrame() *image.RGBA {
	mon.crit.Lock()
	defer mon.crit.Unlock()
	img := image.NewRGBA(mon.last.Rect)
	copy(img.Pix, mon.last.Pix)
	return img
}

// HSync implements the board.Sink interface.
func (mon *Monitor) HSync(level bool) {
	if level != mon.timing.HSyncPolarity.Active() {
		if mon.synced {
			logger.Log(logger.Allow, "monitor", "horizontal sync lost")
		}
		mon.synced = false
		return
	}
	mon.line++
}

// VSync implements the board.Sink interface.
func (mon *Monitor) VSync(level bool) {
	if level != mon.timing.VSyncPolarity.Active() {
		return
	}
	if !mon.synced {
		logger.Log(logger.Allow, "monitor", "vertical sync acquired")
	}
	mon.synced = true

	// the HSync for the first line of vsync is still to come
	mon.line = mon.timing.VSyncStartLine - 1
	mon.inFrame = false
}

// Line implements the board.Sink interface.
func (mon *Monitor) Line(pixels []byte, start int, cyclesPerPixel int) {
	if cyclesPerPixel <= 0 || cyclesPerPixel%timing.BaseCyclesPerPixel != 0 {
		panic(fmt.Sprintf("monitor: unsupported cycles per pixel (%d)", cyclesPerPixel))
	}

	latch := mon.latch
	if len(pixels) > 0 {
		mon.latch = pixels[len(pixels)-1]
	}

	if !mon.synced {
		return
	}

	y := mon.line - mon.timing.VideoStartLine
	if y < 0 || y >= mon.timing.VisibleLines() {
		return
	}

	// secondary unpacking. every pixel becomes stretch pixels of the base
	// clock. the port holds its previous value until the first pixel and
	// its last value after the last pixel
	stretch := cyclesPerPixel / timing.BaseCyclesPerPixel
	x := (start - (mon.timing.SyncPixels+mon.timing.BackPorchPixels)*timing.BaseCyclesPerPixel) / timing.BaseCyclesPerPixel
	for i := 0; i < x && i < len(mon.row); i++ {
		mon.row[i] = latch
	}
	for _, p := range pixels {
		for k := 0; k < stretch; k++ {
			if x >= 0 && x < len(mon.row) {
				mon.row[x] = p
			}
			x++
		}
		if x >= len(mon.row) {
			break
		}
	}
	if x < 0 {
		x = 0
	}
	for ; x < len(mon.row); x++ {
		mon.row[x] = mon.latch
	}

	for i, p := range mon.row {
		c := rgb332[p]
		mon.rgba[i*4] = c.R
		mon.rgba[i*4+1] = c.G
		mon.rgba[i*4+2] = c.B
		mon.rgba[i*4+3] = c.A
	}
	copy(mon.image.Pix[y*mon.image.Stride:], mon.rgba)

	if y == 0 {
		mon.inFrame = true
		mon.render(func(r PixelRenderer) error { return r.NewFrame(mon.frameNum) })
	}

	// a frame that was joined part way through is not rendered
	if !mon.inFrame {
		return
	}

	mon.render(func(r PixelRenderer) error { return r.SetLine(y, mon.rgba) })

	if y == mon.timing.VisibleLines()-1 {
		mon.crit.Lock()
		mon.image, mon.last = mon.last, mon.image
		mon.crit.Unlock()

		mon.render(func(r PixelRenderer) error { return r.EndFrame() })
		mon.frameNum++
		mon.inFrame = false

		if mon.lmtr != nil {
			mon.lmtr.Wait()
		}
	}
}

func (mon *Monitor) render(f func(r PixelRenderer) error) {
	if mon.err != nil {
		return
	}
	for _, r := range mon.renderers {
		if err := f(r); err != nil {
			mon.err = curated.Errorf("monitor: %v", err)
			logger.Log(logger.Allow, "monitor", mon.err.Error())
			return
		}
	}
}
