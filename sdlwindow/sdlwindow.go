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
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/logger"
	"github.com/softvga/softvga/monitor"
)

// Key is a key press reported by Service().
type Key rune

// Window is a window showing the output of the monitor.
//
// MUST ONLY be created, serviced and destroyed from the #mainthread.
type Window struct {
	width  int32
	height int32

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	frames *frames

	// number of frames shown
	shown int
}

// NewWindow is the preferred method of initialisation for the Window type.
// The window is registered as a renderer with the monitor.
//
// MUST ONLY be called from the #mainthread.
func NewWindow(mon *monitor.Monitor, width int, height int, scale float32) (*Window, error) {
	if width <= 0 || height <= 0 {
		return nil, curated.Errorf("sdlwindow: bad frame size %dx%d", width, height)
	}
	if scale <= 0 {
		return nil, curated.Errorf("sdlwindow: bad scale %v", scale)
	}

	wnd := &Window{
		width:  int32(width),
		height: int32(height),
		frames: newFrames(width, height),
	}

	err := sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return nil, curated.Errorf("sdlwindow: %v", err)
	}

	wnd.window, err = sdl.CreateWindow("softvga",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(float32(width)*scale), int32(float32(height)*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, curated.Errorf("sdlwindow: %v", err)
	}

	wnd.renderer, err = sdl.CreateRenderer(wnd.window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, curated.Errorf("sdlwindow: %v", err)
	}

	// everything applied to the renderer will be scaled
	err = wnd.renderer.SetScale(scale, scale)
	if err != nil {
		return nil, curated.Errorf("sdlwindow: %v", err)
	}

	// the monitor produces RGBA bytes in memory order, which is ABGR8888 as
	// SDL understands it on little-endian machines
	wnd.texture, err = wnd.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, wnd.width, wnd.height)
	if err != nil {
		return nil, curated.Errorf("sdlwindow: %v", err)
	}

	logger.Logf(logger.Allow, "sdlwindow", "window opened (%dx%d scale %.1f)", width, height, scale)

	mon.AddPixelRenderer(wnd)

	return wnd, nil
}

func (wnd *Window) String() string {
	return fmt.Sprintf("sdlwindow %dx%d (%d frames shown)", wnd.width, wnd.height, wnd.shown)
}

// Destroy the window and quit SDL.
//
// MUST ONLY be called from the #mainthread.
func (wnd *Window) Destroy() {
	if wnd.texture != nil {
		wnd.texture.Destroy()
	}
	if wnd.renderer != nil {
		wnd.renderer.Destroy()
	}
	if wnd.window != nil {
		wnd.window.Destroy()
	}
	sdl.Quit()
	logger.Log(logger.Allow, "sdlwindow", "window closed")
}

// Service processes window events and draws the most recent frame if it has
// not been drawn already. It returns the keys pressed since the previous call
// and whether the window has been closed.
//
// MUST ONLY be called from the #mainthread.
func (wnd *Window) Service() ([]Key, bool, error) {
	var keys []Key
	var quit bool

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		// close window
		case *sdl.QuitEvent:
			quit = true

		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN {
				switch ev.Keysym.Sym {
				case sdl.K_ESCAPE:
					quit = true
				default:
					if ev.Keysym.Sym < 0x80 {
						keys = append(keys, Key(ev.Keysym.Sym))
					}
				}
			}
		}
	}

	err := wnd.frames.show(func(pixels []byte, pitch int) error {
		err := wnd.texture.Update(nil, pixels, pitch)
		if err != nil {
			return err
		}
		err = wnd.renderer.Copy(wnd.texture, nil, nil)
		if err != nil {
			return err
		}
		wnd.renderer.Present()
		wnd.shown++
		return nil
	})
	if err != nil {
		return keys, quit, curated.Errorf("sdlwindow: %v", err)
	}

	return keys, quit, nil
}

// NewFrame implements monitor.PixelRenderer interface.
func (wnd *Window) NewFrame(_ int) error {
	return nil
}

// SetLine implements monitor.PixelRenderer interface.
func (wnd *Window) SetLine(y int, rgba []byte) error {
	if !wnd.frames.setLine(y, rgba) {
		return curated.Errorf("sdlwindow: line %d is outside the frame", y)
	}
	return nil
}

// EndFrame implements monitor.PixelRenderer interface.
func (wnd *Window) EndFrame() error {
	wnd.frames.swap()
	return nil
}

// EndRendering implements monitor.PixelRenderer interface.
func (wnd *Window) EndRendering() error {
	return nil
}
