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

package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/monitor"
)

// Video is an implementation of the monitor.PixelRenderer interface with an
// embedded monitor for convenience. It generates a SHA-1 value of the image
// every frame. It does not display the image anywhere.
//
// Note that the use of SHA-1 is fine for this application because this is
// not a cryptographic task.
type Video struct {
	*monitor.Monitor
	digest   [sha1.Size]byte
	pixels   []byte
	width    int
	frameNum int
}

// NewVideo initialises a new instance of Video and registers it with the
// monitor.
func NewVideo(mon *monitor.Monitor, width int, height int) (*Video, error) {
	if width <= 0 || height <= 0 {
		return nil, curated.Errorf("digest: bad frame size %dx%d", width, height)
	}

	dig := &Video{
		Monitor: mon,
		width:   width,
	}

	// length of pixels array contains enough room for the previous frames
	// digest value
	dig.pixels = make([]byte, len(dig.digest)+width*height*4)

	mon.AddPixelRenderer(dig)

	return dig, nil
}

// Hash implements digest.Digest interface.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements digest.Digest interface.
func (dig *Video) ResetDigest() {
	clear(dig.digest[:])
}

// Frames returns the number of the most recent frame.
func (dig *Video) Frames() int {
	return dig.frameNum
}

// NewFrame implements monitor.PixelRenderer interface.
func (dig *Video) NewFrame(frameNum int) error {
	dig.frameNum = frameNum
	return nil
}

// SetLine implements monitor.PixelRenderer interface.
func (dig *Video) SetLine(y int, rgba []byte) error {
	i := len(dig.digest) + y*dig.width*4
	if i < len(dig.digest) || i+len(rgba) > len(dig.pixels) {
		return curated.Errorf("digest: line %d is outside the frame", y)
	}
	copy(dig.pixels[i:], rgba)
	return nil
}

// EndFrame implements monitor.PixelRenderer interface.
func (dig *Video) EndFrame() error {
	// chain fingerprints by copying the value of the last fingerprint
	// to the head of the video data
	n := copy(dig.pixels, dig.digest[:])
	if n != len(dig.digest) {
		return curated.Errorf("digest: error during end of frame")
	}
	dig.digest = sha1.Sum(dig.pixels)
	return nil
}

// EndRendering implements monitor.PixelRenderer interface.
func (dig *Video) EndRendering() error {
	return nil
}
