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

// Package snapshot is an implementation of the monitor.PixelRenderer
// interface that keeps the most recent complete frame and saves it to disk as
// a PNG file on request. The saved image can be scaled.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/softvga/softvga/curated"
	"github.com/softvga/softvga/monitor"
)

// FileExists is returned by Save() if the file already exists.
const FileExists = "snapshot: image file (%s) already exists"

// Snapshot keeps a copy of the most recent frame.
type Snapshot struct {
	*monitor.Monitor

	// the image we write to until EndFrame() is called
	currFrameData *image.RGBA
	currFrameNum  int

	// this is the image we'll be saving when Save() is called
	lastFrameData *image.RGBA
	lastFrameNum  int

	scale int
}

// NewSnapshot initialises a new instance of Snapshot and registers it with
// the monitor. The scale value is applied to both axes of the saved image.
func NewSnapshot(mon *monitor.Monitor, width int, height int, scale int) (*Snapshot, error) {
	if width <= 0 || height <= 0 {
		return nil, curated.Errorf("snapshot: bad frame size %dx%d", width, height)
	}
	if scale < 1 {
		return nil, curated.Errorf("snapshot: bad scale %d", scale)
	}

	snp := &Snapshot{
		Monitor:       mon,
		currFrameData: image.NewRGBA(image.Rect(0, 0, width, height)),
		currFrameNum:  -1,
		lastFrameNum:  -1,
		scale:         scale,
	}
	mon.AddPixelRenderer(snp)

	return snp, nil
}

// Frame returns the number of the frame that Save() will write. The value is
// -1 if no frame has been completed.
func (snp *Snapshot) Frame() int {
	return snp.lastFrameNum
}

// Image returns the most recent complete frame scaled as it will be saved.
func (snp *Snapshot) Image() (*image.RGBA, error) {
	if snp.lastFrameData == nil {
		return nil, curated.Errorf("snapshot: no frame to save")
	}
	if snp.scale == 1 {
		return snp.lastFrameData, nil
	}
	src := snp.lastFrameData
	dst := image.NewRGBA(image.Rect(0, 0, src.Rect.Dx()*snp.scale, src.Rect.Dy()*snp.scale))
	draw.NearestNeighbor.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	return dst, nil
}

// Write the most recent complete frame as PNG data.
func (snp *Snapshot) Write(w io.Writer) error {
	img, err := snp.Image()
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return curated.Errorf("snapshot: %v", err)
	}
	return nil
}

// Save the most recent complete frame. The frame number and the file
// extension are appended to the filename base. The filename that was used is
// returned. An existing file will not be overwritten.
func (snp *Snapshot) Save(fileNameBase string) (string, error) {
	if snp.lastFrameData == nil {
		return "", curated.Errorf("snapshot: no frame to save")
	}

	imageName := fmt.Sprintf("%s_%d.png", fileNameBase, snp.lastFrameNum)

	f, err := os.OpenFile(imageName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", curated.Errorf(FileExists, imageName)
		}
		return "", curated.Errorf("snapshot: %v", err)
	}

	err = snp.Write(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = curated.Errorf("snapshot: %v", cerr)
	}
	if err != nil {
		return "", err
	}

	return imageName, nil
}

// NewFrame implements monitor.PixelRenderer interface.
func (snp *Snapshot) NewFrame(frameNum int) error {
	snp.currFrameNum = frameNum
	return nil
}

// SetLine implements monitor.PixelRenderer interface.
func (snp *Snapshot) SetLine(y int, rgba []byte) error {
	if y < 0 || y >= snp.currFrameData.Rect.Dy() {
		return curated.Errorf("snapshot: line %d is outside the frame", y)
	}
	copy(snp.currFrameData.Pix[y*snp.currFrameData.Stride:(y+1)*snp.currFrameData.Stride], rgba)
	return nil
}

// EndFrame implements monitor.PixelRenderer interface.
func (snp *Snapshot) EndFrame() error {
	if snp.lastFrameData == nil {
		snp.lastFrameData = image.NewRGBA(snp.currFrameData.Rect)
	}
	snp.lastFrameData, snp.currFrameData = snp.currFrameData, snp.lastFrameData
	snp.lastFrameNum = snp.currFrameNum
	return nil
}

// EndRendering implements monitor.PixelRenderer interface.
func (snp *Snapshot) EndRendering() error {
	return nil
}
