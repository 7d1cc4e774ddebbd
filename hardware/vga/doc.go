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

// Package vga is a video driver that produces a VGA signal in software. A
// timer generates horizontal sync and a DMA stream copies one scanline of
// pixels at a time from RAM to an 8-bit output port. Pixels are RGB332.
//
// Three interrupt handlers keep the signal going:
//
//	shock absorber  (I2) fires just before active video and idles the CPU
//	                so that the next handler starts with a quiet bus
//	hstate          (I1) starts the DMA stream at the start of active video
//	                (SAV) and advances the vertical state machine at the end
//	                of active video (EAV)
//	raster          (I0) pended by hstate at EAV. copies the line prepared
//	                during the previous line into the scan buffer and calls
//	                the application's Raster function to prepare the next
//	                line
//
// The driver moves through a series of stages. Each stage has its own type
// and only the operations that make sense in the stage are available:
//
//	res := brd.TakeResources()
//	idle, _ := vga.Init(res)
//	sync, _ := idle.ConfigureTiming(timing.SVGA800x600)
//	sync.WithRaster(raster, func(live *vga.Live) {
//		live.VideoOn()
//		for {
//			live.SyncToVblank()
//			// update whatever the raster function reads
//		}
//	})
//
// An operation on a stage value that is no longer current fails with a
// StageError.
package vga
