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

package vga

// Stage of the driver's lifecycle.
type Stage int32

// List of valid Stage values.
const (
	// resources taken, no signal
	StageIdle Stage = iota

	// timing configured, sync signals running, no raster function
	StageSync

	// raster function registered and render loop running
	StageLive

	// handlers removed. the resources cannot be used again
	StageTornDown
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageSync:
		return "sync"
	case StageLive:
		return "live"
	case StageTornDown:
		return "torn down"
	}
	return "unknown"
}

// StageError is returned when an operation is attempted on a stage value that
// is no longer current.
const StageError = "vga: %s requires the %s stage but the driver is %s"
