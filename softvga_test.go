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

package main

import (
	"strings"
	"testing"

	"github.com/softvga/softvga/hardware/priority"
	"github.com/softvga/softvga/hardware/vga"
	"github.com/softvga/softvga/modalflag"
	"github.com/softvga/softvga/test"
)

func modes(args ...string) *modalflag.Modes {
	md := &modalflag.Modes{Output: &test.CompareWriter{}}
	md.NewArgs(args)
	return md
}

func TestDigestMode(t *testing.T) {
	a := &test.CompareWriter{}
	test.DemandSuccess(t, digestMode(modes("-pattern", "bars", "-frames", "2"), a))

	b := &test.CompareWriter{}
	test.DemandSuccess(t, digestMode(modes("-pattern", "BARS", "-frames", "2"), b))
	test.ExpectEquality(t, a.String(), b.String())
	test.ExpectEquality(t, len(strings.TrimSpace(a.String())), 40)

	c := &test.CompareWriter{}
	test.DemandSuccess(t, digestMode(modes("-pattern", "SOLID", "-frames", "2"), c))
	test.ExpectInequality(t, a.String(), c.String())

	test.ExpectFailure(t, digestMode(modes("-pattern", "nothing"), &test.CompareWriter{}))
	test.ExpectFailure(t, digestMode(modes("-frames", "0"), &test.CompareWriter{}))
}

func TestDumpMode(t *testing.T) {
	w := &test.CompareWriter{}
	test.DemandSuccess(t, dump(modes("-pattern", "CHECKER"), w))
	test.ExpectSuccess(t, strings.HasPrefix(w.String(), "digraph"))
	test.ExpectSuccess(t, strings.Contains(w.String(), "checker"))
}

func TestVersionMode(t *testing.T) {
	w := &test.CompareWriter{}
	test.DemandSuccess(t, showVersion(modes(), w))
	test.ExpectSuccess(t, strings.HasPrefix(w.String(), "softvga "))
}

func TestDumpMap(t *testing.T) {
	w := &test.CompareWriter{}
	test.DemandSuccess(t, dump(modes("-map"), w))
	test.ExpectSuccess(t, strings.Contains(w.String(), "SRAM112"))
}

// failing is a pattern with a raster function that panics
type failing struct{}

func (failing) String() string {
	return "failing"
}

func (failing) Raster(line int, _ []byte, _ *vga.RasterCtx, _ priority.I0) {
	if line == 10 {
		panic("raster failure")
	}
}

func (failing) Frame(_ *vga.Live, _ int) {
}

func TestRasterFailure(t *testing.T) {
	sys, err := newSystem("BARS")
	test.DemandSuccess(t, err)
	sys.pattern = failing{}

	err = sys.run(func(frame int) bool {
		return frame < 3
	})
	test.DemandFailure(t, err)
	test.ExpectSuccess(t, strings.Contains(err.Error(), "raster failure"))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "observer panicked during loan"))
	test.ExpectSuccess(t, sys.end())
}
