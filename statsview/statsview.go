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

//go:build statsview

package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/softvga/softvga/logger"
)

// path of the charts page on the server
const chartsPath = "/debug/statsview"

// Launch starts the stats server in the background and writes the address of
// the charts page to output. The server runs until the program exits.
func Launch(output io.Writer) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	srv := statsview.New()
	go srv.Start()

	page := fmt.Sprintf("http://%s%s", Address, chartsPath)
	logger.Logf(logger.Allow, "statsview", "charts at %s", page)
	fmt.Fprintf(output, "runtime statistics: %s\n", page)
}

// Available is true when built with the statsview tag.
func Available() bool {
	return true
}
