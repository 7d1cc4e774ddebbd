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

package memorymap

import (
	"fmt"
	"strings"
)

// Summary returns a single multiline string detailing all the areas in memory.
// Useful for reference.
func Summary() string {
	s := strings.Builder{}
	for _, a := range Areas {
		var flags []string
		if a.RAM() {
			flags = append(flags, "ram")
		}
		if a.DMA() {
			flags = append(flags, "dma")
		}
		if IsBitBanded(a.Origin()) {
			flags = append(flags, "bitbanded")
		}
		s.WriteString(fmt.Sprintf("%08x -> %08x\t%s", a.Origin(), a.Memtop(), a.String()))
		if len(flags) > 0 {
			s.WriteString(fmt.Sprintf("\t%s", strings.Join(flags, " ")))
		}
		s.WriteString("\n")
	}
	return s.String()
}
