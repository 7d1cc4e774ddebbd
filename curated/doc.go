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

// Package curated is a helper package for the plain Go language error type.
// Curated errors are created with the Errorf() function, which takes a
// pattern and placeholder values just like fmt.Errorf().
//
// The pattern is kept with the error so that the Is() function can check
// which condition an error represents. Packages export their patterns as
// const strings and these act as sentinel values:
//
//	const AlreadyInitialized = "board: resources already taken"
//
//	if curated.Is(err, board.AlreadyInitialized) {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the chain of wrapped curated errors.
//
// The Error() function normalises the error chain by removing duplicate
// adjacent parts. For the purposes of this package a chain is composed of
// parts separated by the sub-string ": ". So wrapping an error as
// Errorf("vga: %v", err), where err already begins with "vga: ", does not
// produce "vga: vga: ..." in the final message.
//
// Note that the fatal conditions of the video driver (tearing, contention in
// interrupt context, misuse of the callback loan) are not errors. They are
// panics.
package curated
