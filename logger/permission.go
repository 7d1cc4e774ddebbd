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

package logger

// Permission is consulted by Log() and Logf() before an entry is made.
type Permission interface {
	AllowLogging() bool
}

type permission bool

func (p permission) AllowLogging() bool {
	return bool(p)
}

// Allow is the permission for code that always logs.
var Allow Permission = permission(true)

// Deny is the permission for code that must not log. Entries are not made
// and the log's mutex is never taken.
var Deny Permission = permission(false)
