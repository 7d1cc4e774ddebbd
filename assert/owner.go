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

package assert

import (
	"fmt"
	"sync/atomic"
)

// Owner records the goroutine that claims a context. Once claimed, CheckOwner
// panics if it is called from any other goroutine.
//
// The zero value is unclaimed.
type Owner struct {
	id atomic.Uint64
}

// Claim sets the calling goroutine as the owner.
func (o *Owner) Claim() {
	o.id.Store(GetGoRoutineID())
}

// Release forgets the owner.
func (o *Owner) Release() {
	o.id.Store(0)
}

// CheckOwner panics if the owner has been claimed and the caller is not the
// owner. The name is used in the panic message.
func (o *Owner) CheckOwner(name string) {
	id := o.id.Load()
	if id == 0 {
		return
	}
	if g := GetGoRoutineID(); g != id {
		panic(fmt.Sprintf("assert: %s context used from goroutine %d (owned by %d)", name, g, id))
	}
}
