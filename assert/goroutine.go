// This file is part of GopherPVR.
//
// GopherPVR is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPVR is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPVR.  If not, see <https://www.gnu.org/licenses/>.

// Package assert contains helpers for checking run time invariants that are
// too expensive to check in normal builds. Callers guard their use with the
// "assertions" build tag.
package assert

import (
	"bytes"
	"runtime"
	"strconv"
)

// GetGoRoutineID returns the ID of the goroutine calling the function. The
// value is parsed from the header of the stack trace and should only be used
// for debugging.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// SameGoRoutine panics if the calling goroutine is not the one identified by
// id. The msg is included in the panic.
func SameGoRoutine(id uint64, msg string) {
	if cur := GetGoRoutineID(); cur != id {
		panic("assert: " + msg + ": wrong goroutine (" + strconv.FormatUint(cur, 10) + " != " + strconv.FormatUint(id, 10) + ")")
	}
}
