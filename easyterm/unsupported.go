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

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package easyterm

import (
	"errors"
	"fmt"
	"os"
)

// Terminal is not supported on this platform.
type Terminal struct{}

// NewTerminal always returns an error on this platform.
func NewTerminal(_ *os.File, _ *os.File) (*Terminal, error) {
	return nil, errors.New("easyterm: not supported on this platform")
}

// CBreakMode does nothing on this platform.
func (pt *Terminal) CBreakMode() error {
	return nil
}

// Keys returns a nil channel on this platform.
func (pt *Terminal) Keys() <-chan rune {
	return nil
}

// Print writes the formatted string to stdout.
func (pt *Terminal) Print(s string, a ...any) {
	fmt.Printf(s, a...)
}

// CleanUp does nothing on this platform.
func (pt *Terminal) CleanUp() error {
	return nil
}
