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

//go:build linux || darwin || freebsd || netbsd || openbsd

package easyterm

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal is the container for a posix terminal.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	keys chan rune

	crit sync.Mutex
	mode string
}

// NewTerminal is the preferred method of initialisation for the Terminal type.
// The current attributes of the input terminal are recorded and restored by
// CleanUp().
func NewTerminal(input *os.File, output *os.File) (*Terminal, error) {
	if input == nil {
		return nil, fmt.Errorf("easyterm: Terminal requires an input file")
	}
	if output == nil {
		return nil, fmt.Errorf("easyterm: Terminal requires an output file")
	}

	pt := &Terminal{
		input:  input,
		output: output,
		keys:   make(chan rune, 16),
		mode:   "canonical",
	}

	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return nil, fmt.Errorf("easyterm: %w", err)
	}
	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)

	return pt, nil
}

// CBreakMode puts terminal into cbreak mode and starts delivering key presses
// to the Keys() channel.
func (pt *Terminal) CBreakMode() error {
	pt.crit.Lock()
	defer pt.crit.Unlock()

	if pt.mode == "cbreak" {
		return nil
	}
	if err := termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.cbreakAttr); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	pt.mode = "cbreak"

	go pt.read()

	return nil
}

// the reading goroutine exits when the input file returns an error, which
// happens when the file is closed.
func (pt *Terminal) read() {
	b := make([]byte, 1)
	for {
		n, err := pt.input.Read(b)
		if err != nil {
			close(pt.keys)
			return
		}
		if n == 1 {
			select {
			case pt.keys <- rune(b[0]):
			default:
			}
		}
	}
}

// Keys returns the channel on which key presses are delivered in cbreak mode.
func (pt *Terminal) Keys() <-chan rune {
	return pt.keys
}

// Print writes the formatted string to the output file.
func (pt *Terminal) Print(s string, a ...any) {
	fmt.Fprintf(pt.output, s, a...)
}

// CleanUp restores the terminal to canonical mode.
func (pt *Terminal) CleanUp() error {
	pt.crit.Lock()
	defer pt.crit.Unlock()

	if pt.mode == "canonical" {
		return nil
	}
	if err := termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	pt.mode = "canonical"
	return termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH)
}
