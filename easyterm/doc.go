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

// Package easyterm is a wrapper for "github.com/pkg/term/termios". It puts the
// controlling terminal into cbreak mode so that single key presses can be used
// to control playback of a stream file.
//
// Keys are delivered on a channel by a reading goroutine. The terminal must be
// restored with CleanUp() before the program exits.
package easyterm
