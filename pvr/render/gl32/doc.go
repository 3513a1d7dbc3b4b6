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

// Package gl32 is the OpenGL 3.2 core rendering backend. It is the preferred
// backend and the only one to support the full set of depth compare modes
// with a real depth buffer.
//
// The backend draws into an offscreen framebuffer object. The Present()
// function copies the framebuffer to the window, which is the responsibility
// of the caller to create. The gui/sdlwindow package provides a suitable SDL
// window and OpenGL context.
//
// All functions must be called from the goroutine that owns the OpenGL
// context.
//
// Modifier volumes are not drawn.
package gl32
