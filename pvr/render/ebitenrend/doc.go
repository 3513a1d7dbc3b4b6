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

// Package ebitenrend is a rendering backend and window using the ebiten game
// library. It is the fallback for systems where an OpenGL 3.2 context cannot be
// created.
//
// Ebiten has no depth buffer so polygons are drawn in the order of the render
// pass. Opaque and punch through polygons are drawn in submission order and
// translucent polygons in the sorted order. Modifier volumes are not drawn and
// user tile clipping only supports the "inside" mode.
//
// All drawing happens on the ebiten goroutine. The Window type calls the step
// function from its Update() function and the step function is expected to
// call the Process() and Render() functions of the backend.
package ebitenrend
