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

package render

import (
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// Native resolution of the PowerVR frame.
const (
	NativeWidth  = 640
	NativeHeight = 480
)

// NoBackend is returned by SelectBackend() when no candidate can be
// initialised.
const NoBackend = "render: no backend: %v"

// Renderer is implemented by the rendering backends.
type Renderer interface {
	// Init acquires the resources of the backend. An error indicates that the
	// backend can not be used and another backend should be tried
	Init() error

	// Process prepares the backend for drawing the context. The context has
	// been parsed and the render passes built
	Process(ctx *ta.Context) error

	// Render draws the most recently processed context. Returns false if no
	// frame was produced
	Render() (bool, error)

	// GetTexture is called by the parser for textured polygons and sprites
	GetTexture(tsp ta.TSP, tcw ta.TCW) ta.Texture

	// Term releases the resources of the backend
	Term()
}

// Frame is implemented by backends that produce an image in memory. The
// image is valid until the next call to Render().
type Frame interface {
	Frame() []byte
	FrameSize() (int, int)
}
