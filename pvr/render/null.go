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

// Null is a backend that draws nothing. It records the number of draws that
// would have been made for the most recent context.
type Null struct {
	*TextureCache

	// the number of draws and sorted triangle runs in the most recent context
	Draws  int
	Sorted int

	// the number of contexts processed
	Processed int

	// Render() returns false if Skip is true
	Skip bool
}

// NewNull is the preferred method of initialisation for the Null type.
func NewNull() *Null {
	return &Null{
		TextureCache: NewTextureCache(),
	}
}

// Init implements the Renderer interface.
func (n *Null) Init() error {
	return nil
}

// Process implements the Renderer interface.
func (n *Null) Process(ctx *ta.Context) error {
	n.Processed++
	n.Draws = 0
	for _, p := range ctx.Rend.RenderPasses {
		n.Draws += len(p.OpDraws) + len(p.PtDraws) + len(p.TrDraws)
	}
	n.Sorted = len(ctx.Rend.SortedTriangles)
	return nil
}

// Render implements the Renderer interface.
func (n *Null) Render() (bool, error) {
	return !n.Skip, nil
}

// Term implements the Renderer interface.
func (n *Null) Term() {
	n.Clear()
}
