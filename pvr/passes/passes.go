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

// Package passes prepares the parsed output of a context for drawing. For
// every render pass the polygon strips of each list are turned into indexed
// draws, merging strips that share render state, and the translucent list is
// sorted if the pass requires it.
//
// Backends draw a pass in this order: OpDraws, PtDraws, the opaque modifier
// volumes, then either the sorted triangles of the pass or TrDraws, followed
// by the translucent modifier volumes.
package passes

import (
	"github.com/gopherpvr/gopherpvr/pvr/sorter"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// RestartIndex separates strips in a draw when primitive restart is used.
const RestartIndex = 0xffffffff

// Options for the Build() function.
type Options struct {
	// the ratio of the output resolution to the native resolution. texture
	// bleeding is corrected when the ratio is greater than one
	RenderScale float64

	// sort translucent polygons by strip rather than by triangle
	PerStripSort bool

	// strips in a draw are separated with RestartIndex rather than by
	// degenerate triangles
	PrimitiveRestart bool
}

// Build the draws for every render pass of a parsed context. Any previous
// content of r.Idx and r.SortedTriangles is discarded.
func Build(r *ta.Rend, opts Options) {
	r.Idx = r.Idx[:0]
	r.SortedTriangles = r.SortedTriangles[:0]

	for i := range r.RenderPasses {
		pass := &r.RenderPasses[i]

		op0, op1 := r.PassRange(i, func(p ta.RenderPass) int { return p.OpCount })
		pt0, pt1 := r.PassRange(i, func(p ta.RenderPass) int { return p.PtCount })
		tr0, tr1 := r.PassRange(i, func(p ta.RenderPass) int { return p.TrCount })

		if opts.RenderScale > 1 {
			fixTextureBleeding(r, r.GlobalParamOp[op0:op1])
			fixTextureBleeding(r, r.GlobalParamPt[pt0:pt1])
			fixTextureBleeding(r, r.GlobalParamTr[tr0:tr1])
		}

		pass.OpDraws = strips(r, r.GlobalParamOp, op0, op1, opts.PrimitiveRestart)
		pass.PtDraws = strips(r, r.GlobalParamPt, pt0, pt1, opts.PrimitiveRestart)
		pass.TrDraws = nil

		switch {
		case !pass.Autosort:
			pass.TrDraws = strips(r, r.GlobalParamTr, tr0, tr1, opts.PrimitiveRestart)
		case opts.PerStripSort:
			sorter.SortPolyParams(r, tr0, tr1)
			pass.TrDraws = strips(r, r.GlobalParamTr, tr0, tr1, opts.PrimitiveRestart)
		default:
			sorter.SortTriangles(r, tr0, tr1)
		}

		pass.SortedTrCount = len(r.SortedTriangles)
	}
}

// culling is enabled by bit 1 of the cull mode. bit 0 is the direction
const (
	cullEnable    = 1 << 28
	cullDirection = 1 << 27
)

// strips creates the draws for the PolyParams in the range first to last.
// adjacent PolyParams with equivalent render state are merged into a single
// draw
func strips(r *ta.Rend, list []ta.PolyParam, first int, last int, restart bool) []ta.Draw {
	var draws []ta.Draw
	var base *ta.PolyParam

	for i := first; i < last; i++ {
		pp := &list[i]
		if pp.Count < 3 {
			continue
		}

		flip := base != nil && base.ISP&cullEnable != 0 && (base.ISP^pp.ISP)&cullDirection != 0

		merge := base != nil && base.EquivalentIgnoreCullingDirection(pp)
		if merge && restart && flip {
			// the winding order is reset after a restart index so a strip
			// with the opposite cull direction can not be merged
			merge = false
		}

		if !merge {
			draws = append(draws, ta.Draw{
				Poly:  i,
				First: uint32(len(r.Idx)),
			})
			base = pp
		} else if restart {
			r.Idx = append(r.Idx, RestartIndex)
		} else {
			// join with a degenerate triangle. the first triangle of the new
			// strip must be at an even position in the draw to keep its
			// winding, or at an odd position if the cull direction differs
			prev := r.Idx[len(r.Idx)-1]
			r.Idx = append(r.Idx, prev, pp.First)
			pos := uint32(len(r.Idx)) - draws[len(draws)-1].First
			if (pos%2 == 1) != flip {
				r.Idx = append(r.Idx, pp.First)
			}
		}

		for v := pp.First; v < pp.First+pp.Count; v++ {
			r.Idx = append(r.Idx, v)
		}

		d := &draws[len(draws)-1]
		d.Count = uint32(len(r.Idx)) - d.First
	}

	return draws
}

// fixTextureBleeding moves the texture coordinates at the edges of a textured
// strip inwards by half a texel. only strips at constant depth are affected,
// which are usually 2D elements drawn from a texture atlas. when rendered at a
// higher resolution the neighbouring texels in the atlas would otherwise be
// visible at the edges.
func fixTextureBleeding(r *ta.Rend, list []ta.PolyParam) {
	for i := range list {
		pp := &list[i]
		if !pp.PCW.Texture() || pp.Count < 3 {
			continue
		}

		verts := r.Verts[pp.First : pp.First+pp.Count]

		flat := true
		umin, umax := verts[0].U, verts[0].U
		vmin, vmax := verts[0].V, verts[0].V
		for _, v := range verts[1:] {
			if v.Z != verts[0].Z {
				flat = false
				break // for loop
			}
			umin, umax = min(umin, v.U), max(umax, v.U)
			vmin, vmax = min(vmin, v.V), max(vmax, v.V)
		}
		if !flat {
			continue
		}

		du := 0.5 / float32(pp.TSP.Width())
		dv := 0.5 / float32(pp.TSP.Height())
		if umax-umin <= 2*du || vmax-vmin <= 2*dv {
			continue
		}

		for j := range verts {
			v := &verts[j]
			switch v.U {
			case umin:
				v.U += du
			case umax:
				v.U -= du
			}
			switch v.V {
			case vmin:
				v.V += dv
			case vmax:
				v.V -= dv
			}
		}
	}
}
