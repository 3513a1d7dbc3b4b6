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

// Package sorter orders translucent polygons by depth so that they are drawn
// back to front. Depth values are 1/w so a smaller value is further away.
// Primitives at equal depth are kept in the order they were submitted.
package sorter

import (
	"sort"

	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// depth of a strip is the depth of its most distant vertex.
func stripDepth(verts []ta.Vertex) float32 {
	z := verts[0].Z
	for _, v := range verts[1:] {
		z = min(z, v.Z)
	}
	return z
}

// SortPolyParams sorts the translucent PolyParams in the range first to last by
// depth. The ZvZ field of each PolyParam is set to the depth used for sorting.
func SortPolyParams(r *ta.Rend, first int, last int) {
	list := r.GlobalParamTr[first:last]
	for i := range list {
		pp := &list[i]
		if pp.Count == 0 {
			pp.ZvZ = 0
			continue
		}
		pp.ZvZ = stripDepth(r.Verts[pp.First : pp.First+pp.Count])
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ZvZ < list[j].ZvZ
	})
}

type triangle struct {
	poly    int
	a, b, c uint32
	z       float32
}

// triangles of a strip. every other triangle of a strip has its winding
// reversed, which is corrected so that all triangles have the same winding as
// the first. degenerate triangles are dropped
func appendTriangles(tris []triangle, r *ta.Rend, poly int) []triangle {
	pp := &r.GlobalParamTr[poly]
	for k := uint32(0); k+2 < pp.Count; k++ {
		a, b, c := pp.First+k, pp.First+k+1, pp.First+k+2
		if k&1 == 1 {
			a, b = b, a
		}
		va, vb, vc := &r.Verts[a], &r.Verts[b], &r.Verts[c]
		if degenerate(va, vb, vc) {
			continue
		}
		tris = append(tris, triangle{
			poly: poly,
			a:    a, b: b, c: c,
			z: min(va.Z, vb.Z, vc.Z),
		})
	}
	return tris
}

func degenerate(a, b, c *ta.Vertex) bool {
	return (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) == 0
}

// SortTriangles splits the translucent strips in the range first to last into
// triangles and sorts them by depth. The indices of the sorted triangles are
// appended to r.Idx and a SortedTriangle is appended to r.SortedTriangles for
// every run of triangles that share a PolyParam.
func SortTriangles(r *ta.Rend, first int, last int) {
	var tris []triangle
	for i := first; i < last; i++ {
		tris = appendTriangles(tris, r, i)
	}

	sort.SliceStable(tris, func(i, j int) bool {
		return tris[i].z < tris[j].z
	})

	run := -1
	for _, t := range tris {
		if run < 0 || r.SortedTriangles[run].Poly != t.poly {
			r.SortedTriangles = append(r.SortedTriangles, ta.SortedTriangle{
				Poly:  t.poly,
				First: uint32(len(r.Idx)),
			})
			run = len(r.SortedTriangles) - 1
		}
		r.Idx = append(r.Idx, t.a, t.b, t.c)
		r.SortedTriangles[run].Count += 3
	}
}
