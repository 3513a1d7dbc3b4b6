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

package passes_test

import (
	"testing"

	"github.com/gopherpvr/gopherpvr/pvr/passes"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/test"
)

// builds a Rend with a single render pass
type rendBuilder struct {
	r ta.Rend
}

func newRendBuilder() *rendBuilder {
	b := &rendBuilder{}
	b.r.Verts = append(b.r.Verts, ta.Vertex{})
	return b
}

func (b *rendBuilder) strip(list ta.ListType, pp ta.PolyParam, z ...float32) {
	pp.First = uint32(len(b.r.Verts))
	pp.Count = uint32(len(z))
	for i, z := range z {
		b.r.Verts = append(b.r.Verts, ta.Vertex{
			X: float32(i/2) * 10,
			Y: float32(i%2) * 10,
			Z: z,
			U: float32(i / 2),
			V: float32(i % 2),
		})
	}
	l := b.r.PolyList(list)
	*l = append(*l, pp)
}

func (b *rendBuilder) pass(autosort bool) {
	b.r.RenderPasses = append(b.r.RenderPasses, ta.RenderPass{
		OpCount:  len(b.r.GlobalParamOp),
		PtCount:  len(b.r.GlobalParamPt),
		TrCount:  len(b.r.GlobalParamTr),
		Autosort: autosort,
	})
}

func TestMergeDegenerate(t *testing.T) {
	b := newRendBuilder()
	b.strip(ta.ListOpaque, ta.PolyParam{}, 1, 1, 1)
	b.strip(ta.ListOpaque, ta.PolyParam{}, 1, 1, 1)
	b.pass(false)

	passes.Build(&b.r, passes.Options{})

	draws := b.r.RenderPasses[0].OpDraws
	test.DemandEquality(t, len(draws), 1)
	test.ExpectEquality(t, draws[0], ta.Draw{Poly: 0, First: 0, Count: 9})

	// the first triangle of the second strip begins at an even position
	expected := []uint32{1, 2, 3, 3, 4, 4, 4, 5, 6}
	test.DemandEquality(t, len(b.r.Idx), len(expected))
	for i := range expected {
		test.ExpectEquality(t, b.r.Idx[i], expected[i], i)
	}
}

func TestMergeCullDirection(t *testing.T) {
	b := newRendBuilder()
	b.strip(ta.ListOpaque, ta.PolyParam{ISP: 2 << 27}, 1, 1, 1)
	b.strip(ta.ListOpaque, ta.PolyParam{ISP: 3 << 27}, 1, 1, 1)
	b.pass(false)

	passes.Build(&b.r, passes.Options{})

	draws := b.r.RenderPasses[0].OpDraws
	test.DemandEquality(t, len(draws), 1)

	// the first triangle of the second strip begins at an odd position
	expected := []uint32{1, 2, 3, 3, 4, 4, 5, 6}
	test.DemandEquality(t, len(b.r.Idx), len(expected))
	for i := range expected {
		test.ExpectEquality(t, b.r.Idx[i], expected[i], i)
	}
}

func TestMergeRestart(t *testing.T) {
	b := newRendBuilder()
	b.strip(ta.ListPunchThrough, ta.PolyParam{}, 1, 1, 1)
	b.strip(ta.ListPunchThrough, ta.PolyParam{}, 1, 1, 1)
	b.strip(ta.ListPunchThrough, ta.PolyParam{ISP: 3 << 27}, 1, 1, 1)
	b.pass(false)

	passes.Build(&b.r, passes.Options{PrimitiveRestart: true})

	draws := b.r.RenderPasses[0].PtDraws
	test.DemandEquality(t, len(draws), 2)
	test.ExpectEquality(t, draws[0], ta.Draw{Poly: 0, First: 0, Count: 7})
	test.ExpectEquality(t, draws[1], ta.Draw{Poly: 2, First: 7, Count: 3})
	test.ExpectEquality(t, b.r.Idx[3], passes.RestartIndex)
}

func TestNoMerge(t *testing.T) {
	b := newRendBuilder()
	b.strip(ta.ListOpaque, ta.PolyParam{TSP: 1}, 1, 1, 1)
	b.strip(ta.ListOpaque, ta.PolyParam{TSP: 2}, 1, 1, 1, 1)

	// too short to draw
	b.strip(ta.ListOpaque, ta.PolyParam{TSP: 2}, 1, 1)
	b.pass(false)

	passes.Build(&b.r, passes.Options{})

	draws := b.r.RenderPasses[0].OpDraws
	test.DemandEquality(t, len(draws), 2)
	test.ExpectEquality(t, draws[0], ta.Draw{Poly: 0, First: 0, Count: 3})
	test.ExpectEquality(t, draws[1], ta.Draw{Poly: 1, First: 3, Count: 4})
}

func TestTranslucentModes(t *testing.T) {
	build := func(autosort bool, opts passes.Options) *ta.Rend {
		b := newRendBuilder()
		b.strip(ta.ListTranslucent, ta.PolyParam{TSP: 1}, 2, 2, 2)
		b.strip(ta.ListTranslucent, ta.PolyParam{TSP: 2}, 1, 1, 1)
		b.pass(autosort)
		passes.Build(&b.r, opts)
		return &b.r
	}

	// submission order
	r := build(false, passes.Options{})
	test.DemandEquality(t, len(r.RenderPasses[0].TrDraws), 2)
	test.ExpectEquality(t, r.GlobalParamTr[0].TSP, 1)
	test.ExpectEquality(t, r.RenderPasses[0].SortedTrCount, 0)

	// sorted by strip
	r = build(true, passes.Options{PerStripSort: true})
	test.DemandEquality(t, len(r.RenderPasses[0].TrDraws), 2)
	test.ExpectEquality(t, r.GlobalParamTr[0].TSP, 2)
	test.ExpectEquality(t, r.RenderPasses[0].SortedTrCount, 0)

	// sorted by triangle
	r = build(true, passes.Options{})
	test.ExpectEquality(t, len(r.RenderPasses[0].TrDraws), 0)
	test.DemandEquality(t, r.RenderPasses[0].SortedTrCount, 2)
	test.ExpectEquality(t, r.SortedTriangles[0].Poly, 1)
	test.ExpectEquality(t, r.SortedTriangles[1].Poly, 0)
}

func TestMultiplePasses(t *testing.T) {
	b := newRendBuilder()
	b.strip(ta.ListOpaque, ta.PolyParam{}, 1, 1, 1)
	b.strip(ta.ListTranslucent, ta.PolyParam{}, 1, 1, 1)
	b.pass(true)
	b.strip(ta.ListOpaque, ta.PolyParam{}, 1, 1, 1)
	b.strip(ta.ListTranslucent, ta.PolyParam{}, 1, 1, 1)
	b.pass(true)

	passes.Build(&b.r, passes.Options{})

	// draws are not merged across passes
	test.ExpectEquality(t, len(b.r.RenderPasses[0].OpDraws), 1)
	test.DemandEquality(t, len(b.r.RenderPasses[1].OpDraws), 1)
	test.ExpectEquality(t, b.r.RenderPasses[1].OpDraws[0].Poly, 1)

	test.ExpectEquality(t, b.r.RenderPasses[0].SortedTrCount, 1)
	test.ExpectEquality(t, b.r.RenderPasses[1].SortedTrCount, 2)
	test.ExpectEquality(t, b.r.SortedTriangles[1].Poly, 1)

	// building again gives the same result
	idx := len(b.r.Idx)
	passes.Build(&b.r, passes.Options{})
	test.ExpectEquality(t, len(b.r.Idx), idx)
	test.ExpectEquality(t, len(b.r.SortedTriangles), 2)
}

func TestTextureBleeding(t *testing.T) {
	b := newRendBuilder()
	b.strip(ta.ListOpaque, ta.PolyParam{PCW: 1 << 3}, 1, 1, 1, 1)

	// not at a constant depth
	b.strip(ta.ListOpaque, ta.PolyParam{PCW: 1 << 3, TSP: 1}, 1, 2, 1, 1)
	b.pass(false)

	passes.Build(&b.r, passes.Options{RenderScale: 2})

	v := b.r.Verts
	test.ExpectEquality(t, v[1].U, 0.0625)
	test.ExpectEquality(t, v[1].V, 0.0625)
	test.ExpectEquality(t, v[4].U, 0.9375)
	test.ExpectEquality(t, v[4].V, 0.9375)
	test.ExpectEquality(t, v[5].U, 0.0)
	test.ExpectEquality(t, v[8].U, 1.0)

	// no correction at native resolution
	b = newRendBuilder()
	b.strip(ta.ListOpaque, ta.PolyParam{PCW: 1 << 3}, 1, 1, 1, 1)
	b.pass(false)
	passes.Build(&b.r, passes.Options{RenderScale: 1})
	test.ExpectEquality(t, b.r.Verts[1].U, 0.0)
}
