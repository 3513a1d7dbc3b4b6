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

package ebitenrend

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/test"
)

func TestBlend(t *testing.T) {
	// source alpha, inverse source alpha
	b := blend(ta.TSP(4<<29 | 5<<26))
	test.ExpectEquality(t, b.BlendFactorSourceRGB, ebiten.BlendFactorSourceAlpha)
	test.ExpectEquality(t, b.BlendFactorDestinationRGB, ebiten.BlendFactorOneMinusSourceAlpha)
	test.ExpectEquality(t, b.BlendOperationRGB, ebiten.BlendOperationAdd)

	// other colour means the destination colour for the source factor and the
	// source colour for the destination factor
	b = blend(ta.TSP(2<<29 | 3<<26))
	test.ExpectEquality(t, b.BlendFactorSourceRGB, ebiten.BlendFactorDestinationColor)
	test.ExpectEquality(t, b.BlendFactorDestinationRGB, ebiten.BlendFactorOneMinusSourceColor)

	b = blend(ta.TSP(1<<29 | 0<<26))
	test.ExpectEquality(t, b.BlendFactorSourceRGB, ebiten.BlendFactorOne)
	test.ExpectEquality(t, b.BlendFactorDestinationRGB, ebiten.BlendFactorZero)
}

func TestVertex(t *testing.T) {
	v := ta.Vertex{X: 10, Y: 20, U: 0.5, V: 0.25}
	col := [4]uint8{255, 0, 0, 128}

	// untextured opaque polygons always have an alpha of one and sample the
	// centre of the white image
	pp := &ta.PolyParam{}
	ev := vertex(&v, col, pp, ta.ListOpaque, 2, 0, 0)
	test.ExpectEquality(t, ev.DstX, 20)
	test.ExpectEquality(t, ev.DstY, 40)
	test.ExpectEquality(t, ev.SrcX, 1.5)
	test.ExpectEquality(t, ev.ColorR, 1)
	test.ExpectEquality(t, ev.ColorA, 1)

	// translucent with alpha
	pp.TSP = ta.TSP(1 << 20)
	ev = vertex(&v, col, pp, ta.ListTranslucent, 1, 0, 0)
	test.ExpectApproximate(t, ev.ColorA, 0.5, 0.01)

	// textured decal ignores the vertex colour
	ev = vertex(&v, col, pp, ta.ListTranslucent, 1, 64, 32)
	test.ExpectEquality(t, ev.SrcX, 32)
	test.ExpectEquality(t, ev.SrcY, 8)
	test.ExpectEquality(t, ev.ColorG, 1)

	// modulate
	pp.TSP |= ta.TSP(3 << 6)
	ev = vertex(&v, col, pp, ta.ListTranslucent, 1, 64, 32)
	test.ExpectEquality(t, ev.ColorG, 0)
	test.ExpectApproximate(t, ev.ColorA, 0.5, 0.01)
}
