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

package render_test

import (
	"testing"

	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/test"
)

func TestTextureCache(t *testing.T) {
	tc := render.NewTextureCache()

	// 64x16 texture
	a := render.TextureOf(tc.GetTexture(ta.TSP(3<<3|1), ta.TCW(0x100)))
	if a == nil {
		t.Fatalf("texture is not a *render.Texture")
	}
	test.ExpectEquality(t, a.Width, 64)
	test.ExpectEquality(t, a.Height, 16)
	test.ExpectEquality(t, a.Image.Bounds().Dx(), 64)

	// bits of the TSP that do not affect the texture are ignored
	b := render.TextureOf(tc.GetTexture(ta.TSP(3<<3|1|1<<20), ta.TCW(0x100)))
	test.ExpectEquality(t, a, b)

	// different address
	c := render.TextureOf(tc.GetTexture(ta.TSP(3<<3|1), ta.TCW(0x200)))
	test.ExpectInequality(t, a, c)
	test.ExpectInequality(t, a.Image.RGBAAt(0, 0), c.Image.RGBAAt(0, 0))

	test.ExpectEquality(t, tc.Len(), 2)
	hits, misses := tc.Stats()
	test.ExpectEquality(t, hits, 1)
	test.ExpectEquality(t, misses, 2)

	// checkerboard
	test.ExpectEquality(t, a.Image.RGBAAt(0, 0), a.Image.RGBAAt(7, 7))
	test.ExpectInequality(t, a.Image.RGBAAt(0, 0), a.Image.RGBAAt(8, 0))

	tc.Clear()
	test.ExpectEquality(t, tc.Len(), 0)
	test.ExpectEquality(t, render.TextureOf(nil), (*render.Texture)(nil))
}
