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

package software

import (
	"math"

	"github.com/gopherpvr/gopherpvr/pvr/passes"
	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// tile clip areas are in units of 32 pixels
const tileSize = 32

// render state for the triangles of one PolyParam.
type state struct {
	pp   *ta.PolyParam
	list ta.ListType
	tex  *render.Texture

	depthMode uint32
	depthMask bool
	blend     bool

	// clip rectangle in output pixels
	clipMode       uint8
	clipX0, clipY0 int
	clipX1, clipY1 int

	ptRef    float32
	offset   bool
	alpha    bool
	texA     bool
	shading  uint32
	srcInstr uint32
	dstInstr uint32

	clampU, clampV bool
	flipU, flipV   bool
}

func (s *Software) state(pp *ta.PolyParam, list ta.ListType) state {
	st := state{
		pp:        pp,
		list:      list,
		depthMode: pp.ISP.DepthMode(),
		depthMask: !pp.ISP.ZWriteDisable(),
		offset:    pp.PCW.Offset(),
		alpha:     pp.TSP.UseAlpha(),
		texA:      !pp.TSP.IgnoreTexA(),
		shading:   pp.TSP.ShadInstr(),
		srcInstr:  pp.TSP.SrcInstr(),
		dstInstr:  pp.TSP.DstInstr(),
		clampU:    pp.TSP.ClampU(),
		clampV:    pp.TSP.ClampV(),
		flipU:     pp.TSP.FlipU(),
		flipV:     pp.TSP.FlipV(),
		ptRef:     float32(s.PunchThroughRef) / 255,
	}

	switch list {
	case ta.ListOpaque:
		st.alpha = false
	case ta.ListTranslucent:
		st.blend = true
	}

	if pp.PCW.Texture() {
		st.tex = render.TextureOf(pp.Texture)
	}

	if pp.TileClip.Enabled() {
		ts := tileSize * s.scale
		st.clipMode = pp.TileClip.Mode
		st.clipX0 = int(pp.TileClip.XMin) * ts
		st.clipY0 = int(pp.TileClip.YMin) * ts
		st.clipX1 = (int(pp.TileClip.XMax) + 1) * ts
		st.clipY1 = (int(pp.TileClip.YMax) + 1) * ts
	}

	return st
}

// drawStrips draws the triangle strips in the index list. strips are separated
// by the restart index or joined by degenerate triangles.
func (s *Software) drawStrips(r *ta.Rend, pp *ta.PolyParam, idx []uint32, list ta.ListType) {
	st := s.state(pp, list)

	var a, b uint32
	n := 0
	for _, i := range idx {
		if i == passes.RestartIndex {
			n = 0
			continue // for loop
		}
		if n >= 2 {
			s.triangle(&st, &r.Verts[a], &r.Verts[b], &r.Verts[i])
		}
		a, b = b, i
		n++
	}
}

// drawTriangles draws a list of independent triangles. sorted translucent
// triangles are always depth tested with the greater or equal mode.
func (s *Software) drawTriangles(r *ta.Rend, pp *ta.PolyParam, idx []uint32) {
	st := s.state(pp, ta.ListTranslucent)
	st.depthMode = depthGreaterEqual
	st.depthMask = false
	for i := 0; i+2 < len(idx); i += 3 {
		s.triangle(&st, &r.Verts[idx[i]], &r.Verts[idx[i+1]], &r.Verts[idx[i+2]])
	}
}

func edge(ax, ay, bx, by, cx, cy float32) float32 {
	return (cx-ax)*(by-ay) - (cy-ay)*(bx-ax)
}

// triangle rasterises a single triangle. there is no culling and either
// winding order is accepted.
func (s *Software) triangle(st *state, v0, v1, v2 *ta.Vertex) {
	scale := float32(s.scale)
	x0, y0 := v0.X*scale, v0.Y*scale
	x1, y1 := v1.X*scale, v1.Y*scale
	x2, y2 := v2.X*scale, v2.Y*scale

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 || math.IsNaN(float64(area)) {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		x1, y1, x2, y2 = x2, y2, x1, y1
		area = -area
	}
	inv := 1 / area

	b := s.colour.Bounds()
	minX := max(int(math.Floor(float64(min(x0, x1, x2)))), b.Min.X)
	maxX := min(int(math.Ceil(float64(max(x0, x1, x2)))), b.Max.X)
	minY := max(int(math.Floor(float64(min(y0, y1, y2)))), b.Min.Y)
	maxY := min(int(math.Ceil(float64(max(y0, y1, y2)))), b.Max.Y)

	if st.clipMode == 2 {
		minX = max(minX, st.clipX0)
		maxX = min(maxX, st.clipX1)
		minY = max(minY, st.clipY0)
		maxY = min(maxY, st.clipY1)
	}

	stride := s.colour.Stride
	width := b.Dx()

	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5

			w0 := edge(x1, y1, x2, y2, px, py)
			w1 := edge(x2, y2, x0, y0, px, py)
			w2 := edge(x0, y0, x1, y1, px, py)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue // for loop
			}

			if st.clipMode == 3 && x >= st.clipX0 && x < st.clipX1 && y >= st.clipY0 && y < st.clipY1 {
				continue // for loop
			}

			w0 *= inv
			w1 *= inv
			w2 *= inv

			z := w0*v0.Z + w1*v1.Z + w2*v2.Z
			di := y*width + x
			if !depthTest(st.depthMode, z, s.depth[di]) {
				continue // for loop
			}

			c, ok := s.shade(st, v0, v1, v2, w0, w1, w2, z)
			if !ok {
				continue // for loop
			}

			pi := y*stride + x*4
			pix := s.colour.Pix[pi : pi+4 : pi+4]
			if st.blend {
				c = blend(st, c, pix)
			}
			pix[0] = uint8(clamp(c[0])*255 + 0.5)
			pix[1] = uint8(clamp(c[1])*255 + 0.5)
			pix[2] = uint8(clamp(c[2])*255 + 0.5)
			pix[3] = 0xff

			if st.depthMask {
				s.depth[di] = z
			}
		}
	}
}

func clamp(v float32) float32 {
	return min(max(v, 0), 1)
}

// depth values are 1/w so that greater values are nearer the viewer
const depthGreaterEqual = 6

func depthTest(mode uint32, z, d float32) bool {
	switch mode {
	case 0:
		return false
	case 1:
		return z < d
	case 2:
		return z == d
	case 3:
		return z <= d
	case 4:
		return z > d
	case 5:
		return z != d
	case 6:
		return z >= d
	}
	return true
}

func colour(c [4]uint8) [4]float32 {
	return [4]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255}
}

func interpolate(a, b, c [4]uint8, w0, w1, w2 float32) [4]float32 {
	var r [4]float32
	for i := range r {
		r[i] = (w0*float32(a[i]) + w1*float32(b[i]) + w2*float32(c[i])) / 255
	}
	return r
}

// shade returns the colour of the pixel. the second return value is false if
// the pixel is discarded by the punch through test.
func (s *Software) shade(st *state, v0, v1, v2 *ta.Vertex, w0, w1, w2, z float32) ([4]float32, bool) {
	var col [4]float32
	if st.pp.PCW.Gouraud() {
		col = interpolate(v0.Col, v1.Col, v2.Col, w0, w1, w2)
	} else {
		col = colour(v2.Col)
	}

	if st.tex != nil && z != 0 {
		// texture coordinates are interpolated with perspective correction
		u := (w0*v0.U*v0.Z + w1*v1.U*v1.Z + w2*v2.U*v2.Z) / z
		v := (w0*v0.V*v0.Z + w1*v1.V*v1.Z + w2*v2.V*v2.Z) / z
		tex := st.sample(u, v)
		if !st.texA {
			tex[3] = 1
		}

		switch st.shading {
		case 0:
			col = tex
		case 1:
			col = [4]float32{tex[0] * col[0], tex[1] * col[1], tex[2] * col[2], tex[3]}
		case 2:
			a := tex[3]
			col = [4]float32{
				tex[0]*a + col[0]*(1-a),
				tex[1]*a + col[1]*(1-a),
				tex[2]*a + col[2]*(1-a),
				col[3],
			}
		case 3:
			col = [4]float32{tex[0] * col[0], tex[1] * col[1], tex[2] * col[2], tex[3] * col[3]}
		}

		if st.offset {
			var spc [4]float32
			if st.pp.PCW.Gouraud() {
				spc = interpolate(v0.Spc, v1.Spc, v2.Spc, w0, w1, w2)
			} else {
				spc = colour(v2.Spc)
			}
			col[0] += spc[0]
			col[1] += spc[1]
			col[2] += spc[2]
		}
	}

	if !st.alpha {
		col[3] = 1
	}

	if st.list == ta.ListPunchThrough && col[3] < st.ptRef {
		return col, false
	}

	return col, true
}

func (st *state) coord(t float32, size int, clamp, flip bool) int {
	p := int(math.Floor(float64(t * float32(size))))
	if clamp {
		return min(max(p, 0), size-1)
	}
	if flip {
		p %= size * 2
		if p < 0 {
			p += size * 2
		}
		if p >= size {
			p = size*2 - 1 - p
		}
		return p
	}
	p %= size
	if p < 0 {
		p += size
	}
	return p
}

// nearest neighbour sampling of the texture
func (st *state) sample(u, v float32) [4]float32 {
	img := st.tex.Image
	if img == nil || st.tex.Width == 0 || st.tex.Height == 0 {
		return [4]float32{1, 1, 1, 1}
	}
	x := st.coord(u, st.tex.Width, st.clampU, st.flipU)
	y := st.coord(v, st.tex.Height, st.clampV, st.flipV)
	i := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
	return colour([4]uint8(img.Pix[i : i+4]))
}

func blendFactor(instr uint32, src, dst, other [4]float32) [3]float32 {
	var f float32
	switch instr {
	case 0:
		return [3]float32{}
	case 1:
		return [3]float32{1, 1, 1}
	case 2:
		return [3]float32{other[0], other[1], other[2]}
	case 3:
		return [3]float32{1 - other[0], 1 - other[1], 1 - other[2]}
	case 4:
		f = src[3]
	case 5:
		f = 1 - src[3]
	case 6:
		f = dst[3]
	case 7:
		f = 1 - dst[3]
	}
	return [3]float32{f, f, f}
}

// blend the source colour with the pixel already in the frame
func blend(st *state, src [4]float32, pix []uint8) [4]float32 {
	dst := colour([4]uint8(pix))

	// the frame has no alpha channel of its own
	dst[3] = 1

	sf := blendFactor(st.srcInstr, src, dst, dst)
	df := blendFactor(st.dstInstr, src, dst, src)

	return [4]float32{
		src[0]*sf[0] + dst[0]*df[0],
		src[1]*sf[1] + dst[1]*df[1],
		src[2]*sf[2] + dst[2]*df[2],
		1,
	}
}
