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

package software_test

import (
	"testing"

	"github.com/gopherpvr/gopherpvr/pvr/render/software"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/test"
)

const (
	depthAlways = ta.ISP(7 << 29)
	depthGEqual = ta.ISP(6 << 29)
	srcAlpha    = ta.TSP(4<<29 | 5<<26 | 1<<20)
)

// context with the background vertex and nothing else
func emptyContext() *ta.Context {
	ctx := &ta.Context{}
	ctx.Rend.Verts = []ta.Vertex{{Col: [4]uint8{10, 20, 30, 0}}}
	ctx.Rend.RenderPasses = []ta.RenderPass{{ZClear: true}}
	return ctx
}

// add a triangle to the context and return the draw for it
func addTriangle(ctx *ta.Context, list *[]ta.PolyParam, isp ta.ISP, tsp ta.TSP, z float32, col [4]uint8) ta.Draw {
	r := &ctx.Rend
	first := uint32(len(r.Verts))
	r.Verts = append(r.Verts,
		ta.Vertex{X: 100, Y: 100, Z: z, Col: col},
		ta.Vertex{X: 300, Y: 100, Z: z, Col: col},
		ta.Vertex{X: 100, Y: 300, Z: z, Col: col},
	)
	d := ta.Draw{Poly: len(*list), First: uint32(len(r.Idx)), Count: 3}
	r.Idx = append(r.Idx, first, first+1, first+2)
	*list = append(*list, ta.PolyParam{First: first, Count: 3, ISP: isp, TSP: tsp})
	return d
}

func pixel(s *software.Software, x, y int) [4]uint8 {
	img := s.Image()
	i := img.PixOffset(x, y)
	return [4]uint8(img.Pix[i : i+4])
}

func render(t *testing.T, s *software.Software, ctx *ta.Context) {
	t.Helper()
	test.DemandSuccess(t, s.Process(ctx))
	ok, err := s.Render()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, ok)
}

func TestBackground(t *testing.T) {
	s := software.New(1)
	test.DemandSuccess(t, s.Init())
	defer s.Term()

	render(t, s, emptyContext())
	test.ExpectEquality(t, pixel(s, 0, 0), [4]uint8{10, 20, 30, 255})
	test.ExpectEquality(t, pixel(s, 639, 479), [4]uint8{10, 20, 30, 255})

	w, h := s.FrameSize()
	test.ExpectEquality(t, w, 640)
	test.ExpectEquality(t, h, 480)

	// nothing to render without a processed context
	ok, err := s.Render()
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, ok)
}

func TestOpaque(t *testing.T) {
	s := software.New(1)
	test.DemandSuccess(t, s.Init())
	defer s.Term()

	red := [4]uint8{255, 0, 0, 255}
	green := [4]uint8{0, 255, 0, 255}

	ctx := emptyContext()
	r := &ctx.Rend
	pass := &r.RenderPasses[0]
	pass.OpDraws = append(pass.OpDraws, addTriangle(ctx, &r.GlobalParamOp, depthAlways, 0, 1.0, red))

	// the second triangle is further away and fails the depth test
	pass.OpDraws = append(pass.OpDraws, addTriangle(ctx, &r.GlobalParamOp, depthGEqual, 0, 0.5, green))

	render(t, s, ctx)
	test.ExpectEquality(t, pixel(s, 150, 150), red)
	test.ExpectEquality(t, pixel(s, 290, 290), [4]uint8{10, 20, 30, 255})
	test.ExpectEquality(t, pixel(s, 50, 50), [4]uint8{10, 20, 30, 255})
}

func TestTranslucent(t *testing.T) {
	s := software.New(1)
	test.DemandSuccess(t, s.Init())
	defer s.Term()

	ctx := emptyContext()
	r := &ctx.Rend
	r.Verts[0].Col = [4]uint8{0, 0, 0, 0}
	pass := &r.RenderPasses[0]
	pass.TrDraws = append(pass.TrDraws, addTriangle(ctx, &r.GlobalParamTr, depthAlways, srcAlpha, 1.0, [4]uint8{0, 0, 255, 128}))

	render(t, s, ctx)
	p := pixel(s, 150, 150)
	test.ExpectEquality(t, p[0], 0)
	test.ExpectApproximate(t, p[2], 128, 1)
	test.ExpectEquality(t, p[3], 255)
}

func TestScaled(t *testing.T) {
	s := software.New(2)
	test.DemandSuccess(t, s.Init())
	defer s.Term()

	w, h := s.FrameSize()
	test.ExpectEquality(t, w, 1280)
	test.ExpectEquality(t, h, 960)

	red := [4]uint8{255, 0, 0, 255}
	ctx := emptyContext()
	r := &ctx.Rend
	pass := &r.RenderPasses[0]
	pass.OpDraws = append(pass.OpDraws, addTriangle(ctx, &r.GlobalParamOp, depthAlways, 0, 1.0, red))

	render(t, s, ctx)
	test.ExpectEquality(t, s.Image().Bounds().Dx(), 640)

	// the native image is filtered
	p := pixel(s, 150, 150)
	test.ExpectApproximate(t, p[0], 255, 2)
	test.ExpectApproximate(t, p[1], 0, 2)

	img := s.ScaledImage()
	i := img.PixOffset(300, 300)
	test.ExpectEquality(t, [4]uint8(img.Pix[i:i+4]), red)
}

func TestTileClip(t *testing.T) {
	s := software.New(1)
	test.DemandSuccess(t, s.Init())
	defer s.Term()

	red := [4]uint8{255, 0, 0, 255}
	ctx := emptyContext()
	r := &ctx.Rend
	pass := &r.RenderPasses[0]
	pass.OpDraws = append(pass.OpDraws, addTriangle(ctx, &r.GlobalParamOp, depthAlways, 0, 1.0, red))

	// draw inside tiles 4,4 to 4,4 only. pixels 128 to 159
	r.GlobalParamOp[0].TileClip = ta.TileClip{Mode: 2, XMin: 4, YMin: 4, XMax: 4, YMax: 4}

	render(t, s, ctx)
	test.ExpectEquality(t, pixel(s, 140, 140), red)
	test.ExpectEquality(t, pixel(s, 110, 110), [4]uint8{10, 20, 30, 255})
	test.ExpectEquality(t, pixel(s, 170, 140), [4]uint8{10, 20, 30, 255})
}
