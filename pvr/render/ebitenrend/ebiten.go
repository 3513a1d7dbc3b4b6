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
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gopherpvr/gopherpvr/logger"
	"github.com/gopherpvr/gopherpvr/pvr/passes"
	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// maximum number of vertices in a single call to DrawTriangles()
const maxBatch = 65535 - 3

// Ebiten is an implementation of the render.Renderer interface.
type Ebiten struct {
	*render.TextureCache

	scale int

	target *ebiten.Image
	white  *ebiten.Image

	// textures uploaded to ebiten. keyed by the texture in the cache
	textures map[*render.Texture]*ebiten.Image

	ctx *ta.Context

	// vertices and indices for the next call to DrawTriangles()
	vertices []ebiten.Vertex
	indices  []uint16

	pixels []byte
}

// New is the preferred method of initialisation for the Ebiten type.
func New(scale int) *Ebiten {
	return &Ebiten{
		TextureCache: render.NewTextureCache(),
		scale:        max(scale, 1),
		textures:     make(map[*render.Texture]*ebiten.Image),
	}
}

// Init implements the render.Renderer interface.
func (e *Ebiten) Init() error {
	w := render.NativeWidth * e.scale
	h := render.NativeHeight * e.scale
	e.target = ebiten.NewImage(w, h)

	// untextured polygons are drawn with the centre pixel of a small white
	// image. this is the same technique used by the vector package in ebiten
	e.white = ebiten.NewImage(3, 3)
	e.white.Fill(color.White)

	e.pixels = make([]byte, w*h*4)

	logger.Logf(logger.Allow, "ebiten", "frame size %dx%d", w, h)
	logger.Log(logger.Allow, "ebiten", "no depth buffer. polygons drawn in pass order")
	return nil
}

// Process implements the render.Renderer interface.
func (e *Ebiten) Process(ctx *ta.Context) error {
	e.ctx = ctx
	return nil
}

// Render implements the render.Renderer interface. Must be called from the
// ebiten goroutine.
func (e *Ebiten) Render() (bool, error) {
	if e.ctx == nil {
		return false, nil
	}
	r := &e.ctx.Rend
	e.ctx = nil

	bg := r.Verts[0].Col
	e.target.Fill(color.RGBA{R: bg[0], G: bg[1], B: bg[2], A: 0xff})

	var sorted int
	for i := range r.RenderPasses {
		pass := &r.RenderPasses[i]

		for _, d := range pass.OpDraws {
			e.drawStrips(r, &r.GlobalParamOp[d.Poly], r.Idx[d.First:d.First+d.Count], ta.ListOpaque)
		}
		for _, d := range pass.PtDraws {
			e.drawStrips(r, &r.GlobalParamPt[d.Poly], r.Idx[d.First:d.First+d.Count], ta.ListPunchThrough)
		}
		for _, d := range pass.TrDraws {
			e.drawStrips(r, &r.GlobalParamTr[d.Poly], r.Idx[d.First:d.First+d.Count], ta.ListTranslucent)
		}
		for _, st := range r.SortedTriangles[sorted:pass.SortedTrCount] {
			idx := r.Idx[st.First : st.First+st.Count]
			pp := &r.GlobalParamTr[st.Poly]
			for j := 0; j+2 < len(idx); j += 3 {
				e.triangle(pp, ta.ListTranslucent, &r.Verts[idx[j]], &r.Verts[idx[j+1]], &r.Verts[idx[j+2]])
			}
			e.flush(pp, ta.ListTranslucent)
		}
		sorted = pass.SortedTrCount
	}

	return true, nil
}

// Term implements the render.Renderer interface.
func (e *Ebiten) Term() {
	for _, img := range e.textures {
		img.Deallocate()
	}
	clear(e.textures)
	e.Clear()
	if e.target != nil {
		e.target.Deallocate()
		e.target = nil
	}
	if e.white != nil {
		e.white.Deallocate()
		e.white = nil
	}
}

// Image returns the image that the frame is drawn to.
func (e *Ebiten) Image() *ebiten.Image {
	return e.target
}

// Frame implements the render.Frame interface. Must be called from the ebiten
// goroutine.
func (e *Ebiten) Frame() []byte {
	e.target.ReadPixels(e.pixels)
	return e.pixels
}

// FrameSize implements the render.Frame interface.
func (e *Ebiten) FrameSize() (int, int) {
	return render.NativeWidth * e.scale, render.NativeHeight * e.scale
}

func (e *Ebiten) drawStrips(r *ta.Rend, pp *ta.PolyParam, idx []uint32, list ta.ListType) {
	var a, b uint32
	n := 0
	for _, i := range idx {
		if i == passes.RestartIndex {
			n = 0
			continue // for loop
		}
		if n >= 2 {
			e.triangle(pp, list, &r.Verts[a], &r.Verts[b], &r.Verts[i])
		}
		a, b = b, i
		n++
	}
	e.flush(pp, list)
}

// texture returns the ebiten image for the texture of the PolyParam. returns
// nil if the polygon is not textured.
func (e *Ebiten) texture(pp *ta.PolyParam) *ebiten.Image {
	if !pp.PCW.Texture() {
		return nil
	}
	tex := render.TextureOf(pp.Texture)
	if tex == nil || tex.Image == nil {
		return nil
	}
	if img, ok := e.textures[tex]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(tex.Image)
	e.textures[tex] = img
	return img
}

func (e *Ebiten) triangle(pp *ta.PolyParam, list ta.ListType, v0, v1, v2 *ta.Vertex) {
	if len(e.vertices) >= maxBatch {
		e.flush(pp, list)
	}

	var w, h float32
	if tex := e.texture(pp); tex != nil {
		b := tex.Bounds()
		w, h = float32(b.Dx()), float32(b.Dy())
	}

	n := uint16(len(e.vertices))
	for _, v := range [3]*ta.Vertex{v0, v1, v2} {
		col := v.Col
		if !pp.PCW.Gouraud() {
			col = v2.Col
		}
		e.vertices = append(e.vertices, vertex(v, col, pp, list, float32(e.scale), w, h))
	}
	e.indices = append(e.indices, n, n+1, n+2)
}

// vertex converts a ta.Vertex to an ebiten.Vertex. the w and h arguments are
// the dimensions of the texture. if w or h are zero the polygon is untextured.
func vertex(v *ta.Vertex, col [4]uint8, pp *ta.PolyParam, list ta.ListType, scale float32, w, h float32) ebiten.Vertex {
	ev := ebiten.Vertex{
		DstX:   v.X * scale,
		DstY:   v.Y * scale,
		ColorR: float32(col[0]) / 255,
		ColorG: float32(col[1]) / 255,
		ColorB: float32(col[2]) / 255,
		ColorA: float32(col[3]) / 255,
	}

	if w == 0 || h == 0 {
		ev.SrcX = 1.5
		ev.SrcY = 1.5
	} else {
		ev.SrcX = v.U * w
		ev.SrcY = v.V * h

		// the vertex colour is multiplied with the texture colour so the decal
		// modes can be drawn by using white
		switch pp.TSP.ShadInstr() {
		case 0, 2:
			ev.ColorR, ev.ColorG, ev.ColorB = 1, 1, 1
			ev.ColorA = 1
		case 1:
			ev.ColorA = 1
		}
	}

	if list == ta.ListOpaque || !pp.TSP.UseAlpha() {
		ev.ColorA = 1
	}

	return ev
}

func (e *Ebiten) flush(pp *ta.PolyParam, list ta.ListType) {
	if len(e.indices) == 0 {
		return
	}

	src := e.texture(pp)
	op := &ebiten.DrawTrianglesOptions{}
	if src == nil {
		src = e.white
	} else if !pp.TSP.ClampU() && !pp.TSP.ClampV() {
		op.Address = ebiten.AddressRepeat
	}

	if pp.TSP.FilterMode() != 0 {
		op.Filter = ebiten.FilterLinear
	}

	if list == ta.ListTranslucent {
		op.Blend = blend(pp.TSP)
	}

	dst := e.target
	if pp.TileClip.Mode == 2 {
		ts := 32 * e.scale
		clip := image.Rect(
			int(pp.TileClip.XMin)*ts, int(pp.TileClip.YMin)*ts,
			(int(pp.TileClip.XMax)+1)*ts, (int(pp.TileClip.YMax)+1)*ts,
		)
		dst = e.target.SubImage(clip).(*ebiten.Image)
	}

	dst.DrawTriangles(e.vertices, e.indices, src, op)

	e.vertices = e.vertices[:0]
	e.indices = e.indices[:0]
}

func factor(instr uint32, src bool) ebiten.BlendFactor {
	switch instr {
	case 0:
		return ebiten.BlendFactorZero
	case 1:
		return ebiten.BlendFactorOne
	case 2:
		if src {
			return ebiten.BlendFactorDestinationColor
		}
		return ebiten.BlendFactorSourceColor
	case 3:
		if src {
			return ebiten.BlendFactorOneMinusDestinationColor
		}
		return ebiten.BlendFactorOneMinusSourceColor
	case 4:
		return ebiten.BlendFactorSourceAlpha
	case 5:
		return ebiten.BlendFactorOneMinusSourceAlpha
	case 6:
		return ebiten.BlendFactorDestinationAlpha
	}
	return ebiten.BlendFactorOneMinusDestinationAlpha
}

// blend returns the ebiten blend mode for the source and destination
// instructions in the TSP word.
func blend(tsp ta.TSP) ebiten.Blend {
	src := factor(tsp.SrcInstr(), true)
	dst := factor(tsp.DstInstr(), false)
	return ebiten.Blend{
		BlendFactorSourceRGB:        src,
		BlendFactorSourceAlpha:      src,
		BlendFactorDestinationRGB:   dst,
		BlendFactorDestinationAlpha: dst,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}
