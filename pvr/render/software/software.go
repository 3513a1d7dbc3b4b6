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

// Package software is a rendering backend that draws the parsed context into
// an image in memory. It needs no graphics hardware and is used when no other
// backend can be initialised, for screenshots and for the DIGEST mode.
//
// Modifier volumes are not drawn.
package software

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/gopherpvr/gopherpvr/logger"
	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// Software is an implementation of the render.Renderer interface.
type Software struct {
	*render.TextureCache

	scale int

	// the frame at the output resolution
	colour *image.RGBA
	depth  []float32

	// the frame at the native resolution. only used if scale is greater than
	// one
	native *image.RGBA

	ctx *ta.Context

	// pixels of punch through polygons with an alpha value lower than the
	// reference value are discarded
	PunchThroughRef uint8
}

// New is the preferred method of initialisation for the Software type. The
// scale is the ratio of the output resolution to the native resolution.
func New(scale int) *Software {
	return &Software{
		TextureCache:    render.NewTextureCache(),
		scale:           max(scale, 1),
		PunchThroughRef: 1,
	}
}

// Init implements the render.Renderer interface.
func (s *Software) Init() error {
	w := render.NativeWidth * s.scale
	h := render.NativeHeight * s.scale
	s.colour = image.NewRGBA(image.Rect(0, 0, w, h))
	s.depth = make([]float32, w*h)
	if s.scale > 1 {
		s.native = image.NewRGBA(image.Rect(0, 0, render.NativeWidth, render.NativeHeight))
	}
	logger.Logf(logger.Allow, "software", "frame size %dx%d", w, h)
	return nil
}

// Process implements the render.Renderer interface.
func (s *Software) Process(ctx *ta.Context) error {
	s.ctx = ctx
	return nil
}

// Render implements the render.Renderer interface. The processed context is
// not referenced after Render() returns.
func (s *Software) Render() (bool, error) {
	if s.ctx == nil {
		return false, nil
	}
	r := &s.ctx.Rend
	s.ctx = nil

	s.clear(r)

	var sorted int
	for i := range r.RenderPasses {
		pass := &r.RenderPasses[i]

		if pass.ZClear {
			clear(s.depth)
		}

		for _, d := range pass.OpDraws {
			s.drawStrips(r, &r.GlobalParamOp[d.Poly], r.Idx[d.First:d.First+d.Count], ta.ListOpaque)
		}
		for _, d := range pass.PtDraws {
			s.drawStrips(r, &r.GlobalParamPt[d.Poly], r.Idx[d.First:d.First+d.Count], ta.ListPunchThrough)
		}

		// only one of TrDraws or the sorted triangles will be present
		for _, d := range pass.TrDraws {
			s.drawStrips(r, &r.GlobalParamTr[d.Poly], r.Idx[d.First:d.First+d.Count], ta.ListTranslucent)
		}
		for _, st := range r.SortedTriangles[sorted:pass.SortedTrCount] {
			s.drawTriangles(r, &r.GlobalParamTr[st.Poly], r.Idx[st.First:st.First+st.Count])
		}
		sorted = pass.SortedTrCount
	}

	if s.native != nil {
		xdraw.ApproxBiLinear.Scale(s.native, s.native.Bounds(), s.colour, s.colour.Bounds(), draw.Src, nil)
	}

	return true, nil
}

// the frame is filled with the colour of the background vertex
func (s *Software) clear(r *ta.Rend) {
	var bg [4]uint8
	if len(r.Verts) > 0 {
		bg = r.Verts[0].Col
	}
	bg[3] = 0xff

	pix := s.colour.Pix
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:i+4], bg[:])
	}
	clear(s.depth)
}

// Term implements the render.Renderer interface.
func (s *Software) Term() {
	s.Clear()
	s.colour = nil
	s.native = nil
	s.depth = nil
}

// Image returns the most recent frame at the native resolution. The image is
// reused by the next call to Render().
func (s *Software) Image() *image.RGBA {
	if s.native != nil {
		return s.native
	}
	return s.colour
}

// ScaledImage returns the most recent frame at the output resolution. The
// image is reused by the next call to Render().
func (s *Software) ScaledImage() *image.RGBA {
	return s.colour
}

// Frame implements the render.Frame interface. The frame is at the output
// resolution.
func (s *Software) Frame() []byte {
	return s.colour.Pix
}

// FrameSize implements the render.Frame interface.
func (s *Software) FrameSize() (int, int) {
	b := s.colour.Bounds()
	return b.Dx(), b.Dy()
}
