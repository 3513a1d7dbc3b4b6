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

package gl32

import (
	"unsafe"

	"github.com/go-gl/gl/v3.2-core/gl"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/logger"
	"github.com/gopherpvr/gopherpvr/pvr/passes"
	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// GL is an implementation of the render.Renderer interface.
type GL struct {
	*render.TextureCache

	scale  int
	width  int32
	height int32

	sh shader

	// the offscreen framebuffer
	fbo    uint32
	colour uint32
	depth  uint32

	vao uint32
	vbo uint32
	ebo uint32

	// textures uploaded to the GPU. keyed by the texture in the cache
	textures map[*render.Texture]uint32

	ctx *ta.Context

	pixels []byte

	// pixels of punch through polygons with an alpha value lower than the
	// reference value are discarded
	PunchThroughRef uint8
}

// New is the preferred method of initialisation for the GL type. An OpenGL 3.2
// context must be current before Init() is called.
func New(scale int) *GL {
	return &GL{
		TextureCache:    render.NewTextureCache(),
		scale:           max(scale, 1),
		textures:        make(map[*render.Texture]uint32),
		PunchThroughRef: 1,
	}
}

// Init implements the render.Renderer interface.
func (rnd *GL) Init() error {
	err := gl.Init()
	if err != nil {
		return curated.Errorf("gl32: %v", err)
	}

	// log GPU vendor information
	logger.Logf(logger.Allow, "gl32", "vendor: %s", gl.GoStr(gl.GetString(gl.VENDOR)))
	logger.Logf(logger.Allow, "gl32", "renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))
	logger.Logf(logger.Allow, "gl32", "driver: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	err = rnd.sh.createProgram(vertexShader, fragmentShader)
	if err != nil {
		return err
	}

	rnd.width = int32(render.NativeWidth * rnd.scale)
	rnd.height = int32(render.NativeHeight * rnd.scale)
	rnd.pixels = make([]byte, rnd.width*rnd.height*4)

	gl.GenTextures(1, &rnd.colour)
	gl.BindTexture(gl.TEXTURE_2D, rnd.colour)
	gl.TexImage2D(gl.TEXTURE_2D, 0,
		gl.RGBA, rnd.width, rnd.height, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)

	gl.GenRenderbuffers(1, &rnd.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rnd.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, rnd.width, rnd.height)

	gl.GenFramebuffers(1, &rnd.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rnd.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, rnd.colour, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rnd.depth)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return curated.Errorf("gl32: framebuffer incomplete (%#x)", status)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	gl.GenVertexArrays(1, &rnd.vao)
	gl.GenBuffers(1, &rnd.vbo)
	gl.GenBuffers(1, &rnd.ebo)

	logger.Logf(logger.Allow, "gl32", "frame size %dx%d", rnd.width, rnd.height)

	return nil
}

// Term implements the render.Renderer interface.
func (rnd *GL) Term() {
	for _, id := range rnd.textures {
		gl.DeleteTextures(1, &id)
	}
	clear(rnd.textures)
	rnd.Clear()

	rnd.sh.destroy()

	if rnd.vbo != 0 {
		gl.DeleteBuffers(1, &rnd.vbo)
		rnd.vbo = 0
	}
	if rnd.ebo != 0 {
		gl.DeleteBuffers(1, &rnd.ebo)
		rnd.ebo = 0
	}
	if rnd.vao != 0 {
		gl.DeleteVertexArrays(1, &rnd.vao)
		rnd.vao = 0
	}
	if rnd.fbo != 0 {
		gl.DeleteFramebuffers(1, &rnd.fbo)
		rnd.fbo = 0
	}
	if rnd.depth != 0 {
		gl.DeleteRenderbuffers(1, &rnd.depth)
		rnd.depth = 0
	}
	if rnd.colour != 0 {
		gl.DeleteTextures(1, &rnd.colour)
		rnd.colour = 0
	}
}

// Process implements the render.Renderer interface. The vertex and index data
// is uploaded to the GPU.
func (rnd *GL) Process(ctx *ta.Context) error {
	rnd.ctx = ctx
	r := &ctx.Rend

	gl.BindVertexArray(rnd.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, rnd.vbo)
	if len(r.Verts) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(r.Verts)*int(unsafe.Sizeof(ta.Vertex{})), gl.Ptr(r.Verts), gl.STREAM_DRAW)
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, rnd.ebo)
	if len(r.Idx) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(r.Idx)*4, gl.Ptr(r.Idx), gl.STREAM_DRAW)
	}

	var v ta.Vertex
	stride := int32(unsafe.Sizeof(v))

	gl.EnableVertexAttribArray(uint32(rnd.sh.position))
	gl.VertexAttribPointerWithOffset(uint32(rnd.sh.position), 3, gl.FLOAT, false, stride, unsafe.Offsetof(v.X))
	gl.EnableVertexAttribArray(uint32(rnd.sh.color))
	gl.VertexAttribPointerWithOffset(uint32(rnd.sh.color), 4, gl.UNSIGNED_BYTE, true, stride, unsafe.Offsetof(v.Col))
	gl.EnableVertexAttribArray(uint32(rnd.sh.offset))
	gl.VertexAttribPointerWithOffset(uint32(rnd.sh.offset), 4, gl.UNSIGNED_BYTE, true, stride, unsafe.Offsetof(v.Spc))
	gl.EnableVertexAttribArray(uint32(rnd.sh.uv))
	gl.VertexAttribPointerWithOffset(uint32(rnd.sh.uv), 2, gl.FLOAT, false, stride, unsafe.Offsetof(v.U))

	gl.BindVertexArray(0)

	return nil
}

// Render implements the render.Renderer interface.
func (rnd *GL) Render() (bool, error) {
	if rnd.ctx == nil {
		return false, nil
	}
	r := &rnd.ctx.Rend
	rnd.ctx = nil

	gl.BindFramebuffer(gl.FRAMEBUFFER, rnd.fbo)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, rnd.width, rnd.height)

	gl.BindVertexArray(rnd.vao)
	defer gl.BindVertexArray(0)

	gl.UseProgram(rnd.sh.handle)
	defer gl.UseProgram(0)

	// depth values are normalised with the largest value in the context
	zmax := max(r.FZMax, 1) * 1.001
	gl.Uniform3f(rnd.sh.screen, render.NativeWidth, render.NativeHeight, zmax)
	gl.Uniform1i(rnd.sh.texture, 0)
	gl.Uniform1f(rnd.sh.punchThroughRef, float32(rnd.PunchThroughRef)/255)

	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.SCISSOR_TEST)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.PRIMITIVE_RESTART)
	gl.PrimitiveRestartIndex(passes.RestartIndex)

	bg := r.Verts[0].Col
	gl.ClearColor(float32(bg[0])/255, float32(bg[1])/255, float32(bg[2])/255, 1.0)
	gl.ClearDepth(1.0)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	var sorted int
	for i := range r.RenderPasses {
		pass := &r.RenderPasses[i]

		if pass.ZClear {
			gl.DepthMask(true)
			gl.Clear(gl.DEPTH_BUFFER_BIT)
		}

		gl.Disable(gl.BLEND)
		for _, d := range pass.OpDraws {
			rnd.draw(&r.GlobalParamOp[d.Poly], ta.ListOpaque, gl.TRIANGLE_STRIP, d.First, d.Count)
		}
		for _, d := range pass.PtDraws {
			rnd.draw(&r.GlobalParamPt[d.Poly], ta.ListPunchThrough, gl.TRIANGLE_STRIP, d.First, d.Count)
		}

		gl.Enable(gl.BLEND)
		for _, d := range pass.TrDraws {
			rnd.draw(&r.GlobalParamTr[d.Poly], ta.ListTranslucent, gl.TRIANGLE_STRIP, d.First, d.Count)
		}
		for _, st := range r.SortedTriangles[sorted:pass.SortedTrCount] {
			rnd.drawSorted(&r.GlobalParamTr[st.Poly], st.First, st.Count)
		}
		sorted = pass.SortedTrCount
	}

	gl.Disable(gl.BLEND)
	gl.Disable(gl.SCISSOR_TEST)
	gl.Disable(gl.PRIMITIVE_RESTART)

	return true, nil
}

func (rnd *GL) draw(pp *ta.PolyParam, list ta.ListType, mode uint32, first, count uint32) {
	rnd.setState(pp, list)
	gl.DepthFunc(depthFunc(pp.ISP.DepthMode()))
	gl.DepthMask(!pp.ISP.ZWriteDisable())
	gl.DrawElementsWithOffset(mode, int32(count), gl.UNSIGNED_INT, uintptr(first*4))
}

// sorted translucent triangles are tested but never written to the depth
// buffer
func (rnd *GL) drawSorted(pp *ta.PolyParam, first, count uint32) {
	rnd.setState(pp, ta.ListTranslucent)
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, uintptr(first*4))
}

func (rnd *GL) setState(pp *ta.PolyParam, list ta.ListType) {
	sh := &rnd.sh

	tex := rnd.texture(pp)
	gl.Uniform1i(sh.textured, boolToInt32(tex != 0))
	if tex != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap(pp.TSP.ClampU(), pp.TSP.FlipU()))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap(pp.TSP.ClampV(), pp.TSP.FlipV()))
		if pp.TSP.FilterMode() == 0 {
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		} else {
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		}
	}

	gl.Uniform1i(sh.shading, int32(pp.TSP.ShadInstr()))
	gl.Uniform1i(sh.gouraud, boolToInt32(pp.PCW.Gouraud()))
	gl.Uniform1i(sh.useAlpha, boolToInt32(list != ta.ListOpaque && pp.TSP.UseAlpha()))
	gl.Uniform1i(sh.ignoreTexA, boolToInt32(pp.TSP.IgnoreTexA()))
	gl.Uniform1i(sh.useOffset, boolToInt32(pp.PCW.Offset()))
	gl.Uniform1i(sh.punchThrough, boolToInt32(list == ta.ListPunchThrough))

	if list == ta.ListTranslucent {
		gl.BlendFunc(blendFactor(pp.TSP.SrcInstr(), true), blendFactor(pp.TSP.DstInstr(), false))
	}

	// the framebuffer is drawn upside down so the scissor rectangle is in the
	// same orientation as the tile clip
	if pp.TileClip.Mode == 2 {
		ts := int32(32 * rnd.scale)
		gl.Enable(gl.SCISSOR_TEST)
		gl.Scissor(int32(pp.TileClip.XMin)*ts, int32(pp.TileClip.YMin)*ts,
			(int32(pp.TileClip.XMax)-int32(pp.TileClip.XMin)+1)*ts,
			(int32(pp.TileClip.YMax)-int32(pp.TileClip.YMin)+1)*ts)
	} else {
		gl.Disable(gl.SCISSOR_TEST)
	}
}

// texture returns the GL texture for the PolyParam, uploading it if
// necessary. returns zero if the polygon is not textured.
func (rnd *GL) texture(pp *ta.PolyParam) uint32 {
	if !pp.PCW.Texture() {
		return 0
	}
	tex := render.TextureOf(pp.Texture)
	if tex == nil || tex.Image == nil {
		return 0
	}
	if id, ok := rnd.textures[tex]; ok {
		return id
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(tex.Image.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0,
		gl.RGBA, int32(tex.Width), int32(tex.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE,
		gl.Ptr(tex.Image.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	rnd.textures[tex] = id
	return id
}

// Frame implements the render.Frame interface.
func (rnd *GL) Frame() []byte {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, rnd.fbo)
	gl.ReadPixels(0, 0, rnd.width, rnd.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rnd.pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return rnd.pixels
}

// FrameSize implements the render.Frame interface.
func (rnd *GL) FrameSize() (int, int) {
	return int(rnd.width), int(rnd.height)
}

// Present copies the most recent frame to the default framebuffer, scaled to
// the dimensions of the window.
func (rnd *GL) Present(winWidth, winHeight int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, rnd.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.Viewport(0, 0, winWidth, winHeight)
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	// flip the frame during the copy
	gl.BlitFramebuffer(0, 0, rnd.width, rnd.height,
		0, winHeight, winWidth, 0,
		gl.COLOR_BUFFER_BIT, gl.LINEAR)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
}
