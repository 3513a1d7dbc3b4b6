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

package ta

import (
	"fmt"

	"github.com/gopherpvr/gopherpvr/curated"
)

// ArenaSize is the size of the raw command arena of every Context.
const ArenaSize = 8 * 1024 * 1024

// MaxPasses is the maximum number of render pass boundaries that can be
// recorded in a Context. A Context can therefore hold MaxPasses+1 passes.
const MaxPasses = 10

// initial capacities of the parsed output.
const (
	reserveVerts    = 32 * 1024
	reserveIdx      = 32 * 1024
	reserveParams   = 4 * 1024
	reserveModTrigs = 16 * 1024
)

// Texture is a handle to a texture returned by a TextureSource. The contents
// are meaningful only to the TextureSource that created it.
type Texture any

// TextureSource is implemented by renderers that keep a cache of textures. The
// GetTexture() function is called by the Parser for every textured polygon.
type TextureSource interface {
	GetTexture(tsp TSP, tcw TCW) Texture
}

// Vertex is a single decoded vertex. Colours are in RGBA order.
type Vertex struct {
	X, Y, Z float32

	// base and offset (specular) colour
	Col [4]uint8
	Spc [4]uint8

	U, V float32

	// second volume
	Col1 [4]uint8
	Spc1 [4]uint8
	U1   float32
	V1   float32

	// normal. only used in 3D transform mode
	NX, NY, NZ float32
}

// TileClip is the user tile clip area in effect for a PolyParam. Area units are
// tiles of 32x32 pixels.
type TileClip struct {
	// 0 disabled, 2 draw inside area, 3 draw outside area
	Mode       uint8
	XMin, YMin uint8
	XMax, YMax uint8
}

// Enabled returns true if tile clipping is in effect.
func (tc TileClip) Enabled() bool {
	return tc.Mode >= 2
}

// PolyParam is one polygon strip. First and Count refer to Rend.Verts.
type PolyParam struct {
	First uint32
	Count uint32

	PCW PCW
	ISP ISP
	TSP TSP
	TCW TCW

	Texture Texture

	// second volume
	TSP1     TSP
	TCW1     TCW
	Texture1 Texture

	TileClip TileClip

	// depth sort key. set by the sorter
	ZvZ float32

	// matrix and lighting model indices for 3D transform mode. -1 means that the
	// polygon does not use the 3D transform
	MVMatrix   int
	ProjMatrix int
	LightModel int
}

// the PCW bits that affect rendering: Gouraud, Offset, Texture, Volume, Shadow
// and UserClip
const pcwStateMask = 0x000300ce

// the ISP bits that affect rendering, ignoring the direction of the cull mode:
// ZWriteDisable, CullMode bit 1 and DepthMode
const ispStateMask = 0xf4000000

// EquivalentIgnoreCullingDirection returns true if the two PolyParams share
// the same render state, ignoring the direction of culling. Equivalent
// PolyParams can be drawn with a single draw call.
func (pp *PolyParam) EquivalentIgnoreCullingDirection(o *PolyParam) bool {
	return (pp.PCW^o.PCW)&pcwStateMask == 0 &&
		(pp.ISP^o.ISP)&ispStateMask == 0 &&
		pp.TSP == o.TSP && pp.TCW == o.TCW &&
		pp.TSP1 == o.TSP1 && pp.TCW1 == o.TCW1 &&
		pp.TileClip == o.TileClip &&
		pp.MVMatrix == o.MVMatrix && pp.ProjMatrix == o.ProjMatrix &&
		pp.LightModel == o.LightModel
}

// ModifierVolumeParam is one modifier volume. First and Count refer to
// Rend.ModTrig.
type ModifierVolumeParam struct {
	First    uint32
	Count    uint32
	ISP      ISP
	TileClip TileClip
}

// ModTriangle is a single triangle of a modifier volume.
type ModTriangle struct {
	X0, Y0, Z0 float32
	X1, Y1, Z1 float32
	X2, Y2, Z2 float32
}

// SortedTriangle is a run of triangles produced by the translucent sorter.
// First and Count refer to Rend.Idx and Count is a multiple of three.
type SortedTriangle struct {
	Poly  int
	First uint32
	Count uint32
}

// Draw is a single indexed draw of a triangle strip. First and Count refer to
// Rend.Idx. Poly is the index of the PolyParam that provides the render state.
type Draw struct {
	Poly  int
	First uint32
	Count uint32
}

// RenderPass records the end of a render pass in every output list. The
// primitives of a pass are those between the counts of the previous pass and
// the counts of the pass.
type RenderPass struct {
	OpCount       int
	PtCount       int
	TrCount       int
	MvoCount      int
	MvoTrCount    int
	SortedTrCount int

	Autosort bool
	ZClear   bool

	// draws for the pass. created by the pass builder
	OpDraws []Draw
	PtDraws []Draw
	TrDraws []Draw
}

// Rend is the parsed output of a Context.
type Rend struct {
	// Verts[0] is reserved for the background
	Verts []Vertex
	Idx   []uint32

	GlobalParamOp    []PolyParam
	GlobalParamPt    []PolyParam
	GlobalParamTr    []PolyParam
	GlobalParamMvo   []ModifierVolumeParam
	GlobalParamMvoTr []ModifierVolumeParam
	ModTrig          []ModTriangle

	RenderPasses    []RenderPass
	SortedTriangles []SortedTriangle

	// range of depth values seen in the vertices
	FZMin float32
	FZMax float32

	// the vertex copied to Verts[0] by the parser
	Background Vertex
}

// PolyList returns the PolyParam list for the list type. Returns nil for the
// modifier volume lists.
func (r *Rend) PolyList(l ListType) *[]PolyParam {
	switch l {
	case ListOpaque:
		return &r.GlobalParamOp
	case ListPunchThrough:
		return &r.GlobalParamPt
	case ListTranslucent:
		return &r.GlobalParamTr
	}
	return nil
}

// ModVolList returns the ModifierVolumeParam list for the list type. Returns
// nil for the polygon lists.
func (r *Rend) ModVolList(l ListType) *[]ModifierVolumeParam {
	switch l {
	case ListOpaqueModVol:
		return &r.GlobalParamMvo
	case ListTranslucentModVol:
		return &r.GlobalParamMvoTr
	}
	return nil
}

func (r *Rend) clear() {
	r.Verts = r.Verts[:0]
	r.Idx = r.Idx[:0]
	r.GlobalParamOp = r.GlobalParamOp[:0]
	r.GlobalParamPt = r.GlobalParamPt[:0]
	r.GlobalParamTr = r.GlobalParamTr[:0]
	r.GlobalParamMvo = r.GlobalParamMvo[:0]
	r.GlobalParamMvoTr = r.GlobalParamMvoTr[:0]
	r.ModTrig = r.ModTrig[:0]
	r.RenderPasses = r.RenderPasses[:0]
	r.SortedTriangles = r.SortedTriangles[:0]
	r.FZMin = 0
	r.FZMax = 0
}

// tad is the raw command arena.
type tad struct {
	data    []byte
	cursor  int
	passes  []int
	overrun bool
}

// Context is a reusable arena for the raw TA data and the parsed output of a
// single render. Contexts are owned by a Pool.
type Context struct {
	// the address the context is bound to
	Address uint32

	// frame number when the context was last rendered
	LastFrameUsed uint64

	// the next context in a multi-context render. contexts in the chain are
	// parsed into the Rend of the first context
	NextContext *Context

	// region information for the render. if nil the Regions value in
	// ParseOptions is used
	Regions Regions

	tad  tad
	Rend Rend
}

func newContext() *Context {
	return &Context{
		tad: tad{
			data:   make([]byte, ArenaSize),
			passes: make([]int, 0, MaxPasses),
		},
		Rend: Rend{
			Verts:            make([]Vertex, 0, reserveVerts),
			Idx:              make([]uint32, 0, reserveIdx),
			GlobalParamOp:    make([]PolyParam, 0, reserveParams),
			GlobalParamPt:    make([]PolyParam, 0, reserveParams),
			GlobalParamTr:    make([]PolyParam, 0, reserveParams),
			GlobalParamMvo:   make([]ModifierVolumeParam, 0, reserveParams),
			GlobalParamMvoTr: make([]ModifierVolumeParam, 0, reserveParams),
			ModTrig:          make([]ModTriangle, 0, reserveModTrigs),
		},
	}
}

func (ctx *Context) String() string {
	return fmt.Sprintf("ctx %#08x: %d bytes in %d passes", ctx.Address, ctx.tad.cursor, len(ctx.tad.passes)+1)
}

// Reset the context. The raw arena and the parsed output are emptied.
func (ctx *Context) Reset() {
	ctx.tad.cursor = 0
	ctx.tad.passes = ctx.tad.passes[:0]
	ctx.tad.overrun = false
	ctx.NextContext = nil
	ctx.Regions = nil
	ctx.Rend.clear()
	ctx.Rend.Background = Vertex{}
}

// Write raw TA data to the arena. If there is not enough room in the arena the
// data that will fit is written, the Context is marked as overrun and an
// ArenaOverrun error returned.
func (ctx *Context) Write(data []byte) error {
	n := copy(ctx.tad.data[ctx.tad.cursor:], data)
	ctx.tad.cursor += n
	if n < len(data) {
		ctx.tad.overrun = true
		return curated.Errorf(ArenaOverrun, len(data)-n)
	}
	return nil
}

// MarkPass records the current end of the raw data as the end of a render pass.
// Data written after this call belongs to the next pass.
func (ctx *Context) MarkPass() error {
	if len(ctx.tad.passes) >= MaxPasses {
		return curated.Errorf(TooManyPasses, MaxPasses)
	}
	ctx.tad.passes = append(ctx.tad.passes, ctx.tad.cursor)
	return nil
}

// Overrun returns true if data was discarded because the arena was full.
func (ctx *Context) Overrun() bool {
	return ctx.tad.overrun
}

// Len returns the number of raw bytes written to the context.
func (ctx *Context) Len() int {
	return ctx.tad.cursor
}

// Raw returns the raw data written to the context. The returned slice must not
// be retained after the context has been recycled.
func (ctx *Context) Raw() []byte {
	return ctx.tad.data[:ctx.tad.cursor]
}

// Passes returns the raw data ranges of each render pass. The number of ranges
// is one more than the number of recorded pass boundaries.
func (ctx *Context) Passes() [][2]int {
	r := make([][2]int, 0, len(ctx.tad.passes)+1)
	start := 0
	for _, end := range ctx.tad.passes {
		r = append(r, [2]int{start, end})
		start = end
	}
	return append(r, [2]int{start, ctx.tad.cursor})
}
