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

// Package tastream builds raw TA parameter streams. It is used by tests and by
// the streamscript package to author streams without reference to the bit
// layouts of the parameter words.
//
//	b := tastream.New()
//	b.PolyHeader(ta.ListOpaque, tastream.Gouraud, 0, 0, 0)
//	b.VertexPacked(0, 0, 1, 0xffff0000, false)
//	b.VertexPacked(640, 0, 1, 0xff00ff00, false)
//	b.VertexPacked(0, 480, 1, 0xff0000ff, true)
//	b.EndOfList()
//	ctx.Write(b.Bytes())
package tastream

import (
	"encoding/binary"
	"math"

	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// Flags for global parameters. Combine with bitwise OR.
const (
	UV16    uint32 = 1 << 0
	Gouraud uint32 = 1 << 1
	Offset  uint32 = 1 << 2
	Texture uint32 = 1 << 3

	ColPacked        uint32 = 0 << 4
	ColFloat         uint32 = 1 << 4
	ColIntensity     uint32 = 2 << 4
	ColIntensityPrev uint32 = 3 << 4

	Volume uint32 = 1 << 6
	Shadow uint32 = 1 << 7

	ClipInside  uint32 = 2 << 16
	ClipOutside uint32 = 3 << 16
)

const endOfStrip = 1 << 28

// PCW creates a parameter control word.
func PCW(param ta.ParamType, list ta.ListType, flags uint32) uint32 {
	return uint32(param)<<29 | uint32(list&0x7)<<24 | flags
}

// Float returns the bits of a float32.
func Float(f float32) uint32 {
	return math.Float32bits(f)
}

// PackUV16 packs two texture coordinates into the 16bit format. The lower 16
// bits of each float32 are lost.
func PackUV16(u float32, v float32) uint32 {
	return Float(u)&0xffff0000 | Float(v)>>16
}

// Builder accumulates parameter words.
type Builder struct {
	buf []byte
}

// New is the preferred method of initialisation for the Builder type.
func New() *Builder {
	return &Builder{}
}

// Bytes returns the stream built so far.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the length of the stream in bytes.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset the stream to empty.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Words appends a parameter made of the words. The parameter is padded with
// zeroes to a multiple of the parameter size.
func (b *Builder) Words(w ...uint32) {
	n := (len(w)*4 + ta.ParamSize - 1) / ta.ParamSize * ta.ParamSize
	if n == 0 {
		n = ta.ParamSize
	}
	start := len(b.buf)
	b.buf = append(b.buf, make([]byte, n)...)
	for i, v := range w {
		binary.LittleEndian.PutUint32(b.buf[start+i*4:], v)
	}
}

func vertexPCW(eos bool) uint32 {
	p := PCW(ta.ParamVertex, 0, 0)
	if eos {
		p |= endOfStrip
	}
	return p
}

// EndOfList appends an end of list parameter.
func (b *Builder) EndOfList() {
	b.Words(PCW(ta.ParamEndOfList, 0, 0))
}

// UserTileClip appends a user tile clip parameter. Units are tiles of 32x32
// pixels.
func (b *Builder) UserTileClip(xmin, ymin, xmax, ymax uint32) {
	b.Words(PCW(ta.ParamUserTileClip, 0, 0), 0, 0, 0, xmin, ymin, xmax, ymax)
}

// ObjectListSet appends an object list set parameter.
func (b *Builder) ObjectListSet() {
	b.Words(PCW(ta.ParamObjectListSet, 0, 0))
}

// PolyHeader appends a short polygon global parameter. This is suitable for
// packed and floating colour polygons and for intensity polygons that use the
// previous face colour.
func (b *Builder) PolyHeader(list ta.ListType, flags uint32, isp, tsp, tcw uint32) {
	b.Words(PCW(ta.ParamPolyOrModVolume, list, flags), isp, tsp, tcw)
}

// PolyHeaderIntensity appends an intensity polygon global parameter with the
// face colour. The colour is in ARGB order. If the Texture and Offset flags are
// both set then the long form with a face offset colour is used.
func (b *Builder) PolyHeaderIntensity(list ta.ListType, flags uint32, isp, tsp, tcw uint32, face [4]float32, offs [4]float32) {
	flags = flags&^(3<<4) | ColIntensity
	pcw := PCW(ta.ParamPolyOrModVolume, list, flags)
	if flags&Texture != 0 && flags&Offset != 0 {
		b.Words(pcw, isp, tsp, tcw, 0, 0, 0, 0,
			Float(face[0]), Float(face[1]), Float(face[2]), Float(face[3]),
			Float(offs[0]), Float(offs[1]), Float(offs[2]), Float(offs[3]))
		return
	}
	b.Words(pcw, isp, tsp, tcw, Float(face[0]), Float(face[1]), Float(face[2]), Float(face[3]))
}

// PolyHeaderTwoVolume appends a packed colour polygon global parameter with
// two volumes.
func (b *Builder) PolyHeaderTwoVolume(list ta.ListType, flags uint32, isp, tsp0, tcw0, tsp1, tcw1 uint32) {
	flags = flags&^(3<<4) | Volume
	b.Words(PCW(ta.ParamPolyOrModVolume, list, flags), isp, tsp0, tcw0, tsp1, tcw1)
}

// VertexPacked appends a non-textured packed colour vertex.
func (b *Builder) VertexPacked(x, y, z float32, argb uint32, eos bool) {
	b.Words(vertexPCW(eos), Float(x), Float(y), Float(z), 0, 0, argb)
}

// VertexFloat appends a non-textured floating colour vertex.
func (b *Builder) VertexFloat(x, y, z float32, argb [4]float32, eos bool) {
	b.Words(vertexPCW(eos), Float(x), Float(y), Float(z),
		Float(argb[0]), Float(argb[1]), Float(argb[2]), Float(argb[3]))
}

// VertexIntensity appends a non-textured intensity vertex.
func (b *Builder) VertexIntensity(x, y, z float32, intensity float32, eos bool) {
	b.Words(vertexPCW(eos), Float(x), Float(y), Float(z), 0, 0, Float(intensity))
}

// VertexTexturedPacked appends a textured packed colour vertex.
func (b *Builder) VertexTexturedPacked(x, y, z, u, v float32, base, offs uint32, eos bool) {
	b.Words(vertexPCW(eos), Float(x), Float(y), Float(z), Float(u), Float(v), base, offs)
}

// VertexTexturedPacked16 appends a textured packed colour vertex with 16bit
// texture coordinates.
func (b *Builder) VertexTexturedPacked16(x, y, z, u, v float32, base, offs uint32, eos bool) {
	b.Words(vertexPCW(eos), Float(x), Float(y), Float(z), PackUV16(u, v), 0, base, offs)
}

// VertexTexturedFloat appends a textured floating colour vertex. This vertex
// occupies two parameter words.
func (b *Builder) VertexTexturedFloat(x, y, z, u, v float32, base, offs [4]float32, eos bool) {
	b.Words(vertexPCW(eos), Float(x), Float(y), Float(z), Float(u), Float(v), 0, 0,
		Float(base[0]), Float(base[1]), Float(base[2]), Float(base[3]),
		Float(offs[0]), Float(offs[1]), Float(offs[2]), Float(offs[3]))
}

// VertexTexturedIntensity appends a textured intensity vertex.
func (b *Builder) VertexTexturedIntensity(x, y, z, u, v float32, base, offs float32, eos bool) {
	b.Words(vertexPCW(eos), Float(x), Float(y), Float(z), Float(u), Float(v), Float(base), Float(offs))
}

// VertexPackedTwoVolume appends a non-textured packed colour vertex with two
// volumes.
func (b *Builder) VertexPackedTwoVolume(x, y, z float32, argb0, argb1 uint32, eos bool) {
	b.Words(vertexPCW(eos), Float(x), Float(y), Float(z), argb0, argb1)
}

// SpriteHeader appends a sprite global parameter.
func (b *Builder) SpriteHeader(list ta.ListType, flags uint32, isp, tsp, tcw uint32, base, offs uint32) {
	b.Words(PCW(ta.ParamSprite, list, flags), isp, tsp, tcw, base, offs)
}

// SpriteVertex appends a sprite vertex parameter. Corners a, b and c are given
// as X, Y, Z and corner d as X, Y. The texture coordinates of a, b and c are
// given as U, V and are ignored for non-textured sprites. This parameter
// occupies two parameter words.
func (b *Builder) SpriteVertex(a, bb, c [3]float32, d [2]float32, uv [3][2]float32) {
	b.Words(vertexPCW(true),
		Float(a[0]), Float(a[1]), Float(a[2]),
		Float(bb[0]), Float(bb[1]), Float(bb[2]),
		Float(c[0]), Float(c[1]), Float(c[2]),
		Float(d[0]), Float(d[1]),
		0,
		PackUV16(uv[0][0], uv[0][1]),
		PackUV16(uv[1][0], uv[1][1]),
		PackUV16(uv[2][0], uv[2][1]))
}

// ModVolHeader appends a modifier volume global parameter. The last flag
// indicates that the triangles that follow are the last in the volume.
func (b *Builder) ModVolHeader(list ta.ListType, isp uint32, last bool) {
	var flags uint32
	if last {
		flags |= Volume
	}
	b.Words(PCW(ta.ParamPolyOrModVolume, list, flags), isp)
}

// ModVolTriangle appends a modifier volume vertex parameter. The triangle is
// given as three sets of X, Y, Z. This parameter occupies two parameter words.
func (b *Builder) ModVolTriangle(v [9]float32) {
	w := make([]uint32, 10)
	w[0] = vertexPCW(false)
	for i, f := range v {
		w[i+1] = Float(f)
	}
	b.Words(w...)
}
