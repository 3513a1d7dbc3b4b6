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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gopherpvr/gopherpvr/curated"
)

// continuation is the action to take with the next parameter word. anything
// other than contIdle means that the previous word was the first half of a
// long parameter.
type continuation int

const (
	contIdle continuation = iota
	contPolyHeaderTail
	contPolyTail
	contSpriteTail
	contModVolTail
)

// the kind of global parameter that the current vertex parameters belong to.
type vertexMode int

const (
	modeNone vertexMode = iota
	modePoly
	modeSprite
	modeModVol
)

// Parser decodes TA parameter words into a Rend. It is normally used through
// the Parse() function but can be used directly when the data arrives in
// pieces.
type Parser struct {
	rend     *Rend
	textures TextureSource

	// the open list. ListNone if no list is open
	list ListType

	mode vertexMode
	vtx  int

	cont    continuation
	pending [ParamSize]byte

	// index of the current PolyParam or ModifierVolumeParam in the open list.
	// -1 if there is none
	pp  int
	mvp int

	// the current strip has ended. the next vertex starts a new strip
	stripEnded bool

	// face colours for intensity vertices
	faceBase  [4]uint8
	faceOffs  [4]uint8
	faceBase1 [4]uint8

	// colours for sprite vertices
	spriteBase [4]uint8
	spriteOffs [4]uint8

	// area specified by the most recent user tile clip parameter
	clipArea TileClip
}

// NewParser is the preferred method of initialisation for the Parser type. The
// textures argument can be nil.
func NewParser(rend *Rend, textures TextureSource) *Parser {
	p := &Parser{
		rend:     rend,
		textures: textures,
	}
	p.Reset()
	return p
}

// Reset the parser to its initial state. The face colours are not reset.
func (p *Parser) Reset() {
	p.list = ListNone
	p.mode = modeNone
	p.vtx = vtxInvalid
	p.cont = contIdle
	p.pp = -1
	p.mvp = -1
	p.stripEnded = false
	p.clipArea = TileClip{}
}

// List returns the currently open list. Returns ListNone if no list is open.
func (p *Parser) List() ListType {
	return p.list
}

func parserError(format string, args ...any) error {
	return curated.Errorf(ParserError, fmt.Errorf(format, args...))
}

// Feed the parser with raw TA data. The length of data must be a multiple of
// ParamSize. A long parameter may be split across two calls to Feed().
//
// If an error is returned the output of the parser is incomplete and the
// parser should be Reset() before being used again.
func (p *Parser) Feed(data []byte) error {
	if len(data)%ParamSize != 0 {
		return parserError("data length (%d) is not a multiple of %d", len(data), ParamSize)
	}

	var long [ParamSize * 2]byte

	for len(data) > 0 {
		w := data[:ParamSize]
		data = data[ParamSize:]

		// second half of a long parameter split across calls to Feed()
		if p.cont != contIdle {
			cont := p.cont
			p.cont = contIdle
			copy(long[:], p.pending[:])
			copy(long[ParamSize:], w)
			if err := p.longParam(cont, long[:]); err != nil {
				return err
			}
			continue
		}

		cont, err := p.param(w)
		if err != nil {
			return err
		}
		if cont == contIdle {
			continue
		}

		if len(data) == 0 {
			copy(p.pending[:], w)
			p.cont = cont
			return nil
		}

		copy(long[:], w)
		copy(long[ParamSize:], data[:ParamSize])
		data = data[ParamSize:]
		if err := p.longParam(cont, long[:]); err != nil {
			return err
		}
	}

	return nil
}

// End closes any open strip or volume. An error is returned if a long
// parameter is incomplete.
func (p *Parser) End() error {
	if p.cont != contIdle {
		return parserError("incomplete long parameter")
	}
	p.closeStrip()
	p.closeVolume()
	return nil
}

func word(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[i*4:])
}

func float(b []byte, i int) float32 {
	return math.Float32frombits(word(b, i))
}

// param handles a single parameter word. if the word is the first half of a
// long parameter the continuation for the second half is returned.
func (p *Parser) param(w []byte) (continuation, error) {
	pcw := PCW(word(w, 0))

	switch pcw.ParamType() {
	case ParamEndOfList:
		p.endList()

	case ParamUserTileClip:
		p.clipArea = TileClip{
			XMin: uint8(word(w, 4) & 0x3f),
			YMin: uint8(word(w, 5) & 0x0f),
			XMax: uint8(word(w, 6) & 0x3f),
			YMax: uint8(word(w, 7) & 0x0f),
		}

	case ParamObjectListSet:
		// not supported. object lists are created by the hardware for the
		// region array and are not needed to render the polygons

	case ParamPolyOrModVolume:
		if err := p.openList(pcw); err != nil {
			return contIdle, err
		}
		if p.list.IsModVol() {
			p.modVolHeader(pcw, w)
			return contIdle, nil
		}
		hdr, long := polyHeaderFormat(pcw)
		if hdr == hdrInvalid {
			return contIdle, parserError("invalid polygon header (pcw %#08x)", uint32(pcw))
		}
		if long {
			return contPolyHeaderTail, nil
		}
		return contIdle, p.polyHeader(hdr, pcw, w)

	case ParamSprite:
		if err := p.openList(pcw); err != nil {
			return contIdle, err
		}
		if p.list.IsModVol() {
			return contIdle, parserError("sprite in %s list", p.list)
		}
		p.spriteHeader(pcw, w)

	case ParamVertex:
		switch p.mode {
		case modePoly:
			if vertexIsLong(p.vtx) {
				return contPolyTail, nil
			}
			p.polyVertex(pcw, w)
		case modeSprite:
			return contSpriteTail, nil
		case modeModVol:
			return contModVolTail, nil
		default:
			return contIdle, parserError("vertex parameter without global parameter")
		}

	default:
		return contIdle, parserError("reserved parameter type (%d)", pcw.ParamType())
	}

	return contIdle, nil
}

func (p *Parser) longParam(cont continuation, b []byte) error {
	pcw := PCW(word(b, 0))

	switch cont {
	case contPolyHeaderTail:
		hdr, _ := polyHeaderFormat(pcw)
		return p.polyHeader(hdr, pcw, b)
	case contPolyTail:
		p.polyVertex(pcw, b)
	case contSpriteTail:
		p.spriteVertex(b)
	case contModVolTail:
		p.modVolVertex(b)
	}
	return nil
}

// the first global parameter after an end of list decides the list type. the
// list type of subsequent global parameters is ignored
func (p *Parser) openList(pcw PCW) error {
	if p.list != ListNone {
		return nil
	}
	l := pcw.ListType()
	if !l.Valid() {
		return parserError("invalid list type (%d)", l)
	}
	p.list = l
	return nil
}

func (p *Parser) endList() {
	p.closeStrip()
	p.closeVolume()
	p.list = ListNone
	p.mode = modeNone
	p.vtx = vtxInvalid
}

// closeStrip removes the current PolyParam if it has no vertices.
func (p *Parser) closeStrip() {
	if p.pp < 0 {
		return
	}
	if l := p.rend.PolyList(p.list); l != nil && (*l)[p.pp].Count == 0 {
		*l = (*l)[:p.pp]
	}
	p.pp = -1
	p.stripEnded = false
}

// closeVolume sets the triangle count of the current modifier volume. a volume
// with no triangles is removed.
func (p *Parser) closeVolume() {
	if p.mvp < 0 {
		return
	}
	if l := p.rend.ModVolList(p.list); l != nil {
		mv := &(*l)[p.mvp]
		mv.Count = uint32(len(p.rend.ModTrig)) - mv.First
		if mv.Count == 0 {
			*l = (*l)[:p.mvp]
		}
	}
	p.mvp = -1
}

func (p *Parser) tileClip(pcw PCW) TileClip {
	mode := pcw.UserClip()
	if mode < 2 {
		return TileClip{}
	}
	tc := p.clipArea
	tc.Mode = uint8(mode)
	return tc
}

func (p *Parser) texture(tsp TSP, tcw TCW) Texture {
	if p.textures == nil {
		return nil
	}
	return p.textures.GetTexture(tsp, tcw)
}

func (p *Parser) newPolyParam(pcw PCW, b []byte) PolyParam {
	return PolyParam{
		First:      uint32(len(p.rend.Verts)),
		PCW:        pcw,
		ISP:        ISP(word(b, 1)).withPCW(pcw),
		TSP:        TSP(word(b, 2)),
		TCW:        TCW(word(b, 3)),
		TileClip:   p.tileClip(pcw),
		MVMatrix:   -1,
		ProjMatrix: -1,
		LightModel: -1,
	}
}

func (p *Parser) appendPolyParam(pp PolyParam) {
	l := p.rend.PolyList(p.list)
	*l = append(*l, pp)
	p.pp = len(*l) - 1
	p.stripEnded = false
}

func (p *Parser) polyHeader(hdr int, pcw PCW, b []byte) error {
	vtx := polyVertexFormat(pcw)
	if vtx == vtxInvalid {
		return parserError("invalid vertex format (pcw %#08x)", uint32(pcw))
	}

	p.closeStrip()

	pp := p.newPolyParam(pcw, b)

	switch hdr {
	case hdrPolyIntensity:
		p.faceBase = floatARGB(float(b, 4), float(b, 5), float(b, 6), float(b, 7))
	case hdrPolyIntensityOffset:
		p.faceBase = floatARGB(float(b, 8), float(b, 9), float(b, 10), float(b, 11))
		p.faceOffs = floatARGB(float(b, 12), float(b, 13), float(b, 14), float(b, 15))
	case hdrPolyVol:
		pp.TSP1 = TSP(word(b, 4))
		pp.TCW1 = TCW(word(b, 5))
	case hdrPolyIntensityVol:
		pp.TSP1 = TSP(word(b, 4))
		pp.TCW1 = TCW(word(b, 5))
		p.faceBase = floatARGB(float(b, 8), float(b, 9), float(b, 10), float(b, 11))
		p.faceBase1 = floatARGB(float(b, 12), float(b, 13), float(b, 14), float(b, 15))
	}

	if pcw.Texture() {
		pp.Texture = p.texture(pp.TSP, pp.TCW)
		if pcw.Volume() {
			pp.Texture1 = p.texture(pp.TSP1, pp.TCW1)
		}
	}

	p.appendPolyParam(pp)
	p.mode = modePoly
	p.vtx = vtx

	return nil
}

// a new strip is started when the previous strip was ended by a vertex with
// the end of strip bit set. the new strip has the same render state
func (p *Parser) continueStrip() {
	if !p.stripEnded {
		return
	}
	l := p.rend.PolyList(p.list)
	if cur := (*l)[p.pp]; cur.Count > 0 {
		cur.First = uint32(len(p.rend.Verts))
		cur.Count = 0
		p.appendPolyParam(cur)
	}
	p.stripEnded = false
}

func (p *Parser) updateZ(z float32) {
	if !(z > 0 && z < 1048576.0) {
		return
	}
	r := p.rend
	if r.FZMax == 0 {
		r.FZMin = z
		r.FZMax = z
		return
	}
	r.FZMin = min(r.FZMin, z)
	r.FZMax = max(r.FZMax, z)
}

func (p *Parser) polyVertex(pcw PCW, b []byte) {
	p.continueStrip()

	v := p.decodeVertex(p.vtx, b)
	p.rend.Verts = append(p.rend.Verts, v)
	p.updateZ(v.Z)

	l := p.rend.PolyList(p.list)
	(*l)[p.pp].Count++

	if pcw.EndOfStrip() {
		p.stripEnded = true
	}
}

func uv16(w uint32) (float32, float32) {
	return f16(uint16(w >> 16)), f16(uint16(w))
}

func (p *Parser) decodeVertex(vtx int, b []byte) Vertex {
	v := Vertex{
		X: float(b, 1),
		Y: float(b, 2),
		Z: float(b, 3),
	}

	switch vtx {
	case vtxPackedColour:
		v.Col = unpackARGB(word(b, 6))
	case vtxFloatColour:
		v.Col = floatARGB(float(b, 4), float(b, 5), float(b, 6), float(b, 7))
	case vtxIntensity:
		v.Col = intensity(p.faceBase, float(b, 6))

	case vtxTexPacked:
		v.U, v.V = float(b, 4), float(b, 5)
		v.Col = unpackARGB(word(b, 6))
		v.Spc = unpackARGB(word(b, 7))
	case vtxTexPacked16:
		v.U, v.V = uv16(word(b, 4))
		v.Col = unpackARGB(word(b, 6))
		v.Spc = unpackARGB(word(b, 7))
	case vtxTexFloat:
		v.U, v.V = float(b, 4), float(b, 5)
		v.Col = floatARGB(float(b, 8), float(b, 9), float(b, 10), float(b, 11))
		v.Spc = floatARGB(float(b, 12), float(b, 13), float(b, 14), float(b, 15))
	case vtxTexFloat16:
		v.U, v.V = uv16(word(b, 4))
		v.Col = floatARGB(float(b, 8), float(b, 9), float(b, 10), float(b, 11))
		v.Spc = floatARGB(float(b, 12), float(b, 13), float(b, 14), float(b, 15))
	case vtxTexIntensity:
		v.U, v.V = float(b, 4), float(b, 5)
		v.Col = intensity(p.faceBase, float(b, 6))
		v.Spc = intensity(p.faceOffs, float(b, 7))
	case vtxTexIntensity16:
		v.U, v.V = uv16(word(b, 4))
		v.Col = intensity(p.faceBase, float(b, 6))
		v.Spc = intensity(p.faceOffs, float(b, 7))

	case vtxPackedColourVol:
		v.Col = unpackARGB(word(b, 4))
		v.Col1 = unpackARGB(word(b, 5))
	case vtxIntensityVol:
		v.Col = intensity(p.faceBase, float(b, 4))
		v.Col1 = intensity(p.faceBase1, float(b, 5))

	case vtxTexPackedVol:
		v.U, v.V = float(b, 4), float(b, 5)
		v.Col = unpackARGB(word(b, 6))
		v.Spc = unpackARGB(word(b, 7))
		v.U1, v.V1 = float(b, 8), float(b, 9)
		v.Col1 = unpackARGB(word(b, 10))
		v.Spc1 = unpackARGB(word(b, 11))
	case vtxTexPacked16Vol:
		v.U, v.V = uv16(word(b, 4))
		v.Col = unpackARGB(word(b, 6))
		v.Spc = unpackARGB(word(b, 7))
		v.U1, v.V1 = uv16(word(b, 8))
		v.Col1 = unpackARGB(word(b, 10))
		v.Spc1 = unpackARGB(word(b, 11))
	case vtxTexIntensityVol:
		v.U, v.V = float(b, 4), float(b, 5)
		v.Col = intensity(p.faceBase, float(b, 6))
		v.Spc = intensity(p.faceOffs, float(b, 7))
		v.U1, v.V1 = float(b, 8), float(b, 9)
		v.Col1 = intensity(p.faceBase1, float(b, 10))
		v.Spc1 = intensity(p.faceOffs, float(b, 11))
	case vtxTexIntensity16Vol:
		v.U, v.V = uv16(word(b, 4))
		v.Col = intensity(p.faceBase, float(b, 6))
		v.Spc = intensity(p.faceOffs, float(b, 7))
		v.U1, v.V1 = uv16(word(b, 8))
		v.Col1 = intensity(p.faceBase1, float(b, 10))
		v.Spc1 = intensity(p.faceOffs, float(b, 11))
	}

	return v
}
