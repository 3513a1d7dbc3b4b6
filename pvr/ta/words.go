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

import "fmt"

// ParamSize is the size in bytes of a single parameter word. Long parameters
// occupy two consecutive parameter words.
const ParamSize = 32

// ParamType is the type of parameter indicated by bits 29 to 31 of the PCW.
type ParamType uint8

// List of valid ParamType values. Types 3 and 6 are reserved.
const (
	ParamEndOfList       ParamType = 0
	ParamUserTileClip    ParamType = 1
	ParamObjectListSet   ParamType = 2
	ParamPolyOrModVolume ParamType = 4
	ParamSprite          ParamType = 5
	ParamVertex          ParamType = 7
)

func (t ParamType) String() string {
	switch t {
	case ParamEndOfList:
		return "end of list"
	case ParamUserTileClip:
		return "user tile clip"
	case ParamObjectListSet:
		return "object list set"
	case ParamPolyOrModVolume:
		return "polygon/modifier volume"
	case ParamSprite:
		return "sprite"
	case ParamVertex:
		return "vertex"
	}
	return fmt.Sprintf("reserved (%d)", uint8(t))
}

// ListType is the type of list indicated by bits 24 to 26 of the PCW.
type ListType uint8

// List of valid ListType values.
const (
	ListOpaque            ListType = 0
	ListOpaqueModVol      ListType = 1
	ListTranslucent       ListType = 2
	ListTranslucentModVol ListType = 3
	ListPunchThrough      ListType = 4

	// NumLists is the number of list types defined by the hardware
	NumLists = 5

	// ListNone indicates that no list is open
	ListNone ListType = 0xff
)

func (l ListType) String() string {
	switch l {
	case ListOpaque:
		return "OP"
	case ListOpaqueModVol:
		return "OP_MOD"
	case ListTranslucent:
		return "TR"
	case ListTranslucentModVol:
		return "TR_MOD"
	case ListPunchThrough:
		return "PT"
	case ListNone:
		return "none"
	}
	return fmt.Sprintf("invalid (%d)", uint8(l))
}

// Valid returns true if the list type is one of the five types defined by the
// hardware.
func (l ListType) Valid() bool {
	return l < NumLists
}

// IsModVol returns true if the list is one of the modifier volume lists.
func (l ListType) IsModVol() bool {
	return l == ListOpaqueModVol || l == ListTranslucentModVol
}

func bits(v uint32, lo uint, width uint) uint32 {
	return (v >> lo) & ((1 << width) - 1)
}

func bit(v uint32, b uint) bool {
	return v&(1<<b) != 0
}

// PCW is the parameter control word found at the start of every parameter.
type PCW uint32

// UV16 is true if texture coordinates are sent as two 16bit values.
func (p PCW) UV16() bool { return bit(uint32(p), 0) }

// Gouraud is true if the polygon is gouraud shaded.
func (p PCW) Gouraud() bool { return bit(uint32(p), 1) }

// Offset is true if the offset colour is used.
func (p PCW) Offset() bool { return bit(uint32(p), 2) }

// Texture is true if the polygon is textured.
func (p PCW) Texture() bool { return bit(uint32(p), 3) }

// ColType is the colour format of the vertices that follow a global parameter:
// 0 packed, 1 floating, 2 intensity, 3 intensity using the previous face
// colour.
func (p PCW) ColType() uint32 { return bits(uint32(p), 4, 2) }

// Volume is true if the polygon has two volumes, or for modifier volume
// parameters, if the polygon is the last in the volume.
func (p PCW) Volume() bool { return bit(uint32(p), 6) }

// Shadow is true if the polygon is affected by modifier volumes.
func (p PCW) Shadow() bool { return bit(uint32(p), 7) }

// UserClip is the user tile clip mode.
func (p PCW) UserClip() uint32 { return bits(uint32(p), 16, 2) }

// StripLen is the hardware strip length hint.
func (p PCW) StripLen() uint32 { return bits(uint32(p), 18, 2) }

// GroupEn is true if the group control fields are valid.
func (p PCW) GroupEn() bool { return bit(uint32(p), 23) }

// ListType of the parameter. Only meaningful for global parameters.
func (p PCW) ListType() ListType { return ListType(bits(uint32(p), 24, 3)) }

// EndOfStrip is true for the last vertex in a strip.
func (p PCW) EndOfStrip() bool { return bit(uint32(p), 28) }

// ParamType of the parameter.
func (p PCW) ParamType() ParamType { return ParamType(bits(uint32(p), 29, 3)) }

// the PCW bits that are copied into the ISP word.
const pcwToISP = 0x0f

// ISP is the image synthesis processor control word.
type ISP uint32

// DCalcCtrl is the D calculation control bit.
func (i ISP) DCalcCtrl() bool { return bit(uint32(i), 20) }

// CacheBypass is the cache bypass bit.
func (i ISP) CacheBypass() bool { return bit(uint32(i), 21) }

// UV16 mirrors PCW.UV16.
func (i ISP) UV16() bool { return bit(uint32(i), 22) }

// Gouraud mirrors PCW.Gouraud.
func (i ISP) Gouraud() bool { return bit(uint32(i), 23) }

// Offset mirrors PCW.Offset.
func (i ISP) Offset() bool { return bit(uint32(i), 24) }

// Texture mirrors PCW.Texture.
func (i ISP) Texture() bool { return bit(uint32(i), 25) }

// ZWriteDisable is true if the depth buffer is not updated.
func (i ISP) ZWriteDisable() bool { return bit(uint32(i), 26) }

// CullMode is the culling mode: 0 none, 1 cull small, 2 cull clockwise, 3 cull
// counter-clockwise.
func (i ISP) CullMode() uint32 { return bits(uint32(i), 27, 2) }

// DepthMode is the depth compare function: 0 never, 1 less, 2 equal, 3 less or
// equal, 4 greater, 5 not equal, 6 greater or equal, 7 always.
func (i ISP) DepthMode() uint32 { return bits(uint32(i), 29, 3) }

// VolumeLast is true if the modifier volume polygon is the last of the volume.
// Only meaningful for modifier volume parameters.
func (i ISP) VolumeLast() bool { return bit(uint32(i), 26) }

// ModVolInstr is the modifier volume instruction: 0 normal polygon, 1 inside
// last polygon, 2 outside last polygon. Only meaningful for modifier volume
// parameters.
func (i ISP) ModVolInstr() uint32 { return bits(uint32(i), 29, 3) }

// withPCW returns the ISP with the PCW bits that take precedence copied into
// bits 22 to 25.
func (i ISP) withPCW(p PCW) ISP {
	return ISP(uint32(i)&^(pcwToISP<<22) | (uint32(p)&pcwToISP)<<22)
}

// TSP is the texture and shading processor control word.
type TSP uint32

// TexV is the texture height as a power of two (8 << TexV).
func (t TSP) TexV() uint32 { return bits(uint32(t), 0, 3) }

// TexU is the texture width as a power of two (8 << TexU).
func (t TSP) TexU() uint32 { return bits(uint32(t), 3, 3) }

// Width of the texture in texels.
func (t TSP) Width() int { return 8 << t.TexU() }

// Height of the texture in texels.
func (t TSP) Height() int { return 8 << t.TexV() }

// ShadInstr is the texture shading instruction.
func (t TSP) ShadInstr() uint32 { return bits(uint32(t), 6, 2) }

// MipMapD is the mip-map D adjust value.
func (t TSP) MipMapD() uint32 { return bits(uint32(t), 8, 4) }

// SupSample is the super sample bit.
func (t TSP) SupSample() bool { return bit(uint32(t), 12) }

// FilterMode is the texture filter: 0 point sampled, 1 bilinear, 2 and 3
// trilinear.
func (t TSP) FilterMode() uint32 { return bits(uint32(t), 13, 2) }

// ClampV is true if the V coordinate is clamped.
func (t TSP) ClampV() bool { return bit(uint32(t), 15) }

// ClampU is true if the U coordinate is clamped.
func (t TSP) ClampU() bool { return bit(uint32(t), 16) }

// FlipV is true if the V coordinate is mirrored.
func (t TSP) FlipV() bool { return bit(uint32(t), 17) }

// FlipU is true if the U coordinate is mirrored.
func (t TSP) FlipU() bool { return bit(uint32(t), 18) }

// IgnoreTexA is true if texture alpha is ignored.
func (t TSP) IgnoreTexA() bool { return bit(uint32(t), 19) }

// UseAlpha is true if vertex alpha is used.
func (t TSP) UseAlpha() bool { return bit(uint32(t), 20) }

// ColorClamp is true if colour clamping is enabled.
func (t TSP) ColorClamp() bool { return bit(uint32(t), 21) }

// FogCtrl is the fog mode: 0 table, 1 vertex, 2 none, 3 table mode 2.
func (t TSP) FogCtrl() uint32 { return bits(uint32(t), 22, 2) }

// DstSelect selects the secondary accumulation buffer as destination.
func (t TSP) DstSelect() bool { return bit(uint32(t), 24) }

// SrcSelect selects the secondary accumulation buffer as source.
func (t TSP) SrcSelect() bool { return bit(uint32(t), 25) }

// DstInstr is the destination blend factor.
func (t TSP) DstInstr() uint32 { return bits(uint32(t), 26, 3) }

// SrcInstr is the source blend factor.
func (t TSP) SrcInstr() uint32 { return bits(uint32(t), 29, 3) }

// TCW is the texture control word.
type TCW uint32

// TexAddr is the texture address in VRAM in units of 8 bytes.
func (t TCW) TexAddr() uint32 { return bits(uint32(t), 0, 21) }

// StrideSel is true if the texture width is taken from the stride register.
func (t TCW) StrideSel() bool { return bit(uint32(t), 25) }

// ScanOrder is true for non-twiddled textures.
func (t TCW) ScanOrder() bool { return bit(uint32(t), 26) }

// PixelFmt is the texel format: 0 ARGB1555, 1 RGB565, 2 ARGB4444, 3 YUV422,
// 4 bump map, 5 4bpp palette, 6 8bpp palette.
func (t TCW) PixelFmt() uint32 { return bits(uint32(t), 27, 3) }

// VQ is true if the texture is vector quantised.
func (t TCW) VQ() bool { return bit(uint32(t), 30) }

// MipMapped is true if the texture has mip-maps.
func (t TCW) MipMapped() bool { return bit(uint32(t), 31) }
