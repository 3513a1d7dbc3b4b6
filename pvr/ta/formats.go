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

// vertex formats. the first 15 are polygon vertex formats selected by the
// global parameter. the remainder are implied by the type of global parameter
const (
	vtxPackedColour = iota
	vtxFloatColour
	vtxIntensity
	vtxTexPacked
	vtxTexPacked16
	vtxTexFloat
	vtxTexFloat16
	vtxTexIntensity
	vtxTexIntensity16
	vtxPackedColourVol
	vtxIntensityVol
	vtxTexPackedVol
	vtxTexPacked16Vol
	vtxTexIntensityVol
	vtxTexIntensity16Vol
	vtxSprite
	vtxSpriteTextured
	vtxModVol

	vtxInvalid = -1
)

// long vertex formats occupy two parameter words.
func vertexIsLong(vtx int) bool {
	switch vtx {
	case vtxTexFloat, vtxTexFloat16,
		vtxTexPackedVol, vtxTexPacked16Vol,
		vtxTexIntensityVol, vtxTexIntensity16Vol,
		vtxSprite, vtxSpriteTextured, vtxModVol:
		return true
	}
	return false
}

// polyVertexFormat returns the vertex format used by the vertices that follow
// a polygon global parameter. returns vtxInvalid if the combination of PCW
// bits is not valid.
func polyVertexFormat(pcw PCW) int {
	col := pcw.ColType()

	if !pcw.Volume() {
		if !pcw.Texture() {
			switch col {
			case 0:
				return vtxPackedColour
			case 1:
				return vtxFloatColour
			default:
				return vtxIntensity
			}
		}

		var vtx int
		switch col {
		case 0:
			vtx = vtxTexPacked
		case 1:
			vtx = vtxTexFloat
		default:
			vtx = vtxTexIntensity
		}
		if pcw.UV16() {
			vtx++
		}
		return vtx
	}

	// floating colour is not supported with two volumes
	if col == 1 {
		return vtxInvalid
	}

	if !pcw.Texture() {
		if col == 0 {
			return vtxPackedColourVol
		}
		return vtxIntensityVol
	}

	var vtx int
	if col == 0 {
		vtx = vtxTexPackedVol
	} else {
		vtx = vtxTexIntensityVol
	}
	if pcw.UV16() {
		vtx++
	}
	return vtx
}

// polygon global parameter formats.
const (
	hdrPoly = iota
	hdrPolyIntensity
	hdrPolyIntensityOffset
	hdrPolyVol
	hdrPolyIntensityVol

	hdrInvalid = -1
)

// polyHeaderFormat returns the polygon global parameter format indicated by the
// PCW and whether the global parameter occupies two parameter words.
func polyHeaderFormat(pcw PCW) (int, bool) {
	col := pcw.ColType()

	if !pcw.Volume() {
		switch col {
		case 0, 1:
			return hdrPoly, false
		case 2:
			if pcw.Texture() && pcw.Offset() {
				return hdrPolyIntensityOffset, true
			}
			return hdrPolyIntensity, false
		default:
			// intensity using the previous face colour
			return hdrPoly, false
		}
	}

	switch col {
	case 0, 3:
		return hdrPolyVol, false
	case 2:
		return hdrPolyIntensityVol, true
	}
	return hdrInvalid, false
}
