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

import "github.com/go-gl/gl/v3.2-core/gl"

// depthFunc returns the GL depth function for the ISP depth compare mode. the
// depth written by the vertex shader is inverted so that nearer polygons have
// smaller values. the sense of the comparison is therefore reversed.
func depthFunc(mode uint32) uint32 {
	switch mode {
	case 0:
		return gl.NEVER
	case 1:
		return gl.GREATER
	case 2:
		return gl.EQUAL
	case 3:
		return gl.GEQUAL
	case 4:
		return gl.LESS
	case 5:
		return gl.NOTEQUAL
	case 6:
		return gl.LEQUAL
	}
	return gl.ALWAYS
}

// blendFactor returns the GL blend factor for a TSP blend instruction. the
// "other colour" is the destination colour for the source factor and the
// source colour for the destination factor.
func blendFactor(instr uint32, src bool) uint32 {
	switch instr {
	case 0:
		return gl.ZERO
	case 1:
		return gl.ONE
	case 2:
		if src {
			return gl.DST_COLOR
		}
		return gl.SRC_COLOR
	case 3:
		if src {
			return gl.ONE_MINUS_DST_COLOR
		}
		return gl.ONE_MINUS_SRC_COLOR
	case 4:
		return gl.SRC_ALPHA
	case 5:
		return gl.ONE_MINUS_SRC_ALPHA
	case 6:
		return gl.DST_ALPHA
	}
	return gl.ONE_MINUS_DST_ALPHA
}

func wrap(clamp, flip bool) int32 {
	switch {
	case clamp:
		return gl.CLAMP_TO_EDGE
	case flip:
		return gl.MIRRORED_REPEAT
	}
	return gl.REPEAT
}
