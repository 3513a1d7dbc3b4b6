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

import "math"

// saturation table for converting float32 colour components in the range 0.0
// to 1.0 to an 8bit value. indexed by the upper 16 bits of the float
var satuTable [65536]uint8

func init() {
	for i := range satuTable {
		f := math.Float32frombits(uint32(i) << 16)
		switch {
		case f != f: // NaN
			satuTable[i] = 0
		case f <= 0:
			satuTable[i] = 0
		case f >= 1:
			satuTable[i] = 255
		default:
			satuTable[i] = uint8(f*255 + 0.5)
		}
	}
}

// satu converts a floating point colour component to an 8bit value, clamping
// to the range 0 to 255.
func satu(f float32) uint8 {
	return satuTable[math.Float32bits(f)>>16]
}

// f16 converts the 16bit texture coordinate format to a float32. The 16 bits
// are the upper half of a float32.
func f16(v uint16) float32 {
	return math.Float32frombits(uint32(v) << 16)
}

// packed colours are in ARGB order. vertex colours are in RGBA order.
func unpackARGB(c uint32) [4]uint8 {
	return [4]uint8{uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)}
}

// floating point colour components in ARGB order.
func floatARGB(a, r, g, b float32) [4]uint8 {
	return [4]uint8{satu(r), satu(g), satu(b), satu(a)}
}

// intensity returns the face colour scaled by the intensity. the alpha
// component is taken from the face colour unchanged.
func intensity(face [4]uint8, i float32) [4]uint8 {
	s := uint32(satu(i))
	return [4]uint8{
		uint8(uint32(face[0]) * s / 256),
		uint8(uint32(face[1]) * s / 256),
		uint8(uint32(face[2]) * s / 256),
		face[3],
	}
}
