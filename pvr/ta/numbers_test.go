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
	"math"
	"testing"

	"github.com/gopherpvr/gopherpvr/test"
)

func TestSaturation(t *testing.T) {
	test.ExpectEquality(t, satu(0), 0)
	test.ExpectEquality(t, satu(-0.5), 0)
	test.ExpectEquality(t, satu(1.0), 255)
	test.ExpectEquality(t, satu(100), 255)
	test.ExpectEquality(t, satu(0.5), 128)
	test.ExpectEquality(t, satu(float32(math.Inf(1))), 255)
	test.ExpectEquality(t, satu(float32(math.NaN())), 0)

	// the table is monotonic over the range 0 to 1
	prev := uint8(0)
	for i := 0; i <= 1000; i++ {
		v := satu(float32(i) / 1000)
		test.ExpectSuccess(t, v >= prev, i)
		prev = v
	}
}

func TestF16(t *testing.T) {
	test.ExpectEquality(t, f16(0x3f80), 1.0)
	test.ExpectEquality(t, f16(0x3f00), 0.5)
	test.ExpectEquality(t, f16(0xbf80), -1.0)
	test.ExpectEquality(t, f16(0), 0)
}

func TestUnpackARGB(t *testing.T) {
	test.ExpectEquality(t, unpackARGB(0x11223344), [4]uint8{0x22, 0x33, 0x44, 0x11})
}

func TestISPWithPCW(t *testing.T) {
	isp := ISP(0xffffffff).withPCW(PCW(0x0a))
	test.ExpectEquality(t, isp.UV16(), false)
	test.ExpectEquality(t, isp.Gouraud(), true)
	test.ExpectEquality(t, isp.Offset(), false)
	test.ExpectEquality(t, isp.Texture(), true)
	test.ExpectEquality(t, isp.DepthMode(), 7)
}

func TestFormats(t *testing.T) {
	hdr, long := polyHeaderFormat(PCW(2<<4 | 1<<3 | 1<<2))
	test.ExpectEquality(t, hdr, hdrPolyIntensityOffset)
	test.ExpectEquality(t, long, true)

	hdr, long = polyHeaderFormat(PCW(1<<6 | 2<<4))
	test.ExpectEquality(t, hdr, hdrPolyIntensityVol)
	test.ExpectEquality(t, long, true)

	hdr, _ = polyHeaderFormat(PCW(1<<6 | 1<<4))
	test.ExpectEquality(t, hdr, hdrInvalid)

	test.ExpectEquality(t, polyVertexFormat(PCW(1<<3|1<<0)), vtxTexPacked16)
	test.ExpectEquality(t, polyVertexFormat(PCW(1<<6|1<<3|3<<4|1<<0)), vtxTexIntensity16Vol)
	test.ExpectEquality(t, vertexIsLong(vtxTexIntensity16Vol), true)
	test.ExpectEquality(t, vertexIsLong(vtxTexIntensity16), false)
}
