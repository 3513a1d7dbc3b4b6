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

// bit 26 of the ISP word of a modifier volume parameter
const ispVolumeLast = 1 << 26

func (p *Parser) modVolHeader(pcw PCW, b []byte) {
	p.closeVolume()

	isp := ISP(word(b, 1)) &^ ispVolumeLast
	if pcw.Volume() {
		isp |= ispVolumeLast
	}

	l := p.rend.ModVolList(p.list)
	*l = append(*l, ModifierVolumeParam{
		First:    uint32(len(p.rend.ModTrig)),
		ISP:      isp,
		TileClip: p.tileClip(pcw),
	})
	p.mvp = len(*l) - 1
	p.mode = modeModVol
	p.vtx = vtxModVol
}

func (p *Parser) modVolVertex(b []byte) {
	p.rend.ModTrig = append(p.rend.ModTrig, ModTriangle{
		X0: float(b, 1), Y0: float(b, 2), Z0: float(b, 3),
		X1: float(b, 4), Y1: float(b, 5), Z1: float(b, 6),
		X2: float(b, 7), Y2: float(b, 8), Z2: float(b, 9),
	})
}
