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

func (p *Parser) spriteHeader(pcw PCW, b []byte) {
	p.closeStrip()

	pp := p.newPolyParam(pcw, b)
	if pcw.Texture() {
		pp.Texture = p.texture(pp.TSP, pp.TCW)
	}

	p.spriteBase = unpackARGB(word(b, 4))
	p.spriteOffs = unpackARGB(word(b, 5))

	p.appendPolyParam(pp)
	p.mode = modeSprite
	if pcw.Texture() {
		p.vtx = vtxSpriteTextured
	} else {
		p.vtx = vtxSprite
	}
}

// spriteVertex decodes the two halves of a sprite vertex parameter. A sprite
// is sent as three corners (A, B and C) with depth and texture coordinates,
// and the screen position of the fourth corner (D). The depth and texture
// coordinates of D are found with CalculateSpritePlane().
//
// The four corners are output as a triangle strip in the order D, C, A, B.
func (p *Parser) spriteVertex(b []byte) {
	// every sprite is a strip of its own
	p.stripEnded = true
	p.continueStrip()

	var a, bb, c, d Vertex

	a.X, a.Y, a.Z = float(b, 1), float(b, 2), float(b, 3)
	bb.X, bb.Y, bb.Z = float(b, 4), float(b, 5), float(b, 6)
	c.X, c.Y, c.Z = float(b, 7), float(b, 8), float(b, 9)
	d.X, d.Y = float(b, 10), float(b, 11)

	if p.vtx == vtxSpriteTextured {
		a.U, a.V = uv16(word(b, 13))
		bb.U, bb.V = uv16(word(b, 14))
		c.U, c.V = uv16(word(b, 15))
	}

	CalculateSpritePlane(&a, &bb, &c, &d)

	for _, v := range []*Vertex{&d, &c, &a, &bb} {
		v.Col = p.spriteBase
		v.Spc = p.spriteOffs
		p.rend.Verts = append(p.rend.Verts, *v)
		p.updateZ(v.Z)
	}

	l := p.rend.PolyList(p.list)
	(*l)[p.pp].Count += 4
	p.stripEnded = true
}

// CalculateSpritePlane sets the depth and texture coordinates of corner d such
// that it lies in the plane defined by corners a, b and c. Only the X and Y
// fields of d are used as input.
//
// If a, b and c are colinear then d takes the values of a.
func CalculateSpritePlane(a, b, c, d *Vertex) {
	abx, aby := b.X-a.X, b.Y-a.Y
	acx, acy := c.X-a.X, c.Y-a.Y
	adx, ady := d.X-a.X, d.Y-a.Y

	det := abx*acy - aby*acx
	if det == 0 {
		d.Z, d.U, d.V = a.Z, a.U, a.V
		return
	}

	// solve ad = k1*ab + k2*ac
	k1 := (adx*acy - ady*acx) / det
	k2 := (abx*ady - aby*adx) / det

	d.Z = a.Z + k1*(b.Z-a.Z) + k2*(c.Z-a.Z)
	d.U = a.U + k1*(b.U-a.U) + k2*(c.U-a.U)
	d.V = a.V + k1*(b.V-a.V) + k2*(c.V-a.V)
}
