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

package streamscript

import (
	lua "github.com/yuin/gopher-lua"
)

// ta.address(address)
func (scr *Script) address(L *lua.LState) int {
	scr.check(L, scr.flush())
	scr.check(L, scr.wr.SetAddress(checkUint32(L, 1)))
	return 0
}

// ta.poly(list, flags, isp, tsp, tcw)
func (scr *Script) poly(L *lua.LState) int {
	scr.b.PolyHeader(checkList(L, 1), optUint32(L, 2), optUint32(L, 3), optUint32(L, 4), optUint32(L, 5))
	return 0
}

// ta.vertex(x, y, z, argb, [eos])
func (scr *Script) vertex(L *lua.LState) int {
	scr.b.VertexPacked(checkFloat(L, 1), checkFloat(L, 2), checkFloat(L, 3), checkUint32(L, 4), L.OptBool(5, false))
	return 0
}

// ta.textured(x, y, z, u, v, base, offset, [eos])
func (scr *Script) textured(L *lua.LState) int {
	scr.b.VertexTexturedPacked(checkFloat(L, 1), checkFloat(L, 2), checkFloat(L, 3),
		checkFloat(L, 4), checkFloat(L, 5),
		checkUint32(L, 6), optUint32(L, 7), L.OptBool(8, false))
	return 0
}

// ta.endlist()
func (scr *Script) endlist(L *lua.LState) int {
	scr.b.EndOfList()
	return 0
}

// ta.tileclip(xmin, ymin, xmax, ymax)
func (scr *Script) tileclip(L *lua.LState) int {
	scr.b.UserTileClip(checkUint32(L, 1), checkUint32(L, 2), checkUint32(L, 3), checkUint32(L, 4))
	return 0
}

// ta.sprite(list, flags, isp, tsp, tcw, base, offset)
func (scr *Script) sprite(L *lua.LState) int {
	scr.b.SpriteHeader(checkList(L, 1), optUint32(L, 2), optUint32(L, 3), optUint32(L, 4), optUint32(L, 5),
		optUint32(L, 6), optUint32(L, 7))
	return 0
}

// ta.spritevertex(ax, ay, az, bx, by, bz, cx, cy, cz, dx, dy)
func (scr *Script) spritevertex(L *lua.LState) int {
	var f [11]float32
	for i := range f {
		f[i] = checkFloat(L, i+1)
	}
	scr.b.SpriteVertex(
		[3]float32{f[0], f[1], f[2]},
		[3]float32{f[3], f[4], f[5]},
		[3]float32{f[6], f[7], f[8]},
		[2]float32{f[9], f[10]},
		[3][2]float32{{0, 0}, {1, 0}, {1, 1}})
	return 0
}

// ta.modvol(list, isp, [last])
func (scr *Script) modvol(L *lua.LState) int {
	l := checkList(L, 1)
	if !l.IsModVol() {
		L.ArgError(1, "not a modifier volume list")
	}
	scr.b.ModVolHeader(l, optUint32(L, 2), L.OptBool(3, false))
	return 0
}

// ta.modtriangle(x0, y0, z0, x1, y1, z1, x2, y2, z2)
func (scr *Script) modtriangle(L *lua.LState) int {
	var v [9]float32
	for i := range v {
		v[i] = checkFloat(L, i+1)
	}
	scr.b.ModVolTriangle(v)
	return 0
}

// ta.listcont()
func (scr *Script) listcont(L *lua.LState) int {
	scr.check(L, scr.flush())
	scr.check(L, scr.wr.ListCont())
	return 0
}

// ta.softreset()
func (scr *Script) softreset(L *lua.LState) int {
	scr.b.Reset()
	scr.check(L, scr.wr.SoftReset())
	return 0
}

// ta.render(address, [autosort], [background argb], [background depth], [chained addresses...])
func (scr *Script) render(L *lua.LState) int {
	scr.check(L, scr.flush())

	var chain []uint32
	for n := 5; n <= L.GetTop(); n++ {
		chain = append(chain, checkUint32(L, n))
	}

	depth := float32(L.OptNumber(4, 1))
	scr.check(L, scr.wr.StartRender(checkUint32(L, 1), L.OptBool(2, false), depth, optUint32(L, 3), chain...))
	scr.Renders++

	return 0
}
