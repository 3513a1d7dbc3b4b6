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

// Package streamscript creates stream files from Lua scripts. The script
// describes the TA activity with the functions of the "ta" table:
//
//	ta.address(0x1000)
//	ta.poly(ta.OPAQUE, ta.GOURAUD, 0, 0, 0)
//	ta.vertex(0, 0, 1, 0xffff0000)
//	ta.vertex(640, 0, 1, 0xff00ff00)
//	ta.vertex(0, 480, 1, 0xff0000ff, true)
//	ta.endlist()
//	ta.render(0x1000, true, 0xff000000)
//
// Parameters are accumulated and written to the stream file as a single
// write record when the script changes the address, continues the list,
// resets or starts a render.
package streamscript

import (
	"io"

	lua "github.com/yuin/gopher-lua"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/pvr/ta/tastream"
	"github.com/gopherpvr/gopherpvr/streamfile"
)

// ScriptError is the pattern used for errors raised while running a script.
const ScriptError = "streamscript: %v"

// Script is a Lua interpreter that writes a stream file.
type Script struct {
	L  *lua.LState
	b  *tastream.Builder
	wr *streamfile.Writer

	// the number of renders started by the script
	Renders int
}

// NewScript is the preferred method of initialisation for the Script type. The
// stream file is written to out.
func NewScript(out io.Writer) (*Script, error) {
	wr, err := streamfile.NewWriter(out)
	if err != nil {
		return nil, err
	}

	scr := &Script{
		L:  lua.NewState(),
		b:  tastream.New(),
		wr: wr,
	}

	tb := scr.L.NewTable()
	scr.L.SetFuncs(tb, map[string]lua.LGFunction{
		"address":      scr.address,
		"poly":         scr.poly,
		"vertex":       scr.vertex,
		"textured":     scr.textured,
		"endlist":      scr.endlist,
		"tileclip":     scr.tileclip,
		"sprite":       scr.sprite,
		"spritevertex": scr.spritevertex,
		"modvol":       scr.modvol,
		"modtriangle":  scr.modtriangle,
		"listcont":     scr.listcont,
		"softreset":    scr.softreset,
		"render":       scr.render,
	})

	constants := map[string]uint32{
		"OPAQUE":             uint32(ta.ListOpaque),
		"OPAQUE_MODVOL":      uint32(ta.ListOpaqueModVol),
		"TRANSLUCENT":        uint32(ta.ListTranslucent),
		"TRANSLUCENT_MODVOL": uint32(ta.ListTranslucentModVol),
		"PUNCHTHROUGH":       uint32(ta.ListPunchThrough),
		"GOURAUD":            tastream.Gouraud,
		"TEXTURE":            tastream.Texture,
		"OFFSET":             tastream.Offset,
		"UV16":               tastream.UV16,
		"CLIP_INSIDE":        tastream.ClipInside,
		"CLIP_OUTSIDE":       tastream.ClipOutside,
	}
	for k, v := range constants {
		tb.RawSetString(k, lua.LNumber(v))
	}

	scr.L.SetGlobal("ta", tb)

	return scr, nil
}

// DoString runs the Lua source.
func (scr *Script) DoString(source string) error {
	if err := scr.L.DoString(source); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// DoFile runs the Lua script in the named file.
func (scr *Script) DoFile(filename string) error {
	if err := scr.L.DoFile(filename); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// Close writes any outstanding parameters and flushes the stream file. The
// Script cannot be used after Close() has been called.
func (scr *Script) Close() error {
	defer scr.L.Close()
	if err := scr.flush(); err != nil {
		return err
	}
	return scr.wr.Flush()
}

// write accumulated parameters as a single write record
func (scr *Script) flush() error {
	if scr.b.Len() == 0 {
		return nil
	}
	err := scr.wr.Write(scr.b.Bytes())
	scr.b.Reset()
	return err
}

func (scr *Script) check(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%v", err)
	}
}

func checkUint32(L *lua.LState, n int) uint32 {
	return uint32(L.CheckInt64(n))
}

func optUint32(L *lua.LState, n int) uint32 {
	return uint32(L.OptInt64(n, 0))
}

func checkFloat(L *lua.LState, n int) float32 {
	return float32(L.CheckNumber(n))
}

func checkList(L *lua.LState, n int) ta.ListType {
	l := ta.ListType(L.CheckInt(n))
	if !l.Valid() {
		L.ArgError(n, "invalid list type")
	}
	return l
}
