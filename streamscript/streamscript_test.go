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

package streamscript_test

import (
	"bytes"
	"testing"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/pvr/core"
	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/streamfile"
	"github.com/gopherpvr/gopherpvr/streamscript"
	"github.com/gopherpvr/gopherpvr/test"
)

const script = `
ta.address(0x1000)
ta.poly(ta.OPAQUE, ta.GOURAUD)
ta.vertex(0, 0, 1, 0xffff0000)
ta.vertex(640, 0, 1, 0xff00ff00)
ta.vertex(0, 480, 1, 0xff0000ff, true)
ta.endlist()
ta.poly(ta.TRANSLUCENT, 0)
for i = 0, 2 do
	ta.vertex(i * 10, 0, 2, 0x80ffffff)
	ta.vertex(i * 10 + 10, 0, 2, 0x80ffffff)
	ta.vertex(i * 10, 10, 2, 0x80ffffff, true)
end
ta.endlist()
ta.render(0x1000, true, 0xff202020)
`

func TestScript(t *testing.T) {
	var out bytes.Buffer
	scr, err := streamscript.NewScript(&out)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, scr.DoString(script))
	test.DemandSuccess(t, scr.Close())
	test.ExpectEquality(t, scr.Renders, 1)

	rd, err := streamfile.NewReader(bytes.NewReader(out.Bytes()))
	test.DemandSuccess(t, err)

	rec, err := rd.Next()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, rec.Kind, streamfile.KindSetAddress)

	// all the parameters are in a single write
	rec, err = rd.Next()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, rec.Kind, streamfile.KindWrite)
	test.ExpectEquality(t, len(rec.Data), 16*ta.ParamSize)

	rec, err = rd.Next()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, rec.Kind, streamfile.KindStartRender)
	test.ExpectEquality(t, rec.Autosort, true)
	test.ExpectEquality(t, rec.Background, 0xff202020)
	test.ExpectEquality(t, rec.Depth, 1.0)
}

func TestScriptParse(t *testing.T) {
	var out bytes.Buffer
	scr, err := streamscript.NewScript(&out)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, scr.DoString(script))
	test.DemandSuccess(t, scr.Close())

	q := render.NewQueue(ta.NewPool())
	c := core.NewCore(q, nil)
	rd, err := streamfile.NewReader(bytes.NewReader(out.Bytes()))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, streamfile.Play(rd, c, nil))

	ctx := q.DequeueRender()
	if ctx == nil {
		t.Fatalf("expected a queued context")
	}
	defer q.FinishRender(ctx)

	errs := ta.Parse(ctx, ta.ParseOptions{})
	test.ExpectEquality(t, len(errs), 0)
	test.ExpectEquality(t, len(ctx.Rend.GlobalParamOp), 1)
	test.ExpectEquality(t, len(ctx.Rend.GlobalParamTr), 3)
	test.ExpectEquality(t, ctx.Rend.Verts[0].Col, [4]uint8{0x20, 0x20, 0x20, 0xff})
}

func TestScriptErrors(t *testing.T) {
	var out bytes.Buffer
	scr, err := streamscript.NewScript(&out)
	test.DemandSuccess(t, err)
	defer scr.Close()

	// invalid list type
	err = scr.DoString(`ta.poly(9, 0)`)
	test.ExpectSuccess(t, curated.Is(err, streamscript.ScriptError))

	// modifier volume header in a polygon list
	err = scr.DoString(`ta.modvol(ta.OPAQUE, 0)`)
	test.ExpectSuccess(t, curated.Is(err, streamscript.ScriptError))

	// syntax error
	err = scr.DoString(`ta.vertex(`)
	test.ExpectSuccess(t, curated.Is(err, streamscript.ScriptError))
}
