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

package streamfile_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/pvr/core"
	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/pvr/ta/tastream"
	"github.com/gopherpvr/gopherpvr/streamfile"
	"github.com/gopherpvr/gopherpvr/test"
)

// a stream with one frame containing a single opaque strip
func frame(t *testing.T) []byte {
	t.Helper()

	b := tastream.New()
	b.PolyHeader(ta.ListOpaque, 0, 0, 0, 0)
	b.VertexPacked(0, 0, 1, 0xffff0000, false)
	b.VertexPacked(640, 0, 1, 0xff00ff00, false)
	b.VertexPacked(0, 480, 1, 0xff0000ff, true)
	b.EndOfList()

	var out bytes.Buffer
	wr, err := streamfile.NewWriter(&out)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, wr.SetAddress(0x1000))
	test.DemandSuccess(t, wr.Write(b.Bytes()))
	test.DemandSuccess(t, wr.StartRender(0x1000, true, 0.5, 0x80102030))
	test.DemandSuccess(t, wr.Flush())
	test.ExpectEquality(t, wr.Records, 3)

	return out.Bytes()
}

func TestReader(t *testing.T) {
	rd, err := streamfile.NewReader(bytes.NewReader(frame(t)))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, rd.Version, streamfile.Version)

	rec, err := rd.Next()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, rec.Kind, streamfile.KindSetAddress)
	test.ExpectEquality(t, rec.Address, 0x1000)

	rec, err = rd.Next()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, rec.Kind, streamfile.KindWrite)
	test.ExpectEquality(t, len(rec.Data), 5*ta.ParamSize)

	rec, err = rd.Next()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, rec.Kind, streamfile.KindStartRender)
	test.ExpectEquality(t, rec.Autosort, true)
	test.ExpectEquality(t, rec.Depth, 0.5)
	test.ExpectEquality(t, len(rec.Chain), 0)

	// background colour is converted from ARGB
	bg := rec.BackgroundVertex()
	test.ExpectEquality(t, bg.Col, [4]uint8{0x10, 0x20, 0x30, 0x80})

	_, err = rd.Next()
	test.ExpectSuccess(t, errors.Is(err, io.EOF))
}

func TestBadMagic(t *testing.T) {
	_, err := streamfile.NewReader(bytes.NewReader([]byte("NOTASTREAM")))
	test.ExpectSuccess(t, curated.Is(err, streamfile.BadMagic))

	_, err = streamfile.NewReader(bytes.NewReader(nil))
	test.ExpectSuccess(t, curated.Is(err, streamfile.BadMagic))

	// correct magic but wrong version
	data := append([]byte(streamfile.Magic), 0xff, 0xff)
	_, err = streamfile.NewReader(bytes.NewReader(data))
	test.ExpectSuccess(t, curated.Is(err, streamfile.BadMagic))
}

func TestBadRecord(t *testing.T) {
	data := frame(t)

	// truncated in the middle of the final record
	rd, err := streamfile.NewReader(bytes.NewReader(data[:len(data)-3]))
	test.DemandSuccess(t, err)
	_, err = rd.Next()
	test.DemandSuccess(t, err)
	_, err = rd.Next()
	test.DemandSuccess(t, err)
	_, err = rd.Next()
	test.ExpectSuccess(t, curated.Is(err, streamfile.BadRecord))

	// unknown record kind
	data = append(data, 0x7f)
	rd, err = streamfile.NewReader(bytes.NewReader(data))
	test.DemandSuccess(t, err)
	for range 3 {
		_, err = rd.Next()
		test.DemandSuccess(t, err)
	}
	_, err = rd.Next()
	test.ExpectSuccess(t, curated.Is(err, streamfile.BadRecord))
}

func TestPlay(t *testing.T) {
	q := render.NewQueue(ta.NewPool())
	c := core.NewCore(q, nil)

	rd, err := streamfile.NewReader(bytes.NewReader(frame(t)))
	test.DemandSuccess(t, err)

	var renders int
	test.DemandSuccess(t, streamfile.Play(rd, c, func() bool {
		renders++
		return true
	}))
	test.ExpectEquality(t, renders, 1)
	test.ExpectEquality(t, c.Stats().Queued, 1)

	ctx := q.DequeueRender()
	if ctx == nil {
		t.Fatalf("expected a queued context")
	}
	test.ExpectEquality(t, ctx.Address, 0x1000)
	test.ExpectEquality(t, ctx.Rend.Background.Z, 0.5)
	q.FinishRender(ctx)
}

func TestCopy(t *testing.T) {
	data := frame(t)

	rd, err := streamfile.NewReader(bytes.NewReader(data))
	test.DemandSuccess(t, err)

	var out bytes.Buffer
	wr, err := streamfile.NewWriter(&out)
	test.DemandSuccess(t, err)

	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break // for loop
		}
		test.DemandSuccess(t, err)
		test.DemandSuccess(t, wr.WriteRecord(rec))
	}
	test.DemandSuccess(t, wr.Flush())

	test.ExpectSuccess(t, bytes.Equal(out.Bytes(), data))
}
