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

package ta_test

import (
	"testing"

	"github.com/gopherpvr/gopherpvr/pvr/ta"
	"github.com/gopherpvr/gopherpvr/pvr/ta/tastream"
	"github.com/gopherpvr/gopherpvr/test"
)

func track(tr *ta.Tracker, data []byte) []ta.ListType {
	var ended []ta.ListType
	for i := 0; i < len(data); i += ta.ParamSize {
		if l := tr.Block(data[i : i+ta.ParamSize]); l != ta.ListNone {
			ended = append(ended, l)
		}
	}
	return ended
}

func TestTracker(t *testing.T) {
	b := tastream.New()
	triangle(b, ta.ListOpaque, 1.0)

	// the second half of the long vertex starts with a zero word, which would
	// be an end of list if it were the start of a parameter
	b.PolyHeader(ta.ListTranslucent, tastream.Texture|tastream.ColFloat, 0, 0, 0)
	b.VertexTexturedFloat(0, 0, 1, 0, 0, [4]float32{0, 1, 1, 1}, [4]float32{}, true)
	b.EndOfList()

	b.ModVolHeader(ta.ListOpaqueModVol, 0, true)
	b.ModVolTriangle([9]float32{})
	b.EndOfList()

	// end of list with no list open
	b.EndOfList()

	tr := ta.NewTracker()
	ended := track(tr, b.Bytes())
	test.DemandEquality(t, len(ended), 3)
	test.ExpectEquality(t, ended[0], ta.ListOpaque)
	test.ExpectEquality(t, ended[1], ta.ListTranslucent)
	test.ExpectEquality(t, ended[2], ta.ListOpaqueModVol)
	test.ExpectEquality(t, tr.List(), ta.ListNone)
}

func TestTrackerSprite(t *testing.T) {
	b := tastream.New()
	b.SpriteHeader(ta.ListPunchThrough, 0, 0, 0, 0, 0, 0)
	b.SpriteVertex([3]float32{}, [3]float32{}, [3]float32{}, [2]float32{}, [3][2]float32{})

	tr := ta.NewTracker()
	test.ExpectEquality(t, len(track(tr, b.Bytes())), 0)
	test.ExpectEquality(t, tr.List(), ta.ListPunchThrough)

	b.Reset()
	b.EndOfList()
	ended := track(tr, b.Bytes())
	test.DemandEquality(t, len(ended), 1)
	test.ExpectEquality(t, ended[0], ta.ListPunchThrough)

	tr.Reset()
	test.ExpectEquality(t, tr.List(), ta.ListNone)
}
