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

// Tracker follows the TA stream as it is written by the emulation. It knows
// enough about the format of the stream to say when a list has ended, without
// decoding the stream. This is needed because the list end interrupts must be
// raised at the time the data is written, which is long before the data is
// parsed.
type Tracker struct {
	list ListType

	// vertex parameters for the current global parameter are long
	longVertex bool

	// the next block is the second half of a long parameter
	tail bool
}

// NewTracker is the preferred method of initialisation for the Tracker type.
func NewTracker() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// Reset the tracker to its initial state.
func (t *Tracker) Reset() {
	t.list = ListNone
	t.longVertex = false
	t.tail = false
}

// List returns the list that is currently open.
func (t *Tracker) List() ListType {
	return t.list
}

// Block processes one parameter word. If the word ends a list then the list
// type is returned. Otherwise ListNone is returned.
func (t *Tracker) Block(b []byte) ListType {
	if len(b) < ParamSize {
		return ListNone
	}

	if t.tail {
		t.tail = false
		return ListNone
	}

	pcw := PCW(word(b, 0))

	switch pcw.ParamType() {
	case ParamEndOfList:
		l := t.list
		t.list = ListNone
		t.longVertex = false
		return l

	case ParamPolyOrModVolume:
		if t.list == ListNone {
			t.list = pcw.ListType()
		}
		if t.list.IsModVol() {
			t.longVertex = true
			break // switch
		}
		_, long := polyHeaderFormat(pcw)
		t.tail = long
		t.longVertex = vertexIsLong(polyVertexFormat(pcw))

	case ParamSprite:
		if t.list == ListNone {
			t.list = pcw.ListType()
		}
		t.longVertex = true

	case ParamVertex:
		t.tail = t.longVertex
	}

	return ListNone
}
