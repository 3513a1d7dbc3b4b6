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

package streamfile

import (
	"fmt"
	"math"

	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// Magic is the first eight bytes of every stream file.
const Magic = "GOPHRPVR"

// Version of the file format written by the Writer.
const Version = 1

// Sentinel error patterns.
const (
	BadMagic  = "streamfile: bad magic: %v"
	BadRecord = "streamfile: bad record: %v"
	Error     = "streamfile: %v"
)

// Kind of a stream record.
type Kind uint8

// List of valid Kind values.
const (
	KindWrite Kind = iota + 1
	KindSetAddress
	KindListCont
	KindSoftReset
	KindStartRender
)

func (k Kind) String() string {
	switch k {
	case KindWrite:
		return "write"
	case KindSetAddress:
		return "set address"
	case KindListCont:
		return "list cont"
	case KindSoftReset:
		return "soft reset"
	case KindStartRender:
		return "start render"
	}
	return fmt.Sprintf("unknown kind (%d)", uint8(k))
}

// flags for KindStartRender
const flagAutosort = 0x01

// the largest write accepted by the reader. the TA FIFO is never written in
// units larger than this
const maxWrite = ta.ArenaSize

// Record is a single entry in a stream file.
type Record struct {
	Kind Kind

	// the address for KindSetAddress and KindStartRender
	Address uint32

	// TA data for KindWrite
	Data []byte

	// render start information for KindStartRender
	Autosort   bool
	Depth      float32
	Background uint32
	Chain      []uint32
}

func (r Record) String() string {
	switch r.Kind {
	case KindWrite:
		return fmt.Sprintf("%v: %d bytes", r.Kind, len(r.Data))
	case KindSetAddress:
		return fmt.Sprintf("%v: %#08x", r.Kind, r.Address)
	case KindStartRender:
		return fmt.Sprintf("%v: %#08x autosort=%v chain=%d", r.Kind, r.Address, r.Autosort, len(r.Chain))
	}
	return r.Kind.String()
}

// BackgroundVertex returns the background vertex of a KindStartRender record.
func (r Record) BackgroundVertex() ta.Vertex {
	return ta.Vertex{
		Z: r.Depth,
		Col: [4]uint8{
			uint8(r.Background >> 16),
			uint8(r.Background >> 8),
			uint8(r.Background),
			uint8(r.Background >> 24),
		},
	}
}

func validDepth(z float32) bool {
	return !math.IsNaN(float64(z)) && !math.IsInf(float64(z), 0)
}
