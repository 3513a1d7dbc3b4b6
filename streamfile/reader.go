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
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/gopherpvr/gopherpvr/curated"
)

// Reader reads the records of a stream file.
type Reader struct {
	r *bufio.Reader

	// the version of the file being read
	Version uint16

	// the data slice of a KindWrite record is reused by the next call to Next()
	data []byte
}

// NewReader is the preferred method of initialisation for the Reader type. The
// file header is read and checked immediately.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{
		r: bufio.NewReader(r),
	}

	var hdr [len(Magic) + 2]byte
	if _, err := io.ReadFull(rd.r, hdr[:]); err != nil {
		return nil, curated.Errorf(BadMagic, err)
	}
	if string(hdr[:len(Magic)]) != Magic {
		return nil, curated.Errorf(BadMagic, "not a stream file")
	}

	rd.Version = binary.LittleEndian.Uint16(hdr[len(Magic):])
	if rd.Version != Version {
		return nil, curated.Errorf(BadMagic, "unsupported version")
	}

	return rd, nil
}

// truncation in the middle of a record is an error
func (rd *Reader) read(b []byte) error {
	if _, err := io.ReadFull(rd.r, b); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return curated.Errorf(BadRecord, err)
	}
	return nil
}

func (rd *Reader) uint32() (uint32, error) {
	var b [4]byte
	if err := rd.read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (rd *Reader) uint8() (uint8, error) {
	var b [1]byte
	if err := rd.read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Next returns the next record in the file. Returns io.EOF when there are no
// more records.
func (rd *Reader) Next() (Record, error) {
	k, err := rd.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, curated.Errorf(Error, err)
	}

	rec := Record{Kind: Kind(k)}

	switch rec.Kind {
	case KindWrite:
		n, err := rd.uint32()
		if err != nil {
			return Record{}, err
		}
		if n > maxWrite {
			return Record{}, curated.Errorf(BadRecord, "write too large")
		}
		if cap(rd.data) < int(n) {
			rd.data = make([]byte, n)
		}
		rec.Data = rd.data[:n]
		if err := rd.read(rec.Data); err != nil {
			return Record{}, err
		}

	case KindSetAddress:
		rec.Address, err = rd.uint32()
		if err != nil {
			return Record{}, err
		}

	case KindListCont, KindSoftReset:

	case KindStartRender:
		rec.Address, err = rd.uint32()
		if err != nil {
			return Record{}, err
		}
		flags, err := rd.uint8()
		if err != nil {
			return Record{}, err
		}
		rec.Autosort = flags&flagAutosort == flagAutosort
		depth, err := rd.uint32()
		if err != nil {
			return Record{}, err
		}
		rec.Depth = math.Float32frombits(depth)
		if !validDepth(rec.Depth) {
			return Record{}, curated.Errorf(BadRecord, "invalid background depth")
		}
		rec.Background, err = rd.uint32()
		if err != nil {
			return Record{}, err
		}
		n, err := rd.uint8()
		if err != nil {
			return Record{}, err
		}
		for range n {
			a, err := rd.uint32()
			if err != nil {
				return Record{}, err
			}
			rec.Chain = append(rec.Chain, a)
		}

	default:
		return Record{}, curated.Errorf(BadRecord, rec.Kind)
	}

	return rec, nil
}
