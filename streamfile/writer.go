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
	"io"
	"math"

	"github.com/gopherpvr/gopherpvr/curated"
)

// Writer creates a stream file. The output is buffered and Flush() must be
// called when the stream is complete.
type Writer struct {
	w   *bufio.Writer
	buf []byte
	err error

	// the number of records written
	Records int
}

// NewWriter is the preferred method of initialisation for the Writer type. The
// file header is written immediately.
func NewWriter(w io.Writer) (*Writer, error) {
	wr := &Writer{
		w: bufio.NewWriter(w),
	}

	wr.buf = append(wr.buf, Magic...)
	wr.buf = binary.LittleEndian.AppendUint16(wr.buf, Version)
	if _, err := wr.w.Write(wr.buf); err != nil {
		return nil, curated.Errorf(Error, err)
	}

	return wr, nil
}

func (wr *Writer) emit() error {
	if wr.err != nil {
		return wr.err
	}
	if _, err := wr.w.Write(wr.buf); err != nil {
		wr.err = curated.Errorf(Error, err)
		return wr.err
	}
	wr.Records++
	return nil
}

// Write records data written to the TA FIFO.
func (wr *Writer) Write(data []byte) error {
	wr.buf = append(wr.buf[:0], byte(KindWrite))
	wr.buf = binary.LittleEndian.AppendUint32(wr.buf, uint32(len(data)))
	wr.buf = append(wr.buf, data...)
	return wr.emit()
}

// SetAddress records a change of the context address.
func (wr *Writer) SetAddress(address uint32) error {
	wr.buf = append(wr.buf[:0], byte(KindSetAddress))
	wr.buf = binary.LittleEndian.AppendUint32(wr.buf, address)
	return wr.emit()
}

// ListCont records a list continuation.
func (wr *Writer) ListCont() error {
	wr.buf = append(wr.buf[:0], byte(KindListCont))
	return wr.emit()
}

// SoftReset records a soft reset of the TA.
func (wr *Writer) SoftReset() error {
	wr.buf = append(wr.buf[:0], byte(KindSoftReset))
	return wr.emit()
}

// StartRender records a render start. The background colour is in ARGB order.
func (wr *Writer) StartRender(address uint32, autosort bool, depth float32, background uint32, chain ...uint32) error {
	if len(chain) > math.MaxUint8 {
		return curated.Errorf(BadRecord, "chain too long")
	}

	var flags uint8
	if autosort {
		flags |= flagAutosort
	}

	wr.buf = append(wr.buf[:0], byte(KindStartRender))
	wr.buf = binary.LittleEndian.AppendUint32(wr.buf, address)
	wr.buf = append(wr.buf, flags)
	wr.buf = binary.LittleEndian.AppendUint32(wr.buf, math.Float32bits(depth))
	wr.buf = binary.LittleEndian.AppendUint32(wr.buf, background)
	wr.buf = append(wr.buf, uint8(len(chain)))
	for _, a := range chain {
		wr.buf = binary.LittleEndian.AppendUint32(wr.buf, a)
	}
	return wr.emit()
}

// WriteRecord writes a record read from another stream file.
func (wr *Writer) WriteRecord(r Record) error {
	switch r.Kind {
	case KindWrite:
		return wr.Write(r.Data)
	case KindSetAddress:
		return wr.SetAddress(r.Address)
	case KindListCont:
		return wr.ListCont()
	case KindSoftReset:
		return wr.SoftReset()
	case KindStartRender:
		return wr.StartRender(r.Address, r.Autosort, r.Depth, r.Background, r.Chain...)
	}
	return curated.Errorf(BadRecord, r.Kind)
}

// Flush buffered output to the underlying io.Writer.
func (wr *Writer) Flush() error {
	if wr.err != nil {
		return wr.err
	}
	if err := wr.w.Flush(); err != nil {
		return curated.Errorf(Error, err)
	}
	return nil
}
