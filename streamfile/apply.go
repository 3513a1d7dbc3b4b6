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
	"errors"
	"io"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/pvr/core"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// Apply the record to the core. Errors from the core caused by the content of
// the stream, such as an overrun, are not returned because they are
// part of the normal operation of the TA. Only errors that indicate a damaged
// stream file are returned.
func Apply(c *core.Core, rec Record) error {
	switch rec.Kind {
	case KindWrite:
		err := c.Write(rec.Data)
		if curated.Is(err, core.UnalignedWrite) {
			return curated.Errorf(BadRecord, err)
		}
	case KindSetAddress:
		c.SetAddress(rec.Address)
	case KindListCont:
		// a list continuation beyond the pass limit is logged by the core
		_ = c.ListCont()
	case KindSoftReset:
		c.SoftReset()
	case KindStartRender:
		c.StartRender(rec.Address, core.StartOptions{
			Regions:    ta.StaticRegions{Autosort: rec.Autosort},
			Background: rec.BackgroundVertex(),
			Chain:      rec.Chain,
		})
	default:
		return curated.Errorf(BadRecord, rec.Kind)
	}
	return nil
}

// Play every record in the stream into the core. The onRender function is
// called after every KindStartRender record and can be nil. Play stops early if
// onRender returns false.
func Play(rd *Reader, c *core.Core, onRender func() bool) error {
	for {
		rec, err := rd.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		err = Apply(c, rec)
		if err != nil {
			return err
		}

		if rec.Kind == KindStartRender && onRender != nil {
			if !onRender() {
				return nil
			}
		}
	}
}
