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

// Package streamfile reads and writes stream files. A stream file is a capture
// of the TA activity of an emulation: the data written to the TA FIFO, changes
// of the context address, list continuations, soft resets and render starts.
//
// A stream file can be replayed into a core.Core with the Apply() function,
// recreating the renders of the original emulation without the emulation
// itself.
//
// File format
// -----------
//
// The file begins with the eight byte Magic value followed by a little endian
// uint16 version number. The remainder of the file is a sequence of records.
// Each record begins with a single byte Kind, followed by a payload that
// depends on the Kind. All numbers are little endian.
//
//	KindWrite         uint32 length, length bytes of TA data
//	KindSetAddress    uint32 address
//	KindListCont      (no payload)
//	KindSoftReset     (no payload)
//	KindStartRender   uint32 address, uint8 flags, float32 background depth,
//	                  uint32 background ARGB, uint8 count, count * uint32
//	                  chained addresses
package streamfile
