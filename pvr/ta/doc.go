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

// Package ta implements the PowerVR2 tile accelerator front end: the pool of
// contexts that receive raw TA FIFO data from the emulation, and the parser
// that decodes that data into vertex and polygon lists ready for rendering.
//
// A Context is a reusable arena. Raw parameter words are appended to it by the
// emulation (see the core package) and a Context is detached from the Pool
// when rendering starts. The Parse() function then decodes the raw data for
// every render pass of the Context, and for every Context chained through the
// NextContext field, into the Rend field of the first Context.
//
// The TA wire format is a stream of 32 byte parameter words. The first word of
// every parameter is the parameter control word (PCW). Some vertex formats are
// 64 bytes long and can be split across two writes. The Parser keeps enough
// state between calls to Feed() that a 64 byte parameter split across two
// calls decodes to the same result as the same parameter fed in one call.
//
// Errors in the parameter stream result in a ParserError. Only the render pass
// being parsed at the time is abandoned. Output from previous passes is
// unaffected.
package ta
