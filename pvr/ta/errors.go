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

// Sentinel error patterns. Use curated.Is() or curated.Has() to test for them.
const (
	// a malformed parameter was found in the TA stream. the render pass being
	// parsed has been abandoned
	ParserError = "ta parser: %v"

	// the raw arena of a context is full. data beyond the end of the arena is
	// discarded
	ArenaOverrun = "ta: arena overrun: %d bytes discarded"

	// the maximum number of render pass boundaries has been reached
	TooManyPasses = "ta: too many render passes: maximum is %d"
)
