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

// Region is the information from the region array that affects how a render
// pass is drawn.
type Region struct {
	// translucent polygons are sorted by depth before drawing
	Autosort bool

	// the depth buffer is cleared before drawing
	ZClear bool
}

// Regions provides the Region for each render pass. Render passes are numbered
// from zero in the order they appear in the context chain, including passes
// that are empty.
type Regions interface {
	Region(pass int) Region
}

// StaticRegions is an implementation of Regions that returns the same
// information for every pass. The depth buffer is cleared only before the
// first pass.
type StaticRegions struct {
	Autosort bool
}

// Region implements the Regions interface.
func (r StaticRegions) Region(pass int) Region {
	return Region{
		Autosort: r.Autosort,
		ZClear:   pass == 0,
	}
}
