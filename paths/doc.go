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

// Package paths contains functions to prepare paths to GopherPVR resources.
//
// The ResourcePath() function returns the supplied resource name prepended
// with the appropriate config directory. For example, the following returns
// the path to the screenshots directory:
//
//	pth, err := paths.ResourcePath("screenshots", "")
//
// The policy is simple: if a directory named ".gopherpvr" is present in the
// program's current directory then that is the base path. Otherwise the
// "gopherpvr" directory in the user's config directory is used. The directory
// portion of the resource is created if necessary.
package paths
