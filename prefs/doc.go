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

// Package prefs facilitates the storage of preferential values in the
// application. It wraps Go types in a way that allows them to be stored on disk
// and to be changed safely from more than one goroutine.
//
// Preference values are registered with an instance of the Disk type:
//
//	var skip prefs.Int
//
//	dsk, _ := prefs.NewDisk(pth)
//	_ = dsk.Add("render.skipframe", &skip)
//	_ = dsk.Load()
//
// More than one Disk instance can refer to the same file. Entries in the file
// that have not been added to the Disk are preserved when the Disk is saved.
//
// Values can also be specified on the command line, in which case they take
// precedence over the values loaded from the file. See the
// PushCommandLineStack() function.
package prefs
