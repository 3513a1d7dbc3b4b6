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

// Package digest contains implementations of the render.Renderer interface
// such that a cryptographic hash is produced for every rendered frame. The
// hash can then be used to compare output from subsequent executions - if a
// new hash differs from a previously recorded value then something has
// changed. We use this as the basis for regression tests and the DIGEST mode.
//
// Hashes are chained. The hash of a frame includes the hash of the previous
// frame so the final hash of a stream summarises every frame in it.
package digest

import (
	"crypto/sha1"
	"fmt"
)

// Digest implementations should return a cryptographic hash in response to a
// Hash() request. Generation of the hash achieved via another interface.
type Digest interface {
	Hash() string
	ResetDigest()
}

// DigestError is the pattern used for all errors in the package.
const DigestError = "digest: %v"

type chain [sha1.Size]byte

func (c chain) String() string {
	return fmt.Sprintf("%x", c[:])
}
