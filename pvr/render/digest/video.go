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

package digest

import (
	"crypto/sha1"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/pvr/render"
)

// FramedRenderer is a render.Renderer that also provides the pixels of the
// rendered frame.
type FramedRenderer interface {
	render.Renderer
	render.Frame
}

// Video hashes the pixels produced by another renderer. The software renderer
// is the usual choice because its output does not depend on the graphics
// driver.
type Video struct {
	FramedRenderer

	digest chain
	pixels []byte
	frames int
}

// NewVideo initialises a new instance of Video. The renderer must implement the
// render.Frame interface.
func NewVideo(r render.Renderer) (*Video, error) {
	fr, ok := r.(FramedRenderer)
	if !ok {
		return nil, curated.Errorf(DigestError, "renderer does not provide frame data")
	}
	return &Video{FramedRenderer: fr}, nil
}

// Hash implements the Digest interface.
func (dig *Video) Hash() string {
	return dig.digest.String()
}

// ResetDigest implements the Digest interface.
func (dig *Video) ResetDigest() {
	dig.digest = chain{}
	dig.frames = 0
}

// Frames returns the number of frames included in the hash.
func (dig *Video) Frames() int {
	return dig.frames
}

// Render implements the render.Renderer interface. The hash is only updated if
// the underlying renderer produced a frame.
func (dig *Video) Render() (bool, error) {
	ok, err := dig.FramedRenderer.Render()
	if err != nil || !ok {
		return ok, err
	}

	frame := dig.Frame()

	// length of pixels array contains enough room for the previous frames
	// digest value
	l := len(dig.digest) + len(frame)
	if cap(dig.pixels) < l {
		dig.pixels = make([]byte, l)
	}
	dig.pixels = dig.pixels[:l]

	n := copy(dig.pixels, dig.digest[:])
	if n != len(dig.digest) {
		return false, curated.Errorf(DigestError, "digest error during new frame")
	}
	copy(dig.pixels[n:], frame)

	dig.digest = sha1.Sum(dig.pixels)
	dig.frames++

	return true, nil
}
