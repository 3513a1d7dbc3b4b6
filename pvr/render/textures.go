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

package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// Texture is the value returned by TextureCache.GetTexture(). Textures are not
// decoded from VRAM. The image is a placeholder that is unique to the texture
// address and format so that different textures can be told apart in the
// output.
type Texture struct {
	TSP ta.TSP
	TCW ta.TCW

	Width  int
	Height int

	Image *image.RGBA
}

// the fields of the TSP and TCW that identify a texture.
const (
	tspTextureMask = 0x0000003f
	tcwTextureMask = 0xfe1fffff
)

type textureKey struct {
	tsp ta.TSP
	tcw ta.TCW
}

// TextureCache is an implementation of the ta.TextureSource interface. It is
// safe to use from more than one goroutine.
type TextureCache struct {
	crit    sync.Mutex
	entries map[textureKey]*Texture

	hits   int
	misses int
}

// NewTextureCache is the preferred method of initialisation for the
// TextureCache type.
func NewTextureCache() *TextureCache {
	return &TextureCache{
		entries: make(map[textureKey]*Texture),
	}
}

// GetTexture implements the ta.TextureSource interface. The returned value is
// always of type *Texture.
func (tc *TextureCache) GetTexture(tsp ta.TSP, tcw ta.TCW) ta.Texture {
	k := textureKey{
		tsp: tsp & tspTextureMask,
		tcw: tcw & tcwTextureMask,
	}

	tc.crit.Lock()
	defer tc.crit.Unlock()

	if t, ok := tc.entries[k]; ok {
		tc.hits++
		return t
	}
	tc.misses++

	t := &Texture{
		TSP:    k.tsp,
		TCW:    k.tcw,
		Width:  tsp.Width(),
		Height: tsp.Height(),
	}
	t.Image = placeholder(t.Width, t.Height, k.tcw)
	tc.entries[k] = t

	return t
}

// Clear removes all textures from the cache.
func (tc *TextureCache) Clear() {
	tc.crit.Lock()
	defer tc.crit.Unlock()
	clear(tc.entries)
}

// Len returns the number of textures in the cache.
func (tc *TextureCache) Len() int {
	tc.crit.Lock()
	defer tc.crit.Unlock()
	return len(tc.entries)
}

// Stats returns the number of cache hits and misses.
func (tc *TextureCache) Stats() (hits int, misses int) {
	tc.crit.Lock()
	defer tc.crit.Unlock()
	return tc.hits, tc.misses
}

// checkerboard of eight texel squares. the colour of the squares is derived
// from the texture address and pixel format
func placeholder(w int, h int, tcw ta.TCW) *image.RGBA {
	a := tcw.TexAddr()*2654435761 + tcw.PixelFmt()
	on := color.RGBA{R: uint8(a >> 24), G: uint8(a >> 16), B: uint8(a >> 8), A: 0xff}
	off := color.RGBA{R: ^on.R, G: ^on.G, B: ^on.B, A: 0xff}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/8+y/8)&1 == 0 {
				img.SetRGBA(x, y, on)
			} else {
				img.SetRGBA(x, y, off)
			}
		}
	}
	return img
}

// TextureOf returns the *Texture from a ta.Texture value. Returns nil if the
// value was not created by a TextureCache.
func TextureOf(t ta.Texture) *Texture {
	tex, _ := t.(*Texture)
	return tex
}
