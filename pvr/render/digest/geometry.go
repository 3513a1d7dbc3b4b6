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
	"encoding/binary"

	"honnef.co/go/safeish"

	"github.com/gopherpvr/gopherpvr/pvr/render"
	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// Geometry hashes the parsed output of a context rather than the rendered
// pixels. It requires no rasterisation and so is quick enough to use for every
// frame of a long stream.
type Geometry struct {
	*render.TextureCache

	digest chain
	data   []byte
	frames int
}

// NewGeometry is the preferred method of initialisation for the Geometry type.
func NewGeometry() *Geometry {
	return &Geometry{
		TextureCache: render.NewTextureCache(),
	}
}

// Hash implements the Digest interface.
func (dig *Geometry) Hash() string {
	return dig.digest.String()
}

// ResetDigest implements the Digest interface.
func (dig *Geometry) ResetDigest() {
	dig.digest = chain{}
	dig.frames = 0
}

// Frames returns the number of frames included in the hash.
func (dig *Geometry) Frames() int {
	return dig.frames
}

// Init implements the render.Renderer interface.
func (dig *Geometry) Init() error {
	return nil
}

func appendParams(data []byte, params []ta.PolyParam) []byte {
	for _, p := range params {
		data = binary.LittleEndian.AppendUint32(data, p.First)
		data = binary.LittleEndian.AppendUint32(data, p.Count)
		data = binary.LittleEndian.AppendUint32(data, uint32(p.PCW))
		data = binary.LittleEndian.AppendUint32(data, uint32(p.ISP))
		data = binary.LittleEndian.AppendUint32(data, uint32(p.TSP))
		data = binary.LittleEndian.AppendUint32(data, uint32(p.TCW))
	}
	return data
}

func appendDraws(data []byte, draws []ta.Draw) []byte {
	for _, d := range draws {
		data = binary.LittleEndian.AppendUint32(data, uint32(d.Poly))
		data = binary.LittleEndian.AppendUint32(data, d.First)
		data = binary.LittleEndian.AppendUint32(data, d.Count)
	}
	return data
}

func appendModVols(data []byte, params []ta.ModifierVolumeParam) []byte {
	data = binary.LittleEndian.AppendUint32(data, uint32(len(params)))
	for _, p := range params {
		data = binary.LittleEndian.AppendUint32(data, p.First)
		data = binary.LittleEndian.AppendUint32(data, p.Count)
		data = binary.LittleEndian.AppendUint32(data, uint32(p.ISP))
		data = append(data, p.TileClip.Mode, p.TileClip.XMin, p.TileClip.YMin, p.TileClip.XMax, p.TileClip.YMax)
	}
	return data
}

// Process implements the render.Renderer interface. The hash is updated with
// the vertices, indices, polygon parameters, modifier volumes and draws of the
// context.
func (dig *Geometry) Process(ctx *ta.Context) error {
	r := &ctx.Rend

	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the data
	dig.data = append(dig.data[:0], dig.digest[:]...)

	// vertices, indices and modifier volume triangles contain no pointers or
	// padding and can be hashed directly
	dig.data = append(dig.data, safeish.SliceCast[[]byte](r.Verts)...)
	dig.data = append(dig.data, safeish.SliceCast[[]byte](r.Idx)...)

	dig.data = appendParams(dig.data, r.GlobalParamOp)
	dig.data = appendParams(dig.data, r.GlobalParamPt)
	dig.data = appendParams(dig.data, r.GlobalParamTr)

	dig.data = appendModVols(dig.data, r.GlobalParamMvo)
	dig.data = appendModVols(dig.data, r.GlobalParamMvoTr)
	dig.data = append(dig.data, safeish.SliceCast[[]byte](r.ModTrig)...)

	for _, p := range r.RenderPasses {
		dig.data = appendDraws(dig.data, p.OpDraws)
		dig.data = appendDraws(dig.data, p.PtDraws)
		dig.data = appendDraws(dig.data, p.TrDraws)
		dig.data = binary.LittleEndian.AppendUint32(dig.data, uint32(p.MvoCount))
		dig.data = binary.LittleEndian.AppendUint32(dig.data, uint32(p.MvoTrCount))
		dig.data = binary.LittleEndian.AppendUint32(dig.data, uint32(p.SortedTrCount))
	}
	for _, st := range r.SortedTriangles {
		dig.data = binary.LittleEndian.AppendUint32(dig.data, uint32(st.Poly))
		dig.data = binary.LittleEndian.AppendUint32(dig.data, st.First)
		dig.data = binary.LittleEndian.AppendUint32(dig.data, st.Count)
	}

	dig.digest = sha1.Sum(dig.data)
	dig.frames++

	return nil
}

// Render implements the render.Renderer interface.
func (dig *Geometry) Render() (bool, error) {
	return true, nil
}

// Term implements the render.Renderer interface.
func (dig *Geometry) Term() {
	dig.Clear()
	dig.data = nil
}
