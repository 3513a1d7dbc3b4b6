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

import (
	"github.com/gopherpvr/gopherpvr/logger"
)

// ParseOptions for the Parse() function.
type ParseOptions struct {
	// source of textures for textured polygons. can be nil
	Textures TextureSource

	// used if the Regions field of the context is nil. if both are nil then
	// StaticRegions{Autosort: true} is used
	Regions Regions
}

// lengths of the output lists at the start of a render pass.
type snapshot struct {
	verts, modTrig         int
	op, pt, tr, mvo, mvoTr int
	fzMin, fzMax           float32
}

func (r *Rend) snapshot() snapshot {
	return snapshot{
		verts:   len(r.Verts),
		modTrig: len(r.ModTrig),
		op:      len(r.GlobalParamOp),
		pt:      len(r.GlobalParamPt),
		tr:      len(r.GlobalParamTr),
		mvo:     len(r.GlobalParamMvo),
		mvoTr:   len(r.GlobalParamMvoTr),
		fzMin:   r.FZMin,
		fzMax:   r.FZMax,
	}
}

func (r *Rend) rollback(s snapshot) {
	r.Verts = r.Verts[:s.verts]
	r.ModTrig = r.ModTrig[:s.modTrig]
	r.GlobalParamOp = r.GlobalParamOp[:s.op]
	r.GlobalParamPt = r.GlobalParamPt[:s.pt]
	r.GlobalParamTr = r.GlobalParamTr[:s.tr]
	r.GlobalParamMvo = r.GlobalParamMvo[:s.mvo]
	r.GlobalParamMvoTr = r.GlobalParamMvoTr[:s.mvoTr]
	r.FZMin = s.fzMin
	r.FZMax = s.fzMax
}

func (r *Rend) changed(s snapshot) bool {
	return len(r.GlobalParamOp) != s.op ||
		len(r.GlobalParamPt) != s.pt ||
		len(r.GlobalParamTr) != s.tr ||
		len(r.GlobalParamMvo) != s.mvo ||
		len(r.GlobalParamMvoTr) != s.mvoTr
}

// Parse the raw data of the context, and every context chained to it, into the
// Rend field of the context. Any previous output in Rend is discarded. The
// background vertex is placed in Verts[0].
//
// A RenderPass is recorded for every render pass that produces output. A
// render pass that fails to parse is abandoned and its output discarded. The
// returned slice contains one error for every abandoned pass. Output from
// other passes is usable even when errors are returned.
func Parse(ctx *Context, opts ParseOptions) []error {
	r := &ctx.Rend
	r.clear()
	r.Verts = append(r.Verts, r.Background)

	regions := ctx.Regions
	if regions == nil {
		regions = opts.Regions
	}
	if regions == nil {
		regions = StaticRegions{Autosort: true}
	}

	p := NewParser(r, opts.Textures)

	var errs []error
	var pass int

	for c := ctx; c != nil; c = c.NextContext {
		for _, rng := range c.Passes() {
			s := r.snapshot()

			p.Reset()
			err := p.Feed(c.tad.data[rng[0]:rng[1]])
			if err == nil {
				err = p.End()
			}

			if err != nil {
				r.rollback(s)
				errs = append(errs, err)
				logger.Logf(logger.Allow, "ta parser", "%v: pass %d abandoned: %v", c, pass, err)
			} else if r.changed(s) {
				reg := regions.Region(pass)
				r.RenderPasses = append(r.RenderPasses, RenderPass{
					OpCount:    len(r.GlobalParamOp),
					PtCount:    len(r.GlobalParamPt),
					TrCount:    len(r.GlobalParamTr),
					MvoCount:   len(r.GlobalParamMvo),
					MvoTrCount: len(r.GlobalParamMvoTr),
					Autosort:   reg.Autosort,
					ZClear:     reg.ZClear,
				})
			}

			pass++
		}
	}

	return errs
}

// PassRange returns the range of the numbered render pass in a list, given the
// function that returns the count for the list from a RenderPass.
//
//	first, last := r.PassRange(i, func(p RenderPass) int { return p.OpCount })
func (r *Rend) PassRange(pass int, count func(RenderPass) int) (int, int) {
	var first int
	if pass > 0 {
		first = count(r.RenderPasses[pass-1])
	}
	return first, count(r.RenderPasses[pass])
}
