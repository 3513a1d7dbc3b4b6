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

// Package dump writes human readable descriptions of a parsed ta.Context.
//
// Summary() writes a plain text report of the parsed lists and render passes.
// Graph() writes a graphviz description of the parsed data structures, as
// produced by the memviz package. Large lists are truncated before graphing
// because the graph of a full frame is too large to be useful.
package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/bradleyjkemp/memviz"

	"github.com/gopherpvr/gopherpvr/pvr/ta"
)

// DefaultGraphLimit is the number of entries of each list included by Graph()
// when the limit argument is zero or less.
const DefaultGraphLimit = 8

// Summary writes a text description of the parsed output of the context.
func Summary(w io.Writer, ctx *ta.Context) error {
	s := &strings.Builder{}
	r := &ctx.Rend

	fmt.Fprintln(s, ctx.String())
	fmt.Fprintf(s, "verts: %d  idx: %d  modtrigs: %d\n", len(r.Verts), len(r.Idx), len(r.ModTrig))
	fmt.Fprintf(s, "depth: %.4f to %.4f\n", r.FZMin, r.FZMax)
	fmt.Fprintf(s, "background: %v\n", r.Background.Col)

	for _, l := range []ta.ListType{ta.ListOpaque, ta.ListPunchThrough, ta.ListTranslucent} {
		list := *r.PolyList(l)
		fmt.Fprintf(s, "%s: %d polys\n", l, len(list))
		for i, pp := range list {
			fmt.Fprintf(s, "  %4d: %s\n", i, poly(&pp))
		}
	}

	for _, l := range []ta.ListType{ta.ListOpaqueModVol, ta.ListTranslucentModVol} {
		fmt.Fprintf(s, "%s: %d volumes\n", l, len(*r.ModVolList(l)))
	}

	for i, p := range r.RenderPasses {
		fmt.Fprintf(s, "pass %d: op=%d pt=%d tr=%d mvo=%d mvotr=%d sorted=%d",
			i, p.OpCount, p.PtCount, p.TrCount, p.MvoCount, p.MvoTrCount, p.SortedTrCount)
		if p.Autosort {
			s.WriteString(" autosort")
		}
		if p.ZClear {
			s.WriteString(" zclear")
		}
		s.WriteString("\n")
	}

	_, err := io.WriteString(w, s.String())
	return err
}

func poly(pp *ta.PolyParam) string {
	s := fmt.Sprintf("verts %d+%d pcw=%08x isp=%08x tsp=%08x tcw=%08x",
		pp.First, pp.Count, uint32(pp.PCW), uint32(pp.ISP), uint32(pp.TSP), uint32(pp.TCW))
	if pp.TileClip.Enabled() {
		s = fmt.Sprintf("%s clip=%d (%d,%d)-(%d,%d)", s, pp.TileClip.Mode,
			pp.TileClip.XMin, pp.TileClip.YMin, pp.TileClip.XMax, pp.TileClip.YMax)
	}
	return s
}

func truncate[T any](s []T, limit int) []T {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// Graph writes a graphviz description of the parsed output of the context.
// Only the first limit entries of each list are included.
func Graph(w io.Writer, ctx *ta.Context, limit int) {
	if limit <= 0 {
		limit = DefaultGraphLimit
	}

	r := ctx.Rend
	r.Verts = truncate(r.Verts, limit)
	r.Idx = truncate(r.Idx, limit)
	r.GlobalParamOp = truncate(r.GlobalParamOp, limit)
	r.GlobalParamPt = truncate(r.GlobalParamPt, limit)
	r.GlobalParamTr = truncate(r.GlobalParamTr, limit)
	r.GlobalParamMvo = truncate(r.GlobalParamMvo, limit)
	r.GlobalParamMvoTr = truncate(r.GlobalParamMvoTr, limit)
	r.ModTrig = truncate(r.ModTrig, limit)
	r.SortedTriangles = truncate(r.SortedTriangles, limit)

	// texture handles are private to the renderer
	r.GlobalParamOp = clearTextures(r.GlobalParamOp)
	r.GlobalParamPt = clearTextures(r.GlobalParamPt)
	r.GlobalParamTr = clearTextures(r.GlobalParamTr)

	memviz.Map(w, &r)
}

func clearTextures(l []ta.PolyParam) []ta.PolyParam {
	c := make([]ta.PolyParam, len(l))
	copy(c, l)
	for i := range c {
		c[i].Texture = nil
		c[i].Texture1 = nil
	}
	return c
}
