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

package modalflag_test

import (
	"strings"
	"testing"

	"github.com/gopherpvr/gopherpvr/modalflag"
	"github.com/gopherpvr/gopherpvr/test"
)

func TestNoModesNoFlags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{})

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "")
	test.ExpectEquality(t, md.Path(), "")
	test.ExpectEquality(t, len(md.RemainingArgs()), 0)
	test.ExpectEquality(t, md.Parsed(), true)
}

func TestDefaultSubMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"capture.pvr"})
	md.AddSubModes("play", "digest")

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "PLAY")
	test.ExpectEquality(t, md.GetArg(0), "capture.pvr")
}

func TestSubModeWithFlags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-log", "Digest", "-frames", "10", "capture.pvr", "extra"})
	md.AddSubModes("PLAY", "DIGEST")
	log := md.AddBool("log", false, "echo log")

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *log, true)
	test.ExpectEquality(t, md.Mode(), "DIGEST")

	md.NewMode()
	test.ExpectEquality(t, md.Parsed(), false)
	frames := md.AddInt("frames", 0, "number of frames")

	p, err = md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, *frames, 10)
	test.ExpectEquality(t, md.Path(), "DIGEST")
	test.ExpectEquality(t, len(md.RemainingArgs()), 2)
	test.ExpectEquality(t, md.GetArg(1), "extra")
	test.ExpectEquality(t, md.GetArg(2), "")

	var visited []string
	md.Visit(func(f string) { visited = append(visited, f) })
	test.ExpectEquality(t, strings.Join(visited, ","), "frames")
}

func TestNestedModes(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"shot", "webp", "capture.pvr"})
	md.AddSubModes("PLAY", "SHOT")
	_, err := md.Parse()
	test.DemandSuccess(t, err)

	md.NewMode()
	md.AddSubModes("PNG", "WEBP", "TGA")
	_, err = md.Parse()
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, md.Mode(), "WEBP")
	test.ExpectEquality(t, md.Path(), "SHOT/WEBP")
	test.ExpectEquality(t, md.String(), "SHOT/WEBP")
	test.ExpectEquality(t, md.GetArg(0), "capture.pvr")
}

func TestUnknownFlag(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-foo"})
	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseError)
	test.ExpectFailure(t, err)
}

func TestHelp(t *testing.T) {
	var out strings.Builder

	md := modalflag.Modes{Output: &out}
	md.NewArgs([]string{"-help"})
	md.AddSubModes("PLAY", "DIGEST")
	md.AddBool("log", false, "echo log")
	md.AdditionalHelp("a stream file is required")

	p, err := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectSuccess(t, err)

	s := out.String()
	test.ExpectSuccess(t, strings.HasPrefix(s, "Usage:\n"))
	test.ExpectSuccess(t, strings.Contains(s, "-log"))
	test.ExpectSuccess(t, strings.Contains(s, "available sub-modes: PLAY, DIGEST"))
	test.ExpectSuccess(t, strings.Contains(s, "default: PLAY"))
	test.ExpectSuccess(t, strings.HasSuffix(s, "a stream file is required\n"))
}

func TestNoHelp(t *testing.T) {
	var out strings.Builder

	md := modalflag.Modes{Output: &out}
	md.NewArgs([]string{"-h"})
	p, _ := md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseHelp)
	test.ExpectEquality(t, out.String(), "No help available\n")
}

func TestAddress(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-address", "0x00200000", "capture.pvr"})
	addr := md.AddAddress("address", 0x1000, "context address")
	other := md.AddAddress("other", 0x1000, "unused address")

	p, err := md.Parse()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p, modalflag.ParseContinue)
	test.ExpectEquality(t, *addr, 0x00200000)
	test.ExpectEquality(t, *other, 0x1000)
	test.ExpectEquality(t, md.GetArg(0), "capture.pvr")

	md.NewArgs([]string{"-address", "0x100000000"})
	md.AddAddress("address", 0, "context address")
	p, err = md.Parse()
	test.ExpectEquality(t, p, modalflag.ParseError)
	test.ExpectFailure(t, err)
}
