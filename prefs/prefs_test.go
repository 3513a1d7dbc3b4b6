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

package prefs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopherpvr/gopherpvr/prefs"
	"github.com/gopherpvr/gopherpvr/test"
)

func TestBool(t *testing.T) {
	var v prefs.Bool
	test.ExpectEquality(t, v.Get().(bool), false)

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectEquality(t, v.String(), "true")

	test.ExpectSuccess(t, v.Set("TRUE"))
	test.ExpectEquality(t, v.Get().(bool), true)

	test.ExpectSuccess(t, v.Set("foo"))
	test.ExpectEquality(t, v.Get().(bool), false)

	test.ExpectFailure(t, v.Set(1.0))
}

func TestInt(t *testing.T) {
	var v prefs.Int
	test.ExpectSuccess(t, v.Set(10))
	test.ExpectEquality(t, v.Get().(int), 10)

	test.ExpectSuccess(t, v.Set("0x20"))
	test.ExpectEquality(t, v.Get().(int), 32)

	test.ExpectFailure(t, v.Set("ten"))
	test.ExpectEquality(t, v.Get().(int), 32)

	test.ExpectSuccess(t, v.Reset())
	test.ExpectEquality(t, v.String(), "0")
}

func TestFloat(t *testing.T) {
	var v prefs.Float
	test.ExpectSuccess(t, v.Set("1.5"))
	test.ExpectApproximate(t, v.Get().(float64), 1.5, 0.001)
	test.ExpectEquality(t, v.String(), "1.500")
	test.ExpectSuccess(t, v.Set(2))
	test.ExpectApproximate(t, v.Get().(float64), 2.0, 0.001)
}

func TestString(t *testing.T) {
	var v prefs.String
	test.ExpectEquality(t, v.String(), "")
	v.SetMaxLen(3)
	test.ExpectSuccess(t, v.Set("webp"))
	test.ExpectEquality(t, v.String(), "web")
}

func TestHooks(t *testing.T) {
	var v prefs.Int
	var seen int

	v.SetHookPre(func(nv prefs.Value) error {
		if nv.(int) < 0 {
			return errors.New("negative")
		}
		return nil
	})
	v.SetHookPost(func(nv prefs.Value) error {
		seen = nv.(int)
		return nil
	})

	test.ExpectSuccess(t, v.Set(5))
	test.ExpectEquality(t, seen, 5)

	test.ExpectFailure(t, v.Set(-1))
	test.ExpectEquality(t, v.Get().(int), 5)
	test.ExpectEquality(t, seen, 5)
}

func TestDisk(t *testing.T) {
	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)

	var skip prefs.Int
	var autoskip prefs.Bool
	var backend prefs.String

	dsk, err := prefs.NewDisk(pth)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, dsk.Add("render.skipframe", &skip))
	test.DemandSuccess(t, dsk.Add("render.autoskip", &autoskip))
	test.ExpectFailure(t, dsk.Add("render.autoskip", &autoskip))
	test.ExpectFailure(t, dsk.Add("bad :: key", &backend))

	err = dsk.Load()
	test.ExpectEquality(t, errors.Is(err, prefs.NoPrefsFile), true)

	test.ExpectSuccess(t, skip.Set(2))
	test.ExpectSuccess(t, autoskip.Set(true))
	test.DemandSuccess(t, dsk.Save())

	// a second disk instance referring to the same file
	dsk2, err := prefs.NewDisk(pth)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, dsk2.Add("render.backend", &backend))
	test.ExpectSuccess(t, backend.Set("gl32"))
	test.DemandSuccess(t, dsk2.Save())

	// the entries saved by the first disk must have survived
	test.ExpectSuccess(t, skip.Reset())
	test.ExpectSuccess(t, autoskip.Reset())
	test.DemandSuccess(t, dsk.Load())
	test.ExpectEquality(t, skip.Get().(int), 2)
	test.ExpectEquality(t, autoskip.Get().(bool), true)

	b, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), prefs.WarningBoilerPlate+"\n"+
		"render.autoskip :: true\n"+
		"render.backend :: gl32\n"+
		"render.skipframe :: 2\n")

	test.ExpectEquality(t, dsk.String(), "render.autoskip :: true\nrender.skipframe :: 2\n")
}

func TestCommandLineStack(t *testing.T) {
	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)

	var skip prefs.Int
	dsk, err := prefs.NewDisk(pth)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, dsk.Add("render.skipframe", &skip))

	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
	prefs.PushCommandLineStack("render.skipframe::3; render.scale :: 2; malformed")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 1)

	err = dsk.Load()
	test.ExpectEquality(t, errors.Is(err, prefs.NoPrefsFile), true)
	test.ExpectEquality(t, skip.Get().(int), 3)

	// the consumed entry is not returned
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "render.scale::2")
	test.ExpectEquality(t, prefs.SizeCommandLineStack(), 0)
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
}
