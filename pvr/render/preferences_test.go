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
	"path/filepath"
	"testing"

	"github.com/gopherpvr/gopherpvr/prefs"
	"github.com/gopherpvr/gopherpvr/test"
)

func TestPreferences(t *testing.T) {
	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)

	p, err := newPreferences(pth)
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, p.SkipFrame.Get().(int), 0)
	test.ExpectEquality(t, p.RenderScale(), 1.0)
	test.ExpectEquality(t, p.ScreenshotFormat.String(), "png")

	b := p.Backends()
	test.DemandEquality(t, len(b), 3)
	test.ExpectEquality(t, b[0], "gl32")
	test.ExpectEquality(t, b[2], "software")

	test.ExpectFailure(t, p.SkipFrame.Set(10))
	test.ExpectFailure(t, p.Scale.Set(0.5))
	test.ExpectFailure(t, p.ScreenshotFormat.Set("bmp"))
	test.ExpectEquality(t, p.SkipFrame.Get().(int), 0)

	test.DemandSuccess(t, p.SkipFrame.Set(2))
	test.DemandSuccess(t, p.Backend.Set(" Software , ebiten,"))
	test.DemandSuccess(t, p.Save())

	q, err := newPreferences(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, q.SkipFrame.Get().(int), 2)

	b = q.Backends()
	test.DemandEquality(t, len(b), 2)
	test.ExpectEquality(t, b[0], "software")
	test.ExpectEquality(t, b[1], "ebiten")
}

func TestPreferencesCommandLine(t *testing.T) {
	pth := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)

	prefs.PushCommandLineStack("render.skipframe::4; render.autoskip::true")
	p, err := newPreferences(pth)
	unused := prefs.PopCommandLineStack()
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, unused, "")
	test.ExpectEquality(t, p.SkipFrame.Get().(int), 4)
	test.ExpectEquality(t, p.AutoSkip.Get().(bool), true)
}
