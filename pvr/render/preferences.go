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
	"errors"
	"fmt"
	"strings"

	"github.com/gopherpvr/gopherpvr/paths"
	"github.com/gopherpvr/gopherpvr/prefs"
)

// Preferences for the render package.
type Preferences struct {
	dsk *prefs.Disk

	// the number of frames to skip between rendered frames
	SkipFrame prefs.Int

	// drop frames rather than wait for the renderer
	AutoSkip prefs.Bool

	// the ratio of the output resolution to the native resolution. use
	// RenderScale() rather than reading the value directly
	Scale prefs.Float

	// sort translucent polygons by strip rather than by triangle
	PerStripSorting prefs.Bool

	// separate strips with a restart index rather than degenerate triangles
	PrimitiveRestart prefs.Bool

	// comma separated list of backends in order of preference
	Backend prefs.String

	// image format for screenshots: png, webp or tga. the empty string is
	// treated as png
	ScreenshotFormat prefs.String
}

const maxSkipFrame = 9

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the Preferences
// type. Values are loaded from the default preferences file.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return newPreferences(pth)
}

func newPreferences(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.SkipFrame.SetHookPre(func(v prefs.Value) error {
		if n, ok := v.(int); ok && (n < 0 || n > maxSkipFrame) {
			return fmt.Errorf("skip frame must be between 0 and %d", maxSkipFrame)
		}
		return nil
	})

	p.Scale.SetHookPre(func(v prefs.Value) error {
		// zero is the reset value and is treated as 1
		if f, ok := v.(float64); ok && f != 0 && (f < 1.0 || f > 8.0) {
			return fmt.Errorf("render scale must be between 1 and 8")
		}
		return nil
	})

	p.ScreenshotFormat.SetHookPre(func(v prefs.Value) error {
		switch strings.ToLower(fmt.Sprint(v)) {
		case "", "png", "webp", "tga":
			return nil
		}
		return fmt.Errorf("unsupported screenshot format: %v", v)
	})

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("render.skipframe", &p.SkipFrame)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("render.autoskip", &p.AutoSkip)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("render.scale", &p.Scale)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("render.perstripsorting", &p.PerStripSorting)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("render.primrestart", &p.PrimitiveRestart)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("render.backend", &p.Backend)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("render.screenshot.format", &p.ScreenshotFormat)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load()
	if err != nil && !errors.Is(err, prefs.NoPrefsFile) {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all render settings to default values.
func (p *Preferences) SetDefaults() {
	p.SkipFrame.Set(0)
	p.AutoSkip.Set(false)
	p.Scale.Set(1.0)
	p.PerStripSorting.Set(false)
	p.PrimitiveRestart.Set(false)
	p.Backend.Set("gl32,ebiten,software")
	p.ScreenshotFormat.Set("png")
}

// Load render preferences from disk.
func (p *Preferences) Load() error {
	err := p.dsk.Load()
	if errors.Is(err, prefs.NoPrefsFile) {
		return nil
	}
	return err
}

// Save current render preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// Backends returns the list of backend names in the Backend preference.
func (p *Preferences) Backends() []string {
	var b []string
	for _, s := range strings.Split(p.Backend.String(), ",") {
		if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
			b = append(b, s)
		}
	}
	return b
}

// RenderScale returns the Scale preference as a value suitable for the pass
// builder and the backends.
func (p *Preferences) RenderScale() float64 {
	return max(p.Scale.Get().(float64), 1.0)
}
