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

package screenshot_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/screenshot"
	"github.com/gopherpvr/gopherpvr/test"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for y := range 8 {
		for x := range 16 {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 32), B: 0x80, A: 0xff})
		}
	}
	return img
}

func TestPNG(t *testing.T) {
	var b bytes.Buffer
	test.DemandSuccess(t, screenshot.Encode(&b, testImage(), "PNG"))

	img, err := png.Decode(&b)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, img.Bounds().Dx(), 16)
	test.ExpectEquality(t, img.Bounds().Dy(), 8)

	r, g, _, _ := img.At(3, 2).RGBA()
	test.ExpectEquality(t, r>>8, 48)
	test.ExpectEquality(t, g>>8, 64)
}

func TestFormats(t *testing.T) {
	for _, f := range []string{"", "png", "webp", ".tga"} {
		var b bytes.Buffer
		test.ExpectSuccess(t, screenshot.Encode(&b, testImage(), f), f)
		test.ExpectInequality(t, b.Len(), 0, f)
	}

	var b bytes.Buffer
	err := screenshot.Encode(&b, testImage(), "gif")
	test.ExpectSuccess(t, curated.Is(err, screenshot.UnsupportedFormat))
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	// format taken from the filename
	pth := filepath.Join(dir, "frame.webp")
	test.DemandSuccess(t, screenshot.Save(testImage(), pth, ""))
	data, err := os.ReadFile(pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(data[:4]), "RIFF")
	test.ExpectEquality(t, string(data[8:12]), "WEBP")

	// unsupported formats do not create a file
	pth = filepath.Join(dir, "frame.bmp")
	err = screenshot.Save(testImage(), pth, "")
	test.ExpectSuccess(t, curated.Is(err, screenshot.UnsupportedFormat))
	_, err = os.Stat(pth)
	test.ExpectSuccess(t, os.IsNotExist(err))
}

func TestFilename(t *testing.T) {
	fn := screenshot.Filename("test", "")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "screenshot_test_"))
	test.ExpectSuccess(t, strings.HasSuffix(fn, ".png"))
}
