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

// Package screenshot saves rendered frames to image files. The PNG, WebP and
// TGA formats are supported.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"github.com/gopherpvr/gopherpvr/curated"
	"github.com/gopherpvr/gopherpvr/logger"
	"github.com/gopherpvr/gopherpvr/paths"
)

// UnsupportedFormat is returned when the requested image format is not one of
// the supported formats.
const UnsupportedFormat = "screenshot: unsupported format: %v"

// List of supported formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// DefaultFormat is used when the format is empty.
const DefaultFormat = FormatPNG

// normalise the format name. the empty string is the default format
func format(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	f = strings.TrimPrefix(f, ".")
	if f == "" {
		return DefaultFormat
	}
	return f
}

// Encode the image to w in the named format.
func Encode(w io.Writer, img image.Image, f string) error {
	var err error
	switch format(f) {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	case FormatTGA:
		err = tga.Encode(w, img)
	default:
		return curated.Errorf(UnsupportedFormat, f)
	}
	if err != nil {
		return curated.Errorf("screenshot: %v", err)
	}
	return nil
}

// Filename returns a unique filename for a screenshot in the named format. The
// label is included in the filename if it is not empty.
func Filename(label string, f string) string {
	return fmt.Sprintf("%s.%s", paths.UniqueFilename("screenshot", label), format(f))
}

// Save the image to the named file in the named format. If the format is empty
// the format is taken from the extension of the filename.
func Save(img image.Image, path string, f string) error {
	if strings.TrimSpace(f) == "" {
		if i := strings.LastIndexByte(path, '.'); i >= 0 {
			f = path[i+1:]
		}
	}

	// check format before creating file
	switch format(f) {
	case FormatPNG, FormatWebP, FormatTGA:
	default:
		return curated.Errorf(UnsupportedFormat, f)
	}

	out, err := os.Create(path)
	if err != nil {
		return curated.Errorf("screenshot: %v", err)
	}

	err = Encode(out, img, f)
	if err != nil {
		_ = out.Close()
		return err
	}

	err = out.Close()
	if err != nil {
		return curated.Errorf("screenshot: %v", err)
	}

	logger.Logf(logger.Allow, "screenshot", "saved: %s", path)

	return nil
}
