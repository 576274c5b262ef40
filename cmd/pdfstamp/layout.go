// seehuhn.de/go/overlay - place images and signatures on PDF pages
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"seehuhn.de/go/overlay"
)

// Layout describes where images are placed on a PDF page.
//
// Coordinates are in canvas pixels, as seen on screen when the page
// ViewPage is rendered at the given Scale, with the origin in the top-left
// corner of the page.
type Layout struct {
	Scale    float64       `json:"scale,omitempty"`
	ViewPage int           `json:"view_page,omitempty"`
	Images   []LayoutImage `json:"images"`
}

// LayoutImage is one image of a [Layout].  If Width or Height is zero,
// the default size of half the natural image size is used.  If X and Y are
// both omitted, the image is placed at the default position.
type LayoutImage struct {
	File   string   `json:"file"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  float64  `json:"width,omitempty"`
	Height float64  `json:"height,omitempty"`
}

// readLayout reads a layout file.  Image file names are resolved relative
// to the directory containing the layout file.
func readLayout(fname string) (*Layout, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	l, err := decodeLayout(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}

	dir := filepath.Dir(fname)
	for i := range l.Images {
		if !filepath.IsAbs(l.Images[i].File) {
			l.Images[i].File = filepath.Join(dir, l.Images[i].File)
		}
	}
	return l, nil
}

func decodeLayout(r io.Reader) (*Layout, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	l := &Layout{}
	if err := dec.Decode(l); err != nil {
		return nil, err
	}
	if l.ViewPage < 0 {
		return nil, fmt.Errorf("invalid view page %d", l.ViewPage)
	}
	if l.ViewPage == 0 {
		l.ViewPage = 1
	}
	if l.Scale < 0 {
		return nil, fmt.Errorf("invalid scale %g", l.Scale)
	}
	for i, img := range l.Images {
		if img.File == "" {
			return nil, fmt.Errorf("image %d: missing file name", i+1)
		}
	}
	return l, nil
}

// place loads the images of the layout into m.
func (l *Layout) place(m *overlay.Model, readFile func(string) ([]byte, error)) error {
	for _, img := range l.Images {
		data, err := readFile(img.File)
		if err != nil {
			return err
		}
		o, err := overlay.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", img.File, err)
		}
		id := m.Add(o)

		if img.X != nil || img.Y != nil {
			x, y := o.X, o.Y
			if img.X != nil {
				x = *img.X
			}
			if img.Y != nil {
				y = *img.Y
			}
			m.Translate(id, x, y)
		}
		if img.Width > 0 || img.Height > 0 {
			w, h := o.Width, o.Height
			if img.Width > 0 {
				w = img.Width
			}
			if img.Height > 0 {
				h = img.Height
			}
			m.Resize(id, w, h)
		}
	}
	return nil
}
