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

// Package overlay keeps track of raster images placed on top of a rendered
// PDF page.
//
// Overlay geometry is kept in canvas space: the origin is the top-left
// corner of the rendered page and units are device pixels.  The package
// [seehuhn.de/go/overlay/coords] maps this geometry to PDF user space when
// a document is exported.
package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/overlay/coords"
)

// ID identifies an overlay within a [Model].
type ID string

// Overlay is a raster image placed on the canvas.
type Overlay struct {
	ID ID

	// X and Y give the top-left corner in canvas pixels.
	X, Y float64

	// Width and Height give the displayed size in canvas pixels.
	Width, Height float64

	// Data holds the encoded image, as uploaded.
	Data []byte

	// Format is the image format name, as reported by [image.Decode].
	Format string

	// Image is the decoded raster, used for drawing on screen.
	Image image.Image
}

// Rect returns the area covered by the overlay, in canvas space.
func (o *Overlay) Rect() coords.Rect {
	return coords.Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

// Contains reports whether the canvas point p lies inside the overlay.
func (o *Overlay) Contains(p vec.Vec2) bool {
	return p.X >= o.X && p.X < o.X+o.Width && p.Y >= o.Y && p.Y < o.Y+o.Height
}

// Geometry defaults for newly created overlays.
const (
	// MinSize is the smallest width or height an overlay can be resized to.
	MinSize = 10

	// DefaultScale is the initial size of an overlay, relative to the
	// natural size of its image.
	DefaultScale = 0.5
)

// DefaultOrigin is where new overlays are placed on the canvas.
var DefaultOrigin = vec.Vec2{X: 100, Y: 100}

// ErrInvalidImage is returned by [Decode] if the data is not a supported
// raster image.
var ErrInvalidImage = errors.New("not a valid image")

// Decode creates an overlay from an encoded image.
// The overlay is placed at DefaultOrigin and shown at half the natural
// size of the image.  The ID is left empty; it is assigned by [Model.Add].
func Decode(data []byte) (*Overlay, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty %s image", ErrInvalidImage, format)
	}

	return &Overlay{
		X:      DefaultOrigin.X,
		Y:      DefaultOrigin.Y,
		Width:  float64(b.Dx()) * DefaultScale,
		Height: float64(b.Dy()) * DefaultScale,
		Data:   data,
		Format: format,
		Image:  img,
	}, nil
}
