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

// Package coords converts between the canvas space of a rendered page and
// PDF user space.
//
// Canvas space has its origin at the top-left corner of the rendered page,
// with y growing downwards, measured in device pixels.  PDF user space has
// its origin at the bottom-left corner of the page, with y growing upwards,
// measured in points.  The two are related by a per-axis scale factor and a
// vertical flip.
package coords

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// PageSize is the size of a PDF page in points.
type PageSize struct {
	Width, Height float64
}

// Viewport describes the raster a page was rendered into.
// Width and Height are in device pixels and must be non-zero.
type Viewport struct {
	Width, Height float64
	Scale         float64 // device pixels per PDF point
}

// NewViewport returns the viewport obtained by rendering a page of the
// given size at the given scale.
func NewViewport(page PageSize, scale float64) Viewport {
	return Viewport{
		Width:  page.Width * scale,
		Height: page.Height * scale,
		Scale:  scale,
	}
}

// Rect is an axis-aligned rectangle.
// In canvas space (X, Y) is the top-left corner, in PDF space it is the
// bottom-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// PDF returns r as a rectangle in the corner representation used by
// seehuhn.de/go/geom.  r must be in PDF space.
func (r Rect) PDF() rect.Rect {
	return rect.Rect{
		LLx: r.X,
		LLy: r.Y,
		URx: r.X + r.Width,
		URy: r.Y + r.Height,
	}
}

// ToPDFSpace maps a rectangle from canvas space to PDF user space.
//
// Widths and x coordinates are scaled by page.Width/vp.Width, heights and
// y coordinates by page.Height/vp.Height.  The y axis is flipped, so that
// the returned Y is the bottom edge of the rectangle.
func ToPDFSpace(r Rect, vp Viewport, page PageSize) Rect {
	sx := page.Width / vp.Width
	sy := page.Height / vp.Height
	return Rect{
		X:      r.X * sx,
		Y:      page.Height - r.Y*sy - r.Height*sy,
		Width:  r.Width * sx,
		Height: r.Height * sy,
	}
}

// CanvasToPDF returns the matrix which maps canvas points to PDF user space.
func CanvasToPDF(vp Viewport, page PageSize) matrix.Matrix {
	sx := page.Width / vp.Width
	sy := page.Height / vp.Height
	return matrix.Matrix{sx, 0, 0, -sy, 0, page.Height}
}

// PDFToCanvas returns the inverse of [CanvasToPDF].
func PDFToCanvas(vp Viewport, page PageSize) matrix.Matrix {
	sx := vp.Width / page.Width
	sy := vp.Height / page.Height
	return matrix.Matrix{sx, 0, 0, -sy, 0, vp.Height}
}

// Apply transforms the point p by the matrix m.
func Apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}
