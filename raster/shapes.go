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

package raster

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// The shapes below all use the same orientation, so that overlapping
// shapes in one path reinforce each other under the nonzero rule.

// kappa is the control point distance for approximating a quarter circle
// by a cubic Bézier curve.
const kappa = 0.5522847498

// Circle appends a closed circle to p and returns p.
func Circle(p *path.Data, c vec.Vec2, radius float64) *path.Data {
	k := kappa * radius
	return p.MoveTo(vec.Vec2{X: c.X + radius, Y: c.Y}).
		CubeTo(vec.Vec2{X: c.X + radius, Y: c.Y - k}, vec.Vec2{X: c.X + k, Y: c.Y - radius}, vec.Vec2{X: c.X, Y: c.Y - radius}).
		CubeTo(vec.Vec2{X: c.X - k, Y: c.Y - radius}, vec.Vec2{X: c.X - radius, Y: c.Y - k}, vec.Vec2{X: c.X - radius, Y: c.Y}).
		CubeTo(vec.Vec2{X: c.X - radius, Y: c.Y + k}, vec.Vec2{X: c.X - k, Y: c.Y + radius}, vec.Vec2{X: c.X, Y: c.Y + radius}).
		CubeTo(vec.Vec2{X: c.X + k, Y: c.Y + radius}, vec.Vec2{X: c.X + radius, Y: c.Y + k}, vec.Vec2{X: c.X + radius, Y: c.Y}).
		Close()
}

// Rectangle appends a closed axis-aligned rectangle to p and returns p.
func Rectangle(p *path.Data, x, y, w, h float64) *path.Data {
	return p.MoveTo(vec.Vec2{X: x, Y: y + h}).
		LineTo(vec.Vec2{X: x + w, Y: y + h}).
		LineTo(vec.Vec2{X: x + w, Y: y}).
		LineTo(vec.Vec2{X: x, Y: y}).
		Close()
}

// Frame appends the outline of a rectangle, drawn with the given line
// width centred on the rectangle edges.  The result must be filled with
// the nonzero rule.
func Frame(p *path.Data, x, y, w, h, lineWidth float64) *path.Data {
	d := lineWidth / 2
	Rectangle(p, x-d, y-d, w+2*d, h+2*d)
	if w <= lineWidth || h <= lineWidth {
		return p
	}

	// inner boundary, opposite orientation
	x0, y0 := x+d, y+d
	x1, y1 := x+w-d, y+h-d
	return p.MoveTo(vec.Vec2{X: x0, Y: y1}).
		LineTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y1}).
		Close()
}

// Polyline appends the outline of a line through the given points, with
// round caps and joins, to p.  The result must be filled with the nonzero
// rule.  A single point gives a dot.
func Polyline(p *path.Data, pts []vec.Vec2, lineWidth float64) *path.Data {
	if len(pts) == 0 {
		return p
	}
	hw := lineWidth / 2
	Circle(p, pts[0], hw)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		l := d.Length()
		if l < minSegmentLength {
			continue
		}
		n := vec.Vec2{X: -d.Y, Y: d.X}.Mul(hw / l)
		p.MoveTo(a.Add(n)).
			LineTo(b.Add(n)).
			LineTo(b.Sub(n)).
			LineTo(a.Sub(n)).
			Close()
		Circle(p, b, hw)
	}
	return p
}

const minSegmentLength = 1e-9
