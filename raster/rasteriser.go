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

// Package raster converts vector paths into anti-aliased pixel coverage.
//
// The rasteriser computes the exact area of each pixel covered by a path
// made of straight line segments; curves are flattened first.  It is used
// to draw signature strokes and the selection chrome shown around overlays.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Rule selects how the interior of a path is determined.
type Rule int

// These are the supported fill rules.
const (
	NonZero Rule = iota
	EvenOdd
)

// EmitFunc receives the coverage of one row of pixels.
// coverage[i] is the coverage of pixel (xMin+i, y), in the range [0, 1].
// The slice is only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// segment is a path edge in device space, oriented so that y0 < y1.
type segment struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
	dir    float32 // +1 if the path runs downwards along this edge, -1 otherwise
}

// Rasteriser converts paths to pixel coverage values.
// A Rasteriser can be reused for many paths; internal buffers are kept
// between calls.
type Rasteriser struct {
	// CTM maps path coordinates to device pixels.
	CTM matrix.Matrix

	// Clip is the output region in device pixels.
	// The coordinates must be integers.
	Clip rect.Rect

	// Flatness is the maximum distance, in device pixels, between a curve
	// and the line segments used to approximate it.
	Flatness float64

	segs   []segment
	active []int
	cover  []float32
	area   []float32

	bbox    rect.Rect
	hasBBox bool
}

// NewRasteriser returns a rasteriser with the identity transformation and
// the given clip rectangle.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	r := &Rasteriser{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Buffer capacity is retained.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.segs = r.segs[:0]
	r.active = r.active[:0]
}

// Fill rasterises the interior of p using the given fill rule.
func (r *Rasteriser) Fill(p *path.Data, rule Rule, emit EmitFunc) {
	if !r.collect(p) {
		return
	}

	xMin := max(int(math.Floor(r.bbox.LLx)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(r.bbox.URx))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(r.bbox.LLy)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(r.bbox.URy))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.segs, func(a, b segment) int {
		return cmp.Compare(a.y0, b.y0)
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top := float64(y)
		for next < len(r.segs) && r.segs[next].y0 < top+1 {
			r.active = append(r.active, next)
			next++
		}
		r.active = slices.DeleteFunc(r.active, func(i int) bool {
			return r.segs[i].y1 <= top
		})
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, i := range r.active {
			r.accumulate(&r.segs[i], y, xMin, xMax)
		}

		if rule == EvenOdd {
			integrateEvenOdd(r.cover, r.area)
		} else {
			integrateNonZero(r.cover, r.area)
		}
		if row, offs := trimZeros(r.cover); row != nil {
			emit(y, xMin+offs, row)
		}
	}
}

// FillNonZero is a shorthand for Fill with the [NonZero] rule.
func (r *Rasteriser) FillNonZero(p *path.Data, emit EmitFunc) {
	r.Fill(p, NonZero, emit)
}

// FillEvenOdd is a shorthand for Fill with the [EvenOdd] rule.
func (r *Rasteriser) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.Fill(p, EvenOdd, emit)
}

// collect converts the path into device space segments.
// It returns false if the path covers no area.
func (r *Rasteriser) collect(p *path.Data) bool {
	r.segs = r.segs[:0]
	r.hasBBox = false

	var cur, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if cur != start {
				r.addLine(cur, start)
			}
			cur = p.Coords[k]
			start = cur
			k++
		case path.CmdLineTo:
			r.addLine(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuad(cur, p.Coords[k], p.Coords[k+1])
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2])
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			r.addLine(cur, start)
			cur = start
		}
	}
	// Open subpaths are closed implicitly when filling.
	if cur != start {
		r.addLine(cur, start)
	}

	return len(r.segs) > 0
}

// addLine transforms a line from path space to device space and records it.
func (r *Rasteriser) addLine(a, b vec.Vec2) {
	m := r.CTM
	ax := m[0]*a.X + m[2]*a.Y + m[4]
	ay := m[1]*a.X + m[3]*a.Y + m[5]
	bx := m[0]*b.X + m[2]*b.Y + m[4]
	by := m[1]*b.X + m[3]*b.Y + m[5]

	if math.Abs(by-ay) < horizontalThreshold {
		return
	}

	s := segment{x0: ax, y0: ay, x1: bx, y1: by, dir: 1}
	if ay > by {
		s = segment{x0: bx, y0: by, x1: ax, y1: ay, dir: -1}
	}
	s.dxdy = (s.x1 - s.x0) / (s.y1 - s.y0)
	r.segs = append(r.segs, s)

	box := rect.Rect{
		LLx: min(ax, bx), LLy: s.y0,
		URx: max(ax, bx), URy: s.y1,
	}
	if !r.hasBBox {
		r.bbox = box
		r.hasBBox = true
	} else {
		r.bbox.LLx = min(r.bbox.LLx, box.LLx)
		r.bbox.LLy = min(r.bbox.LLy, box.LLy)
		r.bbox.URx = max(r.bbox.URx, box.URx)
		r.bbox.URy = max(r.bbox.URy, box.URy)
	}
}

// deviceLength returns the length of v after applying the linear part of
// the CTM.
func (r *Rasteriser) deviceLength(v vec.Vec2) float64 {
	m := r.CTM
	return math.Hypot(m[0]*v.X+m[2]*v.Y, m[1]*v.X+m[3]*v.Y)
}

func (r *Rasteriser) flattenQuad(p0, p1, p2 vec.Vec2) {
	dev := r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		r.addLine(prev, q)
		prev = q
	}
}

func (r *Rasteriser) flattenCubic(p0, p1, p2, p3 vec.Vec2) {
	// Wang's formula for the number of segments
	dev := max(
		r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2)),
		r.deviceLength(p1.Sub(p2.Mul(2)).Add(p3)),
	)
	n := 1
	if k := math.Sqrt(3 * dev / (4 * r.Flatness)); k > 1 {
		n = int(math.Ceil(k))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		r.addLine(prev, q)
		prev = q
	}
}

// accumulate adds the contribution of s within scanline y to the cover and
// area buffers.  The buffers represent pixels xMin, ..., xMax-1.
//
// For every pixel crossed by the segment, cover receives the signed
// vertical extent of the crossing and area receives the part of that
// extent which lies to the right of the segment within the pixel.
// Contributions left of xMin are collected in the first pixel.
func (r *Rasteriser) accumulate(s *segment, y, xMin, xMax int) {
	top := max(float64(y), s.y0)
	bot := min(float64(y+1), s.y1)
	if bot <= top {
		return
	}

	xTop := s.x0 + s.dxdy*(top-s.y0)
	xBot := s.x0 + s.dxdy*(bot-s.y0)
	lo, hi := min(xTop, xBot), max(xTop, xBot)
	pixLo := int(math.Floor(lo))
	pixHi := int(math.Floor(hi))

	if pixLo >= xMax {
		return
	}
	if pixLo == pixHi || pixHi < xMin {
		r.deposit(pixLo, xMin, xMax, s.dir*float32(bot-top), (lo+hi)/2)
		return
	}

	dydx := 1 / s.dxdy
	first := max(pixLo, xMin-1)
	last := min(pixHi, xMax-1)
	for p := first; p <= last; p++ {
		xa := float64(p)
		if p == first {
			xa = lo
		}
		xb := float64(p + 1)
		if p == pixHi {
			xb = hi
		}
		ya := s.y0 + (xa-s.x0)*dydx
		yb := s.y0 + (xb-s.x0)*dydx
		if ya > yb {
			ya, yb = yb, ya
		}
		ya = max(ya, top)
		yb = min(yb, bot)
		if yb <= ya {
			continue
		}
		r.deposit(p, xMin, xMax, s.dir*float32(yb-ya), (xa+xb)/2)
	}
}

// deposit records a crossing of pixel column pix with signed height c,
// at mean horizontal position xMid.
func (r *Rasteriser) deposit(pix, xMin, xMax int, c float32, xMid float64) {
	switch {
	case pix < xMin:
		r.cover[0] += c
		r.area[0] += c
	case pix < xMax:
		i := pix - xMin
		r.cover[i] += c
		r.area[i] += c * float32(float64(pix+1)-xMid)
	}
}

// integrateNonZero turns accumulated cover and area values into
// coverage, in place, using the nonzero winding rule.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		cover[i] = min(abs32(v), 1)
	}
}

// integrateEvenOdd turns accumulated cover and area values into
// coverage, in place, using the even-odd rule.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := abs32(acc + area[i])
		acc += cover[i]
		v -= 2 * float32(math.Floor(float64(v/2)))
		cover[i] = 1 - abs32(1-v)
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros strips leading and trailing zeros.
// If all values are zero, nil is returned.
func trimZeros(row []float32) ([]float32, int) {
	lo := 0
	for lo < len(row) && row[lo] == 0 {
		lo++
	}
	if lo == len(row) {
		return nil, 0
	}
	hi := len(row)
	for row[hi-1] == 0 {
		hi--
	}
	return row[lo:hi], lo
}

const (
	// defaultFlatness is the default curve flattening tolerance, in device
	// pixels.
	defaultFlatness = 0.25

	// horizontalThreshold is the smallest vertical extent of a segment
	// which contributes to coverage.
	horizontalThreshold = 1e-10
)
