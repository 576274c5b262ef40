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
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// render fills p into a new alpha image of the given size.
func render(p *path.Data, rule Rule, w, h int, ctm matrix.Matrix) *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, w, h))
	r := NewRasteriser(rect.Rect{URx: float64(w), URy: float64(h)})
	if ctm != (matrix.Matrix{}) {
		r.CTM = ctm
	}
	r.Fill(p, rule, Mask(img))
	return img
}

// TestTriangleCoverage verifies exact coverage values for a simple triangle.
// The triangle (0,0)→(10,0)→(10,1)→close has a diagonal edge y = x/10.
// Each pixel X should have coverage (2X+1)/20: 0.05, 0.15, ..., 0.95.
func TestTriangleCoverage(t *testing.T) {
	triangle := (&path.Data{}).
		MoveTo(pt(0, 0)).
		LineTo(pt(10, 0)).
		LineTo(pt(10, 1)).
		Close()

	r := NewRasteriser(rect.Rect{URx: 10, URy: 1})
	coverage := make([]float32, 10)
	r.FillNonZero(triangle, func(y, xMin int, cov []float32) {
		if y == 0 {
			copy(coverage[xMin:], cov)
		}
	})

	for x := range 10 {
		want := float32(2*x+1) / 20
		if math.Abs(float64(coverage[x]-want)) > 1e-6 {
			t.Errorf("pixel %d: got coverage %.4f, want %.4f", x, coverage[x], want)
		}
	}
}

// TestAgainstVector compares polygon fills with golang.org/x/image/vector.
func TestAgainstVector(t *testing.T) {
	star := func() [][2]float64 {
		var pts [][2]float64
		for _, i := range []int{0, 2, 4, 1, 3} {
			angle := float64(i)*2*math.Pi/5 - math.Pi/2
			pts = append(pts, [2]float64{32 + 25*math.Cos(angle), 32 + 25*math.Sin(angle)})
		}
		return pts
	}
	cases := []struct {
		name string
		pts  [][2]float64
	}{
		{"triangle", [][2]float64{{10, 50}, {32, 10}, {54, 50}}},
		{"star", star()},
		{"diamond", [][2]float64{{32, 3.3}, {60.7, 32}, {32, 60.7}, {3.3, 32}}},
		{"wedge", [][2]float64{{0.5, 1}, {63.5, 12.25}, {1, 23.5}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			const size = 64

			p := &path.Data{}
			p.MoveTo(pt(tc.pts[0][0], tc.pts[0][1]))
			for _, q := range tc.pts[1:] {
				p.LineTo(pt(q[0], q[1]))
			}
			p.Close()
			got := render(p, NonZero, size, size, matrix.Matrix{})

			v := vector.NewRasterizer(size, size)
			v.MoveTo(float32(tc.pts[0][0]), float32(tc.pts[0][1]))
			for _, q := range tc.pts[1:] {
				v.LineTo(float32(q[0]), float32(q[1]))
			}
			v.ClosePath()
			want := image.NewAlpha(image.Rect(0, 0, size, size))
			v.Draw(want, want.Bounds(), image.NewUniform(color.Alpha{255}), image.Point{})

			const tolerance = 3
			bad := 0
			for i := range got.Pix {
				d := int(got.Pix[i]) - int(want.Pix[i])
				if d < -tolerance || d > tolerance {
					bad++
				}
			}
			if bad > 0 {
				t.Errorf("%d pixels differ by more than %d", bad, tolerance)
			}
		})
	}
}

func TestFillRules(t *testing.T) {
	// two concentric circles with the same orientation
	p := Circle(&path.Data{}, pt(32, 32), 28)
	Circle(p, pt(32, 32), 12)

	nz := render(p, NonZero, 64, 64, matrix.Matrix{})
	eo := render(p, EvenOdd, 64, 64, matrix.Matrix{})

	if a := nz.AlphaAt(32, 32).A; a != 255 {
		t.Errorf("nonzero: centre alpha = %d, want 255", a)
	}
	if a := eo.AlphaAt(32, 32).A; a != 0 {
		t.Errorf("even-odd: centre alpha = %d, want 0", a)
	}
	for _, img := range []*image.Alpha{nz, eo} {
		if a := img.AlphaAt(32, 10).A; a != 255 {
			t.Errorf("ring alpha = %d, want 255", a)
		}
		if a := img.AlphaAt(1, 1).A; a != 0 {
			t.Errorf("corner alpha = %d, want 0", a)
		}
	}
}

func TestCircleArea(t *testing.T) {
	const radius = 20
	img := render(Circle(&path.Data{}, pt(32, 32), radius), NonZero, 64, 64, matrix.Matrix{})
	var sum float64
	for _, a := range img.Pix {
		sum += float64(a) / 255
	}
	want := math.Pi * radius * radius
	if math.Abs(sum-want)/want > 0.02 {
		t.Errorf("circle area = %.2f, want %.2f", sum, want)
	}
}

func TestFrame(t *testing.T) {
	img := render(Frame(&path.Data{}, 10, 10, 40, 30, 2), NonZero, 64, 64, matrix.Matrix{})
	checks := []struct {
		x, y int
		want uint8
	}{
		{30, 25, 0},   // inside
		{10, 25, 255}, // left edge, inner half
		{9, 25, 255},  // left edge, outer half
		{30, 39, 255}, // bottom edge
		{5, 5, 0},     // outside
		{49, 10, 255}, // corner
		{55, 25, 0},   // right of frame
	}
	for _, c := range checks {
		if a := img.AlphaAt(c.x, c.y).A; a != c.want {
			t.Errorf("alpha at (%d,%d) = %d, want %d", c.x, c.y, a, c.want)
		}
	}
}

func TestPolyline(t *testing.T) {
	// a cross, so that two segments overlap in the middle
	pts := []vec.Vec2{pt(10, 32), pt(54, 32), pt(54, 10), pt(32, 10), pt(32, 54)}
	img := render(Polyline(&path.Data{}, pts, 6), NonZero, 64, 64, matrix.Matrix{})

	if a := img.AlphaAt(32, 32).A; a != 255 {
		t.Errorf("crossing alpha = %d, want 255", a)
	}
	if a := img.AlphaAt(20, 32).A; a != 255 {
		t.Errorf("segment alpha = %d, want 255", a)
	}
	if a := img.AlphaAt(20, 20).A; a != 0 {
		t.Errorf("background alpha = %d, want 0", a)
	}
	// round cap extends beyond the first point
	if a := img.AlphaAt(8, 32).A; a != 255 {
		t.Errorf("cap alpha = %d, want 255", a)
	}
	if a := img.AlphaAt(5, 32).A; a != 0 {
		t.Errorf("alpha beyond cap = %d, want 0", a)
	}
}

func TestPolylineDot(t *testing.T) {
	img := render(Polyline(&path.Data{}, []vec.Vec2{pt(16, 16)}, 8), NonZero, 32, 32, matrix.Matrix{})
	if a := img.AlphaAt(16, 16).A; a != 255 {
		t.Errorf("dot centre alpha = %d, want 255", a)
	}
	if a := img.AlphaAt(25, 16).A; a != 0 {
		t.Errorf("alpha outside dot = %d, want 0", a)
	}
}

func TestClipLeft(t *testing.T) {
	// the rectangle starts left of the clip region
	p := Rectangle(&path.Data{}, -5, 0, 10, 4)
	img := render(p, NonZero, 16, 4, matrix.Matrix{})
	for x := range 16 {
		want := uint8(0)
		if x < 5 {
			want = 255
		}
		if a := img.AlphaAt(x, 2).A; a != want {
			t.Errorf("alpha at x=%d is %d, want %d", x, a, want)
		}
	}
}

func TestCTM(t *testing.T) {
	p := Rectangle(&path.Data{}, 1, 1, 4, 4)
	img := render(p, NonZero, 16, 16, matrix.Matrix{2, 0, 0, 2, 0, 0})
	if a := img.AlphaAt(2, 2).A; a != 255 {
		t.Errorf("scaled rectangle: alpha at (2,2) = %d, want 255", a)
	}
	if a := img.AlphaAt(9, 9).A; a != 255 {
		t.Errorf("scaled rectangle: alpha at (9,9) = %d, want 255", a)
	}
	if a := img.AlphaAt(10, 10).A; a != 0 {
		t.Errorf("scaled rectangle: alpha at (10,10) = %d, want 0", a)
	}
}

func TestPainter(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 1))
	for i := range dst.Pix {
		dst.Pix[i] = 255
	}
	emit := Painter(dst, color.RGBA{R: 255, A: 255})
	emit(0, 1, []float32{1, 0.5})
	emit(3, 0, []float32{1}) // outside, ignored
	emit(0, 3, []float32{1, 1})

	want := []color.RGBA{
		{255, 255, 255, 255},
		{255, 0, 0, 255},
		{255, 128, 128, 255},
		{255, 0, 0, 255},
	}
	for x, w := range want {
		if got := dst.RGBAAt(x, 0); got != w {
			t.Errorf("pixel %d: got %v, want %v", x, got, w)
		}
	}
}
