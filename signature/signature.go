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

// Package signature collects hand-drawn strokes and turns them into an
// image which can be placed on a PDF page.
package signature

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"slices"
	"sync"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/overlay/interact"
	"seehuhn.de/go/overlay/raster"
)

// Default pad size in pixels.
const (
	DefaultWidth  = 500
	DefaultHeight = 200
)

// DefaultLineWidth is the pen width in pixels.
const DefaultLineWidth = 2.5

// ErrEmpty is returned when an image is requested from an empty pad.
var ErrEmpty = errors.New("signature pad is empty")

// Pad records pen strokes.  The methods of a Pad can be called
// concurrently.
type Pad struct {
	Width, Height int
	LineWidth     float64
	Color         color.Color

	mu      sync.Mutex
	strokes [][]vec.Vec2
	drawing bool
}

// NewPad returns an empty pad with the default size, drawing in black.
func NewPad() *Pad {
	return &Pad{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		LineWidth: DefaultLineWidth,
		Color:     color.Black,
	}
}

// Begin starts a new stroke at p.
func (s *Pad) Begin(p vec.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strokes = append(s.strokes, []vec.Vec2{p})
	s.drawing = true
}

// Extend adds p to the current stroke.
// If no stroke is in progress, the call has no effect.
func (s *Pad) Extend(p vec.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.drawing {
		return
	}
	last := len(s.strokes) - 1
	s.strokes[last] = append(s.strokes[last], p)
}

// End finishes the current stroke.
func (s *Pad) End() {
	s.mu.Lock()
	s.drawing = false
	s.mu.Unlock()
}

// Handle feeds a pointer event to the pad and reports whether the event
// was used.
func (s *Pad) Handle(ev interact.PointerEvent) bool {
	switch ev.Kind {
	case interact.Down:
		s.Begin(ev.Pos)
		return true
	case interact.Move:
		s.mu.Lock()
		drawing := s.drawing
		s.mu.Unlock()
		if drawing {
			s.Extend(ev.Pos)
		}
		return drawing
	case interact.Up, interact.Leave, interact.Cancel:
		s.End()
		return true
	}
	return false
}

// Clear removes all strokes.
func (s *Pad) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strokes = nil
	s.drawing = false
}

// Empty reports whether nothing has been drawn.
func (s *Pad) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.strokes) == 0
}

// Strokes returns a copy of the recorded strokes.
func (s *Pad) Strokes() [][]vec.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([][]vec.Vec2, len(s.strokes))
	for i, stroke := range s.strokes {
		res[i] = slices.Clone(stroke)
	}
	return res
}

// Image draws all strokes onto a transparent image of the pad size.
func (s *Pad) Image() *image.RGBA {
	strokes := s.Strokes()

	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	p := &path.Data{}
	for _, stroke := range strokes {
		raster.Polyline(p, stroke, s.LineWidth)
	}
	r := raster.NewRasteriser(rect.Rect{URx: float64(s.Width), URy: float64(s.Height)})
	r.FillNonZero(p, raster.Painter(img, s.Color))
	return img
}

// PNG returns the drawing as a PNG image, trimmed to the drawn area.
func (s *Pad) PNG() ([]byte, error) {
	if s.Empty() {
		return nil, ErrEmpty
	}
	img := Trim(s.Image())
	if img.Bounds().Empty() {
		// all strokes are outside the pad
		return nil, ErrEmpty
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Trim returns the smallest sub-image of img which contains all pixels
// which are not fully transparent.
func Trim(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	var box image.Rectangle
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] == 0 {
				continue
			}
			x := b.Min.X + i/4
			box = box.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return img.SubImage(box).(*image.RGBA)
}
