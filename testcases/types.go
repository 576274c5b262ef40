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

package testcases

import "seehuhn.de/go/overlay/coords"

// TestCase describes a pointer gesture applied to a set of overlays.
type TestCase struct {
	Name string // lowercase a-z, 0-9 and _ only

	// Page is the size of the PDF page in points.  Scale is the render
	// scale, so that the canvas has size Page*Scale.
	Page  coords.PageSize
	Scale float64

	// Overlays gives the initial geometry, in canvas space, in insertion
	// order.
	Overlays []coords.Rect

	// Actions is the sequence of pointer actions to apply.
	Actions []Action

	// Want is the expected geometry after all actions, in canvas space.
	Want []coords.Rect

	// WantPDF, if set, is the expected geometry in PDF space.
	WantPDF []coords.Rect
}

// Action is a pointer action.
type Action interface {
	isAction()
}

// Press puts the pointer down at a canvas position.  The pressed overlay
// part is found by hit testing.
type Press struct {
	X, Y  float64
	Touch bool
}

// MoveTo moves the pointer to a canvas position.
type MoveTo struct {
	X, Y  float64
	Touch bool
}

// Release lifts the pointer.
type Release struct {
	Touch bool
}

// Leave moves the pointer off the canvas.
type Leave struct{}

// Cancel aborts a touch sequence.
type Cancel struct{}

func (Press) isAction()   {}
func (MoveTo) isAction()  {}
func (Release) isAction() {}
func (Leave) isAction()   {}
func (Cancel) isAction()  {}

// defaultPage is the page used by most test cases: 200x400pt rendered at
// scale 1.5, giving a 300x600 pixel canvas.
var defaultPage = coords.PageSize{Width: 200, Height: 400}

const defaultScale = 1.5

func box(x, y, w, h float64) coords.Rect {
	return coords.Rect{X: x, Y: y, Width: w, Height: h}
}

// steps returns n evenly spaced MoveTo actions from (x0, y0), exclusive,
// to (x1, y1), inclusive.
func steps(x0, y0, x1, y1 float64, n int, touch bool) []Action {
	res := make([]Action, n)
	for i := range n {
		t := float64(i+1) / float64(n)
		res[i] = MoveTo{X: x0 + t*(x1-x0), Y: y0 + t*(y1-y0), Touch: touch}
	}
	return res
}

// seq concatenates action lists.
func seq(parts ...[]Action) []Action {
	var res []Action
	for _, p := range parts {
		res = append(res, p...)
	}
	return res
}
