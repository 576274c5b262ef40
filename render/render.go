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

// Package render shows PDF pages with their overlays on screen.
//
// A [Coordinator] asks a [Document] to rasterise the current page,
// cancelling renders which have been superseded, and paints the overlays
// of an [overlay.Model] on top of the rendered page.
package render

import (
	"context"
	"errors"
	"image"

	"seehuhn.de/go/overlay/coords"
)

// DefaultScale is the number of device pixels per PDF point used for
// on-screen rendering.
const DefaultScale = 1.5

// Page is a rendered PDF page.
type Page struct {
	Image    image.Image
	Viewport coords.Viewport
	Size     coords.PageSize
}

// Document is a loaded PDF document which can be rasterised.
type Document interface {
	// NumPages returns the number of pages in the document.
	NumPages() int

	// PageSize returns the size of the page with the given number in PDF
	// points.
	PageSize(pageNo int) (coords.PageSize, error)

	// RenderPage rasterises the page with the given number, starting at 1,
	// at the given scale.  If ctx is cancelled before the page is
	// finished, the method returns an error wrapping the context error.
	RenderPage(ctx context.Context, pageNo int, scale float64) (*Page, error)
}

var (
	// ErrInvalidDocument indicates that a document could not be parsed.
	ErrInvalidDocument = errors.New("invalid PDF document")

	// ErrCancelled indicates that a render was superseded by a newer one.
	ErrCancelled = errors.New("render cancelled")
)

// isCancelled reports whether err is the result of cancelling a render.
func isCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}
