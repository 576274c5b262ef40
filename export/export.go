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

// Package export writes the overlays of a session into a PDF document.
//
// The actual PDF manipulation is delegated to a [Writer], see
// [seehuhn.de/go/overlay/fpdfdoc] for an implementation.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/coords"
	"seehuhn.de/go/overlay/logging"
)

// ImageRef identifies an image embedded in a [Document].
type ImageRef string

// Writer opens PDF documents for modification.
type Writer interface {
	Load(data []byte) (Document, error)
}

// Document is a PDF document which can be modified and serialised.
// Pages are numbered starting from 1.
type Document interface {
	NumPages() int
	PageSize(pageNo int) (coords.PageSize, error)

	// EmbedImage adds an encoded raster image to the document.
	EmbedImage(data []byte) (ImageRef, error)

	// DrawImage draws an embedded image on a page.  The rectangle is in
	// PDF user space, with (X, Y) the lower-left corner.
	DrawImage(pageNo int, ref ImageRef, r coords.Rect) error

	// WriteTo serialises the modified document.
	WriteTo(w io.Writer) (int64, error)
}

// Error is returned when an export fails.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "export: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Composer draws overlays onto the pages of a PDF document.
type Composer struct {
	Writer Writer

	// Page selects the page the overlays are drawn on.  If Page is 0,
	// the overlays are drawn on every page of the document.
	Page int
}

// Compose loads the PDF document src, draws all overlays and writes the
// result to w.
//
// The overlay geometry is given in canvas space; vp is the viewport the
// geometry refers to.  For each page, the overlays are mapped to PDF space
// using the size of that page.
//
// The output is only written once the complete document has been
// generated.  On failure nothing is written to w and an [*Error] is
// returned.
func (c *Composer) Compose(ctx context.Context, src []byte, overlays []overlay.Overlay, vp coords.Viewport, w io.Writer) error {
	doc, err := c.Writer.Load(src)
	if err != nil {
		return &Error{Op: "load", Err: err}
	}

	numPages := doc.NumPages()
	var pages []int
	switch {
	case c.Page == 0:
		for p := 1; p <= numPages; p++ {
			pages = append(pages, p)
		}
	case c.Page >= 1 && c.Page <= numPages:
		pages = []int{c.Page}
	default:
		return &Error{
			Op:  "select page",
			Err: fmt.Errorf("page %d out of range 1-%d", c.Page, numPages),
		}
	}

	refs := make([]ImageRef, len(overlays))
	for i := range overlays {
		if err := ctx.Err(); err != nil {
			return &Error{Op: "embed", Err: err}
		}
		refs[i], err = doc.EmbedImage(overlays[i].Data)
		if err != nil {
			return &Error{Op: "embed " + string(overlays[i].ID), Err: err}
		}
	}

	for _, p := range pages {
		size, err := doc.PageSize(p)
		if err != nil {
			return &Error{Op: fmt.Sprintf("page %d", p), Err: err}
		}
		for i := range overlays {
			r := coords.ToPDFSpace(overlays[i].Rect(), vp, size)
			if err := doc.DrawImage(p, refs[i], r); err != nil {
				return &Error{Op: fmt.Sprintf("draw %s on page %d", overlays[i].ID, p), Err: err}
			}
		}
	}

	buf := &bytes.Buffer{}
	if _, err := doc.WriteTo(buf); err != nil {
		return &Error{Op: "serialize", Err: err}
	}
	n, err := w.Write(buf.Bytes())
	if err != nil {
		return &Error{Op: "write", Err: err}
	}

	logging.Logger().Info("document exported",
		"pages", len(pages), "overlays", len(overlays), "bytes", n)
	return nil
}
