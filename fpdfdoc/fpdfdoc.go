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

// Package fpdfdoc implements [export.Writer] using the fpdf library.
//
// Existing pages are imported as form XObjects, so that the output is a
// new document which shows the original pages with the overlay images
// drawn on top.  Only the page contents are carried over: annotations,
// form fields, outlines and the document information dictionary of the
// input are not part of the output.
package fpdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"golang.org/x/image/draw"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/coords"
	"seehuhn.de/go/overlay/export"
)

// ErrMalformed is returned when a PDF document cannot be parsed.
var ErrMalformed = errors.New("malformed PDF document")

// pageBox is the page boundary used to import pages.
const pageBox = "/MediaBox"

// Writer opens PDF documents for modification.
// The zero value is ready to use.
type Writer struct {
	// Compress enables compression of the page content streams.
	Compress bool

	// CreationDate is stored in the document information dictionary.
	// If this is the zero time, the current time is used.
	CreationDate time.Time
}

var _ export.Writer = (*Writer)(nil)

// Load implements the [export.Writer] interface.
func (w *Writer) Load(data []byte) (export.Document, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(w.Compress)
	pdf.SetCatalogSort(true)
	if !w.CreationDate.IsZero() {
		pdf.SetCreationDate(w.CreationDate)
	}

	sizes, err := importPages(pdf, data)
	if err != nil {
		return nil, err
	}
	return &document{pdf: pdf, sizes: sizes}, nil
}

// PageSizes returns the sizes of all pages of a PDF document.
func PageSizes(data []byte) ([]coords.PageSize, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	return importPages(pdf, data)
}

// importPages adds one page to pdf for every page of the document data,
// showing the imported page.
func importPages(pdf *fpdf.Fpdf, data []byte) (sizes []coords.PageSize, err error) {
	// gofpdi reports parse errors by panicking
	defer func() {
		if r := recover(); r != nil {
			sizes = nil
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMalformed)
	}

	// The importer identifies documents by the address of the stream,
	// so the same pointer must be used for all pages.
	var rs io.ReadSeeker = bytes.NewReader(data)
	imp := gofpdi.NewImporter()

	tpl := imp.ImportPageFromStream(pdf, &rs, 1, pageBox)
	boxes := imp.GetPageSizes()
	numPages := len(boxes)
	if numPages == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrMalformed)
	}

	sizes = make([]coords.PageSize, numPages)
	for i := range sizes {
		pageNo := i + 1
		box := boxes[pageNo][pageBox]
		size := coords.PageSize{Width: box["w"], Height: box["h"]}
		if !(size.Width > 0 && size.Height > 0) {
			return nil, fmt.Errorf("%w: page %d has invalid size %gx%g",
				ErrMalformed, pageNo, size.Width, size.Height)
		}
		sizes[i] = size

		if pageNo > 1 {
			tpl = imp.ImportPageFromStream(pdf, &rs, pageNo, pageBox)
		}
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: size.Width, Ht: size.Height})
		imp.UseImportedTemplate(pdf, tpl, 0, 0, size.Width, size.Height)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	return sizes, nil
}

type document struct {
	pdf     *fpdf.Fpdf
	sizes   []coords.PageSize
	nImages int
}

func (d *document) NumPages() int {
	return len(d.sizes)
}

func (d *document) PageSize(pageNo int) (coords.PageSize, error) {
	if pageNo < 1 || pageNo > len(d.sizes) {
		return coords.PageSize{}, fmt.Errorf("page %d out of range 1-%d", pageNo, len(d.sizes))
	}
	return d.sizes[pageNo-1], nil
}

// EmbedImage implements the [export.Document] interface.
//
// JPEG images are embedded unchanged.  All other formats are converted
// to 8-bit, non-interlaced PNG first, since this is the only PNG variant
// fpdf can read.
func (d *document) EmbedImage(data []byte) (export.ImageRef, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", overlay.ErrInvalidImage, err)
	}

	var opt fpdf.ImageOptions
	var r io.Reader
	if format == "jpeg" {
		opt.ImageType = "JPG"
		r = bytes.NewReader(data)
	} else {
		buf := &bytes.Buffer{}
		if err := encodePNG(buf, img); err != nil {
			return "", err
		}
		opt.ImageType = "PNG"
		r = buf
	}

	d.nImages++
	name := fmt.Sprintf("overlay%d", d.nImages)
	d.pdf.RegisterImageOptionsReader(name, opt, r)
	if err := d.pdf.Error(); err != nil {
		return "", err
	}
	return export.ImageRef(name), nil
}

// DrawImage implements the [export.Document] interface.
func (d *document) DrawImage(pageNo int, ref export.ImageRef, r coords.Rect) error {
	if _, err := d.PageSize(pageNo); err != nil {
		return err
	}
	if !(r.Width > 0 && r.Height > 0) {
		return fmt.Errorf("invalid image size %gx%g", r.Width, r.Height)
	}

	d.pdf.SetPage(pageNo)

	// fpdf measures y downwards from the top of the page.  SetPage does
	// not update the page height fpdf uses for this, so we convert using
	// fpdf's idea of the height.
	_, h := d.pdf.GetPageSize()
	yTop := h - r.Y - r.Height

	opt := fpdf.ImageOptions{AllowNegativePosition: true}
	d.pdf.ImageOptions(string(ref), r.X, yTop, r.Width, r.Height, false, opt, 0, "")
	return d.pdf.Error()
}

// WriteTo implements the [export.Document] interface.
// The document cannot be modified after WriteTo has been called.
func (d *document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := d.pdf.Output(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func encodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, toNRGBA(img))
}

// toNRGBA converts img to 8 bits per channel.
func toNRGBA(img image.Image) *image.NRGBA {
	if res, ok := img.(*image.NRGBA); ok {
		return res
	}
	b := img.Bounds()
	res := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(res, res.Bounds(), img, b.Min, draw.Src)
	return res
}
