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

package session

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/export"
	"seehuhn.de/go/overlay/render"
	"seehuhn.de/go/overlay/render/ghostscript"
)

var (
	// ErrInvalidFileType is returned when a file is neither a PDF
	// document nor an image.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrNothingToSave is returned by Save when no document is loaded or
	// no overlays have been placed.
	ErrNothingToSave = errors.New("no PDF or images to save")

	// ErrNoPage is returned by Save when the document has no page the
	// overlays could be placed on.
	ErrNoPage = errors.New("document has no pages")
)

// DocumentLoadError is returned when a PDF document cannot be loaded.
// The previously loaded document, if any, stays in place.
type DocumentLoadError struct {
	Name string
	Err  error
}

func (e *DocumentLoadError) Error() string {
	if e.Name == "" {
		return "cannot load PDF: " + e.Err.Error()
	}
	return fmt.Sprintf("cannot load PDF %q: %v", e.Name, e.Err)
}

func (e *DocumentLoadError) Unwrap() error {
	return e.Err
}

// Message returns a short text, suitable for showing to the user, which
// describes err.
func Message(err error) string {
	var loadErr *DocumentLoadError
	var exportErr *export.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidFileType), errors.Is(err, overlay.ErrInvalidImage):
		return "Please upload a valid image file."
	case errors.Is(err, ghostscript.ErrNotFound):
		return "Cannot show PDF files: Ghostscript is not installed."
	case errors.As(err, &loadErr):
		return "Failed to load PDF. Please try another file."
	case errors.Is(err, ErrNothingToSave):
		return "No PDF or images to save."
	case errors.Is(err, ErrNoPage):
		return "The PDF has no pages."
	case errors.As(err, &exportErr):
		return "Failed to save the PDF: " + exportErr.Err.Error()
	case errors.Is(err, render.ErrCancelled):
		return ""
	default:
		return err.Error()
	}
}

// MIME types accepted by [Session.Open].
const (
	TypePDF         = "application/pdf"
	typeImagePrefix = "image/"
)

// DetectType guesses the MIME type of a file from its contents, falling
// back to the file name extension.
func DetectType(name string, data []byte) string {
	mt := http.DetectContentType(data)
	if mt != "application/octet-stream" && !strings.HasPrefix(mt, "text/plain") {
		return mediaType(mt)
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return mediaType(byExt)
	}
	return mediaType(mt)
}

// mediaType strips parameters from a MIME type.
func mediaType(mt string) string {
	if base, _, err := mime.ParseMediaType(mt); err == nil {
		return base
	}
	return mt
}
