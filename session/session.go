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

// Package session ties together the components needed to place images on
// the pages of a PDF document.
//
// A [Session] holds at most one PDF document and any number of overlays.
// Files enter the session through [Session.Open], pointer events through
// [Session.Pointer], and the result leaves through [Session.Save].
package session

import (
	"bytes"
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/export"
	"seehuhn.de/go/overlay/fpdfdoc"
	"seehuhn.de/go/overlay/interact"
	"seehuhn.de/go/overlay/logging"
	"seehuhn.de/go/overlay/render"
	"seehuhn.de/go/overlay/render/ghostscript"
	"seehuhn.de/go/overlay/signature"
)

// OutputName is the file name used by [Session.SaveFile].
const OutputName = "modified.pdf"

// LoadFunc opens a PDF document for rendering.
type LoadFunc func(ctx context.Context, data []byte) (render.Document, error)

// Options configure a [Session].
type Options struct {
	// Scale is the render scale, in device pixels per PDF point.
	Scale float64

	// ExportPage selects the page the overlays are drawn on when saving.
	// If ExportPage is 0, the overlays are drawn on every page.
	ExportPage int

	// OutputName is the file name used by [Session.SaveFile].
	OutputName string

	// Load opens documents for rendering.
	Load LoadFunc

	// Writer is used to produce the output PDF.
	Writer export.Writer

	// Sink receives the repainted canvas.
	Sink func(*image.RGBA)

	// OnError is called when a page cannot be rendered.
	OnError func(error)

	// OnPage is called when the current page changes.
	OnPage func(pageNo, numPages int)

	// OnSelect is called when the highlighted overlay changes.
	OnSelect func(overlay.ID)
}

// DefaultOptions returns the default session options.  Pages are rendered
// with Ghostscript and the output is written with fpdf.
func DefaultOptions() *Options {
	return &Options{
		Scale:      render.DefaultScale,
		OutputName: OutputName,
		Load:       loadGhostscript,
		Writer:     &fpdfdoc.Writer{Compress: true},
	}
}

func loadGhostscript(ctx context.Context, data []byte) (render.Document, error) {
	doc, err := ghostscript.Load(ctx, data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Session is an editing session for one PDF document.
type Session struct {
	opt Options

	Model  *overlay.Model
	Engine *interact.Engine
	Pages  *render.Coordinator

	mu   sync.Mutex
	name string
	src  []byte
	doc  render.Document
}

// New creates an empty session.  If opt is nil, [DefaultOptions] are used.
// Missing fields are taken from the defaults.
func New(opt *Options) *Session {
	def := DefaultOptions()
	if opt == nil {
		opt = def
	}
	s := &Session{opt: *opt}
	if s.opt.Scale <= 0 {
		s.opt.Scale = def.Scale
	}
	if s.opt.OutputName == "" {
		s.opt.OutputName = def.OutputName
	}
	if s.opt.Load == nil {
		s.opt.Load = def.Load
	}
	if s.opt.Writer == nil {
		s.opt.Writer = def.Writer
	}

	s.Model = overlay.NewModel()
	s.Engine = interact.NewEngine(s.Model)
	s.Pages = render.NewCoordinator(s.Model, &render.Options{
		Scale:     s.opt.Scale,
		Sink:      s.opt.Sink,
		OnError:   s.opt.OnError,
		OnPage:    s.opt.OnPage,
		Selection: s.Engine,
	})
	s.Engine.OnSelect(func(id overlay.ID) {
		s.Pages.Repaint()
		if s.opt.OnSelect != nil {
			s.opt.OnSelect(id)
		}
	})
	return s
}

// Open adds a file to the session.  PDF documents replace the current
// document, images become new overlays.  If mimeType is empty, the type
// is detected from the file contents.
//
// Files of other types are rejected with [ErrInvalidFileType], without
// changing the session.
func (s *Session) Open(ctx context.Context, name, mimeType string, data []byte) error {
	if mimeType == "" {
		mimeType = DetectType(name, data)
	}
	mimeType = mediaType(mimeType)

	switch {
	case mimeType == TypePDF:
		_, err := s.LoadPDF(ctx, name, data)
		return err
	case strings.HasPrefix(mimeType, typeImagePrefix):
		_, err := s.AddImage(data)
		return err
	default:
		logging.Logger().Info("file rejected", "name", name, "type", mimeType)
		return ErrInvalidFileType
	}
}

// LoadPDF replaces the current document and removes all overlays.
// Rendering of the first page starts in the background; the returned
// task can be used to wait for it.
//
// If the document cannot be loaded, a [*DocumentLoadError] is returned
// and the session is left unchanged.
func (s *Session) LoadPDF(ctx context.Context, name string, data []byte) (*render.Task, error) {
	doc, err := s.opt.Load(ctx, data)
	if err != nil {
		logging.Logger().Warn("cannot load PDF", "name", name, "error", err)
		return nil, &DocumentLoadError{Name: name, Err: err}
	}

	s.mu.Lock()
	old := s.doc
	s.name = name
	s.src = data
	s.doc = doc
	s.mu.Unlock()

	s.Engine.Handle(interact.PointerEvent{Kind: interact.Cancel})
	task := s.Pages.SetDocument(doc)
	closeDoc(old)

	logging.Logger().Info("PDF loaded", "name", name, "pages", doc.NumPages())
	return task, nil
}

// AddImage decodes an image and places it on the canvas.
func (s *Session) AddImage(data []byte) (overlay.ID, error) {
	o, err := overlay.Decode(data)
	if err != nil {
		return "", err
	}
	id := s.Model.Add(o)
	logging.Logger().Debug("image added", "id", id, "format", o.Format,
		"width", o.Width, "height", o.Height)
	return id, nil
}

// AddSignature places the drawing of a signature pad on the canvas.
func (s *Session) AddSignature(pad *signature.Pad) (overlay.ID, error) {
	data, err := pad.PNG()
	if err != nil {
		return "", err
	}
	return s.AddImage(data)
}

// Pointer feeds a pointer event to the interaction engine.  For Down
// events, the overlay under the pointer is determined by hit testing.
func (s *Session) Pointer(ev interact.PointerEvent) bool {
	if ev.Kind == interact.Down {
		ev.Target = s.Engine.HitTest(ev.Pos)
	}
	return s.Engine.Handle(ev)
}

// Name returns the name of the current document.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Save writes the current document, with all overlays drawn on top, to w.
// Overlay positions are interpreted relative to the page currently on
// screen.
func (s *Session) Save(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	src := s.src
	s.mu.Unlock()

	overlays := s.Model.Overlays()
	if src == nil || len(overlays) == 0 {
		return ErrNothingToSave
	}
	vp, _, ok := s.Pages.Viewport()
	if !ok {
		return ErrNoPage
	}

	c := &export.Composer{Writer: s.opt.Writer, Page: s.opt.ExportPage}
	return c.Compose(ctx, src, overlays, vp, w)
}

// SaveFile saves the document into the given directory and returns the
// path of the new file.  No file is created if saving fails.
func (s *Session) SaveFile(ctx context.Context, dir string) (string, error) {
	buf := &bytes.Buffer{}
	if err := s.Save(ctx, buf); err != nil {
		return "", err
	}
	fname := filepath.Join(dir, s.opt.OutputName)
	if err := os.WriteFile(fname, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	logging.Logger().Info("PDF saved", "file", fname)
	return fname, nil
}

// Close stops rendering and releases the current document.
func (s *Session) Close() error {
	s.Pages.Close()

	s.mu.Lock()
	doc := s.doc
	s.doc = nil
	s.src = nil
	s.mu.Unlock()

	return closeDoc(doc)
}

func closeDoc(doc render.Document) error {
	if c, ok := doc.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
