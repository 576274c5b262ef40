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

// Package ghostscript renders PDF pages by running the Ghostscript
// interpreter as a subprocess.
package ghostscript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"seehuhn.de/go/overlay/coords"
	"seehuhn.de/go/overlay/fpdfdoc"
	"seehuhn.de/go/overlay/logging"
	"seehuhn.de/go/overlay/render"
)

// Program is the name of the Ghostscript executable.
var Program = "gs"

var (
	// ErrNotFound is returned by [Load] if Ghostscript is not installed.
	ErrNotFound = errors.New("ghostscript not found")

	errClosed = errors.New("document closed")
)

// Document is a PDF document rendered by Ghostscript.
// It implements [render.Document].
type Document struct {
	gs    string
	path  string
	sizes []coords.PageSize

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

var _ render.Document = (*Document)(nil)

// Load prepares a PDF document for rendering.
// The document must be closed after use.
func Load(ctx context.Context, data []byte) (*Document, error) {
	gs, err := exec.LookPath(Program)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	version, err := exec.CommandContext(ctx, gs, "--version").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, gs, err)
	}

	sizes, err := fpdfdoc.PageSizes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", render.ErrInvalidDocument, err)
	}

	f, err := os.CreateTemp("", "overlay-*.pdf")
	if err != nil {
		return nil, err
	}
	_, err = f.Write(data)
	if err2 := f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		os.Remove(f.Name())
		return nil, err
	}

	logging.Logger().Debug("document loaded",
		"ghostscript", strings.TrimSpace(string(version)),
		"pages", len(sizes))

	return &Document{
		gs:    gs,
		path:  f.Name(),
		sizes: sizes,
	}, nil
}

// NumPages implements the [render.Document] interface.
func (d *Document) NumPages() int {
	return len(d.sizes)
}

// PageSize returns the size of a page in PDF points.
func (d *Document) PageSize(pageNo int) (coords.PageSize, error) {
	if pageNo < 1 || pageNo > len(d.sizes) {
		return coords.PageSize{}, fmt.Errorf("page %d out of range 1-%d", pageNo, len(d.sizes))
	}
	return d.sizes[pageNo-1], nil
}

// RenderPage implements the [render.Document] interface.
func (d *Document) RenderPage(ctx context.Context, pageNo int, scale float64) (*render.Page, error) {
	size, err := d.PageSize(pageNo)
	if err != nil {
		return nil, err
	}
	if !(scale > 0) {
		return nil, fmt.Errorf("invalid scale %g", scale)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, errClosed
	}
	d.wg.Add(1)
	d.mu.Unlock()
	defer d.wg.Done()

	res := strconv.FormatFloat(72*scale, 'f', -1, 64)
	page := strconv.Itoa(pageNo)
	cmd := exec.CommandContext(ctx, d.gs,
		"-q", "-dSAFER", "-dBATCH", "-dNOPAUSE",
		"-sDEVICE=png16m",
		"-r"+res,
		"-dTextAlphaBits=4", "-dGraphicsAlphaBits=4",
		"-dFirstPage="+page, "-dLastPage="+page,
		"-sOutputFile=-",
		d.path)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %w", render.ErrCancelled, ctxErr)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		return nil, fmt.Errorf("ghostscript: page %d: %w: %s", pageNo, err, msg)
	}

	img, err := png.Decode(stdout)
	if err != nil {
		return nil, fmt.Errorf("ghostscript: page %d: %w", pageNo, err)
	}

	// Ghostscript rounds the page size to whole pixels.
	b := img.Bounds()
	vp := coords.Viewport{
		Width:  float64(b.Dx()),
		Height: float64(b.Dy()),
		Scale:  scale,
	}
	return &render.Page{
		Image:    img,
		Viewport: vp,
		Size:     size,
	}, nil
}

// Close waits for running renders to finish and removes the temporary
// copy of the document.
func (d *Document) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	return os.Remove(d.path)
}
