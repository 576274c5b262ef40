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

package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"

	"golang.org/x/image/draw"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/coords"
	"seehuhn.de/go/overlay/logging"
)

// Selection reports which overlay is highlighted.
type Selection interface {
	Selected() (overlay.ID, bool)
}

// Options configure a [Coordinator].
// All fields are optional.
type Options struct {
	// Scale is the render scale.  The default is [DefaultScale].
	Scale float64

	// Sink receives every repainted canvas.  The image must not be
	// modified after the call returns.
	Sink func(*image.RGBA)

	// OnError is called when a render fails for a reason other than
	// cancellation.
	OnError func(error)

	// OnPage is called when the current page number changes.
	OnPage func(pageNo, numPages int)

	// Selection, if set, is used to highlight the selected overlay.
	Selection Selection
}

// Coordinator sequences page renders and repaints.
//
// At most one render is in flight at any time: requesting a page cancels
// the previous request.  Only the most recently requested page is ever
// painted, and every repaint uses the overlays as they are at the time of
// painting.
type Coordinator struct {
	model *overlay.Model
	opt   Options

	mu     sync.Mutex
	doc    Document
	pageNo int // most recently requested page
	gen    uint64
	cancel context.CancelFunc
	page   *Page // last page rendered for the current request, or nil
	shown  int   // page number of page
	failed int   // page number of the last failed render

	// geometry of the most recently requested page
	vp   coords.Viewport
	size coords.PageSize

	paintMu sync.Mutex
}

// NewCoordinator creates a coordinator for the given overlays.
// The coordinator repaints whenever the model changes.
func NewCoordinator(m *overlay.Model, opt *Options) *Coordinator {
	c := &Coordinator{model: m}
	if opt != nil {
		c.opt = *opt
	}
	if c.opt.Scale <= 0 {
		c.opt.Scale = DefaultScale
	}
	m.OnChange(c.Repaint)
	return c
}

// Scale returns the render scale.
func (c *Coordinator) Scale() float64 {
	return c.opt.Scale
}

// SetDocument replaces the current document, removes all overlays and
// starts rendering the first page.  The returned task is nil if the
// document has no pages.
func (c *Coordinator) SetDocument(doc Document) *Task {
	c.mu.Lock()
	c.stopLocked()
	c.doc = doc
	c.page = nil
	c.shown = 0
	c.failed = 0
	c.pageNo = 0
	c.mu.Unlock()

	c.model.Clear()
	return c.GoTo(1)
}

// GoTo starts rendering the given page.  Pages are numbered starting
// from 1.  If no document is loaded or the page number is out of range,
// nothing happens and nil is returned.
func (c *Coordinator) GoTo(pageNo int) *Task {
	c.mu.Lock()
	if c.doc == nil || pageNo < 1 || pageNo > c.doc.NumPages() {
		c.mu.Unlock()
		return nil
	}

	size, err := c.doc.PageSize(pageNo)
	if err != nil {
		c.mu.Unlock()
		logging.Logger().Error("page size unavailable", "page", pageNo, "error", err)
		return nil
	}

	c.stopLocked()
	c.gen++
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.pageNo = pageNo
	c.failed = 0
	c.size = size
	c.vp = coords.NewViewport(size, c.opt.Scale)
	numPages := c.doc.NumPages()
	task := &Task{
		PageNo: pageNo,
		gen:    c.gen,
		doc:    c.doc,
		done:   make(chan struct{}),
	}
	c.mu.Unlock()

	if c.opt.OnPage != nil {
		c.opt.OnPage(pageNo, numPages)
	}
	go c.run(ctx, cancel, task)
	return task
}

// Next moves to the following page, if there is one.
func (c *Coordinator) Next() *Task {
	return c.GoTo(c.PageNo() + 1)
}

// Prev moves to the preceding page, if there is one.
func (c *Coordinator) Prev() *Task {
	return c.GoTo(c.PageNo() - 1)
}

// PageNo returns the most recently requested page number, or 0 if no
// document is loaded.
func (c *Coordinator) PageNo() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageNo
}

// NumPages returns the number of pages of the current document.
func (c *Coordinator) NumPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc == nil {
		return 0
	}
	return c.doc.NumPages()
}

// Viewport returns the geometry of the current page.  Once the page is
// rendered, the viewport matches the raster on screen.  Before that, and
// if rendering fails, it is derived from the page size and the scale.
// The last return value is false if no document is loaded.
func (c *Coordinator) Viewport() (coords.Viewport, coords.PageSize, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pageNo == 0 {
		return coords.Viewport{}, coords.PageSize{}, false
	}
	if c.page != nil && c.shown == c.pageNo {
		return c.page.Viewport, c.page.Size, true
	}
	return c.vp, c.size, true
}

// Close cancels any render in flight.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.stopLocked()
	c.gen++
	c.mu.Unlock()
}

// stopLocked cancels the render in flight, if any.
// The caller must hold c.mu.
func (c *Coordinator) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Coordinator) run(ctx context.Context, cancel context.CancelFunc, task *Task) {
	defer cancel()

	page, err := task.doc.RenderPage(ctx, task.PageNo, c.opt.Scale)

	c.mu.Lock()
	current := task.gen == c.gen
	if current && ctx.Err() == nil && !isCancelled(err) {
		if err == nil {
			c.page = page
			c.shown = task.PageNo
		} else {
			c.failed = task.PageNo
		}
		c.cancel = nil
	}
	c.mu.Unlock()

	log := logging.Logger()
	switch {
	case !current || ctx.Err() != nil || isCancelled(err):
		log.Debug("render cancelled", "page", task.PageNo)
		task.finish(nil, true)
	case err != nil:
		err = fmt.Errorf("page %d: %w", task.PageNo, err)
		log.Error("render failed", "page", task.PageNo, "error", err)
		if c.opt.OnError != nil {
			c.opt.OnError(err)
		}
		c.Repaint()
		task.finish(err, false)
	default:
		log.Debug("page rendered", "page", task.PageNo,
			"width", page.Viewport.Width, "height", page.Viewport.Height)
		c.Repaint()
		task.finish(nil, false)
	}
}

// Repaint draws the current page and all overlays, and passes the result
// to the sink.  If the current page could not be rendered, the overlays
// are drawn on a blank page.  While the render is still running, nothing
// is drawn.
func (c *Coordinator) Repaint() {
	c.paintMu.Lock()
	defer c.paintMu.Unlock()

	c.mu.Lock()
	var bg image.Image
	switch {
	case c.pageNo == 0:
	case c.page != nil && c.shown == c.pageNo:
		bg = c.page.Image
	case c.failed == c.pageNo:
		bg = blankPage(c.vp)
	}
	c.mu.Unlock()
	if bg == nil || c.opt.Sink == nil {
		return
	}

	var selected overlay.ID
	if c.opt.Selection != nil {
		selected, _ = c.opt.Selection.Selected()
	}
	c.opt.Sink(Compose(bg, c.model.Overlays(), selected))
}

// blankPage returns a white image covering the viewport.
func blankPage(vp coords.Viewport) image.Image {
	r := image.Rect(0, 0, int(math.Ceil(vp.Width)), int(math.Ceil(vp.Height)))
	img := image.NewRGBA(r)
	draw.Draw(img, r, image.White, image.Point{}, draw.Src)
	return img
}

// Task is the handle of a page render.
type Task struct {
	PageNo int

	gen uint64
	doc Document

	done      chan struct{}
	err       error
	cancelled bool
}

// Done returns a channel which is closed when the render has finished,
// failed, or been cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task has finished and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Err returns the error of a finished task.  Cancelled tasks have no
// error.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Cancelled reports whether the task was superseded before it could
// paint.
func (t *Task) Cancelled() bool {
	select {
	case <-t.done:
		return t.cancelled
	default:
		return false
	}
}

func (t *Task) finish(err error, cancelled bool) {
	t.err = err
	t.cancelled = cancelled
	close(t.done)
}
