package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/coords"
)

// fakeDoc is a document whose pages are filled with a page-specific grey
// level.  Renders of pages with a gate block until the gate is closed.
type fakeDoc struct {
	pages int

	mu        sync.Mutex
	gates     map[int]chan struct{}
	ignoreCtx bool
	fail      map[int]error
	calls     []int
}

func pageGrey(pageNo int) uint8 {
	return uint8(40 * pageNo)
}

func (d *fakeDoc) NumPages() int { return d.pages }

func (d *fakeDoc) PageSize(pageNo int) (coords.PageSize, error) {
	if pageNo < 1 || pageNo > d.pages {
		return coords.PageSize{}, fmt.Errorf("no page %d", pageNo)
	}
	return coords.PageSize{Width: 200, Height: 400}, nil
}

func (d *fakeDoc) RenderPage(ctx context.Context, pageNo int, scale float64) (*Page, error) {
	d.mu.Lock()
	d.calls = append(d.calls, pageNo)
	gate := d.gates[pageNo]
	ignoreCtx := d.ignoreCtx
	err := d.fail[pageNo]
	d.mu.Unlock()

	if gate != nil {
		if ignoreCtx {
			<-gate
		} else {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if err != nil {
		return nil, err
	}

	size := coords.PageSize{Width: 200, Height: 400}
	vp := coords.NewViewport(size, scale)
	img := image.NewGray(image.Rect(0, 0, int(vp.Width), int(vp.Height)))
	for i := range img.Pix {
		img.Pix[i] = pageGrey(pageNo)
	}
	return &Page{Image: img, Viewport: vp, Size: size}, nil
}

// canvasLog records all images passed to the sink.
type canvasLog struct {
	mu     sync.Mutex
	frames []*image.RGBA
}

func (l *canvasLog) sink(img *image.RGBA) {
	l.mu.Lock()
	l.frames = append(l.frames, img)
	l.mu.Unlock()
}

func (l *canvasLog) all() []*image.RGBA {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*image.RGBA(nil), l.frames...)
}

func (l *canvasLog) last(t *testing.T) *image.RGBA {
	t.Helper()
	frames := l.all()
	if len(frames) == 0 {
		t.Fatal("nothing was painted")
	}
	return frames[len(frames)-1]
}

func wait(t *testing.T, task *Task) {
	t.Helper()
	if task == nil {
		t.Fatal("no task")
	}
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("render of page %d did not finish", task.PageNo)
	}
}

func newTestCoordinator(doc *fakeDoc) (*Coordinator, *overlay.Model, *canvasLog) {
	m := overlay.NewModel()
	log := &canvasLog{}
	c := NewCoordinator(m, &Options{Sink: log.sink})
	return c, m, log
}

func TestFirstPage(t *testing.T) {
	doc := &fakeDoc{pages: 3}
	c, _, log := newTestCoordinator(doc)

	task := c.SetDocument(doc)
	wait(t, task)
	if err := task.Err(); err != nil {
		t.Fatal(err)
	}

	img := log.last(t)
	if got := img.RGBAAt(5, 5).R; got != pageGrey(1) {
		t.Errorf("canvas shows grey level %d, want %d", got, pageGrey(1))
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 600 {
		t.Errorf("canvas size %dx%d, want 300x600", b.Dx(), b.Dy())
	}

	vp, size, ok := c.Viewport()
	if !ok {
		t.Fatal("no viewport after render")
	}
	if vp.Width != 300 || vp.Height != 600 || vp.Scale != DefaultScale {
		t.Errorf("viewport = %+v", vp)
	}
	if size.Width != 200 || size.Height != 400 {
		t.Errorf("page size = %+v", size)
	}
}

func TestSupersededRender(t *testing.T) {
	gate := make(chan struct{})
	doc := &fakeDoc{pages: 3, gates: map[int]chan struct{}{2: gate}}
	c, _, log := newTestCoordinator(doc)
	wait(t, c.SetDocument(doc))

	t2 := c.GoTo(2)
	t3 := c.GoTo(3)
	wait(t, t3)
	wait(t, t2)

	if !t2.Cancelled() {
		t.Error("render of page 2 was not cancelled")
	}
	if t2.Err() != nil {
		t.Errorf("cancelled render reported error %v", t2.Err())
	}
	if t3.Cancelled() {
		t.Error("render of page 3 was cancelled")
	}

	for _, img := range log.all() {
		if img.RGBAAt(0, 0).R == pageGrey(2) {
			t.Error("page 2 was painted")
		}
	}
	if got := log.last(t).RGBAAt(0, 0).R; got != pageGrey(3) {
		t.Errorf("canvas shows grey level %d, want %d", got, pageGrey(3))
	}
	if n := c.PageNo(); n != 3 {
		t.Errorf("PageNo() = %d, want 3", n)
	}
}

// A renderer which ignores cancellation must still not paint stale pages.
func TestStaleCompletion(t *testing.T) {
	gate := make(chan struct{})
	doc := &fakeDoc{pages: 3, gates: map[int]chan struct{}{2: gate}, ignoreCtx: true}
	c, _, log := newTestCoordinator(doc)
	wait(t, c.SetDocument(doc))

	t2 := c.GoTo(2)
	wait(t, c.GoTo(3))
	close(gate)
	wait(t, t2)

	if !t2.Cancelled() {
		t.Error("stale render was not marked as cancelled")
	}
	if got := log.last(t).RGBAAt(0, 0).R; got != pageGrey(3) {
		t.Errorf("canvas shows grey level %d, want %d", got, pageGrey(3))
	}
	if _, _, ok := c.Viewport(); !ok {
		t.Error("viewport lost after stale render")
	}
}

func TestPageBounds(t *testing.T) {
	doc := &fakeDoc{pages: 2}
	c, _, _ := newTestCoordinator(doc)

	if c.GoTo(1) != nil {
		t.Error("GoTo without document started a render")
	}
	wait(t, c.SetDocument(doc))

	for _, n := range []int{-1, 0, 3} {
		if c.GoTo(n) != nil {
			t.Errorf("GoTo(%d) started a render", n)
		}
		if got := c.PageNo(); got != 1 {
			t.Errorf("after GoTo(%d) page is %d, want 1", n, got)
		}
	}
	if c.Prev() != nil {
		t.Error("Prev on first page started a render")
	}
	wait(t, c.Next())
	if c.Next() != nil {
		t.Error("Next on last page started a render")
	}
	if got := c.PageNo(); got != 2 {
		t.Errorf("page is %d, want 2", got)
	}
}

func TestRenderError(t *testing.T) {
	boom := errors.New("boom")
	doc := &fakeDoc{pages: 2, fail: map[int]error{2: boom}}
	m := overlay.NewModel()

	var mu sync.Mutex
	var reported []error
	c := NewCoordinator(m, &Options{
		OnError: func(err error) {
			mu.Lock()
			reported = append(reported, err)
			mu.Unlock()
		},
	})
	wait(t, c.SetDocument(doc))

	task := c.GoTo(2)
	wait(t, task)
	if !errors.Is(task.Err(), boom) {
		t.Errorf("task error %v, want %v", task.Err(), boom)
	}
	if task.Cancelled() {
		t.Error("failed task marked as cancelled")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reported) != 1 || !errors.Is(reported[0], boom) {
		t.Errorf("reported errors %v", reported)
	}
}

// When a page cannot be rendered, its geometry is still known and the
// overlays are shown on a blank page.
func TestFailedPageGeometry(t *testing.T) {
	doc := &fakeDoc{pages: 2, fail: map[int]error{2: errors.New("boom")}}
	c, m, log := newTestCoordinator(doc)
	wait(t, c.SetDocument(doc))

	task := c.GoTo(2)
	wait(t, task)
	if task.Err() == nil {
		t.Fatal("render of page 2 succeeded")
	}

	vp, size, ok := c.Viewport()
	if !ok {
		t.Fatal("no viewport after failed render")
	}
	want := coords.NewViewport(coords.PageSize{Width: 200, Height: 400}, DefaultScale)
	if vp != want || size.Width != 200 || size.Height != 400 {
		t.Errorf("viewport = %+v, page size = %+v", vp, size)
	}

	blank := log.last(t)
	if got := blank.RGBAAt(5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("failed page painted as %v, want white", got)
	}

	red := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range red.Pix {
		if i%4 == 0 || i%4 == 3 {
			red.Pix[i] = 255
		}
	}
	m.Add(&overlay.Overlay{X: 100, Y: 100, Width: 40, Height: 40, Image: red})
	img := log.last(t)
	if img == blank {
		t.Fatal("adding an overlay did not repaint the failed page")
	}
	if got := img.RGBAAt(120, 120); !isRed(got) {
		t.Errorf("overlay pixel is %v", got)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 600 {
		t.Errorf("canvas size %dx%d, want 300x600", b.Dx(), b.Dy())
	}
}

func TestSetDocumentClearsOverlays(t *testing.T) {
	doc := &fakeDoc{pages: 1}
	c, m, _ := newTestCoordinator(doc)
	wait(t, c.SetDocument(doc))

	m.Add(&overlay.Overlay{Width: 20, Height: 20})
	m.Add(&overlay.Overlay{Width: 20, Height: 20})

	wait(t, c.SetDocument(&fakeDoc{pages: 2}))
	if n := m.Len(); n != 0 {
		t.Errorf("%d overlays left after loading a new document", n)
	}
	if n := c.NumPages(); n != 2 {
		t.Errorf("NumPages() = %d, want 2", n)
	}
}

func TestRepaintOnChange(t *testing.T) {
	doc := &fakeDoc{pages: 1}
	c, m, log := newTestCoordinator(doc)
	wait(t, c.SetDocument(doc))
	before := len(log.all())

	red := image.NewUniform(color.RGBA{R: 255, A: 255})
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.Set(x, y, red)
		}
	}
	id := m.Add(&overlay.Overlay{X: 100, Y: 100, Width: 40, Height: 40, Image: img})

	frames := log.all()
	if len(frames) != before+1 {
		t.Fatalf("%d repaints after Add, want 1", len(frames)-before)
	}
	if got := frames[len(frames)-1].RGBAAt(120, 120); !isRed(got) {
		t.Errorf("overlay pixel is %v", got)
	}

	m.Translate(id, 0, 0)
	last := log.last(t)
	if got := last.RGBAAt(10, 10); !isRed(got) {
		t.Errorf("moved overlay pixel is %v", got)
	}
	if got := last.RGBAAt(120, 120).R; got != pageGrey(1) {
		t.Errorf("old overlay position not repainted: %d", got)
	}
}

func isRed(c color.RGBA) bool {
	return c.R > 250 && c.G < 5 && c.B < 5 && c.A == 255
}
