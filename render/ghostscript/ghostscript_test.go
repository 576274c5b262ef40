package ghostscript

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"testing"

	"codeberg.org/go-pdf/fpdf"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/coords"
	"seehuhn.de/go/overlay/export"
	"seehuhn.de/go/overlay/fpdfdoc"
	"seehuhn.de/go/overlay/render"
)

func needGhostscript(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath(Program); err != nil {
		t.Skip("ghostscript not installed")
	}
}

var testPage = coords.PageSize{Width: 200, Height: 400}

// makePDF returns a one-page document with a black square at
// (20, 20)-(80, 80), measured from the top-left corner.
func makePDF(t *testing.T) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: testPage.Width, Ht: testPage.Height})
	pdf.SetFillColor(0, 0, 0)
	pdf.Rect(20, 20, 60, 60, "F")
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func rgbAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestRenderPage(t *testing.T) {
	needGhostscript(t)

	doc, err := Load(context.Background(), makePDF(t))
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	if doc.NumPages() != 1 {
		t.Fatalf("NumPages() = %d, want 1", doc.NumPages())
	}

	page, err := doc.RenderPage(context.Background(), 1, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	b := page.Image.Bounds()
	if b.Dx() < 299 || b.Dx() > 301 || b.Dy() < 599 || b.Dy() > 601 {
		t.Errorf("image size %dx%d, want approximately 300x600", b.Dx(), b.Dy())
	}
	want := coords.Viewport{Width: float64(b.Dx()), Height: float64(b.Dy()), Scale: 1.5}
	if page.Viewport != want {
		t.Errorf("viewport %v, want %v", page.Viewport, want)
	}

	if c := rgbAt(page.Image, 75, 75); c.R > 32 || c.G > 32 || c.B > 32 {
		t.Errorf("inside the square: got %v, want black", c)
	}
	if c := rgbAt(page.Image, 250, 500); c.R < 224 || c.G < 224 || c.B < 224 {
		t.Errorf("outside the square: got %v, want white", c)
	}

	// 200pt at this scale is not a whole number of pixels
	page, err = doc.RenderPage(context.Background(), 1, 1.234)
	if err != nil {
		t.Fatal(err)
	}
	b = page.Image.Bounds()
	if page.Viewport.Width != float64(b.Dx()) || page.Viewport.Height != float64(b.Dy()) {
		t.Errorf("viewport %v does not match image size %dx%d",
			page.Viewport, b.Dx(), b.Dy())
	}

	if _, err := doc.RenderPage(context.Background(), 2, 1.5); err == nil {
		t.Error("rendering a missing page succeeded")
	}
}

func TestInvalidDocument(t *testing.T) {
	needGhostscript(t)

	_, err := Load(context.Background(), []byte("%PDF-1.7 truncated"))
	if !errors.Is(err, render.ErrInvalidDocument) {
		t.Errorf("got %v, want ErrInvalidDocument", err)
	}
}

func TestCancelled(t *testing.T) {
	needGhostscript(t)

	doc, err := Load(context.Background(), makePDF(t))
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = doc.RenderPage(ctx, 1, 1.5)
	if !errors.Is(err, render.ErrCancelled) {
		t.Errorf("got %v, want ErrCancelled", err)
	}
}

func TestClose(t *testing.T) {
	needGhostscript(t)

	doc, err := Load(context.Background(), makePDF(t))
	if err != nil {
		t.Fatal(err)
	}
	path := doc.path
	if err := doc.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temporary file still present after Close: %v", err)
	}
	if _, err := doc.RenderPage(context.Background(), 1, 1); err == nil {
		t.Error("rendering after Close succeeded")
	}
	if err := doc.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

// TestExported checks that an exported overlay appears where it was placed
// on screen.
func TestExported(t *testing.T) {
	needGhostscript(t)

	red := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := range red.Pix {
		if i%4 == 0 || i%4 == 3 {
			red.Pix[i] = 255
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, red); err != nil {
		t.Fatal(err)
	}
	ov, err := overlay.Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	ov.X, ov.Y, ov.Width, ov.Height = 150, 300, 60, 60

	c := &export.Composer{Writer: &fpdfdoc.Writer{}}
	out := &bytes.Buffer{}
	vp := coords.NewViewport(testPage, render.DefaultScale)
	err = c.Compose(context.Background(), makePDF(t), []overlay.Overlay{*ov}, vp, out)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := Load(context.Background(), out.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	page, err := doc.RenderPage(context.Background(), 1, render.DefaultScale)
	if err != nil {
		t.Fatal(err)
	}

	if c := rgbAt(page.Image, 180, 330); c.R < 224 || c.G > 32 || c.B > 32 {
		t.Errorf("overlay centre: got %v, want red", c)
	}
	if c := rgbAt(page.Image, 75, 75); c.R > 32 {
		t.Errorf("original page content lost: got %v", c)
	}
	if c := rgbAt(page.Image, 140, 290); c.G < 224 {
		t.Errorf("outside the overlay: got %v, want white", c)
	}
}
