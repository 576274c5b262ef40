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

// Command pdfstamp places images on the pages of a PDF file.
//
// The image positions are read from a JSON layout file, using the same
// screen coordinates as the interactive editor:
//
//	{
//	  "scale": 1.5,
//	  "images": [
//	    {"file": "signature.png", "x": 40, "y": 520, "width": 120, "height": 48}
//	  ]
//	}
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/coords"
	"seehuhn.de/go/overlay/export"
	"seehuhn.de/go/overlay/fpdfdoc"
	"seehuhn.de/go/overlay/logging"
	"seehuhn.de/go/overlay/render"
	"seehuhn.de/go/overlay/session"
)

func main() {
	outFile := flag.String("o", session.OutputName, "output file name, or \"-\" for standard output")
	layoutFile := flag.String("layout", "", "JSON layout file (required)")
	scale := flag.Float64("scale", 0, "render scale the layout refers to (overrides the layout file)")
	page := flag.Int("page", 0, "page to draw the images on (0 for all pages)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	logging.SetLogger(logging.NewText(os.Stderr, *verbose))

	if flag.NArg() != 1 || *layoutFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] -layout layout.json input.pdf\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, flag.Arg(0), *layoutFile, *outFile, *scale, *page)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfstamp: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, inFile, layoutFile, outFile string, scale float64, page int) error {
	if outFile == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write PDF data to a terminal")
	}

	src, err := os.ReadFile(inFile)
	if err != nil {
		return err
	}
	layout, err := readLayout(layoutFile)
	if err != nil {
		return err
	}
	if scale > 0 {
		layout.Scale = scale
	}

	buf := &bytes.Buffer{}
	if err := stamp(ctx, src, layout, os.ReadFile, page, buf); err != nil {
		return err
	}

	if outFile == "-" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(outFile, buf.Bytes(), 0o644)
}

// stamp draws the images of the layout onto the PDF document src.
func stamp(ctx context.Context, src []byte, layout *Layout, readFile func(string) ([]byte, error), page int, w io.Writer) error {
	sizes, err := fpdfdoc.PageSizes(src)
	if err != nil {
		return err
	}
	if layout.ViewPage > len(sizes) {
		return fmt.Errorf("layout refers to page %d, document has %d pages",
			layout.ViewPage, len(sizes))
	}
	scale := layout.Scale
	if scale == 0 {
		scale = render.DefaultScale
	}
	vp := coords.NewViewport(sizes[layout.ViewPage-1], scale)

	m := overlay.NewModel()
	if err := layout.place(m, readFile); err != nil {
		return err
	}
	if m.Len() == 0 {
		return session.ErrNothingToSave
	}

	c := &export.Composer{
		Writer: &fpdfdoc.Writer{Compress: true},
		Page:   page,
	}
	return c.Compose(ctx, src, m.Overlays(), vp, w)
}
