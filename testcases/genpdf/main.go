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

// Command genpdf generates reference files for the export test cases.
//
// For every test case with expected PDF geometry, it writes a PDF page of
// the test case size which shows the expected overlay rectangles, and
// renders it to PNG at the test case scale using Ghostscript.  A correct
// export of the same overlays gives the same picture.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/overlay/testcases"
)

func main() {
	outDir := flag.String("out", "testdata/reference", "output directory")
	withPNG := flag.Bool("png", true, "render PNG images using Ghostscript")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			if tc.WantPDF == nil {
				continue
			}
			name := category + "_" + tc.Name
			pdfPath := filepath.Join(*outDir, name+".pdf")
			pngPath := filepath.Join(*outDir, name+".png")

			if err := generatePDF(tc, pdfPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}

			if *withPNG {
				if err := renderPNG(pdfPath, pngPath, tc.Scale); err != nil {
					panic(fmt.Errorf("%s: %w", name, err))
				}
			}
		}
	}
}

func generatePDF(tc testcases.TestCase, pdfPath string) error {
	paper := &pdf.Rectangle{
		URx: tc.Page.Width,
		URy: tc.Page.Height,
	}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(1))
	page.Rectangle(0, 0, tc.Page.Width, tc.Page.Height)
	page.Fill()

	// WantPDF is already in PDF space, so no flip is needed.
	page.SetFillColor(color.DeviceGray(0))
	for _, r := range tc.WantPDF {
		page.Rectangle(r.X, r.Y, r.Width, r.Height)
	}
	page.Fill()

	return page.Close()
}

func renderPNG(pdfPath, pngPath string, scale float64) error {
	// one PDF point is scale pixels, as on screen
	res := strconv.FormatFloat(72*scale, 'f', -1, 64)
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r"+res,
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
