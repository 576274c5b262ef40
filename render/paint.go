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
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/overlay"
	"seehuhn.de/go/overlay/interact"
	"seehuhn.de/go/overlay/raster"
)

// Colours of the selection chrome.
var (
	SelectionColor = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	HandleColor    = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xc0}
)

// selectionWidth is the line width of the frame around the selected
// overlay, in canvas pixels.
const selectionWidth = 2

// Compose draws the overlays on top of a copy of the page image.
// Overlays are drawn in the given order, each scaled to its rectangle.
// Every overlay gets a resize handle; the selected overlay, if any, is
// framed.
func Compose(page image.Image, overlays []overlay.Overlay, selected overlay.ID) *image.RGBA {
	b := page.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), page, b.Min, draw.Src)

	for i := range overlays {
		o := &overlays[i]
		if o.Image == nil {
			continue
		}
		r := image.Rect(
			round(o.X), round(o.Y),
			round(o.X+o.Width), round(o.Y+o.Height),
		)
		draw.ApproxBiLinear.Scale(dst, r, o.Image, o.Image.Bounds(), draw.Over, nil)
	}

	ras := raster.NewRasteriser(rect.Rect{URx: float64(b.Dx()), URy: float64(b.Dy())})
	chrome := &path.Data{}
	for i := range overlays {
		o := &overlays[i]
		if o.ID == selected && selected != "" {
			p := raster.Frame(&path.Data{}, o.X, o.Y, o.Width, o.Height, selectionWidth)
			ras.FillNonZero(p, raster.Painter(dst, SelectionColor))
		}
		const h = interact.HandleSize
		raster.Rectangle(chrome, o.X+o.Width-h/2, o.Y+o.Height-h/2, h, h)
	}
	if len(chrome.Cmds) > 0 {
		ras.FillNonZero(chrome, raster.Painter(dst, HandleColor))
	}

	return dst
}

func round(x float64) int {
	return int(math.Round(x))
}
