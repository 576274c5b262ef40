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

package raster

import (
	"image"
	"image/color"
)

// Painter returns an [EmitFunc] which composites col over dst, using the
// coverage values as an alpha mask.  Rows and columns outside the bounds
// of dst are ignored.
func Painter(dst *image.RGBA, col color.Color) EmitFunc {
	r, g, b, a := col.RGBA()
	sr := float32(r) / 0xffff
	sg := float32(g) / 0xffff
	sb := float32(b) / 0xffff
	sa := float32(a) / 0xffff
	bounds := dst.Bounds()

	return func(y, xMin int, coverage []float32) {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			return
		}
		for i, c := range coverage {
			x := xMin + i
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			k := 1 - c*sa
			pix := dst.Pix[dst.PixOffset(x, y):]
			pix[0] = blend(sr*c, pix[0], k)
			pix[1] = blend(sg*c, pix[1], k)
			pix[2] = blend(sb*c, pix[2], k)
			pix[3] = blend(sa*c, pix[3], k)
		}
	}
}

// blend computes src + k*dst, where src is premultiplied and in [0, 1].
func blend(src float32, dst uint8, k float32) uint8 {
	v := src*255 + k*float32(dst) + 0.5
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// Mask returns an [EmitFunc] which stores coverage values in dst,
// replacing the previous contents.
func Mask(dst *image.Alpha) EmitFunc {
	bounds := dst.Bounds()
	return func(y, xMin int, coverage []float32) {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			return
		}
		for i, c := range coverage {
			x := xMin + i
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dst.Pix[dst.PixOffset(x, y)] = uint8(c*255 + 0.5)
		}
	}
}
