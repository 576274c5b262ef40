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

package main

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/overlay/interact"
)

// pointerView shows an image and translates mouse and touch input into
// pointer events in image pixel coordinates.
type pointerView struct {
	widget.BaseWidget

	img    *canvas.Image
	handle func(interact.PointerEvent) bool

	mu     sync.Mutex
	source interact.Source
	size   image.Point // pixel size of the current image
}

var (
	_ desktop.Mouseable = (*pointerView)(nil)
	_ desktop.Hoverable = (*pointerView)(nil)
	_ mobile.Touchable  = (*pointerView)(nil)
	_ fyne.Draggable    = (*pointerView)(nil)
)

func newPointerView(handle func(interact.PointerEvent) bool) *pointerView {
	pv := &pointerView{handle: handle}
	pv.img = canvas.NewImageFromImage(nil)
	pv.img.FillMode = canvas.ImageFillStretch
	pv.img.ScaleMode = canvas.ImageScalePixels
	pv.ExtendBaseWidget(pv)
	return pv
}

// SetImage replaces the displayed image.
func (pv *pointerView) SetImage(img image.Image) {
	size := img.Bounds().Size()
	pv.mu.Lock()
	pv.size = size
	pv.mu.Unlock()

	pv.img.Image = img
	pv.img.SetMinSize(fyne.NewSize(float32(size.X), float32(size.Y)))
	pv.img.Refresh()
	pv.Refresh()
}

func (pv *pointerView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pv.img)
}

func (pv *pointerView) MinSize() fyne.Size {
	return pv.img.MinSize()
}

// toImage converts a widget position to image pixel coordinates.
func (pv *pointerView) toImage(pos fyne.Position) vec.Vec2 {
	pv.mu.Lock()
	size := pv.size
	pv.mu.Unlock()
	return scalePosition(pos, pv.Size(), size)
}

func scalePosition(pos fyne.Position, widgetSize fyne.Size, imgSize image.Point) vec.Vec2 {
	p := vec.Vec2{X: float64(pos.X), Y: float64(pos.Y)}
	if widgetSize.Width > 0 && widgetSize.Height > 0 {
		p.X *= float64(imgSize.X) / float64(widgetSize.Width)
		p.Y *= float64(imgSize.Y) / float64(widgetSize.Height)
	}
	return p
}

func (pv *pointerView) send(kind interact.Kind, src interact.Source, pos fyne.Position) {
	pv.handle(interact.PointerEvent{
		Kind:   kind,
		Source: src,
		Pos:    pv.toImage(pos),
	})
}

func (pv *pointerView) lastSource() interact.Source {
	pv.mu.Lock()
	defer pv.mu.Unlock()
	return pv.source
}

func (pv *pointerView) setSource(src interact.Source) {
	pv.mu.Lock()
	pv.source = src
	pv.mu.Unlock()
}

func (pv *pointerView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	pv.setSource(interact.Mouse)
	pv.send(interact.Down, interact.Mouse, ev.Position)
}

func (pv *pointerView) MouseUp(ev *desktop.MouseEvent) {
	pv.send(interact.Up, interact.Mouse, ev.Position)
}

func (pv *pointerView) MouseIn(*desktop.MouseEvent) {}

func (pv *pointerView) MouseMoved(ev *desktop.MouseEvent) {
	pv.send(interact.Move, interact.Mouse, ev.Position)
}

func (pv *pointerView) MouseOut() {
	pv.handle(interact.PointerEvent{Kind: interact.Leave, Source: interact.Mouse})
}

func (pv *pointerView) TouchDown(ev *mobile.TouchEvent) {
	pv.setSource(interact.Touch)
	pv.send(interact.Down, interact.Touch, ev.Position)
}

func (pv *pointerView) TouchUp(ev *mobile.TouchEvent) {
	pv.send(interact.Up, interact.Touch, ev.Position)
}

func (pv *pointerView) TouchCancel(*mobile.TouchEvent) {
	pv.handle(interact.PointerEvent{Kind: interact.Cancel, Source: interact.Touch})
}

// Dragged reports pointer motion while a button is held or a finger
// is down.
func (pv *pointerView) Dragged(ev *fyne.DragEvent) {
	pv.send(interact.Move, pv.lastSource(), ev.Position)
}

func (pv *pointerView) DragEnd() {
	pv.handle(interact.PointerEvent{Kind: interact.Up, Source: pv.lastSource()})
}
