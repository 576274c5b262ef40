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
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"seehuhn.de/go/overlay/interact"
	"seehuhn.de/go/overlay/signature"
)

// onSignature opens the signature pad.  On confirmation, the drawing is
// added to the page as a new overlay.
func (mw *mainWindow) onSignature() {
	pad := signature.NewPad()

	var view *pointerView
	view = newPointerView(func(ev interact.PointerEvent) bool {
		used := pad.Handle(ev)
		if used {
			view.SetImage(pad.Image())
		}
		return used
	})
	view.SetImage(pad.Image())

	clearBtn := widget.NewButton("Clear", func() {
		pad.Clear()
		view.SetImage(pad.Image())
	})
	content := container.NewBorder(nil, clearBtn, nil, nil, view)

	d := dialog.NewCustomConfirm("Draw your signature", "Add", "Cancel", content,
		func(ok bool) {
			if !ok {
				return
			}
			if _, err := mw.sess.AddSignature(pad); err != nil {
				mw.alert(err)
			}
		}, mw.win)
	d.Show()
}
