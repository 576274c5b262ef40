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

// Command pdfsign is a desktop application for placing images and
// hand-drawn signatures on the pages of a PDF document.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"seehuhn.de/go/overlay/logging"
	"seehuhn.de/go/overlay/render"
	"seehuhn.de/go/overlay/session"
)

const (
	appID    = "de.seehuhn.overlay.pdfsign"
	appTitle = "PDF Sign"

	prefKeyLastDir = "lastDir"
	prefKeyScale   = "renderScale"
)

func main() {
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()
	logging.SetLogger(logging.NewText(os.Stderr, *verbose))

	a := app.NewWithID(appID)
	mw := newMainWindow(a)

	for _, fname := range flag.Args() {
		mw.openPath(fname)
	}

	mw.win.ShowAndRun()
	mw.sess.Close()
}

type mainWindow struct {
	app  fyne.App
	win  fyne.Window
	sess *session.Session

	page     *pointerView
	pageInfo *widget.Label
}

func newMainWindow(a fyne.App) *mainWindow {
	mw := &mainWindow{
		app: a,
		win: a.NewWindow(appTitle),
	}

	mw.pageInfo = widget.NewLabel("No document")

	opt := session.DefaultOptions()
	opt.Scale = a.Preferences().FloatWithFallback(prefKeyScale, render.DefaultScale)
	opt.Sink = func(img *image.RGBA) {
		mw.page.SetImage(img)
	}
	opt.OnError = func(err error) {
		dialog.ShowError(err, mw.win)
	}
	opt.OnPage = func(pageNo, numPages int) {
		mw.pageInfo.SetText(fmt.Sprintf("Page %d of %d", pageNo, numPages))
	}
	mw.sess = session.New(opt)
	mw.page = newPointerView(mw.sess.Pointer)

	toolbar := container.NewHBox(
		widget.NewButton("Open PDF...", func() { mw.chooseFile([]string{".pdf"}) }),
		widget.NewButton("Add Image...", func() {
			mw.chooseFile([]string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"})
		}),
		widget.NewButton("Signature...", mw.onSignature),
		widget.NewSeparator(),
		widget.NewButton("Previous", func() { mw.sess.Pages.Prev() }),
		mw.pageInfo,
		widget.NewButton("Next", func() { mw.sess.Pages.Next() }),
		widget.NewSeparator(),
		widget.NewButton("Save PDF...", mw.onSave),
	)

	content := container.NewBorder(
		container.NewPadded(toolbar), nil, nil, nil,
		container.NewScroll(container.NewCenter(mw.page)),
	)
	mw.win.SetContent(content)
	mw.win.Resize(fyne.NewSize(900, 1000))

	mw.win.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		for _, u := range uris {
			mw.openPath(u.Path())
		}
	})

	return mw
}

// alert shows the user-facing message for err, if any.
func (mw *mainWindow) alert(err error) {
	if msg := session.Message(err); msg != "" {
		dialog.ShowInformation(appTitle, msg, mw.win)
	}
}

func (mw *mainWindow) open(name, mimeType string, data []byte) {
	if mimeType == "" {
		mimeType = session.DetectType(name, data)
	}
	err := mw.sess.Open(context.Background(), name, mimeType, data)
	if err != nil {
		mw.alert(err)
		return
	}
	if mimeType == session.TypePDF {
		mw.win.SetTitle(appTitle + " - " + name)
	}
}

func (mw *mainWindow) openPath(fname string) {
	data, err := os.ReadFile(fname)
	if err != nil {
		dialog.ShowError(err, mw.win)
		return
	}
	mw.saveLastDir(filepath.Dir(fname))
	mw.open(filepath.Base(fname), "", data)
}

func (mw *mainWindow) chooseFile(extensions []string) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, mw.win)
			return
		}
		uri := reader.URI()
		mw.saveLastDir(filepath.Dir(uri.Path()))
		mw.open(uri.Name(), uri.MimeType(), data)
	}, mw.win)
	fd.SetFilter(storage.NewExtensionFileFilter(extensions))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *mainWindow) onSave() {
	fd := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		fname, err := mw.sess.SaveFile(context.Background(), dir.Path())
		if err != nil {
			mw.alert(err)
			return
		}
		mw.saveLastDir(dir.Path())
		dialog.ShowInformation(appTitle, "Saved as "+fname, mw.win)
	}, mw.win)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *mainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

func (mw *mainWindow) saveLastDir(dir string) {
	mw.app.Preferences().SetString(prefKeyLastDir, dir)
}
