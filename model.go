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

package overlay

import (
	"fmt"
	"slices"
	"sync"
)

// Model is the ordered set of overlays placed on the current page.
//
// Overlays are kept in insertion order, which is also the order in which
// they are drawn: later overlays appear on top of earlier ones.
// A Model is safe for concurrent use.  Listeners registered with OnChange
// are called after every mutation, without the lock held.
type Model struct {
	mu        sync.RWMutex
	items     []Overlay
	nextID    int
	listeners []func()
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// Add appends a copy of o to the model and returns the ID assigned to it.
// Any ID already present in o is ignored.
func (m *Model) Add(o *Overlay) ID {
	m.mu.Lock()
	m.nextID++
	id := ID(fmt.Sprintf("img-%d", m.nextID))
	item := *o
	item.ID = id
	m.items = append(m.items, item)
	m.mu.Unlock()

	m.notify()
	return id
}

// Translate moves the top-left corner of the overlay to (x, y).
// It reports whether an overlay with the given ID exists; if not, the
// model is left unchanged.
func (m *Model) Translate(id ID, x, y float64) bool {
	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	m.items[i].X = x
	m.items[i].Y = y
	m.mu.Unlock()

	m.notify()
	return true
}

// Resize changes the size of the overlay, keeping the top-left corner
// fixed.  Each dimension is clamped to at least [MinSize].
// It reports whether an overlay with the given ID exists.
func (m *Model) Resize(id ID, width, height float64) bool {
	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	m.items[i].Width = max(width, MinSize)
	m.items[i].Height = max(height, MinSize)
	m.mu.Unlock()

	m.notify()
	return true
}

// Clear removes all overlays.
func (m *Model) Clear() {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()

	m.notify()
}

// Get returns a copy of the overlay with the given ID.
func (m *Model) Get(id ID) (Overlay, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.index(id)
	if i < 0 {
		return Overlay{}, false
	}
	return m.items[i], true
}

// Overlays returns a snapshot of all overlays, in drawing order.
func (m *Model) Overlays() []Overlay {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.items)
}

// Len returns the number of overlays.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// OnChange registers fn to be called after every change to the model.
func (m *Model) OnChange(fn func()) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Model) notify() {
	m.mu.RLock()
	listeners := slices.Clone(m.listeners)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// index returns the position of the overlay with the given ID, or -1.
// The caller must hold m.mu.
func (m *Model) index(id ID) int {
	return slices.IndexFunc(m.items, func(o Overlay) bool {
		return o.ID == id
	})
}
