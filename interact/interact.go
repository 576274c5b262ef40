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

// Package interact implements dragging and resizing of overlays with a
// mouse or a touch screen.
//
// Input from both kinds of device is delivered as [PointerEvent] values.
// The [Engine] interprets these events and updates an [overlay.Model].
// At most one overlay is manipulated at a time.
package interact

import (
	"fmt"
	"sync"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/overlay"
)

// Kind is the type of a pointer event.
type Kind int

// These are the supported kinds of pointer events.
const (
	Down   Kind = iota // button pressed or finger placed
	Move               // pointer moved
	Up                 // button released or finger lifted
	Leave              // pointer left the canvas
	Cancel             // touch sequence cancelled by the system
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Leave:
		return "leave"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Source identifies the device which generated an event.
type Source int

// These are the supported input devices.
const (
	Mouse Source = iota
	Touch
)

// Part identifies which part of an overlay is under the pointer.
type Part int

// These are the parts of an overlay which react to the pointer.
const (
	None   Part = iota // no overlay
	Body               // the image itself, used for dragging
	Handle             // the resize handle at the bottom-right corner
)

// Target is the overlay part an event refers to.
type Target struct {
	Part Part
	ID   overlay.ID
}

// PointerEvent is a mouse or touch event in canvas coordinates.
type PointerEvent struct {
	Kind   Kind
	Source Source
	Pos    vec.Vec2

	// Target is only used for Down events.
	Target Target
}

// State is the state of the interaction engine.
// It is one of [Idle], [Dragging] or [Resizing].
type State interface {
	isState()
}

// Idle is the state when no overlay is being manipulated.
type Idle struct{}

// Dragging is the state while an overlay is being moved.
type Dragging struct {
	ID overlay.ID

	// Offset is the pointer position relative to the top-left corner of
	// the overlay, at the time the drag started.
	Offset vec.Vec2
}

// Resizing is the state while an overlay is being resized.
type Resizing struct {
	ID overlay.ID

	// Anchor is the pointer position at the time the resize started.
	Anchor vec.Vec2

	StartWidth, StartHeight float64
}

func (Idle) isState()     {}
func (Dragging) isState() {}
func (Resizing) isState() {}

// HandleSize is the edge length of the square resize handle, in canvas
// pixels.  The handle is centred on the bottom-right corner of an overlay.
const HandleSize = 10

// Engine is the pointer interaction state machine.
//
// Events are expected to arrive from a single goroutine.  State and
// Selected may be called concurrently, for example while repainting.
type Engine struct {
	model *overlay.Model

	mu       sync.Mutex
	state    State
	selected overlay.ID

	onSelect func(overlay.ID)
}

// NewEngine returns an engine operating on the given model.
func NewEngine(m *overlay.Model) *Engine {
	return &Engine{
		model: m,
		state: Idle{},
	}
}

// OnSelect registers a function which is called whenever the selected
// overlay changes.  The empty ID indicates that the selection was cleared.
func (e *Engine) OnSelect(fn func(overlay.ID)) {
	e.mu.Lock()
	e.onSelect = fn
	e.mu.Unlock()
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Selected returns the ID of the highlighted overlay, if any.
func (e *Engine) Selected() (overlay.ID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected, e.selected != ""
}

// HitTest returns the overlay part at the canvas position p.
// Overlays are examined from top to bottom; on each overlay the resize
// handle takes precedence over the body.
func (e *Engine) HitTest(p vec.Vec2) Target {
	return HitTest(e.model.Overlays(), p)
}

// HitTest returns the part of the topmost overlay at position p.
// The overlays must be given in drawing order.
func HitTest(overlays []overlay.Overlay, p vec.Vec2) Target {
	const h = HandleSize / 2
	for i := len(overlays) - 1; i >= 0; i-- {
		o := &overlays[i]
		cx, cy := o.X+o.Width, o.Y+o.Height
		if p.X >= cx-h && p.X <= cx+h && p.Y >= cy-h && p.Y <= cy+h {
			return Target{Part: Handle, ID: o.ID}
		}
		if o.Contains(p) {
			return Target{Part: Body, ID: o.ID}
		}
	}
	return Target{}
}

// Handle processes a pointer event.
// It reports whether the event was consumed.  A Down event which arrives
// while a drag or resize is in progress is rejected and leaves the state
// unchanged.
func (e *Engine) Handle(ev PointerEvent) bool {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()

	switch ev.Kind {
	case Down:
		if _, idle := state.(Idle); !idle {
			return false
		}
		return e.start(ev)

	case Move:
		switch s := state.(type) {
		case Dragging:
			pos := ev.Pos.Sub(s.Offset)
			e.model.Translate(s.ID, pos.X, pos.Y)
			return true
		case Resizing:
			d := ev.Pos.Sub(s.Anchor)
			e.model.Resize(s.ID, s.StartWidth+d.X, s.StartHeight+d.Y)
			return true
		}
		return false

	case Up, Leave, Cancel:
		if _, idle := state.(Idle); idle {
			return false
		}
		e.setState(Idle{}, "")
		return true
	}
	return false
}

func (e *Engine) start(ev PointerEvent) bool {
	if ev.Target.Part == None {
		return false
	}
	o, ok := e.model.Get(ev.Target.ID)
	if !ok {
		return false
	}

	switch ev.Target.Part {
	case Handle:
		e.setState(Resizing{
			ID:          o.ID,
			Anchor:      ev.Pos,
			StartWidth:  o.Width,
			StartHeight: o.Height,
		}, o.ID)
	case Body:
		e.setState(Dragging{
			ID:     o.ID,
			Offset: ev.Pos.Sub(vec.Vec2{X: o.X, Y: o.Y}),
		}, o.ID)
	default:
		return false
	}
	return true
}

func (e *Engine) setState(s State, selected overlay.ID) {
	e.mu.Lock()
	e.state = s
	changed := e.selected != selected
	e.selected = selected
	fn := e.onSelect
	e.mu.Unlock()

	if changed && fn != nil {
		fn(selected)
	}
}
