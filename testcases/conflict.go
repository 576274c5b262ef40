package testcases

import "seehuhn.de/go/overlay/coords"

// A second press while a gesture is in progress must be ignored.
var conflictCases = []TestCase{
	{
		Name:     "resize_during_drag",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50), box(200, 300, 50, 50)},
		Actions: []Action{
			Press{X: 110, Y: 110},
			Press{X: 250, Y: 350, Touch: true},
			MoveTo{X: 60, Y: 60},
			Release{},
		},
		Want: []coords.Rect{box(50, 50, 50, 50), box(200, 300, 50, 50)},
	},
	{
		Name:     "drag_during_resize",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50), box(200, 300, 50, 50)},
		Actions: []Action{
			Press{X: 150, Y: 150},
			Press{X: 210, Y: 310},
			MoveTo{X: 170, Y: 170},
			Release{},
		},
		Want: []coords.Rect{box(100, 100, 70, 70), box(200, 300, 50, 50)},
	},
	{
		Name:     "second_gesture_after_release",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50), box(200, 300, 50, 50)},
		Actions: []Action{
			Press{X: 110, Y: 110},
			Release{},
			Press{X: 250, Y: 350},
			MoveTo{X: 260, Y: 360},
			Release{},
		},
		Want: []coords.Rect{box(100, 100, 50, 50), box(200, 300, 60, 60)},
	},
}
