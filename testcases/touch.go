package testcases

import "seehuhn.de/go/overlay/coords"

// The touch cases mirror mouse cases and must give identical results.
var touchCases = []TestCase{
	{
		Name:     "drag",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 110, Y: 120, Touch: true},
			MoveTo{X: 210, Y: 320, Touch: true},
			Release{Touch: true},
		},
		Want: []coords.Rect{box(200, 300, 50, 50)},
	},
	{
		Name:     "resize",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 150, Y: 150, Touch: true},
			MoveTo{X: 180, Y: 170, Touch: true},
			Release{Touch: true},
		},
		Want: []coords.Rect{box(100, 100, 80, 70)},
	},
	{
		Name:     "cancel_ends_drag",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 110, Y: 110, Touch: true},
			MoveTo{X: 60, Y: 60, Touch: true},
			Cancel{},
			MoveTo{X: 0, Y: 0, Touch: true},
		},
		Want: []coords.Rect{box(50, 50, 50, 50)},
	},
	{
		Name:     "many_small_moves",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: seq(
			[]Action{Press{X: 110, Y: 120, Touch: true}},
			steps(110, 120, 210, 320, 50, true),
			[]Action{Release{Touch: true}},
		),
		Want: []coords.Rect{box(200, 300, 50, 50)},
	},
}
