package testcases

import "seehuhn.de/go/overlay/coords"

var dragCases = []TestCase{
	{
		Name:     "single_move",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 110, Y: 120},
			MoveTo{X: 210, Y: 320},
			Release{},
		},
		Want: []coords.Rect{box(200, 300, 50, 50)},
	},
	{
		Name:     "many_small_moves", // must end where single_move ends
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: seq(
			[]Action{Press{X: 110, Y: 120}},
			steps(110, 120, 210, 320, 37, false),
			[]Action{Release{}},
		),
		Want: []coords.Rect{box(200, 300, 50, 50)},
	},
	{
		Name:     "press_release",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 125, Y: 125},
			Release{},
		},
		Want: []coords.Rect{box(100, 100, 50, 50)},
	},
	{
		Name:     "topmost_wins",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50), box(120, 120, 50, 50)},
		Actions: []Action{
			Press{X: 130, Y: 130},
			MoveTo{X: 20, Y: 20},
			Release{},
		},
		Want: []coords.Rect{box(100, 100, 50, 50), box(10, 10, 50, 50)},
	},
	{
		Name:     "miss",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 5, Y: 5},
			MoveTo{X: 50, Y: 50},
			Release{},
		},
		Want: []coords.Rect{box(100, 100, 50, 50)},
	},
	{
		Name:     "leave_ends_drag",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 110, Y: 110},
			MoveTo{X: 60, Y: 60},
			Leave{},
			MoveTo{X: 200, Y: 200},
		},
		Want: []coords.Rect{box(50, 50, 50, 50)},
	},
	{
		Name:     "off_canvas",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 110, Y: 110},
			MoveTo{X: -20, Y: 5},
			Release{},
		},
		Want: []coords.Rect{box(-30, -5, 50, 50)},
	},
}
