package testcases

import "seehuhn.de/go/overlay/coords"

var resizeCases = []TestCase{
	{
		Name:     "grow",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 150, Y: 150},
			MoveTo{X: 180, Y: 170},
			Release{},
		},
		Want: []coords.Rect{box(100, 100, 80, 70)},
	},
	{
		Name:     "shrink_clamped",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 150, Y: 150},
			MoveTo{X: 0, Y: 0},
			Release{},
		},
		Want: []coords.Rect{box(100, 100, 10, 10)},
	},
	{
		Name:     "independent_axes",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 152, Y: 148},
			MoveTo{X: 132, Y: 198},
			Release{},
		},
		Want: []coords.Rect{box(100, 100, 30, 100)},
	},
	{
		Name:     "clamp_then_regrow",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 150, Y: 150},
			MoveTo{X: 50, Y: 50},
			MoveTo{X: 170, Y: 160},
			Release{},
		},
		Want: []coords.Rect{box(100, 100, 70, 60)},
	},
	{
		Name:     "handle_outside_body",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 154, Y: 154},
			MoveTo{X: 164, Y: 154},
			Release{},
		},
		Want: []coords.Rect{box(100, 100, 60, 50)},
	},
	{
		Name:     "many_small_steps",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: seq(
			[]Action{Press{X: 150, Y: 150}},
			steps(150, 150, -400, 90, 25, false),
			[]Action{Release{}},
		),
		Want: []coords.Rect{box(100, 100, 10, 10)},
	},
}
