package testcases

import "seehuhn.de/go/overlay/coords"

// The export cases also give the expected geometry in PDF space.
var exportCases = []TestCase{
	{
		Name:     "default_placement",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Want:     []coords.Rect{box(100, 100, 50, 50)},
		WantPDF:  []coords.Rect{box(200.0/3, 300, 100.0/3, 100.0/3)},
	},
	{
		Name:     "dragged_to_bottom_left",
		Page:     defaultPage,
		Scale:    defaultScale,
		Overlays: []coords.Rect{box(100, 100, 60, 30)},
		Actions: []Action{
			Press{X: 100, Y: 100},
			MoveTo{X: 0, Y: 570},
			Release{},
		},
		Want:    []coords.Rect{box(0, 570, 60, 30)},
		WantPDF: []coords.Rect{box(0, 0, 40, 20)},
	},
	{
		Name:     "letter_unit_scale",
		Page:     coords.PageSize{Width: 612, Height: 792},
		Scale:    1,
		Overlays: []coords.Rect{box(72, 72, 144, 36)},
		Want:     []coords.Rect{box(72, 72, 144, 36)},
		WantPDF:  []coords.Rect{box(72, 684, 144, 36)},
	},
	{
		Name:     "resized_at_scale_2",
		Page:     coords.PageSize{Width: 200, Height: 200},
		Scale:    2,
		Overlays: []coords.Rect{box(100, 100, 50, 50)},
		Actions: []Action{
			Press{X: 150, Y: 150},
			MoveTo{X: 250, Y: 200},
			Release{},
		},
		Want:    []coords.Rect{box(100, 100, 150, 100)},
		WantPDF: []coords.Rect{box(50, 100, 75, 50)},
	},
}
