// Command export writes the gesture test cases to JSON, so that other
// front-ends can replay them.
// Run from the module root directory.
package main

import (
	"encoding/json"
	"maps"
	"os"
	"slices"

	"seehuhn.de/go/overlay/coords"
	"seehuhn.de/go/overlay/testcases"
)

func main() {
	var out struct {
		TestCases []jsonTestCase `json:"testcases"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			out.TestCases = append(out.TestCases, toJSON(category, tc))
		}
	}

	if err := os.MkdirAll("testdata", 0755); err != nil {
		panic(err)
	}
	f, err := os.Create("testdata/testcases.json")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonTestCase struct {
	Name       string       `json:"name"`
	PageWidth  float64      `json:"page_width"`
	PageHeight float64      `json:"page_height"`
	Scale      float64      `json:"scale"`
	Overlays   []jsonRect   `json:"overlays"`
	Actions    []jsonAction `json:"actions,omitempty"`
	Want       []jsonRect   `json:"want"`
	WantPDF    []jsonRect   `json:"want_pdf,omitempty"`
}

type jsonRect [4]float64

type jsonAction struct {
	Type   string    `json:"type"`
	Pos    []float64 `json:"pos,omitempty"`
	Source string    `json:"source,omitempty"`
}

func toJSON(category string, tc testcases.TestCase) jsonTestCase {
	jtc := jsonTestCase{
		Name:       category + "_" + tc.Name,
		PageWidth:  tc.Page.Width,
		PageHeight: tc.Page.Height,
		Scale:      tc.Scale,
		Overlays:   rectsToJSON(tc.Overlays),
		Want:       rectsToJSON(tc.Want),
		WantPDF:    rectsToJSON(tc.WantPDF),
	}
	for _, a := range tc.Actions {
		jtc.Actions = append(jtc.Actions, actionToJSON(a))
	}
	return jtc
}

func rectsToJSON(rects []coords.Rect) []jsonRect {
	var res []jsonRect
	for _, r := range rects {
		res = append(res, jsonRect{r.X, r.Y, r.Width, r.Height})
	}
	return res
}

func actionToJSON(a testcases.Action) jsonAction {
	source := func(touch bool) string {
		if touch {
			return "touch"
		}
		return "mouse"
	}
	switch a := a.(type) {
	case testcases.Press:
		return jsonAction{Type: "down", Pos: []float64{a.X, a.Y}, Source: source(a.Touch)}
	case testcases.MoveTo:
		return jsonAction{Type: "move", Pos: []float64{a.X, a.Y}, Source: source(a.Touch)}
	case testcases.Release:
		return jsonAction{Type: "up", Source: source(a.Touch)}
	case testcases.Leave:
		return jsonAction{Type: "leave"}
	case testcases.Cancel:
		return jsonAction{Type: "cancel", Source: "touch"}
	}
	panic("unknown action")
}
