package overlay

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestAddOrderAndIDs(t *testing.T) {
	m := NewModel()
	seen := map[ID]bool{}
	var ids []ID
	for i := range 5 {
		id := m.Add(&Overlay{ID: "ignored", X: float64(i), Width: 20, Height: 20})
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}

	var got []ID
	for _, o := range m.Overlays() {
		got = append(got, o.ID)
	}
	if d := cmp.Diff(ids, got); d != "" {
		t.Errorf("insertion order not preserved (-want +got):\n%s", d)
	}
}

func TestTranslate(t *testing.T) {
	m := NewModel()
	a := m.Add(&Overlay{X: 1, Y: 2, Width: 20, Height: 20})
	b := m.Add(&Overlay{X: 3, Y: 4, Width: 20, Height: 20})

	if !m.Translate(b, 50, 60) {
		t.Fatal("Translate reported missing overlay")
	}
	want := []Overlay{
		{ID: a, X: 1, Y: 2, Width: 20, Height: 20},
		{ID: b, X: 50, Y: 60, Width: 20, Height: 20},
	}
	if d := cmp.Diff(want, m.Overlays(), cmpopts.IgnoreFields(Overlay{}, "Image")); d != "" {
		t.Errorf("unexpected model (-want +got):\n%s", d)
	}

	if m.Translate("img-missing", 0, 0) {
		t.Error("Translate of unknown id reported success")
	}
	if d := cmp.Diff(want, m.Overlays(), cmpopts.IgnoreFields(Overlay{}, "Image")); d != "" {
		t.Errorf("unknown id changed the model (-want +got):\n%s", d)
	}
}

func TestResizeClamp(t *testing.T) {
	m := NewModel()
	id := m.Add(&Overlay{Width: 50, Height: 50})

	cases := []struct {
		w, h         float64
		wantW, wantH float64
	}{
		{80, 30, 80, 30},
		{9.99, 100, 10, 100},
		{-500, -1e9, 10, 10},
		{10, 10, 10, 10},
		{math.Inf(-1), 11, 10, 11},
	}
	for _, c := range cases {
		m.Resize(id, c.w, c.h)
		o, _ := m.Get(id)
		if o.Width != c.wantW || o.Height != c.wantH {
			t.Errorf("Resize(%g, %g) gave %gx%g, want %gx%g",
				c.w, c.h, o.Width, o.Height, c.wantW, c.wantH)
		}
	}
}

func TestResizeRandomNeverBelowMinimum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := NewModel()
	id := m.Add(&Overlay{Width: 50, Height: 50})
	for range 1000 {
		o, _ := m.Get(id)
		m.Resize(id, o.Width+rng.NormFloat64()*100, o.Height+rng.NormFloat64()*100)
		o, _ = m.Get(id)
		if o.Width < MinSize || o.Height < MinSize {
			t.Fatalf("size %gx%g below minimum", o.Width, o.Height)
		}
	}
}

func TestClear(t *testing.T) {
	m := NewModel()
	m.Add(&Overlay{Width: 20, Height: 20})
	m.Add(&Overlay{Width: 20, Height: 20})
	m.Clear()
	if n := m.Len(); n != 0 {
		t.Errorf("%d overlays left after Clear", n)
	}

	// ids stay unique across Clear
	id := m.Add(&Overlay{Width: 20, Height: 20})
	if id == "img-1" || id == "img-2" {
		t.Errorf("id %q reused after Clear", id)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	m := NewModel()
	id := m.Add(&Overlay{X: 5, Width: 20, Height: 20})
	snap := m.Overlays()
	snap[0].X = 1000
	o, _ := m.Get(id)
	if o.X != 5 {
		t.Errorf("modifying a snapshot changed the model: X = %g", o.X)
	}
}

func TestOnChange(t *testing.T) {
	m := NewModel()
	calls := 0
	m.OnChange(func() {
		calls++
		m.Len() // listeners may read the model
	})

	id := m.Add(&Overlay{Width: 20, Height: 20})
	m.Translate(id, 1, 1)
	m.Translate("img-missing", 1, 1)
	m.Resize(id, 30, 30)
	m.Clear()
	if calls != 4 {
		t.Errorf("listener called %d times, want 4", calls)
	}
}
