package stimulus

import (
	"math/rand"
	"testing"
)

func TestGridExactValues(t *testing.T) {
	points := Grid(1000, 800)
	if len(points) != GridSize {
		t.Fatalf("expected %d points, got %d", GridSize, len(points))
	}

	byLabel := make(map[string]Point, len(points))
	for _, p := range points {
		byLabel[p.Label] = p
	}

	cases := []struct {
		label string
		x, y  int
	}{
		{"outer-top-left", 120, 96},
		{"outer-top-center", 500, 96},
		{"outer-bottom-right", 880, 704},
		{"inner-top-left", 260, 208},
		{"inner-mid-right", 740, 400},
		{"inner-bottom-center", 500, 592},
	}
	for _, tc := range cases {
		p, ok := byLabel[tc.label]
		if !ok {
			t.Fatalf("missing point %q", tc.label)
		}
		if p.X != tc.x || p.Y != tc.y {
			t.Errorf("%s = (%d,%d), want (%d,%d)", tc.label, p.X, p.Y, tc.x, tc.y)
		}
	}
}

func TestGridBoundsAndSymmetry(t *testing.T) {
	dims := []struct{ w, h int }{
		{640, 480},
		{1920, 1080},
		{1366, 768},
		{801, 601},
	}
	for _, d := range dims {
		points := Grid(d.w, d.h)
		if len(points) != GridSize {
			t.Fatalf("%dx%d: expected %d points, got %d", d.w, d.h, GridSize, len(points))
		}
		for _, p := range points {
			if !p.InBounds(d.w, d.h) {
				t.Errorf("%dx%d: point %v out of bounds", d.w, d.h, p)
			}
		}
		// Mirror symmetry about the center within 1px rounding tolerance:
		// every point must have a counterpart at (w-x, y).
		for _, p := range points {
			if !hasMirror(points, d.w-p.X, p.Y) {
				t.Errorf("%dx%d: no horizontal mirror for %v", d.w, d.h, p)
			}
		}
	}
}

func hasMirror(points []Point, x, y int) bool {
	for _, q := range points {
		if abs(q.X-x) <= 1 && abs(q.Y-y) <= 1 {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestGridRejectsNonPositiveDimensions(t *testing.T) {
	for _, d := range []struct{ w, h int }{{0, 800}, {1000, 0}, {-5, -5}} {
		if got := Grid(d.w, d.h); got != nil {
			t.Errorf("Grid(%d,%d) = %d points, want nil", d.w, d.h, len(got))
		}
	}
}

func TestRandomPointStaysInsetAndDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		p := RandomPoint(1000, 800, rng)
		if p.X < 50 || p.X > 950 || p.Y < 40 || p.Y > 760 {
			t.Fatalf("point %v outside 5%% inset", p)
		}
	}

	a := RandomPoint(1000, 800, rand.New(rand.NewSource(7)))
	b := RandomPoint(1000, 800, rand.New(rand.NewSource(7)))
	if a != b {
		t.Fatalf("same seed produced different points: %v vs %v", a, b)
	}
}

func TestRandomPointDegenerateSurface(t *testing.T) {
	p := RandomPoint(0, 0, rand.New(rand.NewSource(1)))
	if p.X != 0 || p.Y != 0 {
		t.Fatalf("expected center fallback for empty surface, got %v", p)
	}
}
