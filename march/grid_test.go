package march

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// ballField is an inverse square field of a single source used across tests.
type ballField struct {
	c ms3.Vec
	r float32
}

func (b ballField) Evaluate(p ms3.Vec) float32 {
	d := ms3.Sub(p, b.c)
	d2 := ms3.Dot(d, d)
	if d2 < 0.001 {
		d2 = 1
	}
	return b.r * b.r / d2
}

func (b ballField) Normal(p ms3.Vec) ms3.Vec {
	d := ms3.Sub(p, b.c)
	l := ms3.Norm(d)
	if l == 0 {
		return ms3.Vec{}
	}
	return ms3.Scale(1/l, d)
}

type constField float32

func (c constField) Evaluate(ms3.Vec) float32 { return float32(c) }

func TestGridLinearization(t *testing.T) {
	for _, test := range []struct {
		dim, res int
	}{
		{dim: 2, res: 2},
		{dim: 2, res: 5},
		{dim: 3, res: 2},
		{dim: 3, res: 4},
	} {
		origin := ms3.Vec{X: -1, Y: 2, Z: 0.5}
		size := ms3.Vec{X: 3, Y: 6, Z: 9}
		g, err := NewGrid(test.dim, test.res, origin, size)
		if err != nil {
			t.Fatal(err)
		}
		want := test.res * test.res
		if test.dim == 3 {
			want *= test.res
		}
		if len(g.Vertices()) != want {
			t.Fatalf("dim %d res %d: got %d vertices. want %d", test.dim, test.res, len(g.Vertices()), want)
		}
		cell := g.CellSize()
		for idx, v := range g.Vertices() {
			if got := g.Index(v.I, v.J, v.K); got != idx {
				t.Errorf("dim %d: vertex %d linearizes to %d", test.dim, idx, got)
			}
			wantPos := ms3.Add(origin, ms3.Vec{X: float32(v.I) * cell.X, Y: float32(v.J) * cell.Y, Z: float32(v.K) * cell.Z})
			if !equalVec(v.Pos, wantPos, 1e-5) {
				t.Errorf("dim %d: vertex %d position %v. want %v", test.dim, idx, v.Pos, wantPos)
			}
		}
		last := g.Vertices()[len(g.Vertices())-1].Pos
		wantLast := ms3.Add(origin, size)
		if test.dim == 2 {
			wantLast.Z = origin.Z
		}
		if !equalVec(last, wantLast, 1e-4) {
			t.Errorf("dim %d: last vertex at %v. want domain corner %v", test.dim, last, wantLast)
		}
	}
}

func TestGridResetReusesBuffer(t *testing.T) {
	size := ms3.Vec{X: 1, Y: 1, Z: 1}
	g, err := NewGrid(3, 6, ms3.Vec{}, size)
	if err != nil {
		t.Fatal(err)
	}
	first := &g.Vertices()[0]
	if err := g.Reset(3, 4, ms3.Vec{}, size); err != nil {
		t.Fatal(err)
	}
	if &g.Vertices()[0] != first {
		t.Error("shrinking reset reallocated vertex buffer")
	}
	if err := g.Reset(2, 4, ms3.Vec{}, size); err != nil {
		t.Fatal(err)
	}
	if &g.Vertices()[0] != first {
		t.Error("reset to 2D reallocated vertex buffer")
	}
}

func TestGridResetErrors(t *testing.T) {
	size := ms3.Vec{X: 1, Y: 1, Z: 1}
	var g Grid
	if err := g.Reset(3, 1, ms3.Vec{}, size); err == nil {
		t.Error("expected error for resolution 1")
	}
	if err := g.Reset(4, 3, ms3.Vec{}, size); err == nil {
		t.Error("expected error for dimension 4")
	}
	if err := g.Reset(2, 3, ms3.Vec{}, ms3.Vec{X: -1, Y: 1}); err == nil {
		t.Error("expected error for negative size")
	}
	if err := g.Reset(2, 3, ms3.Vec{}, ms3.Vec{X: 1, Y: 1}); err != nil {
		t.Errorf("2D grid must not require Z size: %v", err)
	}
}

func TestGridRefresh(t *testing.T) {
	g, err := NewGrid(3, 5, ms3.Vec{X: -1, Y: -1, Z: -1}, ms3.Vec{X: 2, Y: 2, Z: 2})
	if err != nil {
		t.Fatal(err)
	}
	f := ballField{r: 0.6, c: ms3.Vec{X: 0.05}}
	g.Refresh(f, 1)
	inside := 0
	for _, v := range g.Vertices() {
		if v.Value != f.Evaluate(v.Pos) {
			t.Fatalf("vertex value %g does not match field %g", v.Value, f.Evaluate(v.Pos))
		}
		if v.Inside != (v.Value > 1) {
			t.Fatalf("vertex state %v does not match value %g", v.Inside, v.Value)
		}
		if v.Inside {
			inside++
		}
	}
	// Center vertex plus its 6 face neighbors at distance 0.5.
	if inside != 7 {
		t.Errorf("got %d inside vertices. want 7", inside)
	}
	g.Refresh(constField(0), 1)
	if states := g.States(nil); len(states) != len(g.Vertices()) {
		t.Fatalf("got %d states", len(states))
	}
	for _, in := range g.States(nil) {
		if in {
			t.Fatal("refresh did not overwrite states")
		}
	}
}

func TestInterpolate(t *testing.T) {
	a := &Vertex{Pos: ms3.Vec{X: 0}, Value: 0}
	b := &Vertex{Pos: ms3.Vec{X: 2}, Value: 4}
	for _, test := range []struct {
		threshold float32
		wantX     float32
	}{
		{threshold: 1, wantX: 0.5},
		{threshold: 2, wantX: 1},
		{threshold: 3.9, wantX: 1.95},
		{threshold: -1, wantX: 0}, // clamped
		{threshold: 5, wantX: 2},  // clamped
	} {
		got := Interpolate(a, b, test.threshold)
		if math32.Abs(got.X-test.wantX) > 1e-5 {
			t.Errorf("threshold %g: got x=%g. want %g", test.threshold, got.X, test.wantX)
		}
		// Reversed endpoints give the same point.
		rev := Interpolate(b, a, test.threshold)
		if math32.Abs(rev.X-test.wantX) > 1e-5 {
			t.Errorf("threshold %g reversed: got x=%g. want %g", test.threshold, rev.X, test.wantX)
		}
	}
	tie := &Vertex{Pos: ms3.Vec{X: 2, Y: 2}, Value: 0}
	got := Interpolate(a, tie, 0)
	if got != (ms3.Vec{X: 1, Y: 1}) {
		t.Errorf("equal values should fall back to midpoint, got %v", got)
	}
}

func TestInterpolateOnCrossedEdges(t *testing.T) {
	g, err := NewGrid(2, 9, ms3.Vec{X: -2, Y: -2}, ms3.Vec{X: 4, Y: 4})
	if err != nil {
		t.Fatal(err)
	}
	f := ballField{r: 1.1, c: ms3.Vec{X: 0.13, Y: -0.21}}
	const thr = 1
	g.Refresh(f, thr)
	n := g.Resolution()
	for j := 0; j < n; j++ {
		for i := 0; i < n-1; i++ {
			a, b := g.At(i, j, 0), g.At(i+1, j, 0)
			if a.Inside == b.Inside {
				continue
			}
			p := Interpolate(a, b, thr)
			lo, hi := a.Pos.X, b.Pos.X
			if p.X < lo-1e-6 || p.X > hi+1e-6 || p.Y != a.Pos.Y {
				t.Errorf("crossing %v outside of segment %v-%v", p, a.Pos, b.Pos)
			}
		}
	}
}

func equalVec(a, b ms3.Vec, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol && math32.Abs(a.Y-b.Y) <= tol && math32.Abs(a.Z-b.Z) <= tol
}
