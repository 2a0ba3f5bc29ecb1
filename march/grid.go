package march

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms3"
)

// Field is a scalar field sampled by a Grid.
type Field interface {
	// Evaluate returns the field value at p.
	Evaluate(p ms3.Vec) float32
}

// Normaler provides an approximate outward surface direction of a field.
type Normaler interface {
	Normal(p ms3.Vec) ms3.Vec
}

// Vertex is a single lattice sample of a Grid.
type Vertex struct {
	Pos ms3.Vec
	// Lattice coordinates. In 2D grids I is the x index and J the y index, K is always 0.
	I, J, K int
	Value   float32
	Inside  bool
}

// Grid is a regular lattice of samples covering a rectangular domain. Vertices are
// stored in a flat slice and addressed by their lattice coordinates:
//
//	2D: y*res + x
//	3D: (i*res + j)*res + k
type Grid struct {
	dim       int
	res       int
	origin    ms3.Vec
	cell      ms3.Vec
	threshold float32
	verts     []Vertex
}

// NewGrid returns a dim dimensional grid of res vertices per axis spanning size from origin.
func NewGrid(dim, res int, origin, size ms3.Vec) (*Grid, error) {
	var g Grid
	if err := g.Reset(dim, res, origin, size); err != nil {
		return nil, err
	}
	return &g, nil
}

// Reset reshapes the grid, reusing the vertex buffer if it is large enough.
// Vertex values and states are zeroed until the next call to Refresh.
func (g *Grid) Reset(dim, res int, origin, size ms3.Vec) error {
	if dim != 2 && dim != 3 {
		return fmt.Errorf("grid dimension must be 2 or 3, got %d", dim)
	} else if res < 2 {
		return fmt.Errorf("grid resolution must be at least 2, got %d", res)
	} else if size.X <= 0 || size.Y <= 0 || (dim == 3 && size.Z <= 0) {
		return errors.New("grid size must be positive along every axis")
	}
	n := res * res
	if dim == 3 {
		n *= res
	}
	if cap(g.verts) < n {
		g.verts = make([]Vertex, n)
	}
	g.verts = g.verts[:n]
	g.dim = dim
	g.res = res
	g.origin = origin
	div := float32(res - 1)
	g.cell = ms3.Vec{X: size.X / div, Y: size.Y / div, Z: size.Z / div}
	if dim == 2 {
		g.cell.Z = 0
	}
	for idx := range g.verts {
		var i, j, k int
		if dim == 2 {
			i, j = idx%res, idx/res
		} else {
			k = idx % res
			j = (idx / res) % res
			i = idx / (res * res)
		}
		g.verts[idx] = Vertex{
			I: i, J: j, K: k,
			Pos: ms3.Add(origin, ms3.Vec{
				X: float32(i) * g.cell.X,
				Y: float32(j) * g.cell.Y,
				Z: float32(k) * g.cell.Z,
			}),
		}
	}
	return nil
}

// Refresh re-evaluates f at every vertex in place and recomputes the inside state
// as value > threshold.
func (g *Grid) Refresh(f Field, threshold float32) {
	g.threshold = threshold
	for i := range g.verts {
		v := &g.verts[i]
		v.Value = f.Evaluate(v.Pos)
		v.Inside = v.Value > threshold
	}
}

// Dim returns the number of dimensions of the grid (2 or 3).
func (g *Grid) Dim() int { return g.dim }

// Resolution returns the number of vertices along each axis.
func (g *Grid) Resolution() int { return g.res }

// CellSize returns the lattice spacing along each axis. Z is zero for 2D grids.
func (g *Grid) CellSize() ms3.Vec { return g.cell }

// Origin returns the position of the vertex at lattice coordinates zero.
func (g *Grid) Origin() ms3.Vec { return g.origin }

// Threshold returns the iso-threshold used in the last Refresh.
func (g *Grid) Threshold() float32 { return g.threshold }

// Vertices returns the underlying vertex slice. It is owned by the grid and
// overwritten by the next Refresh.
func (g *Grid) Vertices() []Vertex { return g.verts }

// Index linearizes lattice coordinates. k is ignored for 2D grids.
func (g *Grid) Index(i, j, k int) int {
	if g.dim == 2 {
		return j*g.res + i
	}
	return (i*g.res+j)*g.res + k
}

// At returns the vertex at lattice coordinates i, j, k.
func (g *Grid) At(i, j, k int) *Vertex {
	return &g.verts[g.Index(i, j, k)]
}

// neighbor returns the vertex offset from v by di, dj, dk lattice steps.
func (g *Grid) neighbor(v *Vertex, di, dj, dk int) *Vertex {
	return &g.verts[g.Index(v.I+di, v.J+dj, v.K+dk)]
}

// States appends the inside state of every vertex to dst in linear order.
func (g *Grid) States(dst []bool) []bool {
	for i := range g.verts {
		dst = append(dst, g.verts[i].Inside)
	}
	return dst
}

// Cells returns the amount of cells in the grid.
func (g *Grid) Cells() int {
	n := (g.res - 1) * (g.res - 1)
	if g.dim == 3 {
		n *= g.res - 1
	}
	return n
}
