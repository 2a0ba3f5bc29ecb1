package metaball

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// minDistSq is the squared distance below which a metaball's distance to a sample
// is replaced by one to avoid dividing by zero.
const minDistSq = 0.001

// Metaball is a moving spherical source of the field.
type Metaball struct {
	Center   ms3.Vec
	Radius   float32
	Velocity ms3.Vec
	// Color is a display tag handed to renderers, RGB in [0,1].
	Color [3]float32
}

// Field is the sum of the inverse square influences of a fixed set of metaballs
// moving inside an axis aligned collision box.
//
// The influence of a metaball of radius r at squared distance d² is r²/d², so a
// lone metaball crosses a threshold of 1 exactly at its radius.
type Field struct {
	balls  []Metaball
	dim    int
	bounds ms3.Box
}

// NewField returns a field over copies of balls confined to bounds. For 2D fields
// the Z axis is ignored during motion and metaballs keep their Z coordinate.
func NewField(dim int, bounds ms3.Box, balls []Metaball) (*Field, error) {
	var f Field
	if err := f.Reset(dim, bounds, balls); err != nil {
		return nil, err
	}
	return &f, nil
}

// Reset replaces the field's metaballs and bounds, reusing the metaball buffer.
func (f *Field) Reset(dim int, bounds ms3.Box, balls []Metaball) error {
	if dim != 2 && dim != 3 {
		return fmt.Errorf("field dimension must be 2 or 3, got %d", dim)
	}
	size := bounds.Size()
	if size.X < 0 || size.Y < 0 || (dim == 3 && size.Z < 0) {
		return errors.New("inverted field bounds")
	}
	for i := range balls {
		if balls[i].Radius <= 0 {
			return fmt.Errorf("metaball %d has non-positive radius %g", i, balls[i].Radius)
		}
	}
	f.balls = append(f.balls[:0], balls...)
	f.dim = dim
	f.bounds = bounds
	return nil
}

// Evaluate returns the field value at p. It is non-negative and zero for a field with no metaballs.
func (f *Field) Evaluate(p ms3.Vec) float32 {
	var sum float32
	for i := range f.balls {
		sum += f.influence(i, p)
	}
	return sum
}

func (f *Field) influence(i int, p ms3.Vec) float32 {
	b := &f.balls[i]
	d := ms3.Sub(p, b.Center)
	d2 := ms3.Dot(d, d)
	if d2 < minDistSq {
		d2 = 1
	}
	return b.Radius * b.Radius / d2
}

// Normal approximates the outward surface direction at p as the unit sum of the
// directions away from each metaball weighted by radius and influence. It is
// only meaningful close to the iso-surface. The zero vector is returned when the
// contributions cancel out.
func (f *Field) Normal(p ms3.Vec) ms3.Vec {
	var sum ms3.Vec
	var total float32
	for i := range f.balls {
		b := &f.balls[i]
		d := ms3.Sub(p, b.Center)
		dist := ms3.Norm(d)
		v := f.influence(i, p)
		total += v
		if dist == 0 {
			continue
		}
		sum = ms3.Add(sum, ms3.Scale(b.Radius*v/dist, d))
	}
	if total == 0 {
		return ms3.Vec{}
	}
	sum = ms3.Scale(1/total, sum)
	norm := ms3.Norm(sum)
	if norm == 0 || math32.IsNaN(norm) || math32.IsInf(norm, 0) {
		return ms3.Vec{}
	}
	return ms3.Scale(1/norm, sum)
}

// Advance integrates metaball motion over dt and reflects metaballs off the
// collision bounds. On contact the metaball is moved back inside the bounds and
// its velocity component along the contact axis is set to point away from the
// wall, so a contact reverses motion exactly once.
func (f *Field) Advance(dt float32) {
	for i := range f.balls {
		b := &f.balls[i]
		b.Center = ms3.Add(b.Center, ms3.Scale(dt, b.Velocity))
		bounce(&b.Center.X, &b.Velocity.X, b.Radius, f.bounds.Min.X, f.bounds.Max.X)
		bounce(&b.Center.Y, &b.Velocity.Y, b.Radius, f.bounds.Min.Y, f.bounds.Max.Y)
		if f.dim == 3 {
			bounce(&b.Center.Z, &b.Velocity.Z, b.Radius, f.bounds.Min.Z, f.bounds.Max.Z)
		}
	}
}

func bounce(pos, vel *float32, r, lo, hi float32) {
	if *pos+r >= hi {
		*pos = hi - r
		*vel = -math32.Abs(*vel)
	} else if *pos-r <= lo {
		*pos = lo + r
		*vel = math32.Abs(*vel)
	}
}

// Len returns the number of metaballs in the field.
func (f *Field) Len() int { return len(f.balls) }

// Dim returns the dimension of the field's motion (2 or 3).
func (f *Field) Dim() int { return f.dim }

// Bounds returns the collision box metaballs are confined to.
func (f *Field) Bounds() ms3.Box { return f.bounds }

// Metaball returns a copy of the i'th metaball.
func (f *Field) Metaball(i int) Metaball { return f.balls[i] }

// AppendMetaballs appends copies of the field's metaballs to dst.
func (f *Field) AppendMetaballs(dst []Metaball) []Metaball {
	return append(dst, f.balls...)
}
