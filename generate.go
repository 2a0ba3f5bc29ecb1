package metaball

import (
	"github.com/soypat/glgl/math/ms3"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Generate returns n metaballs with uniformly distributed radii and speeds within the
// configured ranges, centers placed uniformly inside the collision bounds and
// isotropically distributed directions of motion. The result depends only on the
// configuration, including its seed. c must be valid.
func Generate(c Config, n int) []Metaball {
	src := rand.NewSource(c.Seed)
	radius := distuv.Uniform{Min: float64(c.RadiusMin), Max: float64(c.RadiusMax), Src: src}
	speed := distuv.Uniform{Min: float64(c.SpeedMin), Max: float64(c.SpeedMax), Src: src}
	unit := distuv.Uniform{Min: 0, Max: 1, Src: src}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	bounds := c.Bounds()
	balls := make([]Metaball, n)
	for i := range balls {
		r := float32(radius.Rand())
		lo := addScalar(bounds.Min, r)
		span := ms3.Sub(addScalar(bounds.Max, -r), lo)
		center := ms3.Add(lo, ms3.MulElem(span, ms3.Vec{
			X: float32(unit.Rand()),
			Y: float32(unit.Rand()),
			Z: float32(unit.Rand()),
		}))
		dir := randomDirection(c.Dim, normal)
		if c.Dim == 2 {
			center.Z = 0
		}
		balls[i] = Metaball{
			Center:   center,
			Radius:   r,
			Velocity: ms3.Scale(float32(speed.Rand()), dir),
			Color:    [3]float32{1, 1, 1},
		}
	}
	return balls
}

// randomDirection returns a unit vector uniformly distributed on the circle (dim 2) or sphere.
func randomDirection(dim int, normal distuv.Normal) ms3.Vec {
	for {
		v := ms3.Vec{X: float32(normal.Rand()), Y: float32(normal.Rand())}
		if dim == 3 {
			v.Z = float32(normal.Rand())
		}
		if n := ms3.Norm(v); n > 1e-6 {
			return ms3.Scale(1/n, v)
		}
	}
}

// addScalar adds f to every component of v.
func addScalar(v ms3.Vec, f float32) ms3.Vec {
	return ms3.Add(v, ms3.Vec{X: f, Y: f, Z: f})
}
