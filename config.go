package metaball

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms3"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid metaball configuration")

// Config holds the parameters of a metaball simulation.
type Config struct {
	// Dim is the dimension of the simulation, 2 (marching squares) or 3 (marching cubes).
	Dim int
	// Resolution is the number of grid vertices along each axis.
	Resolution int
	// Size is the edge length of the cubic domain [0, Size]^Dim.
	Size float32
	// SizeX, SizeY, SizeZ override Size along a single axis when positive.
	SizeX, SizeY, SizeZ float32
	// Threshold is the iso-value separating inside (value > Threshold) from outside.
	Threshold float32
	// Count is the number of randomly generated metaballs. It is ignored when Balls is not empty.
	Count int
	// RadiusMin, RadiusMax bound the radii of generated metaballs. They are swapped if reversed.
	RadiusMin, RadiusMax float32
	// SpeedMin, SpeedMax bound the speed of generated metaballs. They are swapped if reversed.
	SpeedMin, SpeedMax float32
	// BoundsFraction is the fraction of the domain, centered, metaballs collide against.
	BoundsFraction float32
	// Seed seeds metaball generation.
	Seed uint64
	// FillInterior makes 2D meshes cover cells with all corners inside.
	FillInterior bool
	// Balls lists explicit initial metaballs. When empty Count metaballs are generated.
	Balls []Metaball
}

// DefaultConfig returns a 3D configuration with five metaballs bouncing in a 10 unit box.
func DefaultConfig() Config {
	return Config{
		Dim:            3,
		Resolution:     24,
		Size:           10,
		Threshold:      1,
		Count:          5,
		RadiusMin:      0.8,
		RadiusMax:      1.6,
		SpeedMin:       1,
		SpeedMax:       3,
		BoundsFraction: 0.8,
		Seed:           1,
		FillInterior:   true,
	}
}

// Validate checks the configuration is usable and sorts reversed ranges in place.
func (c *Config) Validate() error {
	if c.RadiusMin > c.RadiusMax {
		c.RadiusMin, c.RadiusMax = c.RadiusMax, c.RadiusMin
	}
	if c.SpeedMin > c.SpeedMax {
		c.SpeedMin, c.SpeedMax = c.SpeedMax, c.SpeedMin
	}
	switch {
	case c.Dim != 2 && c.Dim != 3:
		return configErr("dimension must be 2 or 3, got %d", c.Dim)
	case c.Resolution < 2:
		return configErr("resolution must be at least 2, got %d", c.Resolution)
	case c.Size < 0:
		return configErr("negative domain size %g", c.Size)
	case c.Size <= 0 && (c.SizeX <= 0 || c.SizeY <= 0 || (c.Dim == 3 && c.SizeZ <= 0)):
		return configErr("domain size must be positive, got %g", c.Size)
	case c.SizeX < 0 || c.SizeY < 0 || c.SizeZ < 0:
		return configErr("negative per axis domain size")
	case c.Count < 0:
		return configErr("negative metaball count %d", c.Count)
	case c.BoundsFraction <= 0 || c.BoundsFraction > 1:
		return configErr("bounds fraction must be in (0, 1], got %g", c.BoundsFraction)
	case c.SpeedMin < 0:
		return configErr("negative speed %g", c.SpeedMin)
	}
	if len(c.Balls) == 0 && c.Count > 0 {
		if c.RadiusMin <= 0 {
			return configErr("radius range must be positive, got [%g, %g]", c.RadiusMin, c.RadiusMax)
		}
		if err := c.checkFits(c.RadiusMax); err != nil {
			return err
		}
	}
	bounds := c.Bounds()
	for i, b := range c.Balls {
		if b.Radius <= 0 {
			return configErr("ball %d: radius must be positive, got %g", i, b.Radius)
		}
		if err := c.checkFits(b.Radius); err != nil {
			return fmt.Errorf("ball %d: %w", i, err)
		}
		if !c.inside(bounds, b.Center, b.Radius) {
			return configErr("ball %d: center %v outside of collision bounds shrunk by radius %g", i, b.Center, b.Radius)
		}
	}
	return nil
}

// Domain returns the size of the sampled domain along each axis. Z is zero for 2D configurations.
func (c *Config) Domain() ms3.Vec {
	d := ms3.Vec{X: c.Size, Y: c.Size, Z: c.Size}
	if c.SizeX > 0 {
		d.X = c.SizeX
	}
	if c.SizeY > 0 {
		d.Y = c.SizeY
	}
	if c.SizeZ > 0 {
		d.Z = c.SizeZ
	}
	if c.Dim == 2 {
		d.Z = 0
	}
	return d
}

// Bounds returns the collision box: the domain scaled by BoundsFraction about its center.
func (c *Config) Bounds() ms3.Box {
	d := c.Domain()
	half := ms3.Scale(0.5*c.BoundsFraction, d)
	center := ms3.Scale(0.5, d)
	return ms3.Box{Min: ms3.Sub(center, half), Max: ms3.Add(center, half)}
}

func (c *Config) checkFits(radius float32) error {
	size := c.Bounds().Size()
	if 2*radius > size.X || 2*radius > size.Y || (c.Dim == 3 && 2*radius > size.Z) {
		return configErr("radius %g does not fit in collision bounds of size %v", radius, size)
	}
	return nil
}

func (c *Config) inside(bounds ms3.Box, p ms3.Vec, r float32) bool {
	in := p.X-r >= bounds.Min.X && p.X+r <= bounds.Max.X &&
		p.Y-r >= bounds.Min.Y && p.Y+r <= bounds.Max.Y
	if c.Dim == 3 {
		in = in && p.Z-r >= bounds.Min.Z && p.Z+r <= bounds.Max.Z
	}
	return in
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
