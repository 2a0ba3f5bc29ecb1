package render

import (
	"io"

	sdfrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/metaball/march"
)

// IsoSDF exposes the iso-surface of a scalar field as an sdfx SDF3: it is
// negative where the field is inside (value > Threshold). It is not a distance.
type IsoSDF struct {
	Field     march.Field
	Threshold float32
	Box       ms3.Box
}

var _ sdf.SDF3 = IsoSDF{}

// Evaluate implements sdf.SDF3.
func (s IsoSDF) Evaluate(p v3.Vec) float64 {
	v := s.Field.Evaluate(ms3.Vec{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)})
	return float64(s.Threshold - v)
}

// BoundingBox implements sdf.SDF3.
func (s IsoSDF) BoundingBox() sdf.Box3 {
	return sdf.Box3{
		Min: v3.Vec{X: float64(s.Box.Min.X), Y: float64(s.Box.Min.Y), Z: float64(s.Box.Min.Z)},
		Max: v3.Vec{X: float64(s.Box.Max.X), Y: float64(s.Box.Max.Y), Z: float64(s.Box.Max.Z)},
	}
}

// SDFXRenderer meshes an IsoSDF with sdfx's uniform marching cubes. It serves as
// an independent reference for meshes built with march.MarchCubes.
type SDFXRenderer struct {
	sdf   IsoSDF
	cells int
	done  bool
	buf   triangleBuffer
}

// NewSDFXRenderer returns a renderer dividing the longest side of s's bounding
// box into cells marching cubes cells.
func NewSDFXRenderer(s IsoSDF, cells int) *SDFXRenderer {
	if cells < 1 {
		panic("SDFXRenderer needs at least one cell")
	}
	return &SDFXRenderer{sdf: s, cells: cells}
}

// ReadTriangles implements Renderer. The whole mesh is computed on the first call.
func (r *SDFXRenderer) ReadTriangles(dst []ms3.Triangle) (int, error) {
	if !r.done {
		r.done = true
		tris := sdfrender.ToTriangles(r.sdf, sdfrender.NewMarchingCubesUniform(r.cells))
		mesh := make([]ms3.Triangle, len(tris))
		for i, tri := range tris {
			mesh[i] = ms3.Triangle{sdfxVec(tri[0]), sdfxVec(tri[1]), sdfxVec(tri[2])}
		}
		r.buf.Write(mesh)
	}
	n := r.buf.Read(dst)
	if r.buf.Len() == 0 {
		return n, io.EOF
	}
	return n, nil
}

func sdfxVec(v v3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
