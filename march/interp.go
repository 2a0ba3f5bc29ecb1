package march

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// minValueDelta is the smallest endpoint value difference for which an edge
// crossing is interpolated. Closer values fall back to the edge midpoint.
const minValueDelta = 1e-12

// Interpolate returns the point on the segment a-b where the linearly interpolated
// field crosses threshold. The result always lies on the segment: ties between
// the endpoint values yield the midpoint and out of range crossings are clamped.
func Interpolate(a, b *Vertex, threshold float32) ms3.Vec {
	t := crossing(a.Value, b.Value, threshold)
	return ms3.Add(a.Pos, ms3.Scale(t, ms3.Sub(b.Pos, a.Pos)))
}

// crossing returns the inverse linear interpolation parameter of threshold
// between va and vb in [0, 1].
func crossing(va, vb, threshold float32) float32 {
	dv := vb - va
	if math32.Abs(dv) < minValueDelta {
		return 0.5
	}
	t := (threshold - va) / dv
	if t < 0 || math32.IsNaN(t) {
		return 0
	} else if t > 1 {
		return 1
	}
	return t
}
