package march

import "github.com/soypat/glgl/math/ms3"

// CubeMask returns the 8 bit marching cubes mask of the cube whose origin corner
// is at lattice coordinates i, j, k.
func (g *Grid) CubeMask(i, j, k int) uint8 {
	origin := g.At(i, j, k)
	var mask uint8
	for c, off := range mcCornerOffsets {
		if g.neighbor(origin, off[0], off[1], off[2]).Inside {
			mask |= 1 << c
		}
	}
	return mask
}

// CubeTriangles returns the amount of triangles emitted for a marching cubes mask.
func CubeTriangles(mask uint8) int {
	return len(mcTriangleTable[mask]) / 3
}

// MarchCubes appends the marching cubes triangulation of a 3D grid to dst.
// Each emitted vertex gets the normal nf reports at the interpolated position.
// If nf is nil the triangle's face normal is used instead.
// MarchCubes panics if g is not three dimensional.
func MarchCubes(dst *Mesh, g *Grid, nf Normaler) {
	if g.dim != 3 {
		panic("MarchCubes requires a 3D grid")
	}
	n := g.res
	thr := g.threshold
	var (
		corners  [8]*Vertex
		edgePts  [12]ms3.Vec
		resolved uint16
	)
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1; j++ {
			for k := 0; k < n-1; k++ {
				origin := &g.verts[(i*n+j)*n+k]
				var mask uint8
				for c, off := range mcCornerOffsets {
					corners[c] = g.neighbor(origin, off[0], off[1], off[2])
					if corners[c].Inside {
						mask |= 1 << c
					}
				}
				edges := mcTriangleTable[mask]
				if len(edges) == 0 {
					continue
				}
				resolved = 0
				for _, e := range edges {
					if resolved&(1<<e) != 0 {
						continue
					}
					ends := mcEdgeCorners[e]
					edgePts[e] = Interpolate(corners[ends[0]], corners[ends[1]], thr)
					resolved |= 1 << e
				}
				for t := 0; t < len(edges); t += 3 {
					a, b, c := edgePts[edges[t]], edgePts[edges[t+1]], edgePts[edges[t+2]]
					dst.AddTriangle(a, b, c)
					if nf != nil {
						dst.Normals = append(dst.Normals, nf.Normal(a), nf.Normal(b), nf.Normal(c))
					} else {
						fn := faceNormal(ms3.Triangle{a, b, c})
						dst.Normals = append(dst.Normals, fn, fn, fn)
					}
				}
			}
		}
	}
}

func faceNormal(t ms3.Triangle) ms3.Vec {
	n := t.Normal()
	if l := ms3.Norm(n); l > 0 {
		return ms3.Scale(1/l, n)
	}
	return ms3.Vec{}
}
