package march

import "github.com/soypat/glgl/math/ms3"

// Cell points referenced by the marching squares table. Corners are named by their
// x,y offset from the cell origin. Edge points are the interpolated crossings of the
// corner's X edge (towards +x) or Y edge (towards +y).
const (
	c00 sqPoint = iota
	c10
	c11
	c01
	x00 // c00-c10
	y00 // c00-c01
	x01 // c01-c11
	y10 // c10-c11
)

type sqPoint uint8

type sqShape uint8

const (
	shapeNone sqShape = iota
	shapeTriangle
	shapeQuad
	shapePentagon
	shapeTwoTriangles
)

// points returns the number of cell points a shape consumes.
func (s sqShape) points() int {
	return [...]int{0, 3, 4, 5, 6}[s]
}

// triangles returns the number of triangles a shape emits.
func (s sqShape) triangles() int {
	return [...]int{0, 1, 2, 3, 2}[s]
}

type squareCase struct {
	shape sqShape
	pts   [6]sqPoint
}

// squareCases is indexed by the cell code built from corner states:
// bit 0 c00, bit 1 c10, bit 2 c11, bit 3 c01.
// Codes 5 and 10 (opposite corners) are emitted as two independent corner triangles
// without sampling the cell center.
var squareCases = [16]squareCase{
	0:  {},
	1:  {shapeTriangle, [6]sqPoint{c00, y00, x00}},
	2:  {shapeTriangle, [6]sqPoint{x00, y10, c10}},
	3:  {shapeQuad, [6]sqPoint{c00, c10, y10, y00}},
	4:  {shapeTriangle, [6]sqPoint{y10, x01, c11}},
	5:  {shapeTwoTriangles, [6]sqPoint{x01, c11, y10, c00, y00, x00}},
	6:  {shapeQuad, [6]sqPoint{x00, c10, c11, x01}},
	7:  {shapePentagon, [6]sqPoint{y00, c00, c10, c11, x01}},
	8:  {shapeTriangle, [6]sqPoint{c01, x01, y00}},
	9:  {shapeQuad, [6]sqPoint{c00, x00, x01, c01}},
	10: {shapeTwoTriangles, [6]sqPoint{c01, x01, y00, x00, c10, y10}},
	11: {shapePentagon, [6]sqPoint{x01, c01, c00, c10, y10}},
	12: {shapeQuad, [6]sqPoint{c01, y00, y10, c11}},
	13: {shapePentagon, [6]sqPoint{c11, c01, c00, x00, y10}},
	14: {shapePentagon, [6]sqPoint{c10, c11, c01, y00, x00}},
	15: {shapeQuad, [6]sqPoint{c00, c10, c11, c01}},
}

// SquareCode returns the 4 bit marching squares code of a cell given its corners.
func SquareCode(v00, v10, v11, v01 *Vertex) uint8 {
	var code uint8
	if v00.Inside {
		code |= 1
	}
	if v10.Inside {
		code |= 2
	}
	if v11.Inside {
		code |= 4
	}
	if v01.Inside {
		code |= 8
	}
	return code
}

// SquareTriangles returns the amount of triangles emitted for a marching squares code.
func SquareTriangles(code uint8, fillInterior bool) int {
	if code == 15 && !fillInterior {
		return 0
	}
	return squareCases[code&15].shape.triangles()
}

// MarchSquares appends the marching squares triangulation of a 2D grid to dst.
// When fillInterior is false cells with all corners inside emit no triangles.
// MarchSquares panics if g is not two dimensional.
func MarchSquares(dst *Mesh, g *Grid, fillInterior bool) {
	if g.dim != 2 {
		panic("MarchSquares requires a 2D grid")
	}
	n := g.res
	thr := g.threshold
	var pts [6]ms3.Vec
	for y := 0; y < n-1; y++ {
		for x := 0; x < n-1; x++ {
			v00 := &g.verts[y*n+x]
			v10 := &g.verts[y*n+(x+1)]
			v01 := &g.verts[(y+1)*n+x]
			v11 := &g.verts[(y+1)*n+(x+1)]
			code := SquareCode(v00, v10, v11, v01)
			sc := &squareCases[code]
			if sc.shape == shapeNone || (code == 15 && !fillInterior) {
				continue
			}
			for i, p := range sc.pts[:sc.shape.points()] {
				switch p {
				case c00:
					pts[i] = v00.Pos
				case c10:
					pts[i] = v10.Pos
				case c11:
					pts[i] = v11.Pos
				case c01:
					pts[i] = v01.Pos
				case x00:
					pts[i] = Interpolate(v00, v10, thr)
				case y00:
					pts[i] = Interpolate(v00, v01, thr)
				case x01:
					pts[i] = Interpolate(v01, v11, thr)
				case y10:
					pts[i] = Interpolate(v10, v11, thr)
				}
			}
			switch sc.shape {
			case shapeTriangle:
				dst.AddTriangle(pts[0], pts[1], pts[2])
			case shapeQuad:
				dst.addQuad(pts[0], pts[1], pts[2], pts[3])
			case shapePentagon:
				dst.addPentagon(pts[0], pts[1], pts[2], pts[3], pts[4])
			case shapeTwoTriangles:
				dst.AddTriangle(pts[0], pts[1], pts[2])
				dst.AddTriangle(pts[3], pts[4], pts[5])
			}
		}
	}
}
