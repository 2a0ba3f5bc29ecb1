// Package render hands metaball meshes to consumers outside the simulation:
// binary STL files, shaded PNG previews, 2D plots and a reference mesher.
package render

import (
	"github.com/soypat/glgl/math/ms3"
)

// Renderer is a source of triangles. ReadTriangles fills dst and returns the
// number of triangles written. io.EOF is returned once no triangles remain.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle) (int, error)
}
