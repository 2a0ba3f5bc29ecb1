package render

import (
	"io"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/metaball/march"
)

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]ms3.Triangle, error) {
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, 1<<12)
	buf := make([]ms3.Triangle, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// MeshReader reads the triangles of a march.Mesh in order.
type MeshReader struct {
	mesh *march.Mesh
	next int
}

// NewMeshReader returns a Renderer over m. m must not be modified while it is read.
func NewMeshReader(m *march.Mesh) *MeshReader {
	return &MeshReader{mesh: m}
}

// ReadTriangles implements Renderer.
func (r *MeshReader) ReadTriangles(dst []ms3.Triangle) (int, error) {
	n := 0
	for n < len(dst) && r.next < r.mesh.Len() {
		dst[n] = r.mesh.Triangle(r.next)
		n++
		r.next++
	}
	if r.next >= r.mesh.Len() {
		return n, io.EOF
	}
	return n, nil
}

type triangleBuffer struct {
	buf []ms3.Triangle
}

// Read reads from this buffer.
func (b *triangleBuffer) Read(t []ms3.Triangle) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

// Write appends triangles to this buffer.
func (b *triangleBuffer) Write(t []ms3.Triangle) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangleBuffer) Len() int { return len(b.buf) }
