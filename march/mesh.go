package march

import "github.com/soypat/glgl/math/ms3"

// Mesh holds the output of a marching squares or cubes pass as three parallel
// buffers. Triangles never share vertices: triangle t is formed by
// Vertices[3t], Vertices[3t+1], Vertices[3t+2] and Indices holds those indices.
// Normals is only populated by 3D passes.
type Mesh struct {
	Vertices []ms3.Vec
	Normals  []ms3.Vec
	Indices  []uint32
}

// Reset empties the mesh buffers keeping their allocated capacity.
func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Normals = m.Normals[:0]
	m.Indices = m.Indices[:0]
}

// Len returns the amount of triangles in the mesh.
func (m *Mesh) Len() int { return len(m.Indices) / 3 }

// Triangle returns the i'th triangle of the mesh.
func (m *Mesh) Triangle(i int) ms3.Triangle {
	idx := m.Indices[3*i : 3*i+3]
	return ms3.Triangle{m.Vertices[idx[0]], m.Vertices[idx[1]], m.Vertices[idx[2]]}
}

// AppendTriangles appends every triangle of the mesh to dst.
func (m *Mesh) AppendTriangles(dst []ms3.Triangle) []ms3.Triangle {
	for i := 0; i < m.Len(); i++ {
		dst = append(dst, m.Triangle(i))
	}
	return dst
}

// Clone returns a deep copy of the mesh safe to keep after the source buffers are reused.
func (m *Mesh) Clone() Mesh {
	return Mesh{
		Vertices: append([]ms3.Vec(nil), m.Vertices...),
		Normals:  append([]ms3.Vec(nil), m.Normals...),
		Indices:  append([]uint32(nil), m.Indices...),
	}
}

// CopyTo copies the mesh into dst reusing dst's buffers.
func (m *Mesh) CopyTo(dst *Mesh) {
	dst.Vertices = append(dst.Vertices[:0], m.Vertices...)
	dst.Normals = append(dst.Normals[:0], m.Normals...)
	dst.Indices = append(dst.Indices[:0], m.Indices...)
}

// AddTriangle appends a triangle with three fresh sequential indices.
func (m *Mesh) AddTriangle(a, b, c ms3.Vec) {
	t := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, a, b, c)
	m.Indices = append(m.Indices, t, t+1, t+2)
}

// addQuad splits the quad a-b-c-d along the a-c diagonal.
func (m *Mesh) addQuad(a, b, c, d ms3.Vec) {
	m.AddTriangle(a, c, b)
	m.AddTriangle(a, d, c)
}

// addPentagon fans the pentagon a-b-c-d-e from e.
func (m *Mesh) addPentagon(a, b, c, d, e ms3.Vec) {
	m.AddTriangle(a, e, b)
	m.AddTriangle(b, e, c)
	m.AddTriangle(c, e, d)
}
