package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/metaball/march"
)

// View configures the camera and output of a shaded mesh preview.
type View struct {
	Width, Height int
	// Supersample renders at a multiple of the output size and downsamples for antialiasing.
	Supersample int
	// Eye, LookAt and Up position the camera relative to the mesh fitted in [-1,1]^3.
	Eye, LookAt, Up ms3.Vec
	Fovy            float32
	Near, Far       float32
	// Color and Background are hex colors.
	Color, Background string
}

// DefaultView looks at the mesh from an oblique angle above it.
func DefaultView() View {
	return View{
		Width:       800,
		Height:      600,
		Supersample: 2,
		Eye:         ms3.Vec{X: 3, Y: 2.2, Z: 2.6},
		Up:          ms3.Vec{Z: 1},
		Fovy:        30,
		Near:        1,
		Far:         20,
		Color:       "#468966",
		Background:  "#FFF8E3",
	}
}

// Image rasterizes a 3D mesh with Phong shading. Per vertex normals are used
// when the mesh has them, face normals otherwise.
func Image(m *march.Mesh, view View) (image.Image, error) {
	if m.Len() == 0 {
		return nil, errors.New("empty mesh")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("invalid image size")
	}
	scale := max(view.Supersample, 1)
	hasNormals := len(m.Normals) == len(m.Vertices)
	tris := make([]*fauxgl.Triangle, 0, m.Len())
	for i := 0; i < m.Len(); i++ {
		idx := m.Indices[3*i : 3*i+3]
		var v [3]fauxgl.Vertex
		fn := faceNormal(m.Triangle(i))
		for j := range v {
			v[j].Position = fauxglVec(m.Vertices[idx[j]])
			if hasNormals && m.Normals[idx[j]] != (ms3.Vec{}) {
				v[j].Normal = fauxglVec(m.Normals[idx[j]])
			} else {
				v[j].Normal = fn
			}
		}
		tris = append(tris, fauxgl.NewTriangle(v[0], v[1], v[2]))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	// Fit mesh in a bi-unit cube centered at the origin.
	mesh.BiUnitCube()

	var (
		eye    = fauxglVec(view.Eye)
		center = fauxglVec(view.LookAt)
		up     = fauxglVec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		w, h   = view.Width * scale, view.Height * scale
	)
	context := fauxgl.NewContext(w, h)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(float64(view.Fovy), aspect, float64(view.Near), float64(view.Far))
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// CreatePNG rasterizes a 3D mesh and saves it as a PNG file at path.
func CreatePNG(path string, m *march.Mesh, view View) error {
	img, err := Image(m, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fauxglVec(v ms3.Vec) fauxgl.Vector {
	return fauxgl.V(float64(v.X), float64(v.Y), float64(v.Z))
}

func faceNormal(t ms3.Triangle) fauxgl.Vector {
	n := t.Normal()
	if l := ms3.Norm(n); l > 0 {
		return fauxglVec(ms3.Scale(1/l, n))
	}
	return fauxgl.Vector{}
}
