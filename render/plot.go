package render

import (
	"errors"
	"image/color"
	"io"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/metaball"
	"github.com/soypat/metaball/march"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	meshFill    = color.RGBA{R: 0x46, G: 0x89, B: 0x66, A: 0xff}
	outlineGray = color.Gray{Y: 0x60}
)

// Plot2D returns a plot of a 2D mesh's triangles filled in, overlaid with the
// outline of every metaball and the collision bounds. balls may be empty.
func Plot2D(m *march.Mesh, balls []metaball.Metaball, bounds ms3.Box) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	if m.Len() > 0 {
		rings := make([]plotter.XYer, 0, m.Len())
		for i := 0; i < m.Len(); i++ {
			t := m.Triangle(i)
			rings = append(rings, plotter.XYs{
				{X: float64(t[0].X), Y: float64(t[0].Y)},
				{X: float64(t[1].X), Y: float64(t[1].Y)},
				{X: float64(t[2].X), Y: float64(t[2].Y)},
			})
		}
		poly, err := plotter.NewPolygon(rings...)
		if err != nil {
			return nil, err
		}
		poly.Color = meshFill
		poly.LineStyle.Width = 0
		p.Add(poly)
	}
	for _, b := range balls {
		const segments = 64
		pts := make(plotter.XYs, segments+1)
		for i := range pts {
			s, c := math32.Sincos(2 * math32.Pi * float32(i) / segments)
			pts[i].X = float64(b.Center.X + b.Radius*c)
			pts[i].Y = float64(b.Center.Y + b.Radius*s)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = outlineGray
		line.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		p.Add(line)
	}
	box, err := plotter.NewLine(plotter.XYs{
		{X: float64(bounds.Min.X), Y: float64(bounds.Min.Y)},
		{X: float64(bounds.Max.X), Y: float64(bounds.Min.Y)},
		{X: float64(bounds.Max.X), Y: float64(bounds.Max.Y)},
		{X: float64(bounds.Min.X), Y: float64(bounds.Max.Y)},
		{X: float64(bounds.Min.X), Y: float64(bounds.Min.Y)},
	})
	if err != nil {
		return nil, err
	}
	box.LineStyle.Color = color.Black
	p.Add(box)
	return p, nil
}

// WritePlot2D encodes the Plot2D of a mesh to w. format is one of the formats
// accepted by gonum's plot package such as "png" or "svg".
func WritePlot2D(w io.Writer, format string, m *march.Mesh, balls []metaball.Metaball, bounds ms3.Box) error {
	if m.Len() == 0 && len(balls) == 0 {
		return errors.New("nothing to plot")
	}
	p, err := Plot2D(m, balls, bounds)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
