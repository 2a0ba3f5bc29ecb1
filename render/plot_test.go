package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/soypat/metaball"
	"github.com/soypat/metaball/march"
	"github.com/soypat/metaball/render"
	"gonum.org/v1/plot/cmpimg"
)

func TestWritePlot2D(t *testing.T) {
	cfg := metaball.DefaultConfig()
	cfg.Dim = 2
	cfg.Resolution = 32
	sim, err := metaball.NewSim(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sim.SetLogger(nil)
	var m march.Mesh
	sim.Step(0.1, &m)
	if m.Len() == 0 {
		t.Fatal("empty 2D mesh")
	}
	balls := sim.Field().AppendMetaballs(nil)
	bounds := sim.Field().Bounds()

	var png1, png2 bytes.Buffer
	if err := render.WritePlot2D(&png1, "png", &m, balls, bounds); err != nil {
		t.Fatal(err)
	}
	if err := render.WritePlot2D(&png2, "png", &m, balls, bounds); err != nil {
		t.Fatal(err)
	}
	equal, err := cmpimg.Equal("png", png1.Bytes(), png2.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("plot output not deterministic")
	}

	var svg bytes.Buffer
	if err := render.WritePlot2D(&svg, "svg", &m, nil, bounds); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg.String(), "<svg") {
		t.Error("svg output missing svg element")
	}
	if err := render.WritePlot2D(&svg, "png", &march.Mesh{}, nil, bounds); err == nil {
		t.Error("expected error plotting nothing")
	}
}
