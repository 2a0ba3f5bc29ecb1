// Command metaballs runs a metaball simulation for a number of ticks and
// writes the final mesh as STL, a shaded PNG preview (3D) or a plot (2D).
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/metaball"
	"github.com/soypat/metaball/march"
	"github.com/soypat/metaball/render"
)

// flags
var (
	configPath = flag.String("config", "", "configuration file, .toml or gcfg (INI) format. Defaults are used if empty")
	dim        = flag.Int("dim", 0, "override configured dimension (2 or 3)")
	ticks      = flag.Int("ticks", 60, "number of simulation ticks to run")
	dt         = flag.Float64("dt", 1.0/60, "tick duration in seconds")
	outDir     = flag.String("out", ".", "output directory")
	stlOut     = flag.Bool("stl", true, "write final 3D mesh as metaballs.stl")
	pngOut     = flag.Bool("png", true, "write final 3D mesh preview as metaballs.png")
	plotOut    = flag.Bool("plot", true, "write final 2D mesh plot as metaballs.svg")
	sdfxCells  = flag.Int("sdfx", 0, "if positive also write sdfx.stl meshed by sdfx with this many cells")
	uniforms   = flag.Bool("uniforms", false, "write final metaball uniforms as uniforms.bin")
	verbose    = flag.Bool("v", false, "log per tick statistics")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: metaballs [flags]\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := run(log); err != nil {
		log.Error("metaballs failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := metaball.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = metaball.LoadConfig(*configPath)
		if err != nil {
			return err
		}
	}
	if *dim != 0 {
		cfg.Dim = *dim
	}
	if *ticks < 1 {
		return errors.New("need at least one tick")
	}
	sim, err := metaball.NewSim(cfg)
	if err != nil {
		return err
	}
	sim.SetLogger(log)

	var mesh march.Mesh
	start := time.Now()
	for i := 0; i < *ticks; i++ {
		sim.Step(float32(*dt), &mesh)
	}
	log.Info("simulation done",
		slog.Int("ticks", *ticks),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("triangles", mesh.Len()),
	)
	if mesh.Len() == 0 {
		log.Warn("final mesh is empty, no mesh output written")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	out := func(name string) string { return filepath.Join(*outDir, name) }

	cfg = sim.Config()
	if cfg.Dim == 2 && *plotOut {
		fp, err := os.Create(out("metaballs.svg"))
		if err != nil {
			return err
		}
		defer fp.Close()
		field := sim.Field()
		err = render.WritePlot2D(fp, "svg", &mesh, field.AppendMetaballs(nil), field.Bounds())
		if err != nil {
			return err
		}
		log.Info("wrote plot", slog.String("path", fp.Name()))
	}
	if cfg.Dim == 3 && mesh.Len() > 0 {
		if *stlOut {
			if err := render.CreateSTL(out("metaballs.stl"), render.NewMeshReader(&mesh)); err != nil {
				return err
			}
			log.Info("wrote STL", slog.String("path", out("metaballs.stl")))
		}
		if *pngOut {
			if err := render.CreatePNG(out("metaballs.png"), &mesh, render.DefaultView()); err != nil {
				return err
			}
			log.Info("wrote PNG", slog.String("path", out("metaballs.png")))
		}
	}
	if cfg.Dim == 3 && *sdfxCells > 0 {
		sdf := render.IsoSDF{
			Field:     sim.Field(),
			Threshold: cfg.Threshold,
			Box:       ms3.Box{Max: cfg.Domain()},
		}
		if err := render.CreateSTL(out("sdfx.stl"), render.NewSDFXRenderer(sdf, *sdfxCells)); err != nil {
			return err
		}
		log.Info("wrote sdfx reference STL", slog.String("path", out("sdfx.stl")))
	}
	if *uniforms {
		data, err := sim.Uniforms().MarshalBinary()
		if err != nil {
			return err
		}
		if err := os.WriteFile(out("uniforms.bin"), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
