package metaball

import (
	"context"
	"log/slog"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/metaball/march"
)

// Sim runs a metaball simulation one tick at a time. Each tick advances the
// metaballs, samples the field over the grid and triangulates the result.
// A Sim is not safe for concurrent use.
type Sim struct {
	cfg     Config
	field   Field
	grid    march.Grid
	mesh    march.Mesh
	uniform Uniforms
	log     *slog.Logger
	ticks   int
}

// NewSim returns a simulation ready to be stepped. cfg is validated first.
func NewSim(cfg Config) (*Sim, error) {
	s := &Sim{log: slog.Default()}
	if err := s.Configure(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// SetLogger sets the logger used by the simulation. A nil logger discards output.
func (s *Sim) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	s.log = l
}

// Configure replaces the simulation parameters and restarts it. Grid and mesh
// buffers are reused. On error the simulation is left unchanged.
func (s *Sim) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	var balls []Metaball
	if len(cfg.Balls) > 0 {
		balls = append(balls, cfg.Balls...)
		if cfg.Dim == 2 {
			for i := range balls {
				balls[i].Center.Z = 0
				balls[i].Velocity.Z = 0
			}
		}
	} else {
		balls = Generate(cfg, cfg.Count)
	}
	res := cfg.Resolution
	if err := s.grid.Reset(cfg.Dim, res, ms3.Vec{}, cfg.Domain()); err != nil {
		return err
	}
	if err := s.field.Reset(cfg.Dim, cfg.Bounds(), balls); err != nil {
		return err
	}
	s.cfg = cfg
	s.ticks = 0
	s.mesh.Reset()
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log.Info("configured metaball simulation",
		slog.Int("dim", cfg.Dim),
		slog.Int("resolution", res),
		slog.Any("domain", cfg.Domain()),
		slog.Int("metaballs", len(balls)),
		slog.Float64("threshold", float64(cfg.Threshold)),
	)
	return nil
}

// Config returns the active configuration.
func (s *Sim) Config() Config { return s.cfg }

// Field returns the simulated field. It is mutated by Advance and Step.
func (s *Sim) Field() *Field { return &s.field }

// Ticks returns the number of Advance calls since the last Configure.
func (s *Sim) Ticks() int { return s.ticks }

// Advance moves the metaballs forward by dt seconds.
func (s *Sim) Advance(dt float32) {
	s.field.Advance(dt)
	s.ticks++
}

// Refresh samples the field over the grid and returns it. The returned grid is
// owned by the simulation and overwritten by the next Refresh.
func (s *Sim) Refresh() *march.Grid {
	s.grid.Refresh(&s.field, s.cfg.Threshold)
	return &s.grid
}

// BuildMesh triangulates the last refreshed grid and returns a copy of the
// result that stays valid after subsequent ticks.
func (s *Sim) BuildMesh() march.Mesh {
	s.build()
	return s.mesh.Clone()
}

// BuildMeshInto triangulates the last refreshed grid into dst reusing its buffers.
func (s *Sim) BuildMeshInto(dst *march.Mesh) {
	s.build()
	s.mesh.CopyTo(dst)
}

func (s *Sim) build() {
	s.mesh.Reset()
	if s.cfg.Dim == 2 {
		march.MarchSquares(&s.mesh, &s.grid, s.cfg.FillInterior)
	} else {
		march.MarchCubes(&s.mesh, &s.grid, &s.field)
	}
	if s.log.Enabled(context.Background(), slog.LevelDebug) {
		s.log.Debug("built mesh",
			slog.Int("tick", s.ticks),
			slog.Int("triangles", s.mesh.Len()),
			slog.Int("inside", s.insideCount()),
		)
	}
}

func (s *Sim) insideCount() (n int) {
	for _, v := range s.grid.Vertices() {
		if v.Inside {
			n++
		}
	}
	return n
}

// Step runs a full tick: Advance, Refresh and BuildMeshInto dst.
func (s *Sim) Step(dt float32, dst *march.Mesh) {
	s.Advance(dt)
	s.Refresh()
	s.BuildMeshInto(dst)
}

// DebugSnapshot holds data for drawing debug overlays of the simulation state.
type DebugSnapshot struct {
	Positions []ms3.Vec
	Values    []float32
	Inside    []bool
	Metaballs []Metaball
	Bounds    ms3.Box
	CellSize  ms3.Vec
}

// DebugSnapshot copies the lattice and metaball state as of the last Refresh
// into dst reusing its buffers.
func (s *Sim) DebugSnapshot(dst *DebugSnapshot) {
	verts := s.grid.Vertices()
	dst.Positions = dst.Positions[:0]
	dst.Values = dst.Values[:0]
	for i := range verts {
		dst.Positions = append(dst.Positions, verts[i].Pos)
		dst.Values = append(dst.Values, verts[i].Value)
	}
	dst.Inside = s.grid.States(dst.Inside[:0])
	dst.Metaballs = s.field.AppendMetaballs(dst.Metaballs[:0])
	dst.Bounds = s.field.Bounds()
	dst.CellSize = s.grid.CellSize()
}

// Uniforms returns the metaball shader data for the current state. The result
// is owned by the simulation and overwritten by the next call.
func (s *Sim) Uniforms() *Uniforms {
	s.uniform.Reset(s.field.balls)
	return &s.uniform
}
