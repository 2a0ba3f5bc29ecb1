package metaball

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/metaball/march"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietSim(t *testing.T, cfg Config) *Sim {
	t.Helper()
	s, err := NewSim(cfg)
	require.NoError(t, err)
	s.SetLogger(nil)
	return s
}

func TestSimStep3D(t *testing.T) {
	s := quietSim(t, DefaultConfig())
	var mesh march.Mesh
	for i := 0; i < 10; i++ {
		s.Step(1.0/60, &mesh)
		require.NotZero(t, mesh.Len(), "tick %d", i)
		require.Len(t, mesh.Normals, len(mesh.Vertices))
		require.Len(t, mesh.Indices, len(mesh.Vertices))
		for j, idx := range mesh.Indices {
			require.Equal(t, uint32(j), idx)
		}
	}
	assert.Equal(t, 10, s.Ticks())
}

func TestSimFullCells2D(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dim = 2
	cfg.Resolution = 3
	cfg.Size = 2
	cfg.BoundsFraction = 1
	cfg.Threshold = 0.4
	cfg.Balls = []Metaball{{Center: ms3.Vec{X: 1, Y: 1, Z: 7}, Radius: 1, Velocity: ms3.Vec{Z: 3}}}
	s := quietSim(t, cfg)
	assert.Equal(t, float32(0), s.Field().Metaball(0).Center.Z)
	assert.Equal(t, float32(0), s.Field().Metaball(0).Velocity.Z)

	g := s.Refresh()
	for _, v := range g.Vertices() {
		require.True(t, v.Inside, "vertex %v", v)
	}
	mesh := s.BuildMesh()
	assert.Equal(t, 2*g.Cells(), mesh.Len())
	assert.Empty(t, mesh.Normals)
	for _, p := range mesh.Vertices {
		assert.Equal(t, float32(0), p.Z)
		assert.True(t, p.X == 0 || p.X == 1 || p.X == 2, p)
		assert.True(t, p.Y == 0 || p.Y == 1 || p.Y == 2, p)
	}

	cfg.FillInterior = false
	require.NoError(t, s.Configure(cfg))
	s.Refresh()
	empty := s.BuildMesh()
	assert.Zero(t, empty.Len())
}

func TestSimBuildMeshIdempotent(t *testing.T) {
	s := quietSim(t, DefaultConfig())
	s.Advance(0.25)
	s.Refresh()
	first := s.BuildMesh()
	second := s.BuildMesh()
	assert.Equal(t, first, second)

	// The returned mesh does not alias simulation buffers.
	saved := first.Clone()
	s.Step(0.5, &march.Mesh{})
	assert.Equal(t, saved, first)
}

func TestSimConfigure(t *testing.T) {
	cfg := DefaultConfig()
	s := quietSim(t, cfg)
	s.Step(0.1, &march.Mesh{})

	bad := cfg
	bad.Resolution = 0
	require.ErrorIs(t, s.Configure(bad), ErrInvalidConfig)
	assert.Equal(t, cfg.Resolution, s.Config().Resolution)
	assert.Equal(t, 1, s.Ticks())

	small := cfg
	small.Resolution = 8
	small.Count = 2
	require.NoError(t, s.Configure(small))
	assert.Equal(t, 0, s.Ticks())
	assert.Equal(t, 2, s.Field().Len())
	g := s.Refresh()
	assert.Len(t, g.Vertices(), 8*8*8)
}

func TestSimDebugSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resolution = 6
	s := quietSim(t, cfg)
	s.Refresh()
	var snap DebugSnapshot
	s.DebugSnapshot(&snap)
	n := 6 * 6 * 6
	require.Len(t, snap.Positions, n)
	require.Len(t, snap.Values, n)
	require.Len(t, snap.Inside, n)
	assert.Len(t, snap.Metaballs, cfg.Count)
	assert.Equal(t, cfg.Bounds(), snap.Bounds)
	for i := range snap.Values {
		assert.Equal(t, snap.Values[i] > cfg.Threshold, snap.Inside[i])
	}
	// Buffers are reused.
	p := &snap.Positions[0]
	s.DebugSnapshot(&snap)
	assert.Same(t, p, &snap.Positions[0])
}

func TestSimUniforms(t *testing.T) {
	s := quietSim(t, DefaultConfig())
	u := s.Uniforms()
	require.Equal(t, s.Field().Len(), u.Count())
	for i := 0; i < u.Count(); i++ {
		b := s.Field().Metaball(i)
		assert.Equal(t, [4]float32{b.Center.X, b.Center.Y, b.Center.Z, b.Radius}, u.Balls[i])
		assert.Equal(t, [4]float32{1, 1, 1, 1}, u.Colors[i])
	}
	data, err := u.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, 4+32*u.Count())
	assert.Equal(t, []byte{byte(u.Count()), 0, 0, 0}, data[:4])

	var got Uniforms
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, u.Balls, got.Balls)
	assert.Equal(t, u.Colors, got.Colors)
	assert.Error(t, got.UnmarshalBinary(data[:len(data)-1]))
	assert.Error(t, got.UnmarshalBinary(nil))
}

func TestSimLogging(t *testing.T) {
	var buf bytes.Buffer
	s := quietSim(t, DefaultConfig())
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s.Step(0.1, &march.Mesh{})
	assert.Contains(t, buf.String(), "built mesh")
	assert.Contains(t, buf.String(), "triangles=")
}
