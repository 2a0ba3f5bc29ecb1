package metaball

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ms3.Vec{X: 10, Y: 10, Z: 10}, cfg.Domain())
	b := cfg.Bounds()
	assert.True(t, equalVec(ms3.Vec{X: 1, Y: 1, Z: 1}, b.Min, 1e-6), b.Min)
	assert.True(t, equalVec(ms3.Vec{X: 9, Y: 9, Z: 9}, b.Max, 1e-6), b.Max)
}

func TestConfigSortsRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RadiusMin, cfg.RadiusMax = 1.5, 0.5
	cfg.SpeedMin, cfg.SpeedMax = 4, 2
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float32(0.5), cfg.RadiusMin)
	assert.Equal(t, float32(1.5), cfg.RadiusMax)
	assert.Equal(t, float32(2), cfg.SpeedMin)
	assert.Equal(t, float32(4), cfg.SpeedMax)
}

func TestConfigDomain2D(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dim = 2
	cfg.SizeX = 20
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ms3.Vec{X: 20, Y: 10}, cfg.Domain())
	assert.Equal(t, float32(0), cfg.Bounds().Size().Z)
}

func TestConfigValidateErrors(t *testing.T) {
	for name, modify := range map[string]func(*Config){
		"dim":           func(c *Config) { c.Dim = 4 },
		"resolution":    func(c *Config) { c.Resolution = 1 },
		"size":          func(c *Config) { c.Size = -1 },
		"negativeAxis":  func(c *Config) { c.SizeY = -2 },
		"negativeSize":  func(c *Config) { c.Size = -1; c.SizeX, c.SizeY, c.SizeZ = 4, 4, 4 },
		"count":         func(c *Config) { c.Count = -1 },
		"boundsZero":    func(c *Config) { c.BoundsFraction = 0 },
		"boundsLarge":   func(c *Config) { c.BoundsFraction = 1.5 },
		"speed":         func(c *Config) { c.SpeedMin, c.SpeedMax = -1, 1 },
		"radiusZero":    func(c *Config) { c.RadiusMin = 0 },
		"radiusTooBig":  func(c *Config) { c.RadiusMax = 5 },
		"ballRadius":    func(c *Config) { c.Balls = []Metaball{{Center: ms3.Vec{X: 5, Y: 5, Z: 5}}} },
		"ballOutside":   func(c *Config) { c.Balls = []Metaball{{Center: ms3.Vec{X: 1, Y: 5, Z: 5}, Radius: 1}} },
		"ballTooBig":    func(c *Config) { c.Balls = []Metaball{{Center: ms3.Vec{X: 5, Y: 5, Z: 5}, Radius: 4.5}} },
		"ballOutsideZ":  func(c *Config) { c.Balls = []Metaball{{Center: ms3.Vec{X: 5, Y: 5, Z: 9.5}, Radius: 1}} },
		"emptyAxisSize": func(c *Config) { c.Size = 0; c.SizeX = 1; c.SizeY = 1 },
	} {
		cfg := DefaultConfig()
		modify(&cfg)
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrInvalidConfig, name)
	}
}

func TestConfigZeroMetaballs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 0
	cfg.RadiusMin, cfg.RadiusMax = 0, 0
	assert.NoError(t, cfg.Validate())
}

func TestParseConfigGcfg(t *testing.T) {
	const src = `
; 2D scene with one explicit metaball.
[grid]
dim = 2
resolution = 16
size = 8

[field]
threshold = 0.5
count = 3
radiusMin = 1.2
radiusMax = 0.5
fillInterior = false

[ball "b"]
x = 4
y = 4
radius = 1
vx = 2
color = ff0000

[ball "a"]
x = 3
y = 3
radius = 0.5
`
	cfg, err := ParseConfig([]byte(src), FormatGcfg)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Dim)
	assert.Equal(t, 16, cfg.Resolution)
	assert.Equal(t, float32(8), cfg.Size)
	assert.Equal(t, float32(0.5), cfg.Threshold)
	assert.Equal(t, float32(0.5), cfg.RadiusMin)
	assert.Equal(t, float32(1.2), cfg.RadiusMax)
	assert.False(t, cfg.FillInterior)
	// Untouched values keep their defaults.
	def := DefaultConfig()
	assert.Equal(t, def.BoundsFraction, cfg.BoundsFraction)
	assert.Equal(t, def.Seed, cfg.Seed)

	require.Len(t, cfg.Balls, 2)
	// Balls are ordered by section name.
	assert.Equal(t, Metaball{
		Center: ms3.Vec{X: 3, Y: 3},
		Radius: 0.5,
		Color:  [3]float32{1, 1, 1},
	}, cfg.Balls[0])
	assert.Equal(t, Metaball{
		Center:   ms3.Vec{X: 4, Y: 4},
		Radius:   1,
		Velocity: ms3.Vec{X: 2},
		Color:    [3]float32{1, 0, 0},
	}, cfg.Balls[1])
}

func TestLoadConfigTOML(t *testing.T) {
	const src = `
[grid]
dim = 3
resolution = 10
size = 6.0

[field]
count = 0
seed = 42

[ball.one]
x = 3.0
y = 3.0
z = 3.0
radius = 1.0
vz = -1.5
color = "#00ff00"
`
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Dim)
	assert.Equal(t, 10, cfg.Resolution)
	assert.Equal(t, float32(6), cfg.Size)
	assert.Equal(t, 0, cfg.Count)
	assert.Equal(t, uint64(42), cfg.Seed)
	require.Len(t, cfg.Balls, 1)
	assert.Equal(t, Metaball{
		Center:   ms3.Vec{X: 3, Y: 3, Z: 3},
		Radius:   1,
		Velocity: ms3.Vec{Z: -1.5},
		Color:    [3]float32{0, 1, 0},
	}, cfg.Balls[0])
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig(filepath.Join(dir, "missing.cfg"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.cfg")
	require.NoError(t, os.WriteFile(bad, []byte("[grid]\nresolution = 1\n"), 0o644))
	_, err = LoadConfig(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	color := filepath.Join(dir, "color.cfg")
	require.NoError(t, os.WriteFile(color, []byte("[ball \"x\"]\nx = 5\ny = 5\nz = 5\nradius = 1\ncolor = zz\n"), 0o644))
	_, err = LoadConfig(color)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = ParseConfig(nil, "yaml")
	assert.Error(t, err)
}
