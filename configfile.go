package metaball

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/glgl/math/ms3"
	"gopkg.in/gcfg.v1"
)

// Config file formats understood by ParseConfig.
const (
	FormatGcfg = "gcfg"
	FormatTOML = "toml"
)

// fileConfig is the on-disk layout of a configuration. Keys are matched to field
// names case-insensitively in both formats:
//
//	[grid]
//	dim = 3
//	resolution = 24
//	size = 10
//
//	[field]
//	threshold = 1
//	count = 5
//	radiusMin = 0.8
//
//	[ball "a"]
//	x = 5
//	y = 5
//	z = 5
//	radius = 1
type fileConfig struct {
	Grid struct {
		Dim                 int
		Resolution          int
		Size                float32
		SizeX, SizeY, SizeZ float32
	}
	Field struct {
		Threshold            float32
		Count                int
		RadiusMin, RadiusMax float32
		SpeedMin, SpeedMax   float32
		BoundsFraction       float32
		Seed                 uint64
		FillInterior         bool
	}
	Ball map[string]*BallConfig
}

// BallConfig describes an explicitly placed metaball in a config file.
type BallConfig struct {
	X, Y, Z    float32
	Radius     float32
	VX, VY, VZ float32
	// Color is a hex RGB color such as "#ff8800". Defaults to white.
	Color string
}

func (b *BallConfig) metaball(name string) (Metaball, error) {
	m := Metaball{
		Center:   ms3.Vec{X: b.X, Y: b.Y, Z: b.Z},
		Radius:   b.Radius,
		Velocity: ms3.Vec{X: b.VX, Y: b.VY, Z: b.VZ},
		Color:    [3]float32{1, 1, 1},
	}
	if b.Color != "" {
		var r, g, bl uint8
		_, err := fmt.Sscanf(strings.TrimPrefix(b.Color, "#"), "%02x%02x%02x", &r, &g, &bl)
		if err != nil {
			return m, configErr("ball %q: bad color %q: %s", name, b.Color, err)
		}
		m.Color = [3]float32{float32(r) / 255, float32(g) / 255, float32(bl) / 255}
	}
	return m, nil
}

// LoadConfig reads and validates a configuration file. Files ending in .toml are
// decoded as TOML, anything else as gcfg (INI-style). Values missing from the file
// keep their DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	format := FormatGcfg
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = FormatTOML
	}
	cfg, err := ParseConfig(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a configuration in the given format.
func ParseConfig(data []byte, format string) (Config, error) {
	def := DefaultConfig()
	var fc fileConfig
	fc.Grid.Dim = def.Dim
	fc.Grid.Resolution = def.Resolution
	fc.Grid.Size = def.Size
	fc.Field.Threshold = def.Threshold
	fc.Field.Count = def.Count
	fc.Field.RadiusMin, fc.Field.RadiusMax = def.RadiusMin, def.RadiusMax
	fc.Field.SpeedMin, fc.Field.SpeedMax = def.SpeedMin, def.SpeedMax
	fc.Field.BoundsFraction = def.BoundsFraction
	fc.Field.Seed = def.Seed
	fc.Field.FillInterior = def.FillInterior

	var err error
	switch format {
	case FormatGcfg:
		err = gcfg.ReadStringInto(&fc, string(data))
	case FormatTOML:
		err = toml.Unmarshal(data, &fc)
	default:
		return Config{}, fmt.Errorf("unknown config format %q", format)
	}
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Dim:            fc.Grid.Dim,
		Resolution:     fc.Grid.Resolution,
		Size:           fc.Grid.Size,
		SizeX:          fc.Grid.SizeX,
		SizeY:          fc.Grid.SizeY,
		SizeZ:          fc.Grid.SizeZ,
		Threshold:      fc.Field.Threshold,
		Count:          fc.Field.Count,
		RadiusMin:      fc.Field.RadiusMin,
		RadiusMax:      fc.Field.RadiusMax,
		SpeedMin:       fc.Field.SpeedMin,
		SpeedMax:       fc.Field.SpeedMax,
		BoundsFraction: fc.Field.BoundsFraction,
		Seed:           fc.Field.Seed,
		FillInterior:   fc.Field.FillInterior,
	}
	names := make([]string, 0, len(fc.Ball))
	for name := range fc.Ball {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m, err := fc.Ball[name].metaball(name)
		if err != nil {
			return Config{}, err
		}
		cfg.Balls = append(cfg.Balls, m)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
