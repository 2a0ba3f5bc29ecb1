package metaball

import (
	"encoding/binary"
	"errors"
	"math"
)

var errShortUniforms = errors.New("uniforms: bad encoded length")

// Uniforms is the per metaball data handed to shaders: one (x, y, z, radius)
// and one (r, g, b, 1) tuple per metaball.
type Uniforms struct {
	Balls  [][4]float32
	Colors [][4]float32
}

// Count returns the number of metaballs described.
func (u *Uniforms) Count() int { return len(u.Balls) }

// Reset fills u from balls reusing its buffers.
func (u *Uniforms) Reset(balls []Metaball) {
	u.Balls = u.Balls[:0]
	u.Colors = u.Colors[:0]
	for _, b := range balls {
		u.Balls = append(u.Balls, [4]float32{b.Center.X, b.Center.Y, b.Center.Z, b.Radius})
		u.Colors = append(u.Colors, [4]float32{b.Color[0], b.Color[1], b.Color[2], 1})
	}
}

// MarshalBinary encodes u in little endian as a uint32 metaball count followed by
// every ball tuple and then every color tuple.
func (u *Uniforms) MarshalBinary() ([]byte, error) {
	return u.AppendBinary(make([]byte, 0, 4+32*len(u.Balls)))
}

// AppendBinary appends the MarshalBinary encoding of u to b.
func (u *Uniforms) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(u.Balls)))
	for _, set := range [2][][4]float32{u.Balls, u.Colors} {
		for _, tuple := range set {
			for _, f := range tuple {
				b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
			}
		}
	}
	return b, nil
}

// UnmarshalBinary decodes the MarshalBinary encoding into u.
func (u *Uniforms) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errShortUniforms
	}
	n := int(binary.LittleEndian.Uint32(data))
	data = data[4:]
	if len(data) != 32*n {
		return errShortUniforms
	}
	u.Balls = decodeTuples(u.Balls[:0], data[:16*n])
	u.Colors = decodeTuples(u.Colors[:0], data[16*n:])
	return nil
}

func decodeTuples(dst [][4]float32, data []byte) [][4]float32 {
	for len(data) >= 16 {
		var t [4]float32
		for i := range t {
			t[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		}
		dst = append(dst, t)
		data = data[16:]
	}
	return dst
}
