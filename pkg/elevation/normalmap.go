package elevation

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	emath "github.com/Freshhand-j/osgearth/pkg/math"
)

// NormalMap is a row-major grid of octahedrally packed normals. Texel (0, 0)
// is the south-west corner of the tile.
type NormalMap struct {
	Width  int
	Height int
	Packed []mgl32.Vec2
}

// NewNormalMap allocates a map with every texel set to the packed up vector.
func NewNormalMap(width, height int) *NormalMap {
	up := emath.PackNormal(emath.Up)
	packed := make([]mgl32.Vec2, width*height)
	for i := range packed {
		packed[i] = up
	}
	return &NormalMap{Width: width, Height: height, Packed: packed}
}

// At returns the packed normal at texel (s, t).
func (m *NormalMap) At(s, t int) mgl32.Vec2 {
	return m.Packed[t*m.Width+s]
}

// Set stores a packed normal at texel (s, t).
func (m *NormalMap) Set(s, t int, p mgl32.Vec2) {
	m.Packed[t*m.Width+s] = p
}

// Normal decodes the unit normal at texel (s, t).
func (m *NormalMap) Normal(s, t int) mgl64.Vec3 {
	return emath.UnpackNormal(m.At(s, t))
}

// RG8 returns the map as two unsigned bytes per texel in row order, ready for
// an RG8 texture upload.
func (m *NormalMap) RG8() []byte {
	buf := make([]byte, 0, 2*len(m.Packed))
	for _, p := range m.Packed {
		buf = append(buf, emath.QuantizeUnorm8(p[0]), emath.QuantizeUnorm8(p[1]))
	}
	return buf
}

// Image renders the map for viewing: packed x in red, packed y in green.
// The image is flipped so that north is at the top.
func (m *NormalMap) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for t := range m.Height {
		for s := range m.Width {
			p := m.At(s, t)
			img.SetNRGBA(s, m.Height-1-t, color.NRGBA{
				R: emath.QuantizeUnorm8(p[0]),
				G: emath.QuantizeUnorm8(p[1]),
				A: 0xff,
			})
		}
	}
	return img
}
