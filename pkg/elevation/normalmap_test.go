package elevation

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func TestNewNormalMapIsUp(t *testing.T) {
	nm := NewNormalMap(3, 2)
	for i, p := range nm.Packed {
		if p != (mgl32.Vec2{0.5, 0.5}) {
			t.Errorf("texel %d: got %v, want (0.5, 0.5)", i, p)
		}
	}
	if n := nm.Normal(2, 1); !vecNear(n, mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("Normal: got %v, want up", n)
	}
}

func TestNormalMapRG8(t *testing.T) {
	nm := NewNormalMap(2, 1)
	nm.Set(1, 0, mgl32.Vec2{1, 0})

	got := nm.RG8()
	want := []byte{128, 128, 255, 0}
	if len(got) != len(want) {
		t.Fatalf("RG8 length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RG8[%d]: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestNormalMapImageNorthUp(t *testing.T) {
	nm := NewNormalMap(2, 3)
	nm.Set(0, 0, mgl32.Vec2{1, 0})

	img := nm.Image()
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("image size: got %v", b)
	}
	c := img.NRGBAAt(0, 2)
	if c.R != 255 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("south-west texel at bottom-left: got %+v", c)
	}
	c = img.NRGBAAt(0, 0)
	if c.R != 128 || c.G != 128 || c.A != 255 {
		t.Errorf("north-west texel: got %+v", c)
	}
}
