package formats

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/Freshhand-j/osgearth/pkg/elevation"
)

func encodeTestTIFF(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := tiff.Encode(buf, img, nil); err != nil {
		t.Fatalf("tiff.Encode failed: %v", err)
	}
	return buf
}

func TestDecodeTIFF_Gray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 3, 2))
	img.SetGray16(0, 0, color.Gray16{Y: 1000})  // north-west
	img.SetGray16(2, 1, color.Gray16{Y: 65535}) // south-east

	hf, err := DecodeTIFF(encodeTestTIFF(t, img))
	if err != nil {
		t.Fatalf("DecodeTIFF failed: %v", err)
	}
	if hf.Columns != 3 || hf.Rows != 2 {
		t.Fatalf("expected 3x2, got %dx%d", hf.Columns, hf.Rows)
	}
	if got := hf.At(0, 1); got != 1000 {
		t.Errorf("expected north-west 1000, got %v", got)
	}
	if got := hf.At(2, 0); got != 65535 {
		t.Errorf("expected south-east 65535, got %v", got)
	}
}

func TestDecodeTIFF_Gray8(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 0, color.Gray{Y: 200})

	hf, err := DecodeTIFF(encodeTestTIFF(t, img))
	if err != nil {
		t.Fatalf("DecodeTIFF failed: %v", err)
	}
	if got := hf.At(1, 1); got != 200 {
		t.Errorf("expected 200, got %v", got)
	}
}

func TestDecodeTIFF_Unsupported(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if _, err := DecodeTIFF(encodeTestTIFF(t, img)); !errors.Is(err, ErrUnsupportedTIFF) {
		t.Errorf("expected ErrUnsupportedTIFF, got %v", err)
	}
	if _, err := DecodeTIFF(bytes.NewReader([]byte("not a tiff"))); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestDecodeTIFF_TooSmall(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 1, 4))
	if _, err := DecodeTIFF(encodeTestTIFF(t, img)); !errors.Is(err, elevation.ErrDegenerateHeightField) {
		t.Errorf("expected ErrDegenerateHeightField, got %v", err)
	}
}

func TestEncodeTIFF_RoundTrip(t *testing.T) {
	hf, err := elevation.NewHeightField(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	copy(hf.Heights, []float32{
		0, 1.4, 1.6,
		-5, 70000, elevation.NoDataValue,
		300, 301, 302,
	})

	buf := new(bytes.Buffer)
	if err := EncodeTIFF(buf, hf); err != nil {
		t.Fatalf("EncodeTIFF failed: %v", err)
	}
	got, err := DecodeTIFF(buf)
	if err != nil {
		t.Fatalf("DecodeTIFF failed: %v", err)
	}

	want := []float32{0, 1, 2, 0, 65535, 0, 300, 301, 302}
	for i, w := range want {
		if got.Heights[i] != w {
			t.Errorf("sample %d: expected %v, got %v", i, w, got.Heights[i])
		}
	}

	if err := EncodeTIFF(buf, &elevation.HeightField{Columns: 1, Rows: 1, Heights: []float32{0}}); !errors.Is(err, elevation.ErrDegenerateHeightField) {
		t.Errorf("expected ErrDegenerateHeightField, got %v", err)
	}
}
