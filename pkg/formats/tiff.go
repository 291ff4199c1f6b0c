package formats

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"golang.org/x/image/tiff"

	"github.com/Freshhand-j/osgearth/pkg/elevation"
)

// ErrUnsupportedTIFF is returned for TIFF images that are not single-band gray.
var ErrUnsupportedTIFF = errors.New("unsupported TIFF: expected 8 or 16 bit grayscale")

// DecodeTIFF reads a grayscale TIFF as raw sample heights. The image's top
// row becomes the last (northern) grid row.
func DecodeTIFF(r io.Reader) (*elevation.HeightField, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding TIFF: %w", err)
	}

	var sample func(x, y int) float32
	switch g := img.(type) {
	case *image.Gray16:
		sample = func(x, y int) float32 { return float32(g.Gray16At(x, y).Y) }
	case *image.Gray:
		sample = func(x, y int) float32 { return float32(g.GrayAt(x, y).Y) }
	default:
		return nil, fmt.Errorf("%w: got %T", ErrUnsupportedTIFF, img)
	}

	b := img.Bounds()
	hf, err := elevation.NewHeightField(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for row := range hf.Rows {
		y := b.Max.Y - 1 - row
		for col := range hf.Columns {
			hf.Set(col, row, sample(b.Min.X+col, y))
		}
	}
	return hf, nil
}

// EncodeTIFF writes a heightfield as a 16-bit grayscale TIFF, north row on
// top. Heights are rounded and clamped to [0, 65535]; no-data becomes 0.
func EncodeTIFF(w io.Writer, hf *elevation.HeightField) error {
	if !hf.Valid() {
		return elevation.ErrDegenerateHeightField
	}

	img := image.NewGray16(image.Rect(0, 0, hf.Columns, hf.Rows))
	for row := range hf.Rows {
		y := hf.Rows - 1 - row
		for col := range hf.Columns {
			v := float64(hf.At(col, row))
			if elevation.IsNoData(v) {
				v = 0
			}
			v = math.Round(math.Max(0, math.Min(v, math.MaxUint16)))
			off := img.PixOffset(col, y)
			img.Pix[off] = uint8(uint16(v) >> 8)
			img.Pix[off+1] = uint8(uint16(v))
		}
	}
	if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("encoding TIFF: %w", err)
	}
	return nil
}
