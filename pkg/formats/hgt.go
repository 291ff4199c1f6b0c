package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Freshhand-j/osgearth/pkg/elevation"
	"github.com/Freshhand-j/osgearth/pkg/srs"
	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// HGT format errors.
var (
	ErrInvalidHGTSize = errors.New("invalid HGT size: expected a square grid of 16-bit samples")
	ErrInvalidHGTName = errors.New("invalid HGT name: expected [NS]dd[EW]ddd.hgt")
)

// HGTVoid marks a missing sample in an SRTM tile.
const HGTVoid = math.MinInt16

// HGT is a parsed SRTM height tile covering one degree square. Samples are
// stored north row first, as in the file.
type HGT struct {
	Size    int
	Samples []int16

	// South-west corner in whole degrees, known when parsed from a named file.
	South, West int
	HasOrigin   bool
}

// ParseHGT parses raw big-endian SRTM samples.
func ParseHGT(data []byte) (*HGT, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidHGTSize, len(data))
	}
	count := len(data) / 2
	size := int(math.Sqrt(float64(count)))
	if size < 2 || size*size != count {
		return nil, fmt.Errorf("%w: %d samples", ErrInvalidHGTSize, count)
	}

	samples := make([]int16, count)
	for i := range samples {
		samples[i] = int16(binary.BigEndian.Uint16(data[2*i:]))
	}
	return &HGT{Size: size, Samples: samples}, nil
}

// ParseHGTName extracts the south-west corner from a tile name such as
// "N37W122.hgt".
func ParseHGTName(name string) (south, west int, err error) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if len(base) != 7 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidHGTName, name)
	}
	base = strings.ToUpper(base)

	lat, err := strconv.Atoi(base[1:3])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidHGTName, name)
	}
	lon, err := strconv.Atoi(base[4:7])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidHGTName, name)
	}

	switch base[0] {
	case 'N':
	case 'S':
		lat = -lat
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidHGTName, name)
	}
	switch base[3] {
	case 'E':
	case 'W':
		lon = -lon
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidHGTName, name)
	}

	if lat < -90 || lat > 89 || lon < -180 || lon > 179 {
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrInvalidHGTName, name)
	}
	return lat, lon, nil
}

// ParseHGTFile reads an SRTM tile from disk. The corner is taken from the
// file name when it follows the SRTM naming scheme.
func ParseHGTFile(path string) (*HGT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading HGT file: %w", err)
	}
	h, err := ParseHGT(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if south, west, err := ParseHGTName(path); err == nil {
		h.South, h.West, h.HasOrigin = south, west, true
	}
	return h, nil
}

// At returns the sample at (col, row), row 0 being the northern edge.
// Returns HGTVoid if out of bounds.
func (h *HGT) At(col, row int) int16 {
	if col < 0 || row < 0 || col >= h.Size || row >= h.Size {
		return HGTVoid
	}
	return h.Samples[row*h.Size+col]
}

// HeightField converts the tile to a south-first grid with voids mapped to
// elevation.NoDataValue.
func (h *HGT) HeightField() *elevation.HeightField {
	hf := &elevation.HeightField{
		Columns: h.Size,
		Rows:    h.Size,
		Heights: make([]float32, len(h.Samples)),
	}
	for row := range h.Size {
		src := h.Samples[(h.Size-1-row)*h.Size:][:h.Size]
		dst := hf.Heights[row*h.Size:][:h.Size]
		for col, v := range src {
			if v == HGTVoid {
				dst[col] = elevation.NoDataValue
			} else {
				dst[col] = float32(v)
			}
		}
	}
	return hf
}

// Extent returns the geographic degree square covered by the tile.
func (h *HGT) Extent() tile.Extent {
	s, w := float64(h.South), float64(h.West)
	return tile.NewExtent(srs.Geographic(), w, s, w+1, s+1)
}

// GeoHeightField places the tile over its degree square. It needs the corner
// from the file name.
func (h *HGT) GeoHeightField() (*elevation.GeoHeightField, error) {
	if !h.HasOrigin {
		return nil, fmt.Errorf("%w: tile has no origin", ErrInvalidHGTName)
	}
	return &elevation.GeoHeightField{HeightField: *h.HeightField(), Extent: h.Extent()}, nil
}
