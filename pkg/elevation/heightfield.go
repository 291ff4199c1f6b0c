package elevation

import (
	"errors"
	"fmt"

	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// ErrDegenerateHeightField is returned for grids smaller than 2x2.
var ErrDegenerateHeightField = errors.New("heightfield needs at least 2x2 samples")

// HeightField is a row-major grid of heights. Row 0 lies on the southern
// (yMin) edge.
type HeightField struct {
	Columns int
	Rows    int
	Heights []float32
}

// NewHeightField allocates a zero-filled grid.
func NewHeightField(columns, rows int) (*HeightField, error) {
	if columns < 2 || rows < 2 {
		return nil, fmt.Errorf("%dx%d: %w", columns, rows, ErrDegenerateHeightField)
	}
	return &HeightField{
		Columns: columns,
		Rows:    rows,
		Heights: make([]float32, columns*rows),
	}, nil
}

// Valid reports whether the grid is at least 2x2 and fully populated.
func (h *HeightField) Valid() bool {
	return h != nil && h.Columns >= 2 && h.Rows >= 2 && len(h.Heights) == h.Columns*h.Rows
}

// At returns the height at (col, row). Indices must be in range.
func (h *HeightField) At(col, row int) float32 {
	return h.Heights[row*h.Columns+col]
}

// Set stores a height at (col, row). Indices must be in range.
func (h *HeightField) Set(col, row int, v float32) {
	h.Heights[row*h.Columns+col] = v
}

// Fill sets every sample to v.
func (h *HeightField) Fill(v float32) {
	for i := range h.Heights {
		h.Heights[i] = v
	}
}

// GeoHeightField is a heightfield placed over an extent. Column 0 and the
// last column sit on the west and east edges; row 0 and the last row sit on
// the south and north edges.
type GeoHeightField struct {
	HeightField
	Extent tile.Extent
}

// NewGeoHeightField allocates a zero-filled grid over extent.
func NewGeoHeightField(extent tile.Extent, columns, rows int) (*GeoHeightField, error) {
	hf, err := NewHeightField(columns, rows)
	if err != nil {
		return nil, err
	}
	return &GeoHeightField{HeightField: *hf, Extent: extent}, nil
}

// Valid reports whether both the grid and the extent are usable.
func (g *GeoHeightField) Valid() bool {
	return g != nil && g.HeightField.Valid() && g.Extent.Valid()
}

// Position returns the map coordinates of sample (col, row).
func (g *GeoHeightField) Position(col, row int) (x, y float64) {
	return g.Extent.Interpolate(
		float64(col)/float64(g.Columns-1),
		float64(row)/float64(g.Rows-1),
	)
}
