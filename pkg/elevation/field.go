package elevation

import (
	"math"

	emath "github.com/Freshhand-j/osgearth/pkg/math"
	"github.com/Freshhand-j/osgearth/pkg/srs"
	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// Filter selects how a Field samples between grid posts.
type Filter int

const (
	// Nearest returns the closest grid post.
	Nearest Filter = iota
	// Linear blends the four surrounding posts.
	Linear
)

func (f Filter) String() string {
	if f == Linear {
		return "linear"
	}
	return "nearest"
}

// FieldOption configures a Field.
type FieldOption func(*Field)

// WithMagFilter sets the filter used when sampling finer than the grid.
func WithMagFilter(f Filter) FieldOption {
	return func(fl *Field) { fl.magFilter = f }
}

// WithMinFilter sets the filter used when sampling coarser than the grid.
func WithMinFilter(f Filter) FieldOption {
	return func(fl *Field) { fl.minFilter = f }
}

// Field is an immutable, sampleable elevation grid over an extent.
type Field struct {
	extent  tile.Extent
	columns int
	rows    int
	heights []float32

	// per-post spacing; nil means every post uses resolution
	resolutions []float32
	resolution  float64
	units       srs.Units

	magFilter Filter
	minFilter Filter
}

// NewField builds a field from a heightfield snapshot. Heights are copied.
// When len(resolutions) == Columns*Rows the field takes ownership of the slice
// and uses it as per-post spacing; otherwise spacing is uniform,
// extent.Height()/(Rows-1) in the extent's units.
//
// A nil or invalid heightfield yields a field whose Valid reports false and
// whose samples carry NoDataValue.
func NewField(hf *GeoHeightField, resolutions []float32, opts ...FieldOption) *Field {
	f := &Field{magFilter: Linear, minFilter: Nearest, units: srs.Meters}
	for _, opt := range opts {
		opt(f)
	}
	if !hf.Valid() {
		return f
	}

	f.extent = hf.Extent
	f.columns = hf.Columns
	f.rows = hf.Rows
	f.heights = make([]float32, len(hf.Heights))
	copy(f.heights, hf.Heights)
	f.units = hf.Extent.SRS.Units()
	f.resolution = hf.Extent.Height() / float64(hf.Rows-1)
	if len(resolutions) == len(f.heights) {
		f.resolutions = resolutions
	}
	return f
}

// Valid reports whether the field holds data.
func (f *Field) Valid() bool {
	return f != nil && f.heights != nil
}

// Extent returns the area covered by the field.
func (f *Field) Extent() tile.Extent { return f.extent }

// Columns returns the number of grid posts per row.
func (f *Field) Columns() int { return f.columns }

// Rows returns the number of grid rows.
func (f *Field) Rows() int { return f.rows }

// HeightAt returns the height stored at (col, row), clamping indices.
func (f *Field) HeightAt(col, row int) float32 {
	if !f.Valid() {
		return NoDataValue
	}
	col, row = f.clampIndex(col, row)
	return f.heights[row*f.columns+col]
}

// Resolution returns the ground spacing at (col, row), clamping indices.
func (f *Field) Resolution(col, row int) srs.Distance {
	if !f.Valid() {
		return srs.NewDistance(0, f.units)
	}
	col, row = f.clampIndex(col, row)
	if f.resolutions != nil {
		return srs.NewDistance(float64(f.resolutions[row*f.columns+col]), f.units)
	}
	return srs.NewDistance(f.resolution, f.units)
}

// Elevation samples the field at map coordinates in the field's reference.
func (f *Field) Elevation(x, y float64) Sample {
	if !f.Valid() {
		return Sample{Height: NoDataValue, Resolution: srs.NewDistance(0, f.units)}
	}
	u, v := f.extent.Normalize(x, y)
	return f.ElevationUV(u, v)
}

// ElevationUV samples the field at normalized coordinates with the
// magnification filter. (0,0) is the south-west post and (1,1) the
// north-east post; coordinates outside [0,1] are clamped to the edge.
func (f *Field) ElevationUV(u, v float64) Sample {
	return f.sample(u, v, f.magFilter)
}

func (f *Field) sample(u, v float64, filter Filter) Sample {
	if !f.Valid() {
		return Sample{Height: NoDataValue, Resolution: srs.NewDistance(0, f.units)}
	}
	fx := clampUnit(u) * float64(f.columns-1)
	fy := clampUnit(v) * float64(f.rows-1)

	col, row := int(math.Round(fx)), int(math.Round(fy))
	res := f.Resolution(col, row)
	if filter == Nearest {
		return Sample{Height: float64(f.HeightAt(col, row)), Resolution: res}
	}
	return Sample{Height: f.bilinear(fx, fy, col, row), Resolution: res}
}

// bilinear blends the four posts around (fx, fy). Any no-data tap makes it
// fall back to the nearest post (nearestCol, nearestRow).
func (f *Field) bilinear(fx, fy float64, nearestCol, nearestRow int) float64 {
	c0 := min(int(fx), f.columns-2)
	r0 := min(int(fy), f.rows-2)
	tx := fx - float64(c0)
	ty := fy - float64(r0)

	sw := float64(f.heights[r0*f.columns+c0])
	se := float64(f.heights[r0*f.columns+c0+1])
	nw := float64(f.heights[(r0+1)*f.columns+c0])
	ne := float64(f.heights[(r0+1)*f.columns+c0+1])
	if IsNoData(sw) || IsNoData(se) || IsNoData(nw) || IsNoData(ne) {
		return float64(f.HeightAt(nearestCol, nearestRow))
	}

	south := emath.Lerp(sw, se, tx)
	north := emath.Lerp(nw, ne, tx)
	return emath.Lerp(south, north, ty)
}

// Resample builds a new columns x rows heightfield over extent, which must be
// in the field's reference. The magnification filter is used when the new
// grid is denser than this one, the minification filter otherwise. Posts
// outside this field clamp to its edge.
func (f *Field) Resample(extent tile.Extent, columns, rows int) (*GeoHeightField, error) {
	out, err := NewGeoHeightField(extent, columns, rows)
	if err != nil {
		return nil, err
	}
	if !f.Valid() {
		out.Fill(NoDataValue)
		return out, nil
	}

	filter := f.minFilter
	if extent.Width()/float64(columns-1) < f.extent.Width()/float64(f.columns-1) {
		filter = f.magFilter
	}

	for row := range rows {
		for col := range columns {
			x, y := out.Position(col, row)
			u, v := f.extent.Normalize(x, y)
			out.Set(col, row, float32(f.sample(u, v, filter).Height))
		}
	}
	return out, nil
}

// HeightField returns a copy of the field's grid.
func (f *Field) HeightField() *GeoHeightField {
	if !f.Valid() {
		return nil
	}
	hf := &GeoHeightField{
		HeightField: HeightField{Columns: f.columns, Rows: f.rows, Heights: make([]float32, len(f.heights))},
		Extent:      f.extent,
	}
	copy(hf.Heights, f.heights)
	return hf
}

func (f *Field) clampIndex(col, row int) (int, int) {
	return max(0, min(col, f.columns-1)), max(0, min(row, f.rows-1))
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return emath.Clamp(v, 0, 1)
}
